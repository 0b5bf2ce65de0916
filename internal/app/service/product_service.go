package service

import (
	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"gorm.io/datatypes"
)

const maxProductPageSize = 100

type ProductInput struct {
	Name        string
	Slug        string
	Description string
	CategoryID  uint
	BrandID     *uint
	BaseSpecs   map[string]interface{}
	IsActive    *bool // defaults to true
}

type ProductUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	CategoryID  *uint
	BrandID     *uint
	ClearBrand  bool
	BaseSpecs   map[string]interface{}
	IsActive    *bool
}

type ProductPage struct {
	Products []model.Product `json:"products"`
	Total    int64           `json:"total"`
}

type ProductService interface {
	CreateProduct(input ProductInput) (*model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	ListProducts(filter repository.ProductFilter) (*ProductPage, error)
	UpdateProduct(id uint, input ProductUpdate) (*model.Product, error)
	DeleteProduct(id uint) error
	FlushCache()
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
	cache        CatalogCache
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	cache ...CatalogCache,
) ProductService {
	var c CatalogCache
	if len(cache) > 0 {
		c = cache[0]
	}
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		cache:        c,
	}
}

func (s *productService) checkCategory(id uint) error {
	if id == 0 {
		return ErrCategoryRequired
	}
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if apperrors.IsNotFound(err) {
			return invalidRef(ErrCategoryNotFound)
		}
		return err
	}
	return nil
}

func (s *productService) checkBrand(id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.brandRepo.FindByID(*id); err != nil {
		if apperrors.IsNotFound(err) {
			return invalidRef(ErrBrandNotFound)
		}
		return err
	}
	return nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	name, err := checkName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := checkSlug(input.Slug); err != nil {
		return nil, err
	}
	if err := s.checkCategory(input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkBrand(input.BrandID); err != nil {
		return nil, err
	}

	logger.Info("Creating product", map[string]interface{}{
		"name":        name,
		"category_id": input.CategoryID,
		"brand_id":    input.BrandID,
	})

	product := &model.Product{
		Name:        name,
		Slug:        input.Slug,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		BrandID:     input.BrandID,
		BaseSpecs:   datatypes.JSONMap(input.BaseSpecs),
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if err := s.productRepo.Create(product); err != nil {
		err = mapWriteError(err, ErrSlugConflict)
		logger.Warn("Failed to create product", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return nil, err
	}

	invalidateProducts(s.cache, product.ID)

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	var cached model.Product
	if cacheGet(s.cache, productCacheKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	cacheSet(s.cache, productCacheKey(id), product)
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (s *productService) ListProducts(filter repository.ProductFilter) (*ProductPage, error) {
	if filter.Limit <= 0 || filter.Limit > maxProductPageSize {
		filter.Limit = maxProductPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	key := productListCacheKey(filter)
	var page ProductPage
	if cacheGet(s.cache, key, &page) {
		logger.Debug("Product list served from cache", map[string]interface{}{
			"count": len(page.Products),
		})
		return &page, nil
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}

	page = ProductPage{Products: products, Total: total}
	cacheSet(s.cache, key, page)
	return &page, nil
}

func (s *productService) UpdateProduct(id uint, input ProductUpdate) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}

	if input.Name != nil {
		name, err := checkName(*input.Name)
		if err != nil {
			return nil, err
		}
		product.Name = name
	}
	if input.Slug != nil {
		if *input.Slug == "" {
			return nil, ErrEmptySlug
		}
		if err := checkSlug(*input.Slug); err != nil {
			return nil, err
		}
		product.Slug = *input.Slug
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.CategoryID != nil {
		if err := s.checkCategory(*input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}
	switch {
	case input.ClearBrand:
		product.BrandID = nil
	case input.BrandID != nil:
		if err := s.checkBrand(input.BrandID); err != nil {
			return nil, err
		}
		brandID := *input.BrandID
		product.BrandID = &brandID
	}
	if input.BaseSpecs != nil {
		product.BaseSpecs = datatypes.JSONMap(input.BaseSpecs)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	// drop loaded relations so the response reflects the new ids
	product.Category = nil
	product.Brand = nil

	if err := s.productRepo.Update(product); err != nil {
		return nil, mapWriteError(err, ErrSlugConflict)
	}

	invalidateProducts(s.cache, product.ID)

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

// DeleteProduct removes the product with its variants and their images.
func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if err := s.productRepo.Delete(id); err != nil {
		return mapNotFound(err, ErrProductNotFound)
	}

	invalidateProducts(s.cache, id)
	return nil
}

// FlushCache drops every cached product and product page.
func (s *productService) FlushCache() {
	invalidateProducts(s.cache)
}
