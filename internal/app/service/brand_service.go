package service

import (
	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
)

type BrandService interface {
	CreateBrand(name, slug string) (*model.Brand, error)
	GetBrand(id uint) (*model.Brand, error)
	GetBrandBySlug(slug string) (*model.Brand, error)
	ListBrands(search string) ([]model.Brand, error)
	UpdateBrand(id uint, name, slug *string) (*model.Brand, error)
	DeleteBrand(id uint) error
}

type brandService struct {
	brandRepo repository.BrandRepository
	cache     CatalogCache
}

func NewBrandService(brandRepo repository.BrandRepository, cache ...CatalogCache) BrandService {
	var c CatalogCache
	if len(cache) > 0 {
		c = cache[0]
	}
	return &brandService{
		brandRepo: brandRepo,
		cache:     c,
	}
}

func (s *brandService) CreateBrand(name, slug string) (*model.Brand, error) {
	name, err := checkName(name)
	if err != nil {
		return nil, err
	}
	if err := checkSlug(slug); err != nil {
		return nil, err
	}

	brand := &model.Brand{Name: name, Slug: slug}
	if err := s.brandRepo.Create(brand); err != nil {
		err = mapWriteError(err, ErrSlugConflict)
		logger.Warn("Failed to create brand", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return nil, err
	}

	logger.Info("Brand created", map[string]interface{}{
		"brand_id": brand.ID,
		"slug":     brand.Slug,
	})
	return brand, nil
}

func (s *brandService) GetBrand(id uint) (*model.Brand, error) {
	brand, err := s.brandRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrBrandNotFound)
	}
	return brand, nil
}

func (s *brandService) GetBrandBySlug(slug string) (*model.Brand, error) {
	brand, err := s.brandRepo.FindBySlug(slug)
	if err != nil {
		return nil, mapNotFound(err, ErrBrandNotFound)
	}
	return brand, nil
}

func (s *brandService) ListBrands(search string) ([]model.Brand, error) {
	return s.brandRepo.FindAll(search)
}

func (s *brandService) UpdateBrand(id uint, name, slug *string) (*model.Brand, error) {
	brand, err := s.brandRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrBrandNotFound)
	}

	if name != nil {
		n, err := checkName(*name)
		if err != nil {
			return nil, err
		}
		brand.Name = n
	}
	if slug != nil {
		if *slug == "" {
			return nil, ErrEmptySlug
		}
		if err := checkSlug(*slug); err != nil {
			return nil, err
		}
		brand.Slug = *slug
	}

	if err := s.brandRepo.Update(brand); err != nil {
		return nil, mapWriteError(err, ErrSlugConflict)
	}

	// products embed their brand
	invalidateProducts(s.cache)

	logger.Info("Brand updated", map[string]interface{}{
		"brand_id": brand.ID,
	})
	return brand, nil
}

// DeleteBrand removes the brand. Products and variants keep existing without one.
func (s *brandService) DeleteBrand(id uint) error {
	logger.Info("Deleting brand", map[string]interface{}{
		"brand_id": id,
	})

	if err := s.brandRepo.Delete(id); err != nil {
		return mapNotFound(err, ErrBrandNotFound)
	}

	invalidateProducts(s.cache)
	return nil
}
