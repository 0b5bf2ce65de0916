package service

import (
	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type VariantInput struct {
	ProductID   uint
	Name        string
	Slug        string // optional, derived from the product slug and Name
	SKU         string // optional, generated when empty
	BrandID     *uint
	Attributes  map[string]interface{}
	Price       *decimal.Decimal
	WeightGrams *decimal.Decimal
	IsMaster    bool
	ImageURLs   []string
}

type VariantUpdate struct {
	Name        *string
	Slug        *string
	SKU         *string
	BrandID     *uint
	ClearBrand  bool
	Attributes  map[string]interface{}
	Price       *decimal.Decimal
	WeightGrams *decimal.Decimal
	IsMaster    *bool
	ImageURLs   []string
}

type VariantService interface {
	CreateVariant(input VariantInput) (*model.ProductVariant, error)
	GetVariant(id uint, includeInactive bool) (*model.ProductVariant, error)
	ListVariants(filter repository.VariantFilter) ([]model.ProductVariant, error)
	UpdateVariant(id uint, input VariantUpdate) (*model.ProductVariant, error)
	SetMasterVariant(id uint) error
	DeleteVariant(id uint) error
}

type variantService struct {
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
	brandRepo   repository.BrandRepository
	cache       CatalogCache
}

func NewVariantService(
	variantRepo repository.VariantRepository,
	productRepo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	cache ...CatalogCache,
) VariantService {
	var c CatalogCache
	if len(cache) > 0 {
		c = cache[0]
	}
	return &variantService{
		variantRepo: variantRepo,
		productRepo: productRepo,
		brandRepo:   brandRepo,
		cache:       c,
	}
}

func checkPrice(price *decimal.Decimal) error {
	if price == nil || price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

func checkWeight(weight *decimal.Decimal) error {
	if weight != nil && weight.IsNegative() {
		return ErrInvalidWeight
	}
	return nil
}

func (s *variantService) checkBrand(id *uint) error {
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

// uniqueConflict tells a SKU clash from a slug clash after a unique violation.
func (s *variantService) uniqueConflict(variantID uint, sku string) error {
	if existing, err := s.variantRepo.FindBySKU(sku); err == nil && existing.ID != variantID {
		return ErrSKUConflict
	}
	return ErrSlugConflict
}

func (s *variantService) CreateVariant(input VariantInput) (*model.ProductVariant, error) {
	name, err := checkName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := checkSlug(input.Slug); err != nil {
		return nil, err
	}
	if err := checkPrice(input.Price); err != nil {
		return nil, err
	}
	if err := checkWeight(input.WeightGrams); err != nil {
		return nil, err
	}
	if err := s.checkBrand(input.BrandID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(input.ProductID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, invalidRef(ErrProductNotFound)
		}
		return nil, err
	}

	variant := model.NewProductVariant(product.ID, name, *input.Price)
	if input.SKU != "" {
		variant.SKU = input.SKU
	}
	variant.Slug = input.Slug
	if variant.Slug == "" {
		variant.Slug = model.VariantSlug(product.Slug, name)
	}
	variant.BrandID = input.BrandID
	variant.Attributes = datatypes.JSONMap(input.Attributes)
	variant.WeightGrams = input.WeightGrams
	variant.IsMaster = input.IsMaster
	variant.ImageURLs = model.URLList(input.ImageURLs)

	logger.Info("Creating product variant", map[string]interface{}{
		"product_id": product.ID,
		"name":       name,
		"sku":        variant.SKU,
		"is_master":  variant.IsMaster,
	})

	if err := s.variantRepo.Create(variant); err != nil {
		if apperrors.IsUniqueViolation(err) {
			err = s.uniqueConflict(0, variant.SKU)
		} else {
			err = mapWriteError(err, ErrSlugConflict)
		}
		logger.Warn("Failed to create product variant", map[string]interface{}{
			"product_id": product.ID,
			"error":      err.Error(),
		})
		return nil, err
	}

	invalidateProducts(s.cache, product.ID)

	logger.Info("Product variant created", map[string]interface{}{
		"variant_id": variant.ID,
		"sku":        variant.SKU,
		"slug":       variant.Slug,
	})
	return variant, nil
}

// GetVariant hides variants of inactive products unless includeInactive is set.
func (s *variantService) GetVariant(id uint, includeInactive bool) (*model.ProductVariant, error) {
	if !includeInactive {
		if err := checkVariantListed(s.variantRepo, id); err != nil {
			return nil, err
		}
	}
	variant, err := s.variantRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrVariantNotFound)
	}
	return variant, nil
}

// checkVariantListed answers ErrVariantNotFound for variants of inactive products.
func checkVariantListed(variants repository.VariantRepository, id uint) error {
	active, err := variants.ProductIsActive(id)
	if err != nil {
		return mapNotFound(err, ErrVariantNotFound)
	}
	if !active {
		return ErrVariantNotFound
	}
	return nil
}

func (s *variantService) ListVariants(filter repository.VariantFilter) ([]model.ProductVariant, error) {
	return s.variantRepo.FindWithFilter(filter)
}

func (s *variantService) UpdateVariant(id uint, input VariantUpdate) (*model.ProductVariant, error) {
	variant, err := s.variantRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrVariantNotFound)
	}

	if input.Name != nil {
		name, err := checkName(*input.Name)
		if err != nil {
			return nil, err
		}
		variant.Name = name
	}
	if input.Slug != nil {
		if *input.Slug == "" {
			return nil, ErrEmptySlug
		}
		if err := checkSlug(*input.Slug); err != nil {
			return nil, err
		}
		variant.Slug = *input.Slug
	}
	if input.SKU != nil {
		if *input.SKU == "" {
			return nil, ErrInvalidSKU
		}
		variant.SKU = *input.SKU
	}
	if input.Price != nil {
		if err := checkPrice(input.Price); err != nil {
			return nil, err
		}
		variant.Price = *input.Price
	}
	if input.WeightGrams != nil {
		if err := checkWeight(input.WeightGrams); err != nil {
			return nil, err
		}
		variant.WeightGrams = input.WeightGrams
	}
	switch {
	case input.ClearBrand:
		variant.BrandID = nil
	case input.BrandID != nil:
		if err := s.checkBrand(input.BrandID); err != nil {
			return nil, err
		}
		brandID := *input.BrandID
		variant.BrandID = &brandID
	}
	if input.Attributes != nil {
		variant.Attributes = datatypes.JSONMap(input.Attributes)
	}
	if input.IsMaster != nil {
		variant.IsMaster = *input.IsMaster
	}
	if input.ImageURLs != nil {
		variant.ImageURLs = model.URLList(input.ImageURLs)
	}
	variant.Brand = nil

	if err := s.variantRepo.Update(variant); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, s.uniqueConflict(variant.ID, variant.SKU)
		}
		return nil, mapWriteError(err, ErrSlugConflict)
	}

	invalidateProducts(s.cache, variant.ProductID)

	logger.Info("Product variant updated", map[string]interface{}{
		"variant_id": variant.ID,
	})
	return variant, nil
}

// SetMasterVariant makes the variant its product's master, demoting any other.
func (s *variantService) SetMasterVariant(id uint) error {
	variant, err := s.variantRepo.FindByID(id)
	if err != nil {
		return mapNotFound(err, ErrVariantNotFound)
	}

	if err := s.variantRepo.SetMaster(id); err != nil {
		return mapNotFound(err, ErrVariantNotFound)
	}

	invalidateProducts(s.cache, variant.ProductID)

	logger.Info("Master variant set", map[string]interface{}{
		"variant_id": id,
		"product_id": variant.ProductID,
	})
	return nil
}

// DeleteVariant removes the variant and its images. Order items keep their
// snapshot.
func (s *variantService) DeleteVariant(id uint) error {
	variant, err := s.variantRepo.FindByID(id)
	if err != nil {
		return mapNotFound(err, ErrVariantNotFound)
	}

	logger.Info("Deleting product variant", map[string]interface{}{
		"variant_id": id,
		"product_id": variant.ProductID,
	})

	if err := s.variantRepo.Delete(id); err != nil {
		return mapNotFound(err, ErrVariantNotFound)
	}

	invalidateProducts(s.cache, variant.ProductID)
	return nil
}
