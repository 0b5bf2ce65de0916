package repository

import (
	"strings"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VariantFilter struct {
	ProductID  *uint
	IsMaster   *bool
	Search     string // matches name or SKU
	ActiveOnly bool   // skip variants of inactive products
}

type VariantRepository interface {
	Create(variant *model.ProductVariant) error
	FindByID(id uint) (*model.ProductVariant, error)
	FindBySKU(sku string) (*model.ProductVariant, error)
	FindWithFilter(filter VariantFilter) ([]model.ProductVariant, error)
	ProductIsActive(id uint) (bool, error)
	Update(variant *model.ProductVariant) error
	SetMaster(id uint) error
	Delete(id uint) error
}

type variantRepository struct {
	db *gorm.DB
}

func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepository{db: db}
}

// clearMasterTx unsets the master flag on every other variant of the product.
func clearMasterTx(tx *gorm.DB, productID, keepID uint) error {
	return tx.Model(&model.ProductVariant{}).
		Where("product_id = ? AND id <> ? AND is_master = ?", productID, keepID, true).
		Update("is_master", false).Error
}

// deleteVariantsTx removes variants and their images and detaches order items.
func deleteVariantsTx(tx *gorm.DB, ids []uint) error {
	if err := tx.Model(&model.OrderItem{}).Where("variant_id IN ?", ids).
		Update("variant_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("variant_id IN ?", ids).Delete(&model.ProductImage{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.ProductVariant{}).Error
}

func (r *variantRepository) Create(variant *model.ProductVariant) error {
	logger.Debug("Creating product variant in database", map[string]interface{}{
		"product_id": variant.ProductID,
		"name":       variant.Name,
		"is_master":  variant.IsMaster,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(variant).Error; err != nil {
			return err
		}
		if variant.IsMaster {
			return clearMasterTx(tx, variant.ProductID, variant.ID)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create product variant in database", err, map[string]interface{}{
			"product_id": variant.ProductID,
			"sku":        variant.SKU,
		})
		return err
	}

	logger.Debug("Product variant created in database", map[string]interface{}{
		"variant_id": variant.ID,
		"sku":        variant.SKU,
		"slug":       variant.Slug,
	})
	return nil
}

func (r *variantRepository) FindByID(id uint) (*model.ProductVariant, error) {
	logger.Debug("Finding product variant by ID in database", map[string]interface{}{
		"variant_id": id,
	})

	var variant model.ProductVariant
	if err := r.db.Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_main DESC").Order("id ASC")
		}).
		First(&variant, id).Error; err != nil {
		logger.Error("Failed to find product variant by ID in database", err, map[string]interface{}{
			"variant_id": id,
		})
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindBySKU(sku string) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := r.db.Where("sku = ?", sku).First(&variant).Error; err != nil {
		logger.Error("Failed to find product variant by SKU in database", err, map[string]interface{}{
			"sku": sku,
		})
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepository) FindWithFilter(filter VariantFilter) ([]model.ProductVariant, error) {
	logger.Debug("Finding product variants with filter", map[string]interface{}{
		"product_id": filter.ProductID,
		"is_master":  filter.IsMaster,
		"search":     filter.Search,
	})

	query := r.db.Model(&model.ProductVariant{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.IsMaster != nil {
		query = query.Where("is_master = ?", *filter.IsMaster)
	}
	if filter.Search != "" {
		like := likePattern(strings.ToLower(filter.Search))
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if filter.ActiveOnly {
		query = query.Where("product_id IN (?)",
			r.db.Model(&model.Product{}).Select("id").Where("is_active = ?", true))
	}

	var variants []model.ProductVariant
	if err := query.Order("name ASC").Order("id ASC").Find(&variants).Error; err != nil {
		logger.Error("Failed to find product variants with filter", err, nil)
		return nil, err
	}

	logger.Debug("Product variants found with filter", map[string]interface{}{
		"count": len(variants),
	})
	return variants, nil
}

// ProductIsActive reports whether the variant's product is active.
func (r *variantRepository) ProductIsActive(id uint) (bool, error) {
	var rows []bool
	err := r.db.Model(&model.ProductVariant{}).
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("product_variants.id = ?", id).
		Pluck("products.is_active", &rows).Error
	if err != nil {
		logger.Error("Failed to check product state of variant", err, map[string]interface{}{
			"variant_id": id,
		})
		return false, err
	}
	if len(rows) == 0 {
		return false, gorm.ErrRecordNotFound
	}
	return rows[0], nil
}

func (r *variantRepository) Update(variant *model.ProductVariant) error {
	logger.Debug("Updating product variant in database", map[string]interface{}{
		"variant_id": variant.ID,
		"is_master":  variant.IsMaster,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if variant.IsMaster {
			if err := clearMasterTx(tx, variant.ProductID, variant.ID); err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(variant).Error
	})
	if err != nil {
		logger.Error("Failed to update product variant in database", err, map[string]interface{}{
			"variant_id": variant.ID,
		})
		return err
	}
	return nil
}

// SetMaster flags the variant as its product's master and clears the flag on
// its siblings.
func (r *variantRepository) SetMaster(id uint) error {
	logger.Debug("Setting master variant in database", map[string]interface{}{
		"variant_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var variant model.ProductVariant
		if err := tx.First(&variant, id).Error; err != nil {
			return err
		}
		if err := clearMasterTx(tx, variant.ProductID, variant.ID); err != nil {
			return err
		}
		return tx.Model(&model.ProductVariant{}).Where("id = ?", id).
			Update("is_master", true).Error
	})
	if err != nil {
		logger.Error("Failed to set master variant in database", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}
	return nil
}

func (r *variantRepository) Delete(id uint) error {
	logger.Debug("Deleting product variant from database", map[string]interface{}{
		"variant_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var variant model.ProductVariant
		if err := tx.First(&variant, id).Error; err != nil {
			return err
		}
		return deleteVariantsTx(tx, []uint{id})
	})
	if err != nil {
		logger.Error("Failed to delete product variant from database", err, map[string]interface{}{
			"variant_id": id,
		})
		return err
	}

	logger.Debug("Product variant deleted from database", map[string]interface{}{
		"variant_id": id,
	})
	return nil
}
