package repository

import (
	"strings"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"gorm.io/gorm"
)

type BrandRepository interface {
	Create(brand *model.Brand) error
	FindByID(id uint) (*model.Brand, error)
	FindBySlug(slug string) (*model.Brand, error)
	FindAll(search string) ([]model.Brand, error)
	Update(brand *model.Brand) error
	Delete(id uint) error
}

type brandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(brand *model.Brand) error {
	logger.Debug("Creating brand in database", map[string]interface{}{
		"name": brand.Name,
	})

	if err := r.db.Create(brand).Error; err != nil {
		logger.Error("Failed to create brand in database", err, map[string]interface{}{
			"name": brand.Name,
			"slug": brand.Slug,
		})
		return err
	}

	logger.Debug("Brand created in database", map[string]interface{}{
		"brand_id": brand.ID,
		"slug":     brand.Slug,
	})
	return nil
}

func (r *brandRepository) FindByID(id uint) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.First(&brand, id).Error; err != nil {
		logger.Error("Failed to find brand by ID in database", err, map[string]interface{}{
			"brand_id": id,
		})
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindBySlug(slug string) (*model.Brand, error) {
	var brand model.Brand
	if err := r.db.Where("slug = ?", slug).First(&brand).Error; err != nil {
		logger.Error("Failed to find brand by slug in database", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &brand, nil
}

func (r *brandRepository) FindAll(search string) ([]model.Brand, error) {
	logger.Debug("Finding brands", map[string]interface{}{
		"search": search,
	})

	query := r.db.Model(&model.Brand{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(strings.ToLower(search)))
	}

	var brands []model.Brand
	if err := query.Order("name ASC").Find(&brands).Error; err != nil {
		logger.Error("Failed to find brands", err, nil)
		return nil, err
	}
	return brands, nil
}

func (r *brandRepository) Update(brand *model.Brand) error {
	if err := r.db.Save(brand).Error; err != nil {
		logger.Error("Failed to update brand in database", err, map[string]interface{}{
			"brand_id": brand.ID,
		})
		return err
	}
	return nil
}

// Delete removes a brand and clears it from products and variants.
func (r *brandRepository) Delete(id uint) error {
	logger.Debug("Deleting brand from database", map[string]interface{}{
		"brand_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var brand model.Brand
		if err := tx.First(&brand, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Product{}).Where("brand_id = ?", id).
			Update("brand_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.ProductVariant{}).Where("brand_id = ?", id).
			Update("brand_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Brand{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete brand from database", err, map[string]interface{}{
			"brand_id": id,
		})
		return err
	}

	logger.Debug("Brand deleted from database", map[string]interface{}{
		"brand_id": id,
	})
	return nil
}
