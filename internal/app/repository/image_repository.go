package repository

import (
	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(image *model.ProductImage) error
	FindByID(id uint) (*model.ProductImage, error)
	FindByVariantID(variantID uint) ([]model.ProductImage, error)
	SetMain(id uint) error
	Delete(id uint) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func clearMainTx(tx *gorm.DB, variantID, keepID uint) error {
	return tx.Model(&model.ProductImage{}).
		Where("variant_id = ? AND id <> ? AND is_main = ?", variantID, keepID, true).
		Update("is_main", false).Error
}

func (r *imageRepository) Create(image *model.ProductImage) error {
	logger.Debug("Creating product image in database", map[string]interface{}{
		"variant_id": image.VariantID,
		"image":      image.Image,
		"is_main":    image.IsMain,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(image).Error; err != nil {
			return err
		}
		if image.IsMain {
			return clearMainTx(tx, image.VariantID, image.ID)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create product image in database", err, map[string]interface{}{
			"variant_id": image.VariantID,
		})
		return err
	}

	logger.Debug("Product image created in database", map[string]interface{}{
		"image_id": image.ID,
	})
	return nil
}

func (r *imageRepository) FindByID(id uint) (*model.ProductImage, error) {
	var image model.ProductImage
	if err := r.db.First(&image, id).Error; err != nil {
		logger.Error("Failed to find product image by ID in database", err, map[string]interface{}{
			"image_id": id,
		})
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) FindByVariantID(variantID uint) ([]model.ProductImage, error) {
	var images []model.ProductImage
	if err := r.db.Where("variant_id = ?", variantID).
		Order("is_main DESC").Order("id ASC").
		Find(&images).Error; err != nil {
		logger.Error("Failed to find product images by variant in database", err, map[string]interface{}{
			"variant_id": variantID,
		})
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) SetMain(id uint) error {
	logger.Debug("Setting main product image in database", map[string]interface{}{
		"image_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var image model.ProductImage
		if err := tx.First(&image, id).Error; err != nil {
			return err
		}
		if err := clearMainTx(tx, image.VariantID, image.ID); err != nil {
			return err
		}
		return tx.Model(&model.ProductImage{}).Where("id = ?", id).
			Update("is_main", true).Error
	})
	if err != nil {
		logger.Error("Failed to set main product image in database", err, map[string]interface{}{
			"image_id": id,
		})
		return err
	}
	return nil
}

func (r *imageRepository) Delete(id uint) error {
	result := r.db.Delete(&model.ProductImage{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product image from database", result.Error, map[string]interface{}{
			"image_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
