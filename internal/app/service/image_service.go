package service

import (
	"errors"
	"path"
	"strings"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/storage"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
)

var ErrStorageUnavailable = errors.New("image storage is not configured")

// imageContentTypes maps the accepted upload extensions to their content type.
var imageContentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"gif":  "image/gif",
}

// ImageStorage presigns uploads and resolves public URLs for stored keys.
type ImageStorage interface {
	PresignUpload(key, contentType string) (*storage.PresignedURLResponse, error)
	PublicURL(key string) string
}

type ImageService interface {
	RequestImageUpload(variantID uint, filename string) (*storage.PresignedURLResponse, error)
	AddImage(variantID uint, key, altText string, isMain bool) (*model.ProductImage, error)
	ListImages(variantID uint, includeInactive bool) ([]model.ProductImage, error)
	SetMainImage(id uint) error
	DeleteImage(id uint) error
}

type imageService struct {
	imageRepo   repository.ImageRepository
	variantRepo repository.VariantRepository
	productRepo repository.ProductRepository
	storage     ImageStorage
	cache       CatalogCache
}

func NewImageService(
	imageRepo repository.ImageRepository,
	variantRepo repository.VariantRepository,
	productRepo repository.ProductRepository,
	imageStorage ImageStorage,
	cache ...CatalogCache,
) ImageService {
	var c CatalogCache
	if len(cache) > 0 {
		c = cache[0]
	}
	return &imageService{
		imageRepo:   imageRepo,
		variantRepo: variantRepo,
		productRepo: productRepo,
		storage:     imageStorage,
		cache:       c,
	}
}

func imageContentType(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", ErrInvalidFilename
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return "", ErrInvalidImageType
	}
	return contentType, nil
}

func (s *imageService) RequestImageUpload(variantID uint, filename string) (*storage.PresignedURLResponse, error) {
	contentType, err := imageContentType(filename)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		return nil, mapNotFound(err, ErrVariantNotFound)
	}
	product, err := s.productRepo.FindByID(variant.ProductID)
	if err != nil {
		return nil, mapNotFound(err, ErrProductNotFound)
	}

	key := model.ImageUploadPath(product.Slug, variant.Slug, filename, model.NewImageSuffix())

	upload, err := s.storage.PresignUpload(key, contentType)
	if err != nil {
		logger.Error("Failed to presign image upload", err, map[string]interface{}{
			"variant_id": variantID,
			"key":        key,
		})
		return nil, err
	}

	logger.Info("Image upload presigned", map[string]interface{}{
		"variant_id":   variantID,
		"key":          key,
		"content_type": contentType,
	})
	return upload, nil
}

func (s *imageService) AddImage(variantID uint, key, altText string, isMain bool) (*model.ProductImage, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrInvalidImageKey
	}

	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		return nil, mapNotFound(err, ErrVariantNotFound)
	}

	image := &model.ProductImage{
		VariantID: variant.ID,
		Image:     key,
		AltText:   strings.TrimSpace(altText),
		IsMain:    isMain,
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, err
	}
	s.fillURL(image)

	invalidateProducts(s.cache, variant.ProductID)

	logger.Info("Product image added", map[string]interface{}{
		"image_id":   image.ID,
		"variant_id": variant.ID,
		"is_main":    image.IsMain,
	})
	return image, nil
}

func (s *imageService) ListImages(variantID uint, includeInactive bool) ([]model.ProductImage, error) {
	if includeInactive {
		if _, err := s.variantRepo.FindByID(variantID); err != nil {
			return nil, mapNotFound(err, ErrVariantNotFound)
		}
	} else if err := checkVariantListed(s.variantRepo, variantID); err != nil {
		return nil, err
	}

	images, err := s.imageRepo.FindByVariantID(variantID)
	if err != nil {
		return nil, err
	}
	for i := range images {
		s.fillURL(&images[i])
	}
	return images, nil
}

// SetMainImage marks the image as its variant's main image and clears the flag
// on the others.
func (s *imageService) SetMainImage(id uint) error {
	image, err := s.imageRepo.FindByID(id)
	if err != nil {
		return mapNotFound(err, ErrImageNotFound)
	}
	if err := s.imageRepo.SetMain(id); err != nil {
		return mapNotFound(err, ErrImageNotFound)
	}

	s.invalidateVariant(image.VariantID)

	logger.Info("Main image set", map[string]interface{}{
		"image_id":   id,
		"variant_id": image.VariantID,
	})
	return nil
}

// DeleteImage removes the row only. The stored object is left in the bucket.
func (s *imageService) DeleteImage(id uint) error {
	image, err := s.imageRepo.FindByID(id)
	if err != nil {
		return mapNotFound(err, ErrImageNotFound)
	}
	if err := s.imageRepo.Delete(id); err != nil {
		return mapNotFound(err, ErrImageNotFound)
	}

	s.invalidateVariant(image.VariantID)

	logger.Info("Product image deleted", map[string]interface{}{
		"image_id":   id,
		"variant_id": image.VariantID,
	})
	return nil
}

func (s *imageService) fillURL(image *model.ProductImage) {
	if s.storage != nil {
		image.URL = s.storage.PublicURL(image.Image)
	}
}

func (s *imageService) invalidateVariant(variantID uint) {
	if s.cache == nil {
		return
	}
	variant, err := s.variantRepo.FindByID(variantID)
	if err != nil {
		invalidateProducts(s.cache)
		return
	}
	invalidateProducts(s.cache, variant.ProductID)
}
