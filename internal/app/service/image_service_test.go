package service

import (
	"regexp"
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageService_RequestImageUpload(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)
	variant := s.variant(t, product.ID, "Goku", "30")

	upload, err := s.images.RequestImageUpload(variant.ID, "Front View.JPG")
	require.NoError(t, err)
	assert.Regexp(t,
		regexp.MustCompile(`^products/dragon-ball/variants/dragon-ball-goku/dragon-ball-goku_[0-9a-f]{8}\.jpg$`),
		upload.Key)
	assert.Equal(t, "https://cdn.test/"+upload.Key, upload.FileURL)
	assert.Equal(t, []string{upload.Key}, s.storage.presigned)

	tests := []struct {
		name      string
		variantID uint
		filename  string
		wantErr   error
	}{
		{"Empty filename", variant.ID, "  ", ErrInvalidFilename},
		{"Unsupported type", variant.ID, "manual.pdf", ErrInvalidImageType},
		{"No extension", variant.ID, "photo", ErrInvalidImageType},
		{"Unknown variant", 999, "front.png", ErrVariantNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.images.RequestImageUpload(tt.variantID, tt.filename)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestImageService_RequestImageUpload_WithoutStorage(t *testing.T) {
	s := setupServices(t)
	images := NewImageService(
		repository.NewImageRepository(s.db),
		repository.NewVariantRepository(s.db),
		repository.NewProductRepository(s.db),
		nil,
	)

	_, err := images.RequestImageUpload(1, "front.png")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestImageService_MainImageIsExclusive(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)
	variant := s.variant(t, product.ID, "Goku", "30")

	first, err := s.images.AddImage(variant.ID, "products/a.jpg", "front", true)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/products/a.jpg", first.URL)
	second, err := s.images.AddImage(variant.ID, "products/b.jpg", "back", true)
	require.NoError(t, err)
	third, err := s.images.AddImage(variant.ID, "products/c.jpg", "side", false)
	require.NoError(t, err)

	images, err := s.images.ListImages(variant.ID, true)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, second.ID, images[0].ID)
	assert.True(t, images[0].IsMain)
	assert.False(t, images[1].IsMain)
	assert.False(t, images[2].IsMain)
	assert.Equal(t, "https://cdn.test/products/b.jpg", images[0].URL)

	require.NoError(t, s.images.SetMainImage(third.ID))
	images, err = s.images.ListImages(variant.ID, true)
	require.NoError(t, err)
	assert.Equal(t, third.ID, images[0].ID)
	mains := 0
	for _, image := range images {
		if image.IsMain {
			mains++
		}
	}
	assert.Equal(t, 1, mains)

	require.NoError(t, s.images.DeleteImage(first.ID))
	assert.ErrorIs(t, s.images.DeleteImage(first.ID), ErrImageNotFound)
	assert.ErrorIs(t, s.images.SetMainImage(first.ID), ErrImageNotFound)

	_, err = s.images.AddImage(variant.ID, " ", "", false)
	assert.ErrorIs(t, err, ErrInvalidImageKey)
	_, err = s.images.AddImage(999, "products/x.jpg", "", false)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}
