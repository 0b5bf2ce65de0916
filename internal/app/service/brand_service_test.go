package service

import (
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrandService_CreateAndUpdate(t *testing.T) {
	s := setupServices(t)

	brand, err := s.brands.CreateBrand("Bandai Spirits", "")
	require.NoError(t, err)
	assert.Equal(t, "bandai-spirits", brand.Slug)

	_, err = s.brands.CreateBrand("Bandai Spirits", "")
	assert.ErrorIs(t, err, ErrSlugConflict)

	_, err = s.brands.CreateBrand("", "")
	assert.ErrorIs(t, err, ErrNameRequired)

	name := "Bandai"
	updated, err := s.brands.UpdateBrand(brand.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bandai", updated.Name)
	assert.Equal(t, "bandai-spirits", updated.Slug)

	found, err := s.brands.GetBrandBySlug("bandai-spirits")
	require.NoError(t, err)
	assert.Equal(t, brand.ID, found.ID)

	brands, err := s.brands.ListBrands("band")
	require.NoError(t, err)
	assert.Len(t, brands, 1)
}

func TestBrandService_DeleteBrand_DetachesProductsAndVariants(t *testing.T) {
	s := setupServices(t)

	brand, err := s.brands.CreateBrand("Good Smile", "")
	require.NoError(t, err)
	category := s.category(t, "Figures", nil)

	product, err := s.products.CreateProduct(ProductInput{Name: "Nendoroid Miku", CategoryID: category.ID, BrandID: &brand.ID})
	require.NoError(t, err)
	variant, err := s.variants.CreateVariant(VariantInput{ProductID: product.ID, Name: "Standard", Price: price("49.99"), BrandID: &brand.ID})
	require.NoError(t, err)

	require.NoError(t, s.brands.DeleteBrand(brand.ID))

	var reloaded model.Product
	require.NoError(t, s.db.First(&reloaded, product.ID).Error)
	assert.Nil(t, reloaded.BrandID)

	var reloadedVariant model.ProductVariant
	require.NoError(t, s.db.First(&reloadedVariant, variant.ID).Error)
	assert.Nil(t, reloadedVariant.BrandID)

	_, err = s.brands.GetBrand(brand.ID)
	assert.ErrorIs(t, err, ErrBrandNotFound)
}
