package service

import (
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantService_CreateVariant(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)

	first := s.variant(t, product.ID, "Goku SSJ", "39.90")
	second, err := s.variants.CreateVariant(VariantInput{ProductID: product.ID, Name: "Goku Base", Price: price("29.90")})
	require.NoError(t, err)

	assert.Equal(t, "dragon-ball-goku-ssj", first.Slug)
	assert.NotEmpty(t, first.SKU)
	assert.NotEqual(t, first.SKU, second.SKU)
	assert.True(t, price("39.90").Equal(first.Price))

	free, err := s.variants.CreateVariant(VariantInput{ProductID: product.ID, Name: "Sticker", Price: price("0")})
	require.NoError(t, err)
	assert.True(t, free.Price.IsZero())

	tests := []struct {
		name    string
		input   VariantInput
		wantErr error
	}{
		{"Missing price", VariantInput{ProductID: product.ID, Name: "Vegeta"}, ErrInvalidPrice},
		{"Negative price", VariantInput{ProductID: product.ID, Name: "Vegeta", Price: price("-1")}, ErrInvalidPrice},
		{"Negative weight", VariantInput{ProductID: product.ID, Name: "Vegeta", Price: price("1"), WeightGrams: price("-5")}, ErrInvalidWeight},
		{"Unknown product", VariantInput{ProductID: 999, Name: "Vegeta", Price: price("1")}, ErrProductNotFound},
		{"Duplicate SKU", VariantInput{ProductID: product.ID, Name: "Vegeta", Price: price("1"), SKU: first.SKU}, ErrSKUConflict},
		{"Duplicate slug", VariantInput{ProductID: product.ID, Name: "Goku SSJ", Price: price("1")}, ErrSlugConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.variants.CreateVariant(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVariantService_MasterIsExclusive(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)

	a, err := s.variants.CreateVariant(VariantInput{ProductID: product.ID, Name: "A", Price: price("10"), IsMaster: true})
	require.NoError(t, err)
	b, err := s.variants.CreateVariant(VariantInput{ProductID: product.ID, Name: "B", Price: price("10"), IsMaster: true})
	require.NoError(t, err)

	masters := func() []model.ProductVariant {
		isMaster := true
		list, err := s.variants.ListVariants(repository.VariantFilter{ProductID: &product.ID, IsMaster: &isMaster})
		require.NoError(t, err)
		return list
	}

	got := masters()
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)

	require.NoError(t, s.variants.SetMasterVariant(a.ID))
	got = masters()
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	loaded, err := s.products.GetProduct(product.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.MasterVariant())
	assert.Equal(t, a.ID, loaded.MasterVariant().ID)

	assert.ErrorIs(t, s.variants.SetMasterVariant(999), ErrVariantNotFound)
}

func TestVariantService_UpdateVariant(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)
	variant := s.variant(t, product.ID, "Goku", "30")
	other := s.variant(t, product.ID, "Vegeta", "30")

	updated, err := s.variants.UpdateVariant(variant.ID, VariantUpdate{
		Price:      price("35.50"),
		Attributes: map[string]interface{}{"color": "orange"},
	})
	require.NoError(t, err)
	assert.True(t, price("35.50").Equal(updated.Price))
	assert.Equal(t, "orange", updated.Attributes["color"])

	_, err = s.variants.UpdateVariant(variant.ID, VariantUpdate{Price: price("-0.01")})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = s.variants.UpdateVariant(variant.ID, VariantUpdate{SKU: &other.SKU})
	assert.ErrorIs(t, err, ErrSKUConflict)

	_, err = s.variants.UpdateVariant(variant.ID, VariantUpdate{Slug: &other.Slug})
	assert.ErrorIs(t, err, ErrSlugConflict)

	_, err = s.variants.UpdateVariant(999, VariantUpdate{Price: price("1")})
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestVariantService_ListVariants_Search(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)
	s.variant(t, product.ID, "Goku", "30")
	vegeta, err := s.variants.CreateVariant(VariantInput{ProductID: product.ID, Name: "Vegeta", SKU: "DB-VEG-01", Price: price("30")})
	require.NoError(t, err)

	byName, err := s.variants.ListVariants(repository.VariantFilter{Search: "gok"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Goku", byName[0].Name)

	bySKU, err := s.variants.ListVariants(repository.VariantFilter{Search: "veg-01"})
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, vegeta.ID, bySKU[0].ID)
}

func TestVariantService_DeleteVariant(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	product := s.product(t, "Dragon Ball", category.ID)
	variant := s.variant(t, product.ID, "Goku", "30")
	_, err := s.images.AddImage(variant.ID, "products/dragon-ball/goku.png", "Goku", true)
	require.NoError(t, err)

	require.NoError(t, s.variants.DeleteVariant(variant.ID))

	var images int64
	s.db.Model(&model.ProductImage{}).Where("variant_id = ?", variant.ID).Count(&images)
	assert.Zero(t, images)

	_, err = s.variants.GetVariant(variant.ID, true)
	assert.ErrorIs(t, err, ErrVariantNotFound)
	assert.ErrorIs(t, s.variants.DeleteVariant(variant.ID), ErrVariantNotFound)

	// the product itself is untouched
	_, err = s.products.GetProduct(product.ID)
	assert.NoError(t, err)
}

func TestVariantService_CreateVariant_DerivedSlugCollision(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	dragonBall := s.product(t, "Dragon Ball", category.ID)
	goku := s.product(t, "Dragon Ball Goku", category.ID)

	first := s.variant(t, dragonBall.ID, "Goku SSJ", "39.90")
	assert.Equal(t, "dragon-ball-goku-ssj", first.Slug)

	// product slug + name derives the same slug, so the second write loses
	_, err := s.variants.CreateVariant(VariantInput{ProductID: goku.ID, Name: "SSJ", Price: price("19.90")})
	assert.ErrorIs(t, err, ErrSlugConflict)

	second, err := s.variants.CreateVariant(VariantInput{ProductID: goku.ID, Name: "SSJ", Slug: "dragon-ball-goku-ssj-figure", Price: price("19.90")})
	require.NoError(t, err)
	assert.Equal(t, "dragon-ball-goku-ssj-figure", second.Slug)
}

func TestVariantService_InactiveProductVariantsHidden(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)
	inactive := false
	prototype, err := s.products.CreateProduct(ProductInput{Name: "Prototype", CategoryID: category.ID, IsActive: &inactive})
	require.NoError(t, err)
	hidden := s.variant(t, prototype.ID, "Sample", "5.00")
	listed := s.variant(t, s.product(t, "Dragon Ball", category.ID).ID, "Goku", "10.00")

	_, err = s.variants.GetVariant(hidden.ID, false)
	assert.ErrorIs(t, err, ErrVariantNotFound)
	found, err := s.variants.GetVariant(hidden.ID, true)
	require.NoError(t, err)
	assert.Equal(t, hidden.ID, found.ID)

	_, err = s.images.ListImages(hidden.ID, false)
	assert.ErrorIs(t, err, ErrVariantNotFound)
	_, err = s.images.ListImages(hidden.ID, true)
	assert.NoError(t, err)

	visible, err := s.variants.ListVariants(repository.VariantFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, listed.ID, visible[0].ID)

	all, err := s.variants.ListVariants(repository.VariantFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
