package repository

import (
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createCategory(t *testing.T, testDB *gorm.DB, name string, parentID *uint) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, ParentID: parentID}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func createBrand(t *testing.T, testDB *gorm.DB, name string) *model.Brand {
	t.Helper()
	brand := &model.Brand{Name: name}
	require.NoError(t, testDB.Create(brand).Error)
	return brand
}

func createProduct(t *testing.T, testDB *gorm.DB, name string, categoryID uint, brandID *uint) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, CategoryID: categoryID, BrandID: brandID, IsActive: true}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func createVariant(t *testing.T, testDB *gorm.DB, productID uint, name, price string) *model.ProductVariant {
	t.Helper()
	variant := model.NewProductVariant(productID, name, decimal.RequireFromString(price))
	require.NoError(t, testDB.Create(variant).Error)
	return variant
}
