package importer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type catalog struct {
	categories service.CategoryService
	brands     service.BrandService
	products   service.ProductService
	variants   service.VariantService
	importer   *Importer
}

func setupCatalog(t *testing.T) *catalog {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	categoryRepo := repository.NewCategoryRepository(testDB)
	brandRepo := repository.NewBrandRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)

	c := &catalog{
		categories: service.NewCategoryService(categoryRepo),
		brands:     service.NewBrandService(brandRepo),
		products:   service.NewProductService(productRepo, categoryRepo, brandRepo),
		variants:   service.NewVariantService(variantRepo, productRepo, brandRepo),
	}
	c.importer = NewImporter(c.categories, c.brands, c.products, c.variants)
	return c
}

// workbook builds a file with one sheet per entry; the first row is the header.
func workbook(t *testing.T, sheets map[string][][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() {
		f.Close()
	})

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	return f
}

func TestImport_FullCatalog(t *testing.T) {
	c := setupCatalog(t)
	f := workbook(t, map[string][][]interface{}{
		SheetCategories: {
			{"name", "slug", "parent_slug"},
			{"Shonen", "", "anime"}, // parent comes later
			{"Anime", "", ""},
		},
		SheetBrands: {
			{"name", "slug"},
			{"Bandai Spirits", "bandai"},
		},
		SheetProducts: {
			{"name", "slug", "category_slug", "brand_slug", "description", "active"},
			{"Dragon Ball Figure", "", "shonen", "bandai", "Goku in his prime", "TRUE"},
			{"Prototype", "", "anime", "", "", "false"},
		},
		SheetVariants: {
			{"product_slug", "name", "sku", "price", "weight_g", "is_master"},
			{"dragon-ball-figure", "Goku", "DB-GOKU", "39.90", "250", "true"},
			{"dragon-ball-figure", "Vegeta", "", 34.5, "", ""},
		},
	})

	report, err := c.importer.Import(f)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 2, report.Categories)
	assert.Equal(t, 1, report.Brands)
	assert.Equal(t, 2, report.Products)
	assert.Equal(t, 2, report.Variants)

	shonen, err := c.categories.GetCategoryBySlug("shonen")
	require.NoError(t, err)
	require.NotNil(t, shonen.ParentID)

	prototype, err := c.products.GetProductBySlug("prototype")
	require.NoError(t, err)
	assert.False(t, prototype.IsActive)

	product, err := c.products.GetProductBySlug("dragon-ball-figure")
	require.NoError(t, err)
	require.NotNil(t, product.BrandID)
	require.Len(t, product.Variants, 2)

	master := product.MasterVariant()
	require.NotNil(t, master)
	assert.Equal(t, "DB-GOKU", master.SKU)
	assert.Equal(t, "39.9", master.Price.String())
	require.NotNil(t, master.WeightGrams)
	assert.Equal(t, "250", master.WeightGrams.String())
}

func TestImport_RowErrors(t *testing.T) {
	c := setupCatalog(t)
	f := workbook(t, map[string][][]interface{}{
		SheetCategories: {
			{"name", "slug", "parent_slug"},
			{"Figures", "", ""},
			{"Orphan", "", "missing"},
			{"Figures", "", ""},
		},
		SheetProducts: {
			{"name", "category_slug", "active"},
			{"Goku", "figures", ""},
			{"Lost", "nowhere", ""},
			{"Odd", "figures", "maybe"},
		},
		SheetVariants: {
			{"product_slug", "name", "price"},
			{"goku", "Standard", "abc"},
			{"goku", "No price", ""},
			{"goku", "Negative", "-1"},
			{"ghost", "Standard", "10"},
			{"goku", "Standard", "10"},
		},
	})

	report, err := c.importer.Import(f)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Categories)
	assert.Equal(t, 1, report.Products)
	assert.Equal(t, 1, report.Variants)

	type failure struct {
		sheet string
		row   int
	}
	var got []failure
	for _, e := range report.Errors {
		got = append(got, failure{e.Sheet, e.Row})
	}
	assert.ElementsMatch(t, []failure{
		{SheetCategories, 4}, // duplicate slug
		{SheetCategories, 3}, // unknown parent, reported after the last pass
		{SheetProducts, 3},
		{SheetProducts, 4},
		{SheetVariants, 2},
		{SheetVariants, 3},
		{SheetVariants, 4},
		{SheetVariants, 5},
	}, got)

	for _, e := range report.Errors {
		if e.Sheet == SheetCategories && e.Row == 4 {
			assert.True(t, errors.Is(e, service.ErrSlugConflict))
		}
		if e.Sheet == SheetVariants && e.Row == 4 {
			assert.True(t, errors.Is(e, service.ErrValidation))
		}
	}
}

func TestImport_SkipsMissingSheetsAndBlankRows(t *testing.T) {
	c := setupCatalog(t)
	f := workbook(t, map[string][][]interface{}{
		SheetBrands: {
			{"slug", "name"},
			{"", ""},
			{"gsc", "Good Smile Company"},
		},
	})

	report, err := c.importer.Import(f)
	require.NoError(t, err)
	assert.Empty(t, report.Errors)
	assert.Equal(t, 1, report.Brands)

	brand, err := c.brands.GetBrandBySlug("gsc")
	require.NoError(t, err)
	assert.Equal(t, "Good Smile Company", brand.Name)
}

func TestImportFile(t *testing.T) {
	c := setupCatalog(t)
	f := workbook(t, map[string][][]interface{}{
		SheetCategories: {
			{"name"},
			{"Manga"},
		},
	})
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))

	report, err := c.importer.ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Categories)

	_, err = c.importer.ImportFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
