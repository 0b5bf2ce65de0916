// Package importer loads catalog data from an XLSX workbook through the
// catalog services, so the same derivation and validation rules apply as for
// API writes.
package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet names. Each sheet starts with a header row; columns are matched by
// header name so their order does not matter.
const (
	SheetCategories = "categories"
	SheetBrands     = "brands"
	SheetProducts   = "products"
	SheetVariants   = "variants"
)

// RowError is a row that could not be imported.
type RowError struct {
	Sheet string
	Row   int // 1-based, as shown by spreadsheet tools
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

type Report struct {
	Categories int
	Brands     int
	Products   int
	Variants   int
	Errors     []RowError
}

func (r *Report) fail(sheet string, row int, err error) {
	r.Errors = append(r.Errors, RowError{Sheet: sheet, Row: row, Err: err})
}

type Importer struct {
	categories service.CategoryService
	brands     service.BrandService
	products   service.ProductService
	variants   service.VariantService
}

func NewImporter(
	categories service.CategoryService,
	brands service.BrandService,
	products service.ProductService,
	variants service.VariantService,
) *Importer {
	return &Importer{
		categories: categories,
		brands:     brands,
		products:   products,
		variants:   variants,
	}
}

// ImportFile opens the workbook at path and imports it.
func (im *Importer) ImportFile(path string) (*Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	return im.Import(f)
}

// Import reads the categories, brands, products and variants sheets in that
// order. Missing sheets are skipped. Row failures are collected in the report;
// only an unreadable workbook returns an error.
func (im *Importer) Import(f *excelize.File) (*Report, error) {
	report := &Report{}

	steps := []struct {
		sheet string
		run   func([]sheetRow, *Report)
	}{
		{SheetCategories, im.importCategories},
		{SheetBrands, im.importBrands},
		{SheetProducts, im.importProducts},
		{SheetVariants, im.importVariants},
	}

	for _, step := range steps {
		rows, err := readSheet(f, step.sheet)
		if err != nil {
			return nil, err
		}
		step.run(rows, report)
	}

	logger.Info("Catalog import finished", map[string]interface{}{
		"categories": report.Categories,
		"brands":     report.Brands,
		"products":   report.Products,
		"variants":   report.Variants,
		"errors":     len(report.Errors),
	})
	return report, nil
}

// importCategories creates categories in passes so a child may be listed
// before its parent.
func (im *Importer) importCategories(rows []sheetRow, report *Report) {
	pending := rows
	for len(pending) > 0 {
		var deferred []sheetRow
		for _, row := range pending {
			input := service.CategoryInput{
				Name: row.get("name"),
				Slug: row.get("slug"),
			}

			if parentSlug := row.get("parent_slug"); parentSlug != "" {
				parent, err := im.categories.GetCategoryBySlug(parentSlug)
				if errors.Is(err, service.ErrNotFound) {
					deferred = append(deferred, row)
					continue
				}
				if err != nil {
					report.fail(SheetCategories, row.num, err)
					continue
				}
				input.ParentID = &parent.ID
			}

			if _, err := im.categories.CreateCategory(input); err != nil {
				report.fail(SheetCategories, row.num, err)
				continue
			}
			report.Categories++
		}

		if len(deferred) == len(pending) {
			for _, row := range deferred {
				report.fail(SheetCategories, row.num, fmt.Errorf("unknown parent category %q", row.get("parent_slug")))
			}
			return
		}
		pending = deferred
	}
}

func (im *Importer) importBrands(rows []sheetRow, report *Report) {
	for _, row := range rows {
		if _, err := im.brands.CreateBrand(row.get("name"), row.get("slug")); err != nil {
			report.fail(SheetBrands, row.num, err)
			continue
		}
		report.Brands++
	}
}

func (im *Importer) importProducts(rows []sheetRow, report *Report) {
	for _, row := range rows {
		input := service.ProductInput{
			Name:        row.get("name"),
			Slug:        row.get("slug"),
			Description: row.get("description"),
		}

		categorySlug := row.get("category_slug")
		if categorySlug == "" {
			report.fail(SheetProducts, row.num, service.ErrCategoryRequired)
			continue
		}
		category, err := im.categories.GetCategoryBySlug(categorySlug)
		if err != nil {
			report.fail(SheetProducts, row.num, fmt.Errorf("category %q: %w", categorySlug, err))
			continue
		}
		input.CategoryID = category.ID

		if brandSlug := row.get("brand_slug"); brandSlug != "" {
			brand, err := im.brands.GetBrandBySlug(brandSlug)
			if err != nil {
				report.fail(SheetProducts, row.num, fmt.Errorf("brand %q: %w", brandSlug, err))
				continue
			}
			input.BrandID = &brand.ID
		}

		active, err := row.optionalBool("active")
		if err != nil {
			report.fail(SheetProducts, row.num, err)
			continue
		}
		input.IsActive = active

		if _, err := im.products.CreateProduct(input); err != nil {
			report.fail(SheetProducts, row.num, err)
			continue
		}
		report.Products++
	}
}

func (im *Importer) importVariants(rows []sheetRow, report *Report) {
	for _, row := range rows {
		productSlug := row.get("product_slug")
		product, err := im.products.GetProductBySlug(productSlug)
		if err != nil {
			report.fail(SheetVariants, row.num, fmt.Errorf("product %q: %w", productSlug, err))
			continue
		}

		input := service.VariantInput{
			ProductID: product.ID,
			Name:      row.get("name"),
			SKU:       row.get("sku"),
		}

		if input.Price, err = row.optionalDecimal("price"); err != nil {
			report.fail(SheetVariants, row.num, err)
			continue
		}
		if input.WeightGrams, err = row.optionalDecimal("weight_g"); err != nil {
			report.fail(SheetVariants, row.num, err)
			continue
		}
		master, err := row.optionalBool("is_master")
		if err != nil {
			report.fail(SheetVariants, row.num, err)
			continue
		}
		input.IsMaster = master != nil && *master

		if _, err := im.variants.CreateVariant(input); err != nil {
			report.fail(SheetVariants, row.num, err)
			continue
		}
		report.Variants++
	}
}

type sheetRow struct {
	num     int
	columns map[string]int
	cells   []string
}

func (r sheetRow) get(column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r sheetRow) optionalBool(column string) (*bool, error) {
	raw := r.get(column)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", service.ErrValidation, column)
	}
	return &v, nil
}

func (r sheetRow) optionalDecimal(column string) (*decimal.Decimal, error) {
	raw := r.get(column)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a number", service.ErrValidation, column)
	}
	return &v, nil
}

// readSheet returns the data rows of a sheet keyed by the header row. Blank
// rows are dropped.
func readSheet(f *excelize.File, sheet string) ([]sheetRow, error) {
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if index < 0 {
		logger.Debug("Sheet not present, skipping", map[string]interface{}{
			"sheet": sheet,
		})
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}

	var out []sheetRow
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		out = append(out, sheetRow{num: i + 2, columns: columns, cells: cells})
	}
	return out, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
