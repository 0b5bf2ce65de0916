package controller

import (
	"net/http"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type VariantController struct {
	variantService service.VariantService
}

func NewVariantController(variantService service.VariantService) *VariantController {
	return &VariantController{
		variantService: variantService,
	}
}

type CreateVariantRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Slug        string                 `json:"slug"`
	SKU         string                 `json:"sku"`
	BrandID     *uint                  `json:"brand_id"`
	Attributes  map[string]interface{} `json:"attributes"`
	Price       *decimal.Decimal       `json:"price" binding:"required"`
	WeightGrams *decimal.Decimal       `json:"weight_grams"`
	IsMaster    bool                   `json:"is_master"`
	ImageURLs   []string               `json:"image_urls"`
}

type UpdateVariantRequest struct {
	Name        *string                `json:"name"`
	Slug        *string                `json:"slug"`
	SKU         *string                `json:"sku"`
	BrandID     *uint                  `json:"brand_id"`
	ClearBrand  bool                   `json:"clear_brand"`
	Attributes  map[string]interface{} `json:"attributes"`
	Price       *decimal.Decimal       `json:"price"`
	WeightGrams *decimal.Decimal       `json:"weight_grams"`
	IsMaster    *bool                  `json:"is_master"`
	ImageURLs   []string               `json:"image_urls"`
}

// ListVariants returns variants, optionally of one product. Variants of
// inactive products are only listed for admins.
// GET /api/v1/variants?product_id=&is_master=&search=
func (ctrl *VariantController) ListVariants(c *gin.Context) {
	productID, ok := queryUint(c, "product_id")
	if !ok {
		return
	}
	isMaster, ok := queryBool(c, "is_master")
	if !ok {
		return
	}

	variants, err := ctrl.variantService.ListVariants(repository.VariantFilter{
		ProductID:  productID,
		IsMaster:   isMaster,
		Search:     c.Query("search"),
		ActiveOnly: !middleware.IsAdmin(c),
	})
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"count":    len(variants),
	})
}

// GET /api/v1/variants/:id
func (ctrl *VariantController) GetVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	variant, err := ctrl.variantService.GetVariant(id, middleware.IsAdmin(c))
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant": variant,
	})
}

// CreateVariant adds a variant to a product (Admin only)
// POST /api/v1/products/:id/variants
func (ctrl *VariantController) CreateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req CreateVariantRequest
	if !bindJSON(c, &req) {
		return
	}

	variant, err := ctrl.variantService.CreateVariant(service.VariantInput{
		ProductID:   productID,
		Name:        req.Name,
		Slug:        req.Slug,
		SKU:         req.SKU,
		BrandID:     req.BrandID,
		Attributes:  req.Attributes,
		Price:       req.Price,
		WeightGrams: req.WeightGrams,
		IsMaster:    req.IsMaster,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	log.Info("Variant created successfully", map[string]interface{}{
		"variant_id": variant.ID,
		"sku":        variant.SKU,
	})

	c.JSON(http.StatusCreated, gin.H{
		"variant": variant,
	})
}

// UpdateVariant updates a variant (Admin only)
// PATCH /api/v1/variants/:id
func (ctrl *VariantController) UpdateVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateVariantRequest
	if !bindJSON(c, &req) {
		return
	}

	variant, err := ctrl.variantService.UpdateVariant(id, service.VariantUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		SKU:         req.SKU,
		BrandID:     req.BrandID,
		ClearBrand:  req.ClearBrand,
		Attributes:  req.Attributes,
		Price:       req.Price,
		WeightGrams: req.WeightGrams,
		IsMaster:    req.IsMaster,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variant": variant,
	})
}

// SetMasterVariant makes the variant its product's master (Admin only)
// POST /api/v1/variants/:id/master
func (ctrl *VariantController) SetMasterVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.variantService.SetMasterVariant(id); err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Master variant updated",
	})
}

// DeleteVariant deletes a variant and its images (Admin only)
// DELETE /api/v1/variants/:id
func (ctrl *VariantController) DeleteVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.variantService.DeleteVariant(id); err != nil {
		respondServiceError(c, err, "variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant deleted successfully",
	})
}
