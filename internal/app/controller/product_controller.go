package controller

import (
	"net/http"
	"strconv"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Slug        string                 `json:"slug"`
	Description string                 `json:"description"`
	CategoryID  uint                   `json:"category_id" binding:"required"`
	BrandID     *uint                  `json:"brand_id"`
	BaseSpecs   map[string]interface{} `json:"base_specs"`
	IsActive    *bool                  `json:"is_active"`
}

type UpdateProductRequest struct {
	Name        *string                `json:"name"`
	Slug        *string                `json:"slug"`
	Description *string                `json:"description"`
	CategoryID  *uint                  `json:"category_id"`
	BrandID     *uint                  `json:"brand_id"`
	ClearBrand  bool                   `json:"clear_brand"`
	BaseSpecs   map[string]interface{} `json:"base_specs"`
	IsActive    *bool                  `json:"is_active"`
}

func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Invalid "+key)
		return 0, false
	}
	return v, true
}

// visible hides inactive products from everyone but admins.
func visible(c *gin.Context, product *model.Product) bool {
	return product.IsActive || middleware.IsAdmin(c)
}

// ListProducts returns a page of products
// GET /api/v1/products?category_id=&brand_id=&active=&search=&limit=&offset=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var filter repository.ProductFilter
	var ok bool
	if filter.CategoryID, ok = queryUint(c, "category_id"); !ok {
		return
	}
	if filter.BrandID, ok = queryUint(c, "brand_id"); !ok {
		return
	}
	if filter.IsActive, ok = queryBool(c, "active"); !ok {
		return
	}
	if filter.Limit, ok = queryInt(c, "limit"); !ok {
		return
	}
	if filter.Offset, ok = queryInt(c, "offset"); !ok {
		return
	}
	filter.Search = c.Query("search")

	if !middleware.IsAdmin(c) {
		active := true
		filter.IsActive = &active
	}

	page, err := ctrl.productService.ListProducts(filter)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	log.Info("Products fetched successfully", map[string]interface{}{
		"count": len(page.Products),
		"total": page.Total,
	})

	c.JSON(http.StatusOK, gin.H{
		"products": page.Products,
		"count":    len(page.Products),
		"total":    page.Total,
	})
}

// GetProduct returns a product with its variants
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err == nil && !visible(c, product) {
		err = service.ErrProductNotFound
	}
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GET /api/v1/products/slug/:slug
func (ctrl *ProductController) GetProductBySlug(c *gin.Context) {
	product, err := ctrl.productService.GetProductBySlug(c.Param("slug"))
	if err == nil && !visible(c, product) {
		err = service.ErrProductNotFound
	}
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a product (Admin only)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.CreateProduct(service.ProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		BaseSpecs:   req.BaseSpecs,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	log.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product (Admin only)
// PATCH /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, service.ProductUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		BrandID:     req.BrandID,
		ClearBrand:  req.ClearBrand,
		BaseSpecs:   req.BaseSpecs,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct deletes a product with its variants and images (Admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		respondServiceError(c, err, "product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}
