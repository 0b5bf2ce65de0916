package controller

import (
	"net/http"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type BrandController struct {
	brandService service.BrandService
}

func NewBrandController(brandService service.BrandService) *BrandController {
	return &BrandController{
		brandService: brandService,
	}
}

type CreateBrandRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type UpdateBrandRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// GET /api/v1/brands?search=
func (ctrl *BrandController) ListBrands(c *gin.Context) {
	brands, err := ctrl.brandService.ListBrands(c.Query("search"))
	if err != nil {
		respondServiceError(c, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"count":  len(brands),
	})
}

// GET /api/v1/brands/:id
func (ctrl *BrandController) GetBrand(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	brand, err := ctrl.brandService.GetBrand(id)
	if err != nil {
		respondServiceError(c, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// GET /api/v1/brands/slug/:slug
func (ctrl *BrandController) GetBrandBySlug(c *gin.Context) {
	brand, err := ctrl.brandService.GetBrandBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// CreateBrand creates a brand (Admin only)
// POST /api/v1/brands
func (ctrl *BrandController) CreateBrand(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateBrandRequest
	if !bindJSON(c, &req) {
		return
	}

	brand, err := ctrl.brandService.CreateBrand(req.Name, req.Slug)
	if err != nil {
		respondServiceError(c, err, "brand")
		return
	}

	log.Info("Brand created", map[string]interface{}{
		"brand_id": brand.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"brand": brand,
	})
}

// UpdateBrand updates a brand (Admin only)
// PATCH /api/v1/brands/:id
func (ctrl *BrandController) UpdateBrand(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateBrandRequest
	if !bindJSON(c, &req) {
		return
	}

	brand, err := ctrl.brandService.UpdateBrand(id, req.Name, req.Slug)
	if err != nil {
		respondServiceError(c, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// DeleteBrand deletes a brand (Admin only). Products and variants lose their brand.
// DELETE /api/v1/brands/:id
func (ctrl *BrandController) DeleteBrand(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.brandService.DeleteBrand(id); err != nil {
		respondServiceError(c, err, "brand")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand deleted successfully",
	})
}
