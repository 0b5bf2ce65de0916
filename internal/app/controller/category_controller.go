package controller

import (
	"net/http"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	ParentID    *uint   `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

// ListCategories returns categories as a flat list
// GET /api/v1/categories?parent_id=&roots=&search=
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	parentID, ok := queryUint(c, "parent_id")
	if !ok {
		return
	}
	roots, ok := queryBool(c, "roots")
	if !ok {
		return
	}

	filter := repository.CategoryFilter{
		ParentID:  parentID,
		RootsOnly: roots != nil && *roots,
		Search:    c.Query("search"),
	}
	categories, err := ctrl.categoryService.ListCategories(filter)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetTree returns the nested category tree
// GET /api/v1/categories/tree
func (ctrl *CategoryController) GetTree(c *gin.Context) {
	tree, err := ctrl.categoryService.GetTree()
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": tree,
	})
}

// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// GET /api/v1/categories/slug/:slug
func (ctrl *CategoryController) GetCategoryBySlug(c *gin.Context) {
	category, err := ctrl.categoryService.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// GetSubtree returns the category and its descendants, depth first
// GET /api/v1/categories/:id/subtree
func (ctrl *CategoryController) GetSubtree(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	nodes, err := ctrl.categoryService.GetSubtree(id)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": nodes,
		"count":      len(nodes),
	})
}

// CreateCategory creates a category (Admin only)
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.CreateCategory(service.CategoryInput{
		Name:     req.Name,
		Slug:     req.Slug,
		ParentID: req.ParentID,
	})
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	log.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"category": category,
	})
}

// UpdateCategory updates a category (Admin only)
// PATCH /api/v1/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, service.CategoryUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// DeleteCategory deletes a category (Admin only). Refused while products use it.
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		respondServiceError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}
