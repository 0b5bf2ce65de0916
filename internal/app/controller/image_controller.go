package controller

import (
	"net/http"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ImageController struct {
	imageService service.ImageService
}

func NewImageController(imageService service.ImageService) *ImageController {
	return &ImageController{
		imageService: imageService,
	}
}

type ImageUploadRequest struct {
	Filename string `json:"filename" binding:"required"`
}

type AddImageRequest struct {
	Key     string `json:"key" binding:"required"`
	AltText string `json:"alt_text"`
	IsMain  bool   `json:"is_main"`
}

// RequestImageUpload returns a presigned PUT URL for a variant image (Admin only).
// The client uploads to upload_url and then registers key with AddImage.
// POST /api/v1/variants/:id/images/upload-url
func (ctrl *ImageController) RequestImageUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ImageUploadRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := ctrl.imageService.RequestImageUpload(variantID, req.Filename)
	if err != nil {
		respondServiceError(c, err, "image")
		return
	}

	log.Info("Presigned image upload issued", map[string]interface{}{
		"variant_id": variantID,
		"key":        upload.Key,
	})

	c.JSON(http.StatusOK, upload)
}

// AddImage registers an uploaded image on a variant (Admin only)
// POST /api/v1/variants/:id/images
func (ctrl *ImageController) AddImage(c *gin.Context) {
	variantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AddImageRequest
	if !bindJSON(c, &req) {
		return
	}

	image, err := ctrl.imageService.AddImage(variantID, req.Key, req.AltText, req.IsMain)
	if err != nil {
		respondServiceError(c, err, "image")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image": image,
	})
}

// ListImages lists a variant's images. Images of inactive products are admin only.
// GET /api/v1/variants/:id/images
func (ctrl *ImageController) ListImages(c *gin.Context) {
	variantID, ok := parseID(c, "id")
	if !ok {
		return
	}

	images, err := ctrl.imageService.ListImages(variantID, middleware.IsAdmin(c))
	if err != nil {
		respondServiceError(c, err, "image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"count":  len(images),
	})
}

// POST /api/v1/images/:id/main
func (ctrl *ImageController) SetMainImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.imageService.SetMainImage(id); err != nil {
		respondServiceError(c, err, "image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Main image updated",
	})
}

// DELETE /api/v1/images/:id
func (ctrl *ImageController) DeleteImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.imageService.DeleteImage(id); err != nil {
		respondServiceError(c, err, "image")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image deleted successfully",
	})
}
