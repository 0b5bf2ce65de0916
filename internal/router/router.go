package router

import (
	"net/http"

	"github.com/geekcommerce/geek-commerce-backend/config"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/controller"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	categoryController  *controller.CategoryController
	brandController     *controller.BrandController
	productController   *controller.ProductController
	variantController   *controller.VariantController
	imageController     *controller.ImageController
	orderController     *controller.OrderController
	websocketController *controller.WebSocketController
	authMiddleware      *middleware.AuthMiddleware
	config              *config.Config
}

func NewRouter(
	categoryController *controller.CategoryController,
	brandController *controller.BrandController,
	productController *controller.ProductController,
	variantController *controller.VariantController,
	imageController *controller.ImageController,
	orderController *controller.OrderController,
	websocketController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		categoryController:  categoryController,
		brandController:     brandController,
		productController:   productController,
		variantController:   variantController,
		imageController:     imageController,
		orderController:     orderController,
		websocketController: websocketController,
		authMiddleware:      authMiddleware,
		config:              cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Geek Commerce API is running",
		})
	})

	admin := []gin.HandlerFunc{r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin")}
	adminOnly := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, admin...), h)
	}

	v1 := router.Group("/api/v1")
	{
		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/tree", r.categoryController.GetTree)
			categories.GET("/slug/:slug", r.categoryController.GetCategoryBySlug)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.GET("/:id/subtree", r.categoryController.GetSubtree)

			categories.POST("", adminOnly(r.categoryController.CreateCategory)...)
			categories.PATCH("/:id", adminOnly(r.categoryController.UpdateCategory)...)
			categories.DELETE("/:id", adminOnly(r.categoryController.DeleteCategory)...)
		}

		brands := v1.Group("/brands")
		{
			brands.GET("", r.brandController.ListBrands)
			brands.GET("/slug/:slug", r.brandController.GetBrandBySlug)
			brands.GET("/:id", r.brandController.GetBrand)

			brands.POST("", adminOnly(r.brandController.CreateBrand)...)
			brands.PATCH("/:id", adminOnly(r.brandController.UpdateBrand)...)
			brands.DELETE("/:id", adminOnly(r.brandController.DeleteBrand)...)
		}

		// Product reads are public. A token is optional and lets admins see
		// inactive products.
		products := v1.Group("/products")
		{
			products.GET("", r.authMiddleware.OptionalAuthenticate(), r.productController.ListProducts)
			products.GET("/slug/:slug", r.authMiddleware.OptionalAuthenticate(), r.productController.GetProductBySlug)
			products.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.productController.GetProduct)

			products.POST("", adminOnly(r.productController.CreateProduct)...)
			products.PATCH("/:id", adminOnly(r.productController.UpdateProduct)...)
			products.DELETE("/:id", adminOnly(r.productController.DeleteProduct)...)
			products.POST("/:id/variants", adminOnly(r.variantController.CreateVariant)...)
		}

		// Variants of inactive products are hidden the same way.
		variants := v1.Group("/variants")
		{
			variants.GET("", r.authMiddleware.OptionalAuthenticate(), r.variantController.ListVariants)
			variants.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.variantController.GetVariant)
			variants.GET("/:id/images", r.authMiddleware.OptionalAuthenticate(), r.imageController.ListImages)

			variants.PATCH("/:id", adminOnly(r.variantController.UpdateVariant)...)
			variants.POST("/:id/master", adminOnly(r.variantController.SetMasterVariant)...)
			variants.DELETE("/:id", adminOnly(r.variantController.DeleteVariant)...)
			variants.POST("/:id/images/upload-url", adminOnly(r.imageController.RequestImageUpload)...)
			variants.POST("/:id/images", adminOnly(r.imageController.AddImage)...)
		}

		images := v1.Group("/images")
		images.Use(admin...)
		{
			images.POST("/:id/main", r.imageController.SetMainImage)
			images.DELETE("/:id", r.imageController.DeleteImage)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.CreateOrder)
			orders.POST("/:id/items", r.orderController.AddOrderItem)
		}

		adminOrders := v1.Group("/admin/orders")
		adminOrders.Use(admin...)
		{
			adminOrders.GET("", r.orderController.ListOrders)
			adminOrders.PATCH("/:id/status", r.orderController.UpdateOrderStatus)
			adminOrders.POST("/status", r.orderController.BulkUpdateOrderStatus)
			adminOrders.DELETE("/:id", r.orderController.DeleteOrder)
		}
	}

	// Browsers cannot set headers on the upgrade request, so the token may
	// come from the query string.
	router.GET("/ws/orders", r.authMiddleware.Authenticate(), r.websocketController.OrderEvents)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
