package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/service"
	"github.com/geekcommerce/geek-commerce-backend/internal/db"
	"github.com/geekcommerce/geek-commerce-backend/internal/middleware"
	"github.com/geekcommerce/geek-commerce-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubStorage struct{}

func (stubStorage) PresignUpload(key, contentType string) (*storage.PresignedURLResponse, error) {
	return &storage.PresignedURLResponse{
		UploadURL: "https://bucket.test/" + key + "?X-Amz-Signature=abc",
		FileURL:   "https://cdn.test/" + key,
		Key:       key,
	}, nil
}

func (stubStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// testAPI wires real services over an in-memory database behind a router
// whose caller identity is chosen per request via X-Test-User / X-Test-Role.
type testAPI struct {
	db     *gorm.DB
	router *gin.Engine
	admin  *model.User
	buyer  *model.User
}

func setupAPI(t *testing.T) *testAPI {
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
	imageRepo := repository.NewImageRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	categories := NewCategoryController(service.NewCategoryService(categoryRepo))
	brands := NewBrandController(service.NewBrandService(brandRepo))
	products := NewProductController(service.NewProductService(productRepo, categoryRepo, brandRepo))
	variants := NewVariantController(service.NewVariantService(variantRepo, productRepo, brandRepo))
	images := NewImageController(service.NewImageService(imageRepo, variantRepo, productRepo, stubStorage{}))
	orders := NewOrderController(service.NewOrderService(testDB, orderRepo, userRepo))

	admin := &model.User{Email: "admin@example.com", Name: "Admin", Role: model.RoleAdmin}
	buyer := &model.User{Email: "buyer@example.com", Name: "Buyer", Role: model.RoleUser}
	require.NoError(t, testDB.Create(admin).Error)
	require.NoError(t, testDB.Create(buyer).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		var userID uint
		switch c.GetHeader("X-Test-User") {
		case "admin":
			userID = admin.ID
			c.Set(middleware.UserRoleKey, model.RoleAdmin)
		case "buyer":
			userID = buyer.ID
			c.Set(middleware.UserRoleKey, model.RoleUser)
		}
		if userID != 0 {
			c.Set(middleware.UserIDKey, userID)
		}
		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/categories", categories.ListCategories)
	api.GET("/categories/tree", categories.GetTree)
	api.GET("/categories/slug/:slug", categories.GetCategoryBySlug)
	api.GET("/categories/:id", categories.GetCategory)
	api.GET("/categories/:id/subtree", categories.GetSubtree)
	api.POST("/categories", categories.CreateCategory)
	api.PATCH("/categories/:id", categories.UpdateCategory)
	api.DELETE("/categories/:id", categories.DeleteCategory)

	api.GET("/brands", brands.ListBrands)
	api.POST("/brands", brands.CreateBrand)
	api.DELETE("/brands/:id", brands.DeleteBrand)

	api.GET("/products", products.ListProducts)
	api.GET("/products/:id", products.GetProduct)
	api.POST("/products", products.CreateProduct)
	api.PATCH("/products/:id", products.UpdateProduct)
	api.DELETE("/products/:id", products.DeleteProduct)
	api.POST("/products/:id/variants", variants.CreateVariant)

	api.GET("/variants", variants.ListVariants)
	api.GET("/variants/:id", variants.GetVariant)
	api.PATCH("/variants/:id", variants.UpdateVariant)
	api.POST("/variants/:id/master", variants.SetMasterVariant)
	api.DELETE("/variants/:id", variants.DeleteVariant)
	api.POST("/variants/:id/images/upload-url", images.RequestImageUpload)
	api.POST("/variants/:id/images", images.AddImage)
	api.GET("/variants/:id/images", images.ListImages)
	api.POST("/images/:id/main", images.SetMainImage)
	api.DELETE("/images/:id", images.DeleteImage)

	api.POST("/orders", orders.CreateOrder)
	api.GET("/orders", orders.GetMyOrders)
	api.GET("/orders/:id", orders.GetOrder)
	api.POST("/orders/:id/items", orders.AddOrderItem)
	api.GET("/admin/orders", orders.ListOrders)
	api.PATCH("/admin/orders/:id/status", orders.UpdateOrderStatus)
	api.POST("/admin/orders/status", orders.BulkUpdateOrderStatus)
	api.DELETE("/admin/orders/:id", orders.DeleteOrder)

	return &testAPI{db: testDB, router: router, admin: admin, buyer: buyer}
}

// do sends a request as the given caller ("admin", "buyer" or "" for a guest)
// and decodes the JSON response.
func (a *testAPI) do(t *testing.T, as, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		req.Header.Set("X-Test-User", as)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w.Code, decoded
}

// create posts as admin, expects 201 and returns the id of the named object.
func (a *testAPI) create(t *testing.T, path, key string, body interface{}) uint {
	t.Helper()
	status, resp := a.do(t, "admin", http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, status, "response: %v", resp)
	obj, ok := resp[key].(map[string]interface{})
	require.True(t, ok, "response: %v", resp)
	return uint(obj["id"].(float64))
}

func field(resp map[string]interface{}, key, name string) interface{} {
	obj, _ := resp[key].(map[string]interface{})
	return obj[name]
}
