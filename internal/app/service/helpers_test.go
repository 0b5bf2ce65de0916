package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/geekcommerce/geek-commerce-backend/internal/db"
	"github.com/geekcommerce/geek-commerce-backend/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryCache is an in-process CatalogCache that records what it was asked.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, gets: map[string]int{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets[key]++
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func (c *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

func (c *memoryCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type fakeStorage struct {
	presigned []string
}

func (s *fakeStorage) PresignUpload(key, contentType string) (*storage.PresignedURLResponse, error) {
	s.presigned = append(s.presigned, key)
	return &storage.PresignedURLResponse{
		UploadURL: "https://uploads.test/" + key + "?sig=1",
		FileURL:   s.PublicURL(key),
		Key:       key,
	}, nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type recordingNotifier struct {
	orders []model.Order
}

func (n *recordingNotifier) NotifyOrderStatus(order *model.Order) {
	n.orders = append(n.orders, *order)
}

type testServices struct {
	db       *gorm.DB
	cache    *memoryCache
	storage  *fakeStorage
	notifier *recordingNotifier

	categories CategoryService
	brands     BrandService
	products   ProductService
	variants   VariantService
	images     ImageService
	orders     OrderService
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	categoryRepo := repository.NewCategoryRepository(testDB)
	brandRepo := repository.NewBrandRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	imageRepo := repository.NewImageRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	s := &testServices{
		db:       testDB,
		cache:    newMemoryCache(),
		storage:  &fakeStorage{},
		notifier: &recordingNotifier{},
	}
	s.categories = NewCategoryService(categoryRepo, s.cache)
	s.brands = NewBrandService(brandRepo, s.cache)
	s.products = NewProductService(productRepo, categoryRepo, brandRepo, s.cache)
	s.variants = NewVariantService(variantRepo, productRepo, brandRepo, s.cache)
	s.images = NewImageService(imageRepo, variantRepo, productRepo, s.storage, s.cache)
	s.orders = NewOrderService(testDB, orderRepo, userRepo, s.notifier)
	return s
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (s *testServices) category(t *testing.T, name string, parentID *uint) *model.Category {
	t.Helper()
	category, err := s.categories.CreateCategory(CategoryInput{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return category
}

func (s *testServices) product(t *testing.T, name string, categoryID uint) *model.Product {
	t.Helper()
	product, err := s.products.CreateProduct(ProductInput{Name: name, CategoryID: categoryID})
	require.NoError(t, err)
	return product
}

func (s *testServices) variant(t *testing.T, productID uint, name, amount string) *model.ProductVariant {
	t.Helper()
	variant, err := s.variants.CreateVariant(VariantInput{ProductID: productID, Name: name, Price: price(amount)})
	require.NoError(t, err)
	return variant
}

func (s *testServices) user(t *testing.T, email string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: email, Role: role}
	require.NoError(t, s.db.Create(user).Error)
	return user
}
