package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
)

const (
	cacheKeyCategoryTree = "category_tree"
	cacheKeyProduct      = "product:"
	cacheKeyProductList  = "products:list:"
	cacheTimeout         = 2 * time.Second
)

// CatalogCache is a JSON key/value cache for catalog reads. Implemented by
// pkg/redis.CatalogCache.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("%s%d", cacheKeyProduct, id)
}

func productListCacheKey(filter interface{}) string {
	data, err := json.Marshal(filter)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s%x", cacheKeyProductList, md5.Sum(data))
}

// cacheGet reads through a possibly nil cache. Errors count as misses.
func cacheGet(cache CatalogCache, key string, dest interface{}) bool {
	if cache == nil || key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	hit, err := cache.Get(ctx, key, dest)
	if err != nil {
		return false
	}
	return hit
}

func cacheSet(cache CatalogCache, key string, value interface{}) {
	if cache == nil || key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := cache.Set(ctx, key, value); err != nil {
		logger.Warn("Failed to populate catalog cache", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// invalidateProducts drops the given product entries, or all of them when no
// id is given, along with every cached list page.
func invalidateProducts(cache CatalogCache, ids ...uint) {
	if cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	var err error
	if len(ids) == 0 {
		err = cache.DeletePrefix(ctx, cacheKeyProduct)
	} else {
		keys := make([]string, 0, len(ids))
		for _, id := range ids {
			keys = append(keys, productCacheKey(id))
		}
		err = cache.Delete(ctx, keys...)
	}
	if err != nil {
		logger.Warn("Failed to invalidate product cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := cache.DeletePrefix(ctx, cacheKeyProductList); err != nil {
		logger.Warn("Failed to invalidate product list cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func invalidateCategories(cache CatalogCache) {
	if cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	if err := cache.Delete(ctx, cacheKeyCategoryTree); err != nil {
		logger.Warn("Failed to invalidate category cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
