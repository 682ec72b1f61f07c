// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// CachingProductRepository decorates a ProductRepository with Redis caching
// of the in-stock listing. It implements the decorator pattern, transparently
// adding caching without modifying the underlying repository.
//
// Only the in-stock page query is cached: it is the hot read path and a short
// TTL bounds any staleness introduced by order placement decrementing stock
// outside the catalog write path. Catalog writes invalidate the namespace.
type CachingProductRepository struct {
	inner     usecase.ProductRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ProductRepository = (*CachingProductRepository)(nil)

// NewCachingProductRepository decorates a ProductRepository with Redis caching.
// If ttl is 0, it defaults to 30 seconds. If namespace is empty, it uses "products".
func NewCachingProductRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ProductRepository, namespace string) *CachingProductRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if namespace == "" {
		namespace = "products"
	}
	return &CachingProductRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// cachedPage is the serialized cache entry for one listing page.
type cachedPage struct {
	Items []entity.Product `json:"items"`
	Total int64            `json:"total"`
}

func (c *CachingProductRepository) cacheKey(page, limit int) string {
	return fmt.Sprintf("%s:instock:p%d:l%d", c.namespace, page, limit)
}

// invalidate removes all cached listing pages. Best effort: cache failures
// never fail the write that triggered them.
func (c *CachingProductRepository) invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, c.namespace+":instock:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
}

// Create persists a product and invalidates cached listing pages.
func (c *CachingProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := c.inner.Create(ctx, product); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// FindPage retrieves a listing page, checking the cache first for in-stock
// queries and falling back to the database.
func (c *CachingProductRepository) FindPage(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
	// 在庫ありの一覧のみキャッシュ対象
	if c.rdb == nil || !inStockOnly {
		return c.inner.FindPage(ctx, page, limit, inStockOnly)
	}

	key := c.cacheKey(page, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var cached cachedPage
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached.Items, cached.Total, nil
		}
	}

	items, total, err := c.inner.FindPage(ctx, page, limit, inStockOnly)
	if err != nil {
		return nil, 0, err
	}

	if b, err := json.Marshal(cachedPage{Items: items, Total: total}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err() // Best effort
	}
	return items, total, nil
}

// FindByID delegates to the underlying repository.
func (c *CachingProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	return c.inner.FindByID(ctx, id)
}

// Update applies a partial update and invalidates cached listing pages.
func (c *CachingProductRepository) Update(ctx context.Context, id uint, update usecase.ProductUpdate) (*entity.Product, error) {
	product, err := c.inner.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx)
	return product, nil
}

// Delete removes a product and invalidates cached listing pages.
func (c *CachingProductRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}
