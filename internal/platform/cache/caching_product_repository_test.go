package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// mockProductRepository はテスト用のProductRepositoryモック実装です。
type mockProductRepository struct {
	createFn   func(ctx context.Context, product *entity.Product) error
	findPageFn func(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error)
	findByIDFn func(ctx context.Context, id uint) (*entity.Product, error)
	updateFn   func(ctx context.Context, id uint, update usecase.ProductUpdate) (*entity.Product, error)
	deleteFn   func(ctx context.Context, id uint) error
}

func (m *mockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if m.createFn != nil {
		return m.createFn(ctx, product)
	}
	return nil
}

func (m *mockProductRepository) FindPage(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
	if m.findPageFn != nil {
		return m.findPageFn(ctx, page, limit, inStockOnly)
	}
	return nil, 0, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockProductRepository) Update(ctx context.Context, id uint, update usecase.ProductUpdate) (*entity.Product, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, update)
	}
	return nil, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// TestNewCachingProductRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingProductRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       30 * time.Second,
			expectedNamespace: "products",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       30 * time.Second,
			expectedNamespace: "products",
		},
		{
			name:              "custom values preserved",
			ttl:               2 * time.Minute,
			namespace:         "custom",
			expectedTTL:       2 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingProductRepository(nil, tt.ttl, &mockProductRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingProductRepository_FindPage_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingProductRepository_FindPage_NilRedis(t *testing.T) {
	t.Parallel()

	expected := []entity.Product{{ID: 1, Name: "Keyboard", Price: 49.99, Stock: 10}}

	inner := &mockProductRepository{
		findPageFn: func(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
			return expected, 1, nil
		},
	}

	repo := NewCachingProductRepository(nil, 30*time.Second, inner, "products")

	items, total, err := repo.FindPage(context.Background(), 1, 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || total != 1 {
		t.Errorf("expected 1 item / total 1, got %d / %d", len(items), total)
	}
}

// TestCachingProductRepository_FindPage_AllListingBypassesCache は在庫フィルタなしの一覧がキャッシュ対象外であることを検証します。
func TestCachingProductRepository_FindPage_AllListingBypassesCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	innerCalled := false
	inner := &mockProductRepository{
		findPageFn: func(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
			innerCalled = true
			return nil, 0, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")

	// No GET/SET expectations registered: any Redis call would fail
	if _, _, err := repo.FindPage(context.Background(), 1, 10, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !innerCalled {
		t.Error("expected inner repository to be called")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_FindPage_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingProductRepository_FindPage_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached := cachedPage{
		Items: []entity.Product{{ID: 1, Name: "Keyboard", Price: 49.99, Stock: 10}},
		Total: 7,
	}
	cachedJSON, _ := json.Marshal(cached)

	mock.ExpectGet("products:instock:p1:l10").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockProductRepository{
		findPageFn: func(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
			innerCalled = true
			return nil, 0, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	items, total, err := repo.FindPage(context.Background(), 1, 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_FindPage_CacheMiss はキャッシュミス時にDBからデータを取得し、キャッシュに保存することを検証します。
func TestCachingProductRepository_FindPage_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	items := []entity.Product{{ID: 2, Name: "Mouse", Price: 25.50, Stock: 3}}
	expectedJSON, _ := json.Marshal(cachedPage{Items: items, Total: 1})

	mock.ExpectGet("products:instock:p2:l5").RedisNil()
	mock.ExpectSet("products:instock:p2:l5", expectedJSON, 30*time.Second).SetVal("OK")

	inner := &mockProductRepository{
		findPageFn: func(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
			return items, 1, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	got, total, err := repo.FindPage(context.Background(), 2, 5, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || total != 1 {
		t.Errorf("expected 1 item / total 1, got %d / %d", len(got), total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_FindPage_InnerError は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingProductRepository_FindPage_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")

	mock.ExpectGet("products:instock:p1:l10").RedisNil()

	inner := &mockProductRepository{
		findPageFn: func(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
			return nil, 0, expectedErr
		},
	}

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	_, _, err := repo.FindPage(context.Background(), 1, 10, true)

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingProductRepository_FindPage_CorruptedCache は破損したキャッシュをDBフォールバックで上書きすることを検証します。
func TestCachingProductRepository_FindPage_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	items := []entity.Product{{ID: 1, Name: "Keyboard", Price: 49.99, Stock: 10}}
	expectedJSON, _ := json.Marshal(cachedPage{Items: items, Total: 1})

	mock.ExpectGet("products:instock:p1:l10").SetVal("invalid json")
	mock.ExpectSet("products:instock:p1:l10", expectedJSON, 30*time.Second).SetVal("OK")

	inner := &mockProductRepository{
		findPageFn: func(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
			return items, 1, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	got, _, err := repo.FindPage(context.Background(), 1, 10, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 item, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_Create_CacheInvalidation は商品作成後に一覧キャッシュが無効化されることを検証します。
func TestCachingProductRepository_Create_CacheInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockProductRepository{
		createFn: func(ctx context.Context, product *entity.Product) error {
			return nil
		},
	}

	mock.ExpectScan(0, "products:instock:*", 0).SetVal([]string{"products:instock:p1:l10", "products:instock:p2:l10"}, 0)
	mock.ExpectDel("products:instock:p1:l10").SetVal(1)
	mock.ExpectDel("products:instock:p2:l10").SetVal(1)

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	if err := repo.Create(context.Background(), &entity.Product{Name: "Keyboard"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_Create_InnerError は作成失敗時にキャッシュ無効化が走らないことを検証します。
func TestCachingProductRepository_Create_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("insert failed")
	inner := &mockProductRepository{
		createFn: func(ctx context.Context, product *entity.Product) error {
			return expectedErr
		},
	}

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	err := repo.Create(context.Background(), &entity.Product{Name: "Keyboard"})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_Update_CacheInvalidation は商品更新後に一覧キャッシュが無効化されることを検証します。
func TestCachingProductRepository_Update_CacheInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	updated := &entity.Product{ID: 1, Name: "Keyboard v2"}
	inner := &mockProductRepository{
		updateFn: func(ctx context.Context, id uint, update usecase.ProductUpdate) (*entity.Product, error) {
			return updated, nil
		},
	}

	mock.ExpectScan(0, "products:instock:*", 0).SetVal([]string{"products:instock:p1:l10"}, 0)
	mock.ExpectDel("products:instock:p1:l10").SetVal(1)

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	name := "Keyboard v2"
	got, err := repo.Update(context.Background(), 1, usecase.ProductUpdate{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != updated {
		t.Error("expected updated product to be returned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_Delete_CacheInvalidation は商品削除後に一覧キャッシュが無効化されることを検証します。
func TestCachingProductRepository_Delete_CacheInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockProductRepository{
		deleteFn: func(ctx context.Context, id uint) error {
			return nil
		},
	}

	mock.ExpectScan(0, "products:instock:*", 0).SetVal([]string{}, 0)

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingProductRepository_FindByID_Passthrough はFindByIDがキャッシュを介さず委譲されることを検証します。
func TestCachingProductRepository_FindByID_Passthrough(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected := &entity.Product{ID: 3, Name: "Monitor"}
	inner := &mockProductRepository{
		findByIDFn: func(ctx context.Context, id uint) (*entity.Product, error) {
			return expected, nil
		},
	}

	repo := NewCachingProductRepository(rdb, 30*time.Second, inner, "products")
	got, err := repo.FindByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != expected {
		t.Error("expected product from inner repository")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}
