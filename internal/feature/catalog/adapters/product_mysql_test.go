package adapters

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain"
	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&ProductModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

// seedProducts inserts n products with strictly increasing creation time.
func seedProducts(t *testing.T, db *gorm.DB, n int, stock int) []ProductModel {
	t.Helper()

	base := time.Now().Add(-time.Duration(n) * time.Minute)
	rows := make([]ProductModel, 0, n)
	for i := 0; i < n; i++ {
		m := ProductModel{
			Name:        fmt.Sprintf("product-%d", i+1),
			Description: "seeded",
			Price:       float64(10 + i),
			Stock:       stock,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&m).Error)
		rows = append(rows, m)
	}
	return rows
}

func TestProductMySQL_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProductMySQL(db)

	product := &entity.Product{
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       49.99,
		Stock:       10,
	}

	err := repo.Create(context.Background(), product)

	require.NoError(t, err)
	assert.NotZero(t, product.ID, "ID is not set")
	assert.False(t, product.CreatedAt.IsZero(), "CreatedAt is not set")
}

func TestProductMySQL_FindPage(t *testing.T) {
	t.Run("returns newest first with total count", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		seedProducts(t, db, 5, 3)

		items, total, err := repo.FindPage(context.Background(), 1, 3, false)

		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, items, 3)
		// 新しい順（作成日時の降順）
		assert.Equal(t, "product-5", items[0].Name)
		assert.Equal(t, "product-4", items[1].Name)
		assert.Equal(t, "product-3", items[2].Name)
	})

	t.Run("second page continues where the first ended", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		seedProducts(t, db, 5, 3)

		items, total, err := repo.FindPage(context.Background(), 2, 3, false)

		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		require.Len(t, items, 2)
		assert.Equal(t, "product-2", items[0].Name)
		assert.Equal(t, "product-1", items[1].Name)
	})

	t.Run("in-stock filter excludes sold out products", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		seedProducts(t, db, 2, 0)
		seedProducts(t, db, 3, 7)

		items, total, err := repo.FindPage(context.Background(), 1, 10, true)

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, items, 3)
		for _, p := range items {
			assert.Positive(t, p.Stock)
		}
	})

	t.Run("page past the end returns empty slice", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		seedProducts(t, db, 2, 1)

		items, total, err := repo.FindPage(context.Background(), 5, 10, false)

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Empty(t, items)
	})
}

func TestProductMySQL_FindByID(t *testing.T) {
	t.Run("existing product", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		rows := seedProducts(t, db, 1, 5)

		product, err := repo.FindByID(context.Background(), rows[0].ID)

		require.NoError(t, err)
		assert.Equal(t, rows[0].Name, product.Name)
		assert.Equal(t, 5, product.Stock)
	})

	t.Run("missing product returns ErrProductNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)

		_, err := repo.FindByID(context.Background(), 9999)

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestProductMySQL_Update(t *testing.T) {
	t.Run("updates only the provided fields", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		rows := seedProducts(t, db, 1, 5)

		name := "Renamed"
		price := 99.99
		updated, err := repo.Update(context.Background(), rows[0].ID, usecase.ProductUpdate{
			Name:  &name,
			Price: &price,
		})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, 99.99, updated.Price)
		// 未指定のフィールドは変更されない
		assert.Equal(t, rows[0].Description, updated.Description)
		assert.Equal(t, rows[0].Stock, updated.Stock)
	})

	t.Run("update with identical values still succeeds", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		rows := seedProducts(t, db, 1, 5)

		samePrice := rows[0].Price
		updated, err := repo.Update(context.Background(), rows[0].ID, usecase.ProductUpdate{
			Price: &samePrice,
		})

		require.NoError(t, err)
		assert.Equal(t, samePrice, updated.Price)
	})

	t.Run("missing product returns ErrProductNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)

		name := "ghost"
		_, err := repo.Update(context.Background(), 9999, usecase.ProductUpdate{Name: &name})

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

func TestProductMySQL_Delete(t *testing.T) {
	t.Run("deletes an existing product", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)
		rows := seedProducts(t, db, 1, 5)

		err := repo.Delete(context.Background(), rows[0].ID)

		require.NoError(t, err)
		_, err = repo.FindByID(context.Background(), rows[0].ID)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("missing product returns ErrProductNotFound", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewProductMySQL(db)

		err := repo.Delete(context.Background(), 9999)

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
