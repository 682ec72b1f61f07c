// Package adapters はcatalogフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"shop_backend/internal/feature/catalog/domain"
	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
)

// productMySQL はProductRepositoryインターフェースのMySQL実装です。
type productMySQL struct {
	db *gorm.DB
}

var _ usecase.ProductRepository = (*productMySQL)(nil)

// NewProductMySQL は指定されたgorm.DB接続でproductMySQLの新しいインスタンスを生成します。
func NewProductMySQL(db *gorm.DB) *productMySQL {
	return &productMySQL{db: db}
}

// ProductModel はproductsテーブルのGORMモデルです。
type ProductModel struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:255;not null"`
	Description string  `gorm:"type:text;not null"`
	Price       float64 `gorm:"not null"`
	Stock       int     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName はテーブル名を指定します。
func (ProductModel) TableName() string {
	return "products"
}

func toModel(e *entity.Product) ProductModel {
	return ProductModel{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Price:       e.Price,
		Stock:       e.Stock,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEntity(m ProductModel) entity.Product {
	return entity.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Create は商品をデータベースに追加し、採番されたIDをエンティティへ反映します。
func (r *productMySQL) Create(ctx context.Context, product *entity.Product) error {
	m := toModel(product)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*product = toEntity(m)
	return nil
}

// FindPage は作成日時の降順でページを取得し、同じ条件の総件数を返します。
func (r *productMySQL) FindPage(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&ProductModel{})
	if inStockOnly {
		q = q.Where("stock > ?", 0)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []ProductModel
	offset := (page - 1) * limit
	if err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]entity.Product, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, total, nil
}

// FindByID はIDで商品を取得します。
func (r *productMySQL) FindByID(ctx context.Context, id uint) (*entity.Product, error) {
	var m ProductModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	e := toEntity(m)
	return &e, nil
}

// Update は指定フィールドのみを更新し、更新後の商品を返します。
func (r *productMySQL) Update(ctx context.Context, id uint, update usecase.ProductUpdate) (*entity.Product, error) {
	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = *update.Name
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Price != nil {
		fields["price"] = *update.Price
	}
	if update.Stock != nil {
		fields["stock"] = *update.Stock
	}

	// 値が既存と同一の場合にRowsAffectedが0になるため、存在確認を先に行う
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&ProductModel{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete は商品を削除します。対象が存在しない場合はdomain.ErrProductNotFoundを返します。
func (r *productMySQL) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&ProductModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
