// Package adapters はordersフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogadapters "shop_backend/internal/feature/catalog/adapters"
	"shop_backend/internal/feature/orders/domain"
	"shop_backend/internal/feature/orders/domain/entity"
	"shop_backend/internal/feature/orders/usecase"
)

// orderMySQL はOrderRepositoryインターフェースのMySQL実装です。
// 在庫の確認・減算・復元はすべてデータベーストランザクション内で行い、
// 分離性は下層ストアのトランザクションセマンティクスに委譲します。
type orderMySQL struct {
	db *gorm.DB
}

var _ usecase.OrderRepository = (*orderMySQL)(nil)

// NewOrderMySQL は指定されたgorm.DB接続でorderMySQLの新しいインスタンスを生成します。
func NewOrderMySQL(db *gorm.DB) *orderMySQL {
	return &orderMySQL{db: db}
}

// OrderModel はordersテーブルのGORMモデルです。
type OrderModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Status    string `gorm:"size:16;not null;default:pending;index"`
	Items     []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"index"`
	UpdatedAt time.Time
}

// TableName はテーブル名を指定します。
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel はorder_itemsテーブルのGORMモデルです。
type OrderItemModel struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"not null;index"`
	ProductID uint `gorm:"not null"`
	Quantity  int  `gorm:"not null"`
}

// TableName はテーブル名を指定します。
func (OrderItemModel) TableName() string {
	return "order_items"
}

func toEntity(m OrderModel) entity.Order {
	items := make([]entity.OrderItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, entity.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return entity.Order{
		ID:        m.ID,
		UserID:    m.UserID,
		Items:     items,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// lockForUpdate は行ロック句を付与します。SQLite（テスト用）はFOR UPDATEを
// サポートしないため、MySQLの場合のみ適用します。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// CreateOrder は在庫確認・在庫減算・注文作成を単一トランザクションで実行します。
// 各明細について対象商品を行ロック付きで取得し、在庫を確認した上で減算します。
// いずれかの明細が失敗した場合はトランザクション全体がロールバックされ、
// 部分的な在庫減算が観測されることはありません。
func (r *orderMySQL) CreateOrder(ctx context.Context, userID uint, items []entity.OrderItem) (*entity.Order, error) {
	var created OrderModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		itemModels := make([]OrderItemModel, 0, len(items))

		for _, it := range items {
			var p catalogadapters.ProductModel
			if err := lockForUpdate(tx).First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &domain.ProductNotFoundError{ProductID: it.ProductID}
				}
				return err
			}

			if p.Stock < it.Quantity {
				return &domain.InsufficientStockError{
					ProductID: p.ID,
					Requested: it.Quantity,
					Available: p.Stock,
				}
			}

			if err := tx.Model(&catalogadapters.ProductModel{}).
				Where("id = ?", p.ID).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity)).Error; err != nil {
				return err
			}

			itemModels = append(itemModels, OrderItemModel{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		created = OrderModel{
			UserID: userID,
			Status: entity.StatusPending,
			Items:  itemModels,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}

	out := toEntity(created)
	return &out, nil
}

// FindPageByUser は指定ユーザーの注文を作成日時の降順で取得します。
func (r *orderMySQL) FindPageByUser(ctx context.Context, userID uint, page, limit int) ([]entity.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&OrderModel{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []OrderModel
	offset := (page - 1) * limit
	if err := q.Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]entity.Order, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, total, nil
}

// FindByID はIDで注文を明細付きで取得します。
func (r *orderMySQL) FindByID(ctx context.Context, id uint) (*entity.Order, error) {
	var m OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	out := toEntity(m)
	return &out, nil
}

// UpdateStatus は注文ステータスを更新します。キャンセルへの遷移では各明細分の
// 在庫をステータス書き込みと同一トランザクション内で復元します。注文作成時と
// 同等の一貫性を保証するための境界です。
func (r *orderMySQL) UpdateStatus(ctx context.Context, id uint, status string) (*entity.Order, error) {
	var updated OrderModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m OrderModel
		if err := lockForUpdate(tx).Preload("Items").First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return err
		}

		// キャンセルは終端状態。二重復元を防ぐ
		if m.Status == entity.StatusCancelled {
			return domain.ErrOrderAlreadyCancelled
		}

		if status == entity.StatusCancelled {
			for _, it := range m.Items {
				if err := tx.Model(&catalogadapters.ProductModel{}).
					Where("id = ?", it.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&m).Update("status", status).Error; err != nil {
			return err
		}

		m.Status = status
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := toEntity(updated)
	return &out, nil
}
