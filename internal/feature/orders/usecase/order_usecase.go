// Package usecase はordersフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"

	"shop_backend/internal/feature/orders/domain"
	"shop_backend/internal/feature/orders/domain/entity"
)

const (
	// DefaultPage は注文一覧のデフォルトページ番号です。
	DefaultPage = 1
	// DefaultLimit は注文一覧のデフォルト件数です。
	DefaultLimit = 10
	// MaxLimit は1ページあたりの最大件数です。
	MaxLimit = 100
)

// OrderRepository は注文エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type OrderRepository interface {
	// CreateOrder は在庫確認・在庫減算・注文作成を単一トランザクションで実行します。
	// いずれかの明細が失敗した場合、すべての在庫変更をロールバックした上で
	// domain.ProductNotFoundErrorまたはdomain.InsufficientStockErrorを返します。
	CreateOrder(ctx context.Context, userID uint, items []entity.OrderItem) (*entity.Order, error)

	// FindPageByUser は指定ユーザーの注文ページを新しい順で取得し、総件数を返します。
	FindPageByUser(ctx context.Context, userID uint, page, limit int) ([]entity.Order, int64, error)

	// FindByID はIDで注文を取得します。
	// 存在しない場合、domain.ErrOrderNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Order, error)

	// UpdateStatus は注文ステータスを更新します。キャンセルへの遷移では
	// 各明細分の在庫復元をステータス書き込みと同一トランザクションで実行します。
	// キャンセル済み注文への遷移はdomain.ErrOrderAlreadyCancelledを返します。
	UpdateStatus(ctx context.Context, id uint, status string) (*entity.Order, error)
}

// OrderPage はページネーション付きの注文一覧取得結果です。
type OrderPage struct {
	Items []entity.Order
	Total int64
	Page  int
	Limit int
}

// orderUsecase は注文フローのユースケースを実装します。
type orderUsecase struct {
	orders OrderRepository
}

// NewOrderUsecase はorderUsecaseの新しいインスタンスを生成します。
func NewOrderUsecase(orders OrderRepository) *orderUsecase {
	return &orderUsecase{orders: orders}
}

// CreateOrder は注文を作成します。全明細の在庫確認と減算、注文作成は
// リポジトリの単一トランザクションに委譲されます。部分的な在庫減算が
// 観測されることはありません。
func (u *orderUsecase) CreateOrder(ctx context.Context, userID uint, items []entity.OrderItem) (*entity.Order, error) {
	return u.orders.CreateOrder(ctx, userID, items)
}

// GetOrdersByUser は指定ユーザーの注文ページを新しい順で返します。
// 該当ページに注文が1件もない場合、domain.ErrNoOrdersを返します。
func (u *orderUsecase) GetOrdersByUser(ctx context.Context, userID uint, page, limit int) (*OrderPage, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	items, total, err := u.orders.FindPageByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrNoOrders
	}
	return &OrderPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetOrderByID は注文を1件取得します。所有者以外のアクセスは
// domain.ErrOrderAccessDeniedで拒否されます。
func (u *orderUsecase) GetOrderByID(ctx context.Context, orderID, userID uint) (*entity.Order, error) {
	order, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domain.ErrOrderAccessDenied
	}
	return order, nil
}

// UpdateStatus は注文ステータスを遷移させます。
// キャンセルは終端状態で、そこからの遷移はできません。それ以外の遷移は
// 制限されません（意図的なモデリング上の単純化）。
func (u *orderUsecase) UpdateStatus(ctx context.Context, orderID uint, newStatus string) (*entity.Order, error) {
	if !entity.ValidStatus(newStatus) {
		return nil, domain.ErrInvalidStatus
	}
	return u.orders.UpdateStatus(ctx, orderID, newStatus)
}
