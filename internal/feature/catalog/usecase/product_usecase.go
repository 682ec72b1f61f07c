// Package usecase はcatalogフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"

	"shop_backend/internal/feature/catalog/domain"
	"shop_backend/internal/feature/catalog/domain/entity"
)

const (
	// DefaultPage は一覧取得のデフォルトページ番号です。
	DefaultPage = 1
	// DefaultLimit は一覧取得のデフォルト件数です。
	DefaultLimit = 10
	// MaxLimit は1ページあたりの最大件数です。
	MaxLimit = 100
)

// ProductUpdate は部分更新で変更可能なフィールドを表します。
// nilのフィールドは変更されません。
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

// Empty は更新対象フィールドが1つも指定されていないことを報告します。
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Stock == nil
}

// ProductRepository は商品エンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはコンシューマー（usecase）が定義します。
type ProductRepository interface {
	// Create は新しい商品を永続化します。
	Create(ctx context.Context, product *entity.Product) error

	// FindPage は作成日時の降順でページを取得し、総件数を返します。
	// inStockOnlyが真の場合、在庫が1以上の商品に限定します。
	FindPage(ctx context.Context, page, limit int, inStockOnly bool) ([]entity.Product, int64, error)

	// FindByID はIDで商品を取得します。
	// 存在しない場合、domain.ErrProductNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.Product, error)

	// Update は指定フィールドのみを更新し、更新後の商品を返します。
	// 存在しない場合、domain.ErrProductNotFoundを返します。
	Update(ctx context.Context, id uint, update ProductUpdate) (*entity.Product, error)

	// Delete は商品を削除します。
	// 存在しない場合、domain.ErrProductNotFoundを返します。
	Delete(ctx context.Context, id uint) error
}

// ProductPage はページネーション付きの一覧取得結果です。
type ProductPage struct {
	Items []entity.Product
	Total int64
	Page  int
	Limit int
}

// productUsecase は商品カタログのユースケースを実装します。
type productUsecase struct {
	products ProductRepository
}

// NewProductUsecase はproductUsecaseの新しいインスタンスを生成します。
func NewProductUsecase(products ProductRepository) *productUsecase {
	return &productUsecase{products: products}
}

// normalizePage は範囲外のページ指定をデフォルト値に丸めます。
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return page, limit
}

// Create は必須フィールドを検証した上で商品を永続化します。
func (u *productUsecase) Create(ctx context.Context, product *entity.Product) error {
	if product.Price < 0 || product.Stock < 0 {
		return domain.ErrInvalidProductData
	}
	return u.products.Create(ctx, product)
}

// ListInStock は在庫のある商品のページを新しい順で返します。
func (u *productUsecase) ListInStock(ctx context.Context, page, limit int) (*ProductPage, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := u.products.FindPage(ctx, page, limit, true)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// ListAll は在庫の有無に関わらず商品のページを新しい順で返します。
func (u *productUsecase) ListAll(ctx context.Context, page, limit int) (*ProductPage, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := u.products.FindPage(ctx, page, limit, false)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Get はIDで商品を1件取得します。
func (u *productUsecase) Get(ctx context.Context, id uint) (*entity.Product, error) {
	return u.products.FindByID(ctx, id)
}

// Update は部分更新を適用します。name/description/price/stock以外は変更できません。
// 更新対象フィールドが1つもない場合はdomain.ErrNoFieldsToUpdateを返します。
func (u *productUsecase) Update(ctx context.Context, id uint, update ProductUpdate) (*entity.Product, error) {
	if update.Empty() {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if update.Price != nil && *update.Price < 0 {
		return nil, domain.ErrInvalidProductData
	}
	if update.Stock != nil && *update.Stock < 0 {
		return nil, domain.ErrInvalidProductData
	}
	return u.products.Update(ctx, id, update)
}

// Delete は商品を削除し、削除したIDを返します。
func (u *productUsecase) Delete(ctx context.Context, id uint) (uint, error) {
	if err := u.products.Delete(ctx, id); err != nil {
		return 0, err
	}
	return id, nil
}
