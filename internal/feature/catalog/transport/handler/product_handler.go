// Package handler はcatalogフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/catalog/domain"
	"shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/feature/catalog/usecase"
	"shop_backend/internal/shared/apperror"
)

// ProductUsecase は商品カタログ操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ProductUsecase interface {
	Create(ctx context.Context, product *entity.Product) error
	ListInStock(ctx context.Context, page, limit int) (*usecase.ProductPage, error)
	ListAll(ctx context.Context, page, limit int) (*usecase.ProductPage, error)
	Get(ctx context.Context, id uint) (*entity.Product, error)
	Update(ctx context.Context, id uint, update usecase.ProductUpdate) (*entity.Product, error)
	Delete(ctx context.Context, id uint) (uint, error)
}

// ProductHandler は商品カタログのHTTPリクエストを処理します。
type ProductHandler struct {
	uc ProductUsecase
}

// NewProductHandler は指定されたusecaseでProductHandlerの新しいインスタンスを生成します。
func NewProductHandler(uc ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// parsePagination はクエリのpage/limitを解釈します。不正値はユースケース側で丸められます。
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return page, limit
}

// parseProductID はパスパラメータの商品IDを解釈します。
func parseProductID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid product id").
			WithDetails(map[string]any{"id": c.Param("id")}))
		return 0, false
	}
	return uint(id), true
}

func toProductResponse(p entity.Product) api.ProductResponse {
	return api.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductListResponse(page *usecase.ProductPage) api.ProductListResponse {
	items := make([]api.ProductResponse, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, toProductResponse(p))
	}
	return api.ProductListResponse{Items: items, Total: page.Total, Page: page.Page, Limit: page.Limit}
}

// Create は商品作成APIエンドポイントを処理します。
// - 必須フィールド欠落や負の価格/在庫は400を返却
// - 成功時は201で作成した商品を返却
func (h *ProductHandler) Create(c *gin.Context) {
	var req api.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid product data"))
		return
	}

	product := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.uc.Create(c.Request.Context(), product); err != nil {
		if errors.Is(err, domain.ErrInvalidProductData) {
			apperror.Abort(c, apperror.Validation(apperror.TypeValidation, err.Error()))
			return
		}
		apperror.Abort(c, apperror.Internal("failed to create product", err))
		return
	}

	slog.Info("product created", "id", product.ID, "name", product.Name)
	c.JSON(http.StatusCreated, toProductResponse(*product))
}

// ListInStock は在庫のある商品の一覧APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/products/stock?page=1&limit=10
func (h *ProductHandler) ListInStock(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.uc.ListInStock(c.Request.Context(), page, limit)
	if err != nil {
		apperror.Abort(c, apperror.Internal("failed to list products", err))
		return
	}

	c.JSON(http.StatusOK, toProductListResponse(result))
}

// ListAll は全商品の一覧APIエンドポイント（管理者用）を処理します。
func (h *ProductHandler) ListAll(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.uc.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		apperror.Abort(c, apperror.Internal("failed to list products", err))
		return
	}

	c.JSON(http.StatusOK, toProductListResponse(result))
}

// Get は商品1件取得APIエンドポイントを処理します。
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.uc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			apperror.Abort(c, apperror.NotFound(apperror.TypeProductNotFound, "product not found").
				WithDetails(map[string]any{"id": id}))
			return
		}
		apperror.Abort(c, apperror.Internal("failed to fetch product", err))
		return
	}

	c.JSON(http.StatusOK, toProductResponse(*product))
}

// Update は商品の部分更新APIエンドポイントを処理します。
// 更新可能なのはname/description/price/stockのみで、最低1フィールドの指定が必要です。
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req api.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid product data"))
		return
	}

	update := usecase.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	product, err := h.uc.Update(c.Request.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeProductNotFound, "product not found").
				WithDetails(map[string]any{"id": id}))
		case errors.Is(err, domain.ErrNoFieldsToUpdate), errors.Is(err, domain.ErrInvalidProductData):
			apperror.Abort(c, apperror.Validation(apperror.TypeValidation, err.Error()))
		default:
			apperror.Abort(c, apperror.Internal("failed to update product", err))
		}
		return
	}

	slog.Info("product updated", "id", product.ID)
	c.JSON(http.StatusOK, toProductResponse(*product))
}

// Delete は商品削除APIエンドポイントを処理します。成功時は削除したIDを返します。
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	deletedID, err := h.uc.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			apperror.Abort(c, apperror.NotFound(apperror.TypeProductNotFound, "product not found").
				WithDetails(map[string]any{"id": id}))
			return
		}
		apperror.Abort(c, apperror.Internal("failed to delete product", err))
		return
	}

	slog.Info("product deleted", "id", deletedID)
	c.JSON(http.StatusOK, api.DeletedProductResponse{ID: deletedID})
}
