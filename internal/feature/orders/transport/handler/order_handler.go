// Package handler はordersフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/orders/domain"
	"shop_backend/internal/feature/orders/domain/entity"
	"shop_backend/internal/feature/orders/usecase"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/shared/apperror"
)

// OrderUsecase は注文フローのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type OrderUsecase interface {
	CreateOrder(ctx context.Context, userID uint, items []entity.OrderItem) (*entity.Order, error)
	GetOrdersByUser(ctx context.Context, userID uint, page, limit int) (*usecase.OrderPage, error)
	GetOrderByID(ctx context.Context, orderID, userID uint) (*entity.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, newStatus string) (*entity.Order, error)
}

// OrderHandler は注文フローのHTTPリクエストを処理します。
type OrderHandler struct {
	uc OrderUsecase
}

// NewOrderHandler は指定されたusecaseでOrderHandlerの新しいインスタンスを生成します。
func NewOrderHandler(uc OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func toOrderResponse(o entity.Order) api.OrderResponse {
	items := make([]api.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, api.OrderItemResponse{Product: it.ProductID, Quantity: it.Quantity})
	}
	return api.OrderResponse{
		ID:        o.ID,
		User:      o.UserID,
		Items:     items,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// currentUserID は認証ミドルウェアが設定したユーザーIDを取得します。
func currentUserID(c *gin.Context) (uint, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		apperror.Abort(c, apperror.Unauthorized("not authenticated"))
		return 0, false
	}
	return user.ID, true
}

// parseOrderID はパスパラメータの注文IDを解釈します。
// 整形式でない場合はバリデーションエラーを返します。
func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeInvalidOrderID, "invalid order id").
			WithDetails(map[string]any{"orderId": c.Param("id")}))
		return 0, false
	}
	return uint(id), true
}

// Create は注文作成APIエンドポイントを処理します。
// 全明細の在庫確認・減算と注文作成は単一トランザクションで実行され、
// いずれかの明細が失敗した場合は在庫が一切変更されません。
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req api.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid order data"))
		return
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, entity.OrderItem{ProductID: it.Product, Quantity: it.Quantity})
	}

	order, err := h.uc.CreateOrder(c.Request.Context(), userID, items)
	if err != nil {
		var notFound *domain.ProductNotFoundError
		var noStock *domain.InsufficientStockError
		switch {
		case errors.As(err, &notFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeProductNotFound, "product not found").
				WithDetails(map[string]any{"product": notFound.ProductID}))
		case errors.As(err, &noStock):
			apperror.Abort(c, apperror.Conflict(apperror.TypeInsufficientStock, "insufficient stock").
				WithDetails(map[string]any{
					"product":   noStock.ProductID,
					"requested": noStock.Requested,
					"available": noStock.Available,
				}))
		default:
			// トランザクション中断は自動リトライせず内部エラーとして表面化させる
			apperror.Abort(c, apperror.Internal("failed to place order", err))
		}
		return
	}

	slog.Info("order placed", "order_id", order.ID, "user_id", userID, "items", len(order.Items))
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// ListMine は認証ユーザー自身の注文一覧APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/orders?page=1&limit=10
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.uc.GetOrdersByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		if errors.Is(err, domain.ErrNoOrders) {
			apperror.Abort(c, apperror.NotFound(apperror.TypeOrderNotFound, "no orders found").
				WithDetails(map[string]any{"page": page}))
			return
		}
		apperror.Abort(c, apperror.Internal("failed to fetch orders", err))
		return
	}

	items := make([]api.OrderResponse, 0, len(result.Items))
	for _, o := range result.Items {
		items = append(items, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, api.OrderListResponse{
		Items: items,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// Get は注文1件取得APIエンドポイントを処理します。
// 他ユーザーの注文へのアクセスは403で拒否されます。
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := h.uc.GetOrderByID(c.Request.Context(), orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeOrderNotFound, "order not found").
				WithDetails(map[string]any{"orderId": orderID}))
		case errors.Is(err, domain.ErrOrderAccessDenied):
			apperror.Abort(c, apperror.Forbidden(apperror.TypeForbidden, "you do not have access to this order").
				WithDetails(map[string]any{"orderId": orderID}))
		default:
			apperror.Abort(c, apperror.Internal("failed to fetch order", err))
		}
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// UpdateStatus は注文ステータス変更APIエンドポイントを処理します。
// キャンセルへの遷移では各明細分の在庫が復元されます。キャンセル済みの
// 注文は遷移できません。
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req api.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "the new status is required"))
		return
	}

	order, err := h.uc.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus):
			apperror.Abort(c, apperror.Validation(apperror.TypeInvalidStatus, "invalid order status").
				WithDetails(map[string]any{"received": req.Status}))
		case errors.Is(err, domain.ErrOrderNotFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeOrderNotFound, "order not found").
				WithDetails(map[string]any{"orderId": orderID}))
		case errors.Is(err, domain.ErrOrderAlreadyCancelled):
			apperror.Abort(c, apperror.Conflict(apperror.TypeOrderAlreadyCancelled, "order is already cancelled").
				WithDetails(map[string]any{"orderId": orderID}))
		default:
			apperror.Abort(c, apperror.Internal("failed to update order status", err))
		}
		return
	}

	slog.Info("order status updated", "order_id", order.ID, "status", order.Status)
	c.JSON(http.StatusOK, toOrderResponse(*order))
}
