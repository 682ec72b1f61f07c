// Package api はHTTPトランスポートで共有するリクエスト/レスポンスDTOを定義します。
package api

// RegisterRequest はユーザー登録リクエストのボディです。
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest はログインリクエストのボディです。
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateProductRequest は商品作成リクエストのボディです。
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
}

// UpdateProductRequest は商品の部分更新リクエストのボディです。
// 更新対象のフィールドのみを指定します。少なくとも1つの指定が必要です。
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

// OrderItemRequest は注文の1明細（商品参照と数量）です。
type OrderItemRequest struct {
	Product  uint `json:"product" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest は注文作成リクエストのボディです。
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateOrderStatusRequest は注文ステータス変更リクエストのボディです。
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRoleRequest はユーザーロール変更リクエストのボディです。
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ChangePasswordRequest はパスワード変更リクエストのボディです。
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}
