package api

import "time"

// ErrorResponse は全エンドポイント共通のエラーエンベロープです。
type ErrorResponse struct {
	ErrorType string         `json:"errorType"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// MessageResponse は汎用の成功メッセージです。
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterResponse はユーザー登録成功時のレスポンスです。
type RegisterResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// UserResponse はユーザーの公開フィールドです。パスワードは含まれません。
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse はログイン成功時のレスポンスです。
// トークンはボディとhttp-onlyクッキーの両方で返されます。
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ProductResponse は商品1件のレスポンスです。
type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductListResponse はページネーション付き商品一覧のレスポンスです。
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// DeletedProductResponse は商品削除成功時のレスポンスです。
type DeletedProductResponse struct {
	ID uint `json:"id"`
}

// OrderItemResponse は注文明細1件のレスポンスです。
type OrderItemResponse struct {
	Product  uint `json:"product"`
	Quantity int  `json:"quantity"`
}

// OrderResponse は注文1件のレスポンスです。
type OrderResponse struct {
	ID        uint                `json:"id"`
	User      uint                `json:"user"`
	Items     []OrderItemResponse `json:"items"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// OrderListResponse はページネーション付き注文一覧のレスポンスです。
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// UserListResponse はページネーション付きユーザー一覧のレスポンスです。
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

// DeletedUserResponse はユーザー削除成功時のレスポンスです。
type DeletedUserResponse struct {
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	DeletedAt time.Time `json:"deletedAt"`
}
