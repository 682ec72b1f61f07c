// Package apperror はAPI全体で使用する型付きエラーを定義します。
// エラーはHTTPステータスコード、機械可読なタグ、任意の詳細ペイロードを保持し、
// ミドルウェアが一元的にJSONエンベロープへ変換します。
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// 機械可読なエラータグ。レスポンスのerrorTypeフィールドに設定されます。
const (
	TypeValidation            = "VALIDATION_ERROR"
	TypeInvalidOrderID        = "INVALID_ORDER_ID"
	TypeUnauthorized          = "UNAUTHORIZED"
	TypeForbidden             = "FORBIDDEN"
	TypeSelfDeletion          = "SELF_DELETION"
	TypeProductNotFound       = "PRODUCT_NOT_FOUND"
	TypeOrderNotFound         = "ORDER_NOT_FOUND"
	TypeUserNotFound          = "USER_NOT_FOUND"
	TypeNotFound              = "NOT_FOUND"
	TypeUserAlreadyExists     = "USER_ALREADY_EXISTS"
	TypeDuplicateEntry        = "DUPLICATE_ENTRY"
	TypeInsufficientStock     = "INSUFFICIENT_STOCK"
	TypeOrderAlreadyCancelled = "ORDER_ALREADY_CANCELLED"
	TypeRoleValidation        = "ROLE_VALIDATION"
	TypeInvalidStatus         = "INVALID_STATUS"
	TypePasswordSameAsOld     = "PASSWORD_SAME_AS_OLD"
	TypeMissingField          = "MISSING_FIELD"
	TypeInvalidFields         = "INVALID_FIELDS"
	TypeTooManyRequests       = "TOO_MANY_REQUESTS"
	TypeServer                = "SERVER_ERROR"
)

// Error はハンドラーからクライアントへ伝搬する型付きAPIエラーです。
// エラー構造をメッセージ文字列にエンコードして往復させることはしません。
type Error struct {
	// Status はレスポンスのHTTPステータスコードです。
	Status int
	// Type は機械可読なエラータグです。
	Type string
	// Message は人間可読な説明です。
	Message string
	// Details は任意の構造化された詳細ペイロードです。
	Details map[string]any
	// Err はラップされた内部エラーです（レスポンスには含まれません）。
	Err error
}

// Error はerrorインターフェースを実装します。
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap はラップされた内部エラーを返します。
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetails は詳細ペイロードを設定したエラーのコピーを返します。
func (e *Error) WithDetails(details map[string]any) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// New は任意のステータスとタグを持つErrorを生成します。
func New(status int, errType, message string) *Error {
	return &Error{Status: status, Type: errType, Message: message}
}

// Validation は400エラーを生成します。
func Validation(errType, message string) *Error {
	return New(http.StatusBadRequest, errType, message)
}

// Unauthorized は401エラーを生成します。
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, TypeUnauthorized, message)
}

// Forbidden は403エラーを生成します。
func Forbidden(errType, message string) *Error {
	return New(http.StatusForbidden, errType, message)
}

// NotFound は404エラーを生成します。
func NotFound(errType, message string) *Error {
	return New(http.StatusNotFound, errType, message)
}

// Conflict は409エラーを生成します。
func Conflict(errType, message string) *Error {
	return New(http.StatusConflict, errType, message)
}

// TooManyRequests は429エラーを生成します。
func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, TypeTooManyRequests, message)
}

// Internal は内部エラーをラップした500エラーを生成します。
// 元のエラーはログ用に保持され、クライアントには公開されません。
func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Type: TypeServer, Message: message, Err: err}
}

// From はerrからErrorを取り出します。型付きエラーでない場合はnilとfalseを返します。
func From(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
