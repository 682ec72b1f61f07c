package apperror

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
)

// Middleware はハンドラーがコンテキストに付与したエラーを標準エンベロープへ変換します。
// 型付きエラーはそのステータスとタグで応答し、未知のエラーはログに記録した上で
// 汎用的な500レスポンスを返します。
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if apiErr, ok := From(err); ok {
			if apiErr.Status >= http.StatusInternalServerError {
				slog.Error("request failed", "error", apiErr.Error(), "path", c.Request.URL.Path, "method", c.Request.Method)
			}
			c.JSON(apiErr.Status, api.ErrorResponse{
				ErrorType: apiErr.Type,
				Message:   apiErr.Message,
				Details:   apiErr.Details,
			})
			return
		}

		// 認識できないエラーは内容を公開しない
		slog.Error("unhandled error", "error", err, "path", c.Request.URL.Path, "method", c.Request.Method)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			ErrorType: TypeServer,
			Message:   "an unexpected error occurred",
		})
	}
}

// Abort はエラーをコンテキストに付与してリクエスト処理を中断します。
// レスポンスの書き出しはMiddlewareに委ねます。
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// NoRoute は未定義ルートに対する404ハンドラーです。
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, api.ErrorResponse{
		ErrorType: TypeNotFound,
		Message:   "route not found",
	})
}
