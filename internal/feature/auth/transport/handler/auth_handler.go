// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/auth/domain"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/shared/apperror"
)

// tokenCookieMaxAge はセッショントークンクッキーの有効期間（秒）です。
const tokenCookieMaxAge = 3600

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は指定されたメールアドレスとパスワードで新規ユーザーを登録します。
	Register(ctx context.Context, email, password string) (*entity.User, error)
	// Login はユーザーを認証し、成功時にトークンと公開ユーザー情報を返します。
	Login(ctx context.Context, email, password string) (string, *entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メールアドレス重複時は409を返却
// - 成功時は201でIDとメールアドレスを返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid email or password format"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			slog.Warn("register conflict", "email", req.Email, "remote_addr", c.ClientIP())
			apperror.Abort(c, apperror.Conflict(apperror.TypeUserAlreadyExists, "user already exists"))
			return
		}
		apperror.Abort(c, apperror.Internal("failed to register user", err))
		return
	}

	slog.Info("user registered", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.RegisterResponse{ID: user.ID, Email: user.Email})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 成功時はトークンをボディとhttp-onlyクッキーの両方で返します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（理由は区別しない）
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid email or password format"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
		apperror.Abort(c, apperror.Unauthorized("invalid email or password"))
		return
	}

	// http-only / secure / same-site-strict クッキーとしても配布する
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", token, tokenCookieMaxAge, "/", "", true, true)

	slog.Info("user login successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.LoginResponse{
		Token: token,
		User: api.UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
		},
	})
}
