// Package handler はusersフィーチャー（管理者用ユーザー管理）のHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	authentity "shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/users/domain"
	"shop_backend/internal/feature/users/usecase"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/shared/apperror"
)

// UserUsecase は管理者用ユーザー管理のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type UserUsecase interface {
	List(ctx context.Context, page, limit int) (*usecase.UserPage, error)
	UpdateEmail(ctx context.Context, email, newEmail string) (*authentity.User, error)
	UpdateRole(ctx context.Context, email, role string) (*authentity.User, error)
	ChangePassword(ctx context.Context, email, newPassword string) error
	Delete(ctx context.Context, email, requestingAdminEmail string) (*usecase.DeletedUser, error)
}

// UserHandler は管理者用ユーザー管理のHTTPリクエストを処理します。
type UserHandler struct {
	uc UserUsecase
}

// NewUserHandler は指定されたusecaseでUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func toUserResponse(u authentity.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// List はユーザー一覧APIエンドポイント（管理者用）を処理します。
// パスワードはレスポンスから除外されます。
func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.uc.List(c.Request.Context(), page, limit)
	if err != nil {
		apperror.Abort(c, apperror.Internal("failed to list users", err))
		return
	}

	items := make([]api.UserResponse, 0, len(result.Items))
	for _, u := range result.Items {
		items = append(items, toUserResponse(u))
	}
	c.JSON(http.StatusOK, api.UserListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// 識別子・作成日時・パスワードはこの経路からは変更できない
var forbiddenUpdateFields = []string{"id", "createdAt", "password"}

// UpdateEmail はメールアドレス変更APIエンドポイント（管理者用）を処理します。
// - 禁止フィールドの変更要求は400を返却
// - 対象不在時は404、メールアドレス衝突時は409を返却
func (h *UserHandler) UpdateEmail(c *gin.Context) {
	email := c.Param("email")

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid request body"))
		return
	}

	var invalid []string
	for _, field := range forbiddenUpdateFields {
		if _, ok := body[field]; ok {
			invalid = append(invalid, field)
		}
	}
	if len(invalid) > 0 {
		apperror.Abort(c, apperror.Validation(apperror.TypeInvalidFields, "the following fields cannot be updated").
			WithDetails(map[string]any{"forbiddenFields": invalid}))
		return
	}

	newEmail, ok := body["email"].(string)
	if !ok || newEmail == "" {
		apperror.Abort(c, apperror.Validation(apperror.TypeMissingField, "the email field is required").
			WithDetails(map[string]any{"requiredFields": []string{"email"}}))
		return
	}

	user, err := h.uc.UpdateEmail(c.Request.Context(), email, newEmail)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeUserNotFound, "user not found").
				WithDetails(map[string]any{"email": email}))
		case errors.Is(err, domain.ErrEmailTaken):
			apperror.Abort(c, apperror.Conflict(apperror.TypeDuplicateEntry, "email is already in use by another user").
				WithDetails(map[string]any{"email": newEmail}))
		default:
			apperror.Abort(c, apperror.Internal("failed to update email", err))
		}
		return
	}

	slog.Info("user email updated", "from", email, "to", user.Email)
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// UpdateRole はロール変更APIエンドポイント（管理者用）を処理します。
func (h *UserHandler) UpdateRole(c *gin.Context) {
	email := c.Param("email")

	var req api.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeMissingField, "the role field is required").
			WithDetails(map[string]any{"requiredFields": []string{"role"}}))
		return
	}

	user, err := h.uc.UpdateRole(c.Request.Context(), email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			apperror.Abort(c, apperror.Validation(apperror.TypeRoleValidation, "invalid role").
				WithDetails(map[string]any{
					"validRoles": []string{authentity.RoleUser, authentity.RoleAdmin},
					"received":   req.Role,
				}))
		case errors.Is(err, domain.ErrUserNotFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeUserNotFound, "user not found").
				WithDetails(map[string]any{"email": email}))
		default:
			apperror.Abort(c, apperror.Internal("failed to update role", err))
		}
		return
	}

	slog.Info("user role updated", "email", user.Email, "role", user.Role)
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// ChangePassword はパスワード変更APIエンドポイント（管理者用）を処理します。
// 新パスワードが現在のものと同一の場合は400を返却します。
func (h *UserHandler) ChangePassword(c *gin.Context) {
	email := c.Param("email")

	var req api.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Abort(c, apperror.Validation(apperror.TypeValidation, "invalid password format"))
		return
	}

	if err := h.uc.ChangePassword(c.Request.Context(), email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeUserNotFound, "user not found").
				WithDetails(map[string]any{"email": email}))
		case errors.Is(err, domain.ErrSamePassword):
			apperror.Abort(c, apperror.Validation(apperror.TypePasswordSameAsOld, "the new password cannot be the same as the current one"))
		default:
			apperror.Abort(c, apperror.Internal("failed to change password", err))
		}
		return
	}

	slog.Info("user password changed", "email", email)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "password updated successfully"})
}

// Delete はユーザー削除APIエンドポイント（管理者用）を処理します。
// 管理者自身の削除は403で拒否されます。
func (h *UserHandler) Delete(c *gin.Context) {
	email := c.Param("email")

	admin, ok := jwtmw.CurrentUser(c)
	if !ok {
		apperror.Abort(c, apperror.Unauthorized("not authenticated"))
		return
	}

	result, err := h.uc.Delete(c.Request.Context(), email, admin.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfDeletion):
			apperror.Abort(c, apperror.Forbidden(apperror.TypeSelfDeletion, "you cannot delete your own account").
				WithDetails(map[string]any{"email": email}))
		case errors.Is(err, domain.ErrUserNotFound):
			apperror.Abort(c, apperror.NotFound(apperror.TypeUserNotFound, "user not found").
				WithDetails(map[string]any{"email": email}))
		default:
			apperror.Abort(c, apperror.Internal("failed to delete user", err))
		}
		return
	}

	slog.Info("user deleted", "email", result.Email, "by", admin.Email)
	c.JSON(http.StatusOK, api.DeletedUserResponse{
		Email:     result.Email,
		Role:      result.Role,
		DeletedAt: result.DeletedAt,
	})
}
