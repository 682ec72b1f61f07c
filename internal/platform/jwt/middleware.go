package jwtmw

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/shared/apperror"
)

// Context keys set by AuthRequired.
const (
	ContextUserID = "userID"
	ContextUser   = "currentUser"

	// CookieName is the cookie the session token is read from.
	CookieName = "token"
)

// UserFinder resolves the user referenced by a verified token.
// Goの慣例に従い、インターフェースはプロバイダーではなくコンシューマーが定義します。
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// Middleware groups the authentication and role-check gin middleware.
type Middleware struct {
	verifier Verifier
	users    UserFinder
}

// NewMiddleware creates a Middleware with the given token verifier and user lookup.
func NewMiddleware(verifier Verifier, users UserFinder) *Middleware {
	return &Middleware{verifier: verifier, users: users}
}

// AuthRequired validates the session token and attaches the resolved user to
// the request context. The token is read from the "token" cookie first, then
// from the Authorization bearer header.
func (m *Middleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			apperror.Abort(c, apperror.Unauthorized("missing authentication token"))
			return
		}

		claims, err := m.verifier.VerifyToken(tokenStr)
		if err != nil {
			apperror.Abort(c, apperror.Unauthorized("invalid or expired token"))
			return
		}

		// トークンが有効でも参照先ユーザーが削除済みなら拒否する
		user, err := m.users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			apperror.Abort(c, apperror.Unauthorized("user no longer exists"))
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not in the allow-list.
// It must run after AuthRequired.
func (m *Middleware) RequireRoles(allowed ...string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apperror.Abort(c, apperror.Unauthorized("not authenticated"))
			return
		}
		if _, ok := allowedSet[user.Role]; !ok {
			apperror.Abort(c, apperror.Forbidden(apperror.TypeForbidden,
				"access denied: allowed roles: "+strings.Join(allowed, ", ")))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok
}

// extractToken はクッキーまたはAuthorizationヘッダーからトークンを取り出します。
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
