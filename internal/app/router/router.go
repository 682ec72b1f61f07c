// Package router はアプリケーションのルートテーブルを構築します。
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "shop_backend/internal/feature/auth/transport/handler"
	cataloghandler "shop_backend/internal/feature/catalog/transport/handler"
	orderhandler "shop_backend/internal/feature/orders/transport/handler"
	userhandler "shop_backend/internal/feature/users/transport/handler"
	platformhandler "shop_backend/internal/platform/http/handler"
	jwtmw "shop_backend/internal/platform/jwt"
	"shop_backend/internal/shared/apperror"
	"shop_backend/internal/shared/ratelimiter"
)

// Deps はルータ構築に必要なハンドラーとミドルウェアの集合です。
type Deps struct {
	Auth     *authhandler.AuthHandler
	Products *cataloghandler.ProductHandler
	Orders   *orderhandler.OrderHandler
	Users    *userhandler.UserHandler

	MW *jwtmw.Middleware

	// APILimiter は全APIルートに適用されます。
	APILimiter *ratelimiter.RateLimiter
	// LoginLimiter はログインエンドポイントにのみ適用される厳しめの制限です。
	LoginLimiter *ratelimiter.RateLimiter
}

// NewRouter は全ルートを登録したgin.Engineを生成します。
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), apperror.Middleware())

	// 導通確認用
	r.GET("/healthz", platformhandler.Health)

	// 未定義ルートは標準エンベロープの404
	r.NoRoute(apperror.NoRoute)

	api := r.Group("/api")
	api.Use(d.APILimiter.Middleware())

	// 認証不要
	auth := api.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.LoginLimiter.Middleware(), d.Auth.Login)
	}

	authRequired := d.MW.AuthRequired()
	adminOnly := d.MW.RequireRoles("admin")

	// 商品カタログ
	products := api.Group("/products")
	products.Use(authRequired)
	{
		// 在庫ありの一覧は認証ユーザーなら誰でも参照可能
		products.GET("/stock", d.Products.ListInStock)
		products.GET("/:id", d.Products.Get)

		// 作成・全件一覧・更新・削除は管理者のみ
		products.POST("", adminOnly, d.Products.Create)
		products.GET("", adminOnly, d.Products.ListAll)
		products.PATCH("/:id", adminOnly, d.Products.Update)
		products.DELETE("/:id", adminOnly, d.Products.Delete)
	}

	// 注文
	orders := api.Group("/orders")
	orders.Use(authRequired)
	{
		orders.POST("", d.Orders.Create)
		orders.GET("", d.Orders.ListMine)
		orders.GET("/:id", d.Orders.Get)
		orders.PATCH("/:id/status", d.Orders.UpdateStatus)
	}

	// ユーザー管理（管理者のみ）
	users := api.Group("/user")
	users.Use(authRequired, adminOnly)
	{
		users.GET("", d.Users.List)
		users.PUT("/:email", d.Users.UpdateEmail)
		users.DELETE("/:email", d.Users.Delete)
		users.PATCH("/:email/role", d.Users.UpdateRole)
		users.PATCH("/:email/password", d.Users.ChangePassword)
	}

	return r
}
