package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"shop_backend/internal/app/router"
	authadapters "shop_backend/internal/feature/auth/adapters"
	authhandler "shop_backend/internal/feature/auth/transport/handler"
	authusecase "shop_backend/internal/feature/auth/usecase"
	catalogadapters "shop_backend/internal/feature/catalog/adapters"
	cataloghandler "shop_backend/internal/feature/catalog/transport/handler"
	catalogusecase "shop_backend/internal/feature/catalog/usecase"
	orderadapters "shop_backend/internal/feature/orders/adapters"
	orderhandler "shop_backend/internal/feature/orders/transport/handler"
	orderusecase "shop_backend/internal/feature/orders/usecase"
	useradapters "shop_backend/internal/feature/users/adapters"
	userhandler "shop_backend/internal/feature/users/transport/handler"
	userusecase "shop_backend/internal/feature/users/usecase"
	"shop_backend/internal/platform/cache"
	"shop_backend/internal/platform/crypt"
	infradb "shop_backend/internal/platform/db"
	jwtmw "shop_backend/internal/platform/jwt"
	infraredis "shop_backend/internal/platform/redis"
	"shop_backend/internal/shared/ratelimiter"
)

const (
	tokenExpiration = time.Hour

	// レートリミット設定（15分窓）
	rateLimitWindow = 15 * time.Minute
	apiRateLimit    = 100
	loginRateLimit  = 10
)

func main() {
	// 開発用の.envがあれば読み込む
	_ = godotenv.Load()

	// db
	db := infradb.OpenDB()

	// Redis（レートリミットと商品一覧キャッシュ）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Running without cache and rate limiting.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	// プラットフォーム
	tokens := jwtmw.NewGenerator(secret, tokenExpiration)
	hasher := crypt.NewBcryptHasher(0)

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	productRepo := catalogadapters.NewProductMySQL(db)
	cachedProductRepo := cache.NewCachingProductRepository(rdb, 30*time.Second, productRepo, "products")
	orderRepo := orderadapters.NewOrderMySQL(db)
	userAdminRepo := useradapters.NewUserAdminMySQL(db)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, hasher)
	productUC := catalogusecase.NewProductUsecase(cachedProductRepo)
	orderUC := orderusecase.NewOrderUsecase(orderRepo)
	userUC := userusecase.NewUserUsecase(userAdminRepo, hasher)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	productH := cataloghandler.NewProductHandler(productUC)
	orderH := orderhandler.NewOrderHandler(orderUC)
	userH := userhandler.NewUserHandler(userUC)

	// ミドルウェア
	mw := jwtmw.NewMiddleware(tokens, userRepo)
	apiLimiter := ratelimiter.NewRateLimiter(rdb, "ratelimit:api", apiRateLimit, rateLimitWindow)
	loginLimiter := ratelimiter.NewRateLimiter(rdb, "ratelimit:login", loginRateLimit, rateLimitWindow)

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Auth:         authH,
		Products:     productH,
		Orders:       orderH,
		Users:        userH,
		MW:           mw,
		APILimiter:   apiLimiter,
		LoginLimiter: loginLimiter,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
