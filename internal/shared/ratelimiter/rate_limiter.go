// Package ratelimiter はRedis固定ウィンドウ方式のレートリミッターを提供します。
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"shop_backend/internal/shared/apperror"
)

// fixedWindowScript はウィンドウ内のリクエスト数を原子的にカウントします。
var fixedWindowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// RateLimiter はクライアント単位のリクエスト頻度を固定ウィンドウで制限します。
type RateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration

	// now はテストで時刻を固定するために差し替え可能です。
	now func() time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// rdbがnilの場合、制限は行われません（Redisなしでも稼働可能）。
func NewRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RateLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow はキーがウィンドウ内の上限を超えていないかを報告します。
// Redis未設定または障害時は制限せずに通します。
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl.rdb == nil || rl.limit <= 0 || rl.window <= 0 {
		return true
	}

	windowMs := rl.window.Milliseconds()
	windowSlot := rl.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", rl.prefix, key, windowSlot)

	count, err := fixedWindowScript.Run(ctx, rl.rdb, []string{redisKey}, windowMs).Int64()
	if err != nil {
		slog.Warn("rate limiter unavailable, allowing request", "error", err)
		return true
	}
	return count <= int64(rl.limit)
}

// Middleware はクライアントIP単位でリクエストを制限するginミドルウェアを返します。
// 上限超過時は429とTOO_MANY_REQUESTSエンベロープを返します。
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.Request.Context(), c.ClientIP()) {
			apperror.Abort(c, apperror.TooManyRequests("too many requests from this IP, try again later"))
			return
		}
		c.Next()
	}
}
