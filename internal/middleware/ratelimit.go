package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig bounds how many requests a single client may make inside a
// fixed window.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// RateLimitMiddleware enforces a fixed-window limit per client, counted in
// Redis. Authenticated requests are keyed by principal, anonymous ones by
// remote address. If Redis is unreachable the middleware fails open; the
// limiter protects against brute force, it must never lock everyone out.
func RateLimitMiddleware(redisClient *redis.Client, cfg RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			client := r.RemoteAddr
			if principal, ok := GetPrincipal(ctx); ok {
				client = principal.UserID.String()
			}
			key := fmt.Sprintf("%s:%s", cfg.KeyPrefix, client)

			count, err := redisClient.Incr(ctx, key).Result()
			if err != nil {
				logger.Error("Rate limiter unavailable, allowing request",
					zap.Error(err),
					zap.String("key", key),
				)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				// First hit in this window starts the clock.
				redisClient.Expire(ctx, key, cfg.Window)
			}

			if count > int64(cfg.RequestsPerWindow) {
				ttl, err := redisClient.TTL(ctx, key).Result()
				if err != nil {
					ttl = cfg.Window
				}

				logger.Warn("Too many requests from client",
					zap.String("client", client),
					zap.Int64("attempts", count),
					zap.Int("limit", cfg.RequestsPerWindow),
					zap.Duration("retry_after", ttl),
				)

				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				respondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(cfg.RequestsPerWindow-int(count)))
			next.ServeHTTP(w, r)
		})
	}
}
