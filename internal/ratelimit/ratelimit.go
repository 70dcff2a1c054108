package ratelimit

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	mstdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// New builds an IP rate limiter backed by Redis.
func New(rdb *redis.Client, max int, window time.Duration) (*limiter.Limiter, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix: "ratelimit",
	})
	if err != nil {
		return nil, err
	}
	rate := limiter.Rate{Period: window, Limit: int64(max)}
	return limiter.New(store, rate, limiter.WithTrustForwardHeader(true)), nil
}

// Middleware wraps handlers with the limiter, answering 429 when exhausted.
func Middleware(l *limiter.Limiter) func(http.Handler) http.Handler {
	mw := mstdlib.NewMiddleware(l)
	return func(next http.Handler) http.Handler {
		return mw.Handler(next)
	}
}
