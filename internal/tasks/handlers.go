package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pasarly/backend-pasar/internal/cart"
	"github.com/pasarly/backend-pasar/internal/lock"
	"github.com/pasarly/backend-pasar/internal/obs"
)

// Handlers processes background tasks on the worker.
type Handlers struct {
	Redis   *redis.Client
	Logger  *zerolog.Logger
	CartTTL time.Duration
}

// NewMux registers all task handlers on an asynq mux.
func (h *Handlers) NewMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCartSweep, h.HandleCartSweep)
	mux.HandleFunc(TypeDocumentIssued, h.HandleDocumentIssued)
	return mux
}

// HandleCartSweep walks stored cart keys, deleting empty carts and
// re-attaching an expiry to keys that lost theirs. A distributed lock keeps
// overlapping worker instances from sweeping concurrently.
func (h *Handlers) HandleCartSweep(ctx context.Context, _ *asynq.Task) error {
	if h.Redis == nil {
		return fmt.Errorf("redis client not configured")
	}
	locker := lock.Locker{R: h.Redis}
	return locker.WithLock(ctx, "lock:cart-sweep", time.Minute, h.sweep)
}

func (h *Handlers) sweep(ctx context.Context) error {
	ttl := h.CartTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	var removed, repaired int
	iter := h.Redis.Scan(ctx, 0, cart.KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := h.Redis.Get(ctx, key).Bytes()
		if err != nil {
			continue
		}
		var entries []cart.Entry
		if err := json.Unmarshal(data, &entries); err != nil || len(entries) == 0 {
			if delErr := h.Redis.Del(ctx, key).Err(); delErr == nil {
				removed++
				obs.CartSweepTotal.Inc()
			}
			continue
		}
		keyTTL, err := h.Redis.TTL(ctx, key).Result()
		if err == nil && keyTTL < 0 {
			if expErr := h.Redis.Expire(ctx, key, ttl).Err(); expErr == nil {
				repaired++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cart keys: %w", err)
	}
	h.log().Info().Int("removed", removed).Int("repaired", repaired).Msg("cart sweep complete")
	return nil
}

// HandleDocumentIssued records the issuance audit trail entry.
func (h *Handlers) HandleDocumentIssued(_ context.Context, task *asynq.Task) error {
	var payload DocumentIssuedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	h.log().Info().
		Str("document_id", payload.ID).
		Str("user_id", payload.UserID).
		Str("kind", payload.Kind).
		Str("number", payload.Number).
		Str("total", payload.Total).
		Msg("document issued")
	return nil
}

func (h *Handlers) log() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	nop := zerolog.Nop()
	return &nop
}
