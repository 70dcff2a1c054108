package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists carts as JSON blobs keyed by user and broadcasts
// change notifications over pub/sub. Notifications are payload-free; the
// subscriber reloads the full cart on every message.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *RedisStore) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

// KeyPrefix prefixes per-user cart keys in Redis.
const KeyPrefix = "cart:"

func cartKey(userID string) string {
	return KeyPrefix + userID
}

func cartChannel(userID string) string {
	return "cart:changed:" + userID
}

// Load fetches the stored entry list. A missing key yields an empty cart.
func (s *RedisStore) Load(ctx context.Context, userID string) ([]Entry, error) {
	if s == nil || s.Client == nil {
		return nil, fmt.Errorf("redis store not configured: %w", ErrPersistence)
	}
	data, err := s.Client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("load cart: %v: %w", err, ErrPersistence)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode cart: %v: %w", err, ErrPersistence)
	}
	return entries, nil
}

// Save stores the entry list with the configured TTL and publishes a change
// notification. An empty list removes the key instead of storing it.
func (s *RedisStore) Save(ctx context.Context, userID string, entries []Entry) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("redis store not configured: %w", ErrPersistence)
	}
	if len(entries) == 0 {
		return s.Clear(ctx, userID)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode cart: %v: %w", err, ErrPersistence)
	}
	if err := s.Client.Set(ctx, cartKey(userID), data, s.ttl()).Err(); err != nil {
		return fmt.Errorf("save cart: %v: %w", err, ErrPersistence)
	}
	s.notify(ctx, userID)
	return nil
}

// Clear deletes the stored cart and publishes a change notification.
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("redis store not configured: %w", ErrPersistence)
	}
	if err := s.Client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %v: %w", err, ErrPersistence)
	}
	s.notify(ctx, userID)
	return nil
}

func (s *RedisStore) notify(ctx context.Context, userID string) {
	// best effort: a lost notification only delays the next refresh
	_ = s.Client.Publish(ctx, cartChannel(userID), "").Err()
}

// Subscribe blocks until ctx is cancelled, invoking fn once per remote change.
func (s *RedisStore) Subscribe(ctx context.Context, userID string, fn func()) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("redis store not configured: %w", ErrPersistence)
	}
	sub := s.Client.Subscribe(ctx, cartChannel(userID))
	defer func() {
		_ = sub.Close()
	}()
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription closed: %w", ErrPersistence)
			}
			fn()
		}
	}
}
