package cart_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pasarly/backend-pasar/internal/cart"
)

func newRedisStore(t *testing.T) (*cart.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &cart.RedisStore{Client: client, TTL: time.Hour}, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	entries := []cart.Entry{
		{ProductID: "p1", Qty: 2, Snapshot: cart.Snapshot{Name: "soap", UnitPrice: decimal.RequireFromString("30"), Stock: 5}},
		{ProductID: "p2", Qty: 1, Snapshot: cart.Snapshot{Name: "towel", UnitPrice: decimal.RequireFromString("12.50"), Stock: 3}},
	}
	require.NoError(t, store.Save(ctx, "u1", entries))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "p1", loaded[0].ProductID)
	require.Equal(t, 2, loaded[0].Qty)
	require.True(t, loaded[0].Snapshot.UnitPrice.Equal(decimal.RequireFromString("30")))
}

func TestRedisStoreMissingCartIsEmpty(t *testing.T) {
	store, _ := newRedisStore(t)
	loaded, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestRedisStoreSaveEmptyClears(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	entries := []cart.Entry{{ProductID: "p1", Qty: 1, Snapshot: cart.Snapshot{UnitPrice: decimal.NewFromInt(1), Stock: 1}}}
	require.NoError(t, store.Save(ctx, "u1", entries))
	require.True(t, mr.Exists("cart:u1"))

	require.NoError(t, store.Save(ctx, "u1", nil))
	require.False(t, mr.Exists("cart:u1"))
}

func TestRedisStoreExpiresWithTTL(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	entries := []cart.Entry{{ProductID: "p1", Qty: 1, Snapshot: cart.Snapshot{UnitPrice: decimal.NewFromInt(1), Stock: 1}}}
	require.NoError(t, store.Save(ctx, "u1", entries))

	mr.FastForward(2 * time.Hour)
	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestRedisStoreSubscribeSeesChanges(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notified := make(chan struct{}, 4)
	go func() {
		_ = store.Subscribe(ctx, "u1", func() { notified <- struct{}{} })
	}()
	// give the subscriber a moment to attach
	time.Sleep(50 * time.Millisecond)

	entries := []cart.Entry{{ProductID: "p1", Qty: 1, Snapshot: cart.Snapshot{UnitPrice: decimal.NewFromInt(1), Stock: 1}}}
	require.NoError(t, store.Save(ctx, "u1", entries))

	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification after save")
	}

	require.NoError(t, store.Clear(ctx, "u1"))
	select {
	case <-notified:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification after clear")
	}
}
