package cart_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/pasarly/backend-pasar/internal/cart"
	"github.com/pasarly/backend-pasar/internal/pricing"
)

type memStore struct {
	mu    sync.Mutex
	carts map[string][]cart.Entry
	subs  map[string][]func()
}

func newMemStore() *memStore {
	return &memStore{carts: map[string][]cart.Entry{}, subs: map[string][]func(){}}
}

func (m *memStore) Load(_ context.Context, userID string) ([]cart.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.carts[userID]
	copied := make([]cart.Entry, len(entries))
	copy(copied, entries)
	return copied, nil
}

func (m *memStore) Save(_ context.Context, userID string, entries []cart.Entry) error {
	m.mu.Lock()
	m.carts[userID] = entries
	subs := m.subs[userID]
	m.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
	return nil
}

func (m *memStore) Clear(ctx context.Context, userID string) error {
	return m.Save(ctx, userID, nil)
}

func (m *memStore) Subscribe(ctx context.Context, userID string, fn func()) error {
	m.mu.Lock()
	m.subs[userID] = append(m.subs[userID], fn)
	m.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

type stubProducts struct {
	products map[string]cart.Snapshot
}

func (s stubProducts) Snapshot(_ context.Context, productID string) (cart.Snapshot, error) {
	snap, ok := s.products[productID]
	if !ok {
		return cart.Snapshot{}, fmt.Errorf("product %s: %w", productID, cart.ErrNotFound)
	}
	return snap, nil
}

func newService(store cart.Store) *cart.Service {
	return &cart.Service{
		Store: store,
		Products: stubProducts{products: map[string]cart.Snapshot{
			"p1": {Name: "soap", UnitPrice: decimal.RequireFromString("30"), Stock: 5},
			"p2": {Name: "towel", UnitPrice: decimal.RequireFromString("12.50"), Stock: 3},
			"p3": {Name: "sold out", UnitPrice: decimal.RequireFromString("1"), Stock: 0},
		}},
	}
}

func TestServiceAddMergesAndPersists(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, "u1", "p1", 2)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	require.Equal(t, 3, view.Items[0].Qty)
	require.True(t, view.Total.Equal(decimal.NewFromInt(90)))

	stored, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, 3, stored[0].Qty)
}

func TestServiceAddUnknownProduct(t *testing.T) {
	svc := newService(newMemStore())
	_, err := svc.AddItem(context.Background(), "u1", "nope", 1)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestServiceAddOutOfStock(t *testing.T) {
	svc := newService(newMemStore())
	_, err := svc.AddItem(context.Background(), "u1", "p3", 1)
	require.ErrorIs(t, err, cart.ErrOutOfStock)
}

func TestServiceAddRejectsNonPositiveQty(t *testing.T) {
	svc := newService(newMemStore())
	_, err := svc.AddItem(context.Background(), "u1", "p1", 0)
	require.ErrorIs(t, err, pricing.ErrInvalidQuantity)
}

func TestServiceSetQuantityZeroRemoves(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	view, err := svc.SetQuantity(ctx, "u1", "p1", 0)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.Zero(t, view.Count)
}

func TestServiceSetQuantityAbsent(t *testing.T) {
	svc := newService(newMemStore())
	_, err := svc.SetQuantity(context.Background(), "u1", "ghost", 2)
	require.ErrorIs(t, err, cart.ErrNotFound)
}

func TestServiceCartsAreScopedPerUser(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", "p1", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "bob", "p2", 2)
	require.NoError(t, err)

	aliceView, err := svc.Get(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, aliceView.Items, 1)
	require.Equal(t, "p1", aliceView.Items[0].ProductID)

	require.NoError(t, svc.Clear(ctx, "alice"))
	bobView, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobView.Items, 1)
}

func TestSyncerRefreshReplacesLocalState(t *testing.T) {
	store := newMemStore()
	svc := newService(store)
	ctx := context.Background()

	reducer := cart.NewReducer(nil)
	refreshed := 0
	syncer := &cart.Syncer{
		Store:     store,
		Reducer:   reducer,
		UserID:    "u1",
		OnRefresh: func() { refreshed++ },
	}

	_, err := svc.AddItem(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	require.NoError(t, syncer.Refresh(ctx))

	entries := reducer.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].Qty)
	require.Equal(t, 1, refreshed)

	// a newer remote state fully replaces whatever is held locally
	require.NoError(t, reducer.Add("local-only", snap("1"), 1))
	_, err = svc.SetQuantity(ctx, "u1", "p1", 7)
	require.NoError(t, err)
	require.NoError(t, syncer.Refresh(ctx))

	entries = reducer.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, 7, entries[0].Qty)
}
