package cart

import (
	"context"
	"errors"
)

// ErrPersistence wraps failures of the remote cart store. The pure reducer
// never returns it; only the store adapter does.
var ErrPersistence = errors.New("cart persistence failure")

// Store abstracts the remote persistence backing a user's cart.
type Store interface {
	// Load returns the full entry list for the user. A missing cart is an
	// empty list, not an error.
	Load(ctx context.Context, userID string) ([]Entry, error)
	// Save replaces the stored entry list and notifies subscribers.
	Save(ctx context.Context, userID string, entries []Entry) error
	// Clear removes the stored cart and notifies subscribers.
	Clear(ctx context.Context, userID string) error
	// Subscribe invokes fn for every remote change to the user's cart until
	// ctx is cancelled. Notifications carry no payload; callers must Load
	// again to observe the new state.
	Subscribe(ctx context.Context, userID string, fn func()) error
}
