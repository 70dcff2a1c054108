package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pasarly/backend-pasar/internal/pricing"
)

// ErrOutOfStock is returned when an add references a product with no stock.
var ErrOutOfStock = errors.New("product out of stock")

// ProductSource resolves the product snapshot frozen into a cart entry.
type ProductSource interface {
	Snapshot(ctx context.Context, productID string) (Snapshot, error)
}

// View is the API-facing shape of a cart with derived totals. Monetary
// amounts are rounded to two digits here, at the presentation boundary.
type View struct {
	Items []Entry         `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// Service orchestrates cart mutations: load the stored entries, apply the
// reducer transition, persist the result. The store's change notification
// then fans out to any live sync adapters.
type Service struct {
	Store    Store
	Products ProductSource
}

// Get returns the current cart view for the user.
func (s *Service) Get(ctx context.Context, userID string) (View, error) {
	if s == nil || s.Store == nil {
		return View{}, errors.New("cart service not configured")
	}
	entries, err := s.Store.Load(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return viewOf(NewReducer(entries)), nil
}

// AddItem inserts or increments a cart entry, snapshotting the product.
func (s *Service) AddItem(ctx context.Context, userID, productID string, qty int) (View, error) {
	if s == nil || s.Store == nil || s.Products == nil {
		return View{}, errors.New("cart service not configured")
	}
	if qty <= 0 {
		return View{}, fmt.Errorf("qty must be positive: %w", pricing.ErrInvalidQuantity)
	}
	snap, err := s.Products.Snapshot(ctx, productID)
	if err != nil {
		return View{}, err
	}
	if snap.Stock <= 0 {
		return View{}, fmt.Errorf("product %s: %w", productID, ErrOutOfStock)
	}
	entries, err := s.Store.Load(ctx, userID)
	if err != nil {
		return View{}, err
	}
	reducer := NewReducer(entries)
	if err := reducer.Add(productID, snap, qty); err != nil {
		return View{}, err
	}
	if err := s.Store.Save(ctx, userID, reducer.Entries()); err != nil {
		return View{}, err
	}
	return viewOf(reducer), nil
}

// SetQuantity updates an entry's quantity; below one removes the entry.
func (s *Service) SetQuantity(ctx context.Context, userID, productID string, qty int) (View, error) {
	if s == nil || s.Store == nil {
		return View{}, errors.New("cart service not configured")
	}
	entries, err := s.Store.Load(ctx, userID)
	if err != nil {
		return View{}, err
	}
	reducer := NewReducer(entries)
	if err := reducer.SetQuantity(productID, qty); err != nil {
		return View{}, err
	}
	if err := s.Store.Save(ctx, userID, reducer.Entries()); err != nil {
		return View{}, err
	}
	return viewOf(reducer), nil
}

// RemoveItem deletes an entry. Removing an absent product is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (View, error) {
	if s == nil || s.Store == nil {
		return View{}, errors.New("cart service not configured")
	}
	entries, err := s.Store.Load(ctx, userID)
	if err != nil {
		return View{}, err
	}
	reducer := NewReducer(entries)
	reducer.Remove(productID)
	if err := s.Store.Save(ctx, userID, reducer.Entries()); err != nil {
		return View{}, err
	}
	return viewOf(reducer), nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if s == nil || s.Store == nil {
		return errors.New("cart service not configured")
	}
	return s.Store.Clear(ctx, userID)
}

func viewOf(r *Reducer) View {
	count, total := r.Totals()
	return View{Items: r.Entries(), Count: count, Total: pricing.Round2(total)}
}
