package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pasarly/backend-pasar/internal/pricing"
)

// ErrNotFound indicates the requested cart entry could not be located.
var ErrNotFound = errors.New("cart entry not found")

// Snapshot captures the product attributes frozen into a cart entry at add time.
type Snapshot struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

// Entry is a single product line in a cart. Entries are unique by product id;
// adding an already-present product accumulates quantity instead of
// duplicating the row.
type Entry struct {
	ProductID string   `json:"productId"`
	Qty       int      `json:"qty"`
	Snapshot  Snapshot `json:"snapshot"`
}

// Reducer holds the in-memory cart state for one user session. Count and
// total are always derived from the entry list on read, never stored, so
// they cannot drift from the entries. All mutations take the reducer lock;
// a single reducer instance must not be shared across sessions.
type Reducer struct {
	mu      sync.Mutex
	entries []Entry
}

// NewReducer constructs a reducer seeded with the provided entries.
func NewReducer(entries []Entry) *Reducer {
	r := &Reducer{}
	r.Replace(entries)
	return r
}

// Add inserts a new entry or increments the quantity of an existing one.
func (r *Reducer) Add(productID string, snap Snapshot, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("qty must be positive: %w", pricing.ErrInvalidQuantity)
	}
	if snap.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price must not be negative: %w", pricing.ErrInvalidPrice)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ProductID == productID {
			r.entries[i].Qty += qty
			return nil
		}
	}
	r.entries = append(r.entries, Entry{ProductID: productID, Qty: qty, Snapshot: snap})
	return nil
}

// SetQuantity replaces the quantity of an existing entry. A quantity below
// one removes the entry. Returns ErrNotFound when the product is absent.
func (r *Reducer) SetQuantity(productID string, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ProductID == productID {
			if qty < 1 {
				r.entries = append(r.entries[:i], r.entries[i+1:]...)
				return nil
			}
			r.entries[i].Qty = qty
			return nil
		}
	}
	return ErrNotFound
}

// Remove deletes an entry. Removing an absent product is a no-op.
func (r *Reducer) Remove(productID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ProductID == productID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (r *Reducer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

// Replace swaps the full entry list, discarding local state. Used by the
// sync adapter after a remote refresh; the last refresh observed wins.
func (r *Reducer) Replace(entries []Entry) {
	copied := make([]Entry, len(entries))
	copy(copied, entries)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = copied
}

// Entries returns a copy of the current entry list.
func (r *Reducer) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make([]Entry, len(r.entries))
	copy(copied, r.entries)
	return copied
}

// Totals recomputes the cart count and monetary total from the entries.
func (r *Reducer) Totals() (int, decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	total := decimal.Zero
	for _, e := range r.entries {
		line, err := pricing.LineTotal(e.Qty, e.Snapshot.UnitPrice)
		if err != nil {
			// a corrupt entry contributes to neither count nor total
			continue
		}
		count += e.Qty
		total = total.Add(line)
	}
	return count, total
}
