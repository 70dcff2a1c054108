package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a quantity is zero or negative.
var ErrInvalidQuantity = errors.New("invalid quantity")

// ErrInvalidPrice is returned when a unit price is negative.
var ErrInvalidPrice = errors.New("invalid price")

// ErrInvalidPercentage is returned when a percentage falls outside [0, 100].
var ErrInvalidPercentage = errors.New("invalid percentage")

// LineTotal multiplies quantity by unit price without rounding.
func LineTotal(qty int, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if qty <= 0 {
		return decimal.Zero, fmt.Errorf("qty must be positive: %w", ErrInvalidQuantity)
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("unit price must not be negative: %w", ErrInvalidPrice)
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))), nil
}

// LineItem is a single priced line on a document.
type LineItem struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Qty         int             `json:"qty" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Validate checks the line item against pricing constraints.
func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Name) == "" {
		return errors.New("line item name is required")
	}
	if li.Qty <= 0 {
		return fmt.Errorf("line %q: qty must be positive: %w", li.Name, ErrInvalidQuantity)
	}
	if li.UnitPrice.IsNegative() {
		return fmt.Errorf("line %q: unit price must not be negative: %w", li.Name, ErrInvalidPrice)
	}
	return nil
}

// Total derives the line total from quantity and unit price.
func (li LineItem) Total() (decimal.Decimal, error) {
	return LineTotal(li.Qty, li.UnitPrice)
}
