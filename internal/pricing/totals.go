package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TaxBase selects the amount tax is charged on.
type TaxBase string

const (
	// TaxPreDiscount charges tax on the full subtotal.
	TaxPreDiscount TaxBase = "pre_discount"
	// TaxPostDiscount charges tax on the subtotal after discount.
	TaxPostDiscount TaxBase = "post_discount"
)

// ParseTaxBase normalises a tax base label, defaulting to post-discount.
func ParseTaxBase(value string) (TaxBase, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(TaxPostDiscount), "post-discount":
		return TaxPostDiscount, nil
	case string(TaxPreDiscount), "pre-discount":
		return TaxPreDiscount, nil
	default:
		return "", fmt.Errorf("unknown tax base %q", value)
	}
}

// Totals aggregates computed pricing components for a document or cart.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountPct    decimal.Decimal `json:"discountPct"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxPct         decimal.Decimal `json:"taxPct"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	TaxBase        TaxBase         `json:"taxBase"`
}

// Compute aggregates line totals and applies discount and tax percentages.
// Percentages must be within [0, 100] and every line item must be valid;
// invalid input aborts the computation rather than being clamped. An empty
// item list yields all-zero totals.
func Compute(items []LineItem, discountPct, taxPct decimal.Decimal, base TaxBase) (Totals, error) {
	if err := validatePct(discountPct, "discount"); err != nil {
		return Totals{}, err
	}
	if err := validatePct(taxPct, "tax"); err != nil {
		return Totals{}, err
	}
	if base != TaxPreDiscount && base != TaxPostDiscount {
		return Totals{}, fmt.Errorf("unknown tax base %q", base)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Totals{}, err
		}
		line, err := item.Total()
		if err != nil {
			return Totals{}, err
		}
		subtotal = subtotal.Add(line)
	}

	discount := Percent(subtotal, discountPct)
	taxable := subtotal
	if base == TaxPostDiscount {
		taxable = subtotal.Sub(discount)
	}
	tax := Percent(taxable, taxPct)
	total := subtotal.Sub(discount).Add(tax)

	return Totals{
		Subtotal:       subtotal,
		DiscountPct:    discountPct,
		DiscountAmount: discount,
		TaxPct:         taxPct,
		TaxAmount:      tax,
		Total:          total,
		TaxBase:        base,
	}, nil
}

func validatePct(pct decimal.Decimal, label string) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%s percentage must be within [0, 100]: %w", label, ErrInvalidPercentage)
	}
	return nil
}
