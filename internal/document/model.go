package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pasarly/backend-pasar/internal/pricing"
)

// Kind distinguishes the financial document variants.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
	KindReceipt   Kind = "receipt"
)

// ParseKind normalises a document kind label.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindQuotation:
		return KindQuotation, nil
	case KindInvoice:
		return KindInvoice, nil
	case KindReceipt:
		return KindReceipt, nil
	default:
		return "", fmt.Errorf("unknown document kind %q", value)
	}
}

// NumberPrefix returns the prefix used in generated document numbers.
func (k Kind) NumberPrefix() string {
	switch k {
	case KindQuotation:
		return "QUO"
	case KindInvoice:
		return "INV"
	case KindReceipt:
		return "RCP"
	default:
		return "DOC"
	}
}

// Document is an issued financial document. Totals are derived from the
// items and rates at creation time and re-derivable at any point; they are
// stored only as a convenience for list views.
type Document struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Kind        Kind               `json:"kind"`
	Number      string             `json:"number"`
	Currency    string             `json:"currency"`
	Items       []pricing.LineItem `json:"items"`
	DiscountPct decimal.Decimal    `json:"discountPct"`
	TaxPct      decimal.Decimal    `json:"taxPct"`
	TaxBase     pricing.TaxBase    `json:"taxBase"`
	Totals      pricing.Totals     `json:"totals"`
	Notes       string             `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Input captures the payload for creating a document or previewing totals.
type Input struct {
	Kind        string             `json:"kind" validate:"required"`
	Items       []pricing.LineItem `json:"items" validate:"required,min=1,dive"`
	DiscountPct decimal.Decimal    `json:"discountPct"`
	TaxPct      decimal.Decimal    `json:"taxPct"`
	TaxBase     string             `json:"taxBase"`
	Notes       string             `json:"notes"`
}
