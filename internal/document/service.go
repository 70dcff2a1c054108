package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pasarly/backend-pasar/internal/pricing"
)

// ErrInvalidInput marks a document payload that fails validation.
var ErrInvalidInput = errors.New("invalid document input")

// Enqueuer pushes follow-up work after a document is issued.
type Enqueuer interface {
	DocumentIssued(ctx context.Context, doc Document) error
}

// Service issues documents and previews totals.
type Service struct {
	Store          Store
	Tasks          Enqueuer
	Validate       *validator.Validate
	Currency       string
	DefaultTaxBase pricing.TaxBase
}

func (s *Service) validate() *validator.Validate {
	if s != nil && s.Validate != nil {
		return s.Validate
	}
	return validator.New()
}

func (s *Service) resolve(in Input) (Kind, pricing.Totals, error) {
	if err := s.validate().Struct(in); err != nil {
		return "", pricing.Totals{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	kind, err := ParseKind(in.Kind)
	if err != nil {
		return "", pricing.Totals{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	base := s.DefaultTaxBase
	if in.TaxBase != "" {
		base, err = pricing.ParseTaxBase(in.TaxBase)
		if err != nil {
			return "", pricing.Totals{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
	} else if base == "" {
		base = pricing.TaxPostDiscount
	}
	totals, err := pricing.Compute(in.Items, in.DiscountPct, in.TaxPct, base)
	if err != nil {
		return "", pricing.Totals{}, err
	}
	return kind, totals, nil
}

// Preview computes totals for the input without persisting anything.
func (s *Service) Preview(_ context.Context, in Input) (pricing.Totals, error) {
	_, totals, err := s.resolve(in)
	return totals, err
}

// Create validates the input, computes totals, and persists the document
// with a freshly assigned number.
func (s *Service) Create(ctx context.Context, userID string, in Input) (Document, error) {
	if s == nil || s.Store == nil {
		return Document{}, errors.New("document service not configured")
	}
	kind, totals, err := s.resolve(in)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		UserID:      userID,
		Kind:        kind,
		Currency:    s.Currency,
		Items:       in.Items,
		DiscountPct: totals.DiscountPct,
		TaxPct:      totals.TaxPct,
		TaxBase:     totals.TaxBase,
		Totals:      totals,
		Notes:       in.Notes,
	}
	doc, err = s.Store.Insert(ctx, doc)
	if err != nil {
		return Document{}, err
	}
	if s.Tasks != nil {
		// Issuance audit is best effort; the document is already durable.
		_ = s.Tasks.DocumentIssued(ctx, doc)
	}
	return doc, nil
}

// Get loads a single document owned by the user.
func (s *Service) Get(ctx context.Context, userID, id string) (Document, error) {
	if s == nil || s.Store == nil {
		return Document{}, errors.New("document service not configured")
	}
	return s.Store.Get(ctx, userID, id)
}

// List returns a page of the user's documents plus the total count.
func (s *Service) List(ctx context.Context, userID string, page, perPage int) ([]Document, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("document service not configured")
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	docs, err := s.Store.List(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.Count(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}
