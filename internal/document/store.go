package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pasarly/backend-pasar/internal/pricing"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Store abstracts document persistence.
type Store interface {
	Insert(ctx context.Context, doc Document) (Document, error)
	Get(ctx context.Context, userID, id string) (Document, error)
	List(ctx context.Context, userID string, limit, offset int) ([]Document, error)
	Count(ctx context.Context, userID string) (int64, error)
}

// PGStore persists documents in Postgres. Line items are stored as JSONB;
// totals columns exist for list queries and reporting but are always
// written from a fresh computation, never updated in place.
type PGStore struct {
	Pool *pgxpool.Pool
	Now  func() time.Time
}

func (s *PGStore) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Insert stores the document, assigning a per-kind sequential number inside
// the same transaction.
func (s *PGStore) Insert(ctx context.Context, doc Document) (Document, error) {
	if s == nil || s.Pool == nil {
		return Document{}, errors.New("document store not configured")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Document{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	year := s.now().UTC().Year()
	var seq int64
	err = tx.QueryRow(ctx, `
		INSERT INTO document_sequences (kind, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, year) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`, string(doc.Kind), year).Scan(&seq)
	if err != nil {
		return Document{}, fmt.Errorf("next document number: %w", err)
	}
	doc.Number = fmt.Sprintf("%s-%d-%06d", doc.Kind.NumberPrefix(), year, seq)
	doc.CreatedAt = s.now().UTC()

	items, err := json.Marshal(doc.Items)
	if err != nil {
		return Document{}, fmt.Errorf("encode items: %w", err)
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (
			user_id, kind, number, currency, items,
			discount_pct, tax_pct, tax_base,
			subtotal, discount_amount, tax_amount, total,
			notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id`,
		doc.UserID, string(doc.Kind), doc.Number, doc.Currency, items,
		doc.DiscountPct.String(), doc.TaxPct.String(), string(doc.TaxBase),
		doc.Totals.Subtotal.String(), doc.Totals.DiscountAmount.String(),
		doc.Totals.TaxAmount.String(), doc.Totals.Total.String(),
		doc.Notes, doc.CreatedAt,
	).Scan(&doc.ID)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Document{}, err
	}
	return doc, nil
}

const documentColumns = `
	id, user_id, kind, number, currency, items,
	discount_pct::text, tax_pct::text, tax_base,
	subtotal::text, discount_amount::text, tax_amount::text, total::text,
	COALESCE(notes, ''), created_at`

// Get loads a document scoped to its owner.
func (s *PGStore) Get(ctx context.Context, userID, id string) (Document, error) {
	if s == nil || s.Pool == nil {
		return Document{}, errors.New("document store not configured")
	}
	row := s.Pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1 AND user_id = $2`, id, userID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns a page of the user's documents, newest first.
func (s *PGStore) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("document store not configured")
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := make([]Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count returns the number of documents owned by the user.
func (s *PGStore) Count(ctx context.Context, userID string) (int64, error) {
	if s == nil || s.Pool == nil {
		return 0, errors.New("document store not configured")
	}
	var total int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM documents WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}

func scanDocument(row pgx.Row) (Document, error) {
	var (
		doc      Document
		kind     string
		taxBase  string
		items    []byte
		discount string
		taxPct   string
		subtotal string
		discAmt  string
		taxAmt   string
		total    string
	)
	if err := row.Scan(
		&doc.ID, &doc.UserID, &kind, &doc.Number, &doc.Currency, &items,
		&discount, &taxPct, &taxBase,
		&subtotal, &discAmt, &taxAmt, &total,
		&doc.Notes, &doc.CreatedAt,
	); err != nil {
		return Document{}, err
	}
	doc.Kind = Kind(kind)
	doc.TaxBase = pricing.TaxBase(taxBase)
	if err := json.Unmarshal(items, &doc.Items); err != nil {
		return Document{}, fmt.Errorf("decode items: %w", err)
	}
	var err error
	if doc.DiscountPct, err = decimal.NewFromString(discount); err != nil {
		return Document{}, err
	}
	if doc.TaxPct, err = decimal.NewFromString(taxPct); err != nil {
		return Document{}, err
	}
	if doc.Totals.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return Document{}, err
	}
	if doc.Totals.DiscountAmount, err = decimal.NewFromString(discAmt); err != nil {
		return Document{}, err
	}
	if doc.Totals.TaxAmount, err = decimal.NewFromString(taxAmt); err != nil {
		return Document{}, err
	}
	if doc.Totals.Total, err = decimal.NewFromString(total); err != nil {
		return Document{}, err
	}
	doc.Totals.DiscountPct = doc.DiscountPct
	doc.Totals.TaxPct = doc.TaxPct
	doc.Totals.TaxBase = doc.TaxBase
	return doc, nil
}
