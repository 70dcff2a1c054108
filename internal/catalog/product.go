package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a sellable good or service offering.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Store abstracts product persistence.
type Store interface {
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]Product, error)
	CountProducts(ctx context.Context) (int64, error)
}

// PGStore reads products from Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// GetProduct loads a single product by id.
func (s *PGStore) GetProduct(ctx context.Context, id string) (Product, error) {
	if s == nil || s.Pool == nil {
		return Product{}, errors.New("product store not configured")
	}
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(description, ''), unit_price::text, stock, COALESCE(image_url, ''), created_at
		FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

// ListProducts returns a page of products ordered by creation time.
func (s *PGStore) ListProducts(ctx context.Context, limit, offset int) ([]Product, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("product store not configured")
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), unit_price::text, stock, COALESCE(image_url, ''), created_at
		FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := make([]Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CountProducts returns the total number of products.
func (s *PGStore) CountProducts(ctx context.Context) (int64, error) {
	if s == nil || s.Pool == nil {
		return 0, errors.New("product store not configured")
	}
	var total int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total)
	return total, err
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Stock, &p.ImageURL, &p.CreatedAt); err != nil {
		return Product{}, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("parse unit price: %w", err)
	}
	p.UnitPrice = parsed
	return p, nil
}
