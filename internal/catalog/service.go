package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/pasarly/backend-pasar/internal/cart"
)

// Service exposes catalog reads with an optional cache in front of the store.
type Service struct {
	Store Store
	Cache *Cache
}

// Get returns a single product, preferring the cache.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if s == nil || s.Store == nil {
		return Product{}, errors.New("catalog service not configured")
	}
	key := "catalog:product:" + id
	var cached Product
	if ok, err := s.Cache.GetJSON(ctx, key, &cached); err == nil && ok {
		return cached, nil
	}
	product, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	_ = s.Cache.SetJSON(ctx, key, product)
	return product, nil
}

// List returns a page of products plus the total count.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Product, int64, error) {
	if s == nil || s.Store == nil {
		return nil, 0, errors.New("catalog service not configured")
	}
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	products, err := s.Store.ListProducts(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.CountProducts(ctx)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Snapshot implements cart.ProductSource, freezing the attributes a cart
// entry keeps at add time. Unknown products surface as cart.ErrNotFound so
// the cart layer maps them uniformly.
func (s *Service) Snapshot(ctx context.Context, productID string) (cart.Snapshot, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return cart.Snapshot{}, fmt.Errorf("product %s: %w", productID, cart.ErrNotFound)
		}
		return cart.Snapshot{}, err
	}
	return cart.Snapshot{
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Stock:     product.Stock,
		ImageURL:  product.ImageURL,
	}, nil
}
