package adapters

import (
	"context"
	"fmt"
	"sync"

	"spice-market/internal/features/catalog/domain"

	"github.com/shopspring/decimal"
)

// MemoryProductRepository implements ports.ProductRepository with an in-memory
// product table. Products are immutable after construction; the mutex only
// guards the map/slice pair against concurrent readers during iteration.
type MemoryProductRepository struct {
	mu sync.RWMutex
	// byID indexes products for lookup.
	byID map[string]domain.Product
	// order preserves insertion order for stable listings.
	order []string
}

// NewMemoryProductRepository creates a repository holding the given products.
func NewMemoryProductRepository(products []domain.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{
		byID:  make(map[string]domain.Product, len(products)),
		order: make([]string, 0, len(products)),
	}
	for _, p := range products {
		if _, exists := r.byID[p.ID]; exists {
			continue
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// NewSeededProductRepository creates a repository pre-loaded with the demo
// spice catalog.
func NewSeededProductRepository() *MemoryProductRepository {
	return NewMemoryProductRepository(seedProducts())
}

// GetProduct retrieves a product by its unique identifier.
func (r *MemoryProductRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, id)
	}
	return &p, nil
}

// ListAvailable returns purchasable products in insertion order.
func (r *MemoryProductRepository) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		p := r.byID[id]
		if p.IsAvailable {
			out = append(out, p)
		}
	}
	return out, nil
}

// seedProducts returns the demo catalog.
func seedProducts() []domain.Product {
	price := decimal.RequireFromString
	return []domain.Product{
		{ID: "black-pepper", Name: "Black Pepper", Price: price("12.99"), DiscountPercent: 10, IsAvailable: true, Weight: "100g"},
		{ID: "turmeric", Name: "Turmeric", Price: price("9.99"), DiscountPercent: 15, IsAvailable: true, Weight: "150g"},
		{ID: "cumin-seeds", Name: "Cumin Seeds", Price: price("7.49"), DiscountPercent: 0, IsAvailable: true, Weight: "200g"},
		{ID: "cinnamon-sticks", Name: "Cinnamon Sticks", Price: price("11.25"), DiscountPercent: 5, IsAvailable: true, Weight: "80g"},
		{ID: "saffron", Name: "Saffron Threads", Price: price("49.90"), DiscountPercent: 0, IsAvailable: false, Weight: "2g"},
		{ID: "cardamom", Name: "Green Cardamom", Price: price("18.75"), DiscountPercent: 20, IsAvailable: true, Weight: "50g"},
		{ID: "chili-flakes", Name: "Chili Flakes", Price: price("6.80"), DiscountPercent: 0, IsAvailable: true, Weight: "120g"},
	}
}
