package ports

import (
	"context"

	"spice-market/internal/features/catalog/domain"
)

// ProductRepository defines the secondary port for catalog lookups.
type ProductRepository interface {
	// GetProduct retrieves a product by its unique identifier.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	// ListAvailable returns the purchasable products in stable insertion order.
	ListAvailable(ctx context.Context) ([]domain.Product, error)
}
