package service

import (
	"context"
	"fmt"

	"spice-market/internal/features/catalog/domain"
	"spice-market/internal/features/catalog/ports"
)

// CatalogService handles the business logic for product lookups.
type CatalogService struct {
	// repo is the interface for fetching product data.
	repo ports.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(repo ports.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// GetProduct retrieves a single product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get product: %w", err)
	}
	return product, nil
}

// ListAvailable returns the purchasable products in catalog order.
func (s *CatalogService) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}
