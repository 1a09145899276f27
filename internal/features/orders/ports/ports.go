package ports

import (
	"context"

	"spice-market/internal/features/orders/domain"
)

// OrderRepository defines the secondary port for order storage.
type OrderRepository interface {
	// Save persists the order, overwriting any previous version.
	Save(ctx context.Context, order *domain.Order) error
	// Get retrieves an order by id.
	// Returns nil, nil when no order exists for the id.
	Get(ctx context.Context, id string) (*domain.Order, error)
	// ListBySession returns the orders placed by a session, oldest first.
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
}
