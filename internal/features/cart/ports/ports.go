package ports

import (
	"context"

	"spice-market/internal/features/cart/domain"
)

// CartRepository defines the secondary port for per-session cart storage.
type CartRepository interface {
	// Get retrieves the cart for a session.
	// Returns nil, nil when the session has no stored cart.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	// Save persists the cart under its session id.
	Save(ctx context.Context, cart *domain.Cart) error
	// Delete removes the stored cart for a session.
	Delete(ctx context.Context, sessionID string) error
}
