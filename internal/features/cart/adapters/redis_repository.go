package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"spice-market/internal/core/cache"
	"spice-market/internal/features/cart/domain"
)

const cartKeyPrefix = "cart:"

// RedisCartRepository implements ports.CartRepository on top of the cache port.
// Carts are stored as JSON documents keyed by session id.
type RedisCartRepository struct {
	cache cache.Cache
}

// NewRedisCartRepository creates a new RedisCartRepository.
func NewRedisCartRepository(c cache.Cache) *RedisCartRepository {
	return &RedisCartRepository{
		cache: c,
	}
}

// Get retrieves the cart for a session. A missing key is not an error; the
// session simply has no cart yet.
func (r *RedisCartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.cache.Get(ctx, cartKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart from cache: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Save persists the cart under its session id with no expiration.
func (r *RedisCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.cache.Set(ctx, cartKeyPrefix+cart.SessionID, data, 0); err != nil {
		return fmt.Errorf("failed to save cart to cache: %w", err)
	}

	return nil
}

// Delete removes the stored cart for a session.
func (r *RedisCartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.cache.Delete(ctx, cartKeyPrefix+sessionID); err != nil {
		return fmt.Errorf("failed to delete cart from cache: %w", err)
	}
	return nil
}
