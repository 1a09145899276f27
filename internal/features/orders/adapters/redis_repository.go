package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"spice-market/internal/core/cache"
	"spice-market/internal/features/orders/domain"
)

const (
	orderKeyPrefix        = "order:"
	sessionIndexKeyPrefix = "orders:session:"
)

// RedisOrderRepository implements ports.OrderRepository on top of the cache
// port. Orders are stored as JSON documents keyed by order id, with a JSON
// index of order ids per session.
type RedisOrderRepository struct {
	cache cache.Cache
}

// NewRedisOrderRepository creates a new RedisOrderRepository.
func NewRedisOrderRepository(c cache.Cache) *RedisOrderRepository {
	return &RedisOrderRepository{
		cache: c,
	}
}

// Save persists the order and registers it in the session index.
func (r *RedisOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	if err := r.cache.Set(ctx, orderKeyPrefix+order.ID, data, 0); err != nil {
		return fmt.Errorf("failed to save order to cache: %w", err)
	}

	if err := r.indexOrder(ctx, order.SessionID, order.ID); err != nil {
		return err
	}

	return nil
}

// Get retrieves an order by id. A missing key yields nil, nil.
func (r *RedisOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	data, err := r.cache.Get(ctx, orderKeyPrefix+id)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order from cache: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}

	return &order, nil
}

// ListBySession returns the session's orders in placement order.
func (r *RedisOrderRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	ids, err := r.sessionIndex(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if order == nil {
			// Index entry without a document; skip rather than fail the listing.
			continue
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

// sessionIndex loads the order-id index for a session.
func (r *RedisOrderRepository) sessionIndex(ctx context.Context, sessionID string) ([]string, error) {
	data, err := r.cache.Get(ctx, sessionIndexKeyPrefix+sessionID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session order index: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session order index: %w", err)
	}
	return ids, nil
}

// indexOrder appends the order id to the session index if not already present.
func (r *RedisOrderRepository) indexOrder(ctx context.Context, sessionID, orderID string) error {
	ids, err := r.sessionIndex(ctx, sessionID)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if id == orderID {
			return nil
		}
	}

	ids = append(ids, orderID)
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal session order index: %w", err)
	}

	if err := r.cache.Set(ctx, sessionIndexKeyPrefix+sessionID, data, 0); err != nil {
		return fmt.Errorf("failed to save session order index: %w", err)
	}

	return nil
}
