package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"spice-market/internal/features/orders/domain"
	"spice-market/internal/features/orders/ports"
)

// ErrOrderNotFound is returned when the order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// OrderStatusView is the poll-feed projection of an order: its status plus the
// 1-based progress-indicator step.
type OrderStatusView struct {
	// OrderID is the order identifier.
	OrderID string `json:"order_id"`
	// Status is the current delivery status.
	Status domain.OrderStatus `json:"status"`
	// Step is the 1-based index into the 4-step delivery sequence.
	Step int `json:"step"`
}

// OrderService handles the business logic for the order lifecycle. Status
// transitions are read-modify-write cycles against the repository, serialized
// per order id.
type OrderService struct {
	// repo is the order storage.
	repo ports.OrderRepository
	// locks serializes transitions per order id.
	locks sync.Map
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(repo ports.OrderRepository) *OrderService {
	return &OrderService{
		repo: repo,
	}
}

// lockOrder acquires the mutex for an order and returns its unlock func.
func (s *OrderService) lockOrder(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// load fetches an order or reports ErrOrderNotFound.
func (s *OrderService) load(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrder retrieves an order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.load(ctx, id)
}

// Status returns the poll-feed view of an order.
func (s *OrderService) Status(ctx context.Context, id string) (*OrderStatusView, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return &OrderStatusView{
		OrderID: order.ID,
		Status:  order.Status,
		Step:    order.CurrentStep(),
	}, nil
}

// Advance moves the order to its next delivery status and persists it.
func (s *OrderService) Advance(ctx context.Context, id string) (*domain.Order, error) {
	unlock := s.lockOrder(id)
	defer unlock()

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Advance(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("service: failed to save order: %w", err)
	}

	return order, nil
}

// Cancel cancels the order if it has not been dispatched yet.
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	unlock := s.lockOrder(id)
	defer unlock()

	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("service: failed to save order: %w", err)
	}

	return order, nil
}

// ListBySession returns the orders placed by a session, oldest first.
func (s *OrderService) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	orders, err := s.repo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}
