package adapters

import (
	"context"
	"fmt"
	"sync"

	"spice-market/internal/features/checkout/domain"
)

// MemoryOptionsRepository implements ports.OptionsRepository with fixed
// configured sets. The sets are immutable after construction.
type MemoryOptionsRepository struct {
	mu             sync.RWMutex
	addresses      []domain.Address
	paymentMethods []domain.PaymentMethod
}

// NewMemoryOptionsRepository creates a repository holding the given sets.
func NewMemoryOptionsRepository(addresses []domain.Address, methods []domain.PaymentMethod) *MemoryOptionsRepository {
	return &MemoryOptionsRepository{
		addresses:      addresses,
		paymentMethods: methods,
	}
}

// NewSeededOptionsRepository creates a repository pre-loaded with the demo
// address book and payment methods.
func NewSeededOptionsRepository() *MemoryOptionsRepository {
	return NewMemoryOptionsRepository(
		[]domain.Address{
			{ID: "addr-home", Label: "Home", Street: "12 Clove Lane", City: "Portland"},
			{ID: "addr-office", Label: "Office", Street: "401 Harbor Blvd, Suite 7", City: "Portland"},
		},
		[]domain.PaymentMethod{
			{ID: "pm-card", Label: "Visa ending 4242", Kind: "card"},
			{ID: "pm-cash", Label: "Cash on delivery", Kind: "cash"},
			{ID: "pm-wallet", Label: "Store wallet", Kind: "wallet"},
		},
	)
}

// ListAddresses returns the configured addresses.
func (r *MemoryOptionsRepository) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Address(nil), r.addresses...), nil
}

// GetAddress retrieves a configured address by id.
func (r *MemoryOptionsRepository) GetAddress(ctx context.Context, id string) (*domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.addresses {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrAddressNotFound, id)
}

// ListPaymentMethods returns the configured payment methods.
func (r *MemoryOptionsRepository) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.PaymentMethod(nil), r.paymentMethods...), nil
}

// GetPaymentMethod retrieves a configured payment method by id.
func (r *MemoryOptionsRepository) GetPaymentMethod(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.paymentMethods {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrPaymentMethodNotFound, id)
}
