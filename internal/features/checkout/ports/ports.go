package ports

import (
	"context"

	cartdomain "spice-market/internal/features/cart/domain"
	"spice-market/internal/features/checkout/domain"
	ordersdomain "spice-market/internal/features/orders/domain"

	"github.com/shopspring/decimal"
)

// ChargeRequest describes a single charge attempt against the gateway.
type ChargeRequest struct {
	// Reference identifies the charge attempt for reconciliation.
	Reference string `json:"reference"`
	// PaymentMethodID is the instrument to charge.
	PaymentMethodID string `json:"payment_method_id"`
	// Amount is the total to charge.
	Amount decimal.Decimal `json:"amount"`
}

// ChargeResult is the gateway's acknowledgement of a successful charge.
type ChargeResult struct {
	// PaymentID is the gateway-side identifier of the captured payment.
	PaymentID string `json:"payment_id"`
}

// PaymentGateway defines the interface to the external payment collaborator.
// This is a Secondary Port (Driven Port).
type PaymentGateway interface {
	// Charge attempts to capture the amount. A declined or failed charge
	// returns an error wrapping domain.ErrPaymentFailed.
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// OptionsRepository defines the secondary port for the configured address and
// payment method sets.
type OptionsRepository interface {
	ListAddresses(ctx context.Context) ([]domain.Address, error)
	GetAddress(ctx context.Context, id string) (*domain.Address, error)
	ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	GetPaymentMethod(ctx context.Context, id string) (*domain.PaymentMethod, error)
}

// CartProvider exposes the cart feature to checkout.
type CartProvider interface {
	// GetPricedCart returns the session cart priced from the catalog.
	GetPricedCart(ctx context.Context, sessionID string) (*cartdomain.PricedCart, error)
	// Clear drops the stored cart for the session.
	Clear(ctx context.Context, sessionID string) error
}

// OrderStore persists orders created at checkout completion.
type OrderStore interface {
	Save(ctx context.Context, order *ordersdomain.Order) error
}
