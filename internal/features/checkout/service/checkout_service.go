package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"spice-market/internal/core/logger"
	"spice-market/internal/features/checkout/domain"
	"spice-market/internal/features/checkout/ports"
	ordersdomain "spice-market/internal/features/orders/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Config holds the checkout computation settings.
type Config struct {
	// ShippingFee is the flat fee added to every quote.
	ShippingFee decimal.Decimal
	// ClearCart controls whether the cart is emptied after a placed order.
	ClearCart bool
	// ChargeTimeout bounds a single gateway charge attempt.
	ChargeTimeout time.Duration
}

// CheckoutService orchestrates quoting, checkout selections, and order
// placement. Placement is commit-or-rollback: either a complete order is
// persisted and returned, or the cart is left exactly as it was.
type CheckoutService struct {
	cart    ports.CartProvider
	options ports.OptionsRepository
	gateway ports.PaymentGateway
	orders  ports.OrderStore
	cfg     Config

	// mu guards the per-session checkout selections.
	mu         sync.RWMutex
	selections map[string]domain.Selection
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(cart ports.CartProvider, options ports.OptionsRepository, gateway ports.PaymentGateway, orders ports.OrderStore, cfg Config) *CheckoutService {
	return &CheckoutService{
		cart:       cart,
		options:    options,
		gateway:    gateway,
		orders:     orders,
		cfg:        cfg,
		selections: make(map[string]domain.Selection),
	}
}

// Quote prices the session cart and applies the flat shipping fee.
func (s *CheckoutService) Quote(ctx context.Context, sessionID string) (*domain.Quote, error) {
	priced, err := s.cart.GetPricedCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to quote cart: %w", err)
	}

	quote := domain.NewQuote(priced.Subtotal, s.cfg.ShippingFee)
	return &quote, nil
}

// ListOptions returns the configured address and payment method sets.
func (s *CheckoutService) ListOptions(ctx context.Context) ([]domain.Address, []domain.PaymentMethod, error) {
	addresses, err := s.options.ListAddresses(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("service: failed to list addresses: %w", err)
	}

	methods, err := s.options.ListPaymentMethods(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("service: failed to list payment methods: %w", err)
	}

	return addresses, methods, nil
}

// SelectAddress records the session's shipping address choice.
func (s *CheckoutService) SelectAddress(ctx context.Context, sessionID, addressID string) error {
	if _, err := s.options.GetAddress(ctx, addressID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selections[sessionID]
	sel.AddressID = addressID
	s.selections[sessionID] = sel
	return nil
}

// SelectPaymentMethod records the session's payment method choice.
func (s *CheckoutService) SelectPaymentMethod(ctx context.Context, sessionID, methodID string) error {
	if _, err := s.options.GetPaymentMethod(ctx, methodID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sel := s.selections[sessionID]
	sel.PaymentMethodID = methodID
	s.selections[sessionID] = sel
	return nil
}

// Selection returns the session's current checkout choices.
func (s *CheckoutService) Selection(sessionID string) domain.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selections[sessionID]
}

// PlaceOrder converts the session cart into a Confirmed order.
//
// The cart is snapshotted with its prices at purchase time, the gateway is
// charged for the total, and only then is the order persisted and the cart
// (optionally) cleared. A failed charge leaves the cart untouched so the
// caller can retry with the same state.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string) (*ordersdomain.Order, error) {
	sel := s.Selection(sessionID)
	if sel.AddressID == "" {
		return nil, domain.ErrNoAddressSelected
	}
	if sel.PaymentMethodID == "" {
		return nil, domain.ErrNoPaymentMethodSelected
	}

	priced, err := s.cart.GetPricedCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load cart: %w", err)
	}
	if len(priced.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	quote := domain.NewQuote(priced.Subtotal, s.cfg.ShippingFee)

	chargeCtx := ctx
	if s.cfg.ChargeTimeout > 0 {
		var cancel context.CancelFunc
		chargeCtx, cancel = context.WithTimeout(ctx, s.cfg.ChargeTimeout)
		defer cancel()
	}

	result, err := s.gateway.Charge(chargeCtx, ports.ChargeRequest{
		Reference:       sessionID,
		PaymentMethodID: sel.PaymentMethodID,
		Amount:          quote.Total,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPaymentFailed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}

	lines := make([]ordersdomain.OrderLine, 0, len(priced.Lines))
	for _, l := range priced.Lines {
		lines = append(lines, ordersdomain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	order := ordersdomain.NewOrder(
		uuid.NewString(),
		sessionID,
		lines,
		quote.Subtotal,
		quote.ShippingFee,
		sel.AddressID,
		sel.PaymentMethodID,
	)

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("service: failed to persist order: %w", err)
	}

	logger.Get().Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("session_id", sessionID),
		zap.String("payment_id", result.PaymentID),
		zap.String("total", order.Total.StringFixed(2)),
	)

	if s.cfg.ClearCart {
		if err := s.cart.Clear(ctx, sessionID); err != nil {
			// The order is already committed; a stale cart is recoverable.
			logger.Get().Warn("Failed to clear cart after order",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}

	return order, nil
}
