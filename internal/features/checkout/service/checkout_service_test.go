package service

import (
	"context"
	"errors"
	"testing"
	"time"

	cartdomain "spice-market/internal/features/cart/domain"
	"spice-market/internal/features/checkout/domain"
	"spice-market/internal/features/checkout/ports"
	ordersdomain "spice-market/internal/features/orders/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartProvider is a mock implementation of ports.CartProvider.
type MockCartProvider struct {
	mock.Mock
}

func (m *MockCartProvider) GetPricedCart(ctx context.Context, sessionID string) (*cartdomain.PricedCart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartdomain.PricedCart), args.Error(1)
}

func (m *MockCartProvider) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockPaymentGateway is a mock implementation of ports.PaymentGateway.
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Charge(ctx context.Context, req ports.ChargeRequest) (*ports.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ChargeResult), args.Error(1)
}

// MockOrderStore is a mock implementation of ports.OrderStore.
type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) Save(ctx context.Context, order *ordersdomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// stubOptions serves fixed configured sets.
type stubOptions struct{}

func (stubOptions) ListAddresses(ctx context.Context) ([]domain.Address, error) {
	return []domain.Address{{ID: "addr-home", Label: "Home"}}, nil
}

func (stubOptions) GetAddress(ctx context.Context, id string) (*domain.Address, error) {
	if id != "addr-home" {
		return nil, domain.ErrAddressNotFound
	}
	return &domain.Address{ID: id, Label: "Home"}, nil
}

func (stubOptions) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return []domain.PaymentMethod{{ID: "pm-card", Kind: "card"}}, nil
}

func (stubOptions) GetPaymentMethod(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	if id != "pm-card" {
		return nil, domain.ErrPaymentMethodNotFound
	}
	return &domain.PaymentMethod{ID: id, Kind: "card"}, nil
}

func testConfig() Config {
	return Config{
		ShippingFee:   decimal.RequireFromString("5.99"),
		ClearCart:     true,
		ChargeTimeout: time.Second,
	}
}

func pricedCart() *cartdomain.PricedCart {
	pepper := decimal.RequireFromString("12.99").Mul(decimal.RequireFromString("0.9"))
	turmeric := decimal.RequireFromString("9.99").Mul(decimal.RequireFromString("0.85"))
	lines := []cartdomain.PricedLine{
		{ProductID: "black-pepper", Name: "Black Pepper", Quantity: 2, UnitPrice: pepper, LineTotal: pepper.Mul(decimal.NewFromInt(2))},
		{ProductID: "turmeric", Name: "Turmeric", Quantity: 1, UnitPrice: turmeric, LineTotal: turmeric},
	}
	return &cartdomain.PricedCart{
		SessionID: "s1",
		Lines:     lines,
		Subtotal:  cartdomain.Subtotal(lines),
	}
}

func selectBoth(t *testing.T, svc *CheckoutService) {
	t.Helper()
	require.NoError(t, svc.SelectAddress(context.Background(), "s1", "addr-home"))
	require.NoError(t, svc.SelectPaymentMethod(context.Background(), "s1", "pm-card"))
}

// TestCheckoutService_Quote verifies the worked example: subtotal 31.87 plus
// shipping 5.99 totals 37.86.
func TestCheckoutService_Quote(t *testing.T) {
	cart := new(MockCartProvider)
	cart.On("GetPricedCart", mock.Anything, "s1").Return(pricedCart(), nil).Once()

	svc := NewCheckoutService(cart, stubOptions{}, new(MockPaymentGateway), new(MockOrderStore), testConfig())

	quote, err := svc.Quote(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("31.87").Equal(quote.Subtotal), "got %s", quote.Subtotal)
	assert.True(t, decimal.RequireFromString("37.86").Equal(quote.Total), "got %s", quote.Total)
	cart.AssertExpectations(t)
}

// TestCheckoutService_SelectAddress verifies selection and the NotFound case.
func TestCheckoutService_SelectAddress(t *testing.T) {
	svc := NewCheckoutService(new(MockCartProvider), stubOptions{}, new(MockPaymentGateway), new(MockOrderStore), testConfig())
	ctx := context.Background()

	require.NoError(t, svc.SelectAddress(ctx, "s1", "addr-home"))
	assert.Equal(t, "addr-home", svc.Selection("s1").AddressID)

	err := svc.SelectAddress(ctx, "s1", "addr-moon")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	assert.Equal(t, "addr-home", svc.Selection("s1").AddressID)
}

// TestCheckoutService_SelectPaymentMethod verifies selection and the NotFound case.
func TestCheckoutService_SelectPaymentMethod(t *testing.T) {
	svc := NewCheckoutService(new(MockCartProvider), stubOptions{}, new(MockPaymentGateway), new(MockOrderStore), testConfig())
	ctx := context.Background()

	require.NoError(t, svc.SelectPaymentMethod(ctx, "s1", "pm-card"))
	assert.Equal(t, "pm-card", svc.Selection("s1").PaymentMethodID)

	err := svc.SelectPaymentMethod(ctx, "s1", "pm-crypto")
	assert.ErrorIs(t, err, domain.ErrPaymentMethodNotFound)
}

// TestCheckoutService_PlaceOrder_Success verifies the full placement path:
// charge, snapshot, persist, clear.
func TestCheckoutService_PlaceOrder_Success(t *testing.T) {
	cart := new(MockCartProvider)
	gateway := new(MockPaymentGateway)
	store := new(MockOrderStore)

	cart.On("GetPricedCart", mock.Anything, "s1").Return(pricedCart(), nil).Once()
	gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req ports.ChargeRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("37.86")) && req.PaymentMethodID == "pm-card"
	})).Return(&ports.ChargeResult{PaymentID: "pay_1"}, nil).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	cart.On("Clear", mock.Anything, "s1").Return(nil).Once()

	svc := NewCheckoutService(cart, stubOptions{}, gateway, store, testConfig())
	selectBoth(t, svc)

	order, err := svc.PlaceOrder(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, ordersdomain.OrderStatusConfirmed, order.Status)
	assert.Len(t, order.Lines, 2)
	assert.True(t, decimal.RequireFromString("37.86").Equal(order.Total))
	assert.Equal(t, "addr-home", order.AddressID)

	cart.AssertExpectations(t)
	gateway.AssertExpectations(t)
	store.AssertExpectations(t)
}

// TestCheckoutService_PlaceOrder_EmptyCart verifies no order is constructed
// and the gateway is never called.
func TestCheckoutService_PlaceOrder_EmptyCart(t *testing.T) {
	cart := new(MockCartProvider)
	gateway := new(MockPaymentGateway)
	store := new(MockOrderStore)

	cart.On("GetPricedCart", mock.Anything, "s1").Return(&cartdomain.PricedCart{
		SessionID: "s1",
		Lines:     []cartdomain.PricedLine{},
		Subtotal:  decimal.Zero,
	}, nil).Once()

	svc := NewCheckoutService(cart, stubOptions{}, gateway, store, testConfig())
	selectBoth(t, svc)

	order, err := svc.PlaceOrder(context.Background(), "s1")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCheckoutService_PlaceOrder_PaymentFailed verifies the cart survives a
// declined charge so the caller can retry.
func TestCheckoutService_PlaceOrder_PaymentFailed(t *testing.T) {
	cart := new(MockCartProvider)
	gateway := new(MockPaymentGateway)
	store := new(MockOrderStore)

	cart.On("GetPricedCart", mock.Anything, "s1").Return(pricedCart(), nil).Twice()
	gateway.On("Charge", mock.Anything, mock.Anything).
		Return(nil, domain.ErrPaymentFailed).Once()
	gateway.On("Charge", mock.Anything, mock.Anything).
		Return(&ports.ChargeResult{PaymentID: "pay_2"}, nil).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
	cart.On("Clear", mock.Anything, "s1").Return(nil).Once()

	svc := NewCheckoutService(cart, stubOptions{}, gateway, store, testConfig())
	selectBoth(t, svc)

	order, err := svc.PlaceOrder(context.Background(), "s1")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	cart.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)

	// Retry with the same cart succeeds.
	order, err = svc.PlaceOrder(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, order)

	cart.AssertExpectations(t)
	gateway.AssertExpectations(t)
	store.AssertExpectations(t)
}

// TestCheckoutService_PlaceOrder_MissingSelections verifies both selections
// are required before placement.
func TestCheckoutService_PlaceOrder_MissingSelections(t *testing.T) {
	svc := NewCheckoutService(new(MockCartProvider), stubOptions{}, new(MockPaymentGateway), new(MockOrderStore), testConfig())
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNoAddressSelected)

	require.NoError(t, svc.SelectAddress(ctx, "s1", "addr-home"))
	_, err = svc.PlaceOrder(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNoPaymentMethodSelected)
}

// TestCheckoutService_PlaceOrder_GatewayTransportError verifies unknown
// gateway failures are surfaced as payment failures.
func TestCheckoutService_PlaceOrder_GatewayTransportError(t *testing.T) {
	cart := new(MockCartProvider)
	gateway := new(MockPaymentGateway)
	store := new(MockOrderStore)

	cart.On("GetPricedCart", mock.Anything, "s1").Return(pricedCart(), nil).Once()
	gateway.On("Charge", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()

	svc := NewCheckoutService(cart, stubOptions{}, gateway, store, testConfig())
	selectBoth(t, svc)

	order, err := svc.PlaceOrder(context.Background(), "s1")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCheckoutService_PlaceOrder_KeepCartPolicy verifies the clear-cart policy
// flag is honored.
func TestCheckoutService_PlaceOrder_KeepCartPolicy(t *testing.T) {
	cart := new(MockCartProvider)
	gateway := new(MockPaymentGateway)
	store := new(MockOrderStore)

	cart.On("GetPricedCart", mock.Anything, "s1").Return(pricedCart(), nil).Once()
	gateway.On("Charge", mock.Anything, mock.Anything).
		Return(&ports.ChargeResult{PaymentID: "pay_3"}, nil).Once()
	store.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

	cfg := testConfig()
	cfg.ClearCart = false
	svc := NewCheckoutService(cart, stubOptions{}, gateway, store, cfg)
	selectBoth(t, svc)

	order, err := svc.PlaceOrder(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, order)

	cart.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
}
