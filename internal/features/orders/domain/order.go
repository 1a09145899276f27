package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the current delivery state of an order.
type OrderStatus string

const (
	// OrderStatusConfirmed indicates the order has been placed and paid.
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// OrderStatusPreparing indicates the order is being packed.
	OrderStatusPreparing OrderStatus = "PREPARING"
	// OrderStatusOnTheWay indicates the order has been handed to a rider.
	OrderStatusOnTheWay OrderStatus = "ON_THE_WAY"
	// OrderStatusDelivered indicates the order has reached the customer.
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled indicates the order was cancelled before dispatch.
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var (
	// ErrTerminalState is returned when advancing a delivered or cancelled order.
	ErrTerminalState = errors.New("order is in a terminal state")
	// ErrInvalidTransition is returned when cancelling an order already on the way.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// deliverySteps is the fixed forward progression of an order.
var deliverySteps = []OrderStatus{
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// String returns the status for logging.
func (s OrderStatus) String() string {
	return string(s)
}

// step returns the 1-based position of s in the delivery sequence, or 0 if s
// is not part of it.
func (s OrderStatus) step() int {
	for i, st := range deliverySteps {
		if st == s {
			return i + 1
		}
	}
	return 0
}

// OrderLine is a cart line snapshotted at checkout with its price at purchase.
type OrderLine struct {
	// ProductID references the catalog product.
	ProductID string `json:"product_id"`
	// Name is the product name at purchase time.
	Name string `json:"name"`
	// Quantity is the number of units purchased.
	Quantity int `json:"quantity"`
	// UnitPrice is the discounted unit price at purchase time.
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Order represents a placed order. All fields except Status (and the
// CancelledFrom bookkeeping) are immutable after construction.
type Order struct {
	// ID is the unique order identifier, generated at checkout completion.
	ID string `json:"order_id"`
	// SessionID identifies the session that placed the order.
	SessionID string `json:"session_id"`
	// Lines is the snapshot of the cart at purchase time.
	Lines []OrderLine `json:"lines"`
	// Subtotal is the cart subtotal at purchase time.
	Subtotal decimal.Decimal `json:"subtotal"`
	// ShippingFee is the flat shipping fee applied at checkout.
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	// Total is Subtotal plus ShippingFee.
	Total decimal.Decimal `json:"total"`
	// Status is the current delivery state.
	Status OrderStatus `json:"status"`
	// CancelledFrom records the status the order held when it was cancelled.
	CancelledFrom OrderStatus `json:"cancelled_from,omitempty"`
	// CreatedAt is the timestamp when the order was placed.
	CreatedAt time.Time `json:"created_at"`
	// AddressID is the selected shipping address.
	AddressID string `json:"address_id"`
	// PaymentMethodID is the selected payment method.
	PaymentMethodID string `json:"payment_method_id"`
}

// NewOrder constructs a Confirmed order from a checkout snapshot.
func NewOrder(id, sessionID string, lines []OrderLine, subtotal, shippingFee decimal.Decimal, addressID, paymentMethodID string) *Order {
	return &Order{
		ID:              id,
		SessionID:       sessionID,
		Lines:           lines,
		Subtotal:        subtotal,
		ShippingFee:     shippingFee,
		Total:           subtotal.Add(shippingFee),
		Status:          OrderStatusConfirmed,
		CreatedAt:       time.Now(),
		AddressID:       addressID,
		PaymentMethodID: paymentMethodID,
	}
}

// Advance moves the order to the next delivery status.
func (o *Order) Advance() error {
	if o.Status.IsTerminal() {
		return ErrTerminalState
	}

	o.Status = deliverySteps[o.Status.step()]
	return nil
}

// Cancel moves the order to Cancelled. Cancellation is only possible while the
// order is Confirmed or Preparing; once it is on the way the transition is
// rejected and the order is left unchanged.
func (o *Order) Cancel() error {
	if o.Status != OrderStatusConfirmed && o.Status != OrderStatusPreparing {
		return ErrInvalidTransition
	}

	o.CancelledFrom = o.Status
	o.Status = OrderStatusCancelled
	return nil
}

// CurrentStep returns the 1-based progress-indicator index into the fixed
// 4-step delivery sequence. Cancelled orders report the step at which
// cancellation occurred.
func (o *Order) CurrentStep() int {
	if o.Status == OrderStatusCancelled {
		return o.CancelledFrom.step()
	}
	return o.Status.step()
}
