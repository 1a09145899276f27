package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyCart is returned when placing an order from a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// ErrPaymentFailed is returned when the payment gateway declines or fails
	// the charge. The cart is left untouched so the caller can retry.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrAddressNotFound is returned when the address id is not configured.
	ErrAddressNotFound = errors.New("address not found")
	// ErrPaymentMethodNotFound is returned when the payment method id is not configured.
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	// ErrNoAddressSelected is returned when placing an order without an address.
	ErrNoAddressSelected = errors.New("no address selected")
	// ErrNoPaymentMethodSelected is returned when placing an order without a payment method.
	ErrNoPaymentMethodSelected = errors.New("no payment method selected")
)

// Address is a configured shipping destination.
type Address struct {
	// ID is the unique address identifier.
	ID string `json:"address_id"`
	// Label is the display name (e.g., Home, Office).
	Label string `json:"label"`
	// Street is the street line of the address.
	Street string `json:"street"`
	// City is the city of the address.
	City string `json:"city"`
}

// PaymentMethod is a configured way to pay.
type PaymentMethod struct {
	// ID is the unique payment method identifier.
	ID string `json:"payment_method_id"`
	// Label is the display name (e.g., Visa ending 4242).
	Label string `json:"label"`
	// Kind is the payment instrument type (e.g., card, cash, wallet).
	Kind string `json:"kind"`
}

// Selection holds the per-session checkout choices.
type Selection struct {
	// AddressID is the chosen shipping address, empty until selected.
	AddressID string `json:"address_id"`
	// PaymentMethodID is the chosen payment method, empty until selected.
	PaymentMethodID string `json:"payment_method_id"`
}

// Quote is the derived checkout total for a cart.
type Quote struct {
	// Subtotal is the cart subtotal, rounded to 2 decimal places.
	Subtotal decimal.Decimal `json:"subtotal"`
	// ShippingFee is the flat shipping fee.
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	// Total is Subtotal plus ShippingFee.
	Total decimal.Decimal `json:"total"`
}

// NewQuote derives a quote from a subtotal and the configured shipping fee.
func NewQuote(subtotal, shippingFee decimal.Decimal) Quote {
	return Quote{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Total:       subtotal.Add(shippingFee),
	}
}
