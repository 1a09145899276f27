package domain

import (
	"errors"
	"time"
)

var (
	// ErrUnknownProduct is returned when the product id does not exist in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrUnavailable is returned when the product exists but cannot be purchased.
	ErrUnavailable = errors.New("product unavailable")
	// ErrInvalidQuantity is returned when a quantity below 1 is requested.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrLineNotFound is returned when no cart line exists for the product id.
	ErrLineNotFound = errors.New("cart line not found")
)

// Line is one product and quantity pairing awaiting purchase.
// Quantity is always >= 1; a line that would drop below 1 is removed instead.
type Line struct {
	// ProductID references a catalog product.
	ProductID string `json:"product_id"`
	// Quantity is the number of units in the cart.
	Quantity int `json:"quantity"`
}

// Cart holds the lines of a single shopping session.
// Lines are keyed by product id: adding an existing product merges quantities
// instead of inserting a duplicate line. Insertion order is preserved.
type Cart struct {
	// SessionID identifies the owning session.
	SessionID string `json:"session_id"`
	// Lines are the cart lines in insertion order.
	Lines []Line `json:"lines"`
	// UpdatedAt is the timestamp of the last mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCart creates an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{
		SessionID: sessionID,
		Lines:     []Line{},
	}
}

// AddLine inserts a line for the product, or increments the existing line's
// quantity by the given amount. No upper bound is enforced.
func (c *Cart) AddLine(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			c.touch()
			return nil
		}
	}

	c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: quantity})
	c.touch()
	return nil
}

// SetQuantity overwrites the quantity of an existing line.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			c.touch()
			return nil
		}
	}

	return ErrLineNotFound
}

// RemoveLine deletes the line for the product. Removing an absent line is a no-op.
func (c *Cart) RemoveLine(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.touch()
			return
		}
	}
}

// Clear removes all lines.
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.touch()
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
