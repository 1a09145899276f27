package domain

import "github.com/shopspring/decimal"

// Product represents a single catalog entry.
// Products are immutable once loaded; mutation happens only in the seed data.
type Product struct {
	// ID is the unique identifier for the product.
	ID string `json:"product_id"`
	// Name is the descriptive name of the product.
	Name string `json:"name"`
	// Price is the list price before any discount.
	Price decimal.Decimal `json:"price"`
	// DiscountPercent is the discount applied to the list price (0-100).
	DiscountPercent int `json:"discount_percent"`
	// IsAvailable indicates whether the product can currently be purchased.
	IsAvailable bool `json:"is_available"`
	// Weight is the display weight of the package (e.g., "100g").
	Weight string `json:"weight"`
}

// DiscountedPrice returns the unit price after applying the discount.
// The result is intentionally unrounded; rounding happens once, at the
// cart subtotal.
func (p Product) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercent)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor)
}
