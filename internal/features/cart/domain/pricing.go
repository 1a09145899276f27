package domain

import "github.com/shopspring/decimal"

// PricedLine is a cart line resolved against the catalog, carrying the
// discounted unit price at the time of pricing.
type PricedLine struct {
	// ProductID references the catalog product.
	ProductID string `json:"product_id"`
	// Name is the product name at pricing time.
	Name string `json:"name"`
	// Quantity is the number of units.
	Quantity int `json:"quantity"`
	// UnitPrice is the discounted unit price. Kept unrounded; rounding
	// happens once, at the subtotal.
	UnitPrice decimal.Decimal `json:"unit_price"`
	// DiscountPercent is the discount that produced UnitPrice.
	DiscountPercent int `json:"discount_percent"`
	// LineTotal is UnitPrice multiplied by Quantity, unrounded.
	LineTotal decimal.Decimal `json:"line_total"`
}

// PricedCart is a cart with every line priced and the derived subtotal.
type PricedCart struct {
	// SessionID identifies the owning session.
	SessionID string `json:"session_id"`
	// Lines are the priced cart lines in cart order.
	Lines []PricedLine `json:"lines"`
	// Subtotal is the sum of line totals, rounded to 2 decimal places.
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Subtotal sums the unrounded line totals and rounds the aggregate to
// 2 decimal places, half up. Per-line rounding would compound rounding
// error across lines.
func Subtotal(lines []PricedLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal)
	}
	return sum.Round(2)
}
