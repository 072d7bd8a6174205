// Package pricing computes line amounts, subtotals and discounted totals
// for a cart. All arithmetic uses decimals; rounding to two places happens
// only at the final total and discount amount, never mid-computation, so
// the same cart and voucher always produce byte-identical numbers.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
)

// Item is a cart line: a resolved product snapshot plus a quantity.
type Item struct {
	Name     string
	Quantity int
	MRP      decimal.Decimal
	Price    decimal.Decimal
}

// InvalidCartError indicates a cart that cannot be priced.
type InvalidCartError struct {
	Index  int
	Reason string
}

func (e *InvalidCartError) Error() string {
	return fmt.Sprintf("invalid cart item %d: %s", e.Index, e.Reason)
}

// Quote is the priced outcome of a cart with an optional voucher applied.
type Quote struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountType   voucher.DiscountType
	DiscountValue  decimal.Decimal
	Total          decimal.Decimal
}

// Validate checks every cart line for a positive quantity and non-negative
// prices.
func Validate(items []Item) error {
	for i, item := range items {
		if item.Quantity <= 0 {
			return &InvalidCartError{Index: i, Reason: "quantity must be greater than 0"}
		}
		if item.Price.IsNegative() {
			return &InvalidCartError{Index: i, Reason: "price must not be negative"}
		}
		if item.MRP.IsNegative() {
			return &InvalidCartError{Index: i, Reason: "mrp must not be negative"}
		}
	}
	return nil
}

// Price validates the cart, sums the line amounts and applies the voucher
// discount when one is given. The total is clamped at zero.
func Price(items []Item, v *voucher.Voucher) (Quote, error) {
	if err := Validate(items); err != nil {
		return Quote{}, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}

	q := Quote{
		Subtotal: subtotal,
		Total:    subtotal,
	}
	if v == nil {
		q.DiscountAmount = decimal.Zero
		return q, nil
	}

	discount := v.Discount(subtotal)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	q.DiscountAmount = discount.Round(2)
	q.DiscountType = v.DiscountType
	q.DiscountValue = v.DiscountValue
	q.Total = total.Round(2)
	return q, nil
}
