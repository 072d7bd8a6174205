package voucher

import "github.com/shopspring/decimal"

// Discount returns the discount amount the voucher yields on the given
// subtotal. Percentage vouchers take their share of the subtotal; flat
// vouchers are capped at the subtotal so a total can never go negative.
// The result is exact; rounding happens at the pricing boundary.
func (v *Voucher) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch v.DiscountType {
	case DiscountPercentage:
		amount = subtotal.Mul(v.DiscountValue).Div(hundred)
	case DiscountFlat:
		amount = decimal.Min(v.DiscountValue, subtotal)
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// CheckResult is the outcome of applying a voucher to a standalone amount,
// as returned by the public coupon check endpoint.
type CheckResult struct {
	Valid         bool            `json:"valid"`
	ActualAmount  decimal.Decimal `json:"actual_amount"`
	RevisedAmount decimal.Decimal `json:"revised_amount"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
}

// Check applies the voucher to an arbitrary amount and reports the revised
// amount, floored at zero and rounded to two decimal places.
func (v *Voucher) Check(amount decimal.Decimal) CheckResult {
	revised := amount.Sub(v.Discount(amount))
	if revised.IsNegative() {
		revised = decimal.Zero
	}
	return CheckResult{
		Valid:         true,
		ActualAmount:  amount,
		RevisedAmount: revised.Round(2),
		DiscountType:  v.DiscountType,
		DiscountValue: v.DiscountValue,
	}
}
