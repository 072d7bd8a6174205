// Package voucher defines discount vouchers and their resolution and
// application rules.
package voucher

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported voucher discount strategies.
type DiscountType string

const (
	// DiscountFlat subtracts an absolute amount, capped at the subtotal.
	DiscountFlat DiscountType = "flat"
	// DiscountPercentage subtracts a 0-100 percentage of the subtotal.
	DiscountPercentage DiscountType = "percentage"
)

// Sentinel errors for voucher lookup and creation.
var (
	ErrNotFound = errors.New("coupon not found")
	ErrExists   = errors.New("voucher already exists")
)

var hundred = decimal.NewFromInt(100)

// Voucher is a named discount rule. Vouchers are immutable once created;
// deletion is the only supported mutation.
type Voucher struct {
	Code          string          `json:"code"`
	Title         string          `json:"title,omitempty"`
	DiscountType  DiscountType    `json:"discount_type"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Validate checks the rule invariants: a known discount type, a positive
// value, and for percentage vouchers a value of at most 100.
func (v *Voucher) Validate() error {
	if v.Code == "" {
		return errors.New("code is required")
	}
	switch v.DiscountType {
	case DiscountFlat:
	case DiscountPercentage:
		if v.DiscountValue.GreaterThan(hundred) {
			return errors.New("percentage discount cannot exceed 100")
		}
	default:
		return errors.Errorf("unsupported discount type: %q", v.DiscountType)
	}
	if !v.DiscountValue.IsPositive() {
		return errors.New("discount value must be greater than 0")
	}
	return nil
}

// NormalizeCode trims surrounding whitespace and uppercases a raw coupon
// code. Codes are stored and compared in this normalized form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Store defines persistence operations for vouchers.
type Store interface {
	// FindByCode looks up a voucher by its normalized code.
	// Returns ErrNotFound when no such voucher exists.
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	// Create persists a new voucher. Returns ErrExists when the code is taken.
	Create(ctx context.Context, v *Voucher) error
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]Voucher, error)
}
