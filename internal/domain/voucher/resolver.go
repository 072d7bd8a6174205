package voucher

import (
	"context"

	"github.com/go-faster/errors"
)

// Resolver turns raw coupon code strings into stored vouchers.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver backed by the given Store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve normalizes the raw code and looks it up in the store.
// Returns ErrNotFound when the code does not match any voucher. There are no
// expiry or usage-limit rules: every stored voucher is valid.
func (r *Resolver) Resolve(ctx context.Context, rawCode string) (*Voucher, error) {
	code := NormalizeCode(rawCode)
	if code == "" {
		return nil, ErrNotFound
	}

	v, err := r.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup voucher")
	}
	return v, nil
}
