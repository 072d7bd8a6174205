// Package product defines the catalog entity and its persistence port.
package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a product id does not exist in the catalog.
var ErrNotFound = errors.New("product not found")

// Product is a catalog entry. MRP is the listed reference price shown for
// comparison; Price is the actual unit charge.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MRP         decimal.Decimal `json:"mrp"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Patch holds a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
	MRP         *decimal.Decimal
	Price       *decimal.Decimal
	Category    *string
	ImageURL    *string
	IsActive    *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.MRP == nil &&
		p.Price == nil && p.Category == nil && p.ImageURL == nil && p.IsActive == nil
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	// List returns active products, newest first, optionally filtered by
	// category. An empty category matches everything.
	List(ctx context.Context, category string) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	// Update applies a partial update and returns the stored product.
	Update(ctx context.Context, id string, patch Patch) (*Product, error)
	Delete(ctx context.Context, id string) error
}
