// Package order defines the immutable order record and its persistence port.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the order fulfilment state. Any status may follow any other;
// only membership in the enum is validated.
type Status string

const (
	StatusNotEnquired Status = "NOT_ENQUIRED"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusDelivered   Status = "DELIVERED"
	StatusAborted     Status = "ABORTED"
)

// Valid reports whether s is one of the allowed status values.
func (s Status) Valid() bool {
	switch s {
	case StatusNotEnquired, StatusInProgress, StatusDelivered, StatusAborted:
		return true
	}
	return false
}

// Sentinel errors for order persistence.
var (
	ErrNotFound  = errors.New("order not found")
	ErrDuplicate = errors.New("duplicate order id")
)

// InvalidStatusError indicates a status value outside the allowed enum.
type InvalidStatusError struct {
	Status Status
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Status)
}

// Item is a line item frozen at order time. Name, MRP and Price are
// snapshots of the product at checkout; later catalog edits never change
// an existing order. MRP is shown for comparison only and is never used
// in totals.
type Item struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	MRP      decimal.Decimal `json:"mrp"`
	Price    decimal.Decimal `json:"price"`
}

// Order is the durable record of a checkout. It is created once, then
// mutated only to attach the rendered invoice URI and through explicit
// status transitions. Orders are never deleted.
type Order struct {
	ID              string          `json:"order_id"`
	CreatedAt       time.Time       `json:"created_at"`
	Status          Status          `json:"status"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
	CustomerPhone   string          `json:"customer_phone,omitempty"`
	CustomerAddress string          `json:"customer_address,omitempty"`
	Items           []Item          `json:"items"`
	CouponCode      string          `json:"coupon_code,omitempty"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Total           decimal.Decimal `json:"total"`
	InvoiceURI      string          `json:"order_pdf,omitempty"`
}

// Repository defines persistence operations for orders. Each order is a
// single self-contained document keyed by order id.
type Repository interface {
	// Create persists a new order. The write is conditional on the id:
	// ErrDuplicate is returned if the id already exists.
	Create(ctx context.Context, o *Order) error
	// Get returns the order or ErrNotFound.
	Get(ctx context.Context, id string) (*Order, error)
	// List returns all orders, newest first.
	List(ctx context.Context) ([]Order, error)
	// UpdateStatus sets the status and returns the updated order.
	// Returns ErrNotFound for a missing id and *InvalidStatusError for a
	// status outside the enum.
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	// AttachInvoiceURI records the location of the rendered invoice.
	AttachInvoiceURI(ctx context.Context, id, uri string) (*Order, error)
}
