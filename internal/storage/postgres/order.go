package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ambucrackers/shop-backend/internal/domain/order"
)

const (
	// The conditional insert makes order creation idempotent-safe: a
	// replayed id is reported as a duplicate instead of overwriting the
	// immutable record.
	insertOrderSQL = `INSERT INTO orders (id, status, doc, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	getOrderSQL = `SELECT doc FROM orders WHERE id = $1`

	listOrdersSQL = `SELECT doc FROM orders ORDER BY created_at DESC`

	// Status and invoice URI updates rewrite both the indexed column and
	// the document, so the document stays self-contained.
	updateStatusSQL = `UPDATE orders
		SET status = $2, doc = jsonb_set(doc, '{status}', to_jsonb($2::text))
		WHERE id = $1
		RETURNING doc`

	attachInvoiceSQL = `UPDATE orders
		SET invoice_uri = $2, doc = jsonb_set(doc, '{order_pdf}', to_jsonb($2::text))
		WHERE id = $1
		RETURNING doc`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Each
// order is a self-contained JSONB document; line items are frozen product
// snapshots taken at order time.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. Returns order.ErrDuplicate when the id
// already exists.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	doc, err := json.Marshal(o)
	if err != nil {
		return errors.Wrapf(err, "marshal order %q", o.ID)
	}

	tag, err := r.pool.Exec(ctx, insertOrderSQL, o.ID, string(o.Status), doc, o.CreatedAt)
	if err != nil {
		return errors.Wrapf(err, "create order %q", o.ID)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrDuplicate
	}
	return nil
}

// Get returns the order document, or order.ErrNotFound.
func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %q", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %q", id)
	}
	return &o, nil
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus sets the order status. Any allowed status may follow any
// other; only enum membership is checked.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) (*order.Order, error) {
	if !status.Valid() {
		return nil, &order.InvalidStatusError{Status: status}
	}
	return r.updateDoc(ctx, updateStatusSQL, id, string(status))
}

// AttachInvoiceURI records the rendered invoice location on the order.
func (r *OrderRepository) AttachInvoiceURI(ctx context.Context, id, uri string) (*order.Order, error) {
	return r.updateDoc(ctx, attachInvoiceSQL, id, uri)
}

func (r *OrderRepository) updateDoc(ctx context.Context, sql, id, value string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, id, value)
	if err != nil {
		return nil, errors.Wrapf(err, "update order %q", id)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "update order %q", id)
	}
	return &o, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		return order.Order{}, err
	}

	var o order.Order
	if err := json.Unmarshal(doc, &o); err != nil {
		return order.Order{}, errors.Wrap(err, "unmarshal order doc")
	}
	return o, nil
}
