package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ambucrackers/shop-backend/internal/domain/enquiry"
)

const insertEnquirySQL = `INSERT INTO enquiries (id, doc, created_at) VALUES ($1, $2, $3)`

var _ enquiry.Repository = (*EnquiryRepository)(nil)

// EnquiryRepository implements enquiry.Repository backed by PostgreSQL.
type EnquiryRepository struct {
	pool *pgxpool.Pool
}

// NewEnquiryRepository returns an EnquiryRepository that uses the given pool.
func NewEnquiryRepository(pool *pgxpool.Pool) *EnquiryRepository {
	return &EnquiryRepository{pool: pool}
}

// Create persists a new enquiry document.
func (r *EnquiryRepository) Create(ctx context.Context, e *enquiry.Enquiry) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return errors.Wrapf(err, "marshal enquiry %q", e.ID)
	}
	if _, err := r.pool.Exec(ctx, insertEnquirySQL, e.ID, doc, e.CreatedAt); err != nil {
		return errors.Wrapf(err, "create enquiry %q", e.ID)
	}
	return nil
}
