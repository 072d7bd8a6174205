package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
)

const (
	findVoucherSQL = `SELECT code, title, discount_type, discount_value, created_at
		FROM vouchers WHERE code = $1`

	insertVoucherSQL = `INSERT INTO vouchers (code, title, discount_type, discount_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at`

	deleteVoucherSQL = `DELETE FROM vouchers WHERE code = $1`

	listVouchersSQL = `SELECT code, title, discount_type, discount_value, created_at
		FROM vouchers ORDER BY created_at DESC`
)

var _ voucher.Store = (*VoucherStore)(nil)

// VoucherStore implements voucher.Store backed by PostgreSQL. Codes are
// stored normalized (uppercase), so lookups pass the normalized code as-is.
type VoucherStore struct {
	pool *pgxpool.Pool
}

// NewVoucherStore returns a VoucherStore that uses the given pool.
func NewVoucherStore(pool *pgxpool.Pool) *VoucherStore {
	return &VoucherStore{pool: pool}
}

// FindByCode looks up a voucher by its normalized code.
func (s *VoucherStore) FindByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	rows, err := s.pool.Query(ctx, findVoucherSQL, code)
	if err != nil {
		return nil, errors.Wrapf(err, "find voucher %q", code)
	}

	v, err := pgx.CollectExactlyOneRow(rows, scanVoucher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voucher.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find voucher %q", code)
	}
	return &v, nil
}

// Create inserts a new voucher. Vouchers are immutable: an existing code is
// never overwritten and reports voucher.ErrExists instead.
func (s *VoucherStore) Create(ctx context.Context, v *voucher.Voucher) error {
	err := s.pool.QueryRow(ctx, insertVoucherSQL,
		v.Code, v.Title, string(v.DiscountType), v.DiscountValue,
	).Scan(&v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return voucher.ErrExists
		}
		return errors.Wrapf(err, "create voucher %q", v.Code)
	}
	return nil
}

// Delete removes a voucher by code.
func (s *VoucherStore) Delete(ctx context.Context, code string) error {
	tag, err := s.pool.Exec(ctx, deleteVoucherSQL, code)
	if err != nil {
		return errors.Wrapf(err, "delete voucher %q", code)
	}
	if tag.RowsAffected() == 0 {
		return voucher.ErrNotFound
	}
	return nil
}

// List returns all vouchers, newest first.
func (s *VoucherStore) List(ctx context.Context) ([]voucher.Voucher, error) {
	rows, err := s.pool.Query(ctx, listVouchersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list vouchers")
	}
	return pgx.CollectRows(rows, scanVoucher)
}

func scanVoucher(row pgx.CollectableRow) (voucher.Voucher, error) {
	var (
		v            voucher.Voucher
		discountType string
	)
	err := row.Scan(&v.Code, &v.Title, &discountType, &v.DiscountValue, &v.CreatedAt)
	v.DiscountType = voucher.DiscountType(discountType)
	return v, err
}
