// Command seed-db loads the product catalog from a JSON file and creates the
// stock discount vouchers. It is idempotent; products and vouchers that
// already exist are skipped.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ambucrackers/shop-backend/internal/domain/product"
	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
	"github.com/ambucrackers/shop-backend/internal/storage/postgres"
)

type productJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	MRP         decimal.Decimal `json:"mrp"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedVouchers(ctx, postgres.NewVoucherStore(pool)); err != nil {
		return errors.Wrap(err, "seed vouchers")
	}

	return nil
}

func seedProducts(ctx context.Context, repo *postgres.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var items []productJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("inserting products", slog.Int("count", len(items)))

	for _, item := range items {
		p := &product.Product{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			MRP:         item.MRP,
			Price:       item.Price,
			Category:    item.Category,
			ImageURL:    item.ImageURL,
			IsActive:    true,
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.MRP.IsZero() {
			p.MRP = p.Price
		}

		if _, err := repo.GetByID(ctx, p.ID); err == nil {
			slog.Info("product exists, skipping", slog.String("id", p.ID))
			continue
		} else if !errors.Is(err, product.ErrNotFound) {
			return errors.Wrapf(err, "check product %s", p.ID)
		}

		if err := repo.Create(ctx, p); err != nil {
			return errors.Wrapf(err, "insert product %s", p.ID)
		}

		slog.Info("inserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

func seedVouchers(ctx context.Context, store *postgres.VoucherStore) error {
	slog.Info("seeding stock vouchers")

	vouchers := []voucher.Voucher{
		{
			Code:          "BLACKFRIDAY",
			Title:         "Black Friday: 20% off entire order",
			DiscountType:  voucher.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(20),
		},
		{
			Code:          "FLAT100",
			Title:         "Flat 100 off",
			DiscountType:  voucher.DiscountFlat,
			DiscountValue: decimal.NewFromInt(100),
		},
	}

	for i := range vouchers {
		v := &vouchers[i]
		err := store.Create(ctx, v)
		switch {
		case errors.Is(err, voucher.ErrExists):
			slog.Info("voucher exists, skipping", slog.String("code", v.Code))
		case err != nil:
			return errors.Wrapf(err, "insert voucher %s", v.Code)
		default:
			slog.Info("inserted voucher", slog.String("code", v.Code))
		}
	}

	return nil
}
