// Package handler exposes the HTTP API.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ambucrackers/shop-backend/internal/blob"
	"github.com/ambucrackers/shop-backend/internal/checkout"
	"github.com/ambucrackers/shop-backend/internal/domain/auth"
	"github.com/ambucrackers/shop-backend/internal/domain/order"
	"github.com/ambucrackers/shop-backend/internal/domain/product"
	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
)

// Config holds non-dependency settings for the Handler.
type Config struct {
	// PriceListKey is the blob key of the downloadable price list.
	PriceListKey string
	// PriceListTTL bounds the validity of issued price list URLs.
	PriceListTTL time.Duration
	// MaxUploadBytes caps multipart image uploads.
	MaxUploadBytes int64
}

// Handler serves the public shop API and the admin surface, delegating
// business logic to the injected ports and the checkout service.
type Handler struct {
	cfg      Config
	products product.Repository
	vouchers voucher.Store
	resolver *voucher.Resolver
	orders   order.Repository
	checkout *checkout.Service
	blobs    blob.Store
	signer   *blob.Signer
	verifier auth.Verifier
}

// New constructs a Handler.
func New(
	cfg Config,
	products product.Repository,
	vouchers voucher.Store,
	resolver *voucher.Resolver,
	orders order.Repository,
	checkoutSvc *checkout.Service,
	blobs blob.Store,
	signer *blob.Signer,
	verifier auth.Verifier,
) *Handler {
	if cfg.PriceListTTL <= 0 {
		cfg.PriceListTTL = time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		cfg:      cfg,
		products: products,
		vouchers: vouchers,
		resolver: resolver,
		orders:   orders,
		checkout: checkoutSvc,
		blobs:    blobs,
		signer:   signer,
		verifier: verifier,
	}
}

// Routes returns the API router. Callers mount it under the API prefix.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(h.withIdentity)

	// Public surface.
	r.Get("/products", h.listProducts)
	r.Get("/price-list-url", h.priceListURL)
	r.Get("/orders/apply-coupon", h.applyCoupon)
	r.Post("/orders/quick-checkout", h.quickCheckout)
	r.Post("/enquiry", h.submitEnquiry)
	r.Get("/files/*", h.serveFile)

	// Admin surface. The order routes were historically reachable without
	// a credential; they are admin-only now.
	r.Group(func(r chi.Router) {
		r.Use(h.requireAdmin)

		r.Get("/me", h.me)

		r.Post("/admin/upload-url", h.uploadImage)
		r.Post("/admin/products", h.createProduct)
		r.Put("/admin/products/{id}", h.updateProduct)
		r.Delete("/admin/products/{id}", h.deleteProduct)

		r.Get("/admin/orders", h.listOrders)
		r.Patch("/admin/orders/{id}/status", h.updateOrderStatus)

		r.Get("/vouchers", h.listVouchers)
		r.Post("/vouchers", h.createVoucher)
		r.Delete("/vouchers/{code}", h.deleteVoucher)
	})

	return r
}
