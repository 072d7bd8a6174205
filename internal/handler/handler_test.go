package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambucrackers/shop-backend/internal/blob"
	"github.com/ambucrackers/shop-backend/internal/checkout"
	"github.com/ambucrackers/shop-backend/internal/domain/auth"
	"github.com/ambucrackers/shop-backend/internal/domain/enquiry"
	"github.com/ambucrackers/shop-backend/internal/domain/order"
	"github.com/ambucrackers/shop-backend/internal/domain/product"
	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
	"github.com/ambucrackers/shop-backend/internal/invoice"
	"github.com/ambucrackers/shop-backend/internal/notify"
)

// In-memory fakes. They implement the persistence ports with maps, no
// concurrency; each test gets its own instances.

type memProducts struct {
	items map[string]product.Product
	order []string
}

func newMemProducts() *memProducts {
	return &memProducts{items: make(map[string]product.Product)}
}

func (m *memProducts) List(_ context.Context, category string) ([]product.Product, error) {
	var out []product.Product
	for i := len(m.order) - 1; i >= 0; i-- {
		p := m.items[m.order[i]]
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) Create(_ context.Context, p *product.Product) error {
	p.CreatedAt = time.Now().UTC()
	m.items[p.ID] = *p
	m.order = append(m.order, p.ID)
	return nil
}

func (m *memProducts) Update(_ context.Context, id string, patch product.Patch) (*product.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.MRP != nil {
		p.MRP = *patch.MRP
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	m.items[id] = p
	return &p, nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return product.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type memVouchers struct {
	items map[string]voucher.Voucher
}

func newMemVouchers() *memVouchers {
	return &memVouchers{items: make(map[string]voucher.Voucher)}
}

func (m *memVouchers) FindByCode(_ context.Context, code string) (*voucher.Voucher, error) {
	v, ok := m.items[code]
	if !ok {
		return nil, voucher.ErrNotFound
	}
	return &v, nil
}

func (m *memVouchers) Create(_ context.Context, v *voucher.Voucher) error {
	if _, ok := m.items[v.Code]; ok {
		return voucher.ErrExists
	}
	v.CreatedAt = time.Now().UTC()
	m.items[v.Code] = *v
	return nil
}

func (m *memVouchers) Delete(_ context.Context, code string) error {
	if _, ok := m.items[code]; !ok {
		return voucher.ErrNotFound
	}
	delete(m.items, code)
	return nil
}

func (m *memVouchers) List(context.Context) ([]voucher.Voucher, error) {
	out := make([]voucher.Voucher, 0, len(m.items))
	for _, v := range m.items {
		out = append(out, v)
	}
	return out, nil
}

type memOrders struct {
	items map[string]order.Order
}

func newMemOrders() *memOrders {
	return &memOrders{items: make(map[string]order.Order)}
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	if _, ok := m.items[o.ID]; ok {
		return order.ErrDuplicate
	}
	m.items[o.ID] = *o
	return nil
}

func (m *memOrders) Get(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.items[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return &o, nil
}

func (m *memOrders) List(context.Context) ([]order.Order, error) {
	out := make([]order.Order, 0, len(m.items))
	for _, o := range m.items {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, status order.Status) (*order.Order, error) {
	if !status.Valid() {
		return nil, &order.InvalidStatusError{Status: status}
	}
	o, ok := m.items[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	o.Status = status
	m.items[id] = o
	return &o, nil
}

func (m *memOrders) AttachInvoiceURI(_ context.Context, id, uri string) (*order.Order, error) {
	o, ok := m.items[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	o.InvoiceURI = uri
	m.items[id] = o
	return &o, nil
}

type memEnquiries struct {
	items []enquiry.Enquiry
}

func (m *memEnquiries) Create(_ context.Context, e *enquiry.Enquiry) error {
	m.items = append(m.items, *e)
	return nil
}

type memBlobs struct {
	items map[string][]byte
}

func newMemBlobs() *memBlobs {
	return &memBlobs{items: make(map[string][]byte)}
}

func (m *memBlobs) Put(_ context.Context, key string, data []byte) error {
	if !blob.ValidKey(key) {
		return blob.ErrInvalidKey
	}
	m.items[key] = data
	return nil
}

func (m *memBlobs) Open(_ context.Context, key string) ([]byte, error) {
	if !blob.ValidKey(key) {
		return nil, blob.ErrInvalidKey
	}
	data, ok := m.items[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return data, nil
}

var testAuthSecret = []byte("handler-test-secret")

type fixture struct {
	api       http.Handler
	products  *memProducts
	vouchers  *memVouchers
	orders    *memOrders
	enquiries *memEnquiries
	blobs     *memBlobs
	signer    *blob.Signer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		products:  newMemProducts(),
		vouchers:  newMemVouchers(),
		orders:    newMemOrders(),
		enquiries: &memEnquiries{},
		blobs:     newMemBlobs(),
		signer:    blob.NewSigner([]byte("file-secret"), "/api/files"),
	}

	resolver := voucher.NewResolver(f.vouchers)
	svc := checkout.NewService(
		checkout.Config{AdminEmail: "admin@example.com"},
		f.orders,
		f.enquiries,
		resolver,
		invoice.NewRenderer(invoice.Config{Brand: "AmbuCrackers", Currency: "Rs."}),
		f.blobs,
		f.signer,
		notify.Nop{},
	)

	h := New(
		Config{PriceListKey: "price-list.pdf"},
		f.products,
		f.vouchers,
		resolver,
		f.orders,
		svc,
		f.blobs,
		f.signer,
		auth.NewTokenVerifier(testAuthSecret),
	)
	f.api = h.Routes()
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.api.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.SignToken(testAuthSecret, auth.Identity{UID: "admin", Email: "admin@example.com", Admin: true}, time.Hour)
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T) string {
	t.Helper()
	token, err := auth.SignToken(testAuthSecret, auth.Identity{UID: "u1", Email: "u1@example.com"}, time.Hour)
	require.NoError(t, err)
	return token
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func seedProduct(t *testing.T, f *fixture, name, category, price string) product.Product {
	t.Helper()
	p := product.Product{
		ID:       "prod-" + name,
		Name:     name,
		MRP:      decimal.RequireFromString(price),
		Price:    decimal.RequireFromString(price),
		Category: category,
		IsActive: true,
	}
	require.NoError(t, f.products.Create(context.Background(), &p))
	return p
}

func TestListProducts(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f, "Sparklers", "sparklers", "140")
	seedProduct(t, f, "Rocket", "rockets", "90")

	w := f.do(t, http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeJSON[[]product.Product](t, w)
	assert.Len(t, all, 2)

	w = f.do(t, http.MethodGet, "/products?category=rockets", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	rockets := decodeJSON[[]product.Product](t, w)
	require.Len(t, rockets, 1)
	assert.Equal(t, "Rocket", rockets[0].Name)
}

func TestListProducts_EmptyIsArray(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestQuickCheckout(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/orders/quick-checkout", map[string]any{
		"customer_name": "Asha",
		"items": []map[string]any{
			{"name": "Sparklers", "quantity": 2, "mrp": "140", "price": "140"},
		},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeJSON[map[string]any](t, w)
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["order_id"])
	assert.Equal(t, "280", resp["total"])

	orderID := resp["order_id"].(string)
	assert.Equal(t, "/api/files/orders/"+orderID+".pdf", resp["order_pdf"])

	// The invoice landed in the blob store.
	_, err := f.blobs.Open(context.Background(), "orders/"+orderID+".pdf")
	assert.NoError(t, err)
}

func TestQuickCheckout_WithCoupon(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.vouchers.Create(context.Background(), &voucher.Voucher{
		Code:          "FLAT100",
		DiscountType:  voucher.DiscountFlat,
		DiscountValue: decimal.NewFromInt(100),
	}))

	w := f.do(t, http.MethodPost, "/orders/quick-checkout", map[string]any{
		"customer_name": "Asha",
		"coupon_code":   "flat100",
		"items": []map[string]any{
			{"name": "Sparklers", "quantity": 2, "mrp": "140", "price": "140"},
		},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeJSON[map[string]any](t, w)
	assert.Equal(t, "180", resp["total"])
}

func TestQuickCheckout_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing customer name",
			body:     map[string]any{"items": []map[string]any{{"name": "A", "quantity": 1, "price": "10"}}},
			wantCode: http.StatusBadRequest,
			wantErr:  "customer_name",
		},
		{
			name:     "empty cart",
			body:     map[string]any{"customer_name": "Asha"},
			wantCode: http.StatusBadRequest,
			wantErr:  "cart",
		},
		{
			name: "zero quantity",
			body: map[string]any{
				"customer_name": "Asha",
				"items":         []map[string]any{{"name": "A", "quantity": 0, "price": "10"}},
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "quantity",
		},
		{
			name: "unknown coupon",
			body: map[string]any{
				"customer_name": "Asha",
				"coupon_code":   "BOGUS",
				"items":         []map[string]any{{"name": "A", "quantity": 1, "price": "10"}},
			},
			wantCode: http.StatusNotFound,
			wantErr:  "coupon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/orders/quick-checkout", tt.body, "")
			assert.Equal(t, tt.wantCode, w.Code)

			resp := decodeJSON[errorResponse](t, w)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.wantErr)
		})
	}
}

func TestApplyCoupon(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.vouchers.Create(context.Background(), &voucher.Voucher{
		Code:          "BLACKFRIDAY",
		DiscountType:  voucher.DiscountPercentage,
		DiscountValue: decimal.NewFromInt(20),
	}))

	w := f.do(t, http.MethodGet, "/orders/apply-coupon?code=blackfriday", map[string]any{"amount": "280"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeJSON[map[string]any](t, w)
	assert.Equal(t, true, resp["valid"])
	assert.Equal(t, "224", resp["revised_amount"])
}

func TestApplyCoupon_NoBodyDefaultsAmountToZero(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.vouchers.Create(context.Background(), &voucher.Voucher{
		Code:          "FLAT100",
		DiscountType:  voucher.DiscountFlat,
		DiscountValue: decimal.NewFromInt(100),
	}))

	w := f.do(t, http.MethodGet, "/orders/apply-coupon?code=FLAT100", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeJSON[map[string]any](t, w)
	assert.Equal(t, true, resp["valid"])
	assert.Equal(t, "0", resp["revised_amount"])
}

func TestApplyCoupon_UnknownCode(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/orders/apply-coupon?code=BOGUS", map[string]any{"amount": "280"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[map[string]any](t, w)
	assert.Equal(t, false, resp["valid"])
	assert.Equal(t, "Invalid coupon code", resp["error"])
}

func TestApplyCoupon_MissingCode(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/orders/apply-coupon", map[string]any{"amount": "280"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitEnquiry(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/enquiry", map[string]any{
		"name":    "Asha",
		"email":   "asha@example.com",
		"message": "Do you ship to Chennai?",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, f.enquiries.items, 1)
	assert.Equal(t, "Asha", f.enquiries.items[0].Name)
}

func TestSubmitEnquiry_Validation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/enquiry", map[string]any{"email": "x@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Non-admin credentials are authenticated but not allowed here.
	w = f.do(t, http.MethodGet, "/me", nil, userToken(t))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/me", nil, adminToken(t))
	require.Equal(t, http.StatusOK, w.Code)
	id := decodeJSON[auth.Identity](t, w)
	assert.Equal(t, "admin", id.UID)
	assert.True(t, id.Admin)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	f := newFixture(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/admin/orders"},
		{http.MethodPost, "/admin/products"},
		{http.MethodGet, "/vouchers"},
	}

	for _, p := range paths {
		w := f.do(t, p.method, p.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s without token", p.method, p.path)

		w = f.do(t, p.method, p.path, nil, userToken(t))
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s with non-admin token", p.method, p.path)
	}
}

func TestAdminProducts_CRUD(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t)

	w := f.do(t, http.MethodPost, "/admin/products", map[string]any{
		"name":     "Flower Pot",
		"price":    "55",
		"mrp":      "70",
		"category": "ground",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[product.Product](t, w)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	w = f.do(t, http.MethodPut, "/admin/products/"+created.ID, map[string]any{"price": "60"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeJSON[product.Product](t, w)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "Flower Pot", updated.Name)

	w = f.do(t, http.MethodPut, "/admin/products/"+created.ID, map[string]any{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty patch must be rejected")

	w = f.do(t, http.MethodDelete, "/admin/products/"+created.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodDelete, "/admin/products/"+created.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminProducts_CreateValidation(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t)

	w := f.do(t, http.MethodPost, "/admin/products", map[string]any{"price": "10"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/admin/products", map[string]any{"name": "X", "price": "-1"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminOrders(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t)

	// Create an order through the public endpoint.
	w := f.do(t, http.MethodPost, "/orders/quick-checkout", map[string]any{
		"customer_name": "Asha",
		"items":         []map[string]any{{"name": "A", "quantity": 1, "price": "10"}},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := decodeJSON[map[string]any](t, w)["order_id"].(string)

	w = f.do(t, http.MethodGet, "/admin/orders", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decodeJSON[[]order.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, order.StatusNotEnquired, orders[0].Status)

	w = f.do(t, http.MethodPatch, "/admin/orders/"+orderID+"/status", map[string]any{"status": "DELIVERED"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeJSON[order.Order](t, w)
	assert.Equal(t, order.StatusDelivered, updated.Status)

	w = f.do(t, http.MethodPatch, "/admin/orders/"+orderID+"/status", map[string]any{"status": "SHIPPED"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown status must be rejected")

	w = f.do(t, http.MethodPatch, "/admin/orders/missing/status", map[string]any{"status": "DELIVERED"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVouchers_CRUD(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t)

	w := f.do(t, http.MethodPost, "/vouchers", map[string]any{
		"code":           " diwali25 ",
		"title":          "Diwali special",
		"discount_type":  "percentage",
		"discount_value": "25",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeJSON[voucher.Voucher](t, w)
	assert.Equal(t, "DIWALI25", created.Code)

	// A duplicate code conflicts.
	w = f.do(t, http.MethodPost, "/vouchers", map[string]any{
		"code":           "DIWALI25",
		"discount_type":  "percentage",
		"discount_value": "10",
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodGet, "/vouchers", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeJSON[[]voucher.Voucher](t, w), 1)

	w = f.do(t, http.MethodDelete, "/vouchers/diwali25", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodDelete, "/vouchers/DIWALI25", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVouchers_CreateValidation(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing code", map[string]any{"discount_type": "percentage", "discount_value": "10"}},
		{"unknown type", map[string]any{"code": "X", "discount_type": "bogo", "discount_value": "10"}},
		{"percentage over 100", map[string]any{"code": "X", "discount_type": "percentage", "discount_value": "150"}},
		{"zero value", map[string]any{"code": "X", "discount_type": "flat", "discount_value": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPost, "/vouchers", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestPriceListURL(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/price-list-url", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeJSON[map[string]string](t, w)
	assert.Contains(t, resp["url"], "/api/files/price-list.pdf?")
	assert.Contains(t, resp["url"], "sig=")
}

func TestServeFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.blobs.Put(ctx, "products/img.png", []byte("png-bytes")))
	require.NoError(t, f.blobs.Put(ctx, "orders/ord-1.pdf", []byte("pdf-bytes")))

	t.Run("product images are public", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/files/products/img.png", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "png-bytes", w.Body.String())
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})

	t.Run("invoices need a signature", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/files/orders/ord-1.pdf", nil, "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("signed URL opens an invoice", func(t *testing.T) {
		url := f.signer.SignedURL("orders/ord-1.pdf", time.Hour, time.Now())
		path := strings.TrimPrefix(url, "/api")

		w := f.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "pdf-bytes", w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	})

	t.Run("admins bypass the signature", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/files/orders/ord-1.pdf", nil, adminToken(t))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing public file is 404", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/files/products/missing.png", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadImage(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t)

	body := &bytes.Buffer{}
	contentType := newMultipart(t, body, "file", "rocket photo.png", []byte("png-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-url", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.api.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeJSON[map[string]string](t, w)
	assert.True(t, strings.HasPrefix(resp["public_url"], "/api/files/products/"))
	assert.True(t, strings.HasSuffix(resp["public_url"], "-rocket_photo.png"))

	// The stored key matches the returned URL.
	key := strings.TrimPrefix(resp["public_url"], "/api/files/")
	data, err := f.blobs.Open(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

// newMultipart writes a single-file multipart body and returns its
// Content-Type header value.
func newMultipart(t *testing.T, buf *bytes.Buffer, field, filename string, data []byte) string {
	t.Helper()
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return mw.FormDataContentType()
}

func TestUploadImage_NoFile(t *testing.T) {
	f := newFixture(t)

	body := &bytes.Buffer{}
	contentType := newMultipart(t, body, "other", "x.png", []byte("x"))

	req := httptest.NewRequest(http.MethodPost, "/admin/upload-url", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken(t))
	w := httptest.NewRecorder()
	f.api.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
