// Package checkout composes pricing, persistence, invoice rendering and
// notification into the end-to-end order submission flow.
package checkout

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ambucrackers/shop-backend/internal/blob"
	"github.com/ambucrackers/shop-backend/internal/domain/enquiry"
	"github.com/ambucrackers/shop-backend/internal/domain/order"
	"github.com/ambucrackers/shop-backend/internal/domain/voucher"
	"github.com/ambucrackers/shop-backend/internal/invoice"
	"github.com/ambucrackers/shop-backend/internal/notify"
	"github.com/ambucrackers/shop-backend/internal/pricing"
)

const defaultNotifyTimeout = 10 * time.Second

// ErrEmptyCart is returned when a checkout carries no items.
var ErrEmptyCart = errors.New("cart must contain at least one item")

// Config holds non-dependency settings for the checkout service.
type Config struct {
	// AdminEmail always receives order and enquiry notifications.
	AdminEmail string
	// NotifyTimeout bounds the whole notification step. Notification
	// failure never fails the checkout.
	NotifyTimeout time.Duration
}

// Service orchestrates order submission. All collaborators are injected;
// the service holds no mutable state and is safe for concurrent use.
type Service struct {
	cfg       Config
	orders    order.Repository
	enquiries enquiry.Repository
	vouchers  *voucher.Resolver
	renderer  *invoice.Renderer
	blobs     blob.Store
	signer    *blob.Signer
	mailer    notify.Mailer
}

// NewService creates the checkout Service.
func NewService(
	cfg Config,
	orders order.Repository,
	enquiries enquiry.Repository,
	vouchers *voucher.Resolver,
	renderer *invoice.Renderer,
	blobs blob.Store,
	signer *blob.Signer,
	mailer notify.Mailer,
) *Service {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	return &Service{
		cfg:       cfg,
		orders:    orders,
		enquiries: enquiries,
		vouchers:  vouchers,
		renderer:  renderer,
		blobs:     blobs,
		signer:    signer,
		mailer:    mailer,
	}
}

// CartItem is a checkout line with the product snapshot already resolved.
type CartItem struct {
	Name     string
	Quantity int
	MRP      decimal.Decimal
	Price    decimal.Decimal
}

// SubmitRequest is the input to Submit.
type SubmitRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Items           []CartItem
	CouponCode      string
}

// SubmitResult is the outcome of a successful checkout.
type SubmitResult struct {
	Order *order.Order
	// Emailed reports whether every attempted notification succeeded.
	Emailed bool
}

// Submit runs the checkout pipeline:
//
//  1. Validate and price the cart; nothing is persisted on failure.
//  2. Resolve the coupon code when present; an unknown code fails the
//     whole checkout.
//  3. Persist the order record. From here the checkout is successful:
//     later step failures degrade the result but never roll it back.
//  4. Render the invoice, store it and attach its URI to the order.
//  5. Notify admin (always) and customer (when an email was given),
//     best-effort under a bounded timeout.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]pricing.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = pricing.Item{
			Name:     it.Name,
			Quantity: it.Quantity,
			MRP:      it.MRP,
			Price:    it.Price,
		}
	}
	// Cart validation fails before coupon resolution and before anything
	// is persisted.
	if err := pricing.Validate(items); err != nil {
		return nil, err
	}

	var (
		v          *voucher.Voucher
		couponCode string
	)
	if req.CouponCode != "" {
		resolved, err := s.vouchers.Resolve(ctx, req.CouponCode)
		if err != nil {
			return nil, errors.Wrap(err, "resolve coupon")
		}
		v = resolved
		couponCode = v.Code
	}

	quote, err := pricing.Price(items, v)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		ID:              uuid.New().String(),
		CreatedAt:       time.Now().UTC(),
		Status:          order.StatusNotEnquired,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Items:           orderItems(req.Items),
		CouponCode:      couponCode,
		Subtotal:        quote.Subtotal,
		Total:           quote.Total,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	// The order is durable. Render and store the invoice; failures here
	// are logged and leave order_pdf unset.
	invoicePDF := s.attachInvoice(ctx, o)

	emailed := s.notifyOrder(ctx, o, invoicePDF)

	return &SubmitResult{Order: o, Emailed: emailed}, nil
}

func (s *Service) attachInvoice(ctx context.Context, o *order.Order) []byte {
	lg := zctx.From(ctx)

	pdf, err := s.renderer.Render(o)
	if err != nil {
		lg.Error("Render invoice", zap.String("order_id", o.ID), zap.Error(err))
		return nil
	}

	key := "orders/" + o.ID + ".pdf"
	if err := s.blobs.Put(ctx, key, pdf); err != nil {
		lg.Error("Store invoice", zap.String("order_id", o.ID), zap.Error(err))
		return pdf
	}

	uri := s.signer.PublicURL(key)
	updated, err := s.orders.AttachInvoiceURI(ctx, o.ID, uri)
	if err != nil {
		lg.Error("Attach invoice URI", zap.String("order_id", o.ID), zap.Error(err))
		return pdf
	}
	*o = *updated
	return pdf
}

func (s *Service) notifyOrder(ctx context.Context, o *order.Order, invoicePDF []byte) bool {
	lg := zctx.From(ctx)

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()

	// A plain group: the sends are independent, one failing must not
	// cancel the other mid-flight.
	var g errgroup.Group
	g.Go(func() error {
		return s.mailer.SendOrder(notifyCtx, notify.Delivery{Recipient: s.cfg.AdminEmail}, o, invoicePDF)
	})
	if o.CustomerEmail != "" {
		g.Go(func() error {
			d := notify.Delivery{Recipient: o.CustomerEmail, CustomerCopy: true}
			return s.mailer.SendOrder(notifyCtx, d, o, invoicePDF)
		})
	}

	if err := g.Wait(); err != nil {
		lg.Warn("Order notification failed", zap.String("order_id", o.ID), zap.Error(err))
		return false
	}
	return true
}

// SubmitEnquiry persists an enquiry and emails the admin best-effort.
func (s *Service) SubmitEnquiry(ctx context.Context, e *enquiry.Enquiry) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()

	if err := s.enquiries.Create(ctx, e); err != nil {
		return errors.Wrap(err, "create enquiry")
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()
	if err := s.mailer.SendEnquiry(notifyCtx, s.cfg.AdminEmail, e); err != nil {
		zctx.From(ctx).Warn("Enquiry notification failed", zap.String("enquiry_id", e.ID), zap.Error(err))
	}
	return nil
}

func orderItems(items []CartItem) []order.Item {
	out := make([]order.Item, len(items))
	for i, it := range items {
		out[i] = order.Item{
			Name:     it.Name,
			Quantity: it.Quantity,
			MRP:      it.MRP,
			Price:    it.Price,
		}
	}
	return out
}
