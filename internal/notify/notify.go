// Package notify delivers order and enquiry notifications by email.
//
// Delivery is best-effort: callers bound every send with a timeout and
// report failures in their response instead of failing the operation.
package notify

import (
	"context"

	"github.com/ambucrackers/shop-backend/internal/domain/enquiry"
	"github.com/ambucrackers/shop-backend/internal/domain/order"
)

// Delivery addresses a single outgoing message. The flag selects the
// customer-facing wording over the internal admin wording.
type Delivery struct {
	Recipient    string
	CustomerCopy bool
}

// Mailer sends order confirmations and enquiry notices.
type Mailer interface {
	// SendOrder emails the order summary with the invoice PDF attached.
	// A nil invoicePDF sends the summary without an attachment.
	SendOrder(ctx context.Context, d Delivery, o *order.Order, invoicePDF []byte) error
	// SendEnquiry emails an enquiry notice to the given recipient.
	SendEnquiry(ctx context.Context, recipient string, e *enquiry.Enquiry) error
}

// Nop is a Mailer that silently drops everything. Used when SMTP is not
// configured.
type Nop struct{}

func (Nop) SendOrder(context.Context, Delivery, *order.Order, []byte) error {
	return nil
}

func (Nop) SendEnquiry(context.Context, string, *enquiry.Enquiry) error {
	return nil
}
