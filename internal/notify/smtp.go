package notify

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/go-faster/errors"
	"github.com/wneessen/go-mail"

	"github.com/ambucrackers/shop-backend/internal/domain/enquiry"
	"github.com/ambucrackers/shop-backend/internal/domain/order"
)

var _ Mailer = (*SMTPMailer)(nil)

// SMTPConfig holds the SMTP connection and sender settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Brand is used in subjects and bodies.
	Brand string
	// Currency is the symbol prefixed to amounts in bodies.
	Currency string
}

// SMTPMailer sends mail through an authenticated SMTP relay.
type SMTPMailer struct {
	client   *mail.Client
	from     string
	brand    string
	currency string
}

// NewSMTPMailer creates an SMTPMailer for the given relay.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create smtp client")
	}

	return &SMTPMailer{
		client:   client,
		from:     cfg.From,
		brand:    cfg.Brand,
		currency: cfg.Currency,
	}, nil
}

// SendOrder emails the order summary, attaching the invoice when given.
func (m *SMTPMailer) SendOrder(ctx context.Context, d Delivery, o *order.Order, invoicePDF []byte) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return errors.Wrap(err, "set from")
	}
	if err := msg.To(d.Recipient); err != nil {
		return errors.Wrap(err, "set recipient")
	}

	if d.CustomerCopy {
		msg.Subject(fmt.Sprintf("Your %s Order #%s", m.brand, o.ID))
		msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
			"<p>Dear %s,</p><p>Thank you for your order of %s%s.</p><p>Your order details are attached as PDF.</p>",
			html.EscapeString(o.CustomerName), m.currency, o.Total.StringFixed(2),
		))
	} else {
		msg.Subject(fmt.Sprintf("New %s Order #%s", m.brand, o.ID))
		msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
			"<p><b>%s</b> placed an order of %s%s. Phone: %s</p>",
			html.EscapeString(o.CustomerName), m.currency, o.Total.StringFixed(2),
			html.EscapeString(o.CustomerPhone),
		))
	}

	if invoicePDF != nil {
		if err := msg.AttachReader("order_"+o.ID+".pdf", bytes.NewReader(invoicePDF)); err != nil {
			return errors.Wrap(err, "attach invoice")
		}
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "send order mail")
	}
	return nil
}

// SendEnquiry emails an enquiry notice.
func (m *SMTPMailer) SendEnquiry(ctx context.Context, recipient string, e *enquiry.Enquiry) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return errors.Wrap(err, "set from")
	}
	if err := msg.To(recipient); err != nil {
		return errors.Wrap(err, "set recipient")
	}

	msg.Subject(fmt.Sprintf("New %s Enquiry", m.brand))
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
		"<p><b>%s</b> submitted an enquiry.<br>Email: %s<br>Phone: %s<br>Message: %s</p>",
		html.EscapeString(e.Name), html.EscapeString(e.Email),
		html.EscapeString(e.Phone), html.EscapeString(e.Message),
	))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Wrap(err, "send enquiry mail")
	}
	return nil
}
