// Package invoice renders a priced order as a fixed-layout, paginated PDF.
//
// Render is a pure function of the order record: no I/O, no randomness, and
// the document's creation date is pinned to the order's created_at, so the
// same order always renders to byte-identical output.
package invoice

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/ambucrackers/shop-backend/internal/domain/order"
)

// Layout constants, in points on an A4 portrait page. The column positions
// and break threshold match the historical invoice layout and must not
// drift: existing invoices are compared against renders of the same record.
const (
	leftMargin  = 40.0
	rightEdge   = 550.0
	topStart    = 40.0
	contTop     = 60.0
	rowStep     = 14.0
	breakMargin = 120.0

	qtyCol    = 330.0
	mrpCol    = 400.0
	priceCol  = 480.0
	amountCol = 550.0

	maxNameWidth = 38
)

const placeholder = "N/A"

// Config holds renderer presentation settings.
type Config struct {
	// Brand is the shop name shown in the invoice title.
	Brand string
	// Currency is the symbol prefixed to every amount.
	Currency string
}

// Renderer renders orders into invoice PDFs.
type Renderer struct {
	brand    string
	currency string
}

// NewRenderer creates a Renderer with the given presentation config.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{
		brand:    cfg.Brand,
		currency: cfg.Currency,
	}
}

// Render produces the invoice PDF for the order.
func (r *Renderer) Render(o *order.Order) ([]byte, error) {
	doc := r.build(o)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "write pdf")
	}
	return buf.Bytes(), nil
}

// build lays out the document. Split from Render so tests can inspect page
// counts without parsing PDF bytes.
func (r *Renderer) build(o *order.Order) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	created := o.CreatedAt.UTC()
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	y := topStart

	// Header: title and order id, first page only.
	pdf.SetFont("Helvetica", "B", 16)
	r.text(pdf, leftMargin, y, r.brand+" Invoice #"+orPlaceholder(o.ID))
	y += 22

	// Customer block. Missing optional fields render as a placeholder,
	// never a blank.
	pdf.SetFont("Helvetica", "", 10)
	r.text(pdf, leftMargin, y, "Name: "+orPlaceholder(o.CustomerName))
	y += rowStep
	r.text(pdf, leftMargin, y, "Email: "+orPlaceholder(o.CustomerEmail)+"  Phone: "+orPlaceholder(o.CustomerPhone))
	y += rowStep
	r.text(pdf, leftMargin, y, "Address: "+orPlaceholder(o.CustomerAddress))
	y += 20

	// Line item table header.
	pdf.SetFont("Helvetica", "B", 11)
	r.text(pdf, leftMargin, y, "Product")
	r.text(pdf, 300, y, "Qty")
	r.text(pdf, 350, y, "MRP")
	r.text(pdf, 430, y, "Unit Price")
	r.text(pdf, 510, y, "Amount")
	y += 12
	pdf.Line(leftMargin, y, rightEdge, y)
	y += rowStep

	// Rows, in record order. A row is placed whole or moved to the next
	// page; continuation pages carry rows only.
	pdf.SetFont("Helvetica", "", 10)
	subtotal := decimal.Zero
	for _, item := range o.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		amount := item.Price.Mul(qty)
		subtotal = subtotal.Add(amount)

		r.text(pdf, leftMargin, y, truncate(orPlaceholder(item.Name), maxNameWidth))
		r.rightText(pdf, qtyCol, y, qty.String())
		r.rightText(pdf, mrpCol, y, r.amount(item.MRP))
		r.rightText(pdf, priceCol, y, r.amount(item.Price))
		r.rightText(pdf, amountCol, y, r.amount(amount))
		y += rowStep

		if y > pageH-breakMargin {
			pdf.AddPage()
			y = contTop
		}
	}

	// Totals block, always after the last row.
	y += 6
	pdf.Line(leftMargin, y, rightEdge, y)
	y += 18

	pdf.SetFont("Helvetica", "", 11)
	r.rightText(pdf, priceCol, y, "Subtotal:")
	r.rightText(pdf, amountCol, y, r.amount(subtotal))
	y += 16

	// The stored total is authoritative: it is what was charged, even if
	// voucher rules changed since. Never recompute it here.
	total := o.Total
	discounted := total.LessThan(subtotal)
	if discounted {
		saved := subtotal.Sub(total)
		pct := saved.Mul(decimal.NewFromInt(100)).Div(subtotal).Round(0)

		pdf.SetFont("Helvetica", "", 10)
		r.rightText(pdf, priceCol, y, "Discount ("+pct.String()+"% off):")
		r.rightText(pdf, amountCol, y, "-"+r.amount(saved))
		y += 16

		if o.CouponCode != "" {
			pdf.SetFont("Helvetica", "", 9)
			r.rightText(pdf, priceCol, y, "Coupon: "+o.CouponCode)
			y += rowStep
		}
	}

	pdf.SetFont("Helvetica", "B", 12)
	r.rightText(pdf, priceCol, y, "Total:")
	r.rightText(pdf, amountCol, y, r.amount(total))

	if discounted {
		y += 20
		pdf.SetFont("Helvetica", "", 9)
		r.text(pdf, leftMargin, y, "You saved "+r.amount(subtotal.Sub(total))+" with your coupon!")
	}

	return pdf
}

func (r *Renderer) text(pdf *fpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x, y, s)
}

func (r *Renderer) rightText(pdf *fpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

func (r *Renderer) amount(d decimal.Decimal) string {
	return r.currency + d.StringFixed(2)
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
