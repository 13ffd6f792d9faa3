// Package invoice lays out order invoices as PDF documents.
package invoice

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	titleSeparator = "---------------"
	totalSeparator = "------"
	currency       = "Rs."
)

// Line is one purchased product on an invoice.
type Line struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Document holds everything printed on an invoice.
type Document struct {
	Lines []Line
	// IssuedAt is written as the PDF creation date, which keeps the output
	// byte-for-byte reproducible for the same order.
	IssuedAt time.Time
}

// Total returns the sum of quantity * unit price over all lines.
func (d Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// FormatMoney renders an amount with the currency prefix and two decimals.
func FormatMoney(amount decimal.Decimal) string {
	return currency + amount.StringFixed(2)
}

// FormatLine renders a product line as "<title> - <qty> * Rs.<price>".
func FormatLine(l Line) string {
	return fmt.Sprintf("%s - %d * %s", l.Title, l.Quantity, FormatMoney(l.UnitPrice))
}

// FormatTotal renders the closing total line.
func FormatTotal(total decimal.Decimal) string {
	return "Total Price: " + FormatMoney(total)
}

type options struct {
	compress bool
}

// Option configures Render.
type Option func(*options)

// WithCompression toggles stream compression. Uncompressed output keeps the
// text searchable in the raw bytes.
func WithCompression(enabled bool) Option {
	return func(o *options) { o.compress = enabled }
}

// Render writes the invoice PDF to w. Pages break automatically when the
// product list overflows.
func Render(w io.Writer, doc Document, opts ...Option) error {
	o := options{compress: true}
	for _, opt := range opts {
		opt(&o)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(o.compress)
	pdf.SetCreationDate(doc.IssuedAt)
	pdf.SetTitle("Invoice", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "U", 26)
	pdf.MultiCell(0, 12, "Invoice", "", "L", false)
	pdf.SetFont("Helvetica", "", 26)
	pdf.MultiCell(0, 12, titleSeparator, "", "L", false)

	pdf.SetTextColor(0, 128, 0)
	pdf.SetFont("Helvetica", "", 17)
	for _, l := range doc.Lines {
		pdf.MultiCell(0, 9, tr(FormatLine(l)), "", "L", false)
	}

	pdf.MultiCell(0, 9, totalSeparator, "", "L", false)
	pdf.MultiCell(0, 9, FormatTotal(doc.Total()), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	return nil
}
