package invoice_test

import (
	"bytes"
	"testing"
	"time"

	"storefront/pkg/invoice"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() invoice.Document {
	return invoice.Document{
		Lines: []invoice.Line{
			{Title: "Widget", Quantity: 3, UnitPrice: decimal.RequireFromString("9.99")},
			{Title: "Gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("20")},
		},
		IssuedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"money with cents", invoice.FormatMoney(decimal.RequireFromString("9.99")), "Rs.9.99"},
		{"money whole", invoice.FormatMoney(decimal.RequireFromString("20")), "Rs.20.00"},
		{"money rounds", invoice.FormatMoney(decimal.RequireFromString("1.005")), "Rs.1.01"},
		{"line", invoice.FormatLine(invoice.Line{Title: "Widget", Quantity: 3, UnitPrice: decimal.RequireFromString("9.99")}), "Widget - 3 * Rs.9.99"},
		{"total", invoice.FormatTotal(decimal.RequireFromString("29.97")), "Total Price: Rs.29.97"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestDocument_Total(t *testing.T) {
	assert.Equal(t, "49.97", sampleDocument().Total().StringFixed(2))
	assert.True(t, invoice.Document{}.Total().IsZero())
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, invoice.Render(&buf, sampleDocument(), invoice.WithCompression(false)))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "(Invoice)")
	assert.Contains(t, string(out), "(---------------)")
	assert.Contains(t, string(out), "(Widget - 3 * Rs.9.99)")
	assert.Contains(t, string(out), "(Gadget - 1 * Rs.20.00)")
	assert.Contains(t, string(out), "(------)")
	assert.Contains(t, string(out), "(Total Price: Rs.49.97)")

	widget := bytes.Index(out, []byte("Widget - 3"))
	gadget := bytes.Index(out, []byte("Gadget - 1"))
	assert.Less(t, widget, gadget)
}

func TestRender_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, invoice.Render(&first, sampleDocument()))
	require.NoError(t, invoice.Render(&second, sampleDocument()))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestRender_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, invoice.Render(&buf, invoice.Document{IssuedAt: time.Unix(0, 0)}, invoice.WithCompression(false)))
	assert.Contains(t, buf.String(), "(Total Price: Rs.0.00)")
}
