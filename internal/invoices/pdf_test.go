package invoices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	inv := &Invoice{
		ID:            1,
		InvoiceNumber: "INV-001",
		CustomerName:  "Dana Whitfield",
		BillTo:        "Dana Whitfield\n12 Alder Lane",
		ShipTo:        "12 Alder Lane",
		InvoiceDate:   &date,
		Items: []LineItem{
			{Description: "Spring cleanup", Quantity: 2, Rate: "10.00"},
			{Description: "Hedge trim", Quantity: 1, Rate: "5.50"},
		},
		Subtotal:      25.50,
		TaxValue:      20,
		TaxType:       AdjustPercentage,
		DiscountValue: 3,
		DiscountType:  AdjustFixed,
		Shipping:      2,
		Total:         29.60,
		BalanceDue:    29.60,
		Status:        StatusPending,
		Notes:         "Thanks for your business.",
	}

	renderer := NewPDFRenderer("Verdant Field Services")
	pdf, err := renderer.Render(inv)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	require.Equal(t, "%PDF", string(pdf[:4]))
}

// The printed tax and discount must follow the stored subtotal, not a fresh
// recomputation over the items, so a record whose items and totals disagree
// still renders one consistent set of numbers.
func TestAdjustmentAmountsDeriveFromStoredSubtotal(t *testing.T) {
	inv := &Invoice{
		Items: []LineItem{
			{Description: "Stale row", Quantity: 1, Rate: "1.00"},
		},
		Subtotal:      100,
		TaxValue:      10,
		TaxType:       AdjustPercentage,
		DiscountValue: 5,
		DiscountType:  AdjustPercentage,
	}

	require.InDelta(t, 10, inv.taxAmount(), 0.001)
	require.InDelta(t, 5, inv.discountAmount(), 0.001)

	inv.TaxType = AdjustFixed
	inv.DiscountType = AdjustFixed
	require.InDelta(t, 10, inv.taxAmount(), 0.001)
	require.InDelta(t, 5, inv.discountAmount(), 0.001)
}
