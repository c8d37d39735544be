package invoices

import (
	"math"
	"strconv"
)

// Totals holds the derived monetary fields of an invoice.
type Totals struct {
	Subtotal       float64
	TaxAmount      float64
	DiscountAmount float64
	Total          float64
	BalanceDue     float64
}

// Adjustments collects the numeric settings applied on top of the subtotal.
// A discount or shipping input hidden on the form arrives here as zero,
// which resets the corresponding contribution.
type Adjustments struct {
	TaxValue      float64
	TaxType       AdjustmentType
	DiscountValue float64
	DiscountType  AdjustmentType
	Shipping      float64
	AmountPaid    string
}

// ParseAmount parses a monetary string the way the invoice form does:
// unparseable input degrades to zero instead of failing.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Amount is the derived line total, quantity times parsed rate.
func (li LineItem) Amount() float64 {
	return li.Quantity * ParseAmount(li.Rate)
}

// Compute derives all invoice totals from line items and adjustments.
// Pure function, no error conditions: malformed numeric input contributes
// zero rather than aborting the recomputation.
func Compute(items []LineItem, adj Adjustments) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount()
	}

	taxAmount := adj.TaxValue
	if adj.TaxType == AdjustPercentage {
		taxAmount = subtotal * adj.TaxValue / 100
	}

	discountAmount := adj.DiscountValue
	if adj.DiscountType == AdjustPercentage {
		discountAmount = subtotal * adj.DiscountValue / 100
	}

	total := subtotal + taxAmount - discountAmount + adj.Shipping
	balanceDue := total - ParseAmount(adj.AmountPaid)

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		DiscountAmount: discountAmount,
		Total:          total,
		BalanceDue:     balanceDue,
	}
}

// Round2 rounds a monetary value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
