package invoices

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputePercentageTaxFixedDiscount(t *testing.T) {
	items := []LineItem{
		{Description: "Mulching", Quantity: 2, Rate: "10.00"},
		{Description: "Edging", Quantity: 1, Rate: "5.50"},
	}
	totals := Compute(items, Adjustments{
		TaxValue:      20,
		TaxType:       AdjustPercentage,
		DiscountValue: 3,
		DiscountType:  AdjustFixed,
		Shipping:      2,
	})

	require.InDelta(t, 25.50, totals.Subtotal, 0.001)
	require.InDelta(t, 5.10, totals.TaxAmount, 0.001)
	require.InDelta(t, 3.00, totals.DiscountAmount, 0.001)
	require.InDelta(t, 29.60, totals.Total, 0.001)
	require.InDelta(t, 29.60, totals.BalanceDue, 0.001)
}

func TestComputeAmountPaidReducesBalance(t *testing.T) {
	items := []LineItem{
		{Quantity: 2, Rate: "10.00"},
		{Quantity: 1, Rate: "5.50"},
	}
	totals := Compute(items, Adjustments{
		TaxValue:      20,
		TaxType:       AdjustPercentage,
		DiscountValue: 3,
		DiscountType:  AdjustFixed,
		Shipping:      2,
		AmountPaid:    "29.60",
	})

	require.InDelta(t, 0, totals.BalanceDue, 0.001)
}

func TestComputeFixedTaxPercentageDiscount(t *testing.T) {
	items := []LineItem{{Quantity: 4, Rate: "25"}}
	totals := Compute(items, Adjustments{
		TaxValue:      5,
		TaxType:       AdjustFixed,
		DiscountValue: 10,
		DiscountType:  AdjustPercentage,
	})

	require.InDelta(t, 100, totals.Subtotal, 0.001)
	require.InDelta(t, 5, totals.TaxAmount, 0.001)
	require.InDelta(t, 10, totals.DiscountAmount, 0.001)
	require.InDelta(t, 95, totals.Total, 0.001)
}

func TestComputeMalformedRateContributesZero(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, Rate: "abc"},
		{Quantity: 2, Rate: ""},
		{Quantity: 1, Rate: "NaN"},
		{Quantity: 1, Rate: "7.25"},
	}
	totals := Compute(items, Adjustments{TaxType: AdjustPercentage})

	require.InDelta(t, 7.25, totals.Subtotal, 0.001)
}

func TestComputeEmptyItems(t *testing.T) {
	totals := Compute(nil, Adjustments{
		TaxValue: 10,
		TaxType:  AdjustPercentage,
		Shipping: 4,
	})

	require.Zero(t, totals.Subtotal)
	require.Zero(t, totals.TaxAmount)
	require.InDelta(t, 4, totals.Total, 0.001)
}

func TestParseAmount(t *testing.T) {
	require.InDelta(t, 12.5, ParseAmount("12.5"), 0.001)
	require.Zero(t, ParseAmount("garbage"))
	require.Zero(t, ParseAmount(""))
	require.Zero(t, ParseAmount("NaN"))
	require.Zero(t, ParseAmount("+Inf"))
}

func TestRound2(t *testing.T) {
	require.Equal(t, 29.6, Round2(29.6000000001))
	require.Equal(t, 0.1, Round2(0.10499))
	require.Equal(t, -2.35, Round2(-2.345000001))
}
