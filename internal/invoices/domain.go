package invoices

import (
	"fmt"
	"time"
)

// Status enumerates invoice statuses. Transitions between states are
// unconstrained; any status may be set through Update.
type Status string

const (
	StatusPending Status = "pending"
	StatusUnpaid  Status = "unpaid"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusUnpaid, StatusPaid, StatusOverdue:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("invoices: unknown status %q", raw)
	}
}

// AdjustmentType selects whether a tax or discount value is applied as a
// percentage of the subtotal or as a fixed amount.
type AdjustmentType string

const (
	AdjustPercentage AdjustmentType = "percentage"
	AdjustFixed      AdjustmentType = "fixed"
)

// Valid reports whether the adjustment type belongs to the closed pair.
func (t AdjustmentType) Valid() bool {
	return t == AdjustPercentage || t == AdjustFixed
}

// LineItem is one billable row within an invoice. Rate is carried as a
// string exactly as entered on the form; parsing happens in the totals
// engine with a zero fallback.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        string  `json:"rate"`
}

// Invoice is a billing document with embedded line items.
type Invoice struct {
	ID              int64          `json:"id"`
	InvoiceNumber   string         `json:"invoiceNumber"`
	CustomerName    string         `json:"customerName"`
	BusinessAddress string         `json:"businessAddress,omitempty"`
	BillTo          string         `json:"billTo,omitempty"`
	ShipTo          string         `json:"shipTo,omitempty"`
	InvoiceDate     *time.Time     `json:"invoiceDate,omitempty"`
	DueDate         *time.Time     `json:"dueDate,omitempty"`
	PaymentTerms    string         `json:"paymentTerms,omitempty"`
	PONumber        string         `json:"poNumber,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Terms           string         `json:"terms,omitempty"`
	Items           []LineItem     `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	TaxValue        float64        `json:"taxValue"`
	TaxType         AdjustmentType `json:"taxType"`
	DiscountValue   float64        `json:"discountValue"`
	DiscountType    AdjustmentType `json:"discountType"`
	Shipping        float64        `json:"shipping"`
	Total           float64        `json:"total"`
	AmountPaid      float64        `json:"amountPaid"`
	BalanceDue      float64        `json:"balanceDue"`
	Status          Status         `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// taxAmount derives the applied tax from the stored subtotal and adjustment
// fields of the record itself.
func (inv *Invoice) taxAmount() float64 {
	if inv.TaxType == AdjustPercentage {
		return inv.Subtotal * inv.TaxValue / 100
	}
	return inv.TaxValue
}

// discountAmount derives the applied discount from the stored fields.
func (inv *Invoice) discountAmount() float64 {
	if inv.DiscountType == AdjustPercentage {
		return inv.Subtotal * inv.DiscountValue / 100
	}
	return inv.DiscountValue
}
