package invoices

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PDFRenderer produces a printable A4 rendition of an invoice.
type PDFRenderer struct {
	businessName string
	printer      *message.Printer
}

// NewPDFRenderer builds a renderer with the business name shown in the
// document header.
func NewPDFRenderer(businessName string) *PDFRenderer {
	return &PDFRenderer{
		businessName: businessName,
		printer:      message.NewPrinter(language.English),
	}
}

// Render returns the invoice as PDF bytes.
func (r *PDFRenderer) Render(inv *Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(130, 10, r.businessName)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(50, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(130, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(50, 6, "# "+inv.InvoiceNumber, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	r.addressBlock(pdf, inv)
	r.itemTable(pdf, inv.Items)
	r.totalsBlock(pdf, inv)

	if inv.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, inv.Notes, "", "L", false)
	}
	if inv.Terms != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, inv.Terms, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoices: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) addressBlock(pdf *gofpdf.Fpdf, inv *Invoice) {
	pdf.SetFont("Arial", "", 10)
	if inv.BusinessAddress != "" {
		pdf.MultiCell(90, 5, inv.BusinessAddress, "", "L", false)
	}
	pdf.Ln(4)

	left := pdf.GetY()
	if inv.BillTo != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(90, 5, "Bill To", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(90, 5, inv.BillTo, "", "L", false)
	}
	afterBill := pdf.GetY()
	if inv.ShipTo != "" {
		pdf.SetXY(100, left)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(90, 5, "Ship To", "", 1, "L", false, 0, "")
		pdf.SetX(100)
		pdf.MultiCell(90, 5, inv.ShipTo, "", "L", false)
		if pdf.GetY() > afterBill {
			afterBill = pdf.GetY()
		}
	}
	pdf.SetY(afterBill)
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	r.metaLine(pdf, "Date", formatDate(inv.InvoiceDate))
	r.metaLine(pdf, "Due Date", formatDate(inv.DueDate))
	r.metaLine(pdf, "Payment Terms", inv.PaymentTerms)
	r.metaLine(pdf, "PO Number", inv.PONumber)
	pdf.Ln(4)
}

func (r *PDFRenderer) metaLine(pdf *gofpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 5, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
}

func (r *PDFRenderer) itemTable(pdf *gofpdf.Fpdf, items []LineItem) {
	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(100, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.CellFormat(100, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, trimFloat(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, r.money(ParseAmount(item.Rate)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, r.money(item.Amount()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

// totalsBlock prints the stored monetary fields; tax and discount amounts
// derive from the stored subtotal and adjustments, never from the items, so
// the column cannot mix two generations of numbers.
func (r *PDFRenderer) totalsBlock(pdf *gofpdf.Fpdf, inv *Invoice) {
	r.totalLine(pdf, "Subtotal", r.money(inv.Subtotal), false)
	taxLabel := "Tax"
	if inv.TaxType == AdjustPercentage {
		taxLabel = fmt.Sprintf("Tax (%s%%)", trimFloat(inv.TaxValue))
	}
	r.totalLine(pdf, taxLabel, r.money(inv.taxAmount()), false)
	if discount := inv.discountAmount(); discount != 0 {
		r.totalLine(pdf, "Discount", "-"+r.money(discount), false)
	}
	if inv.Shipping != 0 {
		r.totalLine(pdf, "Shipping", r.money(inv.Shipping), false)
	}
	r.totalLine(pdf, "Total", r.money(inv.Total), true)
	r.totalLine(pdf, "Amount Paid", r.money(inv.AmountPaid), false)
	r.totalLine(pdf, "Balance Due", r.money(inv.BalanceDue), true)
}

func (r *PDFRenderer) totalLine(pdf *gofpdf.Fpdf, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(125, 6, "", "", 0, "", false, 0, "")
	pdf.CellFormat(30, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, value, "", 1, "R", false, 0, "")
}

func (r *PDFRenderer) money(v float64) string {
	return r.printer.Sprintf("$%.2f", v)
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
