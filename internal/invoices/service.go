package invoices

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// totalsTolerance is the allowed drift between client-computed and
// server-recomputed monetary fields, covering float formatting noise.
const totalsTolerance = 0.01

// ErrTotalsMismatch rejects payloads whose claimed totals diverge from the
// server's recomputation beyond the rounding tolerance.
var ErrTotalsMismatch = errors.New("invoices: submitted totals do not match line items")

// RepositoryPort defines data access methods for invoices.
type RepositoryPort interface {
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	Get(ctx context.Context, id int64) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) (*Invoice, error)
	Delete(ctx context.Context, id int64) error
}

// SubmitInvoiceInput is the invoice payload as submitted by the form.
// Subtotal, Total and BalanceDue carry the client's own computation and are
// verified against a server-side recomputation before anything persists.
type SubmitInvoiceInput struct {
	InvoiceNumber   string         `json:"invoiceNumber" validate:"required,max=255"`
	CustomerName    string         `json:"customerName" validate:"max=255"`
	BusinessAddress string         `json:"businessAddress"`
	BillTo          string         `json:"billTo"`
	ShipTo          string         `json:"shipTo"`
	InvoiceDate     *time.Time     `json:"invoiceDate"`
	DueDate         *time.Time     `json:"dueDate"`
	PaymentTerms    string         `json:"paymentTerms" validate:"max=255"`
	PONumber        string         `json:"poNumber" validate:"max=255"`
	Notes           string         `json:"notes"`
	Terms           string         `json:"terms"`
	Items           []LineItem     `json:"items"`
	TaxValue        float64        `json:"taxValue"`
	TaxType         AdjustmentType `json:"taxType"`
	DiscountValue   float64        `json:"discountValue"`
	DiscountType    AdjustmentType `json:"discountType"`
	Shipping        float64        `json:"shipping"`
	AmountPaid      string         `json:"amountPaid"`
	Subtotal        float64        `json:"subtotal"`
	Total           float64        `json:"total"`
	BalanceDue      float64        `json:"balanceDue"`
	Status          Status         `json:"status"`
}

// Service handles invoice business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Create recomputes totals server-side, verifies the client's numbers and
// persists a new invoice. Default status is pending.
func (s *Service) Create(ctx context.Context, input SubmitInvoiceInput) (*Invoice, error) {
	inv, err := s.prepare(input)
	if err != nil {
		return nil, err
	}
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	return s.repo.Create(ctx, inv)
}

// List returns all invoices, newest first.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	return s.repo.List(ctx)
}

// Get returns one invoice by identifier.
func (s *Service) Get(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces an invoice record, including its status. Last write wins
// on concurrent updates; there is no optimistic locking.
func (s *Service) Update(ctx context.Context, id int64, input SubmitInvoiceInput) (*Invoice, error) {
	inv, err := s.prepare(input)
	if err != nil {
		return nil, err
	}
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	inv.ID = id
	return s.repo.Update(ctx, inv)
}

// Delete removes an invoice by identifier.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) prepare(input SubmitInvoiceInput) (*Invoice, error) {
	if !input.TaxType.Valid() {
		return nil, fmt.Errorf("%w: invalid tax type %q", httpx.ErrValidation, input.TaxType)
	}
	if input.DiscountType != "" && !input.DiscountType.Valid() {
		return nil, fmt.Errorf("%w: invalid discount type %q", httpx.ErrValidation, input.DiscountType)
	}
	if input.Status != "" {
		if _, err := ParseStatus(string(input.Status)); err != nil {
			return nil, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
		}
	}

	computed := Compute(input.Items, Adjustments{
		TaxValue:      input.TaxValue,
		TaxType:       input.TaxType,
		DiscountValue: input.DiscountValue,
		DiscountType:  input.DiscountType,
		Shipping:      input.Shipping,
		AmountPaid:    input.AmountPaid,
	})
	if err := verifyClaimed(input, computed); err != nil {
		return nil, err
	}

	customerName := input.CustomerName
	if customerName == "" {
		customerName = firstLine(input.BillTo)
	}

	discountType := input.DiscountType
	if discountType == "" {
		discountType = AdjustFixed
	}

	return &Invoice{
		InvoiceNumber:   input.InvoiceNumber,
		CustomerName:    customerName,
		BusinessAddress: input.BusinessAddress,
		BillTo:          input.BillTo,
		ShipTo:          input.ShipTo,
		InvoiceDate:     input.InvoiceDate,
		DueDate:         input.DueDate,
		PaymentTerms:    input.PaymentTerms,
		PONumber:        input.PONumber,
		Notes:           input.Notes,
		Terms:           input.Terms,
		Items:           input.Items,
		Subtotal:        Round2(computed.Subtotal),
		TaxValue:        input.TaxValue,
		TaxType:         input.TaxType,
		DiscountValue:   input.DiscountValue,
		DiscountType:    discountType,
		Shipping:        input.Shipping,
		Total:           Round2(computed.Total),
		AmountPaid:      Round2(ParseAmount(input.AmountPaid)),
		BalanceDue:      Round2(computed.BalanceDue),
		Status:          input.Status,
	}, nil
}

// verifyClaimed compares the client's totals with the server recomputation.
func verifyClaimed(input SubmitInvoiceInput, computed Totals) error {
	if math.Abs(input.Subtotal-computed.Subtotal) > totalsTolerance {
		return ErrTotalsMismatch
	}
	if math.Abs(input.Total-computed.Total) > totalsTolerance {
		return ErrTotalsMismatch
	}
	if math.Abs(input.BalanceDue-computed.BalanceDue) > totalsTolerance {
		return ErrTotalsMismatch
	}
	return nil
}

func firstLine(s string) string {
	if line, _, found := strings.Cut(s, "\n"); found || line != "" {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return "N/A"
}
