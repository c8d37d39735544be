package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantfield/portal/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for invoices. Line
// items are embedded in the invoice row as JSONB, not a separate table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new invoice.
func (r *Repository) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	items, err := json.Marshal(itemsOrEmpty(inv.Items))
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO invoices (
			invoice_number, customer_name, business_address, bill_to, ship_to,
			invoice_date, due_date, payment_terms, po_number, notes, terms,
			items, subtotal, tax_value, tax_type, discount_value, discount_type,
			shipping, total, amount_paid, balance_due, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	stored := *inv
	err = r.pool.QueryRow(ctx, query,
		inv.InvoiceNumber, inv.CustomerName, inv.BusinessAddress, inv.BillTo, inv.ShipTo,
		timestampOrNull(inv.InvoiceDate), timestampOrNull(inv.DueDate),
		inv.PaymentTerms, inv.PONumber, inv.Notes, inv.Terms,
		items, inv.Subtotal, inv.TaxValue, string(inv.TaxType),
		inv.DiscountValue, string(inv.DiscountType),
		inv.Shipping, inv.Total, inv.AmountPaid, inv.BalanceDue, string(inv.Status),
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

const invoiceColumns = `
	id, invoice_number, customer_name, business_address, bill_to, ship_to,
	invoice_date, due_date, payment_terms, po_number, notes, terms,
	items, subtotal, tax_value, tax_type, discount_value, discount_type,
	shipping, total, amount_paid, balance_due, status, created_at, updated_at`

// List returns all invoices ordered by creation time descending.
func (r *Repository) List(ctx context.Context) ([]Invoice, error) {
	query := `SELECT` + invoiceColumns + `
		FROM invoices
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

// Get retrieves an invoice by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Invoice, error) {
	query := `SELECT` + invoiceColumns + `
		FROM invoices
		WHERE id = $1`

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Update replaces an invoice record by identifier and bumps updated_at.
func (r *Repository) Update(ctx context.Context, inv *Invoice) (*Invoice, error) {
	items, err := json.Marshal(itemsOrEmpty(inv.Items))
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE invoices SET
			invoice_number = $2, customer_name = $3, business_address = $4,
			bill_to = $5, ship_to = $6, invoice_date = $7, due_date = $8,
			payment_terms = $9, po_number = $10, notes = $11, terms = $12,
			items = $13, subtotal = $14, tax_value = $15, tax_type = $16,
			discount_value = $17, discount_type = $18, shipping = $19,
			total = $20, amount_paid = $21, balance_due = $22, status = $23,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	stored := *inv
	err = r.pool.QueryRow(ctx, query,
		inv.ID,
		inv.InvoiceNumber, inv.CustomerName, inv.BusinessAddress, inv.BillTo, inv.ShipTo,
		timestampOrNull(inv.InvoiceDate), timestampOrNull(inv.DueDate),
		inv.PaymentTerms, inv.PONumber, inv.Notes, inv.Terms,
		items, inv.Subtotal, inv.TaxValue, string(inv.TaxType),
		inv.DiscountValue, string(inv.DiscountType),
		inv.Shipping, inv.Total, inv.AmountPaid, inv.BalanceDue, string(inv.Status),
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// Delete removes an invoice by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var items []byte
	var invoiceDate, dueDate pgtype.Timestamptz
	var taxType, discountType, status string
	var subtotal, taxValue, discountValue, shipping, total, amountPaid, balanceDue pgtype.Numeric

	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerName, &inv.BusinessAddress, &inv.BillTo, &inv.ShipTo,
		&invoiceDate, &dueDate, &inv.PaymentTerms, &inv.PONumber, &inv.Notes, &inv.Terms,
		&items, &subtotal, &taxValue, &taxType, &discountValue, &discountType,
		&shipping, &total, &amountPaid, &balanceDue, &status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, err
		}
	}
	if invoiceDate.Valid {
		inv.InvoiceDate = &invoiceDate.Time
	}
	if dueDate.Valid {
		inv.DueDate = &dueDate.Time
	}
	inv.Subtotal = numericToFloat64(subtotal)
	inv.TaxValue = numericToFloat64(taxValue)
	inv.TaxType = AdjustmentType(taxType)
	inv.DiscountValue = numericToFloat64(discountValue)
	inv.DiscountType = AdjustmentType(discountType)
	inv.Shipping = numericToFloat64(shipping)
	inv.Total = numericToFloat64(total)
	inv.AmountPaid = numericToFloat64(amountPaid)
	inv.BalanceDue = numericToFloat64(balanceDue)
	inv.Status = Status(status)

	return &inv, nil
}

func itemsOrEmpty(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}
	return items
}

func timestampOrNull(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func numericToFloat64(n pgtype.Numeric) float64 {
	if !n.Valid {
		return 0
	}
	f, _ := n.Float64Value()
	return f.Float64
}
