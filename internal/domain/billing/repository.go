package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice queries
type InvoiceFilter struct {
	shared.Filter
	ContractID    *uuid.UUID
	CustomerID    *uuid.UUID
	Status        *InvoiceStatus
	InvoiceNumber string
	DueBefore     *time.Time
	DueAfter      *time.Time
	WithBalance   bool
}

// ReceiptFilter narrows receipt queries
type ReceiptFilter struct {
	shared.Filter
	ContractID    *uuid.UUID
	CustomerID    *uuid.UUID
	Status        *ReceiptStatus
	PaymentMethod *PaymentMethod
	ReceiptNumber string
	ChequeNumber  string
	Uncleared     bool
}

// LeaseInvoiceRepository provides persistence for lease invoices
type LeaseInvoiceRepository interface {
	shared.Repository[LeaseInvoice]
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*LeaseInvoice, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]LeaseInvoice, error)
	FindOpenByContract(ctx context.Context, contractID uuid.UUID) ([]LeaseInvoice, error)
	FindFiltered(ctx context.Context, filter InvoiceFilter) (shared.Paginated[LeaseInvoice], error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]LeaseInvoice, error)
	// SaveWithLock persists the invoice guarded by its version counter and
	// returns shared.ErrConcurrencyConflict when the row moved underneath.
	SaveWithLock(ctx context.Context, invoice *LeaseInvoice, expectedVersion int) error
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// LeaseReceiptRepository provides persistence for lease receipts
type LeaseReceiptRepository interface {
	shared.Repository[LeaseReceipt]
	FindByReceiptNumber(ctx context.Context, receiptNumber string) (*LeaseReceipt, error)
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]LeaseReceipt, error)
	FindFiltered(ctx context.Context, filter ReceiptFilter) (shared.Paginated[LeaseReceipt], error)
	FindUnclearedCheques(ctx context.Context) ([]LeaseReceipt, error)
	SaveWithLock(ctx context.Context, receipt *LeaseReceipt, expectedVersion int) error
	NextReceiptNumber(ctx context.Context) (string, error)
}
