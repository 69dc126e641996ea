package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
)

// AllocationService coordinates the two-sided allocation between a receipt
// and an invoice. All preconditions on both aggregates are checked before
// either one is mutated, so a failed allocation leaves both untouched.
type AllocationService struct{}

// NewAllocationService creates a new AllocationService
func NewAllocationService() *AllocationService {
	return &AllocationService{}
}

// Allocate applies amount from the receipt to the invoice. The receipt must
// be draft with enough unallocated balance; the allocation may never exceed
// the invoice's open balance (an allocation cannot overpay an invoice).
func (s *AllocationService) Allocate(receipt *LeaseReceipt, invoice *LeaseInvoice, amount valueobject.Money) (*PaymentAllocation, error) {
	if receipt == nil || invoice == nil {
		return nil, shared.NewValidationError("Receipt and invoice are required")
	}
	if receipt.CurrencyCode != invoice.CurrencyCode {
		return nil, shared.NewValidationError(
			fmt.Sprintf("Receipt currency %s does not match invoice currency %s",
				receipt.CurrencyCode, invoice.CurrencyCode))
	}
	if err := receipt.ensureEditable(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(receipt.UnallocatedAmount) {
		return nil, shared.NewDomainError(shared.CodeInsufficientReceipt,
			fmt.Sprintf("Allocation amount %s exceeds unallocated receipt balance %s",
				amount.Amount().StringFixed(2), receipt.UnallocatedAmount.StringFixed(2)))
	}
	if !invoice.Status.CanApplyPayment() {
		return nil, shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot allocate to invoice in %s status", invoice.Status))
	}
	if amount.Amount().GreaterThan(invoice.BalanceAmount) {
		return nil, shared.NewDomainError(shared.CodeOverAllocation,
			fmt.Sprintf("Allocation amount %s exceeds invoice balance %s",
				amount.Amount().StringFixed(2), invoice.BalanceAmount.StringFixed(2)))
	}

	allocation, err := receipt.Allocate(invoice.ID, invoice.InvoiceNumber, amount)
	if err != nil {
		return nil, err
	}
	if err := invoice.ApplyPayment(amount, receipt.ID); err != nil {
		// Preconditions were verified above; roll the receipt side back to
		// keep the pair consistent if the invoice still refuses.
		receipt.undoAllocation(invoice.ID, amount.Amount())
		return nil, err
	}

	return allocation, nil
}

// Deallocate reverses a prior allocation, returning the paid amount to the
// invoice's balance and the freed amount to the receipt's unallocated
// remainder. Only permitted while the receipt is draft.
func (s *AllocationService) Deallocate(receipt *LeaseReceipt, invoice *LeaseInvoice) error {
	if receipt == nil || invoice == nil {
		return shared.NewValidationError("Receipt and invoice are required")
	}
	if err := receipt.ensureEditable(); err != nil {
		return err
	}
	if receipt.AllocationFor(invoice.ID) == nil {
		return shared.NewValidationError("No allocation to this invoice exists")
	}

	if _, err := invoice.ReversePayment(receipt.ID); err != nil {
		return err
	}
	if _, err := receipt.Deallocate(invoice.ID); err != nil {
		return err
	}

	return nil
}

// AllocationTarget pairs an invoice with the amount to allocate to it
type AllocationTarget struct {
	Invoice *LeaseInvoice
	Amount  valueobject.Money
}

// AllocateMany distributes the receipt across several invoices in order.
// Validation runs over the full set before any aggregate changes, so the
// batch either applies completely or not at all.
func (s *AllocationService) AllocateMany(receipt *LeaseReceipt, targets []AllocationTarget) error {
	if receipt == nil {
		return shared.NewValidationError("Receipt is required")
	}
	if len(targets) == 0 {
		return shared.NewValidationError("At least one allocation target is required")
	}
	if err := receipt.ensureEditable(); err != nil {
		return err
	}

	total := valueobject.Zero(receipt.CurrencyCode)
	perInvoice := make(map[uuid.UUID]decimal.Decimal, len(targets))
	for _, t := range targets {
		if t.Invoice == nil {
			return shared.NewValidationError("Allocation target invoice is required")
		}
		if t.Invoice.CurrencyCode != receipt.CurrencyCode {
			return shared.NewValidationError(
				fmt.Sprintf("Receipt currency %s does not match currency %s of invoice %s",
					receipt.CurrencyCode, t.Invoice.CurrencyCode, t.Invoice.InvoiceNumber))
		}
		if !t.Amount.IsPositive() {
			return shared.NewDomainError(shared.CodeInvalidAmount, "Allocation amount must be positive")
		}
		if !t.Invoice.Status.CanApplyPayment() {
			return shared.NewInvalidTransitionError(
				fmt.Sprintf("Cannot allocate to invoice %s in %s status", t.Invoice.InvoiceNumber, t.Invoice.Status))
		}
		// The same invoice may appear in several targets, so the balance
		// check runs against the cumulative amount aimed at it.
		claimed := perInvoice[t.Invoice.ID].Add(t.Amount.Amount())
		if claimed.GreaterThan(t.Invoice.BalanceAmount) {
			return shared.NewDomainError(shared.CodeOverAllocation,
				fmt.Sprintf("Allocations totaling %s exceed balance of invoice %s",
					claimed.StringFixed(2), t.Invoice.InvoiceNumber))
		}
		perInvoice[t.Invoice.ID] = claimed
		var err error
		total, err = total.Add(t.Amount)
		if err != nil {
			return shared.NewValidationError(err.Error())
		}
	}
	if total.Amount().GreaterThan(receipt.UnallocatedAmount) {
		return shared.NewDomainError(shared.CodeInsufficientReceipt,
			fmt.Sprintf("Allocations totaling %s exceed unallocated receipt balance %s",
				total.Amount().StringFixed(2), receipt.UnallocatedAmount.StringFixed(2)))
	}

	for _, t := range targets {
		if _, err := s.Allocate(receipt, t.Invoice, t.Amount); err != nil {
			return err
		}
	}

	return nil
}
