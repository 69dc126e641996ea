package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReceiptStatus represents the lifecycle status of a lease receipt
type ReceiptStatus string

const (
	ReceiptStatusDraft     ReceiptStatus = "DRAFT"     // Editable, allocations may change
	ReceiptStatusValidated ReceiptStatus = "VALIDATED" // Checked, awaiting posting
	ReceiptStatusPosted    ReceiptStatus = "POSTED"    // Posted to the ledger
	ReceiptStatusCleared   ReceiptStatus = "CLEARED"   // Funds confirmed (terminal)
	ReceiptStatusCancelled ReceiptStatus = "CANCELLED" // Cancelled (terminal)
)

// IsValid checks if the status is a valid ReceiptStatus
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusDraft, ReceiptStatusValidated, ReceiptStatusPosted,
		ReceiptStatusCleared, ReceiptStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ReceiptStatus
func (s ReceiptStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the receipt is in a terminal state
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusCleared || s == ReceiptStatusCancelled
}

// CanEdit returns true if the receipt may be edited or deleted
func (s ReceiptStatus) CanEdit() bool {
	return s == ReceiptStatusDraft
}

// CanCancel returns true if the receipt can still be cancelled
func (s ReceiptStatus) CanCancel() bool {
	return s != ReceiptStatusCleared && s != ReceiptStatusCancelled
}

// PaymentMethod represents how a receipt was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheque       PaymentMethod = "CHEQUE"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque,
		PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentAllocation assigns part of a receipt's amount to one invoice.
// An allocation row per target invoice; re-allocating to the same invoice
// tops up the existing row.
type PaymentAllocation struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	AllocatedAt     time.Time       `json:"allocated_at"`
}

// PaymentAllocations is a slice of PaymentAllocation with GORM Scanner/Valuer
// support for JSONB storage within the receipt aggregate.
type PaymentAllocations []PaymentAllocation

// Value implements driver.Valuer
func (p PaymentAllocations) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *PaymentAllocations) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentAllocations{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentAllocations: unsupported type")
	}
	if len(bytes) == 0 {
		*p = PaymentAllocations{}
		return nil
	}
	return json.Unmarshal(bytes, p)
}

// LeaseReceipt represents a payment received from a tenant, allocatable
// across one or more lease invoices. The conservation invariant
// sum(allocations) + UnallocatedAmount == ReceiptAmount holds at all times.
type LeaseReceipt struct {
	shared.AuditedAggregateRoot
	ReceiptNumber     string               `json:"receipt_number"`
	ContractID        uuid.UUID            `json:"contract_id"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	CustomerName      string               `json:"customer_name"`
	CurrencyCode      valueobject.Currency `json:"currency_code"`
	ReceiptAmount     decimal.Decimal      `json:"receipt_amount"`
	AllocatedAmount   decimal.Decimal      `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal      `json:"unallocated_amount"`
	PaymentMethod     PaymentMethod        `json:"payment_method"`
	PaymentReference  string               `json:"payment_reference"`
	ChequeNumber      string               `json:"cheque_number,omitempty"`
	BankName          string               `json:"bank_name,omitempty"`
	ReceiptDate       time.Time            `json:"receipt_date"`
	Status            ReceiptStatus        `json:"status"`
	IsCleared         bool                 `json:"is_cleared"`
	ClearingDate      *time.Time           `json:"clearing_date,omitempty"`
	Allocations       PaymentAllocations   `json:"allocations"`
	Remark            string               `json:"remark"`
	ValidatedAt       *time.Time           `json:"validated_at,omitempty"`
	PostedAt          *time.Time           `json:"posted_at,omitempty"`
	CancelledAt       *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason      string               `json:"cancel_reason,omitempty"`
}

// NewLeaseReceipt creates a new lease receipt in Draft status
func NewLeaseReceipt(
	receiptNumber string,
	contractID uuid.UUID,
	customerID uuid.UUID,
	customerName string,
	currency valueobject.Currency,
	amount valueobject.Money,
	paymentMethod PaymentMethod,
	receiptDate time.Time,
	createdBy uuid.UUID,
) (*LeaseReceipt, error) {
	if receiptNumber == "" {
		return nil, shared.NewValidationError("Receipt number cannot be empty")
	}
	if len(receiptNumber) > 50 {
		return nil, shared.NewValidationError("Receipt number cannot exceed 50 characters")
	}
	if contractID == uuid.Nil {
		return nil, shared.NewValidationError("Contract ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Receipt amount must be positive")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewValidationError("Payment method is not valid")
	}
	if receiptDate.IsZero() {
		return nil, shared.NewValidationError("Receipt date is required")
	}

	rc := &LeaseReceipt{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		ReceiptNumber:        receiptNumber,
		ContractID:           contractID,
		CustomerID:           customerID,
		CustomerName:         customerName,
		CurrencyCode:         currency,
		ReceiptAmount:        amount.Amount(),
		AllocatedAmount:      decimal.Zero,
		UnallocatedAmount:    amount.Amount(),
		PaymentMethod:        paymentMethod,
		ReceiptDate:          receiptDate,
		Status:               ReceiptStatusDraft,
		Allocations:          PaymentAllocations{},
	}

	rc.AddDomainEvent(NewReceiptCreatedEvent(rc))

	return rc, nil
}

// ensureEditable fails with IMMUTABLE_RECORD unless the receipt is Draft
func (rc *LeaseReceipt) ensureEditable() error {
	if !rc.Status.CanEdit() {
		return shared.NewImmutableRecordError(
			fmt.Sprintf("Receipt %s cannot be modified in %s status", rc.ReceiptNumber, rc.Status))
	}
	return nil
}

// CanDelete returns true if the receipt may be deleted
func (rc *LeaseReceipt) CanDelete() bool {
	return rc.Status.CanEdit()
}

// Allocate assigns amount to the given invoice. Only draft receipts may
// change allocations, and the sum of allocations may never exceed the
// receipt amount. Allocating again to the same invoice tops up its row.
func (rc *LeaseReceipt) Allocate(invoiceID uuid.UUID, invoiceNumber string, amount valueobject.Money) (*PaymentAllocation, error) {
	if err := rc.ensureEditable(); err != nil {
		return nil, err
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewValidationError("Invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Allocation amount must be positive")
	}
	if amount.Amount().GreaterThan(rc.UnallocatedAmount) {
		return nil, shared.NewDomainError(shared.CodeInsufficientReceipt,
			fmt.Sprintf("Allocation amount %s exceeds unallocated receipt balance %s",
				amount.Amount().StringFixed(2), rc.UnallocatedAmount.StringFixed(2)))
	}

	var allocation *PaymentAllocation
	for i := range rc.Allocations {
		if rc.Allocations[i].InvoiceID == invoiceID {
			rc.Allocations[i].AllocatedAmount = rc.Allocations[i].AllocatedAmount.Add(amount.Amount())
			rc.Allocations[i].AllocatedAt = time.Now()
			allocation = &rc.Allocations[i]
			break
		}
	}
	if allocation == nil {
		rc.Allocations = append(rc.Allocations, PaymentAllocation{
			ID:              uuid.New(),
			InvoiceID:       invoiceID,
			InvoiceNumber:   invoiceNumber,
			AllocatedAmount: amount.Amount(),
			AllocatedAt:     time.Now(),
		})
		allocation = &rc.Allocations[len(rc.Allocations)-1]
	}

	rc.AllocatedAmount = rc.AllocatedAmount.Add(amount.Amount())
	rc.UnallocatedAmount = rc.ReceiptAmount.Sub(rc.AllocatedAmount)

	rc.UpdatedAt = time.Now()
	rc.IncrementVersion()

	rc.AddDomainEvent(NewReceiptAllocatedEvent(rc, allocation))

	return allocation, nil
}

// Deallocate removes the allocation to the given invoice and returns the
// freed amount to the unallocated remainder. Draft receipts only.
func (rc *LeaseReceipt) Deallocate(invoiceID uuid.UUID) (decimal.Decimal, error) {
	if err := rc.ensureEditable(); err != nil {
		return decimal.Zero, err
	}

	for i, alloc := range rc.Allocations {
		if alloc.InvoiceID == invoiceID {
			rc.Allocations = append(rc.Allocations[:i], rc.Allocations[i+1:]...)
			rc.AllocatedAmount = rc.AllocatedAmount.Sub(alloc.AllocatedAmount)
			rc.UnallocatedAmount = rc.ReceiptAmount.Sub(rc.AllocatedAmount)
			rc.UpdatedAt = time.Now()
			rc.IncrementVersion()
			rc.AddDomainEvent(NewReceiptDeallocatedEvent(rc, invoiceID, alloc.AllocatedAmount))
			return alloc.AllocatedAmount, nil
		}
	}
	return decimal.Zero, shared.NewValidationError("No allocation to this invoice exists")
}

// undoAllocation reverts the Allocate call that just ran, restoring the
// amounts, the version and the event buffer as if it never happened. Unlike
// Deallocate it raises no event: the allocation was never observed outside
// the failed operation, so nothing may be published about it.
func (rc *LeaseReceipt) undoAllocation(invoiceID uuid.UUID, amount decimal.Decimal) {
	for i := range rc.Allocations {
		if rc.Allocations[i].InvoiceID != invoiceID {
			continue
		}
		rc.Allocations[i].AllocatedAmount = rc.Allocations[i].AllocatedAmount.Sub(amount)
		if rc.Allocations[i].AllocatedAmount.IsZero() {
			rc.Allocations = append(rc.Allocations[:i], rc.Allocations[i+1:]...)
		}
		break
	}
	rc.AllocatedAmount = rc.AllocatedAmount.Sub(amount)
	rc.UnallocatedAmount = rc.ReceiptAmount.Sub(rc.AllocatedAmount)
	rc.Version--

	if events := rc.GetDomainEvents(); len(events) > 0 {
		rc.ClearDomainEvents()
		for _, e := range events[:len(events)-1] {
			rc.AddDomainEvent(e)
		}
	}
}

// AllocationFor returns the allocation row for the given invoice, if any
func (rc *LeaseReceipt) AllocationFor(invoiceID uuid.UUID) *PaymentAllocation {
	for i := range rc.Allocations {
		if rc.Allocations[i].InvoiceID == invoiceID {
			return &rc.Allocations[i]
		}
	}
	return nil
}

// SetChequeDetails records cheque number and bank for cheque receipts
func (rc *LeaseReceipt) SetChequeDetails(chequeNumber, bankName string, actor uuid.UUID) error {
	if err := rc.ensureEditable(); err != nil {
		return err
	}
	if rc.PaymentMethod != PaymentMethodCheque {
		return shared.NewValidationError("Cheque details only apply to cheque receipts")
	}
	rc.ChequeNumber = chequeNumber
	rc.BankName = bankName
	rc.Touch(actor)
	rc.UpdatedAt = time.Now()
	rc.IncrementVersion()
	return nil
}

// ToggleClearing marks a cheque receipt cleared or un-cleared. Clearing is
// tracked independently of the lifecycle status; setting cleared requires a
// clearing date.
func (rc *LeaseReceipt) ToggleClearing(cleared bool, clearingDate *time.Time, actor uuid.UUID) error {
	if rc.PaymentMethod != PaymentMethodCheque {
		return shared.NewValidationError("Clearing only applies to cheque receipts")
	}
	if cleared {
		if clearingDate == nil || clearingDate.IsZero() {
			return shared.NewValidationError("Clearing date is required when marking a cheque cleared")
		}
		rc.IsCleared = true
		rc.ClearingDate = clearingDate
		rc.AddDomainEvent(NewReceiptClearedEvent(rc))
	} else {
		rc.IsCleared = false
		rc.ClearingDate = nil
	}

	rc.Touch(actor)
	rc.UpdatedAt = time.Now()
	rc.IncrementVersion()

	return nil
}

// Validate moves a draft receipt to Validated
func (rc *LeaseReceipt) Validate(actor uuid.UUID) error {
	if rc.Status != ReceiptStatusDraft {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot validate receipt in %s status", rc.Status))
	}

	now := time.Now()
	rc.Status = ReceiptStatusValidated
	rc.ValidatedAt = &now
	rc.Touch(actor)
	rc.UpdatedAt = now
	rc.IncrementVersion()

	return nil
}

// Post moves a validated receipt to Posted
func (rc *LeaseReceipt) Post(actor uuid.UUID) error {
	if rc.Status != ReceiptStatusValidated {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot post receipt in %s status", rc.Status))
	}

	now := time.Now()
	rc.Status = ReceiptStatusPosted
	rc.PostedAt = &now
	rc.Touch(actor)
	rc.UpdatedAt = now
	rc.IncrementVersion()

	rc.AddDomainEvent(NewReceiptPostedEvent(rc))

	return nil
}

// MarkStatusCleared moves a posted receipt to the terminal Cleared status.
// The cheque-clearing flag must already be set for cheque receipts.
func (rc *LeaseReceipt) MarkStatusCleared(actor uuid.UUID) error {
	if rc.Status != ReceiptStatusPosted {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot clear receipt in %s status", rc.Status))
	}
	if rc.PaymentMethod == PaymentMethodCheque && !rc.IsCleared {
		return shared.NewValidationError("Cheque must be marked cleared before the receipt can be closed")
	}

	rc.Status = ReceiptStatusCleared
	rc.Touch(actor)
	rc.UpdatedAt = time.Now()
	rc.IncrementVersion()

	return nil
}

// Cancel cancels the receipt from any non-cleared state
func (rc *LeaseReceipt) Cancel(reason string, actor uuid.UUID) error {
	if !rc.Status.CanCancel() {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot cancel receipt in %s status", rc.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	rc.Status = ReceiptStatusCancelled
	rc.CancelledAt = &now
	rc.CancelReason = reason
	rc.Touch(actor)
	rc.UpdatedAt = now
	rc.IncrementVersion()

	rc.AddDomainEvent(NewReceiptCancelledEvent(rc))

	return nil
}

// SetRemark sets the free-text remark. Draft receipts only.
func (rc *LeaseReceipt) SetRemark(remark string, actor uuid.UUID) error {
	if err := rc.ensureEditable(); err != nil {
		return err
	}
	rc.Remark = remark
	rc.Touch(actor)
	rc.UpdatedAt = time.Now()
	rc.IncrementVersion()
	return nil
}

// Helper methods

// GetReceiptAmountMoney returns the receipt amount as Money
func (rc *LeaseReceipt) GetReceiptAmountMoney() valueobject.Money {
	return valueobject.MoneyIn(rc.ReceiptAmount, rc.CurrencyCode)
}

// GetUnallocatedAmountMoney returns the unallocated remainder as Money
func (rc *LeaseReceipt) GetUnallocatedAmountMoney() valueobject.Money {
	return valueobject.MoneyIn(rc.UnallocatedAmount, rc.CurrencyCode)
}

// IsFullyAllocated returns true when nothing remains unallocated
func (rc *LeaseReceipt) IsFullyAllocated() bool {
	return rc.UnallocatedAmount.IsZero()
}
