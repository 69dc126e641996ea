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

// InvoiceStatus represents the lifecycle status of a lease invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"          // Editable, not yet finalized
	InvoiceStatusPosted        InvoiceStatus = "POSTED"         // Finalized, open for payment
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // 0 < paid < total
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // Fully paid
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"      // Cancelled, no further allocation
	InvoiceStatusVoid          InvoiceStatus = "VOID"           // Voided, no further allocation
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusPosted, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusCancelled || s == InvoiceStatusVoid
}

// CanEdit returns true if invoice fields may be changed in this status
func (s InvoiceStatus) CanEdit() bool {
	return s == InvoiceStatusDraft
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusPosted || s == InvoiceStatusPartiallyPaid
}

// legalStatusTransitions lists the manual transitions permitted through
// ChangeStatus. Paid/PartiallyPaid are normally derived from payments; the
// manual path exists for corrections on posted invoices.
var legalStatusTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft:         {InvoiceStatusPosted, InvoiceStatusCancelled, InvoiceStatusVoid},
	InvoiceStatusPosted:        {InvoiceStatusPaid, InvoiceStatusPartiallyPaid, InvoiceStatusCancelled, InvoiceStatusVoid},
	InvoiceStatusPartiallyPaid: {InvoiceStatusPaid, InvoiceStatusCancelled, InvoiceStatusVoid},
	InvoiceStatusPaid:          {InvoiceStatusCancelled, InvoiceStatusVoid},
}

// CanTransitionTo returns true if a manual transition to target is legal
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, allowed := range legalStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ChargeLine is an additional charge itemized under an invoice.
// Tax and total are derived at construction and never stored stale.
type ChargeLine struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	ChargeAmount  decimal.Decimal `json:"charge_amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// NewChargeLine creates a charge line, deriving tax and total from the
// charge amount and tax percentage.
func NewChargeLine(description string, chargeAmount valueobject.Money, taxPercentage decimal.Decimal) (*ChargeLine, error) {
	if description == "" {
		return nil, shared.NewValidationError("Charge description cannot be empty")
	}
	if chargeAmount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Charge amount cannot be negative")
	}
	if taxPercentage.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Tax percentage cannot be negative")
	}

	tax := chargeAmount.PercentageOf(taxPercentage)
	total := chargeAmount.MustAdd(tax)

	return &ChargeLine{
		ID:            uuid.New(),
		Description:   description,
		ChargeAmount:  chargeAmount.Amount(),
		TaxPercentage: taxPercentage,
		TaxAmount:     tax.Amount(),
		TotalAmount:   total.Amount(),
	}, nil
}

// ChargeLines is a slice of ChargeLine that implements GORM Scanner/Valuer
// for JSONB storage as part of the invoice aggregate.
type ChargeLines []ChargeLine

// Value implements driver.Valuer
func (c ChargeLines) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *ChargeLines) Scan(value interface{}) error {
	if value == nil {
		*c = ChargeLines{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ChargeLines: unsupported type")
	}
	if len(bytes) == 0 {
		*c = ChargeLines{}
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// PaymentRecord represents a payment applied to the invoice from a receipt.
// Stored as JSONB within the invoice aggregate.
type PaymentRecord struct {
	ID         uuid.UUID       `json:"id"`
	ReceiptID  uuid.UUID       `json:"receipt_id"`
	Amount     decimal.Decimal `json:"amount"`
	AppliedAt  time.Time       `json:"applied_at"`
	Reversed   bool            `json:"reversed"`
	ReversedAt *time.Time      `json:"reversed_at,omitempty"`
}

// PaymentRecords is a slice of PaymentRecord with GORM Scanner/Valuer support
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentRecords: unsupported type")
	}
	if len(bytes) == 0 {
		*p = PaymentRecords{}
		return nil
	}
	return json.Unmarshal(bytes, p)
}

// LeaseInvoice represents a lease invoice aggregate root.
// Totals are always derived: Total = Amount + Tax + AdditionalCharges - Discount
// and Balance = Total - Paid, both floored at zero by construction.
type LeaseInvoice struct {
	shared.AuditedAggregateRoot
	InvoiceNumber     string               `json:"invoice_number"`
	ContractID        uuid.UUID            `json:"contract_id"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	CustomerName      string               `json:"customer_name"`
	UnitID            *uuid.UUID           `json:"unit_id,omitempty"`
	CostCenterID      *uuid.UUID           `json:"cost_center_id,omitempty"`
	CurrencyCode      valueobject.Currency `json:"currency_code"`
	InvoiceDate       time.Time            `json:"invoice_date"`
	DueDate           *time.Time           `json:"due_date,omitempty"`
	InvoiceAmount     decimal.Decimal      `json:"invoice_amount"`
	TaxPercentage     decimal.Decimal      `json:"tax_percentage"`
	TaxAmount         decimal.Decimal      `json:"tax_amount"`
	AdditionalCharges decimal.Decimal      `json:"additional_charges"`
	DiscountAmount    decimal.Decimal      `json:"discount_amount"`
	TotalAmount       decimal.Decimal      `json:"total_amount"`
	PaidAmount        decimal.Decimal      `json:"paid_amount"`
	BalanceAmount     decimal.Decimal      `json:"balance_amount"`
	Status            InvoiceStatus        `json:"status"`
	ChargeLines       ChargeLines          `json:"charge_lines"`
	PaymentRecords    PaymentRecords       `json:"payment_records"`
	Remark            string               `json:"remark"`
	PostedAt          *time.Time           `json:"posted_at,omitempty"`
	PaidAt            *time.Time           `json:"paid_at,omitempty"`
	CancelledAt       *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason      string               `json:"cancel_reason,omitempty"`
	VoidedAt          *time.Time           `json:"voided_at,omitempty"`
	VoidReason        string               `json:"void_reason,omitempty"`
}

// NewLeaseInvoice creates a new lease invoice in Draft status
func NewLeaseInvoice(
	invoiceNumber string,
	contractID uuid.UUID,
	customerID uuid.UUID,
	customerName string,
	currency valueobject.Currency,
	invoiceAmount valueobject.Money,
	taxPercentage decimal.Decimal,
	invoiceDate time.Time,
	dueDate *time.Time,
	createdBy uuid.UUID,
) (*LeaseInvoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewValidationError("Invoice number cannot exceed 50 characters")
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
	if invoiceAmount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Invoice amount cannot be negative")
	}
	if taxPercentage.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Tax percentage cannot be negative")
	}
	if invoiceDate.IsZero() {
		return nil, shared.NewValidationError("Invoice date is required")
	}

	inv := &LeaseInvoice{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		InvoiceNumber:        invoiceNumber,
		ContractID:           contractID,
		CustomerID:           customerID,
		CustomerName:         customerName,
		CurrencyCode:         currency,
		InvoiceDate:          invoiceDate,
		DueDate:              dueDate,
		InvoiceAmount:        invoiceAmount.Amount(),
		TaxPercentage:        taxPercentage,
		DiscountAmount:       decimal.Zero,
		PaidAmount:           decimal.Zero,
		Status:               InvoiceStatusDraft,
		ChargeLines:          ChargeLines{},
		PaymentRecords:       PaymentRecords{},
	}
	if err := inv.recomputeTotals(); err != nil {
		return nil, err
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// recomputeTotals rederives tax, additional charges, total and balance from
// the current base amount, tax percentage, charge lines and discount.
func (inv *LeaseInvoice) recomputeTotals() error {
	base := valueobject.MoneyIn(inv.InvoiceAmount, inv.CurrencyCode)
	tax := base.PercentageOf(inv.TaxPercentage)

	additional := decimal.Zero
	for _, line := range inv.ChargeLines {
		additional = additional.Add(line.TotalAmount)
	}

	total := inv.InvoiceAmount.Add(tax.Amount()).Add(additional).Sub(inv.DiscountAmount)
	if total.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidTotal,
			fmt.Sprintf("Discount %s exceeds gross invoice amount", inv.DiscountAmount.StringFixed(2)))
	}

	inv.TaxAmount = tax.Amount()
	inv.AdditionalCharges = additional
	inv.TotalAmount = total
	inv.BalanceAmount = total.Sub(inv.PaidAmount)

	return nil
}

// ensureEditable fails with IMMUTABLE_RECORD unless the invoice is Draft
func (inv *LeaseInvoice) ensureEditable() error {
	if !inv.Status.CanEdit() {
		return shared.NewImmutableRecordError(
			fmt.Sprintf("Invoice %s cannot be modified in %s status", inv.InvoiceNumber, inv.Status))
	}
	return nil
}

// CanDelete returns true if the invoice may be deleted
func (inv *LeaseInvoice) CanDelete() bool {
	return inv.Status.CanEdit()
}

// UpdateAmounts changes the base amount, tax percentage and discount of a
// draft invoice and recomputes all derived totals.
func (inv *LeaseInvoice) UpdateAmounts(invoiceAmount valueobject.Money, taxPercentage, discountAmount decimal.Decimal, actor uuid.UUID) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}
	if invoiceAmount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Invoice amount cannot be negative")
	}
	if taxPercentage.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Tax percentage cannot be negative")
	}
	if discountAmount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Discount amount cannot be negative")
	}

	prevAmount, prevTax, prevDiscount := inv.InvoiceAmount, inv.TaxPercentage, inv.DiscountAmount
	inv.InvoiceAmount = invoiceAmount.Amount()
	inv.TaxPercentage = taxPercentage
	inv.DiscountAmount = discountAmount
	if err := inv.recomputeTotals(); err != nil {
		inv.InvoiceAmount, inv.TaxPercentage, inv.DiscountAmount = prevAmount, prevTax, prevDiscount
		_ = inv.recomputeTotals()
		return err
	}

	inv.Touch(actor)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// AddChargeLine appends an additional charge line and recomputes totals
func (inv *LeaseInvoice) AddChargeLine(description string, chargeAmount valueobject.Money, taxPercentage decimal.Decimal, actor uuid.UUID) (*ChargeLine, error) {
	if err := inv.ensureEditable(); err != nil {
		return nil, err
	}

	line, err := NewChargeLine(description, chargeAmount, taxPercentage)
	if err != nil {
		return nil, err
	}
	inv.ChargeLines = append(inv.ChargeLines, *line)
	if err := inv.recomputeTotals(); err != nil {
		inv.ChargeLines = inv.ChargeLines[:len(inv.ChargeLines)-1]
		_ = inv.recomputeTotals()
		return nil, err
	}

	inv.Touch(actor)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return line, nil
}

// RemoveChargeLine deletes a charge line by ID and recomputes totals
func (inv *LeaseInvoice) RemoveChargeLine(lineID uuid.UUID, actor uuid.UUID) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}

	for i, line := range inv.ChargeLines {
		if line.ID == lineID {
			inv.ChargeLines = append(inv.ChargeLines[:i], inv.ChargeLines[i+1:]...)
			if err := inv.recomputeTotals(); err != nil {
				return err
			}
			inv.Touch(actor)
			inv.UpdatedAt = time.Now()
			inv.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// Post finalizes a draft invoice, opening it for payment allocation
func (inv *LeaseInvoice) Post(actor uuid.UUID) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot post invoice in %s status", inv.Status))
	}

	now := time.Now()
	inv.Status = InvoiceStatusPosted
	inv.PostedAt = &now
	inv.Touch(actor)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePostedEvent(inv))

	return nil
}

// ApplyPayment applies a payment amount from a receipt to this invoice.
// Applying zero is a no-op. The payment may never exceed the open balance.
// Status derives from the resulting balance: Paid at zero balance,
// PartiallyPaid otherwise.
func (inv *LeaseInvoice) ApplyPayment(amount valueobject.Money, receiptID uuid.UUID) error {
	if amount.IsZero() {
		return nil
	}
	if !inv.Status.CanApplyPayment() {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot apply payment to invoice in %s status", inv.Status))
	}
	if amount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(inv.BalanceAmount) {
		return shared.NewDomainError(shared.CodeOverpayment,
			fmt.Sprintf("Payment amount %s exceeds balance %s",
				amount.Amount().StringFixed(2), inv.BalanceAmount.StringFixed(2)))
	}
	if receiptID == uuid.Nil {
		return shared.NewValidationError("Receipt ID cannot be empty")
	}

	inv.PaymentRecords = append(inv.PaymentRecords, PaymentRecord{
		ID:        uuid.New(),
		ReceiptID: receiptID,
		Amount:    amount.Amount(),
		AppliedAt: time.Now(),
	})

	inv.PaidAmount = inv.PaidAmount.Add(amount.Amount())
	inv.BalanceAmount = inv.TotalAmount.Sub(inv.PaidAmount)

	if inv.BalanceAmount.IsZero() {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
		inv.AddDomainEvent(NewInvoicePaymentAppliedEvent(inv, receiptID, amount.Amount()))
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// ReversePayment returns a previously applied payment to the open balance,
// used when a draft receipt deallocates from this invoice. Returns the
// reversed amount.
func (inv *LeaseInvoice) ReversePayment(receiptID uuid.UUID) (decimal.Decimal, error) {
	if inv.Status.IsTerminal() {
		return decimal.Zero, shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot reverse payment on invoice in %s status", inv.Status))
	}

	reversed := decimal.Zero
	found := false
	now := time.Now()
	for i := range inv.PaymentRecords {
		rec := &inv.PaymentRecords[i]
		if rec.ReceiptID == receiptID && !rec.Reversed {
			rec.Reversed = true
			rec.ReversedAt = &now
			reversed = reversed.Add(rec.Amount)
			found = true
		}
	}
	if !found {
		return decimal.Zero, shared.NewValidationError("No active payment from this receipt to reverse")
	}

	inv.PaidAmount = inv.PaidAmount.Sub(reversed)
	inv.BalanceAmount = inv.TotalAmount.Sub(inv.PaidAmount)

	if inv.PaidAmount.IsZero() {
		inv.Status = InvoiceStatusPosted
		inv.PaidAt = nil
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}

	inv.UpdatedAt = now
	inv.IncrementVersion()

	return reversed, nil
}

// ChangeStatus performs a manual status transition for corrections.
// Payment-derived statuses are normally set by ApplyPayment; this path
// validates against the transition table and rejects everything else.
func (inv *LeaseInvoice) ChangeStatus(target InvoiceStatus, actor uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unknown invoice status %q", target))
	}
	if target == inv.Status {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Invoice is already in %s status", target))
	}
	if !inv.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot transition invoice from %s to %s", inv.Status, target))
	}

	now := time.Now()
	switch target {
	case InvoiceStatusCancelled:
		inv.CancelledAt = &now
		inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))
	case InvoiceStatusVoid:
		inv.VoidedAt = &now
		inv.AddDomainEvent(NewInvoiceVoidedEvent(inv))
	case InvoiceStatusPosted:
		inv.PostedAt = &now
		inv.AddDomainEvent(NewInvoicePostedEvent(inv))
	case InvoiceStatusPaid:
		inv.PaidAt = &now
	}

	inv.Status = target
	inv.Touch(actor)
	inv.UpdatedAt = now
	inv.IncrementVersion()

	return nil
}

// Cancel cancels the invoice with a reason
func (inv *LeaseInvoice) Cancel(reason string, actor uuid.UUID) error {
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}
	if err := inv.ChangeStatus(InvoiceStatusCancelled, actor); err != nil {
		return err
	}
	inv.CancelReason = reason
	return nil
}

// Void voids the invoice with a reason
func (inv *LeaseInvoice) Void(reason string, actor uuid.UUID) error {
	if reason == "" {
		return shared.NewValidationError("Void reason is required")
	}
	if err := inv.ChangeStatus(InvoiceStatusVoid, actor); err != nil {
		return err
	}
	inv.VoidReason = reason
	return nil
}

// SetRemark sets the free-text remark. Draft invoices only.
func (inv *LeaseInvoice) SetRemark(remark string, actor uuid.UUID) error {
	if err := inv.ensureEditable(); err != nil {
		return err
	}
	inv.Remark = remark
	inv.Touch(actor)
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// Helper methods

// GetTotalAmountMoney returns the total as Money in the invoice currency
func (inv *LeaseInvoice) GetTotalAmountMoney() valueobject.Money {
	return valueobject.MoneyIn(inv.TotalAmount, inv.CurrencyCode)
}

// GetBalanceAmountMoney returns the open balance as Money
func (inv *LeaseInvoice) GetBalanceAmountMoney() valueobject.Money {
	return valueobject.MoneyIn(inv.BalanceAmount, inv.CurrencyCode)
}

// GetPaidAmountMoney returns the paid amount as Money
func (inv *LeaseInvoice) GetPaidAmountMoney() valueobject.Money {
	return valueobject.MoneyIn(inv.PaidAmount, inv.CurrencyCode)
}

// IsOverdue returns true if the invoice is past due and not settled
func (inv *LeaseInvoice) IsOverdue() bool {
	if inv.Status.IsTerminal() || inv.Status == InvoiceStatusPaid || inv.DueDate == nil {
		return false
	}
	return time.Now().After(*inv.DueDate)
}

// ActivePaymentCount returns the number of non-reversed payments applied
func (inv *LeaseInvoice) ActivePaymentCount() int {
	n := 0
	for _, rec := range inv.PaymentRecords {
		if !rec.Reversed {
			n++
		}
	}
	return n
}
