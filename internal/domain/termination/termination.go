package termination

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

// TerminationStatus represents the lifecycle status of a contract termination
type TerminationStatus string

const (
	TerminationStatusDraft     TerminationStatus = "DRAFT"     // Being prepared
	TerminationStatusPending   TerminationStatus = "PENDING"   // Submitted for review
	TerminationStatusApproved  TerminationStatus = "APPROVED"  // Cleared for refund processing
	TerminationStatusCompleted TerminationStatus = "COMPLETED" // Settlement fully executed
	TerminationStatusCancelled TerminationStatus = "CANCELLED" // Abandoned
)

// IsValid checks if the status is a valid TerminationStatus
func (s TerminationStatus) IsValid() bool {
	switch s {
	case TerminationStatusDraft, TerminationStatusPending, TerminationStatusApproved,
		TerminationStatusCompleted, TerminationStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TerminationStatus
func (s TerminationStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the termination is in a terminal state
func (s TerminationStatus) IsTerminal() bool {
	return s == TerminationStatusCompleted || s == TerminationStatusCancelled
}

var legalStatusTransitions = map[TerminationStatus][]TerminationStatus{
	TerminationStatusDraft:    {TerminationStatusPending, TerminationStatusCancelled},
	TerminationStatusPending:  {TerminationStatusApproved, TerminationStatusDraft, TerminationStatusCancelled},
	TerminationStatusApproved: {TerminationStatusCompleted, TerminationStatusCancelled},
}

// CanTransitionTo returns true if a transition to target is legal
func (s TerminationStatus) CanTransitionTo(target TerminationStatus) bool {
	for _, allowed := range legalStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TerminationDeduction is a deduction withheld from the security deposit.
// Tax and total are derived at construction, mirroring invoice charge lines.
type TerminationDeduction struct {
	ID                uuid.UUID       `json:"id"`
	DeductionChargeID *uuid.UUID      `json:"deduction_charge_id,omitempty"`
	Description       string          `json:"description"`
	DeductionAmount   decimal.Decimal `json:"deduction_amount"`
	TaxPercentage     decimal.Decimal `json:"tax_percentage"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// NewTerminationDeduction creates a deduction line, deriving tax and total
func NewTerminationDeduction(description string, deductionAmount valueobject.Money, taxPercentage decimal.Decimal, chargeID *uuid.UUID) (*TerminationDeduction, error) {
	if description == "" {
		return nil, shared.NewValidationError("Deduction description cannot be empty")
	}
	if deductionAmount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Deduction amount cannot be negative")
	}
	if taxPercentage.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Tax percentage cannot be negative")
	}

	tax := deductionAmount.PercentageOf(taxPercentage)
	total := deductionAmount.MustAdd(tax)

	return &TerminationDeduction{
		ID:                uuid.New(),
		DeductionChargeID: chargeID,
		Description:       description,
		DeductionAmount:   deductionAmount.Amount(),
		TaxPercentage:     taxPercentage,
		TaxAmount:         tax.Amount(),
		TotalAmount:       total.Amount(),
	}, nil
}

// TerminationDeductions is a slice of TerminationDeduction with GORM
// Scanner/Valuer support for JSONB storage.
type TerminationDeductions []TerminationDeduction

// Value implements driver.Valuer
func (d TerminationDeductions) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner
func (d *TerminationDeductions) Scan(value interface{}) error {
	if value == nil {
		*d = TerminationDeductions{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TerminationDeductions: unsupported type")
	}
	if len(bytes) == 0 {
		*d = TerminationDeductions{}
		return nil
	}
	return json.Unmarshal(bytes, d)
}

// Attachment references a document stored for the termination
type Attachment struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	StorageKey string    `json:"storage_key"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Attachments is a slice of Attachment with GORM Scanner/Valuer support
type Attachments []Attachment

// Value implements driver.Valuer
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *Attachments) Scan(value interface{}) error {
	if value == nil {
		*a = Attachments{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Attachments: unsupported type")
	}
	if len(bytes) == 0 {
		*a = Attachments{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// SettlementFigures is the derived outcome of a settlement calculation
type SettlementFigures struct {
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetSettlement    decimal.Decimal `json:"net_settlement"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	CreditNoteAmount decimal.Decimal `json:"credit_note_amount"`
}

// ContractTermination settles a lease contract's security deposit against
// deductions. The settlement nets Deposit - TotalDeductions + Adjust and
// bifurcates into exactly one of a refund (net >= 0) or a credit note
// (net < 0). Figures are recalculated on demand, not on every field edit.
//
// Once the embedded approval is granted the record locks: every mutation
// fails with IMMUTABLE_RECORD until the approval is reset.
type ContractTermination struct {
	shared.AuditedAggregateRoot
	TerminationNumber     string                `json:"termination_number"`
	ContractID            uuid.UUID             `json:"contract_id"`
	CustomerID            uuid.UUID             `json:"customer_id"`
	CustomerName          string                `json:"customer_name"`
	UnitID                *uuid.UUID            `json:"unit_id,omitempty"`
	CurrencyCode          valueobject.Currency  `json:"currency_code"`
	TerminationDate       time.Time             `json:"termination_date"`
	SecurityDepositAmount decimal.Decimal       `json:"security_deposit_amount"`
	TotalDeductions       decimal.Decimal       `json:"total_deductions"`
	AdjustAmount          decimal.Decimal       `json:"adjust_amount"`
	TotalInvoiced         decimal.Decimal       `json:"total_invoiced"`
	TotalReceived         decimal.Decimal       `json:"total_received"`
	NetSettlement         decimal.Decimal       `json:"net_settlement"`
	RefundAmount          decimal.Decimal       `json:"refund_amount"`
	CreditNoteAmount      decimal.Decimal       `json:"credit_note_amount"`
	IsRefundProcessed     bool                  `json:"is_refund_processed"`
	RefundDate            *time.Time            `json:"refund_date,omitempty"`
	RefundReference       string                `json:"refund_reference,omitempty"`
	Status                TerminationStatus     `json:"status"`
	Approval              shared.Approval       `json:"approval" gorm:"embedded;embeddedPrefix:approval_"`
	Deductions            TerminationDeductions `json:"deductions"`
	Attachments           Attachments           `json:"attachments"`
	TerminationReason     string                `json:"termination_reason"`
	Remark                string                `json:"remark"`
	CancelledAt           *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason          string                `json:"cancel_reason,omitempty"`
}

// NewContractTermination creates a termination in Draft status
func NewContractTermination(
	terminationNumber string,
	contractID uuid.UUID,
	customerID uuid.UUID,
	customerName string,
	currency valueobject.Currency,
	securityDeposit valueobject.Money,
	terminationDate time.Time,
	terminationReason string,
	requiresApproval bool,
	createdBy uuid.UUID,
) (*ContractTermination, error) {
	if terminationNumber == "" {
		return nil, shared.NewValidationError("Termination number cannot be empty")
	}
	if len(terminationNumber) > 50 {
		return nil, shared.NewValidationError("Termination number cannot exceed 50 characters")
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
	if securityDeposit.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Security deposit cannot be negative")
	}
	if terminationDate.IsZero() {
		return nil, shared.NewValidationError("Termination date is required")
	}

	tm := &ContractTermination{
		AuditedAggregateRoot:  shared.NewAuditedAggregateRoot(createdBy),
		TerminationNumber:     terminationNumber,
		ContractID:            contractID,
		CustomerID:            customerID,
		CustomerName:          customerName,
		CurrencyCode:          currency,
		TerminationDate:       terminationDate,
		SecurityDepositAmount: securityDeposit.Amount(),
		TerminationReason:     terminationReason,
		Status:                TerminationStatusDraft,
		Approval:              shared.NewApproval(requiresApproval),
		Deductions:            TerminationDeductions{},
		Attachments:           Attachments{},
	}
	tm.CalculateFigures()

	tm.AddDomainEvent(NewTerminationCreatedEvent(tm))

	return tm, nil
}

// ensureMutable rejects mutations on approval-locked or terminal records
func (tm *ContractTermination) ensureMutable() error {
	if tm.Approval.IsLocked() {
		return shared.NewImmutableRecordError(
			fmt.Sprintf("Termination %s is approval-locked; reset the approval first", tm.TerminationNumber))
	}
	if tm.Status.IsTerminal() {
		return shared.NewImmutableRecordError(
			fmt.Sprintf("Termination %s cannot be modified in %s status", tm.TerminationNumber, tm.Status))
	}
	return nil
}

// CanDelete returns true if the termination may be deleted
func (tm *ContractTermination) CanDelete() bool {
	return tm.Status == TerminationStatusDraft && !tm.Approval.IsLocked()
}

// CalculateFigures rederives the settlement from the current deposit,
// deductions and adjust amount. Net >= 0 yields a refund, net < 0 a credit
// note; never both. Safe to call repeatedly with unchanged inputs.
func (tm *ContractTermination) CalculateFigures() SettlementFigures {
	total := decimal.Zero
	for _, d := range tm.Deductions {
		total = total.Add(d.TotalAmount)
	}

	net := tm.SecurityDepositAmount.Sub(total).Add(tm.AdjustAmount)

	tm.TotalDeductions = total
	tm.NetSettlement = net
	if net.IsNegative() {
		tm.CreditNoteAmount = net.Neg()
		tm.RefundAmount = decimal.Zero
	} else {
		tm.RefundAmount = net
		tm.CreditNoteAmount = decimal.Zero
	}

	return SettlementFigures{
		TotalDeductions:  tm.TotalDeductions,
		NetSettlement:    tm.NetSettlement,
		RefundAmount:     tm.RefundAmount,
		CreditNoteAmount: tm.CreditNoteAmount,
	}
}

// AddDeduction appends a deduction line and recalculates the settlement
func (tm *ContractTermination) AddDeduction(description string, amount valueobject.Money, taxPercentage decimal.Decimal, chargeID *uuid.UUID, actor uuid.UUID) (*TerminationDeduction, error) {
	if err := tm.ensureMutable(); err != nil {
		return nil, err
	}

	deduction, err := NewTerminationDeduction(description, amount, taxPercentage, chargeID)
	if err != nil {
		return nil, err
	}
	tm.Deductions = append(tm.Deductions, *deduction)
	tm.CalculateFigures()

	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	return deduction, nil
}

// RemoveDeduction deletes a deduction line by ID and recalculates
func (tm *ContractTermination) RemoveDeduction(deductionID uuid.UUID, actor uuid.UUID) error {
	if err := tm.ensureMutable(); err != nil {
		return err
	}

	for i, d := range tm.Deductions {
		if d.ID == deductionID {
			tm.Deductions = append(tm.Deductions[:i], tm.Deductions[i+1:]...)
			tm.CalculateFigures()
			tm.Touch(actor)
			tm.UpdatedAt = time.Now()
			tm.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// SetAdjustAmount records a manual settlement correction, positive or
// negative, and recalculates.
func (tm *ContractTermination) SetAdjustAmount(adjust decimal.Decimal, actor uuid.UUID) error {
	if err := tm.ensureMutable(); err != nil {
		return err
	}

	tm.AdjustAmount = adjust
	tm.CalculateFigures()

	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	return nil
}

// SetContractFigures records the reference figures from the contract's
// invoice and receipt history.
func (tm *ContractTermination) SetContractFigures(totalInvoiced, totalReceived decimal.Decimal, actor uuid.UUID) error {
	if err := tm.ensureMutable(); err != nil {
		return err
	}
	if totalInvoiced.IsNegative() || totalReceived.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Contract figures cannot be negative")
	}

	tm.TotalInvoiced = totalInvoiced
	tm.TotalReceived = totalReceived

	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	return nil
}

// UpdateSecurityDeposit changes the deposit amount and recalculates
func (tm *ContractTermination) UpdateSecurityDeposit(deposit valueobject.Money, actor uuid.UUID) error {
	if err := tm.ensureMutable(); err != nil {
		return err
	}
	if deposit.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Security deposit cannot be negative")
	}

	tm.SecurityDepositAmount = deposit.Amount()
	tm.CalculateFigures()

	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	return nil
}

// AddAttachment records a stored document against the termination
func (tm *ContractTermination) AddAttachment(fileName, storageKey string, actor uuid.UUID) (*Attachment, error) {
	if err := tm.ensureMutable(); err != nil {
		return nil, err
	}
	if fileName == "" || storageKey == "" {
		return nil, shared.NewValidationError("Attachment file name and storage key are required")
	}

	attachment := Attachment{
		ID:         uuid.New(),
		FileName:   fileName,
		StorageKey: storageKey,
		UploadedBy: actor,
		UploadedAt: time.Now(),
	}
	tm.Attachments = append(tm.Attachments, attachment)

	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	return &attachment, nil
}

// RemoveAttachment deletes an attachment reference by ID
func (tm *ContractTermination) RemoveAttachment(attachmentID uuid.UUID, actor uuid.UUID) error {
	if err := tm.ensureMutable(); err != nil {
		return err
	}

	for i, a := range tm.Attachments {
		if a.ID == attachmentID {
			tm.Attachments = append(tm.Attachments[:i], tm.Attachments[i+1:]...)
			tm.Touch(actor)
			tm.UpdatedAt = time.Now()
			tm.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// ChangeStatus moves the termination through its lifecycle. Approval lock
// takes precedence over any otherwise legal transition.
func (tm *ContractTermination) ChangeStatus(target TerminationStatus, actor uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unknown termination status %q", target))
	}
	if tm.Approval.IsLocked() && target != TerminationStatusCompleted {
		return shared.NewImmutableRecordError(
			fmt.Sprintf("Termination %s is approval-locked; reset the approval first", tm.TerminationNumber))
	}
	if target == tm.Status {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Termination is already in %s status", target))
	}
	if !tm.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot transition termination from %s to %s", tm.Status, target))
	}

	tm.Status = target
	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	return nil
}

// Submit moves a draft termination to Pending review
func (tm *ContractTermination) Submit(actor uuid.UUID) error {
	if err := tm.ChangeStatus(TerminationStatusPending, actor); err != nil {
		return err
	}
	tm.AddDomainEvent(NewTerminationSubmittedEvent(tm))
	return nil
}

// Approve grants the embedded approval and advances the lifecycle to
// Approved. After this the record is locked against edits.
func (tm *ContractTermination) Approve(approver uuid.UUID, comment string) error {
	if tm.Status != TerminationStatusPending {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot approve termination in %s status", tm.Status))
	}
	if tm.Approval.Required {
		if err := tm.Approval.Approve(approver, comment); err != nil {
			return err
		}
	}

	tm.Status = TerminationStatusApproved
	tm.Touch(approver)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	tm.AddDomainEvent(NewTerminationApprovedEvent(tm, approver))

	return nil
}

// Reject declines the termination and returns it to Draft for rework
func (tm *ContractTermination) Reject(rejecter uuid.UUID, reason string) error {
	if tm.Status != TerminationStatusPending {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot reject termination in %s status", tm.Status))
	}
	if tm.Approval.Required {
		if err := tm.Approval.Reject(rejecter, reason); err != nil {
			return err
		}
	} else if reason == "" {
		return shared.NewValidationError("Rejection reason is required")
	}

	tm.Status = TerminationStatusDraft
	tm.Touch(rejecter)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	tm.AddDomainEvent(NewTerminationRejectedEvent(tm, rejecter, reason))

	return nil
}

// ResetApproval unwinds a granted or rejected approval, unlocking the
// record and returning it to Pending review. Not permitted after the
// refund has been processed.
func (tm *ContractTermination) ResetApproval(actor uuid.UUID) error {
	if tm.IsRefundProcessed {
		return shared.NewImmutableRecordError(
			fmt.Sprintf("Termination %s refund has been processed; approval cannot be reset", tm.TerminationNumber))
	}
	if tm.Status.IsTerminal() {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot reset approval of termination in %s status", tm.Status))
	}
	if err := tm.Approval.Reset(); err != nil {
		return err
	}

	tm.Status = TerminationStatusPending
	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	tm.AddDomainEvent(NewTerminationApprovalResetEvent(tm, actor))

	return nil
}

// ProcessRefund marks the deposit refund as paid out. It requires the
// lifecycle to be Approved, the approval (when required) to be granted, a
// positive refund amount and a date plus payment reference. There is no
// un-process; the operation is one-way.
func (tm *ContractTermination) ProcessRefund(date time.Time, reference string, actor uuid.UUID) error {
	if tm.Status != TerminationStatusApproved {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot process refund for termination in %s status", tm.Status))
	}
	if tm.Approval.Required && !tm.Approval.IsApproved() {
		return shared.NewInvalidTransitionError("Refund requires a granted approval")
	}
	if tm.IsRefundProcessed {
		return shared.NewInvalidTransitionError("Refund has already been processed")
	}
	if !tm.RefundAmount.IsPositive() {
		return shared.NewValidationError("No refund amount to process")
	}
	if date.IsZero() {
		return shared.NewValidationError("Refund date is required")
	}
	if reference == "" {
		return shared.NewValidationError("Refund reference is required")
	}

	tm.IsRefundProcessed = true
	tm.RefundDate = &date
	tm.RefundReference = reference

	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	tm.AddDomainEvent(NewRefundProcessedEvent(tm, reference))

	return nil
}

// Complete closes out an approved termination
func (tm *ContractTermination) Complete(actor uuid.UUID) error {
	if tm.Status != TerminationStatusApproved {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot complete termination in %s status", tm.Status))
	}
	if tm.RefundAmount.IsPositive() && !tm.IsRefundProcessed {
		return shared.NewInvalidTransitionError("Refund must be processed before completion")
	}

	tm.Status = TerminationStatusCompleted
	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()

	tm.AddDomainEvent(NewTerminationCompletedEvent(tm))

	return nil
}

// Cancel abandons the termination with a reason
func (tm *ContractTermination) Cancel(reason string, actor uuid.UUID) error {
	if tm.Approval.IsLocked() {
		return shared.NewImmutableRecordError(
			fmt.Sprintf("Termination %s is approval-locked; reset the approval first", tm.TerminationNumber))
	}
	if tm.Status.IsTerminal() {
		return shared.NewInvalidTransitionError(
			fmt.Sprintf("Cannot cancel termination in %s status", tm.Status))
	}
	if reason == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	now := time.Now()
	tm.Status = TerminationStatusCancelled
	tm.CancelledAt = &now
	tm.CancelReason = reason
	tm.Touch(actor)
	tm.UpdatedAt = now
	tm.IncrementVersion()

	tm.AddDomainEvent(NewTerminationCancelledEvent(tm))

	return nil
}

// SetRemark sets the free-text remark
func (tm *ContractTermination) SetRemark(remark string, actor uuid.UUID) error {
	if err := tm.ensureMutable(); err != nil {
		return err
	}
	tm.Remark = remark
	tm.Touch(actor)
	tm.UpdatedAt = time.Now()
	tm.IncrementVersion()
	return nil
}

// Helper methods

// GetRefundAmountMoney returns the refund amount as Money
func (tm *ContractTermination) GetRefundAmountMoney() valueobject.Money {
	return valueobject.MoneyIn(tm.RefundAmount, tm.CurrencyCode)
}

// GetCreditNoteAmountMoney returns the credit note amount as Money
func (tm *ContractTermination) GetCreditNoteAmountMoney() valueobject.Money {
	return valueobject.MoneyIn(tm.CreditNoteAmount, tm.CurrencyCode)
}

// HasRefund returns true when the settlement resolves to a refund
func (tm *ContractTermination) HasRefund() bool {
	return tm.RefundAmount.IsPositive()
}

// HasCreditNote returns true when the settlement resolves to a credit note
func (tm *ContractTermination) HasCreditNote() bool {
	return tm.CreditNoteAmount.IsPositive()
}
