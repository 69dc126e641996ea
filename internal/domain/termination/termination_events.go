package termination

import (
	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TerminationCreatedEvent is raised when a contract termination is opened
type TerminationCreatedEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID       `json:"termination_id"`
	TerminationNumber string          `json:"termination_number"`
	ContractID        uuid.UUID       `json:"contract_id"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	CustomerName      string          `json:"customer_name"`
	SecurityDeposit   decimal.Decimal `json:"security_deposit"`
}

// EventType returns the event type name
func (e *TerminationCreatedEvent) EventType() string {
	return "ContractTerminationCreated"
}

// NewTerminationCreatedEvent creates a new TerminationCreatedEvent
func NewTerminationCreatedEvent(tm *ContractTermination) *TerminationCreatedEvent {
	return &TerminationCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("ContractTerminationCreated", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
		ContractID:        tm.ContractID,
		CustomerID:        tm.CustomerID,
		CustomerName:      tm.CustomerName,
		SecurityDeposit:   tm.SecurityDepositAmount,
	}
}

// TerminationSubmittedEvent is raised when a termination enters review
type TerminationSubmittedEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID       `json:"termination_id"`
	TerminationNumber string          `json:"termination_number"`
	NetSettlement     decimal.Decimal `json:"net_settlement"`
}

// EventType returns the event type name
func (e *TerminationSubmittedEvent) EventType() string {
	return "ContractTerminationSubmitted"
}

// NewTerminationSubmittedEvent creates a new TerminationSubmittedEvent
func NewTerminationSubmittedEvent(tm *ContractTermination) *TerminationSubmittedEvent {
	return &TerminationSubmittedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("ContractTerminationSubmitted", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
		NetSettlement:     tm.NetSettlement,
	}
}

// TerminationApprovedEvent is raised when a termination is approved
type TerminationApprovedEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID       `json:"termination_id"`
	TerminationNumber string          `json:"termination_number"`
	ApprovedBy        uuid.UUID       `json:"approved_by"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
	CreditNoteAmount  decimal.Decimal `json:"credit_note_amount"`
}

// EventType returns the event type name
func (e *TerminationApprovedEvent) EventType() string {
	return "ContractTerminationApproved"
}

// NewTerminationApprovedEvent creates a new TerminationApprovedEvent
func NewTerminationApprovedEvent(tm *ContractTermination, approver uuid.UUID) *TerminationApprovedEvent {
	return &TerminationApprovedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("ContractTerminationApproved", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
		ApprovedBy:        approver,
		RefundAmount:      tm.RefundAmount,
		CreditNoteAmount:  tm.CreditNoteAmount,
	}
}

// TerminationRejectedEvent is raised when a termination is sent back
type TerminationRejectedEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID `json:"termination_id"`
	TerminationNumber string    `json:"termination_number"`
	RejectedBy        uuid.UUID `json:"rejected_by"`
	Reason            string    `json:"reason"`
}

// EventType returns the event type name
func (e *TerminationRejectedEvent) EventType() string {
	return "ContractTerminationRejected"
}

// NewTerminationRejectedEvent creates a new TerminationRejectedEvent
func NewTerminationRejectedEvent(tm *ContractTermination, rejecter uuid.UUID, reason string) *TerminationRejectedEvent {
	return &TerminationRejectedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("ContractTerminationRejected", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
		RejectedBy:        rejecter,
		Reason:            reason,
	}
}

// TerminationApprovalResetEvent is raised when an approval is unwound
type TerminationApprovalResetEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID `json:"termination_id"`
	TerminationNumber string    `json:"termination_number"`
	ResetBy           uuid.UUID `json:"reset_by"`
}

// EventType returns the event type name
func (e *TerminationApprovalResetEvent) EventType() string {
	return "ContractTerminationApprovalReset"
}

// NewTerminationApprovalResetEvent creates a new TerminationApprovalResetEvent
func NewTerminationApprovalResetEvent(tm *ContractTermination, actor uuid.UUID) *TerminationApprovalResetEvent {
	return &TerminationApprovalResetEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("ContractTerminationApprovalReset", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
		ResetBy:           actor,
	}
}

// RefundProcessedEvent is raised when the deposit refund is paid out
type RefundProcessedEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID       `json:"termination_id"`
	TerminationNumber string          `json:"termination_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	RefundAmount      decimal.Decimal `json:"refund_amount"`
	RefundReference   string          `json:"refund_reference"`
}

// EventType returns the event type name
func (e *RefundProcessedEvent) EventType() string {
	return "TerminationRefundProcessed"
}

// NewRefundProcessedEvent creates a new RefundProcessedEvent
func NewRefundProcessedEvent(tm *ContractTermination, reference string) *RefundProcessedEvent {
	return &RefundProcessedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("TerminationRefundProcessed", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
		CustomerID:        tm.CustomerID,
		RefundAmount:      tm.RefundAmount,
		RefundReference:   reference,
	}
}

// TerminationCompletedEvent is raised when a termination is closed out
type TerminationCompletedEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID `json:"termination_id"`
	TerminationNumber string    `json:"termination_number"`
}

// EventType returns the event type name
func (e *TerminationCompletedEvent) EventType() string {
	return "ContractTerminationCompleted"
}

// NewTerminationCompletedEvent creates a new TerminationCompletedEvent
func NewTerminationCompletedEvent(tm *ContractTermination) *TerminationCompletedEvent {
	return &TerminationCompletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("ContractTerminationCompleted", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
	}
}

// TerminationCancelledEvent is raised when a termination is abandoned
type TerminationCancelledEvent struct {
	shared.BaseDomainEvent
	TerminationID     uuid.UUID `json:"termination_id"`
	TerminationNumber string    `json:"termination_number"`
	Reason            string    `json:"reason"`
}

// EventType returns the event type name
func (e *TerminationCancelledEvent) EventType() string {
	return "ContractTerminationCancelled"
}

// NewTerminationCancelledEvent creates a new TerminationCancelledEvent
func NewTerminationCancelledEvent(tm *ContractTermination) *TerminationCancelledEvent {
	return &TerminationCancelledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("ContractTerminationCancelled", "ContractTermination", tm.ID),
		TerminationID:     tm.ID,
		TerminationNumber: tm.TerminationNumber,
		Reason:            tm.CancelReason,
	}
}
