package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceiptCreatedEvent is raised when a new lease receipt is created
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	ContractID    uuid.UUID       `json:"contract_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	ReceiptAmount decimal.Decimal `json:"receipt_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// EventType returns the event type name
func (e *ReceiptCreatedEvent) EventType() string {
	return "LeaseReceiptCreated"
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(rc *LeaseReceipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseReceiptCreated", "LeaseReceipt", rc.ID),
		ReceiptID:       rc.ID,
		ReceiptNumber:   rc.ReceiptNumber,
		ContractID:      rc.ContractID,
		CustomerID:      rc.CustomerID,
		CustomerName:    rc.CustomerName,
		ReceiptAmount:   rc.ReceiptAmount,
		PaymentMethod:   rc.PaymentMethod,
	}
}

// ReceiptAllocatedEvent is raised when a receipt allocates to an invoice
type ReceiptAllocatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID         uuid.UUID       `json:"receipt_id"`
	ReceiptNumber     string          `json:"receipt_number"`
	InvoiceID         uuid.UUID       `json:"invoice_id"`
	InvoiceNumber     string          `json:"invoice_number"`
	AllocatedAmount   decimal.Decimal `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal `json:"unallocated_amount"`
}

// EventType returns the event type name
func (e *ReceiptAllocatedEvent) EventType() string {
	return "LeaseReceiptAllocated"
}

// NewReceiptAllocatedEvent creates a new ReceiptAllocatedEvent
func NewReceiptAllocatedEvent(rc *LeaseReceipt, allocation *PaymentAllocation) *ReceiptAllocatedEvent {
	return &ReceiptAllocatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent("LeaseReceiptAllocated", "LeaseReceipt", rc.ID),
		ReceiptID:         rc.ID,
		ReceiptNumber:     rc.ReceiptNumber,
		InvoiceID:         allocation.InvoiceID,
		InvoiceNumber:     allocation.InvoiceNumber,
		AllocatedAmount:   allocation.AllocatedAmount,
		UnallocatedAmount: rc.UnallocatedAmount,
	}
}

// ReceiptDeallocatedEvent is raised when an allocation is removed
type ReceiptDeallocatedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	FreedAmount   decimal.Decimal `json:"freed_amount"`
}

// EventType returns the event type name
func (e *ReceiptDeallocatedEvent) EventType() string {
	return "LeaseReceiptDeallocated"
}

// NewReceiptDeallocatedEvent creates a new ReceiptDeallocatedEvent
func NewReceiptDeallocatedEvent(rc *LeaseReceipt, invoiceID uuid.UUID, freed decimal.Decimal) *ReceiptDeallocatedEvent {
	return &ReceiptDeallocatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseReceiptDeallocated", "LeaseReceipt", rc.ID),
		ReceiptID:       rc.ID,
		ReceiptNumber:   rc.ReceiptNumber,
		InvoiceID:       invoiceID,
		FreedAmount:     freed,
	}
}

// ReceiptPostedEvent is raised when a receipt is posted
type ReceiptPostedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	ReceiptNumber string          `json:"receipt_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	ReceiptAmount decimal.Decimal `json:"receipt_amount"`
}

// EventType returns the event type name
func (e *ReceiptPostedEvent) EventType() string {
	return "LeaseReceiptPosted"
}

// NewReceiptPostedEvent creates a new ReceiptPostedEvent
func NewReceiptPostedEvent(rc *LeaseReceipt) *ReceiptPostedEvent {
	return &ReceiptPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseReceiptPosted", "LeaseReceipt", rc.ID),
		ReceiptID:       rc.ID,
		ReceiptNumber:   rc.ReceiptNumber,
		CustomerID:      rc.CustomerID,
		ReceiptAmount:   rc.ReceiptAmount,
	}
}

// ReceiptClearedEvent is raised when a cheque receipt is marked cleared
type ReceiptClearedEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID  `json:"receipt_id"`
	ReceiptNumber string     `json:"receipt_number"`
	ChequeNumber  string     `json:"cheque_number,omitempty"`
	ClearingDate  *time.Time `json:"clearing_date,omitempty"`
}

// EventType returns the event type name
func (e *ReceiptClearedEvent) EventType() string {
	return "LeaseReceiptCleared"
}

// NewReceiptClearedEvent creates a new ReceiptClearedEvent
func NewReceiptClearedEvent(rc *LeaseReceipt) *ReceiptClearedEvent {
	return &ReceiptClearedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseReceiptCleared", "LeaseReceipt", rc.ID),
		ReceiptID:       rc.ID,
		ReceiptNumber:   rc.ReceiptNumber,
		ChequeNumber:    rc.ChequeNumber,
		ClearingDate:    rc.ClearingDate,
	}
}

// ReceiptCancelledEvent is raised when a receipt is cancelled
type ReceiptCancelledEvent struct {
	shared.BaseDomainEvent
	ReceiptID     uuid.UUID `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	Reason        string    `json:"reason"`
}

// EventType returns the event type name
func (e *ReceiptCancelledEvent) EventType() string {
	return "LeaseReceiptCancelled"
}

// NewReceiptCancelledEvent creates a new ReceiptCancelledEvent
func NewReceiptCancelledEvent(rc *LeaseReceipt) *ReceiptCancelledEvent {
	return &ReceiptCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("LeaseReceiptCancelled", "LeaseReceipt", rc.ID),
		ReceiptID:       rc.ID,
		ReceiptNumber:   rc.ReceiptNumber,
		Reason:          rc.CancelReason,
	}
}
