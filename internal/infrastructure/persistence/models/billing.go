package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leasedesk/backend/internal/domain/billing"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
)

// LeaseInvoiceModel is the persistence model for the LeaseInvoice aggregate.
// Charge lines and payment records are stored as JSONB documents; they are
// value children of the invoice and are never queried independently.
type LeaseInvoiceModel struct {
	AuditedAggregateModel
	InvoiceNumber     string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	ContractID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName      string                 `gorm:"type:varchar(200);not null"`
	UnitID            *uuid.UUID             `gorm:"type:uuid"`
	CostCenterID      *uuid.UUID             `gorm:"type:uuid"`
	CurrencyCode      string                 `gorm:"type:varchar(3);not null"`
	InvoiceDate       time.Time              `gorm:"not null"`
	DueDate           *time.Time             `gorm:"index"`
	InvoiceAmount     decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPercentage     decimal.Decimal        `gorm:"type:decimal(9,4);not null;default:0"`
	TaxAmount         decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	AdditionalCharges decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount    decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount       decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount        decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	BalanceAmount     decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Status            billing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	ChargeLines       billing.ChargeLines    `gorm:"type:jsonb"`
	PaymentRecords    billing.PaymentRecords `gorm:"type:jsonb"`
	Remark            string                 `gorm:"type:text"`
	PostedAt          *time.Time
	PaidAt            *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:text"`
	VoidedAt          *time.Time
	VoidReason        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeaseInvoiceModel) TableName() string {
	return "lease_invoices"
}

// ToDomain converts the persistence model to a domain LeaseInvoice
func (m *LeaseInvoiceModel) ToDomain() *billing.LeaseInvoice {
	inv := &billing.LeaseInvoice{
		InvoiceNumber:     m.InvoiceNumber,
		ContractID:        m.ContractID,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		UnitID:            m.UnitID,
		CostCenterID:      m.CostCenterID,
		CurrencyCode:      valueobject.Currency(m.CurrencyCode),
		InvoiceDate:       m.InvoiceDate,
		DueDate:           m.DueDate,
		InvoiceAmount:     m.InvoiceAmount,
		TaxPercentage:     m.TaxPercentage,
		TaxAmount:         m.TaxAmount,
		AdditionalCharges: m.AdditionalCharges,
		DiscountAmount:    m.DiscountAmount,
		TotalAmount:       m.TotalAmount,
		PaidAmount:        m.PaidAmount,
		BalanceAmount:     m.BalanceAmount,
		Status:            m.Status,
		ChargeLines:       m.ChargeLines,
		PaymentRecords:    m.PaymentRecords,
		Remark:            m.Remark,
		PostedAt:          m.PostedAt,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		VoidedAt:          m.VoidedAt,
		VoidReason:        m.VoidReason,
	}
	m.PopulateAuditedAggregateRoot(&inv.AuditedAggregateRoot)
	return inv
}

// FromDomain populates the persistence model from a domain LeaseInvoice
func (m *LeaseInvoiceModel) FromDomain(inv *billing.LeaseInvoice) {
	m.FromDomainAuditedAggregateRoot(inv.AuditedAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.ContractID = inv.ContractID
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.UnitID = inv.UnitID
	m.CostCenterID = inv.CostCenterID
	m.CurrencyCode = string(inv.CurrencyCode)
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.InvoiceAmount = inv.InvoiceAmount
	m.TaxPercentage = inv.TaxPercentage
	m.TaxAmount = inv.TaxAmount
	m.AdditionalCharges = inv.AdditionalCharges
	m.DiscountAmount = inv.DiscountAmount
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.BalanceAmount = inv.BalanceAmount
	m.Status = inv.Status
	m.ChargeLines = inv.ChargeLines
	m.PaymentRecords = inv.PaymentRecords
	m.Remark = inv.Remark
	m.PostedAt = inv.PostedAt
	m.PaidAt = inv.PaidAt
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
	m.VoidedAt = inv.VoidedAt
	m.VoidReason = inv.VoidReason
}

// LeaseInvoiceModelFromDomain creates a persistence model from a domain invoice
func LeaseInvoiceModelFromDomain(inv *billing.LeaseInvoice) *LeaseInvoiceModel {
	m := &LeaseInvoiceModel{}
	m.FromDomain(inv)
	return m
}

// LeaseReceiptModel is the persistence model for the LeaseReceipt aggregate.
// Allocations are stored as a JSONB document mirrored in the invoice's
// payment records.
type LeaseReceiptModel struct {
	AuditedAggregateModel
	ReceiptNumber     string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	ContractID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName      string                `gorm:"type:varchar(200);not null"`
	CurrencyCode      string                `gorm:"type:varchar(3);not null"`
	ReceiptAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	AllocatedAmount   decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	UnallocatedAmount decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod     billing.PaymentMethod `gorm:"type:varchar(20);not null"`
	PaymentReference  string                `gorm:"type:varchar(100)"`
	ChequeNumber      string                `gorm:"type:varchar(50);index"`
	BankName          string                `gorm:"type:varchar(100)"`
	ReceiptDate       time.Time             `gorm:"not null"`
	Status            billing.ReceiptStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	IsCleared         bool                  `gorm:"not null;default:false"`
	ClearingDate      *time.Time
	Allocations       billing.PaymentAllocations `gorm:"type:jsonb"`
	Remark            string                     `gorm:"type:text"`
	ValidatedAt       *time.Time
	PostedAt          *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LeaseReceiptModel) TableName() string {
	return "lease_receipts"
}

// ToDomain converts the persistence model to a domain LeaseReceipt
func (m *LeaseReceiptModel) ToDomain() *billing.LeaseReceipt {
	rc := &billing.LeaseReceipt{
		ReceiptNumber:     m.ReceiptNumber,
		ContractID:        m.ContractID,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		CurrencyCode:      valueobject.Currency(m.CurrencyCode),
		ReceiptAmount:     m.ReceiptAmount,
		AllocatedAmount:   m.AllocatedAmount,
		UnallocatedAmount: m.UnallocatedAmount,
		PaymentMethod:     m.PaymentMethod,
		PaymentReference:  m.PaymentReference,
		ChequeNumber:      m.ChequeNumber,
		BankName:          m.BankName,
		ReceiptDate:       m.ReceiptDate,
		Status:            m.Status,
		IsCleared:         m.IsCleared,
		ClearingDate:      m.ClearingDate,
		Allocations:       m.Allocations,
		Remark:            m.Remark,
		ValidatedAt:       m.ValidatedAt,
		PostedAt:          m.PostedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
	m.PopulateAuditedAggregateRoot(&rc.AuditedAggregateRoot)
	return rc
}

// FromDomain populates the persistence model from a domain LeaseReceipt
func (m *LeaseReceiptModel) FromDomain(rc *billing.LeaseReceipt) {
	m.FromDomainAuditedAggregateRoot(rc.AuditedAggregateRoot)
	m.ReceiptNumber = rc.ReceiptNumber
	m.ContractID = rc.ContractID
	m.CustomerID = rc.CustomerID
	m.CustomerName = rc.CustomerName
	m.CurrencyCode = string(rc.CurrencyCode)
	m.ReceiptAmount = rc.ReceiptAmount
	m.AllocatedAmount = rc.AllocatedAmount
	m.UnallocatedAmount = rc.UnallocatedAmount
	m.PaymentMethod = rc.PaymentMethod
	m.PaymentReference = rc.PaymentReference
	m.ChequeNumber = rc.ChequeNumber
	m.BankName = rc.BankName
	m.ReceiptDate = rc.ReceiptDate
	m.Status = rc.Status
	m.IsCleared = rc.IsCleared
	m.ClearingDate = rc.ClearingDate
	m.Allocations = rc.Allocations
	m.Remark = rc.Remark
	m.ValidatedAt = rc.ValidatedAt
	m.PostedAt = rc.PostedAt
	m.CancelledAt = rc.CancelledAt
	m.CancelReason = rc.CancelReason
}

// LeaseReceiptModelFromDomain creates a persistence model from a domain receipt
func LeaseReceiptModelFromDomain(rc *billing.LeaseReceipt) *LeaseReceiptModel {
	m := &LeaseReceiptModel{}
	m.FromDomain(rc)
	return m
}
