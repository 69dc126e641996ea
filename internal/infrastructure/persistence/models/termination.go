package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
	"github.com/leasedesk/backend/internal/domain/termination"
)

// ContractTerminationModel is the persistence model for the
// ContractTermination aggregate. Deduction lines and attachment references
// are JSONB documents; the approval state is embedded with a column prefix.
type ContractTerminationModel struct {
	AuditedAggregateModel
	TerminationNumber     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	ContractID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerName          string          `gorm:"type:varchar(200);not null"`
	UnitID                *uuid.UUID      `gorm:"type:uuid"`
	CurrencyCode          string          `gorm:"type:varchar(3);not null"`
	TerminationDate       time.Time       `gorm:"not null"`
	SecurityDepositAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalDeductions       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AdjustAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalInvoiced         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalReceived         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	NetSettlement         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RefundAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CreditNoteAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	IsRefundProcessed     bool            `gorm:"not null;default:false"`
	RefundDate            *time.Time
	RefundReference       string                            `gorm:"type:varchar(100)"`
	Status                termination.TerminationStatus     `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Approval              shared.Approval                   `gorm:"embedded;embeddedPrefix:approval_"`
	Deductions            termination.TerminationDeductions `gorm:"type:jsonb"`
	Attachments           termination.Attachments           `gorm:"type:jsonb"`
	TerminationReason     string                            `gorm:"type:text"`
	Remark                string                            `gorm:"type:text"`
	CancelledAt           *time.Time
	CancelReason          string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContractTerminationModel) TableName() string {
	return "contract_terminations"
}

// ToDomain converts the persistence model to a domain ContractTermination
func (m *ContractTerminationModel) ToDomain() *termination.ContractTermination {
	tm := &termination.ContractTermination{
		TerminationNumber:     m.TerminationNumber,
		ContractID:            m.ContractID,
		CustomerID:            m.CustomerID,
		CustomerName:          m.CustomerName,
		UnitID:                m.UnitID,
		CurrencyCode:          valueobject.Currency(m.CurrencyCode),
		TerminationDate:       m.TerminationDate,
		SecurityDepositAmount: m.SecurityDepositAmount,
		TotalDeductions:       m.TotalDeductions,
		AdjustAmount:          m.AdjustAmount,
		TotalInvoiced:         m.TotalInvoiced,
		TotalReceived:         m.TotalReceived,
		NetSettlement:         m.NetSettlement,
		RefundAmount:          m.RefundAmount,
		CreditNoteAmount:      m.CreditNoteAmount,
		IsRefundProcessed:     m.IsRefundProcessed,
		RefundDate:            m.RefundDate,
		RefundReference:       m.RefundReference,
		Status:                m.Status,
		Approval:              m.Approval,
		Deductions:            m.Deductions,
		Attachments:           m.Attachments,
		TerminationReason:     m.TerminationReason,
		Remark:                m.Remark,
		CancelledAt:           m.CancelledAt,
		CancelReason:          m.CancelReason,
	}
	m.PopulateAuditedAggregateRoot(&tm.AuditedAggregateRoot)
	return tm
}

// FromDomain populates the persistence model from a domain ContractTermination
func (m *ContractTerminationModel) FromDomain(tm *termination.ContractTermination) {
	m.FromDomainAuditedAggregateRoot(tm.AuditedAggregateRoot)
	m.TerminationNumber = tm.TerminationNumber
	m.ContractID = tm.ContractID
	m.CustomerID = tm.CustomerID
	m.CustomerName = tm.CustomerName
	m.UnitID = tm.UnitID
	m.CurrencyCode = string(tm.CurrencyCode)
	m.TerminationDate = tm.TerminationDate
	m.SecurityDepositAmount = tm.SecurityDepositAmount
	m.TotalDeductions = tm.TotalDeductions
	m.AdjustAmount = tm.AdjustAmount
	m.TotalInvoiced = tm.TotalInvoiced
	m.TotalReceived = tm.TotalReceived
	m.NetSettlement = tm.NetSettlement
	m.RefundAmount = tm.RefundAmount
	m.CreditNoteAmount = tm.CreditNoteAmount
	m.IsRefundProcessed = tm.IsRefundProcessed
	m.RefundDate = tm.RefundDate
	m.RefundReference = tm.RefundReference
	m.Status = tm.Status
	m.Approval = tm.Approval
	m.Deductions = tm.Deductions
	m.Attachments = tm.Attachments
	m.TerminationReason = tm.TerminationReason
	m.Remark = tm.Remark
	m.CancelledAt = tm.CancelledAt
	m.CancelReason = tm.CancelReason
}

// ContractTerminationModelFromDomain creates a persistence model from a
// domain termination
func ContractTerminationModelFromDomain(tm *termination.ContractTermination) *ContractTerminationModel {
	m := &ContractTerminationModel{}
	m.FromDomain(tm)
	return m
}
