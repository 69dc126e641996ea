package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/leasedesk/backend/internal/domain/masterdata"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
)

// CurrencyModel is the persistence model for the Currency aggregate
type CurrencyModel struct {
	AuditedAggregateModel
	Code         string          `gorm:"type:varchar(3);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Symbol       string          `gorm:"type:varchar(10)"`
	ExchangeRate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
	IsBase       bool            `gorm:"not null;default:false"`
	IsActive     bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CurrencyModel) TableName() string {
	return "currencies"
}

// ToDomain converts the persistence model to a domain Currency
func (m *CurrencyModel) ToDomain() *masterdata.Currency {
	c := &masterdata.Currency{
		Code:         m.Code,
		Name:         m.Name,
		Symbol:       m.Symbol,
		ExchangeRate: m.ExchangeRate,
		IsBase:       m.IsBase,
		IsActive:     m.IsActive,
	}
	m.PopulateAuditedAggregateRoot(&c.AuditedAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Currency
func (m *CurrencyModel) FromDomain(c *masterdata.Currency) {
	m.FromDomainAuditedAggregateRoot(c.AuditedAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Symbol = c.Symbol
	m.ExchangeRate = c.ExchangeRate
	m.IsBase = c.IsBase
	m.IsActive = c.IsActive
}

// CostCenterModel is the persistence model for the CostCenter aggregate
type CostCenterModel struct {
	AuditedAggregateModel
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	IsActive    bool       `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CostCenterModel) TableName() string {
	return "cost_centers"
}

// ToDomain converts the persistence model to a domain CostCenter
func (m *CostCenterModel) ToDomain() *masterdata.CostCenter {
	cc := &masterdata.CostCenter{
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		ParentID:    m.ParentID,
		IsActive:    m.IsActive,
	}
	m.PopulateAuditedAggregateRoot(&cc.AuditedAggregateRoot)
	return cc
}

// FromDomain populates the persistence model from a domain CostCenter
func (m *CostCenterModel) FromDomain(cc *masterdata.CostCenter) {
	m.FromDomainAuditedAggregateRoot(cc.AuditedAggregateRoot)
	m.Code = cc.Code
	m.Name = cc.Name
	m.Description = cc.Description
	m.ParentID = cc.ParentID
	m.IsActive = cc.IsActive
}

// SupplierModel is the persistence model for the Supplier aggregate
type SupplierModel struct {
	AuditedAggregateModel
	Code          string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string `gorm:"type:varchar(200);not null"`
	ContactPerson string `gorm:"type:varchar(100)"`
	Email         string `gorm:"type:varchar(200)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:text"`
	TaxNumber     string `gorm:"type:varchar(50)"`
	IsActive      bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *masterdata.Supplier {
	s := &masterdata.Supplier{
		Code:          m.Code,
		Name:          m.Name,
		ContactPerson: m.ContactPerson,
		Email:         m.Email,
		Phone:         m.Phone,
		Address:       m.Address,
		TaxNumber:     m.TaxNumber,
		IsActive:      m.IsActive,
	}
	m.PopulateAuditedAggregateRoot(&s.AuditedAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Supplier
func (m *SupplierModel) FromDomain(s *masterdata.Supplier) {
	m.FromDomainAuditedAggregateRoot(s.AuditedAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.ContactPerson = s.ContactPerson
	m.Email = s.Email
	m.Phone = s.Phone
	m.Address = s.Address
	m.TaxNumber = s.TaxNumber
	m.IsActive = s.IsActive
}

// CompanyModel is the persistence model for the Company aggregate
type CompanyModel struct {
	AuditedAggregateModel
	Code            string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string `gorm:"type:varchar(200);not null"`
	LegalName       string `gorm:"type:varchar(200)"`
	TaxNumber       string `gorm:"type:varchar(50)"`
	Email           string `gorm:"type:varchar(200)"`
	Phone           string `gorm:"type:varchar(50)"`
	Address         string `gorm:"type:text"`
	DefaultCurrency string `gorm:"type:varchar(3);not null;default:'AED'"`
	IsActive        bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *masterdata.Company {
	c := &masterdata.Company{
		Code:            m.Code,
		Name:            m.Name,
		LegalName:       m.LegalName,
		TaxNumber:       m.TaxNumber,
		Email:           m.Email,
		Phone:           m.Phone,
		Address:         m.Address,
		DefaultCurrency: valueobject.Currency(m.DefaultCurrency),
		IsActive:        m.IsActive,
	}
	m.PopulateAuditedAggregateRoot(&c.AuditedAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Company
func (m *CompanyModel) FromDomain(c *masterdata.Company) {
	m.FromDomainAuditedAggregateRoot(c.AuditedAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.LegalName = c.LegalName
	m.TaxNumber = c.TaxNumber
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.DefaultCurrency = string(c.DefaultCurrency)
	m.IsActive = c.IsActive
}

// DeductionChargeModel is the persistence model for the DeductionCharge
// aggregate
type DeductionChargeModel struct {
	AuditedAggregateModel
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	DefaultAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (DeductionChargeModel) TableName() string {
	return "deduction_charges"
}

// ToDomain converts the persistence model to a domain DeductionCharge
func (m *DeductionChargeModel) ToDomain() *masterdata.DeductionCharge {
	dc := &masterdata.DeductionCharge{
		Code:          m.Code,
		Name:          m.Name,
		Description:   m.Description,
		DefaultAmount: m.DefaultAmount,
		TaxPercentage: m.TaxPercentage,
		IsActive:      m.IsActive,
	}
	m.PopulateAuditedAggregateRoot(&dc.AuditedAggregateRoot)
	return dc
}

// FromDomain populates the persistence model from a domain DeductionCharge
func (m *DeductionChargeModel) FromDomain(dc *masterdata.DeductionCharge) {
	m.FromDomainAuditedAggregateRoot(dc.AuditedAggregateRoot)
	m.Code = dc.Code
	m.Name = dc.Name
	m.Description = dc.Description
	m.DefaultAmount = dc.DefaultAmount
	m.TaxPercentage = dc.TaxPercentage
	m.IsActive = dc.IsActive
}

// EmailTemplateModel is the persistence model for the EmailTemplate aggregate
type EmailTemplateModel struct {
	AuditedAggregateModel
	Code         string `gorm:"type:varchar(100);not null;uniqueIndex"`
	TriggerEvent string `gorm:"type:varchar(100);not null;index"`
	Subject      string `gorm:"type:varchar(500);not null"`
	Body         string `gorm:"type:text;not null"`
	IsActive     bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (EmailTemplateModel) TableName() string {
	return "email_templates"
}

// ToDomain converts the persistence model to a domain EmailTemplate
func (m *EmailTemplateModel) ToDomain() *masterdata.EmailTemplate {
	et := &masterdata.EmailTemplate{
		Code:         m.Code,
		TriggerEvent: m.TriggerEvent,
		Subject:      m.Subject,
		Body:         m.Body,
		IsActive:     m.IsActive,
	}
	m.PopulateAuditedAggregateRoot(&et.AuditedAggregateRoot)
	return et
}

// FromDomain populates the persistence model from a domain EmailTemplate
func (m *EmailTemplateModel) FromDomain(et *masterdata.EmailTemplate) {
	m.FromDomainAuditedAggregateRoot(et.AuditedAggregateRoot)
	m.Code = et.Code
	m.TriggerEvent = et.TriggerEvent
	m.Subject = et.Subject
	m.Body = et.Body
	m.IsActive = et.IsActive
}
