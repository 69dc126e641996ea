package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseContractModel is a read model over the leasing context's contract
// table. Billing only reads these rows, it never writes them.
type LeaseContractModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ContractNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID          *uuid.UUID      `gorm:"type:uuid;index"`
	CurrencyCode    string          `gorm:"type:varchar(3);not null"`
	SecurityDeposit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status          string          `gorm:"type:varchar(30);not null;index"`
	StartDate       time.Time       `gorm:"not null"`
	EndDate         *time.Time
}

// TableName returns the table name for GORM
func (LeaseContractModel) TableName() string {
	return "lease_contracts"
}

// LeasingCustomerModel is a read model over the leasing context's customer table
type LeasingCustomerModel struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"type:varchar(200);not null"`
	Email string    `gorm:"type:varchar(200)"`
	Phone string    `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (LeasingCustomerModel) TableName() string {
	return "customers"
}

// PropertyUnitModel is a read model over the leasing context's unit table
type PropertyUnitModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UnitNumber   string     `gorm:"type:varchar(50);not null"`
	PropertyName string     `gorm:"type:varchar(200);not null"`
	CostCenterID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PropertyUnitModel) TableName() string {
	return "property_units"
}

// TaxRateModel holds the configured tax rates applied to invoice lines
type TaxRateModel struct {
	Code       string          `gorm:"type:varchar(20);primaryKey"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsDefault  bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (TaxRateModel) TableName() string {
	return "tax_rates"
}
