// Package acl holds read-only projections of contract, customer and unit
// data owned by the leasing context. Billing consumes these snapshots via
// the gateways instead of reaching into foreign aggregates.
package acl

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractRef is a snapshot of the lease contract fields billing needs
type ContractRef struct {
	ID              uuid.UUID
	ContractNumber  string
	CustomerID      uuid.UUID
	UnitID          *uuid.UUID
	CurrencyCode    string
	SecurityDeposit decimal.Decimal
	Active          bool
}

// CustomerRef is a snapshot of the customer fields billing needs
type CustomerRef struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// UnitRef is a snapshot of the property unit fields billing needs
type UnitRef struct {
	ID           uuid.UUID
	UnitNumber   string
	PropertyName string
	CostCenterID *uuid.UUID
}

// TaxRate is the percentage applied to taxable invoice lines
type TaxRate struct {
	Code       string
	Percentage decimal.Decimal
}

// ContractGateway resolves contract snapshots from the leasing context
type ContractGateway interface {
	GetContract(ctx context.Context, id uuid.UUID) (*ContractRef, error)
}

// CustomerGateway resolves customer snapshots
type CustomerGateway interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerRef, error)
}

// UnitGateway resolves property unit snapshots
type UnitGateway interface {
	GetUnit(ctx context.Context, id uuid.UUID) (*UnitRef, error)
}

// TaxGateway resolves the tax rate applicable to an invoice
type TaxGateway interface {
	GetRate(ctx context.Context, code string) (*TaxRate, error)
	DefaultRate(ctx context.Context) (*TaxRate, error)
}
