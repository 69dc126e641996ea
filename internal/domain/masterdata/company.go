package masterdata

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
)

// Company is a legal entity operating properties under the account
type Company struct {
	shared.AuditedAggregateRoot
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	LegalName       string               `json:"legal_name"`
	TaxNumber       string               `json:"tax_number"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	Address         string               `json:"address"`
	DefaultCurrency valueobject.Currency `json:"default_currency"`
	IsActive        bool                 `json:"is_active"`
}

// NewCompany creates an active company
func NewCompany(code, name, legalName string, defaultCurrency valueobject.Currency, createdBy uuid.UUID) (*Company, error) {
	if code == "" {
		return nil, shared.NewValidationError("Company code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Company name cannot be empty")
	}
	if defaultCurrency == "" {
		defaultCurrency = valueobject.DefaultCurrency
	}

	return &Company{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Code:                 code,
		Name:                 name,
		LegalName:            legalName,
		DefaultCurrency:      defaultCurrency,
		IsActive:             true,
	}, nil
}

// Update changes the company's details
func (c *Company) Update(name, legalName, taxNumber, email, phone, address string, actor uuid.UUID) error {
	if name == "" {
		return shared.NewValidationError("Company name cannot be empty")
	}
	c.Name = name
	c.LegalName = legalName
	c.TaxNumber = taxNumber
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Touch(actor)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Activate enables the company
func (c *Company) Activate(actor uuid.UUID) {
	c.IsActive = true
	c.Touch(actor)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate disables the company
func (c *Company) Deactivate(actor uuid.UUID) {
	c.IsActive = false
	c.Touch(actor)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// CompanyRepository provides persistence for companies
type CompanyRepository interface {
	shared.Repository[Company]
	FindByCode(ctx context.Context, code string) (*Company, error)
	FindActive(ctx context.Context) ([]Company, error)
}
