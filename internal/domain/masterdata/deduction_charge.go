package masterdata

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DeductionCharge is a predefined deduction type applied during contract
// termination, carrying a default amount and tax percentage.
type DeductionCharge struct {
	shared.AuditedAggregateRoot
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	IsActive      bool            `json:"is_active"`
}

// NewDeductionCharge creates an active deduction charge definition
func NewDeductionCharge(code, name, description string, defaultAmount, taxPercentage decimal.Decimal, createdBy uuid.UUID) (*DeductionCharge, error) {
	if code == "" {
		return nil, shared.NewValidationError("Deduction charge code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Deduction charge name cannot be empty")
	}
	if defaultAmount.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Default amount cannot be negative")
	}
	if taxPercentage.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidAmount, "Tax percentage cannot be negative")
	}

	return &DeductionCharge{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Code:                 code,
		Name:                 name,
		Description:          description,
		DefaultAmount:        defaultAmount,
		TaxPercentage:        taxPercentage,
		IsActive:             true,
	}, nil
}

// Update changes the definition's fields
func (dc *DeductionCharge) Update(name, description string, defaultAmount, taxPercentage decimal.Decimal, actor uuid.UUID) error {
	if name == "" {
		return shared.NewValidationError("Deduction charge name cannot be empty")
	}
	if defaultAmount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Default amount cannot be negative")
	}
	if taxPercentage.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidAmount, "Tax percentage cannot be negative")
	}

	dc.Name = name
	dc.Description = description
	dc.DefaultAmount = defaultAmount
	dc.TaxPercentage = taxPercentage
	dc.Touch(actor)
	dc.UpdatedAt = time.Now()
	dc.IncrementVersion()
	return nil
}

// Activate enables the deduction charge
func (dc *DeductionCharge) Activate(actor uuid.UUID) {
	dc.IsActive = true
	dc.Touch(actor)
	dc.UpdatedAt = time.Now()
	dc.IncrementVersion()
}

// Deactivate disables the deduction charge
func (dc *DeductionCharge) Deactivate(actor uuid.UUID) {
	dc.IsActive = false
	dc.Touch(actor)
	dc.UpdatedAt = time.Now()
	dc.IncrementVersion()
}

// DeductionChargeRepository provides persistence for deduction charges
type DeductionChargeRepository interface {
	shared.Repository[DeductionCharge]
	FindByCode(ctx context.Context, code string) (*DeductionCharge, error)
	FindActive(ctx context.Context) ([]DeductionCharge, error)
}
