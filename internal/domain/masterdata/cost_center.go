package masterdata

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// CostCenter is an accounting dimension assigned to invoices and units
type CostCenter struct {
	shared.AuditedAggregateRoot
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// NewCostCenter creates an active cost center
func NewCostCenter(code, name, description string, parentID *uuid.UUID, createdBy uuid.UUID) (*CostCenter, error) {
	if code == "" {
		return nil, shared.NewValidationError("Cost center code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewValidationError("Cost center name cannot be empty")
	}

	return &CostCenter{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Code:                 code,
		Name:                 name,
		Description:          description,
		ParentID:             parentID,
		IsActive:             true,
	}, nil
}

// Update changes the descriptive fields
func (cc *CostCenter) Update(name, description string, actor uuid.UUID) error {
	if name == "" {
		return shared.NewValidationError("Cost center name cannot be empty")
	}
	cc.Name = name
	cc.Description = description
	cc.Touch(actor)
	cc.UpdatedAt = time.Now()
	cc.IncrementVersion()
	return nil
}

// Activate enables the cost center
func (cc *CostCenter) Activate(actor uuid.UUID) {
	cc.IsActive = true
	cc.Touch(actor)
	cc.UpdatedAt = time.Now()
	cc.IncrementVersion()
}

// Deactivate disables the cost center
func (cc *CostCenter) Deactivate(actor uuid.UUID) {
	cc.IsActive = false
	cc.Touch(actor)
	cc.UpdatedAt = time.Now()
	cc.IncrementVersion()
}

// CostCenterRepository provides persistence for cost centers
type CostCenterRepository interface {
	shared.Repository[CostCenter]
	FindByCode(ctx context.Context, code string) (*CostCenter, error)
	FindActive(ctx context.Context) ([]CostCenter, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]CostCenter, error)
}
