package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leasedesk/backend/internal/domain/billing/acl"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/infrastructure/persistence/models"
)

// GormContractGateway resolves lease contract snapshots from the leasing
// context's tables
type GormContractGateway struct {
	db *gorm.DB
}

// NewGormContractGateway creates a new GormContractGateway
func NewGormContractGateway(db *gorm.DB) *GormContractGateway {
	return &GormContractGateway{db: db}
}

// GetContract returns a read-only snapshot of the lease contract
func (g *GormContractGateway) GetContract(ctx context.Context, id uuid.UUID) (*acl.ContractRef, error) {
	var model models.LeaseContractModel
	if err := g.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acl.ContractRef{
		ID:              model.ID,
		ContractNumber:  model.ContractNumber,
		CustomerID:      model.CustomerID,
		UnitID:          model.UnitID,
		CurrencyCode:    model.CurrencyCode,
		SecurityDeposit: model.SecurityDeposit,
		Active:          model.Status == "ACTIVE",
	}, nil
}

// GormCustomerGateway resolves customer snapshots
type GormCustomerGateway struct {
	db *gorm.DB
}

// NewGormCustomerGateway creates a new GormCustomerGateway
func NewGormCustomerGateway(db *gorm.DB) *GormCustomerGateway {
	return &GormCustomerGateway{db: db}
}

// GetCustomer returns a read-only snapshot of the customer
func (g *GormCustomerGateway) GetCustomer(ctx context.Context, id uuid.UUID) (*acl.CustomerRef, error) {
	var model models.LeasingCustomerModel
	if err := g.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acl.CustomerRef{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
		Phone: model.Phone,
	}, nil
}

// GormUnitGateway resolves property unit snapshots
type GormUnitGateway struct {
	db *gorm.DB
}

// NewGormUnitGateway creates a new GormUnitGateway
func NewGormUnitGateway(db *gorm.DB) *GormUnitGateway {
	return &GormUnitGateway{db: db}
}

// GetUnit returns a read-only snapshot of the property unit
func (g *GormUnitGateway) GetUnit(ctx context.Context, id uuid.UUID) (*acl.UnitRef, error) {
	var model models.PropertyUnitModel
	if err := g.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acl.UnitRef{
		ID:           model.ID,
		UnitNumber:   model.UnitNumber,
		PropertyName: model.PropertyName,
		CostCenterID: model.CostCenterID,
	}, nil
}

// GormTaxGateway resolves tax rates from the tax_rates table
type GormTaxGateway struct {
	db *gorm.DB
}

// NewGormTaxGateway creates a new GormTaxGateway
func NewGormTaxGateway(db *gorm.DB) *GormTaxGateway {
	return &GormTaxGateway{db: db}
}

// GetRate returns the tax rate registered under the given code
func (g *GormTaxGateway) GetRate(ctx context.Context, code string) (*acl.TaxRate, error) {
	var model models.TaxRateModel
	if err := g.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acl.TaxRate{Code: model.Code, Percentage: model.Percentage}, nil
}

// DefaultRate returns the rate flagged as default
func (g *GormTaxGateway) DefaultRate(ctx context.Context) (*acl.TaxRate, error) {
	var model models.TaxRateModel
	if err := g.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &acl.TaxRate{Code: model.Code, Percentage: model.Percentage}, nil
}

// Interface checks
var (
	_ acl.ContractGateway = (*GormContractGateway)(nil)
	_ acl.CustomerGateway = (*GormCustomerGateway)(nil)
	_ acl.UnitGateway     = (*GormUnitGateway)(nil)
	_ acl.TaxGateway      = (*GormTaxGateway)(nil)
)
