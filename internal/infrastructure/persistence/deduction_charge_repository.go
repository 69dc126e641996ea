package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leasedesk/backend/internal/domain/masterdata"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/infrastructure/persistence/models"
)

// GormDeductionChargeRepository implements DeductionChargeRepository using GORM
type GormDeductionChargeRepository struct {
	db *gorm.DB
}

// NewGormDeductionChargeRepository creates a new GormDeductionChargeRepository
func NewGormDeductionChargeRepository(db *gorm.DB) *GormDeductionChargeRepository {
	return &GormDeductionChargeRepository{db: db}
}

// FindByID finds a deduction charge by its ID
func (r *GormDeductionChargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.DeductionCharge, error) {
	var model models.DeductionChargeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a deduction charge by its code
func (r *GormDeductionChargeRepository) FindByCode(ctx context.Context, code string) (*masterdata.DeductionCharge, error) {
	var model models.DeductionChargeModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active deduction charges
func (r *GormDeductionChargeRepository) FindActive(ctx context.Context) ([]masterdata.DeductionCharge, error) {
	var chargeModels []models.DeductionChargeModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&chargeModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeductionCharges(chargeModels), nil
}

// FindAll finds all deduction charges matching the filter
func (r *GormDeductionChargeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.DeductionCharge, error) {
	var chargeModels []models.DeductionChargeModel
	query := applyMasterDataFilter(r.db.WithContext(ctx).Model(&models.DeductionChargeModel{}), filter, DeductionChargeSortFields)

	if err := query.Find(&chargeModels).Error; err != nil {
		return nil, err
	}
	return toDomainDeductionCharges(chargeModels), nil
}

// Save creates or updates a deduction charge
func (r *GormDeductionChargeRepository) Save(ctx context.Context, charge *masterdata.DeductionCharge) error {
	model := &models.DeductionChargeModel{}
	model.FromDomain(charge)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a deduction charge
func (r *GormDeductionChargeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DeductionChargeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts deduction charges matching the filter
func (r *GormDeductionChargeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyMasterDataSearch(r.db.WithContext(ctx).Model(&models.DeductionChargeModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainDeductionCharges(chargeModels []models.DeductionChargeModel) []masterdata.DeductionCharge {
	charges := make([]masterdata.DeductionCharge, len(chargeModels))
	for i := range chargeModels {
		charges[i] = *chargeModels[i].ToDomain()
	}
	return charges
}

// Ensure GormDeductionChargeRepository implements DeductionChargeRepository
var _ masterdata.DeductionChargeRepository = (*GormDeductionChargeRepository)(nil)
