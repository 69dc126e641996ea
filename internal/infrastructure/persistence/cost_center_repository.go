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

// GormCostCenterRepository implements CostCenterRepository using GORM
type GormCostCenterRepository struct {
	db *gorm.DB
}

// NewGormCostCenterRepository creates a new GormCostCenterRepository
func NewGormCostCenterRepository(db *gorm.DB) *GormCostCenterRepository {
	return &GormCostCenterRepository{db: db}
}

// FindByID finds a cost center by its ID
func (r *GormCostCenterRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.CostCenter, error) {
	var model models.CostCenterModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a cost center by its code
func (r *GormCostCenterRepository) FindByCode(ctx context.Context, code string) (*masterdata.CostCenter, error) {
	var model models.CostCenterModel
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

// FindActive finds all active cost centers
func (r *GormCostCenterRepository) FindActive(ctx context.Context) ([]masterdata.CostCenter, error) {
	var costCenterModels []models.CostCenterModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&costCenterModels).Error; err != nil {
		return nil, err
	}
	return toDomainCostCenters(costCenterModels), nil
}

// FindChildren finds the direct children of a cost center
func (r *GormCostCenterRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]masterdata.CostCenter, error) {
	var costCenterModels []models.CostCenterModel
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("code ASC").
		Find(&costCenterModels).Error; err != nil {
		return nil, err
	}
	return toDomainCostCenters(costCenterModels), nil
}

// FindAll finds all cost centers matching the filter
func (r *GormCostCenterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.CostCenter, error) {
	var costCenterModels []models.CostCenterModel
	query := applyMasterDataFilter(r.db.WithContext(ctx).Model(&models.CostCenterModel{}), filter, CostCenterSortFields)

	if err := query.Find(&costCenterModels).Error; err != nil {
		return nil, err
	}
	return toDomainCostCenters(costCenterModels), nil
}

// Save creates or updates a cost center
func (r *GormCostCenterRepository) Save(ctx context.Context, costCenter *masterdata.CostCenter) error {
	model := &models.CostCenterModel{}
	model.FromDomain(costCenter)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a cost center
func (r *GormCostCenterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CostCenterModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts cost centers matching the filter
func (r *GormCostCenterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyMasterDataSearch(r.db.WithContext(ctx).Model(&models.CostCenterModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toDomainCostCenters(costCenterModels []models.CostCenterModel) []masterdata.CostCenter {
	costCenters := make([]masterdata.CostCenter, len(costCenterModels))
	for i := range costCenterModels {
		costCenters[i] = *costCenterModels[i].ToDomain()
	}
	return costCenters
}

// Ensure GormCostCenterRepository implements CostCenterRepository
var _ masterdata.CostCenterRepository = (*GormCostCenterRepository)(nil)
