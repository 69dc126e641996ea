package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/termination"
	"github.com/leasedesk/backend/internal/infrastructure/persistence/models"
)

// GormContractTerminationRepository implements ContractTerminationRepository using GORM
type GormContractTerminationRepository struct {
	db *gorm.DB
}

// NewGormContractTerminationRepository creates a new GormContractTerminationRepository
func NewGormContractTerminationRepository(db *gorm.DB) *GormContractTerminationRepository {
	return &GormContractTerminationRepository{db: db}
}

// FindByID finds a termination by its ID
func (r *GormContractTerminationRepository) FindByID(ctx context.Context, id uuid.UUID) (*termination.ContractTermination, error) {
	var model models.ContractTerminationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTerminationNumber finds a termination by its document number
func (r *GormContractTerminationRepository) FindByTerminationNumber(ctx context.Context, terminationNumber string) (*termination.ContractTermination, error) {
	var model models.ContractTerminationModel
	if err := r.db.WithContext(ctx).
		Where("termination_number = ?", strings.ToUpper(terminationNumber)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContract finds all terminations for a contract
func (r *GormContractTerminationRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]termination.ContractTermination, error) {
	var terminationModels []models.ContractTerminationModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&terminationModels).Error; err != nil {
		return nil, err
	}
	return toDomainTerminations(terminationModels), nil
}

// FindAll finds all terminations matching the filter
func (r *GormContractTerminationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]termination.ContractTermination, error) {
	var terminationModels []models.ContractTerminationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContractTerminationModel{}), filter)

	if err := query.Find(&terminationModels).Error; err != nil {
		return nil, err
	}
	return toDomainTerminations(terminationModels), nil
}

// FindFiltered finds terminations matching the termination filter with pagination
func (r *GormContractTerminationRepository) FindFiltered(ctx context.Context, filter termination.TerminationFilter) (shared.Paginated[termination.ContractTermination], error) {
	base := r.db.WithContext(ctx).Model(&models.ContractTerminationModel{})
	base = r.applyTerminationCriteria(base, filter)
	base = r.applySearch(base, filter.Filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[termination.ContractTermination]{}, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	orderBy := ValidateSortField(filter.OrderBy, TerminationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var terminationModels []models.ContractTerminationModel
	if err := base.Session(&gorm.Session{}).
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&terminationModels).Error; err != nil {
		return shared.Paginated[termination.ContractTermination]{}, err
	}

	return shared.NewPaginated(toDomainTerminations(terminationModels), total, page, pageSize), nil
}

// FindPendingApproval finds submitted terminations awaiting an approval decision
func (r *GormContractTerminationRepository) FindPendingApproval(ctx context.Context) ([]termination.ContractTermination, error) {
	var terminationModels []models.ContractTerminationModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND approval_required = ? AND approval_status = ?",
			termination.TerminationStatusPending, true, shared.ApprovalStatusPending).
		Order("created_at ASC").
		Find(&terminationModels).Error; err != nil {
		return nil, err
	}
	return toDomainTerminations(terminationModels), nil
}

// Save creates or updates a termination
func (r *GormContractTerminationRepository) Save(ctx context.Context, t *termination.ContractTermination) error {
	model := models.ContractTerminationModelFromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a termination guarded by its version counter.
// Returns shared.ErrConcurrencyConflict when another transaction moved the row.
func (r *GormContractTerminationRepository) SaveWithLock(ctx context.Context, t *termination.ContractTermination, expectedVersion int) error {
	model := models.ContractTerminationModelFromDomain(t)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", t.ID, expectedVersion).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes a termination
func (r *GormContractTerminationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContractTerminationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts terminations matching the filter
func (r *GormContractTerminationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.ContractTerminationModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextTerminationNumber generates the next termination document number.
// Format: TRM-YYYY-NNNN (e.g., TRM-2026-0001)
func (r *GormContractTerminationRepository) NextTerminationNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.ContractTerminationModel{}, "termination_number", "TRM")
}

// applyFilter applies generic filter options to the query
func (r *GormContractTerminationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, TerminationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applySearch applies search and map filters without pagination
func (r *GormContractTerminationRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("termination_number ILIKE ? OR termination_reason ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "contract_id":
			query = query.Where("contract_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "approval_status":
			query = query.Where("approval_status = ?", value)
		}
	}

	return query
}

// applyTerminationCriteria applies the typed termination filter criteria
func (r *GormContractTerminationRepository) applyTerminationCriteria(query *gorm.DB, filter termination.TerminationFilter) *gorm.DB {
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ApprovalStatus != nil {
		query = query.Where("approval_status = ?", *filter.ApprovalStatus)
	}
	if filter.TerminationNumber != "" {
		query = query.Where("termination_number = ?", strings.ToUpper(filter.TerminationNumber))
	}
	if filter.PendingRefund {
		query = query.Where("status = ? AND is_refund_processed = ?", termination.TerminationStatusApproved, false)
	}
	return query
}

func toDomainTerminations(terminationModels []models.ContractTerminationModel) []termination.ContractTermination {
	terminations := make([]termination.ContractTermination, len(terminationModels))
	for i := range terminationModels {
		terminations[i] = *terminationModels[i].ToDomain()
	}
	return terminations
}

// Ensure GormContractTerminationRepository implements ContractTerminationRepository
var _ termination.ContractTerminationRepository = (*GormContractTerminationRepository)(nil)
