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

// GormCurrencyRepository implements CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByID finds a currency by its ID
func (r *GormCurrencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a currency by its ISO code
func (r *GormCurrencyRepository) FindByCode(ctx context.Context, code string) (*masterdata.Currency, error) {
	var model models.CurrencyModel
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

// FindActive finds all active currencies
func (r *GormCurrencyRepository) FindActive(ctx context.Context) ([]masterdata.Currency, error) {
	var currencyModels []models.CurrencyModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&currencyModels).Error; err != nil {
		return nil, err
	}

	currencies := make([]masterdata.Currency, len(currencyModels))
	for i := range currencyModels {
		currencies[i] = *currencyModels[i].ToDomain()
	}
	return currencies, nil
}

// FindBase finds the base currency
func (r *GormCurrencyRepository) FindBase(ctx context.Context) (*masterdata.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).
		Where("is_base = ?", true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all currencies matching the filter
func (r *GormCurrencyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.Currency, error) {
	var currencyModels []models.CurrencyModel
	query := applyMasterDataFilter(r.db.WithContext(ctx).Model(&models.CurrencyModel{}), filter, CurrencySortFields)

	if err := query.Find(&currencyModels).Error; err != nil {
		return nil, err
	}

	currencies := make([]masterdata.Currency, len(currencyModels))
	for i := range currencyModels {
		currencies[i] = *currencyModels[i].ToDomain()
	}
	return currencies, nil
}

// Save creates or updates a currency
func (r *GormCurrencyRepository) Save(ctx context.Context, currency *masterdata.Currency) error {
	model := &models.CurrencyModel{}
	model.FromDomain(currency)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a currency
func (r *GormCurrencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CurrencyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts currencies matching the filter
func (r *GormCurrencyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyMasterDataSearch(r.db.WithContext(ctx).Model(&models.CurrencyModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyMasterDataFilter applies common filter options for master data queries
func applyMasterDataFilter(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	query = applyMasterDataSearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyMasterDataSearch applies search and map filters common to master data tables
func applyMasterDataSearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "code":
			query = query.Where("code = ?", value)
		}
	}

	return query
}

// Ensure GormCurrencyRepository implements CurrencyRepository
var _ masterdata.CurrencyRepository = (*GormCurrencyRepository)(nil)
