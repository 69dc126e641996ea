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

// GormEmailTemplateRepository implements EmailTemplateRepository using GORM
type GormEmailTemplateRepository struct {
	db *gorm.DB
}

// NewGormEmailTemplateRepository creates a new GormEmailTemplateRepository
func NewGormEmailTemplateRepository(db *gorm.DB) *GormEmailTemplateRepository {
	return &GormEmailTemplateRepository{db: db}
}

// FindByID finds an email template by its ID
func (r *GormEmailTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*masterdata.EmailTemplate, error) {
	var model models.EmailTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an email template by its code
func (r *GormEmailTemplateRepository) FindByCode(ctx context.Context, code string) (*masterdata.EmailTemplate, error) {
	var model models.EmailTemplateModel
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

// FindByTrigger finds the active template bound to a trigger event
func (r *GormEmailTemplateRepository) FindByTrigger(ctx context.Context, triggerEvent string) (*masterdata.EmailTemplate, error) {
	var model models.EmailTemplateModel
	if err := r.db.WithContext(ctx).
		Where("trigger_event = ? AND is_active = ?", triggerEvent, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive finds all active email templates
func (r *GormEmailTemplateRepository) FindActive(ctx context.Context) ([]masterdata.EmailTemplate, error) {
	var templateModels []models.EmailTemplateModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return toDomainEmailTemplates(templateModels), nil
}

// FindAll finds all email templates matching the filter
func (r *GormEmailTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]masterdata.EmailTemplate, error) {
	var templateModels []models.EmailTemplateModel
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.EmailTemplateModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EmailTemplateSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&templateModels).Error; err != nil {
		return nil, err
	}
	return toDomainEmailTemplates(templateModels), nil
}

// Save creates or updates an email template
func (r *GormEmailTemplateRepository) Save(ctx context.Context, template *masterdata.EmailTemplate) error {
	model := &models.EmailTemplateModel{}
	model.FromDomain(template)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an email template
func (r *GormEmailTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EmailTemplateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts email templates matching the filter
func (r *GormEmailTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.EmailTemplateModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applySearch applies search and map filters. Templates have no name column,
// so search covers code and subject instead.
func (r *GormEmailTemplateRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR subject ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "trigger_event":
			query = query.Where("trigger_event = ?", value)
		}
	}

	return query
}

func toDomainEmailTemplates(templateModels []models.EmailTemplateModel) []masterdata.EmailTemplate {
	templates := make([]masterdata.EmailTemplate, len(templateModels))
	for i := range templateModels {
		templates[i] = *templateModels[i].ToDomain()
	}
	return templates
}

// Ensure GormEmailTemplateRepository implements EmailTemplateRepository
var _ masterdata.EmailTemplateRepository = (*GormEmailTemplateRepository)(nil)
