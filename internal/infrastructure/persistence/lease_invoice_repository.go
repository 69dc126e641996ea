package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leasedesk/backend/internal/domain/billing"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/infrastructure/persistence/models"
)

// GormLeaseInvoiceRepository implements LeaseInvoiceRepository using GORM
type GormLeaseInvoiceRepository struct {
	db *gorm.DB
}

// NewGormLeaseInvoiceRepository creates a new GormLeaseInvoiceRepository
func NewGormLeaseInvoiceRepository(db *gorm.DB) *GormLeaseInvoiceRepository {
	return &GormLeaseInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormLeaseInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.LeaseInvoice, error) {
	var model models.LeaseInvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoiceNumber finds an invoice by its document number
func (r *GormLeaseInvoiceRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*billing.LeaseInvoice, error) {
	var model models.LeaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("invoice_number = ?", strings.ToUpper(invoiceNumber)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContract finds all invoices for a contract
func (r *GormLeaseInvoiceRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]billing.LeaseInvoice, error) {
	var invoiceModels []models.LeaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("invoice_date ASC, invoice_number ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindOpenByContract finds invoices of a contract that still carry a balance
func (r *GormLeaseInvoiceRepository) FindOpenByContract(ctx context.Context, contractID uuid.UUID) ([]billing.LeaseInvoice, error) {
	var invoiceModels []models.LeaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ? AND status IN ?", contractID, []billing.InvoiceStatus{
			billing.InvoiceStatusPosted,
			billing.InvoiceStatusPartiallyPaid,
		}).
		Order("due_date ASC NULLS LAST, invoice_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindAll finds all invoices matching the filter
func (r *GormLeaseInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.LeaseInvoice, error) {
	var invoiceModels []models.LeaseInvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeaseInvoiceModel{}), filter)

	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindFiltered finds invoices matching the invoice filter with pagination
func (r *GormLeaseInvoiceRepository) FindFiltered(ctx context.Context, filter billing.InvoiceFilter) (shared.Paginated[billing.LeaseInvoice], error) {
	base := r.db.WithContext(ctx).Model(&models.LeaseInvoiceModel{})
	base = r.applyInvoiceCriteria(base, filter)
	base = r.applySearch(base, filter.Filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[billing.LeaseInvoice]{}, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var invoiceModels []models.LeaseInvoiceModel
	if err := base.Session(&gorm.Session{}).
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoiceModels).Error; err != nil {
		return shared.Paginated[billing.LeaseInvoice]{}, err
	}

	return shared.NewPaginated(toDomainInvoices(invoiceModels), total, page, pageSize), nil
}

// FindOverdue finds open invoices whose due date has passed
func (r *GormLeaseInvoiceRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]billing.LeaseInvoice, error) {
	var invoiceModels []models.LeaseInvoiceModel
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND due_date IS NOT NULL AND due_date < ?", []billing.InvoiceStatus{
			billing.InvoiceStatusPosted,
			billing.InvoiceStatusPartiallyPaid,
		}, asOf).
		Order("due_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// Save creates or updates an invoice
func (r *GormLeaseInvoiceRepository) Save(ctx context.Context, invoice *billing.LeaseInvoice) error {
	model := models.LeaseInvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves an invoice guarded by its version counter.
// Returns shared.ErrConcurrencyConflict when another transaction moved the row.
func (r *GormLeaseInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.LeaseInvoice, expectedVersion int) error {
	model := models.LeaseInvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", invoice.ID, expectedVersion).
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

// Delete deletes an invoice
func (r *GormLeaseInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeaseInvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts invoices matching the filter
func (r *GormLeaseInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.LeaseInvoiceModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextInvoiceNumber generates the next invoice document number.
// Format: INV-YYYY-NNNN (e.g., INV-2026-0001)
func (r *GormLeaseInvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.LeaseInvoiceModel{}, "invoice_number", "INV")
}

// applyFilter applies generic filter options to the query
func (r *GormLeaseInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applySearch applies search and map filters without pagination
func (r *GormLeaseInvoiceRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR remark ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "contract_id":
			query = query.Where("contract_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "currency_code":
			query = query.Where("currency_code = ?", value)
		}
	}

	return query
}

// applyInvoiceCriteria applies the typed invoice filter criteria
func (r *GormLeaseInvoiceRepository) applyInvoiceCriteria(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.InvoiceNumber != "" {
		query = query.Where("invoice_number = ?", strings.ToUpper(filter.InvoiceNumber))
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}
	if filter.DueAfter != nil {
		query = query.Where("due_date > ?", *filter.DueAfter)
	}
	if filter.WithBalance {
		query = query.Where("status IN ?", []billing.InvoiceStatus{
			billing.InvoiceStatusPosted,
			billing.InvoiceStatusPartiallyPaid,
		})
	}
	return query
}

func toDomainInvoices(invoiceModels []models.LeaseInvoiceModel) []billing.LeaseInvoice {
	invoices := make([]billing.LeaseInvoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = *invoiceModels[i].ToDomain()
	}
	return invoices
}

// nextDocumentNumber generates the next sequential document number for the
// given model and column. Format: PREFIX-YYYY-NNNN, restarting each year.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model interface{}, column, docPrefix string) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", docPrefix, year)

	var last string
	err := db.WithContext(ctx).
		Model(model).
		Select(column).
		Where(column+" LIKE ?", prefix+"%").
		Order(column + " DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if last != "" {
		parts := strings.Split(last, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%04d", prefix, nextNum), nil
}

// Ensure GormLeaseInvoiceRepository implements LeaseInvoiceRepository
var _ billing.LeaseInvoiceRepository = (*GormLeaseInvoiceRepository)(nil)
