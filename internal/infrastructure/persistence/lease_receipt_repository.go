package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/leasedesk/backend/internal/domain/billing"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/infrastructure/persistence/models"
)

// GormLeaseReceiptRepository implements LeaseReceiptRepository using GORM
type GormLeaseReceiptRepository struct {
	db *gorm.DB
}

// NewGormLeaseReceiptRepository creates a new GormLeaseReceiptRepository
func NewGormLeaseReceiptRepository(db *gorm.DB) *GormLeaseReceiptRepository {
	return &GormLeaseReceiptRepository{db: db}
}

// FindByID finds a receipt by its ID
func (r *GormLeaseReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.LeaseReceipt, error) {
	var model models.LeaseReceiptModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReceiptNumber finds a receipt by its document number
func (r *GormLeaseReceiptRepository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (*billing.LeaseReceipt, error) {
	var model models.LeaseReceiptModel
	if err := r.db.WithContext(ctx).
		Where("receipt_number = ?", strings.ToUpper(receiptNumber)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContract finds all receipts for a contract
func (r *GormLeaseReceiptRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]billing.LeaseReceipt, error) {
	var receiptModels []models.LeaseReceiptModel
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("receipt_date ASC, receipt_number ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return toDomainReceipts(receiptModels), nil
}

// FindAll finds all receipts matching the filter
func (r *GormLeaseReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.LeaseReceipt, error) {
	var receiptModels []models.LeaseReceiptModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeaseReceiptModel{}), filter)

	if err := query.Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return toDomainReceipts(receiptModels), nil
}

// FindFiltered finds receipts matching the receipt filter with pagination
func (r *GormLeaseReceiptRepository) FindFiltered(ctx context.Context, filter billing.ReceiptFilter) (shared.Paginated[billing.LeaseReceipt], error) {
	base := r.db.WithContext(ctx).Model(&models.LeaseReceiptModel{})
	base = r.applyReceiptCriteria(base, filter)
	base = r.applySearch(base, filter.Filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[billing.LeaseReceipt]{}, err
	}

	page := filter.Page
	pageSize := filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	orderBy := ValidateSortField(filter.OrderBy, ReceiptSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var receiptModels []models.LeaseReceiptModel
	if err := base.Session(&gorm.Session{}).
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&receiptModels).Error; err != nil {
		return shared.Paginated[billing.LeaseReceipt]{}, err
	}

	return shared.NewPaginated(toDomainReceipts(receiptModels), total, page, pageSize), nil
}

// FindUnclearedCheques finds posted cheque receipts whose funds are unconfirmed
func (r *GormLeaseReceiptRepository) FindUnclearedCheques(ctx context.Context) ([]billing.LeaseReceipt, error) {
	var receiptModels []models.LeaseReceiptModel
	if err := r.db.WithContext(ctx).
		Where("payment_method = ? AND status = ? AND is_cleared = ?",
			billing.PaymentMethodCheque, billing.ReceiptStatusPosted, false).
		Order("clearing_date ASC NULLS LAST, receipt_date ASC").
		Find(&receiptModels).Error; err != nil {
		return nil, err
	}
	return toDomainReceipts(receiptModels), nil
}

// Save creates or updates a receipt
func (r *GormLeaseReceiptRepository) Save(ctx context.Context, receipt *billing.LeaseReceipt) error {
	model := models.LeaseReceiptModelFromDomain(receipt)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a receipt guarded by its version counter.
// Returns shared.ErrConcurrencyConflict when another transaction moved the row.
func (r *GormLeaseReceiptRepository) SaveWithLock(ctx context.Context, receipt *billing.LeaseReceipt, expectedVersion int) error {
	model := models.LeaseReceiptModelFromDomain(receipt)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", receipt.ID, expectedVersion).
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

// Delete deletes a receipt
func (r *GormLeaseReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeaseReceiptModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts receipts matching the filter
func (r *GormLeaseReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.LeaseReceiptModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextReceiptNumber generates the next receipt document number.
// Format: RCP-YYYY-NNNN (e.g., RCP-2026-0001)
func (r *GormLeaseReceiptRepository) NextReceiptNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, r.db, &models.LeaseReceiptModel{}, "receipt_number", "RCP")
}

// applyFilter applies generic filter options to the query
func (r *GormLeaseReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ReceiptSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applySearch applies search and map filters without pagination
func (r *GormLeaseReceiptRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("receipt_number ILIKE ? OR cheque_number ILIKE ? OR remark ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "contract_id":
			query = query.Where("contract_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		}
	}

	return query
}

// applyReceiptCriteria applies the typed receipt filter criteria
func (r *GormLeaseReceiptRepository) applyReceiptCriteria(query *gorm.DB, filter billing.ReceiptFilter) *gorm.DB {
	if filter.ContractID != nil {
		query = query.Where("contract_id = ?", *filter.ContractID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.ReceiptNumber != "" {
		query = query.Where("receipt_number = ?", strings.ToUpper(filter.ReceiptNumber))
	}
	if filter.ChequeNumber != "" {
		query = query.Where("cheque_number = ?", filter.ChequeNumber)
	}
	if filter.Uncleared {
		query = query.Where("payment_method = ? AND is_cleared = ?", billing.PaymentMethodCheque, false)
	}
	return query
}

func toDomainReceipts(receiptModels []models.LeaseReceiptModel) []billing.LeaseReceipt {
	receipts := make([]billing.LeaseReceipt, len(receiptModels))
	for i := range receiptModels {
		receipts[i] = *receiptModels[i].ToDomain()
	}
	return receipts
}

// Ensure GormLeaseReceiptRepository implements LeaseReceiptRepository
var _ billing.LeaseReceiptRepository = (*GormLeaseReceiptRepository)(nil)
