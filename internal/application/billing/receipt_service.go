package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leasedesk/backend/internal/domain/billing"
	"github.com/leasedesk/backend/internal/domain/billing/acl"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
)

// ReceiptService provides application-level lease receipt operations,
// including the two-sided allocation against invoices.
type ReceiptService struct {
	receiptRepo   billing.LeaseReceiptRepository
	invoiceRepo   billing.LeaseInvoiceRepository
	contracts     acl.ContractGateway
	customers     acl.CustomerGateway
	allocationSvc *billing.AllocationService
	notification  NotificationGateway
	logger        *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	receiptRepo billing.LeaseReceiptRepository,
	invoiceRepo billing.LeaseInvoiceRepository,
	contracts acl.ContractGateway,
	customers acl.CustomerGateway,
	notification NotificationGateway,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:   receiptRepo,
		invoiceRepo:   invoiceRepo,
		contracts:     contracts,
		customers:     customers,
		allocationSvc: billing.NewAllocationService(),
		notification:  notification,
		logger:        logger,
	}
}

// AllocationResponse represents an allocation row in API responses
type AllocationResponse struct {
	ID              uuid.UUID       `json:"id"`
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount"`
	AllocatedAt     time.Time       `json:"allocated_at"`
}

// ReceiptResponse represents a lease receipt in API responses
type ReceiptResponse struct {
	ID                uuid.UUID            `json:"id"`
	ReceiptNumber     string               `json:"receipt_number"`
	ContractID        uuid.UUID            `json:"contract_id"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	CustomerName      string               `json:"customer_name"`
	CurrencyCode      string               `json:"currency_code"`
	ReceiptAmount     decimal.Decimal      `json:"receipt_amount"`
	AllocatedAmount   decimal.Decimal      `json:"allocated_amount"`
	UnallocatedAmount decimal.Decimal      `json:"unallocated_amount"`
	PaymentMethod     string               `json:"payment_method"`
	PaymentReference  string               `json:"payment_reference,omitempty"`
	ChequeNumber      string               `json:"cheque_number,omitempty"`
	BankName          string               `json:"bank_name,omitempty"`
	ReceiptDate       time.Time            `json:"receipt_date"`
	Status            string               `json:"status"`
	IsCleared         bool                 `json:"is_cleared"`
	ClearingDate      *time.Time           `json:"clearing_date,omitempty"`
	Allocations       []AllocationResponse `json:"allocations"`
	Remark            string               `json:"remark,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Version           int                  `json:"version"`
}

func toReceiptResponse(rc *billing.LeaseReceipt) *ReceiptResponse {
	allocations := make([]AllocationResponse, len(rc.Allocations))
	for i, a := range rc.Allocations {
		allocations[i] = AllocationResponse{
			ID:              a.ID,
			InvoiceID:       a.InvoiceID,
			InvoiceNumber:   a.InvoiceNumber,
			AllocatedAmount: a.AllocatedAmount,
			AllocatedAt:     a.AllocatedAt,
		}
	}
	return &ReceiptResponse{
		ID:                rc.ID,
		ReceiptNumber:     rc.ReceiptNumber,
		ContractID:        rc.ContractID,
		CustomerID:        rc.CustomerID,
		CustomerName:      rc.CustomerName,
		CurrencyCode:      string(rc.CurrencyCode),
		ReceiptAmount:     rc.ReceiptAmount,
		AllocatedAmount:   rc.AllocatedAmount,
		UnallocatedAmount: rc.UnallocatedAmount,
		PaymentMethod:     string(rc.PaymentMethod),
		PaymentReference:  rc.PaymentReference,
		ChequeNumber:      rc.ChequeNumber,
		BankName:          rc.BankName,
		ReceiptDate:       rc.ReceiptDate,
		Status:            string(rc.Status),
		IsCleared:         rc.IsCleared,
		ClearingDate:      rc.ClearingDate,
		Allocations:       allocations,
		Remark:            rc.Remark,
		CreatedAt:         rc.CreatedAt,
		UpdatedAt:         rc.UpdatedAt,
		Version:           rc.Version,
	}
}

// CreateReceiptRequest represents a request to record a payment receipt
type CreateReceiptRequest struct {
	ContractID       uuid.UUID       `json:"contract_id" binding:"required"`
	ReceiptAmount    decimal.Decimal `json:"receipt_amount" binding:"required"`
	PaymentMethod    string          `json:"payment_method" binding:"required"`
	PaymentReference string          `json:"payment_reference"`
	ChequeNumber     string          `json:"cheque_number"`
	BankName         string          `json:"bank_name"`
	ReceiptDate      time.Time       `json:"receipt_date" binding:"required"`
	Remark           string          `json:"remark"`
}

// CreateReceipt records a draft receipt against a lease contract
func (s *ReceiptService) CreateReceipt(ctx context.Context, req CreateReceiptRequest, actor uuid.UUID) (*ReceiptResponse, error) {
	contract, err := s.contracts.GetContract(ctx, req.ContractID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Contract not found")
	}
	customer, err := s.customers.GetCustomer(ctx, contract.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	number, err := s.receiptRepo.NextReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(contract.CurrencyCode)
	amount, err := valueobject.NewMoney(req.ReceiptAmount, currency)
	if err != nil {
		return nil, err
	}

	rc, err := billing.NewLeaseReceipt(
		number,
		contract.ID,
		customer.ID,
		customer.Name,
		currency,
		amount,
		billing.PaymentMethod(req.PaymentMethod),
		req.ReceiptDate,
		actor,
	)
	if err != nil {
		return nil, err
	}
	rc.PaymentReference = req.PaymentReference
	if req.Remark != "" {
		rc.Remark = req.Remark
	}
	if rc.PaymentMethod == billing.PaymentMethodCheque && req.ChequeNumber != "" {
		if err := rc.SetChequeDetails(req.ChequeNumber, req.BankName, actor); err != nil {
			return nil, err
		}
	}

	if err := s.receiptRepo.Save(ctx, rc); err != nil {
		return nil, err
	}

	s.logger.Info("lease receipt created",
		zap.String("receipt_number", rc.ReceiptNumber),
		zap.String("contract_id", contract.ID.String()),
		zap.String("amount", rc.ReceiptAmount.String()))

	return toReceiptResponse(rc), nil
}

// GetReceipt returns a receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*ReceiptResponse, error) {
	rc, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReceiptResponse(rc), nil
}

// ReceiptListFilter defines filtering options for receipt list queries
type ReceiptListFilter struct {
	Search        string     `form:"search"`
	ContractID    *uuid.UUID `form:"contract_id"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	Status        string     `form:"status"`
	PaymentMethod string     `form:"payment_method"`
	Uncleared     bool       `form:"uncleared"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// ListReceipts lists receipts with filtering and pagination
func (s *ReceiptService) ListReceipts(ctx context.Context, filter ReceiptListFilter) ([]ReceiptResponse, int64, error) {
	domainFilter := billing.ReceiptFilter{
		Filter:     shared.DefaultFilter(),
		ContractID: filter.ContractID,
		CustomerID: filter.CustomerID,
		Uncleared:  filter.Uncleared,
	}
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := billing.ReceiptStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Unknown receipt status filter")
		}
		domainFilter.Status = &status
	}
	if filter.PaymentMethod != "" {
		method := billing.PaymentMethod(filter.PaymentMethod)
		if !method.IsValid() {
			return nil, 0, shared.NewValidationError("Unknown payment method filter")
		}
		domainFilter.PaymentMethod = &method
	}

	page, err := s.receiptRepo.FindFiltered(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReceiptResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toReceiptResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// AllocateRequest represents a request to allocate a receipt to an invoice
type AllocateRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// AllocateResult pairs the updated receipt and invoice after an allocation
type AllocateResult struct {
	Receipt *ReceiptResponse `json:"receipt"`
	Invoice *InvoiceResponse `json:"invoice"`
}

// Allocate applies part of a receipt to an invoice. Both aggregates are
// validated together and saved together; a failure on either side leaves
// both unchanged.
func (s *ReceiptService) Allocate(ctx context.Context, receiptID uuid.UUID, req AllocateRequest) (*AllocateResult, error) {
	rc, err := s.findReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	expectedReceipt := rc.Version
	expectedInvoice := inv.Version

	amount, err := valueobject.NewMoney(req.Amount, rc.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.allocationSvc.Allocate(rc, inv, amount); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, rc, expectedReceipt); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expectedInvoice); err != nil {
		return nil, err
	}

	s.logger.Info("receipt allocated",
		zap.String("receipt_number", rc.ReceiptNumber),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("amount", amount.Amount().String()))

	if inv.Status == billing.InvoiceStatusPaid {
		s.notifyReceipt(ctx, "INVOICE_PAID", rc, inv)
	}

	return &AllocateResult{
		Receipt: toReceiptResponse(rc),
		Invoice: toInvoiceResponse(inv),
	}, nil
}

// Deallocate reverses a receipt's allocation to an invoice
func (s *ReceiptService) Deallocate(ctx context.Context, receiptID, invoiceID uuid.UUID) (*AllocateResult, error) {
	rc, err := s.findReceipt(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	inv, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}

	expectedReceipt := rc.Version
	expectedInvoice := inv.Version

	if err := s.allocationSvc.Deallocate(rc, inv); err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, rc, expectedReceipt); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expectedInvoice); err != nil {
		return nil, err
	}

	return &AllocateResult{
		Receipt: toReceiptResponse(rc),
		Invoice: toInvoiceResponse(inv),
	}, nil
}

// ToggleClearingRequest represents a cheque clearing change
type ToggleClearingRequest struct {
	Cleared      bool       `json:"cleared"`
	ClearingDate *time.Time `json:"clearing_date"`
}

// ToggleClearing marks a cheque receipt cleared or un-cleared
func (s *ReceiptService) ToggleClearing(ctx context.Context, id uuid.UUID, req ToggleClearingRequest, actor uuid.UUID) (*ReceiptResponse, error) {
	rc, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := rc.Version

	if err := rc.ToggleClearing(req.Cleared, req.ClearingDate, actor); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.SaveWithLock(ctx, rc, expected); err != nil {
		return nil, err
	}
	return toReceiptResponse(rc), nil
}

// ChangeReceiptStatusRequest represents a lifecycle transition request
type ChangeReceiptStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ChangeReceiptStatus advances the receipt through its lifecycle
func (s *ReceiptService) ChangeReceiptStatus(ctx context.Context, id uuid.UUID, req ChangeReceiptStatusRequest, actor uuid.UUID) (*ReceiptResponse, error) {
	rc, err := s.findReceipt(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := rc.Version

	switch billing.ReceiptStatus(req.Status) {
	case billing.ReceiptStatusValidated:
		err = rc.Validate(actor)
	case billing.ReceiptStatusPosted:
		err = rc.Post(actor)
	case billing.ReceiptStatusCleared:
		err = rc.MarkStatusCleared(actor)
	case billing.ReceiptStatusCancelled:
		err = rc.Cancel(req.Reason, actor)
	default:
		err = shared.NewValidationError("Unknown receipt status")
	}
	if err != nil {
		return nil, err
	}

	if err := s.receiptRepo.SaveWithLock(ctx, rc, expected); err != nil {
		return nil, err
	}

	if rc.Status == billing.ReceiptStatusPosted {
		s.notifyReceipt(ctx, "RECEIPT_POSTED", rc, nil)
	}

	return toReceiptResponse(rc), nil
}

// DeleteReceipt deletes a draft receipt
func (s *ReceiptService) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	rc, err := s.findReceipt(ctx, id)
	if err != nil {
		return err
	}
	if !rc.CanDelete() {
		return shared.NewImmutableRecordError("Only draft receipts can be deleted")
	}
	return s.receiptRepo.Delete(ctx, id)
}

func (s *ReceiptService) findReceipt(ctx context.Context, id uuid.UUID) (*billing.LeaseReceipt, error) {
	rc, err := s.receiptRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Receipt not found")
	}
	return rc, nil
}

func (s *ReceiptService) notifyReceipt(ctx context.Context, trigger string, rc *billing.LeaseReceipt, inv *billing.LeaseInvoice) {
	if s.notification == nil {
		return
	}
	customer, err := s.customers.GetCustomer(ctx, rc.CustomerID)
	if err != nil || customer == nil || customer.Email == "" {
		return
	}
	variables := map[string]string{
		"number":   rc.ReceiptNumber,
		"customer": rc.CustomerName,
		"amount":   rc.GetReceiptAmountMoney().String(),
	}
	if inv != nil {
		variables["invoice_number"] = inv.InvoiceNumber
	}
	if err := s.notification.EnqueueAutomatedEmail(ctx, trigger, variables, []string{customer.Email}); err != nil {
		s.logger.Warn("failed to enqueue receipt notification",
			zap.String("trigger", trigger),
			zap.String("receipt_number", rc.ReceiptNumber),
			zap.Error(err))
	}
}
