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

// NotificationGateway enqueues automated emails for later dispatch. Enqueue
// failures never roll back the domain state change that triggered them.
type NotificationGateway interface {
	EnqueueAutomatedEmail(ctx context.Context, triggerEvent string, variables map[string]string, recipients []string) error
}

// InvoiceService provides application-level lease invoice operations
type InvoiceService struct {
	invoiceRepo  billing.LeaseInvoiceRepository
	contracts    acl.ContractGateway
	customers    acl.CustomerGateway
	taxes        acl.TaxGateway
	notification NotificationGateway
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.LeaseInvoiceRepository,
	contracts acl.ContractGateway,
	customers acl.CustomerGateway,
	taxes acl.TaxGateway,
	notification NotificationGateway,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		contracts:    contracts,
		customers:    customers,
		taxes:        taxes,
		notification: notification,
		logger:       logger,
	}
}

// ChargeLineResponse represents a charge line in API responses
type ChargeLineResponse struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	ChargeAmount  decimal.Decimal `json:"charge_amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// PaymentRecordResponse represents an applied payment in API responses
type PaymentRecordResponse struct {
	ID        uuid.UUID       `json:"id"`
	ReceiptID uuid.UUID       `json:"receipt_id"`
	Amount    decimal.Decimal `json:"amount"`
	AppliedAt time.Time       `json:"applied_at"`
	Reversed  bool            `json:"reversed"`
}

// InvoiceResponse represents a lease invoice in API responses
type InvoiceResponse struct {
	ID                uuid.UUID               `json:"id"`
	InvoiceNumber     string                  `json:"invoice_number"`
	ContractID        uuid.UUID               `json:"contract_id"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	CustomerName      string                  `json:"customer_name"`
	UnitID            *uuid.UUID              `json:"unit_id,omitempty"`
	CostCenterID      *uuid.UUID              `json:"cost_center_id,omitempty"`
	CurrencyCode      string                  `json:"currency_code"`
	InvoiceDate       time.Time               `json:"invoice_date"`
	DueDate           *time.Time              `json:"due_date,omitempty"`
	InvoiceAmount     decimal.Decimal         `json:"invoice_amount"`
	TaxPercentage     decimal.Decimal         `json:"tax_percentage"`
	TaxAmount         decimal.Decimal         `json:"tax_amount"`
	AdditionalCharges decimal.Decimal         `json:"additional_charges"`
	DiscountAmount    decimal.Decimal         `json:"discount_amount"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
	PaidAmount        decimal.Decimal         `json:"paid_amount"`
	BalanceAmount     decimal.Decimal         `json:"balance_amount"`
	Status            string                  `json:"status"`
	ChargeLines       []ChargeLineResponse    `json:"charge_lines"`
	PaymentRecords    []PaymentRecordResponse `json:"payment_records,omitempty"`
	Remark            string                  `json:"remark,omitempty"`
	PostedAt          *time.Time              `json:"posted_at,omitempty"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Version           int                     `json:"version"`
}

func toInvoiceResponse(inv *billing.LeaseInvoice) *InvoiceResponse {
	lines := make([]ChargeLineResponse, len(inv.ChargeLines))
	for i, l := range inv.ChargeLines {
		lines[i] = ChargeLineResponse{
			ID:            l.ID,
			Description:   l.Description,
			ChargeAmount:  l.ChargeAmount,
			TaxPercentage: l.TaxPercentage,
			TaxAmount:     l.TaxAmount,
			TotalAmount:   l.TotalAmount,
		}
	}
	records := make([]PaymentRecordResponse, len(inv.PaymentRecords))
	for i, r := range inv.PaymentRecords {
		records[i] = PaymentRecordResponse{
			ID:        r.ID,
			ReceiptID: r.ReceiptID,
			Amount:    r.Amount,
			AppliedAt: r.AppliedAt,
			Reversed:  r.Reversed,
		}
	}
	return &InvoiceResponse{
		ID:                inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		ContractID:        inv.ContractID,
		CustomerID:        inv.CustomerID,
		CustomerName:      inv.CustomerName,
		UnitID:            inv.UnitID,
		CostCenterID:      inv.CostCenterID,
		CurrencyCode:      string(inv.CurrencyCode),
		InvoiceDate:       inv.InvoiceDate,
		DueDate:           inv.DueDate,
		InvoiceAmount:     inv.InvoiceAmount,
		TaxPercentage:     inv.TaxPercentage,
		TaxAmount:         inv.TaxAmount,
		AdditionalCharges: inv.AdditionalCharges,
		DiscountAmount:    inv.DiscountAmount,
		TotalAmount:       inv.TotalAmount,
		PaidAmount:        inv.PaidAmount,
		BalanceAmount:     inv.BalanceAmount,
		Status:            string(inv.Status),
		ChargeLines:       lines,
		PaymentRecords:    records,
		Remark:            inv.Remark,
		PostedAt:          inv.PostedAt,
		PaidAt:            inv.PaidAt,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		Version:           inv.Version,
	}
}

// CreateInvoiceRequest represents a request to create a lease invoice
type CreateInvoiceRequest struct {
	ContractID    uuid.UUID       `json:"contract_id" binding:"required"`
	InvoiceAmount decimal.Decimal `json:"invoice_amount" binding:"required"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	InvoiceDate   time.Time       `json:"invoice_date" binding:"required"`
	DueDate       *time.Time      `json:"due_date"`
	CostCenterID  *uuid.UUID      `json:"cost_center_id"`
	Remark        string          `json:"remark"`
}

// CreateInvoice creates a draft invoice against a lease contract. Customer
// and unit details are resolved from the leasing context.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actor uuid.UUID) (*InvoiceResponse, error) {
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

	taxPct := req.TaxPercentage
	if taxPct.IsZero() {
		if rate, err := s.taxes.DefaultRate(ctx); err == nil && rate != nil {
			taxPct = rate.Percentage
		}
	}

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(contract.CurrencyCode)
	amount, err := valueobject.NewNonNegativeMoney(req.InvoiceAmount, currency)
	if err != nil {
		return nil, err
	}

	inv, err := billing.NewLeaseInvoice(
		number,
		contract.ID,
		customer.ID,
		customer.Name,
		currency,
		amount,
		taxPct,
		req.InvoiceDate,
		req.DueDate,
		actor,
	)
	if err != nil {
		return nil, err
	}
	inv.UnitID = contract.UnitID
	inv.CostCenterID = req.CostCenterID
	if req.Remark != "" {
		inv.Remark = req.Remark
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("lease invoice created",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("contract_id", contract.ID.String()),
		zap.String("total_amount", inv.TotalAmount.String()))

	return toInvoiceResponse(inv), nil
}

// GetInvoice returns an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// InvoiceListFilter defines filtering options for invoice list queries
type InvoiceListFilter struct {
	Search      string     `form:"search"`
	ContractID  *uuid.UUID `form:"contract_id"`
	CustomerID  *uuid.UUID `form:"customer_id"`
	Status      string     `form:"status"`
	DueBefore   *time.Time `form:"due_before"`
	DueAfter    *time.Time `form:"due_after"`
	WithBalance bool       `form:"with_balance"`
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
}

// ListInvoices lists invoices with filtering and pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := billing.InvoiceFilter{
		Filter:      shared.DefaultFilter(),
		ContractID:  filter.ContractID,
		CustomerID:  filter.CustomerID,
		DueBefore:   filter.DueBefore,
		DueAfter:    filter.DueAfter,
		WithBalance: filter.WithBalance,
	}
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Unknown invoice status filter")
		}
		domainFilter.Status = &status
	}

	page, err := s.invoiceRepo.FindFiltered(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toInvoiceResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	InvoiceAmount  decimal.Decimal `json:"invoice_amount" binding:"required"`
	TaxPercentage  decimal.Decimal `json:"tax_percentage"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	DueDate        *time.Time      `json:"due_date"`
	Remark         string          `json:"remark"`
}

// UpdateInvoice updates the amounts of a draft invoice
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest, actor uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := inv.Version

	amount, err := valueobject.NewNonNegativeMoney(req.InvoiceAmount, inv.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdateAmounts(amount, req.TaxPercentage, req.DiscountAmount, actor); err != nil {
		return nil, err
	}
	if req.DueDate != nil {
		inv.DueDate = req.DueDate
	}
	if req.Remark != "" {
		inv.Remark = req.Remark
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expected); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// AddChargeLineRequest represents a request to add a charge line
type AddChargeLineRequest struct {
	Description   string          `json:"description" binding:"required"`
	ChargeAmount  decimal.Decimal `json:"charge_amount" binding:"required"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
}

// AddChargeLine adds an additional charge line to a draft invoice
func (s *InvoiceService) AddChargeLine(ctx context.Context, id uuid.UUID, req AddChargeLineRequest, actor uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := inv.Version

	amount, err := valueobject.NewNonNegativeMoney(req.ChargeAmount, inv.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if _, err := inv.AddChargeLine(req.Description, amount, req.TaxPercentage, actor); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expected); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// RemoveChargeLine removes a charge line from a draft invoice
func (s *InvoiceService) RemoveChargeLine(ctx context.Context, id, lineID uuid.UUID, actor uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := inv.Version

	if err := inv.RemoveChargeLine(lineID, actor); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expected); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// PostInvoice finalizes a draft invoice and notifies the customer
func (s *InvoiceService) PostInvoice(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := inv.Version

	if err := inv.Post(actor); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expected); err != nil {
		return nil, err
	}

	s.notifyInvoice(ctx, "INVOICE_POSTED", inv)

	return toInvoiceResponse(inv), nil
}

// ChangeInvoiceStatusRequest represents a manual status override
type ChangeInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// ChangeInvoiceStatus performs a manual status transition
func (s *InvoiceService) ChangeInvoiceStatus(ctx context.Context, id uuid.UUID, req ChangeInvoiceStatusRequest, actor uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := inv.Version

	target := billing.InvoiceStatus(req.Status)
	switch target {
	case billing.InvoiceStatusCancelled:
		err = inv.Cancel(req.Reason, actor)
	case billing.InvoiceStatusVoid:
		err = inv.Void(req.Reason, actor)
	default:
		err = inv.ChangeStatus(target, actor)
	}
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, inv, expected); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// DeleteInvoice deletes a draft invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	inv, err := s.findInvoice(ctx, id)
	if err != nil {
		return err
	}
	if !inv.CanDelete() {
		return shared.NewImmutableRecordError("Only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, id)
}

func (s *InvoiceService) findInvoice(ctx context.Context, id uuid.UUID) (*billing.LeaseInvoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
	}
	return inv, nil
}

// notifyInvoice enqueues an automated email for the invoice. Failures are
// logged and swallowed so the domain change stands regardless.
func (s *InvoiceService) notifyInvoice(ctx context.Context, trigger string, inv *billing.LeaseInvoice) {
	if s.notification == nil {
		return
	}
	customer, err := s.customers.GetCustomer(ctx, inv.CustomerID)
	if err != nil || customer == nil || customer.Email == "" {
		return
	}
	variables := map[string]string{
		"number":   inv.InvoiceNumber,
		"customer": inv.CustomerName,
		"amount":   inv.GetTotalAmountMoney().String(),
		"balance":  inv.GetBalanceAmountMoney().String(),
	}
	if err := s.notification.EnqueueAutomatedEmail(ctx, trigger, variables, []string{customer.Email}); err != nil {
		s.logger.Warn("failed to enqueue invoice notification",
			zap.String("trigger", trigger),
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err))
	}
}
