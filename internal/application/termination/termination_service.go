package termination

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leasedesk/backend/internal/domain/billing"
	"github.com/leasedesk/backend/internal/domain/billing/acl"
	"github.com/leasedesk/backend/internal/domain/masterdata"
	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/domain/shared/valueobject"
	"github.com/leasedesk/backend/internal/domain/termination"
)

// NotificationGateway enqueues automated emails for later dispatch
type NotificationGateway interface {
	EnqueueAutomatedEmail(ctx context.Context, triggerEvent string, variables map[string]string, recipients []string) error
}

// AttachmentStore stores termination documents and issues presigned URLs
// for direct upload and download. Storage failures never affect settlement
// state.
type AttachmentStore interface {
	PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// TerminationService provides application-level contract termination
// operations.
type TerminationService struct {
	terminationRepo termination.ContractTerminationRepository
	invoiceRepo     billing.LeaseInvoiceRepository
	receiptRepo     billing.LeaseReceiptRepository
	chargeRepo      masterdata.DeductionChargeRepository
	contracts       acl.ContractGateway
	customers       acl.CustomerGateway
	attachments     AttachmentStore
	notification    NotificationGateway
	logger          *zap.Logger
}

// NewTerminationService creates a new TerminationService
func NewTerminationService(
	terminationRepo termination.ContractTerminationRepository,
	invoiceRepo billing.LeaseInvoiceRepository,
	receiptRepo billing.LeaseReceiptRepository,
	chargeRepo masterdata.DeductionChargeRepository,
	contracts acl.ContractGateway,
	customers acl.CustomerGateway,
	attachments AttachmentStore,
	notification NotificationGateway,
	logger *zap.Logger,
) *TerminationService {
	return &TerminationService{
		terminationRepo: terminationRepo,
		invoiceRepo:     invoiceRepo,
		receiptRepo:     receiptRepo,
		chargeRepo:      chargeRepo,
		contracts:       contracts,
		customers:       customers,
		attachments:     attachments,
		notification:    notification,
		logger:          logger,
	}
}

// DeductionResponse represents a deduction line in API responses
type DeductionResponse struct {
	ID                uuid.UUID       `json:"id"`
	DeductionChargeID *uuid.UUID      `json:"deduction_charge_id,omitempty"`
	Description       string          `json:"description"`
	DeductionAmount   decimal.Decimal `json:"deduction_amount"`
	TaxPercentage     decimal.Decimal `json:"tax_percentage"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
}

// AttachmentResponse represents a stored document in API responses
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	DownloadURL string    `json:"download_url,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// TerminationResponse represents a contract termination in API responses
type TerminationResponse struct {
	ID                    uuid.UUID            `json:"id"`
	TerminationNumber     string               `json:"termination_number"`
	ContractID            uuid.UUID            `json:"contract_id"`
	CustomerID            uuid.UUID            `json:"customer_id"`
	CustomerName          string               `json:"customer_name"`
	CurrencyCode          string               `json:"currency_code"`
	TerminationDate       time.Time            `json:"termination_date"`
	SecurityDepositAmount decimal.Decimal      `json:"security_deposit_amount"`
	TotalDeductions       decimal.Decimal      `json:"total_deductions"`
	AdjustAmount          decimal.Decimal      `json:"adjust_amount"`
	TotalInvoiced         decimal.Decimal      `json:"total_invoiced"`
	TotalReceived         decimal.Decimal      `json:"total_received"`
	NetSettlement         decimal.Decimal      `json:"net_settlement"`
	RefundAmount          decimal.Decimal      `json:"refund_amount"`
	CreditNoteAmount      decimal.Decimal      `json:"credit_note_amount"`
	IsRefundProcessed     bool                 `json:"is_refund_processed"`
	RefundDate            *time.Time           `json:"refund_date,omitempty"`
	RefundReference       string               `json:"refund_reference,omitempty"`
	Status                string               `json:"status"`
	ApprovalRequired      bool                 `json:"approval_required"`
	ApprovalStatus        string               `json:"approval_status,omitempty"`
	Deductions            []DeductionResponse  `json:"deductions"`
	Attachments           []AttachmentResponse `json:"attachments"`
	TerminationReason     string               `json:"termination_reason,omitempty"`
	Remark                string               `json:"remark,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
	Version               int                  `json:"version"`
}

func toTerminationResponse(tm *termination.ContractTermination) *TerminationResponse {
	deductions := make([]DeductionResponse, len(tm.Deductions))
	for i, d := range tm.Deductions {
		deductions[i] = DeductionResponse{
			ID:                d.ID,
			DeductionChargeID: d.DeductionChargeID,
			Description:       d.Description,
			DeductionAmount:   d.DeductionAmount,
			TaxPercentage:     d.TaxPercentage,
			TaxAmount:         d.TaxAmount,
			TotalAmount:       d.TotalAmount,
		}
	}
	attachments := make([]AttachmentResponse, len(tm.Attachments))
	for i, a := range tm.Attachments {
		attachments[i] = AttachmentResponse{
			ID:         a.ID,
			FileName:   a.FileName,
			UploadedAt: a.UploadedAt,
		}
	}
	return &TerminationResponse{
		ID:                    tm.ID,
		TerminationNumber:     tm.TerminationNumber,
		ContractID:            tm.ContractID,
		CustomerID:            tm.CustomerID,
		CustomerName:          tm.CustomerName,
		CurrencyCode:          string(tm.CurrencyCode),
		TerminationDate:       tm.TerminationDate,
		SecurityDepositAmount: tm.SecurityDepositAmount,
		TotalDeductions:       tm.TotalDeductions,
		AdjustAmount:          tm.AdjustAmount,
		TotalInvoiced:         tm.TotalInvoiced,
		TotalReceived:         tm.TotalReceived,
		NetSettlement:         tm.NetSettlement,
		RefundAmount:          tm.RefundAmount,
		CreditNoteAmount:      tm.CreditNoteAmount,
		IsRefundProcessed:     tm.IsRefundProcessed,
		RefundDate:            tm.RefundDate,
		RefundReference:       tm.RefundReference,
		Status:                string(tm.Status),
		ApprovalRequired:      tm.Approval.Required,
		ApprovalStatus:        string(tm.Approval.Status),
		Deductions:            deductions,
		Attachments:           attachments,
		TerminationReason:     tm.TerminationReason,
		Remark:                tm.Remark,
		CreatedAt:             tm.CreatedAt,
		UpdatedAt:             tm.UpdatedAt,
		Version:               tm.Version,
	}
}

// CreateTerminationRequest represents a request to open a termination
type CreateTerminationRequest struct {
	ContractID        uuid.UUID `json:"contract_id" binding:"required"`
	TerminationDate   time.Time `json:"termination_date" binding:"required"`
	TerminationReason string    `json:"termination_reason"`
	RequiresApproval  bool      `json:"requires_approval"`
}

// CreateTermination opens a termination for a lease contract, seeding the
// security deposit from the contract and the reference figures from the
// contract's invoice and receipt history.
func (s *TerminationService) CreateTermination(ctx context.Context, req CreateTerminationRequest, actor uuid.UUID) (*TerminationResponse, error) {
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

	number, err := s.terminationRepo.NextTerminationNumber(ctx)
	if err != nil {
		return nil, err
	}

	currency := valueobject.Currency(contract.CurrencyCode)
	deposit, err := valueobject.NewNonNegativeMoney(contract.SecurityDeposit, currency)
	if err != nil {
		return nil, err
	}

	tm, err := termination.NewContractTermination(
		number,
		contract.ID,
		customer.ID,
		customer.Name,
		currency,
		deposit,
		req.TerminationDate,
		req.TerminationReason,
		req.RequiresApproval,
		actor,
	)
	if err != nil {
		return nil, err
	}
	tm.UnitID = contract.UnitID

	totalInvoiced, totalReceived := s.contractFigures(ctx, contract.ID)
	if err := tm.SetContractFigures(totalInvoiced, totalReceived, actor); err != nil {
		return nil, err
	}

	if err := s.terminationRepo.Save(ctx, tm); err != nil {
		return nil, err
	}

	s.logger.Info("contract termination created",
		zap.String("termination_number", tm.TerminationNumber),
		zap.String("contract_id", contract.ID.String()),
		zap.String("security_deposit", tm.SecurityDepositAmount.String()))

	s.notify(ctx, masterdata.TriggerTerminationCreated, tm)

	return toTerminationResponse(tm), nil
}

// contractFigures sums the contract's posted invoices and receipts. Lookup
// failures degrade to zero figures; they are reference data only.
func (s *TerminationService) contractFigures(ctx context.Context, contractID uuid.UUID) (invoiced, received decimal.Decimal) {
	invoiced, received = decimal.Zero, decimal.Zero

	invoices, err := s.invoiceRepo.FindByContract(ctx, contractID)
	if err != nil {
		s.logger.Warn("failed to load contract invoices for termination figures", zap.Error(err))
	} else {
		for i := range invoices {
			if !invoices[i].Status.IsTerminal() && invoices[i].Status != billing.InvoiceStatusDraft {
				invoiced = invoiced.Add(invoices[i].TotalAmount)
			}
		}
	}

	receipts, err := s.receiptRepo.FindByContract(ctx, contractID)
	if err != nil {
		s.logger.Warn("failed to load contract receipts for termination figures", zap.Error(err))
	} else {
		for i := range receipts {
			if receipts[i].Status != billing.ReceiptStatusCancelled {
				received = received.Add(receipts[i].ReceiptAmount)
			}
		}
	}

	return invoiced, received
}

// GetTermination returns a termination by ID, with presigned download URLs
// for its attachments when a store is configured.
func (s *TerminationService) GetTermination(ctx context.Context, id uuid.UUID) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTerminationResponse(tm)
	if s.attachments != nil {
		for i, a := range tm.Attachments {
			url, err := s.attachments.PresignDownload(ctx, a.StorageKey, 15*time.Minute)
			if err != nil {
				s.logger.Warn("failed to presign attachment download",
					zap.String("storage_key", a.StorageKey), zap.Error(err))
				continue
			}
			resp.Attachments[i].DownloadURL = url
		}
	}
	return resp, nil
}

// TerminationListFilter defines filtering options for termination queries
type TerminationListFilter struct {
	Search        string     `form:"search"`
	ContractID    *uuid.UUID `form:"contract_id"`
	CustomerID    *uuid.UUID `form:"customer_id"`
	Status        string     `form:"status"`
	PendingRefund bool       `form:"pending_refund"`
	Page          int        `form:"page"`
	PageSize      int        `form:"page_size"`
}

// ListTerminations lists terminations with filtering and pagination
func (s *TerminationService) ListTerminations(ctx context.Context, filter TerminationListFilter) ([]TerminationResponse, int64, error) {
	domainFilter := termination.TerminationFilter{
		Filter:        shared.DefaultFilter(),
		ContractID:    filter.ContractID,
		CustomerID:    filter.CustomerID,
		PendingRefund: filter.PendingRefund,
	}
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := termination.TerminationStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Unknown termination status filter")
		}
		domainFilter.Status = &status
	}

	page, err := s.terminationRepo.FindFiltered(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TerminationResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = *toTerminationResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

// AddDeductionRequest represents a request to add a deduction line.
// When DeductionChargeID is set, blank fields default from the definition.
type AddDeductionRequest struct {
	DeductionChargeID *uuid.UUID       `json:"deduction_charge_id"`
	Description       string           `json:"description"`
	DeductionAmount   *decimal.Decimal `json:"deduction_amount"`
	TaxPercentage     *decimal.Decimal `json:"tax_percentage"`
}

// AddDeduction adds a deduction line and recalculates the settlement
func (s *TerminationService) AddDeduction(ctx context.Context, id uuid.UUID, req AddDeductionRequest, actor uuid.UUID) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	description := req.Description
	amount := decimal.Zero
	taxPct := decimal.Zero
	if req.DeductionAmount != nil {
		amount = *req.DeductionAmount
	}
	if req.TaxPercentage != nil {
		taxPct = *req.TaxPercentage
	}

	if req.DeductionChargeID != nil {
		charge, err := s.chargeRepo.FindByID(ctx, *req.DeductionChargeID)
		if err != nil {
			return nil, err
		}
		if charge == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Deduction charge not found")
		}
		if !charge.IsActive {
			return nil, shared.NewValidationError(
				fmt.Sprintf("Deduction charge %s is inactive", charge.Code))
		}
		if description == "" {
			description = charge.Name
		}
		if req.DeductionAmount == nil {
			amount = charge.DefaultAmount
		}
		if req.TaxPercentage == nil {
			taxPct = charge.TaxPercentage
		}
	}

	money, err := valueobject.NewNonNegativeMoney(amount, tm.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if _, err := tm.AddDeduction(description, money, taxPct, req.DeductionChargeID, actor); err != nil {
		return nil, err
	}

	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}
	return toTerminationResponse(tm), nil
}

// RemoveDeduction removes a deduction line and recalculates the settlement
func (s *TerminationService) RemoveDeduction(ctx context.Context, id, deductionID uuid.UUID, actor uuid.UUID) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	if err := tm.RemoveDeduction(deductionID, actor); err != nil {
		return nil, err
	}
	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}
	return toTerminationResponse(tm), nil
}

// SetAdjustAmountRequest represents a manual settlement correction
type SetAdjustAmountRequest struct {
	AdjustAmount decimal.Decimal `json:"adjust_amount"`
}

// SetAdjustAmount applies a manual correction to the settlement
func (s *TerminationService) SetAdjustAmount(ctx context.Context, id uuid.UUID, req SetAdjustAmountRequest, actor uuid.UUID) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	if err := tm.SetAdjustAmount(req.AdjustAmount, actor); err != nil {
		return nil, err
	}
	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}
	return toTerminationResponse(tm), nil
}

// Recalculate rederives the settlement figures on demand
func (s *TerminationService) Recalculate(ctx context.Context, id uuid.UUID) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	tm.CalculateFigures()
	tm.IncrementVersion()

	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}
	return toTerminationResponse(tm), nil
}

// Submit moves a draft termination into review
func (s *TerminationService) Submit(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*TerminationResponse, error) {
	return s.transition(ctx, id, func(tm *termination.ContractTermination) error {
		return tm.Submit(actor)
	})
}

// ApproveRequest carries the approver's optional comment
type ApproveRequest struct {
	Comment string `json:"comment"`
}

// Approve approves a pending termination, locking it against edits
func (s *TerminationService) Approve(ctx context.Context, id uuid.UUID, req ApproveRequest, approver uuid.UUID) (*TerminationResponse, error) {
	return s.transition(ctx, id, func(tm *termination.ContractTermination) error {
		return tm.Approve(approver, req.Comment)
	})
}

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Reject declines a pending termination back to draft
func (s *TerminationService) Reject(ctx context.Context, id uuid.UUID, req RejectRequest, rejecter uuid.UUID) (*TerminationResponse, error) {
	return s.transition(ctx, id, func(tm *termination.ContractTermination) error {
		return tm.Reject(rejecter, req.Reason)
	})
}

// ResetApproval unwinds a granted or rejected approval
func (s *TerminationService) ResetApproval(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*TerminationResponse, error) {
	return s.transition(ctx, id, func(tm *termination.ContractTermination) error {
		return tm.ResetApproval(actor)
	})
}

// ProcessRefundRequest carries the refund payment details
type ProcessRefundRequest struct {
	RefundDate      time.Time `json:"refund_date" binding:"required"`
	RefundReference string    `json:"refund_reference" binding:"required"`
}

// ProcessRefund pays out the deposit refund and notifies the customer
func (s *TerminationService) ProcessRefund(ctx context.Context, id uuid.UUID, req ProcessRefundRequest, actor uuid.UUID) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	if err := tm.ProcessRefund(req.RefundDate, req.RefundReference, actor); err != nil {
		return nil, err
	}
	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}

	s.logger.Info("termination refund processed",
		zap.String("termination_number", tm.TerminationNumber),
		zap.String("refund_amount", tm.RefundAmount.String()),
		zap.String("refund_reference", req.RefundReference))

	s.notify(ctx, masterdata.TriggerRefundProcessed, tm)

	return toTerminationResponse(tm), nil
}

// Complete closes out an approved termination
func (s *TerminationService) Complete(ctx context.Context, id uuid.UUID, actor uuid.UUID) (*TerminationResponse, error) {
	return s.transition(ctx, id, func(tm *termination.ContractTermination) error {
		return tm.Complete(actor)
	})
}

// CancelRequest carries the mandatory cancellation reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel abandons a termination
func (s *TerminationService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest, actor uuid.UUID) (*TerminationResponse, error) {
	return s.transition(ctx, id, func(tm *termination.ContractTermination) error {
		return tm.Cancel(req.Reason, actor)
	})
}

// AttachDocumentRequest registers an uploaded document
type AttachDocumentRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
}

// AttachDocumentResult carries the presigned upload URL for the client
type AttachDocumentResult struct {
	Termination *TerminationResponse `json:"termination"`
	UploadURL   string               `json:"upload_url"`
}

// AttachDocument records a document against the termination and returns a
// presigned URL the client uploads the binary to.
func (s *TerminationService) AttachDocument(ctx context.Context, id uuid.UUID, req AttachDocumentRequest, actor uuid.UUID) (*AttachDocumentResult, error) {
	if s.attachments == nil {
		return nil, shared.NewValidationError("Attachment storage is not configured")
	}
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	key := fmt.Sprintf("terminations/%s/%s/%s", tm.ID, uuid.New(), req.FileName)
	if _, err := tm.AddAttachment(req.FileName, key, actor); err != nil {
		return nil, err
	}

	uploadURL, err := s.attachments.PresignUpload(ctx, key, req.ContentType, 15*time.Minute)
	if err != nil {
		return nil, err
	}

	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}

	return &AttachDocumentResult{
		Termination: toTerminationResponse(tm),
		UploadURL:   uploadURL,
	}, nil
}

// RemoveDocument deletes a document reference and its stored binary
func (s *TerminationService) RemoveDocument(ctx context.Context, id, attachmentID uuid.UUID, actor uuid.UUID) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	var storageKey string
	for _, a := range tm.Attachments {
		if a.ID == attachmentID {
			storageKey = a.StorageKey
			break
		}
	}

	if err := tm.RemoveAttachment(attachmentID, actor); err != nil {
		return nil, err
	}
	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}

	if s.attachments != nil && storageKey != "" {
		if err := s.attachments.Delete(ctx, storageKey); err != nil {
			s.logger.Warn("failed to delete attachment binary",
				zap.String("storage_key", storageKey), zap.Error(err))
		}
	}

	return toTerminationResponse(tm), nil
}

// DeleteTermination deletes a draft termination
func (s *TerminationService) DeleteTermination(ctx context.Context, id uuid.UUID) error {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return err
	}
	if !tm.CanDelete() {
		return shared.NewImmutableRecordError("Only unlocked draft terminations can be deleted")
	}
	return s.terminationRepo.Delete(ctx, id)
}

func (s *TerminationService) transition(ctx context.Context, id uuid.UUID, op func(*termination.ContractTermination) error) (*TerminationResponse, error) {
	tm, err := s.findTermination(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := tm.Version

	if err := op(tm); err != nil {
		return nil, err
	}
	if err := s.terminationRepo.SaveWithLock(ctx, tm, expected); err != nil {
		return nil, err
	}
	return toTerminationResponse(tm), nil
}

func (s *TerminationService) findTermination(ctx context.Context, id uuid.UUID) (*termination.ContractTermination, error) {
	tm, err := s.terminationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tm == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Termination not found")
	}
	return tm, nil
}

func (s *TerminationService) notify(ctx context.Context, trigger string, tm *termination.ContractTermination) {
	if s.notification == nil {
		return
	}
	customer, err := s.customers.GetCustomer(ctx, tm.CustomerID)
	if err != nil || customer == nil || customer.Email == "" {
		return
	}
	variables := map[string]string{
		"number":    tm.TerminationNumber,
		"customer":  tm.CustomerName,
		"amount":    tm.GetRefundAmountMoney().String(),
		"reference": tm.RefundReference,
	}
	if err := s.notification.EnqueueAutomatedEmail(ctx, trigger, variables, []string{customer.Email}); err != nil {
		s.logger.Warn("failed to enqueue termination notification",
			zap.String("trigger", trigger),
			zap.String("termination_number", tm.TerminationNumber),
			zap.Error(err))
	}
}
