package masterdata

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/leasedesk/backend/internal/domain/masterdata"
	"github.com/leasedesk/backend/internal/domain/shared"
)

// RateCache caches exchange rates in front of the currency repository.
// Cache failures degrade to repository lookups.
type RateCache interface {
	GetRate(ctx context.Context, code string) (decimal.Decimal, bool, error)
	SetRate(ctx context.Context, code string, rate decimal.Decimal, ttl time.Duration) error
	Invalidate(ctx context.Context, code string) error
}

// MasterDataService provides application-level reference data operations
type MasterDataService struct {
	currencyRepo masterdata.CurrencyRepository
	costCenters  masterdata.CostCenterRepository
	suppliers    masterdata.SupplierRepository
	companies    masterdata.CompanyRepository
	charges      masterdata.DeductionChargeRepository
	templates    masterdata.EmailTemplateRepository
	rateCache    RateCache
	rateCacheTTL time.Duration
	logger       *zap.Logger
}

// NewMasterDataService creates a new MasterDataService
func NewMasterDataService(
	currencyRepo masterdata.CurrencyRepository,
	costCenters masterdata.CostCenterRepository,
	suppliers masterdata.SupplierRepository,
	companies masterdata.CompanyRepository,
	charges masterdata.DeductionChargeRepository,
	templates masterdata.EmailTemplateRepository,
	rateCache RateCache,
	logger *zap.Logger,
) *MasterDataService {
	return &MasterDataService{
		currencyRepo: currencyRepo,
		costCenters:  costCenters,
		suppliers:    suppliers,
		companies:    companies,
		charges:      charges,
		templates:    templates,
		rateCache:    rateCache,
		rateCacheTTL: time.Hour,
		logger:       logger,
	}
}

// ===================== Currency Operations =====================

// CurrencyResponse represents a currency in API responses
type CurrencyResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	IsBase       bool            `json:"is_base"`
	IsActive     bool            `json:"is_active"`
	Version      int             `json:"version"`
}

func toCurrencyResponse(c *masterdata.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Symbol:       c.Symbol,
		ExchangeRate: c.ExchangeRate,
		IsBase:       c.IsBase,
		IsActive:     c.IsActive,
		Version:      c.Version,
	}
}

// CreateCurrencyRequest represents a request to register a currency
type CreateCurrencyRequest struct {
	Code         string          `json:"code" binding:"required,len=3"`
	Name         string          `json:"name" binding:"required"`
	Symbol       string          `json:"symbol"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" binding:"required"`
}

// CreateCurrency registers a new reference currency
func (s *MasterDataService) CreateCurrency(ctx context.Context, req CreateCurrencyRequest, actor uuid.UUID) (*CurrencyResponse, error) {
	if existing, err := s.currencyRepo.FindByCode(ctx, req.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	c, err := masterdata.NewCurrency(req.Code, req.Name, req.Symbol, req.ExchangeRate, actor)
	if err != nil {
		return nil, err
	}
	if err := s.currencyRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return toCurrencyResponse(c), nil
}

// UpdateExchangeRateRequest represents a rate change
type UpdateExchangeRateRequest struct {
	ExchangeRate decimal.Decimal `json:"exchange_rate" binding:"required"`
}

// UpdateExchangeRate changes a currency's rate and invalidates its cache
func (s *MasterDataService) UpdateExchangeRate(ctx context.Context, code string, req UpdateExchangeRateRequest, actor uuid.UUID) (*CurrencyResponse, error) {
	c, err := s.currencyRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Currency not found")
	}

	if err := c.UpdateRate(req.ExchangeRate, actor); err != nil {
		return nil, err
	}
	if err := s.currencyRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	if s.rateCache != nil {
		if err := s.rateCache.Invalidate(ctx, c.Code); err != nil {
			s.logger.Warn("failed to invalidate rate cache",
				zap.String("currency", c.Code), zap.Error(err))
		}
	}

	return toCurrencyResponse(c), nil
}

// GetExchangeRate returns the rate for a currency, cache first
func (s *MasterDataService) GetExchangeRate(ctx context.Context, code string) (decimal.Decimal, error) {
	if s.rateCache != nil {
		rate, hit, err := s.rateCache.GetRate(ctx, code)
		if err != nil {
			s.logger.Warn("rate cache lookup failed", zap.String("currency", code), zap.Error(err))
		} else if hit {
			return rate, nil
		}
	}

	c, err := s.currencyRepo.FindByCode(ctx, code)
	if err != nil {
		return decimal.Zero, err
	}
	if c == nil {
		return decimal.Zero, shared.NewDomainError("NOT_FOUND", "Currency not found")
	}

	if s.rateCache != nil {
		if err := s.rateCache.SetRate(ctx, code, c.ExchangeRate, s.rateCacheTTL); err != nil {
			s.logger.Warn("failed to populate rate cache",
				zap.String("currency", code), zap.Error(err))
		}
	}

	return c.ExchangeRate, nil
}

// ListCurrencies lists all active currencies
func (s *MasterDataService) ListCurrencies(ctx context.Context) ([]CurrencyResponse, error) {
	currencies, err := s.currencyRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		responses[i] = *toCurrencyResponse(&currencies[i])
	}
	return responses, nil
}

// ===================== Cost Center Operations =====================

// CostCenterResponse represents a cost center in API responses
type CostCenterResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    bool       `json:"is_active"`
}

// CreateCostCenterRequest represents a request to create a cost center
type CreateCostCenterRequest struct {
	Code        string     `json:"code" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// CreateCostCenter creates a cost center
func (s *MasterDataService) CreateCostCenter(ctx context.Context, req CreateCostCenterRequest, actor uuid.UUID) (*CostCenterResponse, error) {
	if existing, err := s.costCenters.FindByCode(ctx, req.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	cc, err := masterdata.NewCostCenter(req.Code, req.Name, req.Description, req.ParentID, actor)
	if err != nil {
		return nil, err
	}
	if err := s.costCenters.Save(ctx, cc); err != nil {
		return nil, err
	}
	return &CostCenterResponse{
		ID: cc.ID, Code: cc.Code, Name: cc.Name,
		Description: cc.Description, ParentID: cc.ParentID, IsActive: cc.IsActive,
	}, nil
}

// ListCostCenters lists all active cost centers
func (s *MasterDataService) ListCostCenters(ctx context.Context) ([]CostCenterResponse, error) {
	centers, err := s.costCenters.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CostCenterResponse, len(centers))
	for i, cc := range centers {
		responses[i] = CostCenterResponse{
			ID: cc.ID, Code: cc.Code, Name: cc.Name,
			Description: cc.Description, ParentID: cc.ParentID, IsActive: cc.IsActive,
		}
	}
	return responses, nil
}

// ===================== Deduction Charge Operations =====================

// DeductionChargeResponse represents a deduction charge in API responses
type DeductionChargeResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	IsActive      bool            `json:"is_active"`
}

func toDeductionChargeResponse(dc *masterdata.DeductionCharge) *DeductionChargeResponse {
	return &DeductionChargeResponse{
		ID:            dc.ID,
		Code:          dc.Code,
		Name:          dc.Name,
		Description:   dc.Description,
		DefaultAmount: dc.DefaultAmount,
		TaxPercentage: dc.TaxPercentage,
		IsActive:      dc.IsActive,
	}
}

// CreateDeductionChargeRequest represents a request to define a deduction
type CreateDeductionChargeRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
}

// CreateDeductionCharge defines a new termination deduction type
func (s *MasterDataService) CreateDeductionCharge(ctx context.Context, req CreateDeductionChargeRequest, actor uuid.UUID) (*DeductionChargeResponse, error) {
	if existing, err := s.charges.FindByCode(ctx, req.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	dc, err := masterdata.NewDeductionCharge(req.Code, req.Name, req.Description,
		req.DefaultAmount, req.TaxPercentage, actor)
	if err != nil {
		return nil, err
	}
	if err := s.charges.Save(ctx, dc); err != nil {
		return nil, err
	}
	return toDeductionChargeResponse(dc), nil
}

// ListDeductionCharges lists all active deduction charge definitions
func (s *MasterDataService) ListDeductionCharges(ctx context.Context) ([]DeductionChargeResponse, error) {
	charges, err := s.charges.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]DeductionChargeResponse, len(charges))
	for i := range charges {
		responses[i] = *toDeductionChargeResponse(&charges[i])
	}
	return responses, nil
}

// ===================== Email Template Operations =====================

// EmailTemplateResponse represents an email template in API responses
type EmailTemplateResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	TriggerEvent string    `json:"trigger_event"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	IsActive     bool      `json:"is_active"`
}

func toEmailTemplateResponse(et *masterdata.EmailTemplate) *EmailTemplateResponse {
	return &EmailTemplateResponse{
		ID:           et.ID,
		Code:         et.Code,
		TriggerEvent: et.TriggerEvent,
		Subject:      et.Subject,
		Body:         et.Body,
		IsActive:     et.IsActive,
	}
}

// UpsertEmailTemplateRequest represents a template create or update
type UpsertEmailTemplateRequest struct {
	Code         string `json:"code" binding:"required"`
	TriggerEvent string `json:"trigger_event" binding:"required"`
	Subject      string `json:"subject" binding:"required"`
	Body         string `json:"body" binding:"required"`
}

// UpsertEmailTemplate creates or updates the template for a trigger event
func (s *MasterDataService) UpsertEmailTemplate(ctx context.Context, req UpsertEmailTemplateRequest, actor uuid.UUID) (*EmailTemplateResponse, error) {
	existing, err := s.templates.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := existing.Update(req.Subject, req.Body, actor); err != nil {
			return nil, err
		}
		if err := s.templates.Save(ctx, existing); err != nil {
			return nil, err
		}
		return toEmailTemplateResponse(existing), nil
	}

	et, err := masterdata.NewEmailTemplate(req.Code, req.TriggerEvent, req.Subject, req.Body, actor)
	if err != nil {
		return nil, err
	}
	if err := s.templates.Save(ctx, et); err != nil {
		return nil, err
	}
	return toEmailTemplateResponse(et), nil
}

// ListEmailTemplates lists all active templates
func (s *MasterDataService) ListEmailTemplates(ctx context.Context) ([]EmailTemplateResponse, error) {
	templates, err := s.templates.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]EmailTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = *toEmailTemplateResponse(&templates[i])
	}
	return responses, nil
}

// ===================== Supplier Operations =====================

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	IsActive      bool      `json:"is_active"`
}

// CreateSupplierRequest represents a request to register a supplier
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
}

// CreateSupplier registers a supplier
func (s *MasterDataService) CreateSupplier(ctx context.Context, req CreateSupplierRequest, actor uuid.UUID) (*SupplierResponse, error) {
	if existing, err := s.suppliers.FindByCode(ctx, req.Code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	sup, err := masterdata.NewSupplier(req.Code, req.Name, req.ContactPerson, req.Email, req.Phone, actor)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, sup); err != nil {
		return nil, err
	}
	return &SupplierResponse{
		ID: sup.ID, Code: sup.Code, Name: sup.Name,
		ContactPerson: sup.ContactPerson, Email: sup.Email, Phone: sup.Phone,
		IsActive: sup.IsActive,
	}, nil
}

// ListSuppliers lists all active suppliers
func (s *MasterDataService) ListSuppliers(ctx context.Context) ([]SupplierResponse, error) {
	suppliers, err := s.suppliers.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]SupplierResponse, len(suppliers))
	for i, sup := range suppliers {
		responses[i] = SupplierResponse{
			ID: sup.ID, Code: sup.Code, Name: sup.Name,
			ContactPerson: sup.ContactPerson, Email: sup.Email, Phone: sup.Phone,
			IsActive: sup.IsActive,
		}
	}
	return responses, nil
}

// ===================== Company Operations =====================

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	LegalName       string    `json:"legal_name,omitempty"`
	DefaultCurrency string    `json:"default_currency"`
	IsActive        bool      `json:"is_active"`
}

// ListCompanies lists all active companies
func (s *MasterDataService) ListCompanies(ctx context.Context) ([]CompanyResponse, error) {
	companies, err := s.companies.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		responses[i] = CompanyResponse{
			ID: c.ID, Code: c.Code, Name: c.Name, LegalName: c.LegalName,
			DefaultCurrency: string(c.DefaultCurrency), IsActive: c.IsActive,
		}
	}
	return responses, nil
}
