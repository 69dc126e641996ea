package handler

import (
	"github.com/gin-gonic/gin"

	masterdataapp "github.com/leasedesk/backend/internal/application/masterdata"
)

// MasterDataHandler handles reference data API endpoints: currencies,
// cost centers, deduction charges, suppliers, email templates, companies.
type MasterDataHandler struct {
	BaseHandler
	masterDataService *masterdataapp.MasterDataService
}

// NewMasterDataHandler creates a new MasterDataHandler
func NewMasterDataHandler(masterDataService *masterdataapp.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{
		masterDataService: masterDataService,
	}
}

// CreateCurrency godoc
// @Summary      Create a currency
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        request body masterdataapp.CreateCurrencyRequest true "Currency creation request"
// @Success      201 {object} dto.Response{data=masterdataapp.CurrencyResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /masterdata/currencies [post]
func (h *MasterDataHandler) CreateCurrency(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req masterdataapp.CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency, err := h.masterDataService.CreateCurrency(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, currency)
}

// ListCurrencies godoc
// @Summary      List currencies
// @Tags         master-data
// @Produce      json
// @Success      200 {object} dto.Response{data=[]masterdataapp.CurrencyResponse}
// @Security     BearerAuth
// @Router       /masterdata/currencies [get]
func (h *MasterDataHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.masterDataService.ListCurrencies(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, currencies)
}

// GetExchangeRate godoc
// @Summary      Get the exchange rate for a currency
// @Tags         master-data
// @Produce      json
// @Param        code path string true "ISO currency code" example(AED)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /masterdata/currencies/{code}/rate [get]
func (h *MasterDataHandler) GetExchangeRate(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Currency code is required")
		return
	}

	rate, err := h.masterDataService.GetExchangeRate(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"currency_code": code, "exchange_rate": rate})
}

// UpdateExchangeRate godoc
// @Summary      Update the exchange rate for a currency
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        code path string true "ISO currency code" example(AED)
// @Param        request body masterdataapp.UpdateExchangeRateRequest true "Exchange rate update"
// @Success      200 {object} dto.Response{data=masterdataapp.CurrencyResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /masterdata/currencies/{code}/rate [put]
func (h *MasterDataHandler) UpdateExchangeRate(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Currency code is required")
		return
	}

	var req masterdataapp.UpdateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	currency, err := h.masterDataService.UpdateExchangeRate(c.Request.Context(), code, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, currency)
}

// CreateCostCenter godoc
// @Summary      Create a cost center
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        request body masterdataapp.CreateCostCenterRequest true "Cost center creation request"
// @Success      201 {object} dto.Response{data=masterdataapp.CostCenterResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /masterdata/cost-centers [post]
func (h *MasterDataHandler) CreateCostCenter(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req masterdataapp.CreateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	costCenter, err := h.masterDataService.CreateCostCenter(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, costCenter)
}

// ListCostCenters godoc
// @Summary      List cost centers
// @Tags         master-data
// @Produce      json
// @Success      200 {object} dto.Response{data=[]masterdataapp.CostCenterResponse}
// @Security     BearerAuth
// @Router       /masterdata/cost-centers [get]
func (h *MasterDataHandler) ListCostCenters(c *gin.Context) {
	costCenters, err := h.masterDataService.ListCostCenters(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, costCenters)
}

// CreateDeductionCharge godoc
// @Summary      Create a deduction charge type
// @Description  Register a reusable deduction charge for termination settlements
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        request body masterdataapp.CreateDeductionChargeRequest true "Deduction charge creation request"
// @Success      201 {object} dto.Response{data=masterdataapp.DeductionChargeResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /masterdata/deduction-charges [post]
func (h *MasterDataHandler) CreateDeductionCharge(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req masterdataapp.CreateDeductionChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	charge, err := h.masterDataService.CreateDeductionCharge(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, charge)
}

// ListDeductionCharges godoc
// @Summary      List deduction charge types
// @Tags         master-data
// @Produce      json
// @Success      200 {object} dto.Response{data=[]masterdataapp.DeductionChargeResponse}
// @Security     BearerAuth
// @Router       /masterdata/deduction-charges [get]
func (h *MasterDataHandler) ListDeductionCharges(c *gin.Context) {
	charges, err := h.masterDataService.ListDeductionCharges(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, charges)
}

// UpsertEmailTemplate godoc
// @Summary      Create or update an email template
// @Description  Upsert the template bound to a notification trigger event
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        request body masterdataapp.UpsertEmailTemplateRequest true "Email template"
// @Success      200 {object} dto.Response{data=masterdataapp.EmailTemplateResponse}
// @Security     BearerAuth
// @Router       /masterdata/email-templates [put]
func (h *MasterDataHandler) UpsertEmailTemplate(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req masterdataapp.UpsertEmailTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.masterDataService.UpsertEmailTemplate(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, template)
}

// ListEmailTemplates godoc
// @Summary      List email templates
// @Tags         master-data
// @Produce      json
// @Success      200 {object} dto.Response{data=[]masterdataapp.EmailTemplateResponse}
// @Security     BearerAuth
// @Router       /masterdata/email-templates [get]
func (h *MasterDataHandler) ListEmailTemplates(c *gin.Context) {
	templates, err := h.masterDataService.ListEmailTemplates(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, templates)
}

// CreateSupplier godoc
// @Summary      Create a supplier
// @Tags         master-data
// @Accept       json
// @Produce      json
// @Param        request body masterdataapp.CreateSupplierRequest true "Supplier creation request"
// @Success      201 {object} dto.Response{data=masterdataapp.SupplierResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /masterdata/suppliers [post]
func (h *MasterDataHandler) CreateSupplier(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req masterdataapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.masterDataService.CreateSupplier(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, supplier)
}

// ListSuppliers godoc
// @Summary      List suppliers
// @Tags         master-data
// @Produce      json
// @Success      200 {object} dto.Response{data=[]masterdataapp.SupplierResponse}
// @Security     BearerAuth
// @Router       /masterdata/suppliers [get]
func (h *MasterDataHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.masterDataService.ListSuppliers(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, suppliers)
}

// ListCompanies godoc
// @Summary      List companies
// @Tags         master-data
// @Produce      json
// @Success      200 {object} dto.Response{data=[]masterdataapp.CompanyResponse}
// @Security     BearerAuth
// @Router       /masterdata/companies [get]
func (h *MasterDataHandler) ListCompanies(c *gin.Context) {
	companies, err := h.masterDataService.ListCompanies(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, companies)
}
