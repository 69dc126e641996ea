package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	terminationapp "github.com/leasedesk/backend/internal/application/termination"
)

// TerminationHandler handles contract termination settlement API endpoints
type TerminationHandler struct {
	BaseHandler
	terminationService *terminationapp.TerminationService
}

// NewTerminationHandler creates a new TerminationHandler
func NewTerminationHandler(terminationService *terminationapp.TerminationService) *TerminationHandler {
	return &TerminationHandler{
		terminationService: terminationService,
	}
}

// Create godoc
// @Summary      Create a termination settlement
// @Description  Open a termination settlement for a lease contract, seeding figures from its billing history
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        request body terminationapp.CreateTerminationRequest true "Termination creation request"
// @Success      201 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations [post]
func (h *TerminationHandler) Create(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req terminationapp.CreateTerminationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tm, err := h.terminationService.CreateTermination(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, tm)
}

// GetByID godoc
// @Summary      Get termination by ID
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id} [get]
func (h *TerminationHandler) GetByID(c *gin.Context) {
	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	tm, err := h.terminationService.GetTermination(c.Request.Context(), terminationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// List godoc
// @Summary      List terminations
// @Description  Retrieve a paginated list of termination settlements with optional filtering
// @Tags         terminations
// @Produce      json
// @Param        search query string false "Search term (termination number, remark)"
// @Param        contract_id query string false "Contract ID" format(uuid)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        status query string false "Termination status" Enums(DRAFT, PENDING_APPROVAL, APPROVED, REFUNDED, COMPLETED, REJECTED, CANCELLED)
// @Param        pending_refund query bool false "Only approved settlements awaiting refund"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]terminationapp.TerminationResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /terminations [get]
func (h *TerminationHandler) List(c *gin.Context) {
	var filter terminationapp.TerminationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	terminations, total, err := h.terminationService.ListTerminations(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, terminations, total, filter.Page, filter.PageSize)
}

// AddDeduction godoc
// @Summary      Add a deduction line
// @Description  Add a deduction line to a draft settlement and recalculate the refund
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        request body terminationapp.AddDeductionRequest true "Deduction request"
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/deductions [post]
func (h *TerminationHandler) AddDeduction(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	var req terminationapp.AddDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tm, err := h.terminationService.AddDeduction(c.Request.Context(), terminationID, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// RemoveDeduction godoc
// @Summary      Remove a deduction line
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        deductionId path string true "Deduction line ID" format(uuid)
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/deductions/{deductionId} [delete]
func (h *TerminationHandler) RemoveDeduction(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	deductionID, err := uuid.Parse(c.Param("deductionId"))
	if err != nil {
		h.BadRequest(c, "Invalid deduction ID format")
		return
	}

	tm, err := h.terminationService.RemoveDeduction(c.Request.Context(), terminationID, deductionID, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// SetAdjustAmount godoc
// @Summary      Set the manual adjustment amount
// @Description  Apply a signed manual adjustment to a draft settlement and recalculate the refund
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        request body terminationapp.SetAdjustAmountRequest true "Adjustment request"
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/adjustment [put]
func (h *TerminationHandler) SetAdjustAmount(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	var req terminationapp.SetAdjustAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tm, err := h.terminationService.SetAdjustAmount(c.Request.Context(), terminationID, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// Recalculate godoc
// @Summary      Recalculate settlement figures
// @Description  Refresh invoiced and received totals from the contract's billing records
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/recalculate [post]
func (h *TerminationHandler) Recalculate(c *gin.Context) {
	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	tm, err := h.terminationService.Recalculate(c.Request.Context(), terminationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// Submit godoc
// @Summary      Submit for approval
// @Description  Move a draft settlement into the approval queue
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/submit [post]
func (h *TerminationHandler) Submit(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	tm, err := h.terminationService.Submit(c.Request.Context(), terminationID, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// Approve godoc
// @Summary      Approve a settlement
// @Description  Approve a pending settlement, freezing its figures
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        request body terminationapp.ApproveRequest false "Approval comment"
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/approve [post]
func (h *TerminationHandler) Approve(c *gin.Context) {
	approver, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	var req terminationapp.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tm, err := h.terminationService.Approve(c.Request.Context(), terminationID, req, approver)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// Reject godoc
// @Summary      Reject a settlement
// @Description  Reject a pending settlement with a mandatory reason
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        request body terminationapp.RejectRequest true "Rejection reason"
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/reject [post]
func (h *TerminationHandler) Reject(c *gin.Context) {
	rejecter, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	var req terminationapp.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tm, err := h.terminationService.Reject(c.Request.Context(), terminationID, req, rejecter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// ResetApproval godoc
// @Summary      Reset an approved settlement to draft
// @Description  Pull an approved settlement back to draft before any refund is processed
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/reset-approval [post]
func (h *TerminationHandler) ResetApproval(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	tm, err := h.terminationService.ResetApproval(c.Request.Context(), terminationID, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// ProcessRefund godoc
// @Summary      Process the refund
// @Description  Record the refund payout for an approved settlement
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        request body terminationapp.ProcessRefundRequest true "Refund details"
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/refund [post]
func (h *TerminationHandler) ProcessRefund(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	var req terminationapp.ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tm, err := h.terminationService.ProcessRefund(c.Request.Context(), terminationID, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// Complete godoc
// @Summary      Complete a settlement
// @Description  Close out a settlement after the refund is done, or directly when no refund is due
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/complete [post]
func (h *TerminationHandler) Complete(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	tm, err := h.terminationService.Complete(c.Request.Context(), terminationID, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// Cancel godoc
// @Summary      Cancel a settlement
// @Description  Abandon a settlement before any refund is processed
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        request body terminationapp.CancelRequest true "Cancellation reason"
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/cancel [post]
func (h *TerminationHandler) Cancel(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	var req terminationapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tm, err := h.terminationService.Cancel(c.Request.Context(), terminationID, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// AttachDocument godoc
// @Summary      Attach a supporting document
// @Description  Register a document attachment and return a presigned upload URL
// @Tags         terminations
// @Accept       json
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        request body terminationapp.AttachDocumentRequest true "Attachment metadata"
// @Success      200 {object} dto.Response{data=terminationapp.AttachDocumentResult}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/documents [post]
func (h *TerminationHandler) AttachDocument(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	var req terminationapp.AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.terminationService.AttachDocument(c.Request.Context(), terminationID, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveDocument godoc
// @Summary      Remove a document attachment
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Param        attachmentId path string true "Attachment ID" format(uuid)
// @Success      200 {object} dto.Response{data=terminationapp.TerminationResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id}/documents/{attachmentId} [delete]
func (h *TerminationHandler) RemoveDocument(c *gin.Context) {
	actor, err := actorID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	attachmentID, err := uuid.Parse(c.Param("attachmentId"))
	if err != nil {
		h.BadRequest(c, "Invalid attachment ID format")
		return
	}

	tm, err := h.terminationService.RemoveDocument(c.Request.Context(), terminationID, attachmentID, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, tm)
}

// Delete godoc
// @Summary      Delete a draft termination
// @Tags         terminations
// @Produce      json
// @Param        id path string true "Termination ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /terminations/{id} [delete]
func (h *TerminationHandler) Delete(c *gin.Context) {
	terminationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid termination ID format")
		return
	}

	if err := h.terminationService.DeleteTermination(c.Request.Context(), terminationID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
