package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/interfaces/http/dto"
	"github.com/leasedesk/backend/internal/interfaces/http/middleware"
)

// requestHeaderID is the header and gin-context key carrying the request ID.
const requestHeaderID = "X-Request-ID"

// BaseHandler carries the response helpers shared by all HTTP handlers.
// Embed it and call Success, Created, BadRequest, HandleDomainError and
// friends instead of writing envelopes by hand.
type BaseHandler struct{}

func requestID(c *gin.Context) string {
	if id := c.GetString(requestHeaderID); id != "" {
		return id
	}
	return c.GetHeader(requestHeaderID)
}

// actorID resolves the acting user from JWT claims. The X-User-ID header
// fallback exists for local development only; production traffic always
// passes through the JWT middleware.
func actorID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		raw = c.GetHeader("X-User-ID")
	}
	if raw == "" {
		return uuid.Nil, errors.New("no authenticated user in request context")
	}
	return uuid.Parse(raw)
}

// Success writes a 200 envelope around data.
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 envelope with pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 envelope around data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes an empty 204.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes an error envelope with the given status and error code.
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, requestID(c)))
}

// BadRequest writes a 400 with the generic bad-request code.
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized writes a 401 with the generic unauthorized code.
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// HandleDomainError maps a domain error onto the HTTP envelope. The domain
// error code picks the status through dto.GetHTTPStatus; anything that is
// not a *shared.DomainError is masked as an internal error so repository
// and driver messages never leak to clients.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
		return
	}
	code := dto.NormalizeErrorCode(domainErr.Code)
	h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
}
