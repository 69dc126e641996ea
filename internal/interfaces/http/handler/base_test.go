package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leasedesk/backend/internal/domain/shared"
	"github.com/leasedesk/backend/internal/interfaces/http/dto"
	"github.com/leasedesk/backend/internal/interfaces/http/middleware"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestID(t *testing.T) {
	t.Run("prefers the gin context value", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(requestHeaderID, "ctx-id")
		c.Request.Header.Set(requestHeaderID, "header-id")
		assert.Equal(t, "ctx-id", requestID(c))
	})

	t.Run("falls back to the request header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set(requestHeaderID, "header-id")
		assert.Equal(t, "header-id", requestID(c))
	})

	t.Run("empty when neither is set", func(t *testing.T) {
		c, _ := newTestContext(t)
		assert.Empty(t, requestID(c))
	})
}

func TestActorID(t *testing.T) {
	actor := uuid.New()

	t.Run("from JWT claims", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(middleware.JWTUserIDKey, actor.String())

		got, err := actorID(c)
		require.NoError(t, err)
		assert.Equal(t, actor, got)
	})

	t.Run("from development header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-User-ID", actor.String())

		got, err := actorID(c)
		require.NoError(t, err)
		assert.Equal(t, actor, got)
	})

	t.Run("missing actor", func(t *testing.T) {
		c, _ := newTestContext(t)
		_, err := actorID(c)
		assert.Error(t, err)
	})

	t.Run("malformed id", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(middleware.JWTUserIDKey, "not-a-uuid")
		_, err := actorID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandler_SuccessResponses(t *testing.T) {
	var h BaseHandler

	t.Run("Success", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Success(c, gin.H{"id": "inv-1"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "inv-1", resp.Data.(map[string]interface{})["id"])
	})

	t.Run("SuccessWithMeta", func(t *testing.T) {
		c, w := newTestContext(t)
		h.SuccessWithMeta(c, []string{"a", "b"}, 27, 2, 10)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(27), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 10, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("Created", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Created(c, gin.H{"id": "rcpt-1"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeEnvelope(t, w).Success)
	})

	t.Run("NoContent", func(t *testing.T) {
		c, w := newTestContext(t)
		h.NoContent(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})
}

func TestBaseHandler_ErrorResponses(t *testing.T) {
	var h BaseHandler

	t.Run("Error carries code, message and request id", func(t *testing.T) {
		c, w := newTestContext(t)
		c.Set(requestHeaderID, "req-7")
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, "receipt already cleared")

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeEnvelope(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
		assert.Equal(t, "receipt already cleared", resp.Error.Message)
		assert.Equal(t, "req-7", resp.Error.RequestID)
	})

	t.Run("BadRequest", func(t *testing.T) {
		c, w := newTestContext(t)
		h.BadRequest(c, "invalid invoice id")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Unauthorized(c, "missing credentials")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		resp := decodeEnvelope(t, w)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	var h BaseHandler

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "business rule violation",
			err:        shared.NewDomainError("OVERPAYMENT", "payment exceeds balance"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeOverpayment,
		},
		{
			name:       "concurrency conflict",
			err:        shared.ErrConcurrencyConflict,
			wantStatus: http.StatusConflict,
			wantCode:   dto.ErrCodeConcurrencyConflict,
		},
		{
			name:       "plain error is masked",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeEnvelope(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}

	t.Run("driver message never reaches the client", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleDomainError(c, errors.New("pq: duplicate key value"))
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}
