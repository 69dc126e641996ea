package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInvalidAmount, http.StatusUnprocessableEntity},
		{ErrCodeInvalidTotal, http.StatusUnprocessableEntity},
		{ErrCodeOverpayment, http.StatusUnprocessableEntity},
		{ErrCodeOverAllocation, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientReceipt, http.StatusUnprocessableEntity},
		{ErrCodeImmutableRecord, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}

	t.Run("unknown code defaults to 500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NOT_IN_CATALOG"))
	})
}

func TestNormalizeErrorCode(t *testing.T) {
	t.Run("translates domain codes", func(t *testing.T) {
		tests := []struct {
			domain string
			wire   string
		}{
			{"NOT_FOUND", ErrCodeNotFound},
			{"VALIDATION_ERROR", ErrCodeValidation},
			{"INVALID_TRANSITION", ErrCodeInvalidState},
			{"IMMUTABLE_RECORD", ErrCodeImmutableRecord},
			{"OVERPAYMENT", ErrCodeOverpayment},
			{"OVER_ALLOCATION", ErrCodeOverAllocation},
			{"INSUFFICIENT_RECEIPT_BALANCE", ErrCodeInsufficientReceipt},
			{"INVALID_AMOUNT", ErrCodeInvalidAmount},
			{"INVALID_TOTAL", ErrCodeInvalidTotal},
			{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
			{"UNAUTHORIZED", ErrCodeUnauthorized},
			{"FORBIDDEN", ErrCodeForbidden},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.wire, NormalizeErrorCode(tt.domain), tt.domain)
		}
	})

	t.Run("wire codes pass through", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	})

	t.Run("unknown codes pass through", func(t *testing.T) {
		assert.Equal(t, "SOMETHING_ELSE", NormalizeErrorCode("SOMETHING_ELSE"))
	})

	t.Run("normalized codes always resolve to a status", func(t *testing.T) {
		for domain := range wireByDomain {
			status := GetHTTPStatus(NormalizeErrorCode(domain))
			assert.NotEqual(t, 0, status)
		}
	})
}
