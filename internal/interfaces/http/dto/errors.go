package dto

import "net/http"

// Wire-format error codes. Every error envelope carries exactly one of
// these in its code field; clients branch on the code, not the message.
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation = "ERR_VALIDATION"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeInvalidAmount       = "ERR_INVALID_AMOUNT"
	ErrCodeInvalidTotal        = "ERR_INVALID_TOTAL"
	ErrCodeOverpayment         = "ERR_OVERPAYMENT"
	ErrCodeOverAllocation      = "ERR_OVER_ALLOCATION"
	ErrCodeInsufficientReceipt = "ERR_INSUFFICIENT_RECEIPT_BALANCE"
	ErrCodeImmutableRecord     = "ERR_IMMUTABLE_RECORD"

	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// codeEntry ties a wire code to its HTTP status and the domain-layer code
// it translates, if any. Domain codes are the raw strings the engines in
// internal/domain attach to DomainError values.
type codeEntry struct {
	status     int
	domainCode string
}

var codeCatalog = map[string]codeEntry{
	ErrCodeInternal:   {status: http.StatusInternalServerError, domainCode: "INTERNAL_ERROR"},
	ErrCodeValidation: {status: http.StatusBadRequest, domainCode: "VALIDATION_ERROR"},

	ErrCodeUnauthorized: {status: http.StatusUnauthorized, domainCode: "UNAUTHORIZED"},
	ErrCodeForbidden:    {status: http.StatusForbidden, domainCode: "FORBIDDEN"},

	ErrCodeNotFound:            {status: http.StatusNotFound, domainCode: "NOT_FOUND"},
	ErrCodeAlreadyExists:       {status: http.StatusConflict, domainCode: "ALREADY_EXISTS"},
	ErrCodeConflict:            {status: http.StatusConflict},
	ErrCodeConcurrencyConflict: {status: http.StatusConflict, domainCode: "CONCURRENCY_CONFLICT"},

	// Business rule violations surface as 422: the request was well formed
	// but the aggregate's lifecycle or arithmetic rejected it.
	ErrCodeInvalidState:        {status: http.StatusUnprocessableEntity, domainCode: "INVALID_TRANSITION"},
	ErrCodeInvalidAmount:       {status: http.StatusUnprocessableEntity, domainCode: "INVALID_AMOUNT"},
	ErrCodeInvalidTotal:        {status: http.StatusUnprocessableEntity, domainCode: "INVALID_TOTAL"},
	ErrCodeOverpayment:         {status: http.StatusUnprocessableEntity, domainCode: "OVERPAYMENT"},
	ErrCodeOverAllocation:      {status: http.StatusUnprocessableEntity, domainCode: "OVER_ALLOCATION"},
	ErrCodeInsufficientReceipt: {status: http.StatusUnprocessableEntity, domainCode: "INSUFFICIENT_RECEIPT_BALANCE"},
	ErrCodeImmutableRecord:     {status: http.StatusUnprocessableEntity, domainCode: "IMMUTABLE_RECORD"},

	ErrCodeBadRequest:   {status: http.StatusBadRequest, domainCode: "BAD_REQUEST"},
	ErrCodeInvalidInput: {status: http.StatusBadRequest, domainCode: "INVALID_INPUT"},
}

// wireByDomain is the reverse index of codeCatalog, built once at package init.
var wireByDomain = func() map[string]string {
	idx := make(map[string]string, len(codeCatalog))
	for wire, entry := range codeCatalog {
		if entry.domainCode != "" {
			idx[entry.domainCode] = wire
		}
	}
	return idx
}()

// GetHTTPStatus returns the HTTP status for a wire error code. Unknown
// codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if entry, ok := codeCatalog[code]; ok {
		return entry.status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode translates a domain error code into its wire form.
// Codes already in wire form, and unknown codes, pass through unchanged.
func NormalizeErrorCode(code string) string {
	if wire, ok := wireByDomain[code]; ok {
		return wire
	}
	return code
}
