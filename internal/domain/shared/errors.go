package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the domain. Engine operations fail with exactly
// one of these; callers map them to user-facing messages and HTTP statuses.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidTotal        = "INVALID_TOTAL"
	CodeOverpayment         = "OVERPAYMENT"
	CodeOverAllocation      = "OVER_ALLOCATION"
	CodeInsufficientReceipt = "INSUFFICIENT_RECEIPT_BALANCE"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeImmutableRecord     = "IMMUTABLE_RECORD"
)

// NewValidationError creates a VALIDATION_ERROR domain error
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewInvalidTransitionError creates an INVALID_TRANSITION domain error
func NewInvalidTransitionError(message string) *DomainError {
	return NewDomainError(CodeInvalidTransition, message)
}

// NewImmutableRecordError creates an IMMUTABLE_RECORD domain error
func NewImmutableRecordError(message string) *DomainError {
	return NewDomainError(CodeImmutableRecord, message)
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)

// IsDomainError reports whether err is a DomainError with the given code
func IsDomainError(err error, code string) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
