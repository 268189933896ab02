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

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrValidation           = NewDomainError("VALIDATION_ERROR", "Invalid input provided")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict  = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientBalance  = NewDomainError("INSUFFICIENT_BALANCE", "Allocation exceeds the document balance due")
	ErrOverAllocation       = NewDomainError("OVER_ALLOCATION", "Allocations exceed the payment amount")
	ErrCounterpartyMismatch = NewDomainError("COUNTERPARTY_MISMATCH", "Payment and document belong to different parties")
	ErrDocumentNotOpen      = NewDomainError("DOCUMENT_NOT_OPEN", "Document is not open for settlement")
)
