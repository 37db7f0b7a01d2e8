package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeLoad          = "LOAD_ERROR"
	ErrCodeTimeout       = "TIMEOUT"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrQuestionRequired = NewDomainError(ErrCodeValidation, "question is required")
	ErrInvalidImage     = NewDomainError(ErrCodeValidation, "image is not valid base64")
)

// Load errors
var (
	ErrKnowledgeBaseEmpty = NewDomainError(ErrCodeLoad, "no valid entries in either collection")
	ErrDuplicateEntryID   = NewDomainError(ErrCodeLoad, "duplicate entry id")
)

// Request budget errors
var (
	ErrTimeout = NewDomainError(ErrCodeTimeout, "question processing exceeded the time budget")
)
