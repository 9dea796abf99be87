package domain

import (
	"errors"
	"fmt"
)

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

// Is matches another DomainError with the same code and message, so wrapped
// sentinels still satisfy errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
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
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUnprocessable    = "UNPROCESSABLE"
	ErrCodeStorageFailure   = "STORAGE_FAILURE"
	ErrCodeUpstreamFailure  = "UPSTREAM_FAILURE"
)

// Validation errors
var (
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
	ErrInvalidTicketStatus  = NewDomainError(ErrCodeValidation, "invalid ticket status")
	ErrInvalidRole          = NewDomainError(ErrCodeValidation, "invalid user role")
	ErrInvalidChatRole      = NewDomainError(ErrCodeValidation, "invalid chat role")
	ErrEmptyInquiry         = NewDomainError(ErrCodeValidation, "inquiry text cannot be empty")
)

// Not found errors
var (
	ErrUserNotFound          = NewDomainError(ErrCodeNotFound, "user not found")
	ErrTicketNotFound        = NewDomainError(ErrCodeNotFound, "ticket not found")
	ErrPayrollNotFound       = NewDomainError(ErrCodeNotFound, "payroll record not found")
	ErrPolicySourceNotFound  = NewDomainError(ErrCodeNotFound, "policy source not found")
	ErrRegulationNotFound    = NewDomainError(ErrCodeNotFound, "no regulation source found")
	ErrNoRegulationInSession = NewDomainError(ErrCodeNotFound, "no regulation scanned in this session")
	ErrNoAnalysisInSession   = NewDomainError(ErrCodeNotFound, "no impact analysis in this session")
	ErrNoDraftInSession      = NewDomainError(ErrCodeNotFound, "no notification draft in this session")
)

// Already exists errors
var (
	ErrUserAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "user already exists")
)

// Authorization errors
var (
	ErrUnknownUser  = NewDomainError(ErrCodeUnauthorized, "unknown user")
	ErrRoleRequired = NewDomainError(ErrCodeForbidden, "insufficient role")
)

// Operation errors
var (
	ErrTicketResolved = NewDomainError(ErrCodeInvalidOperation, "ticket is resolved and cannot change status")
)

// Upstream errors
var (
	ErrRegulationMalformed = NewDomainError(ErrCodeUnprocessable, "could not parse regulation source structure")
	ErrGenerationFailed    = NewDomainError(ErrCodeUpstreamFailure, "generation call failed")
)

// StorageError marks err as a persistence failure. Domain errors pass through
// unchanged so not-found and conflict results keep their meaning.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	return NewDomainErrorWithCause(ErrCodeStorageFailure, op, err)
}

// GenerationError marks err as a failed generation call.
func GenerationError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewDomainErrorWithCause(ErrCodeUpstreamFailure, op, err)
}

// IsStorageFailure reports whether err is a persistence failure.
func IsStorageFailure(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrCodeStorageFailure
}
