package shared

import (
	"errors"
	"fmt"
)

// Error codes carried by DomainError. The HTTP layer maps each to a status.
const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotAcceptable = "NOT_ACCEPTABLE"
	CodeNotFound      = "NOT_FOUND"
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodePersistence   = "PERSISTENCE_ERROR"
)

// DomainError represents a classified failure whose message is safe to return to the caller
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError by code so sentinel comparisons work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
	}
	return false
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// NewAuthenticationError reports missing or wrong partner credentials
func NewAuthenticationError(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message)
}

// NewBadRequestError reports malformed or unsupported request parameters
func NewBadRequestError(message string) *DomainError {
	return NewDomainError(CodeBadRequest, message)
}

// NewNotAcceptableError reports a request missing a parameter it cannot be processed without
func NewNotAcceptableError(message string) *DomainError {
	return NewDomainError(CodeNotAcceptable, message)
}

// NewNotFoundError reports a referenced record that does not exist
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// NewConfigurationError reports a store misconfiguration. Retrying will not help.
func NewConfigurationError(message string, err error) *DomainError {
	return &DomainError{Code: CodeConfiguration, Message: message, Err: err}
}

// Common domain errors
var (
	// ErrNotFound is returned by repositories when a lookup matches nothing.
	ErrNotFound = NewDomainError(CodeNotFound, "")
)

// PersistenceError reports a failed write of an order
type PersistenceError struct {
	OrderID int64
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("Failed to save order with id %d", e.OrderID)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// AsDomainError returns the error as a DomainError, promoting PersistenceError to
// one with CodePersistence. The second result is false for unclassified errors.
func AsDomainError(err error) (*DomainError, bool) {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return &DomainError{Code: CodePersistence, Message: pe.Error(), Err: pe.Err}, true
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
