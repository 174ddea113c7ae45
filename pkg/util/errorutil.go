package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes rendered in the response envelope.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeInternal         = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewNotFound uses message verbatim, e.g. "creature 'yeti' not found".
func NewNotFound(message string, err error) error {
	return &DomainError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound, Err: err}
}

func NewUnauthorized(message string, err error) error {
	return &DomainError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized, Err: err}
}

func NewForbidden(message string, err error) error {
	return &DomainError{Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden, Err: err}
}

func NewConflict(message string, err error) error {
	return &DomainError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict, Err: err}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError returns err as a DomainError, falling back to an internal error.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return NewInternalError(err).(*DomainError)
}
