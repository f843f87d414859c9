// Package errors defines the domain error taxonomy shared by services and
// handlers. Errors are sentinel *DomainError values so callers can match them
// with errors.Is after wrapping.
package errors

import "fmt"

// DomainError is a business-rule failure with a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Wrap annotates err with additional context while keeping it matchable.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

var (
	ErrInvalidOperation = &DomainError{
		Code:    "INVALID_OPERATION",
		Message: "invalid operation",
	}
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "unauthorized",
	}
	ErrContention = &DomainError{
		Code:    "CONTENTION",
		Message: "resource busy, retry later",
	}
	ErrGatewayUnavailable = &DomainError{
		Code:    "GATEWAY_UNAVAILABLE",
		Message: "payment gateway unavailable",
	}
)
