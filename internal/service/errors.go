package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors returned by services. Handlers map these onto
// HTTP status codes.
var (
	// ErrBriefNotFound indicates that the brief does not exist
	ErrBriefNotFound = errors.New("brief not found")

	// ErrProductNotFound indicates that the product does not exist
	ErrProductNotFound = errors.New("product not found")

	// ErrContentNotFound indicates that the content does not exist
	ErrContentNotFound = errors.New("content not found")

	// ErrConversationNotFound indicates that the conversation does not exist
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrNotOwner indicates the resource belongs to a different user
	ErrNotOwner = errors.New("resource does not belong to the requesting user")

	// ErrEmailExists indicates registration with an email that is taken
	ErrEmailExists = errors.New("email address is already registered")

	// ErrInvalidCredentials indicates a failed login attempt
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "parse_brief", "create_product")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError creates a new ServiceError. Known sentinel errors are
// returned directly without wrapping so callers can match them.
func newServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{
		ErrBriefNotFound,
		ErrProductNotFound,
		ErrContentNotFound,
		ErrConversationNotFound,
		ErrNotOwner,
		ErrEmailExists,
		ErrInvalidCredentials,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
