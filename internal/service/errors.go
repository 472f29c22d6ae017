package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/tasklist/internal/store"
)

// Service errors callers check with errors.Is.
var (
	// ErrInvalidCredentials is returned by Authenticate when the username is
	// unknown or the password does not match. Both cases carry the same
	// sentinel so callers cannot reveal which one occurred.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrDuplicateUsername is returned by Register when the username is taken.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrUserNotFound is wrapped by Authenticate for unknown usernames.
	ErrUserNotFound = store.ErrUserNotFound

	// ErrTaskNotFound indicates the task does not exist.
	ErrTaskNotFound = store.ErrTaskNotFound

	// ErrForbidden indicates the task belongs to another user.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = store.ErrTaskNotOwned
)

// ServiceError is a custom error type for service failures.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
