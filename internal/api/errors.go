package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/service"
	"github.com/phrazzld/tasklist/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Credentials are checked first: an unknown username wraps ErrUserNotFound
	// and must not surface as 404.
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case domain.IsValidationError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrForbidden),
		store.IsForbiddenError(err):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrInvalidID),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, service.ErrDuplicateUsername),
		store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred."
	}

	switch {
	// Same text for unknown user and wrong password.
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password."

	case domain.IsValidationError(err):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return validationSentence(ve)
		}
		return "Invalid form submission."

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid form submission."

	case errors.Is(err, service.ErrForbidden),
		store.IsForbiddenError(err):
		return "You do not have permission to change this task."

	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrTaskNotFound):
		return "Task not found."

	case store.IsNotFoundError(err):
		return "Not found."

	case errors.Is(err, service.ErrDuplicateUsername),
		store.IsDuplicateError(err):
		return "That username is already taken."

	case errors.Is(err, domain.ErrUnauthorized):
		return "Please log in."

	default:
		return "An unexpected error occurred."
	}
}

func validationSentence(ve *domain.ValidationError) string {
	label := ve.Field
	switch label {
	case "title":
		label = "Title"
	case "username":
		label = "Username"
	case "password":
		label = "Password"
	}
	return label + " " + ve.Message + "."
}
