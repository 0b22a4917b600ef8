package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/studio-api/internal/generation"
	"github.com/phrazzld/studio-api/internal/service"
	"github.com/phrazzld/studio-api/internal/service/auth"
	"github.com/phrazzld/studio-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors; ownership failures surface the same way
	case errors.Is(err, service.ErrBriefNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Generation provider errors
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrEmptySourceText),
		errors.Is(err, generation.ErrEmptyPrompt):
		return http.StatusBadRequest

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrBriefNotFound):
		return "Brief not found"

	case errors.Is(err, service.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, service.ErrContentNotFound):
		return "Content not found"

	case errors.Is(err, service.ErrConversationNotFound):
		return "Conversation not found"

	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, generation.ErrContentBlocked):
		return "Request was blocked by the content policy"

	case errors.Is(err, generation.ErrTransientFailure):
		return "Generation service temporarily unavailable"

	case errors.Is(err, generation.ErrEmptySourceText):
		return "Source text cannot be empty"

	case errors.Is(err, generation.ErrEmptyPrompt):
		return "Prompt cannot be empty"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}
