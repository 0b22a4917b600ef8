// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidContentStatus is returned when a content status is not valid.
	ErrInvalidContentStatus = errors.New("invalid content status")

	// ErrInvalidContentKind is returned when a content kind is not valid.
	ErrInvalidContentKind = errors.New("invalid content kind")

	// ErrInvalidStatusTransition is returned when a content status change
	// is not a legal lifecycle move.
	ErrInvalidStatusTransition = errors.New("invalid content status transition")

	// ErrInvalidSeverity is returned when a violation severity is not valid.
	ErrInvalidSeverity = errors.New("invalid violation severity")

	// ErrInvalidMessageRole is returned when a chat message role is not valid.
	ErrInvalidMessageRole = errors.New("invalid message role")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
