// Package auth provides authentication-related services, including
// JWT token generation/validation and password verification.
package auth

import "errors"

// Common authentication errors
var (
	// ErrInvalidToken indicates the token is malformed, has an invalid
	// signature, or otherwise failed validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates the access token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrTokenNotYetValid indicates the token's "not before" time is in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrMissingToken indicates no token was provided where one is required.
	ErrMissingToken = errors.New("missing token")

	// ErrInvalidRefreshToken indicates the refresh token is malformed or
	// failed validation.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired and
	// the user must log in again.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType indicates a token of one type (access/refresh)
	// was presented where the other was expected.
	ErrWrongTokenType = errors.New("wrong token type")
)
