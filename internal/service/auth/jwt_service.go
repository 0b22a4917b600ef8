package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims represents the validated claims extracted from a JWT.
type Claims struct {
	// UserID is the unique identifier of the authenticated user
	UserID uuid.UUID
	// TokenType distinguishes access tokens from refresh tokens
	TokenType string
	// Subject is the standard JWT subject claim (the user ID as a string)
	Subject string
	// IssuedAt is when the token was created
	IssuedAt time.Time
	// ExpiresAt is when the token stops being valid
	ExpiresAt time.Time
	// ID is the unique token identifier (jti)
	ID string
}

// JWTService defines the interface for JWT token operations. Access
// tokens authenticate API requests; refresh tokens obtain new token
// pairs without re-entering credentials.
type JWTService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType,
	// or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the given user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates a refresh token and returns its claims.
	// Returns ErrExpiredRefreshToken, ErrWrongTokenType, or
	// ErrInvalidRefreshToken on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}
