package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/service/auth"
	"github.com/phrazzld/studio-api/internal/store"
)

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService handles user registration and authentication.
type UserService struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	verifier   auth.PasswordVerifier
	logger     *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		userStore:  userStore,
		jwtService: jwtService,
		verifier:   verifier,
		logger:     logger.With("component", "user_service"),
	}
}

// Register creates a new user account and returns the user together
// with an initial token pair. Returns ErrEmailExists if the email is
// taken, or a domain validation error for bad input.
func (s *UserService) Register(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, nil, ErrEmailExists
		}
		return nil, nil, newServiceError("register", "failed to create user", err)
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, newServiceError("register", "failed to issue tokens", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, tokens, nil
}

// Login authenticates a user by email and password and returns a new
// token pair. Returns ErrInvalidCredentials for an unknown email or a
// wrong password; the two cases are indistinguishable to callers.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, newServiceError("login", "failed to look up user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		s.logger.DebugContext(ctx, "password mismatch", "user_id", user.ID)
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, newServiceError("login", "failed to issue tokens", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, tokens, nil
}

// Refresh validates a refresh token and issues a new token pair.
// Auth-layer sentinel errors (auth.ErrExpiredRefreshToken and friends)
// pass through for the handler to map.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(ctx, claims.UserID)
	if err != nil {
		return nil, newServiceError("refresh", "failed to issue tokens", err)
	}

	s.logger.DebugContext(ctx, "token pair refreshed", "user_id", claims.UserID)
	return tokens, nil
}

func (s *UserService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
