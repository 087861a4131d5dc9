package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profileauth/internal/auth"
	apperrors "profileauth/internal/errors"
	"profileauth/internal/logger"
	"profileauth/internal/model"
)

// TokenIssuer mints signed bearer tokens.
type TokenIssuer interface {
	Issue(username string) (*auth.SignedToken, error)
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, usernameOrEmail, password string) (*auth.SignedToken, error)
}

// AuthOption customizes an AuthService.
type AuthOption func(*authService)

// WithBanEnforcement refuses login to users whose ban has not yet expired.
func WithBanEnforcement(enabled bool) AuthOption {
	return func(s *authService) { s.enforceBans = enabled }
}

// WithAuthClock overrides the time source used for ban checks.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *authService) { s.now = now }
}

type authService struct {
	store       CredentialStore
	tokens      TokenIssuer
	enforceBans bool
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(store CredentialStore, tokens TokenIssuer, opts ...AuthOption) AuthService {
	s := &authService{
		store:  store,
		tokens: tokens,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user with the default role. Only the username is checked
// here; an email collision is reported by the credential store.
func (s *authService) Register(ctx context.Context, username, email, password string) error {
	_, err := s.store.FindByUsername(ctx, username)
	if err == nil {
		return apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	_, err = s.store.Create(ctx, &model.User{Username: username, Email: email}, password)
	return err
}

// Login resolves the user by username, then by email, and issues a token.
// Unknown users and wrong passwords fail with the same error.
func (s *authService) Login(ctx context.Context, usernameOrEmail, password string) (*auth.SignedToken, error) {
	user, err := s.lookup(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}

	if !s.store.VerifyPassword(user, password) {
		return nil, apperrors.ErrUnauthorized
	}

	if s.enforceBans && user.IsBanned(s.now()) {
		logger.Warningf("login refused for banned user %s", user.ID)
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// lookup returns a nil user without error when no account matches.
func (s *authService) lookup(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	user, err := s.store.FindByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	user, err = s.store.FindByEmail(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return nil, nil
}
