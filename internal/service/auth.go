package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/repository"
)

// AuthService exchanges credentials for a signed token.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                                 ↘ PasswordService (bcrypt)
//	                                 ↘ TokenService (JWT)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Login verifies the plaintext password against the stored bcrypt hash and
// issues a token carrying the username and admin flag.
//
// ONE ANSWER FOR EVERY BAD LOGIN:
// An unknown user and a wrong password both return "Invalid credentials".
// Only a store failure (database down) comes back as a plain error, and the
// handler turns that into a 500.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.Get(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthorized("Invalid credentials")
		}
		return "", fmt.Errorf("service/auth: looking up %s: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Warn("failed login", slog.String("username", username))
		return "", apperror.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(user.Username, user.IsAdmin)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for %s: %w", username, err)
	}

	s.logger.Info("user logged in", slog.String("username", username))
	return token, nil
}
