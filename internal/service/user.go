package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/repository"
)

// UserService handles account management. Plaintext passwords enter here
// and only bcrypt hashes leave for the repository.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*model.User, error) {
	return s.repo.Get(ctx, username)
}

// Create registers a user. is_admin defaults to false when not supplied.
//
// ADMIN ACCOUNTS:
// POST /users is public, so is_admin=true is only honoured when the request
// itself carries an admin token (see auth.OptionalClaims). Anyone else gets
// 403 and nothing is written.
func (s *UserService) Create(ctx context.Context, nu model.NewUser) (*model.User, error) {
	isAdmin := nu.IsAdmin != nil && *nu.IsAdmin
	if isAdmin {
		if caller, ok := auth.ClaimsFromContext(ctx); !ok || !caller.IsAdmin {
			s.logger.Warn("refused admin registration from non-admin caller",
				slog.String("username", nu.Username),
			)
			return nil, apperror.Forbidden("only admins can create admin users")
		}
	}
	return s.create(ctx, nu, isAdmin)
}

// EnsureAdmin creates the bootstrap admin account unless a user with that
// name already exists. Called once at startup; the existing account is left
// untouched, whatever its is_admin flag.
func (s *UserService) EnsureAdmin(ctx context.Context, nu model.NewUser) error {
	existing, err := s.repo.Get(ctx, nu.Username)
	if err == nil {
		if !existing.IsAdmin {
			s.logger.Warn("bootstrap admin exists without admin rights",
				slog.String("username", existing.Username),
			)
		}
		return nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("looking up bootstrap admin: %w", err)
	}

	if _, err := s.create(ctx, nu, true); err != nil {
		return fmt.Errorf("creating bootstrap admin: %w", err)
	}
	return nil
}

func (s *UserService) create(ctx context.Context, nu model.NewUser, isAdmin bool) (*model.User, error) {
	if nu.Username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if nu.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(nu.Password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user, err := s.repo.Create(ctx, model.User{
		Username:     nu.Username,
		PasswordHash: hash,
		FirstName:    nu.FirstName,
		LastName:     nu.LastName,
		Email:        nu.Email,
		PhotoURL:     nu.PhotoURL,
		IsAdmin:      isAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("username", user.Username),
		slog.Bool("is_admin", user.IsAdmin),
	)
	return user, nil
}

// Update applies a partial update. A new password is hashed before storage.
func (s *UserService) Update(ctx context.Context, username string, p model.UserPatch) (*model.User, error) {
	if p.IsEmpty() {
		return nil, apperror.ValidationFailed("", "no fields to update")
	}

	if p.Password != nil {
		hash, err := s.passwords.Hash(*p.Password)
		if err != nil {
			return nil, apperror.ValidationFailed("password", err.Error())
		}
		p.Password = &hash
	}

	user, err := s.repo.Update(ctx, username, p)
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated", slog.String("username", username))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.String("username", username))
	return nil
}
