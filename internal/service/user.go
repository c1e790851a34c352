package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mstrother/barky/internal/apperror"
	"github.com/mstrother/barky/internal/auth"
	"github.com/mstrother/barky/internal/model"
	"github.com/mstrother/barky/internal/repository"
)

const MaxUsernameLength = 150

// UserService handles account registration, credential checks, and user CRUD.
//
// Passwords cross this boundary exactly once, as plaintext arguments to
// Create/Update/Authenticate, and leave it only as bcrypt hashes on the model.
type UserService struct {
	repo      repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		passwords: passwords,
		logger:    logger,
	}
}

// validateUsername enforces the username rules shared by Create and Update.
func validateUsername(username string) error {
	if username == "" {
		return apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	return nil
}

// hashPassword validates and hashes a plaintext password, translating the
// over-length error into a field-level validation failure.
func (s *UserService) hashPassword(password string) (string, error) {
	if password == "" {
		return "", apperror.ValidationFailed("password", "password is required")
	}
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}
	return hash, nil
}

// Create registers a new user. A new user owns no snippets.
//
// A duplicate username is a CLIENT error, not a server conflict of interest:
// the store reports it as ErrConflict and we re-present it as a field-level
// validation failure, which is what API clients expect from a bad payload.
func (s *UserService) Create(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("username",
				fmt.Sprintf("username %q is already taken", username))
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// GetByID retrieves a user by id, snippet ids included.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of users plus the pre-pagination total.
// Users support no ordering directive; the order is always ascending id.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, int, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}

	total := len(users)
	page, _, _ := paginate(users, limit, offset)

	return page, total, nil
}

// Update replaces a user's username and password (full PUT semantics).
func (s *UserService) Update(ctx context.Context, id int64, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.PasswordHash = hash

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.ValidationFailed("username",
				fmt.Sprintf("username %q is already taken", username))
		}
		s.logger.Error("failed to update user",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated", slog.Int64("id", user.ID))

	return user, nil
}

// Delete removes a user. Their snippets are removed with them (cascade).
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.Int64("id", id))
	return nil
}

// Authenticate verifies a username/password pair and returns the account.
//
// Both "no such user" and "wrong password" return the SAME unauthorized
// error. Distinguishing them would let an attacker probe which usernames
// exist.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid username or password")
		}
		return nil, fmt.Errorf("looking up user %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	return user, nil
}
