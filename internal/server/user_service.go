// Package server provides the HTTP API for the placement advisor.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/placement-advisor/internal/config"
	"github.com/jonathan/placement-advisor/internal/db"
	"github.com/jonathan/placement-advisor/internal/logging"
	"github.com/jonathan/placement-advisor/internal/types"
)

// UserService provides business logic for user authentication operations
type UserService struct {
	db             DBClient
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(db DBClient, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             db,
		passwordConfig: passwordConfig,
	}
}

// convertDBUserToTypesUser converts db.User to types.User, excluding password hash
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:        dbUser.ID,
		Username:  dbUser.Username,
		Role:      dbUser.Role,
		CreatedAt: dbUser.CreatedAt,
	}
}

// Register creates a new account with the user role.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	return s.create(ctx, req.Username, req.Password, db.RoleUser)
}

func (s *UserService) create(ctx context.Context, username, password, role string) (*types.User, error) {
	exists, err := s.db.CheckUsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, &ErrUsernameTaken{Username: username}
	}

	passwordHash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, username, passwordHash, role)
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, db.ErrDuplicateUsername) {
			return nil, &ErrUsernameTaken{Username: username}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if dbUser == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if s.passwordConfig.NeedsRehash(dbUser.PasswordHash) {
		s.rehash(ctx, dbUser.ID, req.Password)
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// rehash upgrades a stored hash to the configured cost. Failures only log;
// the login itself already succeeded.
func (s *UserService) rehash(ctx context.Context, userID uuid.UUID, password string) {
	hash, err := s.passwordConfig.HashPassword(password)
	if err == nil {
		err = s.db.UpdatePassword(ctx, userID, hash)
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("password rehash failed")
		return
	}
	logging.Ctx(ctx).Info().Str("user_id", userID.String()).Msg("password rehashed")
}

// UpdatePassword updates a user's password
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, dbUser.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// EnsureAdmin creates the configured administrator if the username is free.
// An existing account is left untouched. A nil cfg is a no-op.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg *config.AdminConfig) error {
	if cfg == nil {
		return nil
	}
	existing, err := s.db.GetUserByUsername(ctx, cfg.Username)
	if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		if !existing.IsAdmin() {
			logging.Warn().Str("username", cfg.Username).Msg("configured admin username belongs to a regular user")
		}
		return nil
	}

	user, err := s.create(ctx, cfg.Username, cfg.Password, db.RoleAdmin)
	if err != nil {
		var taken *ErrUsernameTaken
		if errors.As(err, &taken) {
			return nil
		}
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	logging.Info().Str("username", user.Username).Msg("admin account created")
	return nil
}
