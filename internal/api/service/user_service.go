package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ledgerbooks/backend/internal/auth"
	"github.com/ledgerbooks/backend/internal/domain/user"
)

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userRepo user.Repository
	tokens   *auth.TokenManager
	logger   *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(logger *slog.Logger, userRepo user.Repository, tokens *auth.TokenManager) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new user with a bcrypt password hash.
// Uniqueness of username and email is left to the storage constraints.
func (s *UserServiceImpl) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := user.NewUser(username, email, passwordHash)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("Registered new user", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login verifies the credentials and issues a bearer token. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials so the response never
// reveals which half was wrong.
func (s *UserServiceImpl) Login(ctx context.Context, username, password string) (*user.User, string, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if u == nil || !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", user.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", "user_id", u.ID, "error", err)
		return nil, "", err
	}

	s.logger.Info("User logged in", "user_id", u.ID, "username", u.Username)
	return u, token, nil
}

// GetUser retrieves a user by id
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
