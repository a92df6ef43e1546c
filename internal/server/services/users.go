package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/auth"
	"github.com/primesolution/invoicer/internal/server/config"
	"github.com/primesolution/invoicer/internal/server/models"
	"github.com/primesolution/invoicer/internal/server/repositories/users"
)

// Account statuses and roles as stored.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserService handles authentication and account management.
type UserService struct {
	repo                  users.Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
	logger                logging.Logger
	now                   func() time.Time
}

func NewUserService(repo users.Repository, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
		logger:                logger.With("component", "users"),
		now:                   time.Now,
	}
}

// Login verifies credentials and mints a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller; a suspended
// account is reported as such only after the password checks out.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", common.ErrorUnauthorized
	}

	if u.Status == StatusSuspended {
		return nil, "", common.ErrUserSuspended
	}

	token, err := auth.GenerateToken(u.Username, u.Role, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return u, token, nil
}

// Authenticate validates a session token and returns its claims.
func (s *UserService) Authenticate(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// RequireAdmin validates a session token and checks its role.
func (s *UserService) RequireAdmin(token string) (*auth.Claims, error) {
	claims, err := s.Authenticate(token)
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin {
		return nil, common.ErrorUnauthorized
	}
	return claims, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

// Create adds an account with a freshly hashed password.
func (s *UserService) Create(ctx context.Context, username, name, role, status, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if role == "" {
		role = RoleUser
	}
	if status == "" {
		status = StatusActive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.Create(ctx, &models.User{
		Username:     username,
		Name:         name,
		Role:         role,
		Status:       status,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
}

// Update rewrites an account. An empty password keeps the stored hash, so
// suspending or renaming never resets credentials.
func (s *UserService) Update(ctx context.Context, username, name, role, status, password string) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if name == "" {
		name = existing.Name
	}
	if role == "" {
		role = existing.Role
	}
	if status == "" {
		status = existing.Status
	}

	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hash = string(h)
	}

	return s.repo.Update(ctx, &models.User{
		Username:     username,
		Name:         name,
		Role:         role,
		Status:       status,
		PasswordHash: hash,
	})
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}

// EnsureAdmin seeds a default admin account when the user table is empty,
// so a fresh ledger is reachable. The default credentials must be changed
// immediately.
func (s *UserService) EnsureAdmin(ctx context.Context) error {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(all) > 0 {
		return nil
	}

	s.logger.Warn(ctx, "seeding default admin account, change its password", "username", "admin")
	return s.Create(ctx, "admin", "Administrator", RoleAdmin, StatusActive, "admin")
}
