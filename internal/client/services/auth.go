package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/primesolution/invoicer/internal/api"
	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/client/remote"
	"github.com/primesolution/invoicer/internal/client/repositories/settings"
	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/logging"
)

// AuthService exchanges credentials for a session token and caches the
// session locally so admin actions can attach it.
type AuthService struct {
	remote   remote.Client
	settings settings.Repository
	logger   logging.Logger
}

func NewAuthService(rc remote.Client, set settings.Repository, logger logging.Logger) *AuthService {
	return &AuthService{remote: rc, settings: set, logger: logger.With("component", "auth")}
}

// Login authenticates against the store. A suspended account maps to
// common.ErrUserSuspended so callers can tell it apart from bad credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	resp, err := s.remote.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	switch resp.Status {
	case api.StatusSuspended:
		return nil, common.ErrUserSuspended
	case api.StatusSuccess:
	default:
		return nil, fmt.Errorf("login: %w: %s", common.ErrorUnauthorized, resp.Message)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("login: %w: empty user in response", common.ErrorInternal)
	}

	sess := &models.Session{
		Username: resp.User.Username,
		Name:     resp.User.Name,
		Role:     resp.User.Role,
		Token:    resp.Token,
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.settings.Set(ctx, settings.KeySession, string(raw)); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "logged in", "username", sess.Username, "role", sess.Role)
	return sess, nil
}

// Current returns the cached session, or common.ErrorUnauthorized when
// nobody is logged in.
func (s *AuthService) Current(ctx context.Context) (*models.Session, error) {
	raw, err := s.settings.Get(ctx, settings.KeySession)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, common.ErrorUnauthorized
	}
	return &sess, nil
}

// Token returns the cached session token, empty when logged out. Actions
// that do not require auth pass it through unchanged.
func (s *AuthService) Token(ctx context.Context) string {
	sess, err := s.Current(ctx)
	if err != nil {
		return ""
	}
	return sess.Token
}

// Logout drops the cached session. Purely local.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.settings.Delete(ctx, settings.KeySession)
}
