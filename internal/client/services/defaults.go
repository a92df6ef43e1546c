package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/primesolution/invoicer/internal/client/remote"
	"github.com/primesolution/invoicer/internal/client/repositories/settings"
	"github.com/primesolution/invoicer/internal/logging"
)

// DefaultsService mirrors the store's global defaults (seller identity,
// currency, tax rate) into the settings cache so fresh drafts can be seeded
// offline.
type DefaultsService struct {
	remote   remote.Client
	settings settings.Repository
	auth     *AuthService
	logger   logging.Logger
}

func NewDefaultsService(rc remote.Client, set settings.Repository, auth *AuthService, logger logging.Logger) *DefaultsService {
	return &DefaultsService{remote: rc, settings: set, auth: auth, logger: logger.With("component", "defaults")}
}

// Cached returns the last fetched defaults, possibly empty.
func (s *DefaultsService) Cached(ctx context.Context) (map[string]string, error) {
	raw, err := s.settings.Get(ctx, settings.KeyGlobalDefault)
	if err != nil {
		return map[string]string{}, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Refresh fetches the store's defaults and caches them.
func (s *DefaultsService) Refresh(ctx context.Context) (map[string]string, error) {
	m, err := s.remote.GetGlobalDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh defaults: %w", err)
	}
	if err := s.cache(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Save pushes new defaults to the store and caches the merged result it
// returns.
func (s *DefaultsService) Save(ctx context.Context, d map[string]string) (map[string]string, error) {
	m, err := s.remote.SaveGlobalDefaults(ctx, s.auth.Token(ctx), d)
	if err != nil {
		return nil, fmt.Errorf("save defaults: %w", err)
	}
	if err := s.cache(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *DefaultsService) cache(ctx context.Context, m map[string]string) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.settings.Set(ctx, settings.KeyGlobalDefault, string(raw))
}
