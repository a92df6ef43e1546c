package services

import (
	"context"

	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/repositories/defaults"
)

// DefaultsService serves the global defaults every client seeds its drafts
// from.
type DefaultsService struct {
	repo   defaults.Repository
	logger logging.Logger
}

func NewDefaultsService(repo defaults.Repository, logger logging.Logger) *DefaultsService {
	return &DefaultsService{repo: repo, logger: logger.With("component", "defaults")}
}

func (s *DefaultsService) Get(ctx context.Context) (map[string]string, error) {
	return s.repo.GetAll(ctx)
}

// Save upserts the given keys and returns the full merged set.
func (s *DefaultsService) Save(ctx context.Context, d map[string]string) (map[string]string, error) {
	if err := s.repo.SetAll(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}
