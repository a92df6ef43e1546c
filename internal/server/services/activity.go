package services

import (
	"context"
	"time"

	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/models"
	"github.com/primesolution/invoicer/internal/server/repositories/activity"
)

// DefaultActivityLimit caps how many entries GET_ACTIVITY returns.
const DefaultActivityLimit = 200

// ActivityService records and serves the audit trail. Recording is
// best-effort: a failed append never fails the action it describes.
type ActivityService struct {
	repo   activity.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewActivityService(repo activity.Repository, logger logging.Logger) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger.With("component", "activity"),
		now:    time.Now,
	}
}

// Record appends one entry, logging instead of failing when the write
// cannot land.
func (s *ActivityService) Record(ctx context.Context, username, action, details string) {
	e := &models.ActivityEntry{
		At:       s.now().UTC(),
		Username: username,
		Action:   action,
		Details:  details,
	}
	if err := s.repo.Append(ctx, e); err != nil {
		s.logger.Warn(ctx, "failed to record activity", "action", action, "error", err.Error())
	}
}

// Recent returns the newest entries.
func (s *ActivityService) Recent(ctx context.Context) ([]models.ActivityEntry, error) {
	return s.repo.GetRecent(ctx, DefaultActivityLimit)
}
