package activity

import (
	"context"

	"github.com/primesolution/invoicer/internal/server/models"
)

// Repository describes the append-only audit trail.
type Repository interface {
	// Append records one entry.
	Append(ctx context.Context, e *models.ActivityEntry) error

	// GetRecent returns up to limit entries, newest first.
	GetRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}
