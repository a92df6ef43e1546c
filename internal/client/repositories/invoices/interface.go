package invoices

import (
	"context"

	"github.com/primesolution/invoicer/internal/client/models"
)

// Repository describes storage operations for the local invoice history.
// Implementations are backed by the client's SQLite cache.
type Repository interface {
	// Upsert inserts a new invoice or replaces an existing one by Id.
	Upsert(ctx context.Context, inv *models.Invoice) error

	// GetAll returns the full local history, newest first.
	GetAll(ctx context.Context) ([]models.Invoice, error)

	// GetByID returns one invoice by its stable client UUID.
	GetByID(ctx context.Context, id string) (*models.Invoice, error)

	// GetAllPending returns invoices awaiting reconciliation
	// (sync_status = pending).
	GetAllPending(ctx context.Context) ([]models.Invoice, error)

	// Search filters history by client name, invoice number or date substring.
	Search(ctx context.Context, query string) ([]models.Invoice, error)

	// DeleteByID removes an invoice permanently. Deletion is an explicit
	// user action, not part of sync.
	DeleteByID(ctx context.Context, id string) error

	// ReplaceAll wipes the history and installs the given set. Used by
	// backup restore.
	ReplaceAll(ctx context.Context, invs []models.Invoice) error
}
