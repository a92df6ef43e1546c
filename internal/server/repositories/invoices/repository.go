package invoices

import (
	"context"

	"github.com/primesolution/invoicer/internal/server/models"
)

// Repository describes storage operations over the invoice ledger. Rows are
// append-only: the ledger never updates or deletes an invoice.
type Repository interface {
	// Insert appends one row. The caller owns sequence allocation; a
	// duplicate seq or number fails the insert.
	Insert(ctx context.Context, inv *models.Invoice) error

	// GetAll returns the ledger newest first.
	GetAll(ctx context.Context) ([]models.Invoice, error)

	// MaxSeq returns the highest allocated sequence number, 0 for an empty
	// ledger.
	MaxSeq(ctx context.Context) (int64, error)
}
