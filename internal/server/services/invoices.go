// Package services contains the ledger server's business logic. This file
// implements invoice ingestion: allocating canonical numbers under the
// sequence lock and appending rows transactionally.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/primesolution/invoicer/internal/dbx"
	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/config"
	"github.com/primesolution/invoicer/internal/server/models"
	"github.com/primesolution/invoicer/internal/server/repositories/invoices"
	"github.com/primesolution/invoicer/internal/server/sequence"
)

// SyncResult reports one accepted batch.
type SyncResult struct {
	SyncedCount int
	IDMapping   map[string]string
	NextID      int64
}

// invoiceDoc is the slice of the client document the ledger indexes. The
// rest of the document travels through untouched.
type invoiceDoc struct {
	Id            string  `json:"id"`
	InvoiceNumber string  `json:"invoiceNumber"`
	TempId        string  `json:"tempId"`
	ClientName    string  `json:"clientName"`
	Total         float64 `json:"total"`
	CreatedBy     string  `json:"createdBy"`
	CreatedAt     string  `json:"createdAt"`
}

// InvoiceService owns the ledger's append path. Number allocation reads the
// current maximum from the rows and assigns the next ones, so it must run
// under the sequence lock; the lock is released whatever happens.
type InvoiceService struct {
	db       *sql.DB
	lock     *sequence.Lock
	lockWait time.Duration
	logger   logging.Logger
	now      func() time.Time
}

func NewInvoiceService(db *sql.DB, lock *sequence.Lock, cfg *config.Config, logger logging.Logger) *InvoiceService {
	return &InvoiceService{
		db:       db,
		lock:     lock,
		lockWait: cfg.SequenceLockWait,
		logger:   logger.With("component", "invoices"),
		now:      time.Now,
	}
}

// Sync accepts one batch of client drafts, assigns each a canonical number
// and appends them to the ledger in a single transaction. The returned
// mapping is keyed by each draft's temp id (or its submitted number when no
// temp id was sent). When the sequence lock cannot be acquired within the
// configured wait, the batch is rejected with common.ErrorServerBusy and
// nothing is written.
func (s *InvoiceService) Sync(ctx context.Context, docs []json.RawMessage) (*SyncResult, error) {
	result := &SyncResult{IDMapping: map[string]string{}}
	if len(docs) == 0 {
		return result, nil
	}

	release, err := s.lock.Acquire(ctx, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := invoices.NewSQLiteRepository(tx)

		max, err := repo.MaxSeq(ctx)
		if err != nil {
			return err
		}

		seq := max
		for _, raw := range docs {
			var doc invoiceDoc
			if err := json.Unmarshal(raw, &doc); err != nil {
				return fmt.Errorf("unreadable invoice document: %w", err)
			}

			seq++
			number := sequence.Format(seq)

			lookupKey := doc.TempId
			if lookupKey == "" {
				lookupKey = doc.InvoiceNumber
			}

			patched, err := patchDocument(raw, number)
			if err != nil {
				return err
			}

			createdAt, err := time.Parse(time.RFC3339, doc.CreatedAt)
			if err != nil {
				createdAt = s.now().UTC()
			}

			row := &models.Invoice{
				Seq:        seq,
				Number:     number,
				UUID:       doc.Id,
				TempID:     doc.TempId,
				ClientName: doc.ClientName,
				Total:      doc.Total,
				CreatedBy:  doc.CreatedBy,
				CreatedAt:  createdAt,
				Data:       patched,
			}
			if err := repo.Insert(ctx, row); err != nil {
				return err
			}

			result.IDMapping[lookupKey] = number
			result.SyncedCount++
		}

		result.NextID = seq + 1
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "batch accepted", "count", result.SyncedCount, "next", result.NextID)
	return result, nil
}

// GetAll returns every stored document newest first, plus the sequence
// position.
func (s *InvoiceService) GetAll(ctx context.Context) ([]json.RawMessage, int64, error) {
	repo := invoices.NewSQLiteRepository(s.db)

	rows, err := repo.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	docs := make([]json.RawMessage, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.Data)
	}

	max, err := repo.MaxSeq(ctx)
	if err != nil {
		return nil, 0, err
	}
	return docs, max, nil
}

// NextID reports the number the next accepted invoice would get. Advisory:
// by the time a client acts on it the answer may be stale.
func (s *InvoiceService) NextID(ctx context.Context) (int64, error) {
	max, err := invoices.NewSQLiteRepository(s.db).MaxSeq(ctx)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// patchDocument rewrites the canonical number into the stored document and
// marks it synced, leaving every other field exactly as the client sent it.
func patchDocument(raw json.RawMessage, number string) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unreadable invoice document: %w", err)
	}
	doc["invoiceNumber"] = number
	doc["syncStatus"] = "synced"
	delete(doc, "tempId")

	patched, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return patched, nil
}
