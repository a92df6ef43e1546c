// Package services wires repositories, the remote adapter and the sync core
// into the operations the CLI exposes: saving drafts, logging in, managing
// the product catalogue.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/primesolution/invoicer/internal/client/invoice"
	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/client/repositories/invoices"
	"github.com/primesolution/invoicer/internal/client/repositories/settings"
	"github.com/primesolution/invoicer/internal/client/sync"
	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/logging"
)

// Reconciler is the slice of the sync core the invoice service needs.
type Reconciler interface {
	Reconcile(ctx context.Context) (*sync.Outcome, error)
}

// SaveResult reports one save. Saving succeeds as soon as the draft is on
// disk; Outcome and SyncErr describe the follow-up sync attempt, which is
// best-effort and never fails the save.
type SaveResult struct {
	Invoice *models.Invoice
	Outcome *sync.Outcome
	SyncErr error
}

// InvoiceService implements the save-first workflow: assign a temp number if
// the draft never had one, persist locally, then try to reconcile.
type InvoiceService struct {
	alloc      *invoice.Service
	repo       invoices.Repository
	settings   settings.Repository
	reconciler Reconciler
	logger     logging.Logger
	now        func() time.Time
}

func NewInvoiceService(alloc *invoice.Service, repo invoices.Repository, set settings.Repository, rec Reconciler, logger logging.Logger) *InvoiceService {
	return &InvoiceService{
		alloc:      alloc,
		repo:       repo,
		settings:   set,
		reconciler: rec,
		logger:     logger.With("component", "invoices"),
		now:        time.Now,
	}
}

// NewDraft creates a fresh draft seeded from cached global defaults and
// stores it as the current draft.
func (s *InvoiceService) NewDraft(ctx context.Context) (*models.Invoice, error) {
	draft := s.alloc.NewDraft(s.cachedDefaults(ctx))
	if err := s.storeCurrentDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Save persists the draft locally, allocating its temp number on first save,
// and then attempts one reconciliation pass. A sync failure leaves the draft
// pending and is reported in the result, not as an error.
//
// CreatedBy is attributed here, at first save, to whoever is logged in at
// that moment; it is set once and never overwritten by later saves.
func (s *InvoiceService) Save(ctx context.Context, inv *models.Invoice) (*SaveResult, error) {
	if inv.SyncStatus == models.SyncStatusUnsaved {
		if inv.CreatedBy == "" {
			inv.CreatedBy = s.sessionName(ctx)
		}
		s.alloc.AllocateTempID(inv)
	}
	inv.UpdatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.repo.Upsert(ctx, inv); err != nil {
		return nil, err
	}
	if err := s.storeCurrentDraft(ctx, inv); err != nil {
		return nil, err
	}

	result := &SaveResult{Invoice: inv}
	outcome, err := s.reconciler.Reconcile(ctx)
	switch {
	case errors.Is(err, common.ErrorSyncInFlight):
		// Another pass is already running and will pick this draft up.
	case err != nil:
		result.SyncErr = err
	default:
		result.Outcome = outcome
		if n := outcome.Mapping[inv.LookupKey()]; n != "" {
			inv.InvoiceNumber = n
			inv.TempId = ""
			inv.SyncStatus = models.SyncStatusSynced
		}
	}
	return result, nil
}

// CurrentDraft returns the in-progress draft, or common.ErrorNotFound.
func (s *InvoiceService) CurrentDraft(ctx context.Context) (*models.Invoice, error) {
	raw, err := s.settings.Get(ctx, settings.KeyCurrentDraft)
	if err != nil {
		return nil, err
	}
	var inv models.Invoice
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ClearCurrentDraft drops the in-progress draft without touching history.
func (s *InvoiceService) ClearCurrentDraft(ctx context.Context) error {
	return s.settings.Delete(ctx, settings.KeyCurrentDraft)
}

// History returns the local history, newest first.
func (s *InvoiceService) History(ctx context.Context) ([]models.Invoice, error) {
	return s.repo.GetAll(ctx)
}

// Search filters history by client name, number or date substring.
func (s *InvoiceService) Search(ctx context.Context, query string) ([]models.Invoice, error) {
	return s.repo.Search(ctx, query)
}

// Load returns one invoice by UUID and makes it the current draft so it can
// be edited and re-saved.
func (s *InvoiceService) Load(ctx context.Context, id string) (*models.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.storeCurrentDraft(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes an invoice from the local history. The remote ledger keeps
// its row; deletion is a local act.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// sessionName reads the cached login's display name; empty when logged out.
func (s *InvoiceService) sessionName(ctx context.Context) string {
	raw, err := s.settings.Get(ctx, settings.KeySession)
	if err != nil {
		return ""
	}
	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return ""
	}
	return sess.Name
}

func (s *InvoiceService) storeCurrentDraft(ctx context.Context, inv *models.Invoice) error {
	raw, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	return s.settings.Set(ctx, settings.KeyCurrentDraft, string(raw))
}

// cachedDefaults reads the last fetched global defaults. Missing or broken
// cache falls back to zero values; the allocator fills its own fallbacks.
func (s *InvoiceService) cachedDefaults(ctx context.Context) invoice.Defaults {
	var d invoice.Defaults
	raw, err := s.settings.Get(ctx, settings.KeyGlobalDefault)
	if err != nil {
		return d
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		s.logger.Warn(ctx, "broken defaults cache, ignoring", "error", err.Error())
		return d
	}
	d.SellerName = m["sellerName"]
	d.SellerEmail = m["sellerEmail"]
	d.SellerAddress = m["sellerAddress"]
	d.SellerPhone = m["sellerPhone"]
	d.Currency = m["currency"]
	d.Language = m["language"]
	if v, err := strconv.ParseFloat(m["taxRate"], 64); err == nil {
		d.TaxRate = v
	}
	return d
}
