package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/client/remote"
	"github.com/primesolution/invoicer/internal/client/repositories/invoices"
	"github.com/primesolution/invoicer/internal/client/repositories/settings"
	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/logging"
)

// Outcome summarizes one reconciliation pass.
type Outcome struct {
	// Synced is how many drafts received a canonical number this pass.
	Synced int
	// Unacknowledged is how many submitted drafts the store did not map;
	// they remain pending and are retried on the next pass.
	Unacknowledged int
	// SkippedOffline is true when the pass made no network call because
	// the monitor reported the store unreachable.
	SkippedOffline bool
	// Mapping is the temp→canonical assignment applied locally.
	Mapping map[string]string
}

// Reconciler exchanges pending drafts for canonical numbers and merges the
// store's answer back into the local cache.
//
// At most one reconciliation runs at a time: a concurrent call returns
// common.ErrorSyncInFlight instead of firing a duplicate batch. The server
// cannot recognize a resent batch (no idempotency token is part of the
// contract), so a retry after an ambiguous failure (request delivered,
// response lost) may assign a second canonical number to the same logical
// document. That residual risk is inherent to the protocol; if duplicate
// confirmations show up, check the store for a duplicate row.
type Reconciler struct {
	remote   remote.Client
	invoices invoices.Repository
	settings settings.Repository
	monitor  *Monitor
	logger   logging.Logger
	now      func() time.Time

	mu stdsync.Mutex
}

func NewReconciler(rc remote.Client, inv invoices.Repository, set settings.Repository, mon *Monitor, logger logging.Logger) *Reconciler {
	return &Reconciler{
		remote:   rc,
		invoices: inv,
		settings: set,
		monitor:  mon,
		logger:   logger.With("component", "reconciler"),
		now:      time.Now,
	}
}

// Reconcile submits every pending draft as one batch and applies the
// returned id mapping. Synced drafts are never re-submitted. On transport
// or server failure no local draft is mutated, the monitor is flipped to
// disconnected and the error is returned to the caller; retry is a
// deliberate user action, never automatic.
func (r *Reconciler) Reconcile(ctx context.Context) (*Outcome, error) {
	if !r.mu.TryLock() {
		return nil, common.ErrorSyncInFlight
	}
	defer r.mu.Unlock()

	pending, err := r.invoices.GetAllPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return &Outcome{}, nil
	}

	// Advisory gate: while the monitor says disconnected we keep drafts
	// local and never touch the adapter. The state may be stale; the next
	// probe or an explicit retry picks them up.
	if r.monitor.Status() == StatusDisconnected {
		r.logger.Info(ctx, "skipping sync, store unreachable", "pending", len(pending))
		return &Outcome{SkippedOffline: true, Unacknowledged: len(pending)}, nil
	}

	// The store does not re-derive totals: compute them on the outgoing
	// copies only, so a failed call leaves the cache byte-for-byte intact.
	batch := make([]models.Invoice, len(pending))
	for i := range pending {
		batch[i] = pending[i]
		batch[i].Total = batch[i].ItemsTotal()
	}

	resp, err := r.remote.SyncInvoices(ctx, batch)
	if err != nil {
		r.monitor.MarkDisconnected()
		r.logger.Error(ctx, "sync failed", "pending", len(pending), "error", err.Error())
		return nil, err
	}
	r.monitor.MarkConnected()

	outcome := &Outcome{Mapping: resp.IDMapping}
	for i := range pending {
		draft := pending[i]
		canonical, ok := resp.IDMapping[draft.LookupKey()]
		if !ok {
			// Not acknowledged: stays pending, retried next pass.
			outcome.Unacknowledged++
			continue
		}

		draft.InvoiceNumber = canonical
		draft.SyncStatus = models.SyncStatusSynced
		draft.TempId = ""
		draft.LastSyncError = ""
		if err := r.invoices.Upsert(ctx, &draft); err != nil {
			return outcome, err
		}
		outcome.Synced++
	}

	if err := r.settings.Set(ctx, settings.KeyLastSyncAt, r.now().UTC().Format(time.RFC3339)); err != nil {
		r.logger.Warn(ctx, "failed to record sync time", "error", err.Error())
	}

	r.logger.Info(ctx, "sync complete", "synced", outcome.Synced, "unacknowledged", outcome.Unacknowledged)
	return outcome, nil
}
