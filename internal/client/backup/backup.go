// Package backup exports the whole local state to a single versioned JSON
// document and restores it. Backups are a local safety net; they never touch
// the remote store.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/client/repositories/invoices"
	"github.com/primesolution/invoicer/internal/client/repositories/products"
	"github.com/primesolution/invoicer/internal/client/repositories/settings"
	"github.com/primesolution/invoicer/internal/logging"
)

// FormatVersion is bumped whenever the file layout changes incompatibly.
const FormatVersion = 1

// File is the on-disk backup document.
type File struct {
	Version        int               `json:"version"`
	ExportedAt     string            `json:"exportedAt"`
	CurrentDraft   *models.Invoice   `json:"currentDraft,omitempty"`
	History        []models.Invoice  `json:"history"`
	Inventory      []models.Product  `json:"inventory"`
	GlobalDefaults map[string]string `json:"globalDefaults,omitempty"`
}

// Service reads and writes backup documents against the local repositories.
type Service struct {
	invoices invoices.Repository
	products products.Repository
	settings settings.Repository
	logger   logging.Logger
	now      func() time.Time
}

func NewService(inv invoices.Repository, prod products.Repository, set settings.Repository, logger logging.Logger) *Service {
	return &Service{
		invoices: inv,
		products: prod,
		settings: set,
		logger:   logger.With("component", "backup"),
		now:      time.Now,
	}
}

// Export writes the full local state as indented JSON.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	history, err := s.invoices.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	inventory, err := s.products.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("export inventory: %w", err)
	}

	f := File{
		Version:    FormatVersion,
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		History:    history,
		Inventory:  inventory,
	}

	if raw, err := s.settings.Get(ctx, settings.KeyCurrentDraft); err == nil {
		var draft models.Invoice
		if json.Unmarshal([]byte(raw), &draft) == nil {
			f.CurrentDraft = &draft
		}
	}
	if raw, err := s.settings.Get(ctx, settings.KeyGlobalDefault); err == nil {
		_ = json.Unmarshal([]byte(raw), &f.GlobalDefaults)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// Import replaces the local history, inventory, current draft and cached
// defaults with the backup's contents. The document is validated before
// anything is written, so a broken file leaves the state untouched.
func (s *Service) Import(ctx context.Context, r io.Reader) (*File, error) {
	var f File
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported backup version %d, want %d", f.Version, FormatVersion)
	}

	if err := s.invoices.ReplaceAll(ctx, f.History); err != nil {
		return nil, fmt.Errorf("restore history: %w", err)
	}
	if err := s.products.ReplaceAll(ctx, f.Inventory); err != nil {
		return nil, fmt.Errorf("restore inventory: %w", err)
	}

	if f.CurrentDraft != nil {
		raw, err := json.Marshal(f.CurrentDraft)
		if err != nil {
			return nil, err
		}
		if err := s.settings.Set(ctx, settings.KeyCurrentDraft, string(raw)); err != nil {
			return nil, err
		}
	} else if err := s.settings.Delete(ctx, settings.KeyCurrentDraft); err != nil {
		return nil, err
	}

	if f.GlobalDefaults != nil {
		raw, err := json.Marshal(f.GlobalDefaults)
		if err != nil {
			return nil, err
		}
		if err := s.settings.Set(ctx, settings.KeyGlobalDefault, string(raw)); err != nil {
			return nil, err
		}
	}

	s.logger.Info(ctx, "backup restored",
		"history", len(f.History), "inventory", len(f.Inventory), "exported_at", f.ExportedAt)
	return &f, nil
}
