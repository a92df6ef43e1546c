// Package cli implements the invoicer command-line client: an offline-first
// front end over the local SQLite cache with on-demand reconciliation
// against the remote ledger store.
package cli

import (
	"context"

	"github.com/primesolution/invoicer/internal/client/backup"
	"github.com/primesolution/invoicer/internal/client/config"
	"github.com/primesolution/invoicer/internal/client/invoice"
	"github.com/primesolution/invoicer/internal/client/remote"
	"github.com/primesolution/invoicer/internal/client/repositories"
	"github.com/primesolution/invoicer/internal/client/services"
	"github.com/primesolution/invoicer/internal/client/sync"
	"github.com/primesolution/invoicer/internal/logging"
)

// App bundles everything a command needs. Commands receive it fully wired;
// tests swap in fakes before wiring the command tree.
type App struct {
	Config *config.Config
	Logger logging.Logger

	Repos      *repositories.Repositories
	Remote     remote.Client
	Monitor    *sync.Monitor
	Reconciler *sync.Reconciler

	Invoices *services.InvoiceService
	Auth     *services.AuthService
	Products *services.ProductService
	Defaults *services.DefaultsService
	Backup   *backup.Service
}

// NewApp opens the local cache and wires services against the configured
// remote endpoint.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repos, err := repositories.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		Repos:  repos,
		Remote: remote.NewHTTPClient(cfg.EndpointURL),
	}
	app.wire()
	return app, nil
}

// wire builds services on top of whatever Remote and Repos hold. Split out
// so tests can replace the remote adapter first.
func (a *App) wire() {
	a.Monitor = sync.NewMonitor(a.Remote, a.Logger)
	a.Reconciler = sync.NewReconciler(a.Remote, a.Repos.Invoices, a.Repos.Settings, a.Monitor, a.Logger)
	a.Auth = services.NewAuthService(a.Remote, a.Repos.Settings, a.Logger)
	a.Invoices = services.NewInvoiceService(invoice.NewService(), a.Repos.Invoices, a.Repos.Settings, a.Reconciler, a.Logger)
	a.Products = services.NewProductService(a.Remote, a.Repos.Products, a.Auth, a.Logger)
	a.Defaults = services.NewDefaultsService(a.Remote, a.Repos.Settings, a.Auth, a.Logger)
	a.Backup = backup.NewService(a.Repos.Invoices, a.Repos.Products, a.Repos.Settings, a.Logger)
}

func (a *App) Close() error {
	return a.Repos.Close()
}
