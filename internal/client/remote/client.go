// Package remote implements the thin request/response adapter against the
// ledger store. It owns serialization and transport only; sync decisions
// live in the reconciler.
package remote

import (
	"context"

	"github.com/primesolution/invoicer/internal/api"
	"github.com/primesolution/invoicer/internal/client/models"
)

// Client is the remote store port used by the reconciler, the connectivity
// monitor and the CLI commands.
type Client interface {
	// Ping is the lightweight no-op round trip used by the connectivity
	// monitor. It carries no data.
	Ping(ctx context.Context) error

	// SyncInvoices submits one batch of pending drafts and returns the
	// store's id mapping. The drafts must already carry computed totals.
	SyncInvoices(ctx context.Context, invs []models.Invoice) (*api.SyncResponse, error)

	// GetAllInvoices fetches the store's history, newest first.
	GetAllInvoices(ctx context.Context) (*api.InvoicesResponse, error)

	// GetNextID reports the next canonical number the store would assign.
	GetNextID(ctx context.Context) (int64, error)

	GetProducts(ctx context.Context) ([]models.Product, error)
	SaveProduct(ctx context.Context, token string, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, token string, id string) error

	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)

	GetUsers(ctx context.Context, token string) ([]api.User, error)
	CreateUser(ctx context.Context, token string, u api.User) error
	UpdateUser(ctx context.Context, token string, u api.User) error
	DeleteUser(ctx context.Context, token string, username string) error

	GetActivity(ctx context.Context, token string) ([]api.ActivityEntry, error)

	GetGlobalDefaults(ctx context.Context) (map[string]string, error)
	SaveGlobalDefaults(ctx context.Context, token string, d map[string]string) (map[string]string, error)
}
