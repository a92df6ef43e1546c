// Package repositories wires the ledger database: it opens SQLite, applies
// migrations and hands out repository implementations.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/primesolution/invoicer/internal/server/migrations"
	"github.com/primesolution/invoicer/internal/server/repositories/activity"
	"github.com/primesolution/invoicer/internal/server/repositories/defaults"
	"github.com/primesolution/invoicer/internal/server/repositories/invoices"
	"github.com/primesolution/invoicer/internal/server/repositories/products"
	"github.com/primesolution/invoicer/internal/server/repositories/users"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Invoices invoices.Repository
	Users    users.Repository
	Products products.Repository
	Activity activity.Repository
	Defaults defaults.Repository

	db *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the ledger at dsn and returns
// ready-to-use repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Single writer; also keeps :memory: databases on one connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Invoices: invoices.NewSQLiteRepository(db),
		Users:    users.NewSQLiteRepository(db),
		Products: products.NewSQLiteRepository(db),
		Activity: activity.NewSQLiteRepository(db),
		Defaults: defaults.NewSQLiteRepository(db),
		db:       db,
	}, nil
}

// DB exposes the underlying handle for transactional services.
func (r *Repositories) DB() *sql.DB {
	return r.db
}

func (r *Repositories) Close() error {
	return r.db.Close()
}
