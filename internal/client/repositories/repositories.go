// Package repositories wires the client's SQLite cache: it opens the
// database, applies migrations and hands out repository implementations.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/primesolution/invoicer/internal/client/migrations"
	"github.com/primesolution/invoicer/internal/client/repositories/invoices"
	"github.com/primesolution/invoicer/internal/client/repositories/products"
	"github.com/primesolution/invoicer/internal/client/repositories/settings"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Invoices invoices.Repository
	Products products.Repository
	Settings settings.Repository

	db *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the local cache at dsn and
// returns ready-to-use repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Single local writer; also keeps :memory: databases on one connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Invoices: invoices.NewSQLiteRepository(db),
		Products: products.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
		db:       db,
	}, nil
}

func (r *Repositories) Close() error {
	return r.db.Close()
}
