package products

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/server/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE products (
  id TEXT PRIMARY KEY,
  description TEXT NOT NULL,
  description_en TEXT NOT NULL DEFAULT '',
  price REAL NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func TestUpsertAndGetAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.Product{ID: "p1", Description: "Hosting", Price: 30}))
	require.NoError(t, r.Upsert(ctx, &models.Product{ID: "p2", Description: "Consulting", Price: 120}))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Consulting", all[0].Description, "ordered by description")

	// replacing keeps the id
	require.NoError(t, r.Upsert(ctx, &models.Product{ID: "p1", Description: "Hosting", Price: 45}))
	all, err = r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.InDelta(t, 45, all[1].Price, 1e-9)
}

func TestDeleteByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &models.Product{ID: "p1", Description: "Hosting"}))
	require.NoError(t, r.DeleteByID(ctx, "p1"))
	assert.True(t, errors.Is(r.DeleteByID(ctx, "p1"), common.ErrorNotFound))
}
