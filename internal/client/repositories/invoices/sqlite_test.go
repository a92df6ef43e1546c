package invoices

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/common"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE invoices (
  id TEXT PRIMARY KEY,
  invoice_number TEXT NOT NULL,
  temp_id TEXT NOT NULL DEFAULT '',
  sync_status TEXT NOT NULL,
  client_name TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT '',
  data TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func sample(id, number string, status models.SyncStatus) *models.Invoice {
	return &models.Invoice{
		Id:            id,
		InvoiceNumber: number,
		SyncStatus:    status,
		ClientName:    "ACME",
		CreatedAt:     "2026-01-15T10:00:00Z",
		Items:         []models.Item{{ID: "1", Description: "thing", Quantity: 2, Price: 10}},
	}
}

func TestUpsert_InsertAndUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	inv := sample("id1", "OFF-A1", models.SyncStatusPending)
	inv.TempId = "OFF-A1"
	require.NoError(t, r.Upsert(ctx, inv))

	got, err := r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "OFF-A1", got.InvoiceNumber)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)

	// same id, reconciled state
	inv.InvoiceNumber = "042"
	inv.TempId = ""
	inv.SyncStatus = models.SyncStatusSynced
	require.NoError(t, r.Upsert(ctx, inv))

	got, err = r.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "042", got.InvoiceNumber)
	assert.Empty(t, got.TempId)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM invoices`).Scan(&n))
	assert.Equal(t, 1, n, "upsert must not duplicate rows")
}

func TestGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestGetAllPending_FiltersByStatus(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sample("id1", "001", models.SyncStatusSynced)))
	require.NoError(t, r.Upsert(ctx, sample("id2", "OFF-B2", models.SyncStatusPending)))
	require.NoError(t, r.Upsert(ctx, sample("id3", "OFF-C3", models.SyncStatusPending)))

	pending, err := r.GetAllPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, inv := range pending {
		assert.Equal(t, models.SyncStatusPending, inv.SyncStatus)
	}
}

func TestSearch_MatchesClientAndNumber(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := sample("id1", "001", models.SyncStatusSynced)
	a.ClientName = "Globex"
	require.NoError(t, r.Upsert(ctx, a))
	require.NoError(t, r.Upsert(ctx, sample("id2", "OFF-B2", models.SyncStatusPending)))

	byClient, err := r.Search(ctx, "glob")
	require.NoError(t, err)
	require.Len(t, byClient, 1)
	assert.Equal(t, "id1", byClient[0].Id)

	byNumber, err := r.Search(ctx, "OFF-B")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "id2", byNumber[0].Id)
}

func TestDeleteByID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sample("id1", "001", models.SyncStatusSynced)))
	require.NoError(t, r.DeleteByID(ctx, "id1"))

	err := r.DeleteByID(ctx, "id1")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestReplaceAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, sample("old", "001", models.SyncStatusSynced)))

	restored := []models.Invoice{
		*sample("new1", "002", models.SyncStatusSynced),
		*sample("new2", "OFF-X9", models.SyncStatusPending),
	}
	require.NoError(t, r.ReplaceAll(ctx, restored))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, inv := range all {
		assert.NotEqual(t, "old", inv.Id)
	}
}
