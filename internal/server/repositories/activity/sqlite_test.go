package activity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
CREATE TABLE activity (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  at TEXT NOT NULL,
  username TEXT NOT NULL DEFAULT '',
  action TEXT NOT NULL,
  details TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)
	return db
}

func TestAppendAndGetRecent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.Append(ctx, &models.ActivityEntry{At: at, Username: "amr", Action: "LOGIN"}))
	require.NoError(t, r.Append(ctx, &models.ActivityEntry{At: at.Add(time.Minute), Username: "amr", Action: "SYNC_INVOICES", Details: "2 invoices"}))

	recent, err := r.GetRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "SYNC_INVOICES", recent[0].Action, "newest first")
	assert.Equal(t, "2 invoices", recent[0].Details)

	limited, err := r.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "SYNC_INVOICES", limited[0].Action)
}
