package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

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
CREATE TABLE users (
  username TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user',
  status TEXT NOT NULL DEFAULT 'active',
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func sample(username string) *models.User {
	return &models.User{
		Username:     username,
		Name:         "Amr H.",
		Role:         "user",
		Status:       "active",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("amr")))

	got, err := r.GetByUsername(ctx, "amr")
	require.NoError(t, err)
	assert.Equal(t, "Amr H.", got.Name)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	_, err = r.GetByUsername(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestCreate_Duplicate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("amr")))
	err := r.Create(ctx, sample("amr"))
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))
}

func TestUpdate_KeepsPasswordWhenEmpty(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("amr")))

	u := sample("amr")
	u.Status = "suspended"
	u.PasswordHash = ""
	require.NoError(t, r.Update(ctx, u))

	got, err := r.GetByUsername(ctx, "amr")
	require.NoError(t, err)
	assert.Equal(t, "suspended", got.Status)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash, "empty hash must not clear the stored one")
}

func TestUpdate_Missing(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.Update(context.Background(), sample("missing"))
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestDeleteAndGetAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, sample("amr")))
	require.NoError(t, r.Create(ctx, sample("sara")))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "amr", all[0].Username)

	require.NoError(t, r.Delete(ctx, "amr"))
	assert.True(t, errors.Is(r.Delete(ctx, "amr"), common.ErrorNotFound))
}
