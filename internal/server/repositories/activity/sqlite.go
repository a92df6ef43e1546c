package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/primesolution/invoicer/internal/dbx"
	"github.com/primesolution/invoicer/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Append(ctx context.Context, e *models.ActivityEntry) error {
	query := `INSERT INTO activity (at, username, action, details) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.At.UTC().Format(time.RFC3339), e.Username, e.Action, e.Details)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetRecent(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	query := `SELECT id, at, username, action, details FROM activity ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select activity: %w", err)
	}
	defer rows.Close()

	var result []models.ActivityEntry
	for rows.Next() {
		var (
			e  models.ActivityEntry
			at string
		)
		if err := rows.Scan(&e.ID, &at, &e.Username, &e.Action, &e.Details); err != nil {
			return nil, err
		}
		e.At, _ = time.Parse(time.RFC3339, at)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
