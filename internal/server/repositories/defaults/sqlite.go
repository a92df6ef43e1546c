package defaults

import (
	"context"
	"fmt"

	"github.com/primesolution/invoicer/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM defaults`)
	if err != nil {
		return nil, fmt.Errorf("failed to select defaults: %w", err)
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) SetAll(ctx context.Context, d map[string]string) error {
	query := `INSERT INTO defaults (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for k, v := range d {
		if _, err := r.db.ExecContext(ctx, query, k, v); err != nil {
			return fmt.Errorf("failed to set default %q: %w", k, err)
		}
	}
	return nil
}
