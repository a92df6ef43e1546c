package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/primesolution/invoicer/internal/dbx"
	"github.com/primesolution/invoicer/internal/server/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). The client document is stored verbatim in the data column; the
// indexed columns are extracted from it at insert time.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, inv *models.Invoice) error {
	query := `INSERT INTO invoices (seq, number, uuid, temp_id, client_name, total, created_by, created_at, data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		inv.Seq, inv.Number, inv.UUID, inv.TempID, inv.ClientName, inv.Total,
		inv.CreatedBy, inv.CreatedAt.UTC().Format(time.RFC3339), string(inv.Data))
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT seq, number, uuid, temp_id, client_name, total, created_by, created_at, data
			FROM invoices ORDER BY seq DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select invoices: %w", err)
	}
	defer rows.Close()

	var result []models.Invoice
	for rows.Next() {
		var (
			inv       models.Invoice
			createdAt string
			data      string
		)
		if err := rows.Scan(&inv.Seq, &inv.Number, &inv.UUID, &inv.TempID, &inv.ClientName,
			&inv.Total, &inv.CreatedBy, &createdAt, &data); err != nil {
			return nil, err
		}
		inv.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		inv.Data = []byte(data)
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MaxSeq derives the sequence position from the rows themselves, so the
// ledger survives manual edits to the underlying database: whatever the last
// row says is the truth.
func (r *SQLiteRepository) MaxSeq(ctx context.Context) (int64, error) {
	var max int64
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM invoices`)
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to read max sequence: %w", err)
	}
	return max, nil
}
