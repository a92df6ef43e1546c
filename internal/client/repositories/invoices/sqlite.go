package invoices

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/common"
	"github.com/primesolution/invoicer/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
//
// The full document is stored as a JSON blob; a few columns are duplicated
// out of the blob for indexing and search.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert stores an invoice by id. On conflict every mutable column is replaced.
func (r *SQLiteRepository) Upsert(ctx context.Context, inv *models.Invoice) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice: %w", err)
	}

	query := `INSERT INTO invoices (id, invoice_number, temp_id, sync_status, client_name, created_at, data)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET invoice_number = excluded.invoice_number,
				temp_id = excluded.temp_id,
				sync_status = excluded.sync_status,
				client_name = excluded.client_name,
				data = excluded.data
	`
	_, err = r.db.ExecContext(ctx, query,
		inv.Id, inv.InvoiceNumber, inv.TempId, string(inv.SyncStatus), inv.ClientName, inv.CreatedAt, string(data))
	if err != nil {
		return fmt.Errorf("failed to upsert invoice: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT data FROM invoices ORDER BY created_at DESC`
	return r.queryInvoices(ctx, query)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `SELECT data FROM invoices WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	inv := &models.Invoice{}
	if err := json.Unmarshal([]byte(data), inv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice: %w", err)
	}
	return inv, nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT data FROM invoices WHERE sync_status = ? ORDER BY created_at ASC`
	return r.queryInvoices(ctx, query, string(models.SyncStatusPending))
}

func (r *SQLiteRepository) Search(ctx context.Context, q string) ([]models.Invoice, error) {
	pattern := "%" + q + "%"
	query := `SELECT data FROM invoices
			WHERE client_name LIKE ? OR invoice_number LIKE ? OR created_at LIKE ?
			ORDER BY created_at DESC`
	return r.queryInvoices(ctx, query, pattern, pattern, pattern)
}

// DeleteByID removes an invoice row. It expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, invs []models.Invoice) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM invoices`); err != nil {
		return fmt.Errorf("failed to clear invoices: %w", err)
	}
	for i := range invs {
		if err := r.Upsert(ctx, &invs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) queryInvoices(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select invoices: %w", err)
	}
	defer rows.Close()

	var result []models.Invoice
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var inv models.Invoice
		if err := json.Unmarshal([]byte(data), &inv); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invoice: %w", err)
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
