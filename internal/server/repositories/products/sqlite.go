package products

import (
	"context"
	"fmt"

	"github.com/primesolution/invoicer/internal/common"
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

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, description, description_en, price FROM products ORDER BY description`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var result []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Description, &p.DescriptionEn, &p.Price); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.Product) error {
	query := `INSERT INTO products (id, description, description_en, price)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET description = excluded.description,
				description_en = excluded.description_en,
				price = excluded.price`
	if _, err := r.db.ExecContext(ctx, query, p.ID, p.Description, p.DescriptionEn, p.Price); err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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
