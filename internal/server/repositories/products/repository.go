package products

import (
	"context"

	"github.com/primesolution/invoicer/internal/server/models"
)

// Repository describes storage operations over the product catalogue.
type Repository interface {
	// GetAll returns the catalogue ordered by description.
	GetAll(ctx context.Context) ([]models.Product, error)

	// Upsert inserts or replaces a product by ID.
	Upsert(ctx context.Context, p *models.Product) error

	// DeleteByID removes one product, or common.ErrorNotFound.
	DeleteByID(ctx context.Context, id string) error
}
