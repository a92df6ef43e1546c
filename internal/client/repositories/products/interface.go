package products

import (
	"context"

	"github.com/primesolution/invoicer/internal/client/models"
)

// Repository describes storage operations for the local product cache.
type Repository interface {
	// Upsert inserts or replaces a product by ID.
	Upsert(ctx context.Context, p *models.Product) error

	// GetAll returns all cached products.
	GetAll(ctx context.Context) ([]models.Product, error)

	// DeleteByID removes one product.
	DeleteByID(ctx context.Context, id string) error

	// ReplaceAll wipes the cache and installs the given set. Used after a
	// remote fetch and by backup restore.
	ReplaceAll(ctx context.Context, ps []models.Product) error
}
