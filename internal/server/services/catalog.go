package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/models"
	"github.com/primesolution/invoicer/internal/server/repositories/products"
)

// CatalogService manages the shared product catalogue.
type CatalogService struct {
	repo   products.Repository
	logger logging.Logger
}

func NewCatalogService(repo products.Repository, logger logging.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger.With("component", "catalog")}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// Save upserts a product, assigning an id when the client sent none, and
// returns the stored record.
func (s *CatalogService) Save(ctx context.Context, p models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := s.repo.Upsert(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}
