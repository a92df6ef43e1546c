package services

import (
	"context"
	"fmt"

	"github.com/primesolution/invoicer/internal/client/models"
	"github.com/primesolution/invoicer/internal/client/remote"
	"github.com/primesolution/invoicer/internal/client/repositories/products"
	"github.com/primesolution/invoicer/internal/logging"
)

// ProductService keeps a local copy of the catalogue for offline use and
// pushes mutations straight to the store.
type ProductService struct {
	remote remote.Client
	repo   products.Repository
	auth   *AuthService
	logger logging.Logger
}

func NewProductService(rc remote.Client, repo products.Repository, auth *AuthService, logger logging.Logger) *ProductService {
	return &ProductService{remote: rc, repo: repo, auth: auth, logger: logger.With("component", "products")}
}

// List returns the local catalogue cache. Works offline.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// Refresh replaces the local cache with the store's catalogue.
func (s *ProductService) Refresh(ctx context.Context) ([]models.Product, error) {
	ps, err := s.remote.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh products: %w", err)
	}
	if err := s.repo.ReplaceAll(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// Save pushes one product to the store and mirrors the saved record, with
// its server-assigned id, into the cache.
func (s *ProductService) Save(ctx context.Context, p models.Product) (*models.Product, error) {
	saved, err := s.remote.SaveProduct(ctx, s.auth.Token(ctx), p)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	if err := s.repo.Upsert(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete removes a product from the store and the cache.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.remote.DeleteProduct(ctx, s.auth.Token(ctx), id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return s.repo.DeleteByID(ctx, id)
}
