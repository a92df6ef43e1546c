package defaults

import "context"

// Repository describes storage for the global defaults key-value set.
type Repository interface {
	// GetAll returns every stored default, empty map when none exist.
	GetAll(ctx context.Context) (map[string]string, error)

	// SetAll upserts the given keys, leaving other stored keys untouched.
	SetAll(ctx context.Context, d map[string]string) error
}
