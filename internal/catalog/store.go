package catalog

import (
	"context"

	"niftynet/internal/models"
)

// Store defines the interface for durable catalog operations. Consumers
// should depend on this interface rather than the concrete *DB type to
// facilitate testing with mocks.
type Store interface {
	Create(ctx context.Context, d Draft) (models.CatalogEntry, error)
	Get(ctx context.Context, id string) (models.CatalogEntry, error)
	List(ctx context.Context) ([]models.CatalogEntry, error)
	UpdateMetadata(ctx context.Context, id, title, description, image string) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
