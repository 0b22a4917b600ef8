package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
)

// ProductStore defines the interface for product catalog persistence.
type ProductStore interface {
	// Create saves a new product to the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique ID.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// ListByUser retrieves products belonging to the given user,
	// newest first, using limit/offset pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Product, error)

	// Update saves changes to an existing product.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store.
	// Returns ErrProductNotFound if the product does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProductStore instance that uses the provided transaction.
	WithTx(tx DBTX) ProductStore
}
