package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
)

// BriefStore defines the interface for creative brief persistence.
type BriefStore interface {
	// Create saves a new creative brief to the store.
	// Returns validation errors from the domain CreativeBrief if data is invalid.
	Create(ctx context.Context, brief *domain.CreativeBrief) error

	// GetByID retrieves a brief by its unique ID.
	// Returns ErrBriefNotFound if the brief does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CreativeBrief, error)

	// ListByUser retrieves briefs belonging to the given user,
	// newest first, using limit/offset pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.CreativeBrief, error)

	// WithTx returns a new BriefStore instance that uses the provided transaction.
	WithTx(tx DBTX) BriefStore
}
