package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
)

// ContentStore defines the interface for generated content persistence.
type ContentStore interface {
	// Create saves a new generated content row to the store.
	Create(ctx context.Context, content *domain.GeneratedContent) error

	// GetByID retrieves a content row by its unique ID.
	// Returns ErrContentNotFound if the content does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error)

	// ListByUser retrieves content belonging to the given user,
	// newest first, using limit/offset pagination.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GeneratedContent, error)

	// Update saves changes to an existing content row (body and status).
	// Returns ErrContentNotFound if the content does not exist.
	Update(ctx context.Context, content *domain.GeneratedContent) error

	// UpdateStatus updates only the status of an existing content row.
	// Returns ErrContentNotFound if the content does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error

	// WithTx returns a new ContentStore instance that uses the provided transaction.
	WithTx(tx DBTX) ContentStore
}

// ViolationStore defines the interface for compliance violation persistence.
type ViolationStore interface {
	// CreateBatch saves a set of violations for a single content row.
	CreateBatch(ctx context.Context, violations []*domain.ComplianceViolation) error

	// ListByContent retrieves all violations recorded for the given content.
	ListByContent(ctx context.Context, contentID uuid.UUID) ([]*domain.ComplianceViolation, error)

	// WithTx returns a new ViolationStore instance that uses the provided transaction.
	WithTx(tx DBTX) ViolationStore
}
