package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/platform/logger"
	"github.com/phrazzld/studio-api/internal/store"
)

// PostgresContentStore implements the store.ContentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContentStore creates a new PostgreSQL implementation of the ContentStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresContentStore(db store.DBTX, logger *slog.Logger) *PostgresContentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContentStore{
		db:     db,
		logger: logger.With(slog.String("component", "content_store")),
	}
}

// Ensure PostgresContentStore implements store.ContentStore interface
var _ store.ContentStore = (*PostgresContentStore)(nil)

// WithTx implements store.ContentStore.WithTx
func (s *PostgresContentStore) WithTx(tx store.DBTX) store.ContentStore {
	return &PostgresContentStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ContentStore.Create
// Returns store.ErrInvalidEntity if a referenced row doesn't exist (foreign key violation).
func (s *PostgresContentStore) Create(ctx context.Context, content *domain.GeneratedContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		log.Warn("content validation failed during create",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}

	query := `
		INSERT INTO generated_content (id, user_id, brief_id, product_id, kind, prompt, body, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		content.ID,
		content.UserID,
		content.BriefID,
		content.ProductID,
		content.Kind,
		content.Prompt,
		content.Body,
		content.Status,
		content.CreatedAt,
		content.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during content creation",
				slog.String("error", err.Error()),
				slog.String("content_id", content.ID.String()))
			return fmt.Errorf("%w: referenced user, brief, or product not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create content",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return mapError(err)
	}

	log.Info("content created successfully",
		slog.String("content_id", content.ID.String()),
		slog.String("kind", string(content.Kind)),
		slog.String("status", string(content.Status)))
	return nil
}

// GetByID implements store.ContentStore.GetByID
// Returns store.ErrContentNotFound if the content does not exist.
func (s *PostgresContentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, brief_id, product_id, kind, prompt, body, status, created_at, updated_at
		FROM generated_content
		WHERE id = $1
	`

	content, err := scanContent(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("content not found", slog.String("content_id", id.String()))
			return nil, store.ErrContentNotFound
		}
		log.Error("failed to get content by ID",
			slog.String("error", err.Error()),
			slog.String("content_id", id.String()))
		return nil, err
	}

	return content, nil
}

// ListByUser implements store.ContentStore.ListByUser
// Returns an empty slice if the user has no content.
func (s *PostgresContentStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GeneratedContent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, brief_id, product_id, kind, prompt, body, status, created_at, updated_at
		FROM generated_content
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to query content by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	contents := []*domain.GeneratedContent{}
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			log.Error("failed to scan content row",
				slog.String("error", err.Error()))
			return nil, err
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return contents, nil
}

// Update implements store.ContentStore.Update
// Returns store.ErrContentNotFound if the content does not exist.
func (s *PostgresContentStore) Update(ctx context.Context, content *domain.GeneratedContent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := content.Validate(); err != nil {
		log.Warn("content validation failed during update",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}

	query := `
		UPDATE generated_content
		SET body = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		content.Body,
		content.Status,
		content.UpdatedAt,
		content.ID,
	)
	if err != nil {
		log.Error("failed to update content",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("content_id", content.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("content not found for update",
			slog.String("content_id", content.ID.String()))
		return store.ErrContentNotFound
	}

	log.Info("content updated successfully",
		slog.String("content_id", content.ID.String()),
		slog.String("status", string(content.Status)))
	return nil
}

// UpdateStatus implements store.ContentStore.UpdateStatus
// Returns store.ErrContentNotFound if the content does not exist.
func (s *PostgresContentStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContentStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generated_content
		SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update content status",
			slog.String("error", err.Error()),
			slog.String("content_id", id.String()))
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("content_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("content not found for status update",
			slog.String("content_id", id.String()))
		return store.ErrContentNotFound
	}

	log.Debug("content status updated",
		slog.String("content_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// scanContent reads one generated content row.
func scanContent(row rowScanner) (*domain.GeneratedContent, error) {
	var content domain.GeneratedContent

	err := row.Scan(
		&content.ID,
		&content.UserID,
		&content.BriefID,
		&content.ProductID,
		&content.Kind,
		&content.Prompt,
		&content.Body,
		&content.Status,
		&content.CreatedAt,
		&content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &content, nil
}
