package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/platform/logger"
	"github.com/phrazzld/studio-api/internal/store"
)

// PostgresViolationStore implements the store.ViolationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresViolationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresViolationStore creates a new PostgreSQL implementation of the ViolationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresViolationStore(db store.DBTX, logger *slog.Logger) *PostgresViolationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresViolationStore{
		db:     db,
		logger: logger.With(slog.String("component", "violation_store")),
	}
}

// Ensure PostgresViolationStore implements store.ViolationStore interface
var _ store.ViolationStore = (*PostgresViolationStore)(nil)

// WithTx implements store.ViolationStore.WithTx
func (s *PostgresViolationStore) WithTx(tx store.DBTX) store.ViolationStore {
	return &PostgresViolationStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateBatch implements store.ViolationStore.CreateBatch
// Violations are inserted one at a time; callers that need atomicity
// should run this inside a transaction via WithTx.
func (s *PostgresViolationStore) CreateBatch(ctx context.Context, violations []*domain.ComplianceViolation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(violations) == 0 {
		return nil
	}

	for _, v := range violations {
		if err := v.Validate(); err != nil {
			log.Warn("violation validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("violation_id", v.ID.String()))
			return err
		}
	}

	query := `
		INSERT INTO compliance_violations (id, content_id, rule, severity, excerpt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, v := range violations {
		_, err := s.db.ExecContext(
			ctx,
			query,
			v.ID,
			v.ContentID,
			v.Rule,
			v.Severity,
			v.Excerpt,
			v.CreatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				log.Warn("foreign key violation during violation creation",
					slog.String("error", err.Error()),
					slog.String("content_id", v.ContentID.String()))
				return fmt.Errorf("%w: content with ID %s not found",
					store.ErrInvalidEntity, v.ContentID)
			}

			log.Error("failed to create violation",
				slog.String("error", err.Error()),
				slog.String("violation_id", v.ID.String()))
			return mapError(err)
		}
	}

	log.Info("violations created successfully",
		slog.Int("count", len(violations)),
		slog.String("content_id", violations[0].ContentID.String()))
	return nil
}

// ListByContent implements store.ViolationStore.ListByContent
// Returns an empty slice if the content has no recorded violations.
func (s *PostgresViolationStore) ListByContent(ctx context.Context, contentID uuid.UUID) ([]*domain.ComplianceViolation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, content_id, rule, severity, excerpt, created_at
		FROM compliance_violations
		WHERE content_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, contentID)
	if err != nil {
		log.Error("failed to query violations by content",
			slog.String("error", err.Error()),
			slog.String("content_id", contentID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	violations := []*domain.ComplianceViolation{}
	for rows.Next() {
		var v domain.ComplianceViolation
		err := rows.Scan(
			&v.ID,
			&v.ContentID,
			&v.Rule,
			&v.Severity,
			&v.Excerpt,
			&v.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan violation row",
				slog.String("error", err.Error()))
			return nil, err
		}
		violations = append(violations, &v)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return violations, nil
}
