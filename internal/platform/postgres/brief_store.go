package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/platform/logger"
	"github.com/phrazzld/studio-api/internal/store"
)

// PostgresBriefStore implements the store.BriefStore interface
// using a PostgreSQL database as the storage backend. The nine
// structured brief fields are stored as a JSONB document so the
// field set can evolve without schema churn.
type PostgresBriefStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBriefStore creates a new PostgreSQL implementation of the BriefStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBriefStore(db store.DBTX, logger *slog.Logger) *PostgresBriefStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBriefStore{
		db:     db,
		logger: logger.With(slog.String("component", "brief_store")),
	}
}

// Ensure PostgresBriefStore implements store.BriefStore interface
var _ store.BriefStore = (*PostgresBriefStore)(nil)

// WithTx implements store.BriefStore.WithTx
func (s *PostgresBriefStore) WithTx(tx store.DBTX) store.BriefStore {
	return &PostgresBriefStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.BriefStore.Create
// It saves a new creative brief to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresBriefStore) Create(ctx context.Context, brief *domain.CreativeBrief) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := brief.Validate(); err != nil {
		log.Warn("brief validation failed during create",
			slog.String("error", err.Error()),
			slog.String("brief_id", brief.ID.String()))
		return err
	}

	fieldsJSON, err := json.Marshal(brief.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal brief fields: %w", err)
	}

	query := `
		INSERT INTO briefs (id, user_id, source_text, fields, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		brief.ID,
		brief.UserID,
		brief.SourceText,
		fieldsJSON,
		brief.CreatedAt,
		brief.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during brief creation",
				slog.String("error", err.Error()),
				slog.String("brief_id", brief.ID.String()),
				slog.String("user_id", brief.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, brief.UserID)
		}

		log.Error("failed to create brief",
			slog.String("error", err.Error()),
			slog.String("brief_id", brief.ID.String()))
		return mapError(err)
	}

	log.Info("brief created successfully",
		slog.String("brief_id", brief.ID.String()),
		slog.String("user_id", brief.UserID.String()))
	return nil
}

// GetByID implements store.BriefStore.GetByID
// Returns store.ErrBriefNotFound if the brief does not exist.
func (s *PostgresBriefStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CreativeBrief, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, source_text, fields, created_at, updated_at
		FROM briefs
		WHERE id = $1
	`

	brief, err := scanBrief(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("brief not found", slog.String("brief_id", id.String()))
			return nil, store.ErrBriefNotFound
		}
		log.Error("failed to get brief by ID",
			slog.String("error", err.Error()),
			slog.String("brief_id", id.String()))
		return nil, err
	}

	return brief, nil
}

// ListByUser implements store.BriefStore.ListByUser
// Returns an empty slice if the user has no briefs.
func (s *PostgresBriefStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.CreativeBrief, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, source_text, fields, created_at, updated_at
		FROM briefs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to query briefs by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	briefs := []*domain.CreativeBrief{}
	for rows.Next() {
		brief, err := scanBrief(rows)
		if err != nil {
			log.Error("failed to scan brief row",
				slog.String("error", err.Error()))
			return nil, err
		}
		briefs = append(briefs, brief)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return briefs, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBrief reads one brief row, decoding the JSONB fields document.
func scanBrief(row rowScanner) (*domain.CreativeBrief, error) {
	var brief domain.CreativeBrief
	var fieldsJSON []byte

	err := row.Scan(
		&brief.ID,
		&brief.UserID,
		&brief.SourceText,
		&fieldsJSON,
		&brief.CreatedAt,
		&brief.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(fieldsJSON, &brief.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brief fields: %w", err)
	}

	if brief.Fields.Channels == nil {
		brief.Fields.Channels = []string{}
	}

	return &brief, nil
}
