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

// PostgresConversationStore implements the store.ConversationStore
// interface using a PostgreSQL database as the storage backend.
type PostgresConversationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresConversationStore creates a new PostgreSQL implementation of the ConversationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresConversationStore(db store.DBTX, logger *slog.Logger) *PostgresConversationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresConversationStore{
		db:     db,
		logger: logger.With(slog.String("component", "conversation_store")),
	}
}

// Ensure PostgresConversationStore implements store.ConversationStore interface
var _ store.ConversationStore = (*PostgresConversationStore)(nil)

// WithTx implements store.ConversationStore.WithTx
func (s *PostgresConversationStore) WithTx(tx store.DBTX) store.ConversationStore {
	return &PostgresConversationStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateConversation implements store.ConversationStore.CreateConversation
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresConversationStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := conv.Validate(); err != nil {
		log.Warn("conversation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conv.ID.String()))
		return err
	}

	query := `
		INSERT INTO conversations (id, user_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		conv.ID,
		conv.UserID,
		conv.Title,
		conv.CreatedAt,
		conv.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during conversation creation",
				slog.String("error", err.Error()),
				slog.String("user_id", conv.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, conv.UserID)
		}

		log.Error("failed to create conversation",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conv.ID.String()))
		return mapError(err)
	}

	log.Info("conversation created successfully",
		slog.String("conversation_id", conv.ID.String()),
		slog.String("user_id", conv.UserID.String()))
	return nil
}

// GetConversation implements store.ConversationStore.GetConversation
// Returns store.ErrConversationNotFound if the conversation does not exist.
func (s *PostgresConversationStore) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var conv domain.Conversation
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("conversation not found", slog.String("conversation_id", id.String()))
			return nil, store.ErrConversationNotFound
		}
		log.Error("failed to get conversation by ID",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()))
		return nil, err
	}

	return &conv, nil
}

// TouchConversation implements store.ConversationStore.TouchConversation
// Returns store.ErrConversationNotFound if the conversation does not exist.
func (s *PostgresConversationStore) TouchConversation(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE conversations SET updated_at = $1 WHERE id = $2`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to touch conversation",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()))
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("conversation_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("conversation not found for touch",
			slog.String("conversation_id", id.String()))
		return store.ErrConversationNotFound
	}

	return nil
}

// AppendMessage implements store.ConversationStore.AppendMessage
// Returns store.ErrInvalidEntity if the conversation doesn't exist (foreign key violation).
func (s *PostgresConversationStore) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		log.Warn("message validation failed during append",
			slog.String("error", err.Error()),
			slog.String("message_id", msg.ID.String()))
		return err
	}

	query := `
		INSERT INTO chat_messages (id, conversation_id, role, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		msg.ID,
		msg.ConversationID,
		msg.Role,
		msg.Text,
		msg.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during message append",
				slog.String("error", err.Error()),
				slog.String("conversation_id", msg.ConversationID.String()))
			return fmt.Errorf("%w: conversation with ID %s not found",
				store.ErrInvalidEntity, msg.ConversationID)
		}

		log.Error("failed to append message",
			slog.String("error", err.Error()),
			slog.String("message_id", msg.ID.String()))
		return mapError(err)
	}

	log.Debug("message appended",
		slog.String("message_id", msg.ID.String()),
		slog.String("conversation_id", msg.ConversationID.String()),
		slog.String("role", string(msg.Role)))
	return nil
}

// ListMessages implements store.ConversationStore.ListMessages
// Returns an empty slice if the conversation has no messages.
func (s *PostgresConversationStore) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*domain.ChatMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, conversation_id, role, text, created_at
		FROM chat_messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		log.Error("failed to query messages by conversation",
			slog.String("error", err.Error()),
			slog.String("conversation_id", conversationID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	messages := []*domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Text,
			&msg.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan message row",
				slog.String("error", err.Error()))
			return nil, err
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return messages, nil
}
