package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
)

// ConversationStore defines the interface for chat conversation persistence.
type ConversationStore interface {
	// CreateConversation saves a new conversation to the store.
	CreateConversation(ctx context.Context, conv *domain.Conversation) error

	// GetConversation retrieves a conversation by its unique ID.
	// Returns ErrConversationNotFound if the conversation does not exist.
	GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)

	// TouchConversation updates a conversation's UpdatedAt timestamp.
	// Returns ErrConversationNotFound if the conversation does not exist.
	TouchConversation(ctx context.Context, id uuid.UUID) error

	// AppendMessage saves a new message to a conversation.
	AppendMessage(ctx context.Context, msg *domain.ChatMessage) error

	// ListMessages retrieves all messages in a conversation, oldest first.
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*domain.ChatMessage, error)

	// WithTx returns a new ConversationStore instance that uses the provided transaction.
	WithTx(tx DBTX) ConversationStore
}
