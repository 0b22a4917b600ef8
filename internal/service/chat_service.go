package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/generation"
	"github.com/phrazzld/studio-api/internal/store"
)

// ChatService manages brainstorming conversations between a user and
// the assistant. Each turn is persisted before the responder is called
// so the conversation survives a failed generation.
type ChatService struct {
	convStore store.ConversationStore
	responder generation.ChatResponder
	logger    *slog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(
	convStore store.ConversationStore,
	responder generation.ChatResponder,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		convStore: convStore,
		responder: responder,
		logger:    logger.With("component", "chat_service"),
	}
}

// StartConversation creates a new empty conversation for the user.
func (s *ChatService) StartConversation(ctx context.Context, userID uuid.UUID, title string) (*domain.Conversation, error) {
	conv, err := domain.NewConversation(userID, title)
	if err != nil {
		return nil, err
	}

	if err := s.convStore.CreateConversation(ctx, conv); err != nil {
		return nil, newServiceError("start_conversation", "failed to create conversation", err)
	}

	s.logger.InfoContext(ctx, "conversation started",
		"conversation_id", conv.ID,
		"user_id", userID)
	return conv, nil
}

// GetConversation retrieves a conversation owned by the given user.
// Returns ErrConversationNotFound when the conversation is missing or
// belongs to another user.
func (s *ChatService) GetConversation(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.convStore.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrConversationNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, newServiceError("get_conversation", "failed to retrieve conversation", err)
	}

	if conv.UserID != userID {
		return nil, ErrConversationNotFound
	}

	return conv, nil
}

// ListMessages retrieves all messages in a conversation owned by the
// user, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID) ([]*domain.ChatMessage, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.convStore.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, newServiceError("list_messages", "failed to list messages", err)
	}
	return messages, nil
}

// SendMessage appends the user's message to the conversation, asks the
// responder for a reply over the full history, and persists the reply.
// Both messages are returned. If the responder fails, the user message
// stays recorded and the error propagates; retrying resends the whole
// history.
func (s *ChatService) SendMessage(
	ctx context.Context,
	userID, conversationID uuid.UUID,
	text string,
) (*domain.ChatMessage, *domain.ChatMessage, error) {
	if _, err := s.GetConversation(ctx, userID, conversationID); err != nil {
		return nil, nil, err
	}

	userMsg, err := domain.NewChatMessage(conversationID, domain.RoleUser, text)
	if err != nil {
		return nil, nil, err
	}

	if err := s.convStore.AppendMessage(ctx, userMsg); err != nil {
		return nil, nil, newServiceError("send_message", "failed to store user message", err)
	}

	history, err := s.convStore.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, nil, newServiceError("send_message", "failed to load history", err)
	}

	reply, err := s.responder.Respond(ctx, history)
	if err != nil {
		return nil, nil, err
	}

	assistantMsg, err := domain.NewChatMessage(conversationID, domain.RoleAssistant, reply)
	if err != nil {
		return nil, nil, err
	}

	if err := s.convStore.AppendMessage(ctx, assistantMsg); err != nil {
		return nil, nil, newServiceError("send_message", "failed to store assistant message", err)
	}

	if err := s.convStore.TouchConversation(ctx, conversationID); err != nil {
		// Ordering metadata only; the turn itself is already stored.
		s.logger.WarnContext(ctx, "failed to touch conversation",
			"conversation_id", conversationID,
			"error", err)
	}

	s.logger.InfoContext(ctx, "chat turn completed",
		"conversation_id", conversationID,
		"user_id", userID)
	return userMsg, assistantMsg, nil
}
