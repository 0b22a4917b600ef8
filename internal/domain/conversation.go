package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MessageRole identifies who produced a chat message
type MessageRole string

// Possible message roles
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Common validation errors for conversations and messages
var (
	ErrEmptyConversationID     = errors.New("conversation ID cannot be empty")
	ErrEmptyConversationUserID = errors.New("conversation user ID cannot be empty")
	ErrEmptyMessageID          = errors.New("message ID cannot be empty")
	ErrEmptyMessageText        = errors.New("message text cannot be empty")
)

// Conversation is a persisted chat thread between a user and the
// assistant. Messages belong to exactly one conversation and are
// ordered by creation time.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates a new Conversation for the given user.
// Returns an error if validation fails.
func NewConversation(userID uuid.UUID, title string) (*Conversation, error) {
	conv := &Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := conv.Validate(); err != nil {
		return nil, err
	}

	return conv, nil
}

// Validate checks if the Conversation has valid data.
func (c *Conversation) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyConversationID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyConversationUserID
	}

	return nil
}

// ChatMessage is a single turn in a conversation.
type ChatMessage struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	Role           MessageRole `json:"role"`
	Text           string      `json:"text"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewChatMessage creates a new ChatMessage in the given conversation.
// Returns an error if validation fails.
func NewChatMessage(conversationID uuid.UUID, role MessageRole, text string) (*ChatMessage, error) {
	msg := &ChatMessage{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the ChatMessage has valid data.
func (m *ChatMessage) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMessageID
	}

	if m.ConversationID == uuid.Nil {
		return ErrEmptyConversationID
	}

	if m.Text == "" {
		return ErrEmptyMessageText
	}

	if !isValidMessageRole(m.Role) {
		return ErrInvalidMessageRole
	}

	return nil
}

// isValidMessageRole checks if the given role is a valid MessageRole.
func isValidMessageRole(role MessageRole) bool {
	switch role {
	case RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}
