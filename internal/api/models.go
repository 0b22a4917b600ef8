package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
)

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest represents the request body for refreshing a token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse represents the response for successful authentication.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// BriefResponse represents a creative brief in API responses.
type BriefResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	SourceText string             `json:"source_text"`
	Fields     domain.BriefFields `json:"fields"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func briefToResponse(brief *domain.CreativeBrief) BriefResponse {
	return BriefResponse{
		ID:         brief.ID.String(),
		UserID:     brief.UserID.String(),
		SourceText: brief.SourceText,
		Fields:     brief.Fields,
		CreatedAt:  brief.CreatedAt,
		UpdatedAt:  brief.UpdatedAt,
	}
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func productToResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID.String(),
		UserID:      product.UserID.String(),
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		PriceCents:  product.PriceCents,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// ViolationResponse represents a compliance violation in API responses.
type ViolationResponse struct {
	ID        string    `json:"id"`
	Rule      string    `json:"rule"`
	Severity  string    `json:"severity"`
	Excerpt   string    `json:"excerpt"`
	CreatedAt time.Time `json:"created_at"`
}

func violationToResponse(v *domain.ComplianceViolation) ViolationResponse {
	return ViolationResponse{
		ID:        v.ID.String(),
		Rule:      v.Rule,
		Severity:  string(v.Severity),
		Excerpt:   v.Excerpt,
		CreatedAt: v.CreatedAt,
	}
}

// ContentResponse represents a generated content row in API responses.
// Violations are only populated on single-content lookups.
type ContentResponse struct {
	ID         string              `json:"id"`
	UserID     string              `json:"user_id"`
	BriefID    string              `json:"brief_id"`
	ProductID  string              `json:"product_id,omitempty"`
	Kind       string              `json:"kind"`
	Prompt     string              `json:"prompt"`
	Body       string              `json:"body"`
	Status     string              `json:"status"`
	Violations []ViolationResponse `json:"violations,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func contentToResponse(content *domain.GeneratedContent, violations []*domain.ComplianceViolation) ContentResponse {
	resp := ContentResponse{
		ID:        content.ID.String(),
		UserID:    content.UserID.String(),
		BriefID:   content.BriefID.String(),
		Kind:      string(content.Kind),
		Prompt:    content.Prompt,
		Body:      content.Body,
		Status:    string(content.Status),
		CreatedAt: content.CreatedAt,
		UpdatedAt: content.UpdatedAt,
	}

	if content.ProductID.Valid {
		resp.ProductID = content.ProductID.UUID.String()
	}

	for _, v := range violations {
		resp.Violations = append(resp.Violations, violationToResponse(v))
	}

	return resp
}

// ConversationResponse represents a conversation in API responses.
type ConversationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func conversationToResponse(conv *domain.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        conv.ID.String(),
		UserID:    conv.UserID.String(),
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

// MessageResponse represents a chat message in API responses.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

func messageToResponse(msg *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:             msg.ID.String(),
		ConversationID: msg.ConversationID.String(),
		Role:           string(msg.Role),
		Text:           msg.Text,
		CreatedAt:      msg.CreatedAt,
	}
}
