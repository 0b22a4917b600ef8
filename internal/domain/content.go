package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the processing state of a piece of generated content
type ContentStatus string

// Possible content status values
const (
	ContentStatusPending               ContentStatus = "pending"
	ContentStatusProcessing            ContentStatus = "processing"
	ContentStatusCompleted             ContentStatus = "completed"
	ContentStatusCompletedWithWarnings ContentStatus = "completed_with_warnings"
	ContentStatusFailed                ContentStatus = "failed"
)

// ContentKind distinguishes what a GeneratedContent row holds
type ContentKind string

// Possible content kinds
const (
	// ContentKindCopy is marketing copy; Body holds the generated text.
	ContentKindCopy ContentKind = "copy"

	// ContentKindImage is a generated image; Body holds the hosted image URL.
	ContentKindImage ContentKind = "image"
)

// Common validation errors for GeneratedContent
var (
	ErrEmptyContentID      = errors.New("content ID cannot be empty")
	ErrEmptyContentUserID  = errors.New("content user ID cannot be empty")
	ErrEmptyContentBriefID = errors.New("content brief ID cannot be empty")
	ErrEmptyContentPrompt  = errors.New("content prompt cannot be empty")
)

// GeneratedContent represents a single unit of AI-generated marketing
// output (copy text or an image URL) produced for a creative brief.
// It tracks the generation lifecycle so clients can poll or subscribe
// to status transitions while a background job runs.
type GeneratedContent struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	BriefID   uuid.UUID     `json:"brief_id"`
	ProductID uuid.NullUUID `json:"product_id,omitempty"`
	Kind      ContentKind   `json:"kind"`
	Prompt    string        `json:"prompt"`
	Body      string        `json:"body"`
	Status    ContentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewGeneratedContent creates a new GeneratedContent in the pending state.
// Body starts empty and is filled in by the generation job.
// Returns an error if validation fails.
func NewGeneratedContent(
	userID, briefID uuid.UUID,
	productID uuid.NullUUID,
	kind ContentKind,
	prompt string,
) (*GeneratedContent, error) {
	content := &GeneratedContent{
		ID:        uuid.New(),
		UserID:    userID,
		BriefID:   briefID,
		ProductID: productID,
		Kind:      kind,
		Prompt:    prompt,
		Status:    ContentStatusPending,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := content.Validate(); err != nil {
		return nil, err
	}

	return content, nil
}

// Validate checks if the GeneratedContent has valid data.
// Returns an error if any field fails validation.
func (c *GeneratedContent) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyContentID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyContentUserID
	}

	if c.BriefID == uuid.Nil {
		return ErrEmptyContentBriefID
	}

	if c.Prompt == "" {
		return ErrEmptyContentPrompt
	}

	if !isValidContentKind(c.Kind) {
		return ErrInvalidContentKind
	}

	if !isValidContentStatus(c.Status) {
		return ErrInvalidContentStatus
	}

	return nil
}

// contentStatusTransitions lists the legal moves in the generation
// lifecycle. Terminal statuses accept no further transitions, and
// nothing moves back to pending.
var contentStatusTransitions = map[ContentStatus]map[ContentStatus]bool{
	ContentStatusPending: {
		ContentStatusProcessing:            true,
		ContentStatusCompleted:             true,
		ContentStatusCompletedWithWarnings: true,
		ContentStatusFailed:                true,
	},
	ContentStatusProcessing: {
		ContentStatusCompleted:             true,
		ContentStatusCompletedWithWarnings: true,
		ContentStatusFailed:                true,
	},
}

// UpdateStatus updates the content's status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid or the move is not a
// legal lifecycle transition.
func (c *GeneratedContent) UpdateStatus(status ContentStatus) error {
	if !isValidContentStatus(status) {
		return ErrInvalidContentStatus
	}

	if !contentStatusTransitions[c.Status][status] {
		return ErrInvalidStatusTransition
	}

	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// IsTerminal reports whether the content has reached a final status.
func (c *GeneratedContent) IsTerminal() bool {
	switch c.Status {
	case ContentStatusCompleted, ContentStatusCompletedWithWarnings, ContentStatusFailed:
		return true
	default:
		return false
	}
}

// isValidContentStatus checks if the given status is a valid ContentStatus.
func isValidContentStatus(status ContentStatus) bool {
	switch status {
	case ContentStatusPending, ContentStatusProcessing, ContentStatusCompleted,
		ContentStatusCompletedWithWarnings, ContentStatusFailed:
		return true
	default:
		return false
	}
}

// isValidContentKind checks if the given kind is a valid ContentKind.
func isValidContentKind(kind ContentKind) bool {
	switch kind {
	case ContentKindCopy, ContentKindImage:
		return true
	default:
		return false
	}
}
