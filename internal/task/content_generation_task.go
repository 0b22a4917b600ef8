package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
)

// Status constants shared by the generation tasks.
// These match the TaskStatus values defined in task.go
const (
	statusPending    = "pending"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

// Common errors
var (
	ErrNilContentService = errors.New("content service cannot be nil")
	ErrNilBriefReader    = errors.New("brief reader cannot be nil")
	ErrNilCopyGenerator  = errors.New("copy generator cannot be nil")
	ErrNilReviewer       = errors.New("compliance reviewer cannot be nil")
	ErrNilImageGenerator = errors.New("image generator cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyContentID    = errors.New("content ID cannot be empty")
)

// ContentService defines the content lifecycle operations the
// generation tasks need from the service layer.
type ContentService interface {
	// GetContent retrieves a content row by its ID
	GetContent(ctx context.Context, contentID uuid.UUID) (*domain.GeneratedContent, error)

	// MarkContentProcessing transitions a content row to the processing state
	MarkContentProcessing(ctx context.Context, contentID uuid.UUID) error

	// CompleteContent stores the generated body and any compliance
	// violations atomically, and sets the terminal status (completed, or
	// completed_with_warnings when violations were flagged)
	CompleteContent(ctx context.Context, contentID uuid.UUID, body string, violations []*domain.ComplianceViolation) error

	// FailContent transitions a content row to the failed state
	FailContent(ctx context.Context, contentID uuid.UUID) error
}

// BriefReader provides read access to creative briefs.
type BriefReader interface {
	// GetBrief retrieves a brief by its ID
	GetBrief(ctx context.Context, briefID uuid.UUID) (*domain.CreativeBrief, error)
}

// CopyGenerator defines the interface for marketing copy generation.
type CopyGenerator interface {
	// GenerateCopy produces marketing copy from the brief and the
	// user-supplied prompt
	GenerateCopy(ctx context.Context, brief *domain.CreativeBrief, prompt string) (string, error)
}

// ComplianceReviewer checks generated copy against content rules.
// Violations never block completion; they are attached to the content.
type ComplianceReviewer interface {
	// ReviewCopy returns the violations flagged for the given copy,
	// or an empty slice when the copy is clean
	ReviewCopy(ctx context.Context, contentID uuid.UUID, copy string) ([]*domain.ComplianceViolation, error)
}

// generationPayload represents the serialized data stored in the task
type generationPayload struct {
	ContentID uuid.UUID `json:"content_id"`
}

// ContentGenerationTask implements the Task interface for generating
// marketing copy for a pending content row.
type ContentGenerationTask struct {
	id             uuid.UUID
	contentID      uuid.UUID
	contentService ContentService
	briefReader    BriefReader
	generator      CopyGenerator
	reviewer       ComplianceReviewer
	logger         *slog.Logger
	status         string
}

// NewContentGenerationTask creates a new content generation task
func NewContentGenerationTask(
	contentID uuid.UUID,
	contentService ContentService,
	briefReader BriefReader,
	generator CopyGenerator,
	reviewer ComplianceReviewer,
	logger *slog.Logger,
) (*ContentGenerationTask, error) {
	if contentService == nil {
		return nil, ErrNilContentService
	}
	if briefReader == nil {
		return nil, ErrNilBriefReader
	}
	if generator == nil {
		return nil, ErrNilCopyGenerator
	}
	if reviewer == nil {
		return nil, ErrNilReviewer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if contentID == uuid.Nil {
		return nil, ErrEmptyContentID
	}

	return &ContentGenerationTask{
		id:             uuid.New(),
		contentID:      contentID,
		contentService: contentService,
		briefReader:    briefReader,
		generator:      generator,
		reviewer:       reviewer,
		logger:         logger.With("task_type", TaskTypeContentGeneration, "content_id", contentID),
		status:         statusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ContentGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ContentGenerationTask) Type() string {
	return TaskTypeContentGeneration
}

// Payload returns the task data as a byte slice
func (t *ContentGenerationTask) Payload() []byte {
	payload := generationPayload{
		ContentID: t.contentID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *ContentGenerationTask) Status() TaskStatus {
	return TaskStatus(t.status)
}

// Execute runs the content generation task, handling the complete
// lifecycle: fetching the content row and its brief, generating copy,
// running the compliance review, and storing the result. The content
// row is marked failed if any required step errors out.
func (t *ContentGenerationTask) Execute(ctx context.Context) error {
	t.status = statusProcessing
	t.logger.Info("starting content generation task")

	if err := ctx.Err(); err != nil {
		t.status = statusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// 1. Retrieve the content row
	content, err := t.contentService.GetContent(ctx, t.contentID)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to retrieve content", "error", err)
		return fmt.Errorf("failed to retrieve content: %w", err)
	}

	t.logger.Info("retrieved content",
		"user_id", content.UserID,
		"content_status", content.Status)

	// 2. Mark the content row as processing
	err = t.contentService.MarkContentProcessing(ctx, t.contentID)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to mark content as processing", "error", err)
		return fmt.Errorf("failed to mark content as processing: %w", err)
	}

	// 3. Load the brief that drives generation
	brief, err := t.briefReader.GetBrief(ctx, content.BriefID)
	if err != nil {
		_ = t.contentService.FailContent(ctx, t.contentID)
		t.status = statusFailed
		t.logger.Error("failed to retrieve brief", "error", err)
		return fmt.Errorf("failed to retrieve brief: %w", err)
	}

	// 4. Generate the copy
	t.logger.Info("generating copy from brief")
	copyText, err := t.generator.GenerateCopy(ctx, brief, content.Prompt)
	if err != nil {
		_ = t.contentService.FailContent(ctx, t.contentID)
		t.status = statusFailed
		t.logger.Error("failed to generate copy", "error", err)
		return fmt.Errorf("failed to generate copy: %w", err)
	}

	// 5. Run the compliance review. A review failure does not fail the
	// task; the copy is still delivered, just without violation records.
	violations, err := t.reviewer.ReviewCopy(ctx, t.contentID, copyText)
	if err != nil {
		t.logger.Warn("compliance review failed, delivering copy unreviewed", "error", err)
		violations = nil
	}

	t.logger.Info("copy generated", "violation_count", len(violations))

	// 6. Store the result
	err = t.contentService.CompleteContent(ctx, t.contentID, copyText, violations)
	if err != nil {
		_ = t.contentService.FailContent(ctx, t.contentID)
		t.status = statusFailed
		t.logger.Error("failed to store generated copy", "error", err)
		return fmt.Errorf("failed to store generated copy: %w", err)
	}

	t.status = statusCompleted
	t.logger.Info("content generation task completed successfully",
		"violation_count", len(violations))
	return nil
}
