package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ImageGenerator defines the interface for hosted image generation.
type ImageGenerator interface {
	// GenerateImage produces an image from the prompt and returns the
	// URL where the hosted image can be retrieved
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageGenerationTask implements the Task interface for generating a
// hosted image for a pending content row. The resulting URL is stored
// as the content body.
type ImageGenerationTask struct {
	id             uuid.UUID
	contentID      uuid.UUID
	contentService ContentService
	generator      ImageGenerator
	logger         *slog.Logger
	status         string
}

// NewImageGenerationTask creates a new image generation task
func NewImageGenerationTask(
	contentID uuid.UUID,
	contentService ContentService,
	generator ImageGenerator,
	logger *slog.Logger,
) (*ImageGenerationTask, error) {
	if contentService == nil {
		return nil, ErrNilContentService
	}
	if generator == nil {
		return nil, ErrNilImageGenerator
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if contentID == uuid.Nil {
		return nil, ErrEmptyContentID
	}

	return &ImageGenerationTask{
		id:             uuid.New(),
		contentID:      contentID,
		contentService: contentService,
		generator:      generator,
		logger:         logger.With("task_type", TaskTypeImageGeneration, "content_id", contentID),
		status:         statusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ImageGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ImageGenerationTask) Type() string {
	return TaskTypeImageGeneration
}

// Payload returns the task data as a byte slice
func (t *ImageGenerationTask) Payload() []byte {
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
func (t *ImageGenerationTask) Status() TaskStatus {
	return TaskStatus(t.status)
}

// Execute runs the image generation task: it fetches the content row,
// generates an image from its prompt, and stores the hosted URL.
// Images carry no compliance review.
func (t *ImageGenerationTask) Execute(ctx context.Context) error {
	t.status = statusProcessing
	t.logger.Info("starting image generation task")

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

	// 3. Generate the image
	t.logger.Info("generating image from prompt")
	imageURL, err := t.generator.GenerateImage(ctx, content.Prompt)
	if err != nil {
		_ = t.contentService.FailContent(ctx, t.contentID)
		t.status = statusFailed
		t.logger.Error("failed to generate image", "error", err)
		return fmt.Errorf("failed to generate image: %w", err)
	}

	// 4. Store the hosted URL as the content body
	err = t.contentService.CompleteContent(ctx, t.contentID, imageURL, nil)
	if err != nil {
		_ = t.contentService.FailContent(ctx, t.contentID)
		t.status = statusFailed
		t.logger.Error("failed to store image URL", "error", err)
		return fmt.Errorf("failed to store image URL: %w", err)
	}

	t.status = statusCompleted
	t.logger.Info("image generation task completed successfully")
	return nil
}
