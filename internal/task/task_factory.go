package task

import (
	"log/slog"

	"github.com/google/uuid"
)

// TaskFactory creates a concrete task for the given content row.
// Each task type registers its own factory with the event handler.
type TaskFactory interface {
	// CreateTask creates a new task for the specified content row
	CreateTask(contentID uuid.UUID) (Task, error)
}

// ContentGenerationTaskFactory creates ContentGenerationTask instances
type ContentGenerationTaskFactory struct {
	contentService ContentService
	briefReader    BriefReader
	generator      CopyGenerator
	reviewer       ComplianceReviewer
	logger         *slog.Logger
}

// NewContentGenerationTaskFactory creates a new factory for ContentGenerationTasks
func NewContentGenerationTaskFactory(
	contentService ContentService,
	briefReader BriefReader,
	generator CopyGenerator,
	reviewer ComplianceReviewer,
	logger *slog.Logger,
) *ContentGenerationTaskFactory {
	return &ContentGenerationTaskFactory{
		contentService: contentService,
		briefReader:    briefReader,
		generator:      generator,
		reviewer:       reviewer,
		logger:         logger.With("component", "content_generation_task_factory"),
	}
}

// CreateTask creates a new ContentGenerationTask for the specified content row
func (f *ContentGenerationTaskFactory) CreateTask(contentID uuid.UUID) (Task, error) {
	task, err := NewContentGenerationTask(
		contentID,
		f.contentService,
		f.briefReader,
		f.generator,
		f.reviewer,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Ensure ContentGenerationTaskFactory implements TaskFactory
var _ TaskFactory = (*ContentGenerationTaskFactory)(nil)

// ImageGenerationTaskFactory creates ImageGenerationTask instances
type ImageGenerationTaskFactory struct {
	contentService ContentService
	generator      ImageGenerator
	logger         *slog.Logger
}

// NewImageGenerationTaskFactory creates a new factory for ImageGenerationTasks
func NewImageGenerationTaskFactory(
	contentService ContentService,
	generator ImageGenerator,
	logger *slog.Logger,
) *ImageGenerationTaskFactory {
	return &ImageGenerationTaskFactory{
		contentService: contentService,
		generator:      generator,
		logger:         logger.With("component", "image_generation_task_factory"),
	}
}

// CreateTask creates a new ImageGenerationTask for the specified content row
func (f *ImageGenerationTaskFactory) CreateTask(contentID uuid.UUID) (Task, error) {
	task, err := NewImageGenerationTask(
		contentID,
		f.contentService,
		f.generator,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Ensure ImageGenerationTaskFactory implements TaskFactory
var _ TaskFactory = (*ImageGenerationTaskFactory)(nil)
