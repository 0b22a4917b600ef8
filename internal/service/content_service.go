package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/domain"
	"github.com/phrazzld/studio-api/internal/events"
	"github.com/phrazzld/studio-api/internal/store"
	"github.com/phrazzld/studio-api/internal/task"
)

// ContentService manages the generated-content lifecycle: it accepts
// generation requests, persists a pending content row, and emits a task
// request event so a background worker picks up the actual generation.
// It also implements the callbacks the generation tasks use to report
// progress (task.ContentService and task.BriefReader).
type ContentService struct {
	db             *sql.DB
	contentStore   store.ContentStore
	violationStore store.ViolationStore
	briefStore     store.BriefStore
	productStore   store.ProductStore
	emitter        events.EventEmitter
	logger         *slog.Logger
}

// Compile-time checks that the task package callbacks are satisfied.
var (
	_ task.ContentService = (*ContentService)(nil)
	_ task.BriefReader    = (*ContentService)(nil)
)

// NewContentService creates a new ContentService.
func NewContentService(
	db *sql.DB,
	contentStore store.ContentStore,
	violationStore store.ViolationStore,
	briefStore store.BriefStore,
	productStore store.ProductStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		db:             db,
		contentStore:   contentStore,
		violationStore: violationStore,
		briefStore:     briefStore,
		productStore:   productStore,
		emitter:        emitter,
		logger:         logger.With("component", "content_service"),
	}
}

// RequestCopyGeneration creates a pending copy row for the brief and
// enqueues a background generation task. The returned content is in the
// pending state; clients poll or subscribe for status transitions.
func (s *ContentService) RequestCopyGeneration(
	ctx context.Context,
	userID, briefID uuid.UUID,
	productID uuid.NullUUID,
	prompt string,
) (*domain.GeneratedContent, error) {
	return s.requestGeneration(ctx, userID, briefID, productID, domain.ContentKindCopy, prompt,
		task.TaskTypeContentGeneration)
}

// RequestImageGeneration creates a pending image row for the brief and
// enqueues a background generation task. The finished body holds the
// hosted image URL.
func (s *ContentService) RequestImageGeneration(
	ctx context.Context,
	userID, briefID uuid.UUID,
	productID uuid.NullUUID,
	prompt string,
) (*domain.GeneratedContent, error) {
	return s.requestGeneration(ctx, userID, briefID, productID, domain.ContentKindImage, prompt,
		task.TaskTypeImageGeneration)
}

func (s *ContentService) requestGeneration(
	ctx context.Context,
	userID, briefID uuid.UUID,
	productID uuid.NullUUID,
	kind domain.ContentKind,
	prompt string,
	taskType string,
) (*domain.GeneratedContent, error) {
	// The brief must exist and belong to the requesting user.
	brief, err := s.briefStore.GetByID(ctx, briefID)
	if err != nil {
		if errors.Is(err, store.ErrBriefNotFound) {
			return nil, ErrBriefNotFound
		}
		return nil, newServiceError("request_generation", "failed to retrieve brief", err)
	}
	if brief.UserID != userID {
		return nil, ErrBriefNotFound
	}

	// Same for an optional product attachment.
	if productID.Valid {
		product, err := s.productStore.GetByID(ctx, productID.UUID)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, newServiceError("request_generation", "failed to retrieve product", err)
		}
		if product.UserID != userID {
			return nil, ErrProductNotFound
		}
	}

	content, err := domain.NewGeneratedContent(userID, briefID, productID, kind, prompt)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.contentStore.WithTx(tx).Create(ctx, content)
	})
	if err != nil {
		return nil, newServiceError("request_generation", "failed to store content", err)
	}

	event, err := events.NewTaskRequestEvent(taskType, struct {
		ContentID uuid.UUID `json:"content_id"`
	}{ContentID: content.ID})
	if err != nil {
		return nil, newServiceError("request_generation", "failed to build task event", err)
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		// The row exists but no task will run for it. Mark it failed so
		// it doesn't sit pending forever.
		if failErr := s.contentStore.UpdateStatus(ctx, content.ID, domain.ContentStatusFailed); failErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark orphaned content as failed",
				"content_id", content.ID,
				"error", failErr)
		}
		return nil, newServiceError("request_generation", "failed to enqueue generation task", err)
	}

	s.logger.InfoContext(ctx, "generation requested",
		"content_id", content.ID,
		"user_id", userID,
		"kind", kind,
		"task_type", taskType)
	return content, nil
}

// GetContentForUser retrieves a content row owned by the given user,
// along with any compliance violations recorded for it.
// Returns ErrContentNotFound when the row is missing or belongs to
// another user.
func (s *ContentService) GetContentForUser(
	ctx context.Context,
	userID, contentID uuid.UUID,
) (*domain.GeneratedContent, []*domain.ComplianceViolation, error) {
	content, err := s.contentStore.GetByID(ctx, contentID)
	if err != nil {
		if errors.Is(err, store.ErrContentNotFound) {
			return nil, nil, ErrContentNotFound
		}
		return nil, nil, newServiceError("get_content", "failed to retrieve content", err)
	}

	if content.UserID != userID {
		return nil, nil, ErrContentNotFound
	}

	violations, err := s.violationStore.ListByContent(ctx, contentID)
	if err != nil {
		return nil, nil, newServiceError("get_content", "failed to retrieve violations", err)
	}

	return content, violations, nil
}

// ListContentForUser retrieves the user's content rows, newest first.
func (s *ContentService) ListContentForUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GeneratedContent, error) {
	contents, err := s.contentStore.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, newServiceError("list_content", "failed to list content", err)
	}
	return contents, nil
}

// GetContent implements task.ContentService.
func (s *ContentService) GetContent(ctx context.Context, contentID uuid.UUID) (*domain.GeneratedContent, error) {
	content, err := s.contentStore.GetByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve content: %w", err)
	}
	return content, nil
}

// GetBrief implements task.BriefReader.
func (s *ContentService) GetBrief(ctx context.Context, briefID uuid.UUID) (*domain.CreativeBrief, error) {
	brief, err := s.briefStore.GetByID(ctx, briefID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve brief: %w", err)
	}
	return brief, nil
}

// MarkContentProcessing implements task.ContentService. It transitions
// a content row to the processing state when a worker picks it up.
func (s *ContentService) MarkContentProcessing(ctx context.Context, contentID uuid.UUID) error {
	if err := s.contentStore.UpdateStatus(ctx, contentID, domain.ContentStatusProcessing); err != nil {
		return fmt.Errorf("failed to mark content processing: %w", err)
	}
	return nil
}

// CompleteContent implements task.ContentService. The body and any
// violations are stored in a single transaction; the terminal status is
// completed_with_warnings when violations were flagged, completed
// otherwise.
func (s *ContentService) CompleteContent(
	ctx context.Context,
	contentID uuid.UUID,
	body string,
	violations []*domain.ComplianceViolation,
) error {
	status := domain.ContentStatusCompleted
	if len(violations) > 0 {
		status = domain.ContentStatusCompletedWithWarnings
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txContent := s.contentStore.WithTx(tx)

		content, err := txContent.GetByID(ctx, contentID)
		if err != nil {
			return err
		}

		content.Body = body
		if err := content.UpdateStatus(status); err != nil {
			return err
		}

		if err := txContent.Update(ctx, content); err != nil {
			return err
		}

		if len(violations) > 0 {
			if err := s.violationStore.WithTx(tx).CreateBatch(ctx, violations); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete content: %w", err)
	}

	s.logger.InfoContext(ctx, "content completed",
		"content_id", contentID,
		"status", status,
		"violation_count", len(violations))
	return nil
}

// FailContent implements task.ContentService. It transitions a content
// row to the failed state.
func (s *ContentService) FailContent(ctx context.Context, contentID uuid.UUID) error {
	if err := s.contentStore.UpdateStatus(ctx, contentID, domain.ContentStatusFailed); err != nil {
		return fmt.Errorf("failed to mark content failed: %w", err)
	}

	s.logger.WarnContext(ctx, "content generation failed", "content_id", contentID)
	return nil
}
