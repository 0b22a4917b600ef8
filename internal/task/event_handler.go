package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/events"
)

// TaskFactoryEventHandler implements the events.EventHandler interface.
// It maps task request events to the factory registered for the event
// type, creates the task, and submits it to the runner.
type TaskFactoryEventHandler struct {
	factories map[string]TaskFactory
	runner    *TaskRunner
	logger    *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that submits
// created tasks to the provided task runner. Factories are registered
// per event type with RegisterFactory.
func NewTaskFactoryEventHandler(
	runner *TaskRunner,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		factories: make(map[string]TaskFactory),
		runner:    runner,
		logger:    logger.With("component", "task_factory_event_handler"),
	}
}

// RegisterFactory associates a task factory with an event type.
func (h *TaskFactoryEventHandler) RegisterFactory(eventType string, factory TaskFactory) {
	h.factories[eventType] = factory
}

// HandleEvent processes events by creating and submitting tasks.
// It extracts the content ID from the event payload, creates the
// appropriate task through the registered factory, and submits it to
// the runner for execution.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	factory, ok := h.factories[event.Type]
	if !ok {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload struct {
		ContentID string `json:"content_id"`
	}

	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	contentID, err := uuid.Parse(payload.ContentID)
	if err != nil {
		h.logger.Error("invalid content ID",
			"error", err,
			"content_id", payload.ContentID,
			"event_id", event.ID)
		return fmt.Errorf("invalid content ID: %w", err)
	}

	h.logger.Debug("creating task for content", "content_id", contentID, "event_id", event.ID)
	task, err := factory.CreateTask(contentID)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err,
			"content_id", contentID,
			"event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	h.logger.Debug("submitting task to runner",
		"task_id", task.ID(),
		"content_id", contentID,
		"event_id", event.ID)
	if err := h.runner.Submit(ctx, task); err != nil {
		h.logger.Error("failed to submit task",
			"error", err,
			"task_id", task.ID(),
			"content_id", contentID,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("task created and submitted successfully",
		"task_id", task.ID(),
		"task_type", task.Type(),
		"content_id", contentID,
		"event_id", event.ID)
	return nil
}

// RehydrateTask turns a task loaded from the database back into an
// executable task. The stored task keeps its identity; only the
// execution function is rebuilt from the factory registered for its
// type. Tasks that are already executable pass through unchanged.
func (h *TaskFactoryEventHandler) RehydrateTask(t Task) (Task, error) {
	settable, ok := t.(interface {
		SetExecuteFn(fn func(ctx context.Context) error)
	})
	if !ok {
		return t, nil
	}

	factory, found := h.factories[t.Type()]
	if !found {
		return nil, fmt.Errorf("no factory registered for task type %q", t.Type())
	}

	var payload struct {
		ContentID uuid.UUID `json:"content_id"`
	}
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recovered task payload: %w", err)
	}

	concrete, err := factory.CreateTask(payload.ContentID)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild task: %w", err)
	}

	settable.SetExecuteFn(concrete.Execute)
	return t, nil
}

// Ensure TaskFactoryEventHandler implements events.EventHandler
var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
