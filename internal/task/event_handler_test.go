package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFactory returns a scripted task (or error) and records the
// content ID it was asked to build for.
type fakeFactory struct {
	task      Task
	err       error
	contentID uuid.UUID
}

func (f *fakeFactory) CreateTask(contentID uuid.UUID) (Task, error) {
	f.contentID = contentID
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func newHandlerWithRunner(t *testing.T) (*TaskFactoryEventHandler, *TaskRunner, *MockTaskStore) {
	t.Helper()
	store := NewMockTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), testTaskLogger())
	return NewTaskFactoryEventHandler(runner, testTaskLogger()), runner, store
}

func contentEvent(t *testing.T, eventType string, contentID uuid.UUID) *events.TaskRequestEvent {
	t.Helper()
	event, err := events.NewTaskRequestEvent(eventType, struct {
		ContentID uuid.UUID `json:"content_id"`
	}{contentID})
	require.NoError(t, err)
	return event
}

func TestTaskFactoryEventHandler_HandleEvent(t *testing.T) {
	t.Parallel()

	t.Run("creates and submits the task", func(t *testing.T) {
		t.Parallel()

		handler, runner, store := newHandlerWithRunner(t)

		contentID := uuid.New()
		created := CreateMockGenerationTask(TaskTypeContentGeneration, contentID)
		factory := &fakeFactory{task: created}
		handler.RegisterFactory(TaskTypeContentGeneration, factory)

		err := handler.HandleEvent(context.Background(), contentEvent(t, TaskTypeContentGeneration, contentID))
		require.NoError(t, err)

		assert.Equal(t, contentID, factory.contentID)

		// The task is persisted and queued.
		status, found := store.GetTaskStatus(created.ID())
		assert.True(t, found)
		assert.Equal(t, TaskStatusPending, status)

		select {
		case queued := <-runner.queue.GetChannel():
			assert.Equal(t, created.ID(), queued.ID())
		default:
			t.Fatal("expected the task to be queued")
		}
	})

	t.Run("ignores unregistered event types", func(t *testing.T) {
		t.Parallel()

		handler, runner, _ := newHandlerWithRunner(t)

		err := handler.HandleEvent(context.Background(), contentEvent(t, "unrelated_event", uuid.New()))
		require.NoError(t, err)

		select {
		case <-runner.queue.GetChannel():
			t.Fatal("no task should be queued for an unregistered type")
		default:
		}
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newHandlerWithRunner(t)
		handler.RegisterFactory(TaskTypeContentGeneration, &fakeFactory{})

		event, err := events.NewTaskRequestEvent(TaskTypeContentGeneration, struct {
			ContentID string `json:"content_id"`
		}{"not-a-uuid"})
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid content ID")
	})

	t.Run("propagates factory errors", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newHandlerWithRunner(t)
		handler.RegisterFactory(TaskTypeContentGeneration, &fakeFactory{err: errors.New("boom")})

		err := handler.HandleEvent(context.Background(), contentEvent(t, TaskTypeContentGeneration, uuid.New()))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create task")
	})
}

func TestTaskFactoryEventHandler_RehydrateTask(t *testing.T) {
	t.Parallel()

	t.Run("rebuilds the execution function from the factory", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newHandlerWithRunner(t)

		contentID := uuid.New()
		executed := false
		concrete := CreateMockGenerationTask(TaskTypeContentGeneration, contentID)
		concrete.ExecuteFn = func(ctx context.Context) error {
			executed = true
			return nil
		}
		factory := &fakeFactory{task: concrete}
		handler.RegisterFactory(TaskTypeContentGeneration, factory)

		// A recovered task carries the persisted payload but no live
		// dependencies.
		payload, _ := json.Marshal(generationPayload{ContentID: contentID})
		recovered := NewMockTask(uuid.New(), TaskTypeContentGeneration, payload)
		recovered.ExecuteFn = nil

		rehydrated, err := handler.RehydrateTask(recovered)
		require.NoError(t, err)

		// Identity is preserved; only the execution function is rebuilt.
		assert.Equal(t, recovered.ID(), rehydrated.ID())
		require.NoError(t, rehydrated.Execute(context.Background()))
		assert.True(t, executed)
		assert.Equal(t, contentID, factory.contentID)
	})

	t.Run("fails when no factory is registered", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newHandlerWithRunner(t)

		payload, _ := json.Marshal(generationPayload{ContentID: uuid.New()})
		recovered := NewMockTask(uuid.New(), "unknown_type", payload)

		_, err := handler.RehydrateTask(recovered)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no factory registered")
	})

	t.Run("fails on corrupt payloads", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newHandlerWithRunner(t)
		handler.RegisterFactory(TaskTypeContentGeneration, &fakeFactory{})

		recovered := NewMockTask(uuid.New(), TaskTypeContentGeneration, []byte("{"))

		_, err := handler.RehydrateTask(recovered)
		assert.Error(t, err)
	})
}
