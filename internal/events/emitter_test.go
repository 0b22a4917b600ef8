package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*TaskRequestEvent
	err    error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *TaskRequestEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func testEmitter() *InMemoryEventEmitter {
	return NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNewTaskRequestEvent(t *testing.T) {
	t.Parallel()

	contentID := uuid.New()
	event, err := NewTaskRequestEvent("content_generation", struct {
		ContentID uuid.UUID `json:"content_id"`
	}{contentID})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "content_generation", event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var payload struct {
		ContentID uuid.UUID `json:"content_id"`
	}
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, contentID, payload.ContentID)
}

func TestInMemoryEventEmitter_EmitEvent(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all handlers", func(t *testing.T) {
		t.Parallel()

		emitter := testEmitter()
		first := &recordingHandler{}
		second := &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event, err := NewTaskRequestEvent("content_generation", map[string]string{"content_id": uuid.NewString()})
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Len(t, first.events, 1)
		assert.Len(t, second.events, 1)
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()

		emitter := testEmitter()
		event, err := NewTaskRequestEvent("content_generation", nil)
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("handler failure does not stop delivery", func(t *testing.T) {
		t.Parallel()

		emitter := testEmitter()
		failing := &recordingHandler{err: errors.New("handler down")}
		healthy := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(healthy)

		event, err := NewTaskRequestEvent("content_generation", nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorContains(t, err, "handler down")
		assert.Len(t, healthy.events, 1)
	})
}
