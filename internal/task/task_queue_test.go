package task

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQueueLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTaskQueue_EnqueueAndConsume(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(2, testQueueLogger())

	task := NewMockTask(uuid.New(), "mock_task", nil)
	require.NoError(t, queue.Enqueue(task))

	received := <-queue.GetChannel()
	assert.Equal(t, task.ID(), received.ID())
}

func TestTaskQueue_Full(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(1, testQueueLogger())

	require.NoError(t, queue.Enqueue(NewMockTask(uuid.New(), "mock_task", nil)))

	err := queue.Enqueue(NewMockTask(uuid.New(), "mock_task", nil))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestTaskQueue_Closed(t *testing.T) {
	t.Parallel()

	queue := NewTaskQueue(1, testQueueLogger())
	queue.Close()

	err := queue.Enqueue(NewMockTask(uuid.New(), "mock_task", nil))
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Closing twice is a no-op.
	queue.Close()
}
