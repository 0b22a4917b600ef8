package task

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// MockTask is a simple implementation of the Task interface for testing
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskPayload []byte
	TaskStatus  TaskStatus
	ExecuteFn   func(ctx context.Context) error
}

// NewMockTask creates a new MockTask with the given ID and type
func NewMockTask(id uuid.UUID, taskType string, payload []byte) *MockTask {
	return &MockTask{
		TaskID:      id,
		TaskType:    taskType,
		TaskPayload: payload,
		TaskStatus:  TaskStatusPending,
		ExecuteFn:   func(ctx context.Context) error { return nil },
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Payload returns the task data as a byte slice
func (t *MockTask) Payload() []byte {
	return t.TaskPayload
}

// Status returns the current task status
func (t *MockTask) Status() TaskStatus {
	return t.TaskStatus
}

// Execute runs the task logic
func (t *MockTask) Execute(ctx context.Context) error {
	return t.ExecuteFn(ctx)
}

// SetExecuteFn replaces the execution function, mirroring what a task
// loaded from the database exposes for rehydration.
func (t *MockTask) SetExecuteFn(fn func(ctx context.Context) error) {
	t.ExecuteFn = fn
}

// CreateMockGenerationTask builds a MockTask whose payload carries a
// content ID, matching the shape the generation tasks persist.
func CreateMockGenerationTask(taskType string, contentID uuid.UUID) *MockTask {
	payload, _ := json.Marshal(generationPayload{ContentID: contentID})
	return NewMockTask(uuid.New(), taskType, payload)
}
