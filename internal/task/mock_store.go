package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studio-api/internal/store"
)

// MockTaskStore implements the TaskStore interface for testing
type MockTaskStore struct {
	mutex           sync.RWMutex
	tasks           map[uuid.UUID]Task
	taskStatusTimes map[uuid.UUID]time.Time
	errorMessages   map[uuid.UUID]string
	SaveFn          func(ctx context.Context, task Task) error
	UpdateStatusFn  func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error
}

// NewMockTaskStore creates a new MockTaskStore with default implementations
func NewMockTaskStore() *MockTaskStore {
	s := &MockTaskStore{
		tasks:           make(map[uuid.UUID]Task),
		taskStatusTimes: make(map[uuid.UUID]time.Time),
		errorMessages:   make(map[uuid.UUID]string),
	}

	s.SaveFn = func(ctx context.Context, task Task) error {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		mockTask, ok := task.(*MockTask)
		if !ok {
			mockTask = NewMockTask(task.ID(), task.Type(), task.Payload())
			mockTask.TaskStatus = task.Status()
		}

		s.tasks[task.ID()] = mockTask
		s.taskStatusTimes[task.ID()] = time.Now()
		return nil
	}

	s.UpdateStatusFn = func(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		task, exists := s.tasks[taskID]
		if !exists {
			return nil
		}

		mockTask := task.(*MockTask)
		mockTask.TaskStatus = status
		s.tasks[taskID] = mockTask
		s.taskStatusTimes[taskID] = time.Now()
		s.errorMessages[taskID] = errorMsg
		return nil
	}

	return s
}

// SaveTask persists a task to the mock store
func (s *MockTaskStore) SaveTask(ctx context.Context, task Task) error {
	return s.SaveFn(ctx, task)
}

// UpdateTaskStatus updates the status of a task in the mock store
func (s *MockTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, taskID, status, errorMsg)
}

// GetPendingTasks retrieves all tasks with "pending" status
func (s *MockTaskStore) GetPendingTasks(ctx context.Context) ([]Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var pending []Task
	for _, task := range s.tasks {
		if task.Status() == TaskStatusPending {
			pending = append(pending, task)
		}
	}
	return pending, nil
}

// GetProcessingTasks retrieves tasks with "processing" status, optionally
// filtered to those older than the given duration
func (s *MockTaskStore) GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	cutoff := time.Now().Add(-olderThan)

	var processing []Task
	for id, task := range s.tasks {
		if task.Status() != TaskStatusProcessing {
			continue
		}
		if olderThan > 0 && s.taskStatusTimes[id].After(cutoff) {
			continue
		}
		processing = append(processing, task)
	}
	return processing, nil
}

// WithTx returns the same store; the mock has no transaction semantics
func (s *MockTaskStore) WithTx(tx store.DBTX) TaskStore {
	return s
}

// GetTaskStatus reports the stored status for a task, for assertions
func (s *MockTaskStore) GetTaskStatus(taskID uuid.UUID) (TaskStatus, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return "", false
	}
	return task.Status(), true
}

// GetErrorMessage reports the last error message recorded for a task
func (s *MockTaskStore) GetErrorMessage(taskID uuid.UUID) string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.errorMessages[taskID]
}

// Ensure MockTaskStore implements TaskStore
var _ TaskStore = (*MockTaskStore)(nil)
