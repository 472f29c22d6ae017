package mocks

import (
	"context"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type MockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByOwner is a mock implementation of store.TaskStore.ListByOwner
func (m *MockTaskStore) ListByOwner(ctx context.Context, ownerID int64, filter store.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID, filter)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateTitle is a mock implementation of store.TaskStore.UpdateTitle
func (m *MockTaskStore) UpdateTitle(ctx context.Context, id, requesterID int64, title string) error {
	args := m.Called(ctx, id, requesterID, title)
	return args.Error(0)
}

// MarkPostponed is a mock implementation of store.TaskStore.MarkPostponed
func (m *MockTaskStore) MarkPostponed(ctx context.Context, id, requesterID int64) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

// MarkCompleted is a mock implementation of store.TaskStore.MarkCompleted
func (m *MockTaskStore) MarkCompleted(ctx context.Context, id, requesterID int64) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, id, requesterID int64) error {
	args := m.Called(ctx, id, requesterID)
	return args.Error(0)
}
