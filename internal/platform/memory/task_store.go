package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/store"
)

// TaskStore is an in-memory store.TaskStore. Owner references are checked
// against the UserStore it was created with.
type TaskStore struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]domain.Task
	users  *UserStore
	logger *slog.Logger
}

var (
	_ store.TaskStore = (*TaskStore)(nil)
	_ store.Pinger    = (*TaskStore)(nil)
)

// NewTaskStore creates an empty TaskStore.
func NewTaskStore(users *UserStore, logger *slog.Logger) *TaskStore {
	if users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("users cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		tasks:  make(map[int64]domain.Task),
		users:  users,
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// Ping implements store.Pinger.
func (s *TaskStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.users.exists(task.OwnerID) {
		return store.NewStoreError("task", "create", "owner does not exist",
			fmt.Errorf("%w: user %d", store.ErrUserNotFound, task.OwnerID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	task.ID = s.nextID
	s.tasks[task.ID] = *task

	s.logger.Debug("task inserted", slog.Int64("task_id", task.ID), slog.Int64("user_id", task.OwnerID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// ListByOwner implements store.TaskStore.ListByOwner
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int64, filter store.TaskFilter) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.OwnerID != ownerID || !filter.Matches(&t) {
			continue
		}
		task := t
		out = append(out, &task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateTitle implements store.TaskStore.UpdateTitle
func (s *TaskStore) UpdateTitle(ctx context.Context, id, requesterID int64, title string) error {
	return s.mutate(ctx, id, requesterID, func(t *domain.Task) bool {
		t.Title = title
		return true
	})
}

// MarkPostponed implements store.TaskStore.MarkPostponed
func (s *TaskStore) MarkPostponed(ctx context.Context, id, requesterID int64) error {
	return s.mutate(ctx, id, requesterID, func(t *domain.Task) bool {
		t.Postponed = true
		return true
	})
}

// MarkCompleted implements store.TaskStore.MarkCompleted
func (s *TaskStore) MarkCompleted(ctx context.Context, id, requesterID int64) error {
	return s.mutate(ctx, id, requesterID, func(t *domain.Task) bool {
		t.Completed = true
		return true
	})
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id, requesterID int64) error {
	return s.mutate(ctx, id, requesterID, func(*domain.Task) bool {
		return false
	})
}

// mutate applies fn to the task under the write lock once ownership is
// confirmed. fn returns false to remove the task.
func (s *TaskStore) mutate(ctx context.Context, id, requesterID int64, fn func(*domain.Task) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if !t.IsOwnedBy(requesterID) {
		s.logger.Warn("rejected mutation of task owned by another user",
			slog.Int64("task_id", id),
			slog.Int64("user_id", requesterID),
			slog.Int64("owner_id", t.OwnerID))
		return store.ErrTaskNotOwned
	}

	if fn(&t) {
		s.tasks[id] = t
	} else {
		delete(s.tasks, id)
	}
	return nil
}
