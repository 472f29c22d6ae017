package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/store"
)

// TaskService manages tasks on behalf of an authenticated user.
//
// Every mutation takes the requester's user ID. A mutation is applied only
// when the requester owns the task; otherwise it fails with ErrTaskNotFound
// or ErrForbidden and the task is left unchanged.
type TaskService interface {
	// Create adds a pending task owned by ownerID and returns its ID.
	Create(ctx context.Context, ownerID int64, title string) (int64, error)

	// ListByOwner returns the owner's tasks in insertion order.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// ListCompleted returns the owner's completed tasks.
	ListCompleted(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// ListPostponed returns the owner's postponed tasks.
	ListPostponed(ctx context.Context, ownerID int64) ([]*domain.Task, error)

	// Get returns a task regardless of owner.
	Get(ctx context.Context, taskID int64) (*domain.Task, error)

	// GetOwned returns a task only if requesterID owns it.
	GetOwned(ctx context.Context, taskID, requesterID int64) (*domain.Task, error)

	// UpdateTitle replaces the title of an owned task.
	UpdateTitle(ctx context.Context, taskID int64, title string, requesterID int64) error

	// MarkPostponed sets postponed=true on an owned task. Idempotent.
	MarkPostponed(ctx context.Context, taskID, requesterID int64) error

	// MarkCompleted sets completed=true on an owned task. Idempotent.
	MarkCompleted(ctx context.Context, taskID, requesterID int64) error

	// Delete removes an owned task.
	Delete(ctx context.Context, taskID, requesterID int64) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) (*TaskServiceImpl, error) {
	if taskStore == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create adds a task for ownerID.
func (s *TaskServiceImpl) Create(ctx context.Context, ownerID int64, title string) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, title)
	if err != nil {
		return 0, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return 0, NewServiceError("task", "create", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", ownerID))
	return task.ID, nil
}

// ListByOwner returns all of ownerID's tasks.
func (s *TaskServiceImpl) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return s.list(ctx, "list", ownerID, store.TaskFilter{})
}

// ListCompleted returns ownerID's completed tasks.
func (s *TaskServiceImpl) ListCompleted(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return s.list(ctx, "list_completed", ownerID, store.OnlyCompleted())
}

// ListPostponed returns ownerID's postponed tasks.
func (s *TaskServiceImpl) ListPostponed(ctx context.Context, ownerID int64) ([]*domain.Task, error) {
	return s.list(ctx, "list_postponed", ownerID, store.OnlyPostponed())
}

func (s *TaskServiceImpl) list(
	ctx context.Context,
	operation string,
	ownerID int64,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, NewServiceError("task", operation, "failed to list tasks", err)
	}
	return tasks, nil
}

// Get returns a task by ID.
func (s *TaskServiceImpl) Get(ctx context.Context, taskID int64) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, NewServiceError("task", "get", "task not found", err)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, NewServiceError("task", "get", "failed to retrieve task", err)
	}
	return task, nil
}

// GetOwned returns a task only when requesterID owns it.
func (s *TaskServiceImpl) GetOwned(ctx context.Context, taskID, requesterID int64) (*domain.Task, error) {
	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsOwnedBy(requesterID) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("attempted to read task owned by another user",
			slog.Int64("task_id", taskID),
			slog.Int64("user_id", requesterID))
		return nil, NewServiceError("task", "get", "task owned by another user", ErrForbidden)
	}
	return task, nil
}

// UpdateTitle validates and stores a new title.
func (s *TaskServiceImpl) UpdateTitle(ctx context.Context, taskID int64, title string, requesterID int64) error {
	title = strings.TrimSpace(title)
	if err := domain.ValidateTitle(title); err != nil {
		return err
	}
	return s.mutate(ctx, "update_title", taskID, requesterID, func() error {
		return s.taskStore.UpdateTitle(ctx, taskID, requesterID, title)
	})
}

// MarkPostponed flags the task as postponed.
func (s *TaskServiceImpl) MarkPostponed(ctx context.Context, taskID, requesterID int64) error {
	return s.mutate(ctx, "postpone", taskID, requesterID, func() error {
		return s.taskStore.MarkPostponed(ctx, taskID, requesterID)
	})
}

// MarkCompleted flags the task as completed.
func (s *TaskServiceImpl) MarkCompleted(ctx context.Context, taskID, requesterID int64) error {
	return s.mutate(ctx, "complete", taskID, requesterID, func() error {
		return s.taskStore.MarkCompleted(ctx, taskID, requesterID)
	})
}

// Delete removes the task.
func (s *TaskServiceImpl) Delete(ctx context.Context, taskID, requesterID int64) error {
	return s.mutate(ctx, "delete", taskID, requesterID, func() error {
		return s.taskStore.Delete(ctx, taskID, requesterID)
	})
}

func (s *TaskServiceImpl) mutate(ctx context.Context, operation string, taskID, requesterID int64, fn func() error) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", operation),
		slog.Int64("task_id", taskID),
		slog.Int64("user_id", requesterID),
	)

	err := fn()
	switch {
	case err == nil:
		log.Info("task updated")
		return nil
	case errors.Is(err, store.ErrTaskNotFound):
		log.Debug("task not found")
		return NewServiceError("task", operation, "task not found", err)
	case errors.Is(err, store.ErrTaskNotOwned):
		log.Warn("rejected change to task owned by another user")
		return NewServiceError("task", operation, "task owned by another user", err)
	default:
		log.Error("failed to update task", slog.String("error", err.Error()))
		return NewServiceError("task", operation, "failed to update task", err)
	}
}
