package store

import (
	"context"

	"github.com/phrazzld/tasklist/internal/domain"
)

// TaskFilter narrows a ListByOwner query. Nil fields do not filter.
type TaskFilter struct {
	Completed *bool
	Postponed *bool
}

// OnlyCompleted returns a filter matching completed tasks.
func OnlyCompleted() TaskFilter {
	v := true
	return TaskFilter{Completed: &v}
}

// OnlyPostponed returns a filter matching postponed tasks.
func OnlyPostponed() TaskFilter {
	v := true
	return TaskFilter{Postponed: &v}
}

// Matches reports whether task passes the filter.
func (f TaskFilter) Matches(task *domain.Task) bool {
	if f.Completed != nil && task.Completed != *f.Completed {
		return false
	}
	if f.Postponed != nil && task.Postponed != *f.Postponed {
		return false
	}
	return true
}

// TaskStore defines the interface for task persistence.
//
// Mutating methods take the requester's user ID. Implementations must apply
// the change only when the requester owns the task, and report
// ErrTaskNotFound when the task does not exist or ErrTaskNotOwned when it
// belongs to someone else. A rejected call leaves the task unchanged.
type TaskStore interface {
	// Create saves a new task and assigns task.ID.
	// Returns ErrUserNotFound if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID regardless of owner.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ListByOwner returns the owner's tasks in insertion order.
	ListByOwner(ctx context.Context, ownerID int64, filter TaskFilter) ([]*domain.Task, error)

	// UpdateTitle replaces the task title.
	UpdateTitle(ctx context.Context, id, requesterID int64, title string) error

	// MarkPostponed sets postponed=true. Re-marking is a no-op.
	MarkPostponed(ctx context.Context, id, requesterID int64) error

	// MarkCompleted sets completed=true. Re-marking is a no-op.
	MarkCompleted(ctx context.Context, id, requesterID int64) error

	// Delete removes the task.
	Delete(ctx context.Context, id, requesterID int64) error
}
