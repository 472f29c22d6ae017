package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It needs a *sql.DB rather than a DBTX because ownership checks open their own transaction.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements the store interfaces
var (
	_ store.TaskStore = (*PostgresTaskStore)(nil)
	_ store.Pinger    = (*PostgresTaskStore)(nil)
)

// Ping implements store.Pinger.
func (s *PostgresTaskStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO tasks (title, postponed, completed, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Postponed,
		task.Completed,
		task.OwnerID,
	).Scan(&task.ID)
	if IsForeignKeyViolation(err) {
		log.Warn("task owner does not exist", slog.Int64("user_id", task.OwnerID))
		return store.NewStoreError("task", "create", "owner does not exist", store.ErrUserNotFound)
	}
	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.OwnerID))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task inserted",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.OwnerID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `
		SELECT id, title, postponed, completed, user_id
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Postponed,
		&task.Completed,
		&task.OwnerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}

	return &task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner
func (s *PostgresTaskStore) ListByOwner(
	ctx context.Context,
	ownerID int64,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListQuery(ownerID, filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Postponed,
			&task.Completed,
			&task.OwnerID,
		); err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", MapError(err))
	}

	return tasks, nil
}

// buildListQuery assembles the owner-scoped list query. The owner
// condition is always present.
func buildListQuery(ownerID int64, filter store.TaskFilter) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT id, title, postponed, completed, user_id FROM tasks WHERE user_id = $1")

	args := []any{ownerID}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		fmt.Fprintf(&b, " AND completed = $%d", len(args))
	}
	if filter.Postponed != nil {
		args = append(args, *filter.Postponed)
		fmt.Fprintf(&b, " AND postponed = $%d", len(args))
	}
	b.WriteString(" ORDER BY id")

	return b.String(), args
}

// UpdateTitle implements store.TaskStore.UpdateTitle
func (s *PostgresTaskStore) UpdateTitle(ctx context.Context, id, requesterID int64, title string) error {
	return s.mutate(ctx, "update_title", id, requesterID,
		`UPDATE tasks SET title = $3 WHERE id = $1 AND user_id = $2`,
		title,
	)
}

// MarkPostponed implements store.TaskStore.MarkPostponed
func (s *PostgresTaskStore) MarkPostponed(ctx context.Context, id, requesterID int64) error {
	return s.mutate(ctx, "postpone", id, requesterID,
		`UPDATE tasks SET postponed = TRUE WHERE id = $1 AND user_id = $2`,
	)
}

// MarkCompleted implements store.TaskStore.MarkCompleted
func (s *PostgresTaskStore) MarkCompleted(ctx context.Context, id, requesterID int64) error {
	return s.mutate(ctx, "complete", id, requesterID,
		`UPDATE tasks SET completed = TRUE WHERE id = $1 AND user_id = $2`,
	)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id, requesterID int64) error {
	return s.mutate(ctx, "delete", id, requesterID,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
	)
}

// mutate runs an owner-guarded statement whose first two parameters are
// the task ID and the requester ID. If nothing matched, the task's owner
// is read in the same transaction to choose between ErrTaskNotFound and
// ErrTaskNotOwned.
func (s *PostgresTaskStore) mutate(
	ctx context.Context,
	operation string,
	id, requesterID int64,
	query string,
	extra ...any,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", operation),
		slog.Int64("task_id", id),
		slog.Int64("user_id", requesterID),
	)

	args := append([]any{id, requesterID}, extra...)

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error("failed to execute task mutation", slog.String("error", err.Error()))
			return store.NewStoreError("task", operation, "failed to execute statement", MapError(err))
		}

		n, err := RowsAffected(result)
		if err != nil {
			return store.NewStoreError("task", operation, "failed to read result", err)
		}
		if n > 0 {
			log.Debug("task mutation applied")
			return nil
		}

		var ownerID int64
		err = tx.QueryRowContext(ctx, `SELECT user_id FROM tasks WHERE id = $1`, id).Scan(&ownerID)
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found")
			return store.ErrTaskNotFound
		}
		if err != nil {
			log.Error("failed to classify task mutation", slog.String("error", err.Error()))
			return store.NewStoreError("task", operation, "failed to look up task owner", MapError(err))
		}

		log.Warn("rejected mutation of task owned by another user",
			slog.Int64("owner_id", ownerID))
		return store.ErrTaskNotOwned
	})
}
