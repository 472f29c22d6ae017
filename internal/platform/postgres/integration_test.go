//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/postgres"
	"github.com/phrazzld/tasklist/internal/store"
	"github.com/phrazzld/tasklist/internal/testdb"
	"github.com/phrazzld/tasklist/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresUserStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)

		alice := &domain.User{Username: "integration-alice", PasswordHash: testPasswordHashText}
		require.NoError(t, users.Create(ctx, alice))
		assert.Positive(t, alice.ID)

		got, err := users.GetByUsername(ctx, "integration-alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		err = users.Create(ctx, &domain.User{Username: "integration-alice", PasswordHash: testPasswordHashText})
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})
}

func TestPostgresTaskStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	testdb.ResetTables(t, db)
	t.Cleanup(func() { testdb.ResetTables(t, db) })

	ctx := context.Background()
	users := postgres.NewPostgresUserStore(db, nil)
	tasks := postgres.NewPostgresTaskStore(db, nil)

	owner := testutils.MustInsertUser(ctx, t, users, "owner")
	other := testutils.MustInsertUser(ctx, t, users, "other")

	first := testutils.MustInsertTask(ctx, t, tasks, owner.ID, "first")
	second := testutils.MustInsertTask(ctx, t, tasks, owner.ID, "second")
	foreign := testutils.MustInsertTask(ctx, t, tasks, other.ID, "foreign")

	t.Run("list is scoped and ordered", func(t *testing.T) {
		list, err := tasks.ListByOwner(ctx, owner.ID, store.TaskFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, first.ID, list[0].ID)
		assert.Equal(t, second.ID, list[1].ID)
	})

	t.Run("unknown owner is rejected", func(t *testing.T) {
		err := tasks.Create(ctx, &domain.Task{Title: "orphan", OwnerID: other.ID + 1000})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("forbidden mutations leave the row unchanged", func(t *testing.T) {
		assert.ErrorIs(t, tasks.MarkCompleted(ctx, foreign.ID, owner.ID), store.ErrTaskNotOwned)
		assert.ErrorIs(t, tasks.UpdateTitle(ctx, foreign.ID, owner.ID, "hijacked"), store.ErrTaskNotOwned)
		assert.ErrorIs(t, tasks.Delete(ctx, foreign.ID, owner.ID), store.ErrTaskNotOwned)

		testutils.AssertTaskUnchanged(ctx, t, tasks, foreign)
	})

	t.Run("postpone and complete are idempotent", func(t *testing.T) {
		require.NoError(t, tasks.MarkPostponed(ctx, first.ID, owner.ID))
		require.NoError(t, tasks.MarkPostponed(ctx, first.ID, owner.ID))
		require.NoError(t, tasks.MarkCompleted(ctx, second.ID, owner.ID))
		require.NoError(t, tasks.MarkCompleted(ctx, second.ID, owner.ID))

		postponed, err := tasks.ListByOwner(ctx, owner.ID, store.OnlyPostponed())
		require.NoError(t, err)
		require.Len(t, postponed, 1)
		assert.Equal(t, first.ID, postponed[0].ID)

		completed, err := tasks.ListByOwner(ctx, owner.ID, store.OnlyCompleted())
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, second.ID, completed[0].ID)
	})

	t.Run("concurrent deletes succeed exactly once", func(t *testing.T) {
		victim := testutils.MustInsertTask(ctx, t, tasks, owner.ID, "victim")

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = tasks.Delete(ctx, victim.ID, owner.ID)
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, store.ErrTaskNotFound)
		}
		assert.Equal(t, 1, successes)
	})

	t.Run("missing task", func(t *testing.T) {
		assert.ErrorIs(t, tasks.Delete(ctx, 1_000_000, owner.ID), store.ErrTaskNotFound)
		_, err := tasks.GetByID(ctx, 1_000_000)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, tasks.Ping(ctx))
	})
}
