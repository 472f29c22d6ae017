package testutils

import (
	"context"
	"testing"

	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPasswordHash is a well-formed bcrypt hash (cost 4) of "password".
// Stores only persist it; nothing compares against it.
const TestPasswordHash = "$2a$04$KNb5G7pV7q8S2yqvYVxg0eR1Fh3vFZK8zOaS6r0Q3zvJ1a7lB2c1y"

// MustInsertUser stores a user with TestPasswordHash and returns it with
// its assigned ID.
func MustInsertUser(ctx context.Context, t *testing.T, users store.UserStore, username string) *domain.User {
	t.Helper()

	user := &domain.User{Username: username, PasswordHash: TestPasswordHash}
	require.NoError(t, users.Create(ctx, user), "Failed to insert test user")
	require.Positive(t, user.ID)
	return user
}

// MustInsertTask stores a pending task and returns it with its assigned ID.
func MustInsertTask(ctx context.Context, t *testing.T, tasks store.TaskStore, ownerID int64, title string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title)
	require.NoError(t, err, "Failed to build test task")
	require.NoError(t, tasks.Create(ctx, task), "Failed to insert test task")
	require.Positive(t, task.ID)
	return task
}

// AssertTaskUnchanged fails the test if the stored task differs from want.
func AssertTaskUnchanged(ctx context.Context, t *testing.T, tasks store.TaskStore, want *domain.Task) {
	t.Helper()

	got, err := tasks.GetByID(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
