//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/tasklist/internal/ciutil"
	"github.com/phrazzld/tasklist/internal/platform/migrations"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds each setup or teardown statement.
const TestTimeout = 5 * time.Second

// DatabaseURLEnv names the variable holding the test database URL.
const DatabaseURLEnv = ciutil.EnvTestDatabaseURL

// GetTestDatabaseURL returns the database URL for tests, or "" when unset.
func GetTestDatabaseURL() string {
	return ciutil.GetTestDatabaseURL(nil)
}

// GetTestDBWithT returns a migrated connection pool closed at test cleanup.
// Without a configured database the test is skipped locally and fails in CI.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL, err := ciutil.RequireTestDatabaseURL(nil)
	require.NoError(t, err)
	if dbURL == "" {
		t.Skip(DatabaseURLEnv + " not set")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "open test database")
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "ping test database")
	require.NoError(t, migrations.Run(ctx, db, "up", nil), "migrate test database")

	return db
}

// ResetTables empties users and tasks and restarts their id sequences.
func ResetTables(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, "TRUNCATE TABLE tasks, users RESTART IDENTITY CASCADE")
	require.NoError(t, err, "truncate tables")
}

// WithTx runs fn inside a transaction that is always rolled back, so the
// test leaves no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin test transaction")
	t.Cleanup(func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("rollback test transaction: %v", err)
		}
	})

	fn(t, tx)
}
