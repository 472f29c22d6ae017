package ciutil

import (
	"fmt"
	"log/slog"
)

// ErrNoTestDatabase is returned by RequireTestDatabaseURL in CI when no
// test database is configured.
var ErrNoTestDatabase = fmt.Errorf("%s must be set in CI", EnvTestDatabaseURL)

// GetTestDatabaseURL returns the database URL integration tests should use.
// It checks TASKLIST_TEST_DATABASE_URL, then the legacy TEST_DATABASE_URL.
// The application's own DATABASE_URL is never used: the tests truncate tables.
func GetTestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks(
		[]string{EnvTestDatabaseURL, EnvLegacyTestDatabaseURL},
		"",
		logger,
	)
}

// RequireTestDatabaseURL is GetTestDatabaseURL with the CI policy applied:
// an empty URL is an error in CI and a skip (empty, nil) elsewhere.
func RequireTestDatabaseURL(logger *slog.Logger) (string, error) {
	dbURL := GetTestDatabaseURL(logger)
	if dbURL == "" && IsCI() {
		return "", ErrNoTestDatabase
	}
	return dbURL, nil
}
