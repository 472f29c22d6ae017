// Package testdb provides helpers for tests that run against a real
// PostgreSQL database. Tests using it carry the integration build tag and
// are skipped when TASKLIST_TEST_DATABASE_URL is not set.
package testdb
