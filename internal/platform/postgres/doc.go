// Package postgres provides PostgreSQL implementations of the store
// interfaces, using database/sql with the pgx driver. Task mutations are
// single statements guarded by the owner ID; when a guarded statement
// matches nothing, the task is looked up in the same transaction to tell a
// missing task from one owned by another user.
package postgres
