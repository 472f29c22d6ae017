// Package memory provides in-process implementations of the store
// interfaces. They back the "memory" database driver and the HTTP tests,
// and keep the same error contract as the PostgreSQL stores.
package memory
