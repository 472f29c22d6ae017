// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Every task mutation takes the requesting
// user's ID so implementations can enforce ownership in the same statement
// that applies the change.
package store
