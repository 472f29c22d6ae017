// Package testutils provides store-agnostic fixtures shared by the memory
// and Postgres store tests.
package testutils
