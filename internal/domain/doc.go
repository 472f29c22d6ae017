// Package domain contains the core business entities of the task list:
// users, their tasks, and the identity bound to an authenticated session.
// It is independent of any storage or delivery mechanism.
package domain
