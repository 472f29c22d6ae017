// Package ciutil detects CI environments and resolves the settings the
// integration tests read from the environment.
//
// Integration tests skip when no test database is configured locally, but
// fail in CI so a misconfigured pipeline cannot pass silently.
package ciutil
