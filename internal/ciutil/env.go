package ciutil

import (
	"log/slog"
	"os"
	"slices"

	"github.com/phrazzld/tasklist/internal/redact"
)

// Variables set by the CI providers we know about.
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"
)

// Test database URL, newest name first.
const (
	EnvTestDatabaseURL       = "TASKLIST_TEST_DATABASE_URL"
	EnvLegacyTestDatabaseURL = "TEST_DATABASE_URL"
)

var ciMarkers = []string{EnvCI, EnvGitHubActions, EnvGitLabCI, EnvJenkinsURL, EnvCircleCI}

// IsCI reports whether any known CI marker variable is set.
func IsCI() bool {
	return slices.ContainsFunc(ciMarkers, func(name string) bool {
		return os.Getenv(name) != ""
	})
}

// GetEnvWithFallbacks returns the first non-empty variable in names, or
// defaultValue. Falling through to anything but names[0] is logged.
func GetEnvWithFallbacks(names []string, defaultValue string, logger *slog.Logger) string {
	idx := slices.IndexFunc(names, func(name string) bool {
		return os.Getenv(name) != ""
	})
	if idx < 0 {
		return defaultValue
	}

	val := os.Getenv(names[idx])
	if idx > 0 && logger != nil {
		logger.Warn("using legacy environment variable",
			slog.String("used_var", names[idx]),
			slog.String("preferred_var", names[0]),
			slog.String("value", MaskSensitiveValue(val)))
	}
	return val
}

// MaskSensitiveValue strips credentials from values such as database URLs.
func MaskSensitiveValue(value string) string {
	return redact.String(value)
}
