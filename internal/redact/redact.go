// Package redact scrubs sensitive values from strings before they are logged.
// It covers the secrets this application handles: passwords and their bcrypt
// hashes, session cookies and signed session tokens, database connection
// strings, and SQL fragments carried in driver errors.
package redact

import (
	"regexp"
	"sync"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedHashPlaceholder       = "[REDACTED_HASH]"
	RedactedSessionPlaceholder    = "[REDACTED_SESSION]"
)

// DefaultSessionCookieName is scrubbed until SetSessionCookieName is called.
const DefaultSessionCookieName = "tasklist_session"

type rule struct {
	re          *regexp.Regexp
	replacement string
}

var (
	dbConnRegex   = regexp.MustCompile(`(?i)(postgres|postgresql|pgx|database)://[^@\s]+@`)
	bcryptRegex   = regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`)
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)
	secretRegex   = regexp.MustCompile(
		`(?i)(secret[_-]?key|session[_-]?secret|secret|token)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)
	unixPathRegex   = regexp.MustCompile(`(/[\w.-]+){2,}`)
	stackTraceRegex = regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`)
	sqlRegex        = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP|TRUNCATE)[\s\w,*()$=]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()$='"]+)?`,
	)
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	mu    sync.RWMutex
	rules = buildRules(DefaultSessionCookieName)
)

func buildRules(cookieName string) []rule {
	cookieRegex := regexp.MustCompile(`(` + regexp.QuoteMeta(cookieName) + `)=[^;\s"]+`)

	// Order matters: hashes and tokens contain characters the path and host
	// patterns would otherwise match first.
	return []rule{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{bcryptRegex, RedactedHashPlaceholder},
		{cookieRegex, "${1}=" + RedactedSessionPlaceholder},
		{jwtTokenRegex, "[REDACTED_JWT]"},
		{passwordRegex, RedactedCredentialPlaceholder},
		{secretRegex, RedactedKeyPlaceholder},
		{stackTraceRegex, "[STACK_TRACE_REDACTED]"},
		{sqlRegex, "[REDACTED_SQL]"},
		{unixPathRegex, RedactedPathPlaceholder},
		{hostPortRegex, "[REDACTED_HOST]"},
	}
}

// SetSessionCookieName makes String scrub cookies with the given name
// instead of DefaultSessionCookieName.
func SetSessionCookieName(name string) {
	if name == "" {
		return
	}
	r := buildRules(name)

	mu.Lock()
	defer mu.Unlock()
	rules = r
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	mu.RLock()
	defer mu.RUnlock()

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
