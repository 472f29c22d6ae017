package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/redact"
)

// ResponseOption adjusts how LogErrorResponse records a failure.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevated bool
}

// WithElevatedLogLevel logs a 4xx at WARN instead of DEBUG. Used for
// rejections worth noticing, like touching another user's task.
func WithElevatedLogLevel() ResponseOption {
	return func(o *responseOptions) { o.elevated = true }
}

// RespondWithJSON writes data as a JSON body with the given status.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", redact.Error(err)))
	}
}

// RedirectSeeOther sends a 303 so the browser follows up with a GET.
func RedirectSeeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// LogErrorResponse records the error behind a response whose body only
// carries userMessage. 5xx logs at ERROR, other statuses at DEBUG unless
// elevated.
func LogErrorResponse(r *http.Request, status int, userMessage string, err error, opts ...ResponseOption) {
	var o responseOptions
	for _, opt := range opts {
		opt(&o)
	}

	attrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	ctx := r.Context()
	logger.FromContext(ctx).LogAttrs(ctx, errorLevel(status, o.elevated), "error response", attrs...)
}

func errorLevel(status int, elevated bool) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case elevated && status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}
