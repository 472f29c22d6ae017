package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

// ContextKey namespaces request-scoped values set by this package.
type ContextKey string

const (
	IdentityContextKey     ContextKey = "identity"
	SessionTokenContextKey ContextKey = "sessionToken"
	TraceIDKey             ContextKey = "traceID"

	// TraceIDLength is the trace ID size in bytes; it is hex encoded.
	TraceIDLength = 16
)

// SetTraceID adds a trace ID to the context. The same ID is attached to
// every logger obtained through logger.FromContextOrDefault.
func SetTraceID(ctx context.Context) context.Context {
	traceID := generateTraceID()
	ctx = context.WithValue(ctx, TraceIDKey, traceID)
	return logger.WithRequestID(ctx, traceID)
}

// GetTraceID returns the request's trace ID, or "" outside a traced request.
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}

// WithIdentity stores the authenticated identity and its session token.
func WithIdentity(ctx context.Context, identity domain.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, IdentityContextKey, identity)
	return context.WithValue(ctx, SessionTokenContextKey, token)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(domain.Identity)
	if !ok || identity.IsZero() {
		return domain.Identity{}, false
	}
	return identity, true
}

// SessionTokenFromContext returns the session cookie value of an
// authenticated request.
func SessionTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(SessionTokenContextKey).(string)
	return token
}

// generateTraceID returns a random 128-bit ID as 32 hex characters. When
// the random source fails it falls back to a clock-derived ID.
func generateTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Error("trace id generation failed, using clock fallback",
			slog.String("error", err.Error()))
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(id[:])
}

func generateFallbackTraceID() string {
	var b [TraceIDLength]byte
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint64(b[8:], uint64(os.Getpid())<<32|uint64(fallbackSeq.Add(1)))
	return hex.EncodeToString(b[:])
}

var fallbackSeq atomic.Uint32
