package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasklist/internal/api/shared"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "tasklist_session"

type stubResolver struct {
	sessions map[string]domain.Identity
	calls    int
}

func (s *stubResolver) Resolve(_ context.Context, token string) (domain.Identity, bool) {
	s.calls++
	identity, ok := s.sessions[token]
	return identity, ok
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	ana := domain.Identity{UserID: 7, Username: "ana"}

	tests := []struct {
		name             string
		cookie           *http.Cookie
		expectedStatus   int
		expectedIdentity domain.Identity
		expectResolve    bool
	}{
		{
			name:             "valid session",
			cookie:           &http.Cookie{Name: testCookieName, Value: "good"},
			expectedStatus:   http.StatusOK,
			expectedIdentity: ana,
			expectResolve:    true,
		},
		{
			name:           "missing cookie",
			expectedStatus: http.StatusSeeOther,
		},
		{
			name:           "empty cookie",
			cookie:         &http.Cookie{Name: testCookieName, Value: ""},
			expectedStatus: http.StatusSeeOther,
		},
		{
			name:           "unknown session",
			cookie:         &http.Cookie{Name: testCookieName, Value: "stale"},
			expectedStatus: http.StatusSeeOther,
			expectResolve:  true,
		},
		{
			name:           "cookie with another name",
			cookie:         &http.Cookie{Name: "other", Value: "good"},
			expectedStatus: http.StatusSeeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := &stubResolver{sessions: map[string]domain.Identity{"good": ana}}
			mw := NewAuthMiddleware(resolver, testCookieName, nil)

			var captured domain.Identity
			var capturedToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				identity, ok := GetIdentity(r)
				require.True(t, ok)
				captured = identity
				capturedToken = shared.SessionTokenFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rr := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectResolve, resolver.calls > 0)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedIdentity, captured)
				assert.Equal(t, tt.cookie.Value, capturedToken)
			} else {
				assert.Equal(t, LoginPath, rr.Header().Get("Location"))
			}
		})
	}
}

func TestGetIdentity_Anonymous(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := GetIdentity(req)
	assert.False(t, ok)
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
	})

	TraceMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, traceID, shared.TraceIDLength*2)
}

func TestTraceMiddleware_AccessLog(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/completed", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	TraceMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "request completed", entries[0]["msg"])
	assert.Equal(t, float64(http.StatusTeapot), entries[0]["status"])
	assert.Equal(t, "/completed", entries[0]["path"])
	assert.NotEmpty(t, entries[0]["request_id"])
}
