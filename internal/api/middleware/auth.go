package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklist/internal/api/shared"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// SessionResolver turns a session cookie value into an identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.Identity, bool)
}

// AuthMiddleware guards routes that require a logged-in user.
type AuthMiddleware struct {
	sessions   SessionResolver
	cookieName string
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(sessions SessionResolver, cookieName string, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
		logger:     log.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate resolves the session cookie and adds the identity to the
// request context. Anonymous requests are redirected to the login page.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), m.logger)

		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			log.Debug("no session cookie", slog.String("path", r.URL.Path))
			shared.RedirectSeeOther(w, r, LoginPath)
			return
		}

		identity, ok := m.sessions.Resolve(r.Context(), cookie.Value)
		if !ok {
			log.Debug("session not resolved", slog.String("path", r.URL.Path))
			shared.RedirectSeeOther(w, r, LoginPath)
			return
		}

		ctx := shared.WithIdentity(r.Context(), identity, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the authenticated identity from the request context.
func GetIdentity(r *http.Request) (domain.Identity, bool) {
	return shared.IdentityFromContext(r.Context())
}
