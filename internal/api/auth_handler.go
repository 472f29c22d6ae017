package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/tasklist/internal/api/shared"
	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/service"
	"github.com/phrazzld/tasklist/internal/service/auth"
)

// Notice codes shown on the login page after a redirect from an anonymous
// flow, where there is no session to carry a flash.
const (
	NoticeRegistered = "registered"
	NoticeLoggedOut  = "logged_out"
)

var notices = map[string]auth.Flash{
	NoticeRegistered: {Category: auth.FlashSuccess, Message: "Account created. You can log in now."},
	NoticeLoggedOut:  {Category: auth.FlashSuccess, Message: "You have been logged out."},
}

// SessionManager is the subset of auth.SessionManager the handlers use.
type SessionManager interface {
	Create(ctx context.Context, userID int64, username string) (string, time.Time, error)
	Destroy(ctx context.Context, token string)
	AddFlash(ctx context.Context, token string, flash auth.Flash) error
	PopFlashes(ctx context.Context, token string) []auth.Flash
}

// AuthHandler handles login, registration, and logout.
type AuthHandler struct {
	users    service.UserService
	sessions SessionManager
	renderer *Renderer
	authCfg  config.AuthConfig
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	sessions SessionManager,
	renderer *Renderer,
	authCfg config.AuthConfig,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		renderer: renderer,
		authCfg:  authCfg,
		logger:   log.With(slog.String("component", "auth_handler")),
	}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Log in"}
	if notice, ok := notices[r.URL.Query().Get("notice")]; ok {
		data.Flashes = []auth.Flash{notice}
	}
	h.renderer.Render(w, r, http.StatusOK, PageLogin, data)
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var form LoginForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, PageLogin, PageData{
			Title:  "Log in",
			Errors: []string{"Invalid form submission."},
		})
		return
	}

	data := PageData{Title: "Log in", Username: form.Username}

	if err := shared.ValidateRequest(&form); err != nil {
		data.Errors = shared.ValidationMessages(err)
		h.renderer.Render(w, r, http.StatusBadRequest, PageLogin, data)
		return
	}

	identity, err := h.users.Authenticate(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.LogErrorResponse(r, http.StatusUnauthorized, GetSafeErrorMessage(err), err,
				shared.WithElevatedLogLevel())
			data.Errors = []string{GetSafeErrorMessage(err)}
			h.renderer.Render(w, r, http.StatusUnauthorized, PageLogin, data)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	token, expiresAt, err := h.sessions.Create(r.Context(), identity.UserID, identity.Username)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, expiresAt)

	if err := h.sessions.AddFlash(r.Context(), token, auth.Flash{
		Category: auth.FlashSuccess,
		Message:  "Logged in successfully.",
	}); err != nil {
		log.Warn("failed to queue login flash", slog.String("error", err.Error()))
	}

	log.Info("user logged in", slog.Int64("user_id", identity.UserID))
	shared.RedirectSeeOther(w, r, "/")
}

// RegisterPage handles GET /inregistrare.
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, PageRegister, PageData{Title: "Register"})
}

// Register handles POST /inregistrare.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form RegisterForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, PageRegister, PageData{
			Title:  "Register",
			Errors: []string{"Invalid form submission."},
		})
		return
	}

	data := PageData{Title: "Register", Username: form.Username}

	if err := shared.ValidateRequest(&form); err != nil {
		data.Errors = shared.ValidationMessages(err)
		h.renderer.Render(w, r, http.StatusBadRequest, PageRegister, data)
		return
	}

	userID, err := h.users.Register(r.Context(), form.Username, form.Password)
	if err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusConflict || domain.IsValidationError(err) {
			shared.LogErrorResponse(r, status, GetSafeErrorMessage(err), err)
			data.Errors = []string{GetSafeErrorMessage(err)}
			h.renderer.Render(w, r, status, PageRegister, data)
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("user registered",
		slog.Int64("user_id", userID))
	shared.RedirectSeeOther(w, r, "/login?notice="+NoticeRegistered)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(r.Context(), shared.SessionTokenFromContext(r.Context()))

	http.SetCookie(w, &http.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	shared.RedirectSeeOther(w, r, "/login?notice="+NoticeLoggedOut)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.authCfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.authCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
