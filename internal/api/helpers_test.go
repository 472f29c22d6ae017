package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasklist/internal/api/middleware"
	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/memory"
	"github.com/phrazzld/tasklist/internal/service"
	"github.com/phrazzld/tasklist/internal/service/auth"
	"github.com/phrazzld/tasklist/internal/store"
	"github.com/stretchr/testify/require"
)

const testCookieName = "tasklist_session"

type testApp struct {
	router   http.Handler
	handler  *TaskHandler
	users    *memory.UserStore
	tasks    *memory.TaskStore
	sessions *auth.SessionManager
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := quietLogger()

	users := memory.NewUserStore(log)
	tasks := memory.NewTaskStore(users, log)

	authCfg := config.AuthConfig{
		SessionSecret:          strings.Repeat("k", 48),
		SessionLifetimeMinutes: 30,
		CookieName:             testCookieName,
		BcryptCost:             4,
	}

	sessions, err := auth.NewSessionManager(authCfg, auth.NewMemorySessionStore(), log)
	require.NoError(t, err)
	userService, err := service.NewUserService(users, auth.NewBcryptHasher(authCfg.BcryptCost), log)
	require.NoError(t, err)
	taskService, err := service.NewTaskService(tasks, log)
	require.NoError(t, err)
	renderer, err := NewRenderer(log)
	require.NoError(t, err)

	authHandler := NewAuthHandler(userService, sessions, renderer, authCfg, log)
	taskHandler := NewTaskHandler(taskService, sessions, renderer, log)
	healthHandler := NewHealthHandler(tasks, log)
	authMiddleware := middleware.NewAuthMiddleware(sessions, authCfg.CookieName, log)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Get("/health", healthHandler.Check)
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Get("/inregistrare", authHandler.RegisterPage)
	r.Post("/inregistrare", authHandler.Register)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/logout", authHandler.Logout)
		r.Get("/", taskHandler.Index)
		r.Post("/add", taskHandler.Add)
		r.Post("/delete/{task_id}", taskHandler.Delete)
		r.Post("/postpone/{task_id}", taskHandler.Postpone)
		r.Post("/complete/{task_id}", taskHandler.Complete)
		r.Get("/completed", taskHandler.Completed)
		r.Get("/postponed", taskHandler.Postponed)
		r.Get("/edit/{task_id}", taskHandler.EditPage)
		r.Post("/edit/{task_id}", taskHandler.Edit)
	})

	return &testApp{router: r, handler: taskHandler, users: users, tasks: tasks, sessions: sessions}
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) register(t *testing.T, username, password string) {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/inregistrare", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
}

func (a *testApp) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())
	require.Equal(t, "/", rr.Header().Get("Location"))

	for _, c := range rr.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	t.Fatal("login did not set a session cookie")
	return nil
}

func (a *testApp) signUp(t *testing.T, username, password string) (*http.Cookie, int64) {
	t.Helper()
	a.register(t, username, password)
	cookie := a.login(t, username, password)

	user, err := a.users.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	return cookie, user.ID
}

func (a *testApp) addTask(t *testing.T, cookie *http.Cookie, title string) *domain.Task {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/add", url.Values{"title": {title}}, cookie)
	require.Equal(t, http.StatusSeeOther, rr.Code, rr.Body.String())

	identity, ok := a.sessions.Resolve(context.Background(), cookie.Value)
	require.True(t, ok)
	tasks, err := a.tasks.ListByOwner(context.Background(), identity.UserID, store.TaskFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, tasks)
	return tasks[len(tasks)-1]
}

func (a *testApp) task(t *testing.T, id int64) *domain.Task {
	t.Helper()
	task, err := a.tasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task
}
