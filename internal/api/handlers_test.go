package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/phrazzld/tasklist/internal/api/middleware"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFlow_RegisterLoginAddList(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cookie, _ := app.signUp(t, "ana", "pass123")
	app.addTask(t, cookie, "buy milk")

	rr := app.do(t, http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="title"`))
	assert.Contains(t, body, "buy milk")
	assert.Contains(t, body, "Logged in successfully.")

	// Flashes are shown once.
	rr = app.do(t, http.MethodGet, "/", nil, cookie)
	assert.NotContains(t, rr.Body.String(), "Logged in successfully.")
}

func TestTaskFlow_CompleteShowsOnCompletedPage(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cookie, _ := app.signUp(t, "ana", "pass123")
	task := app.addTask(t, cookie, "buy milk")

	rr := app.do(t, http.MethodPost, fmt.Sprintf("/complete/%d", task.ID), nil, cookie)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/completed", rr.Header().Get("Location"))
	assert.True(t, app.task(t, task.ID).Completed)

	rr = app.do(t, http.MethodGet, "/completed", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "buy milk")

	// Completing twice is a no-op.
	rr = app.do(t, http.MethodPost, fmt.Sprintf("/complete/%d", task.ID), nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestTaskFlow_PostponeShowsOnlyOwnPostponed(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	ana, _ := app.signUp(t, "ana", "pass123")
	bob, _ := app.signUp(t, "bob", "hunter22")

	anaTask := app.addTask(t, ana, "ana task")
	bobTask := app.addTask(t, bob, "bob task")

	rr := app.do(t, http.MethodPost, fmt.Sprintf("/postpone/%d", anaTask.ID), nil, ana)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/postponed", rr.Header().Get("Location"))
	rr = app.do(t, http.MethodPost, fmt.Sprintf("/postpone/%d", bobTask.ID), nil, bob)
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = app.do(t, http.MethodGet, "/postponed", nil, ana)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ana task")
	assert.NotContains(t, rr.Body.String(), "bob task")
}

func TestTaskFlow_Logout(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cookie, _ := app.signUp(t, "ana", "pass123")

	rr := app.do(t, http.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?notice=logged_out", rr.Header().Get("Location"))

	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == testCookieName {
			cleared = c.MaxAge < 0 && c.Value == ""
		}
	}
	assert.True(t, cleared, "session cookie should be cleared")

	// The old cookie no longer resolves.
	rr = app.do(t, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = app.do(t, http.MethodGet, "/login?notice=logged_out", nil, nil)
	assert.Contains(t, rr.Body.String(), "You have been logged out.")
}

func TestTaskFlow_CrossUserMutationsForbidden(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	ana, _ := app.signUp(t, "ana", "pass123")
	bob, _ := app.signUp(t, "bob", "hunter22")
	task := app.addTask(t, ana, "ana only")

	tests := []struct {
		name   string
		method string
		path   string
		form   url.Values
	}{
		{"edit page", http.MethodGet, "/edit/%d", nil},
		{"edit", http.MethodPost, "/edit/%d", url.Values{"title": {"hijacked"}}},
		{"postpone", http.MethodPost, "/postpone/%d", nil},
		{"complete", http.MethodPost, "/complete/%d", nil},
		{"delete", http.MethodPost, "/delete/%d", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, tt.method, fmt.Sprintf(tt.path, task.ID), tt.form, bob)
			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.NotContains(t, rr.Body.String(), "ana only")

			current := app.task(t, task.ID)
			assert.Equal(t, "ana only", current.Title)
			assert.False(t, current.Postponed)
			assert.False(t, current.Completed)
		})
	}
}

func TestTaskFlow_MissingTask(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cookie, _ := app.signUp(t, "ana", "pass123")

	for _, path := range []string{"/delete/999", "/postpone/999", "/complete/999", "/delete/abc", "/delete/0"} {
		rr := app.do(t, http.MethodPost, path, nil, cookie)
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.Contains(t, rr.Body.String(), "Task not found.", path)
	}

	rr := app.do(t, http.MethodGet, "/edit/999", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTaskFlow_Delete(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cookie, _ := app.signUp(t, "ana", "pass123")
	task := app.addTask(t, cookie, "short lived")

	rr := app.do(t, http.MethodPost, fmt.Sprintf("/delete/%d", task.ID), nil, cookie)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = app.do(t, http.MethodGet, "/", nil, cookie)
	assert.NotContains(t, rr.Body.String(), "short lived")
	assert.Contains(t, rr.Body.String(), "Task deleted.")
}

func TestTaskFlow_Edit(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cookie, _ := app.signUp(t, "ana", "pass123")
	task := app.addTask(t, cookie, "old title")

	rr := app.do(t, http.MethodGet, fmt.Sprintf("/edit/%d", task.ID), nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="old title"`)

	rr = app.do(t, http.MethodPost, fmt.Sprintf("/edit/%d", task.ID), url.Values{"title": {"new title"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.Equal(t, "new title", app.task(t, task.ID).Title)

	rr = app.do(t, http.MethodGet, "/", nil, cookie)
	assert.Contains(t, rr.Body.String(), "Task updated.")
}

func TestTaskFlow_ValidationErrors(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	cookie, _ := app.signUp(t, "ana", "pass123")
	task := app.addTask(t, cookie, "keep me")

	tests := []struct {
		name string
		path string
		form url.Values
	}{
		{"add empty", "/add", url.Values{"title": {""}}},
		{"add whitespace", "/add", url.Values{"title": {"   "}}},
		{"add too long", "/add", url.Values{"title": {strings.Repeat("x", 201)}}},
		{"edit empty", fmt.Sprintf("/edit/%d", task.ID), url.Values{"title": {""}}},
		{"edit whitespace", fmt.Sprintf("/edit/%d", task.ID), url.Values{"title": {"  "}}},
		{"add invalid utf-8", "/add", url.Values{"title": {"buy \xff milk"}}},
		{"edit invalid utf-8", fmt.Sprintf("/edit/%d", task.ID), url.Values{"title": {"\xfe"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, http.MethodPost, tt.path, tt.form, cookie)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "flash-error")
		})
	}

	rr := app.do(t, http.MethodGet, "/", nil, cookie)
	assert.Equal(t, 1, strings.Count(rr.Body.String(), `class="title"`))
	assert.Equal(t, "keep me", app.task(t, task.ID).Title)
}

func TestAuth_Unauthenticated(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/completed"},
		{http.MethodGet, "/postponed"},
		{http.MethodPost, "/add"},
		{http.MethodPost, "/delete/1"},
		{http.MethodGet, "/edit/1"},
		{http.MethodPost, "/logout"},
	}

	for _, p := range paths {
		rr := app.do(t, p.method, p.path, nil, nil)
		assert.Equal(t, http.StatusSeeOther, rr.Code, p.path)
		assert.Equal(t, "/login", rr.Header().Get("Location"), p.path)
	}

	forged := &http.Cookie{Name: testCookieName, Value: "not-a-token"}
	rr := app.do(t, http.MethodGet, "/", nil, forged)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestTaskHandler_WithoutIdentityRedirects(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	handlers := map[string]http.HandlerFunc{
		"index":     app.handler.Index,
		"completed": app.handler.Completed,
		"add":       app.handler.Add,
	}
	for name, h := range handlers {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusSeeOther, rr.Code, name)
		assert.Equal(t, middleware.LoginPath, rr.Header().Get("Location"), name)
	}
	assert.Equal(t, http.StatusUnauthorized, MapErrorToStatusCode(domain.ErrUnauthorized))
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rr := app.do(t, http.MethodGet, "/inregistrare", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = app.do(t, http.MethodPost, "/inregistrare", url.Values{
		"username": {"ana"},
		"password": {"pass123"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login?notice=registered", rr.Header().Get("Location"))

	stored, err := app.users.GetByUsername(t.Context(), "ana")
	require.NoError(t, err)
	assert.NotEqual(t, "pass123", stored.PasswordHash)

	rr = app.do(t, http.MethodPost, "/inregistrare", url.Values{
		"username": {"ana"},
		"password": {"other"},
	}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "That username is already taken.")

	rr = app.do(t, http.MethodPost, "/inregistrare", url.Values{
		"username": {strings.Repeat("a", 26)},
		"password": {"pass123"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(t, http.MethodPost, "/inregistrare", url.Values{"username": {"bob"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Password is required.")
}

func TestAuth_LoginIgnoresSurroundingWhitespace(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, " ana ", "pass123")

	for _, username := range []string{"ana", " ana", "ana "} {
		cookie := app.login(t, username, "pass123")
		assert.NotEmpty(t, cookie.Value, username)
	}
}

func TestAuth_LoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)
	app.register(t, "ana", "pass123")

	wrongPassword := app.do(t, http.MethodPost, "/login", url.Values{
		"username": {"ana"},
		"password": {"nope"},
	}, nil)
	unknownUser := app.do(t, http.MethodPost, "/login", url.Values{
		"username": {"ghost"},
		"password": {"nope"},
	}, nil)

	for _, rr := range []*http.Response{wrongPassword.Result(), unknownUser.Result()} {
		assert.Equal(t, http.StatusUnauthorized, rr.StatusCode)
		assert.Empty(t, rr.Cookies())
	}
	assert.Contains(t, wrongPassword.Body.String(), "Invalid username or password.")
	assert.Contains(t, unknownUser.Body.String(), "Invalid username or password.")
}

func TestHealth(t *testing.T) {
	t.Parallel()
	app := newTestApp(t)

	rr := app.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
