package api

import (
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/service/auth"
)

// Form commands decoded from POST bodies.

// LoginForm is submitted by the login page.
type LoginForm struct {
	Username string `form:"username" validate:"required,max=25"`
	Password string `form:"password" validate:"required,max=72"`
}

// RegisterForm is submitted by the registration page.
type RegisterForm struct {
	Username string `form:"username" validate:"required,max=25"`
	Password string `form:"password" validate:"required,max=72"`
}

// TaskTitleForm carries the title for the add and edit forms.
type TaskTitleForm struct {
	Title string `form:"title" validate:"required,max=200"`
}

// PageData is the view model passed to every template.
type PageData struct {
	Title    string
	Identity domain.Identity
	Flashes  []auth.Flash
	Errors   []string

	// Form values echoed back after a failed submission.
	Username  string
	TaskTitle string

	Tasks []*domain.Task
	Task  *domain.Task

	// Error page fields.
	StatusCode int
	Message    string
}

// LoggedIn reports whether the page is rendered for an authenticated user.
func (p PageData) LoggedIn() bool {
	return !p.Identity.IsZero()
}
