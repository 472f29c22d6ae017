package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklist/internal/api/shared"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

// Page template names.
const (
	PageLogin     = "login.html"
	PageRegister  = "register.html"
	PageIndex     = "index.html"
	PageCompleted = "completed.html"
	PagePostponed = "postponed.html"
	PageEdit      = "edit.html"
	PageError     = "error.html"
)

var pageNames = []string{
	PageLogin,
	PageRegister,
	PageIndex,
	PageCompleted,
	PagePostponed,
	PageEdit,
	PageError,
}

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer(log *slog.Logger) (*Renderer, error) {
	if log == nil {
		log = slog.Default()
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:  pages,
		logger: log.With(slog.String("component", "renderer")),
	}, nil
}

// Render writes page with the given status. The page is executed into a
// buffer first so a template failure still yields a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	log := logger.FromContextOrDefault(r.Context(), rd.logger)

	tmpl, ok := rd.pages[page]
	if !ok {
		log.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug("failed to write response", slog.String("error", err.Error()))
	}
}

// RenderError renders the error page for err with the status and message
// chosen by MapErrorToStatusCode and GetSafeErrorMessage.
func (rd *Renderer) RenderError(w http.ResponseWriter, r *http.Request, err error, opts ...shared.ResponseOption) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	shared.LogErrorResponse(r, status, message, err, opts...)

	identity, _ := shared.IdentityFromContext(r.Context())
	rd.Render(w, r, status, PageError, PageData{
		Title:      http.StatusText(status),
		Identity:   identity,
		StatusCode: status,
		Message:    message,
	})
}
