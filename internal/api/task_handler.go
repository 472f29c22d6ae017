package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasklist/internal/api/middleware"
	"github.com/phrazzld/tasklist/internal/api/shared"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
	"github.com/phrazzld/tasklist/internal/service"
	"github.com/phrazzld/tasklist/internal/service/auth"
)

// TaskHandler serves the task pages. Every route behind it requires the
// auth middleware to have placed an identity in the request context.
type TaskHandler struct {
	tasks    service.TaskService
	sessions SessionManager
	renderer *Renderer
	logger   *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	tasks service.TaskService,
	sessions SessionManager,
	renderer *Renderer,
	log *slog.Logger,
) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		tasks:    tasks,
		sessions: sessions,
		renderer: renderer,
		logger:   log.With(slog.String("component", "task_handler")),
	}
}

// Index handles GET /.
func (h *TaskHandler) Index(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	h.renderList(w, r, identity, http.StatusOK, PageIndex, "Tasks", h.tasks.ListByOwner, PageData{})
}

// Completed handles GET /completed.
func (h *TaskHandler) Completed(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	h.renderList(w, r, identity, http.StatusOK, PageCompleted, "Completed", h.tasks.ListCompleted, PageData{})
}

// Postponed handles GET /postponed.
func (h *TaskHandler) Postponed(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}
	h.renderList(w, r, identity, http.StatusOK, PagePostponed, "Postponed", h.tasks.ListPostponed, PageData{})
}

// Add handles POST /add.
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var form TaskTitleForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderList(w, r, identity, http.StatusBadRequest, PageIndex, "Tasks", h.tasks.ListByOwner,
			PageData{Errors: []string{"Invalid form submission."}})
		return
	}

	if err := shared.ValidateRequest(&form); err != nil {
		h.renderList(w, r, identity, http.StatusBadRequest, PageIndex, "Tasks", h.tasks.ListByOwner,
			PageData{Errors: shared.ValidationMessages(err), TaskTitle: form.Title})
		return
	}

	taskID, err := h.tasks.Create(r.Context(), identity.UserID, form.Title)
	if err != nil {
		if domain.IsValidationError(err) {
			h.renderList(w, r, identity, http.StatusBadRequest, PageIndex, "Tasks", h.tasks.ListByOwner,
				PageData{Errors: []string{GetSafeErrorMessage(err)}, TaskTitle: form.Title})
			return
		}
		h.renderer.RenderError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task added",
		slog.Int64("task_id", taskID),
		slog.Int64("user_id", identity.UserID))
	shared.RedirectSeeOther(w, r, "/")
}

// Delete handles POST /delete/{task_id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.tasks.Delete, "Task deleted.", "/")
}

// Postpone handles POST /postpone/{task_id}.
func (h *TaskHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.tasks.MarkPostponed, "Task postponed.", "/postponed")
}

// Complete handles POST /complete/{task_id}.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.tasks.MarkCompleted, "Task completed.", "/completed")
}

// EditPage handles GET /edit/{task_id}.
func (h *TaskHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	taskID, err := getPathID(r, taskIDParam)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	task, err := h.tasks.GetOwned(r.Context(), taskID, identity.UserID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, PageEdit, PageData{
		Title:    "Edit task",
		Identity: identity,
		Flashes:  h.popFlashes(r),
		Task:     task,
	})
}

// Edit handles POST /edit/{task_id}.
func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	taskID, err := getPathID(r, taskIDParam)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	var form TaskTitleForm
	if err := shared.DecodeForm(r, &form); err != nil {
		h.renderEditForm(w, r, identity, taskID, form.Title, []string{"Invalid form submission."})
		return
	}

	if err := shared.ValidateRequest(&form); err != nil {
		h.renderEditForm(w, r, identity, taskID, form.Title, shared.ValidationMessages(err))
		return
	}

	if err := h.tasks.UpdateTitle(r.Context(), taskID, form.Title, identity.UserID); err != nil {
		if domain.IsValidationError(err) {
			h.renderEditForm(w, r, identity, taskID, form.Title, []string{GetSafeErrorMessage(err)})
			return
		}
		h.renderError(w, r, err)
		return
	}

	h.flash(r, auth.FlashSuccess, "Task updated.")
	shared.RedirectSeeOther(w, r, "/")
}

// renderEditForm re-renders the edit page after a rejected title. The
// ownership check runs first so a foreign task never shows its form.
func (h *TaskHandler) renderEditForm(
	w http.ResponseWriter,
	r *http.Request,
	identity domain.Identity,
	taskID int64,
	title string,
	errs []string,
) {
	if _, err := h.tasks.GetOwned(r.Context(), taskID, identity.UserID); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusBadRequest, PageEdit, PageData{
		Title:    "Edit task",
		Identity: identity,
		Errors:   errs,
		Task:     &domain.Task{ID: taskID, Title: title, OwnerID: identity.UserID},
	})
}

func (h *TaskHandler) mutate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, taskID, requesterID int64) error,
	successMessage string,
	redirectTo string,
) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	taskID, err := getPathID(r, taskIDParam)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	if err := op(r.Context(), taskID, identity.UserID); err != nil {
		h.renderError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task mutated",
		slog.Int64("task_id", taskID),
		slog.String("redirect", redirectTo))

	h.flash(r, auth.FlashSuccess, successMessage)
	shared.RedirectSeeOther(w, r, redirectTo)
}

type listFunc func(ctx context.Context, ownerID int64) ([]*domain.Task, error)

func (h *TaskHandler) renderList(
	w http.ResponseWriter,
	r *http.Request,
	identity domain.Identity,
	status int,
	page string,
	title string,
	list listFunc,
	data PageData,
) {
	tasks, err := list(r.Context(), identity.UserID)
	if err != nil {
		h.renderer.RenderError(w, r, err)
		return
	}

	data.Title = title
	data.Identity = identity
	data.Tasks = tasks
	data.Flashes = h.popFlashes(r)
	h.renderer.Render(w, r, status, page, data)
}

// renderError renders the error page. Ownership violations are logged at
// WARN.
func (h *TaskHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if MapErrorToStatusCode(err) == http.StatusForbidden {
		h.renderer.RenderError(w, r, err, shared.WithElevatedLogLevel())
		return
	}
	h.renderer.RenderError(w, r, err)
}

// identity returns the caller, or redirects to the login page when the
// route was mounted without the auth middleware.
func (h *TaskHandler) identity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		err := domain.ErrUnauthorized
		shared.LogErrorResponse(r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
			shared.WithElevatedLogLevel())
		shared.RedirectSeeOther(w, r, middleware.LoginPath)
		return domain.Identity{}, false
	}
	return identity, true
}

func (h *TaskHandler) popFlashes(r *http.Request) []auth.Flash {
	token := shared.SessionTokenFromContext(r.Context())
	if token == "" {
		return nil
	}
	return h.sessions.PopFlashes(r.Context(), token)
}

func (h *TaskHandler) flash(r *http.Request, category, message string) {
	token := shared.SessionTokenFromContext(r.Context())
	if token == "" {
		return
	}
	if err := h.sessions.AddFlash(r.Context(), token, auth.Flash{Category: category, Message: message}); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to queue flash",
			slog.String("error", err.Error()))
	}
}
