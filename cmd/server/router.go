package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasklist/internal/api"
	apiMiddleware "github.com/phrazzld/tasklist/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(middleware.Timeout(app.config.Server.RequestTimeout()))

	authHandler := api.NewAuthHandler(
		app.userService,
		app.sessions,
		app.renderer,
		app.config.Auth,
		app.logger,
	)
	taskHandler := api.NewTaskHandler(app.taskService, app.sessions, app.renderer, app.logger)
	healthHandler := api.NewHealthHandler(app.pinger, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.sessions, app.config.Auth.CookieName, app.logger)

	// Public routes
	r.Get("/health", healthHandler.Check)
	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	for _, path := range []string{"/inregistrare", "/register"} {
		r.Get(path, authHandler.RegisterPage)
		r.Post(path, authHandler.Register)
	}

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/logout", authHandler.Logout)

		r.Get("/", taskHandler.Index)
		r.Post("/add", taskHandler.Add)
		r.Get("/completed", taskHandler.Completed)
		r.Get("/postponed", taskHandler.Postponed)

		r.Post("/delete/{task_id}", taskHandler.Delete)
		r.Post("/postpone/{task_id}", taskHandler.Postpone)
		r.Post("/complete/{task_id}", taskHandler.Complete)
		r.Get("/edit/{task_id}", taskHandler.EditPage)
		r.Post("/edit/{task_id}", taskHandler.Edit)
	})

	return r
}
