package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-tutor/internal/api"
	apiMiddleware "github.com/phrazzld/scry-tutor/internal/api/middleware"
	"github.com/phrazzld/scry-tutor/internal/api/shared"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)

	cardHandler := api.NewCardHandler(app.service, app.logger)
	courseHandler := api.NewCourseHandler(app.service, app.logger)
	generateLimiter := apiMiddleware.NewRateLimiter(app.config.Server.GenerateRequestsPerMinute)

	r.Route("/api", func(r chi.Router) {
		api.RegisterRoutes(r, cardHandler, courseHandler, generateLimiter.Handler)
	})

	r.Get("/health", app.health)

	return r
}

// health reports whether the database is reachable.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
