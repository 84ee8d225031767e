package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgical-calendar/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/calendars
//	GET    /api/v1/calendars/{calendar}/{year}               ?locale=&<options>
//	GET    /api/v1/calendars/{calendar}/{year}/dates/{date}  ?locale=&<options>
//	GET    /api/v1/calendars/{calendar}/{year}/ics           ?locale=&secondary=&<options>
//	GET    /api/v1/calendars/{calendar}/days/{key}           ?from=&to=&<options>
//	GET    /api/v1/cache                                     (API key)
//	GET    /api/v1/cache/{calendar}/days/{key}               (API key)
//	DELETE /api/v1/cache/{calendar}                          (API key)
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteMethodNotAllowed(w, "Method not allowed")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/calendars", handlers.ListCalendars)
		r.Route("/calendars/{calendar}", func(r chi.Router) {
			r.Get("/days/{key}", handlers.FindDay)
			r.Get("/{year}", handlers.GetCalendar)
			r.Get("/{year}/dates/{date}", handlers.GetDate)
			r.Get("/{year}/ics", handlers.GetICS)
		})

		// Cache admin routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Get("/cache", handlers.ListStored)
			r.Get("/cache/{calendar}/days/{key}", handlers.StoredOccurrences)
			r.Delete("/cache/{calendar}", handlers.InvalidateStored)
		})
	})

	return r
}
