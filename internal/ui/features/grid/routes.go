package grid

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
)

// SetupRoutes registers the report grid feature routes.
func SetupRoutes(
	router chi.Router,
	table *report.Table,
	store state.Store,
	sessionStore sessions.Store,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(table, store, sessionStore, logger, isDev)

	router.Get("/", handlers.Page)

	router.Route("/report", func(r chi.Router) {
		r.Post("/apply", handlers.ApplySSE)
		r.Post("/views", handlers.SaveViewSSE)
		r.Post("/views/{id}/apply", handlers.ApplyViewSSE)
		r.Delete("/views/{id}", handlers.DeleteViewSSE)
	})

	return nil
}
