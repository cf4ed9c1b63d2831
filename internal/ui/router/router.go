// Package router sets up HTTP routes for the web UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
	"github.com/leapstack-labs/milgrid/internal/ui/features/grid"
	"github.com/leapstack-labs/milgrid/internal/ui/notifier"
	"github.com/leapstack-labs/milgrid/internal/ui/resources"
)

// SetupRoutes configures all routes for the web UI server.
func SetupRoutes(
	router chi.Router,
	table *report.Table,
	store state.Store,
	sessionStore *sessions.CookieStore,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	if isDev {
		setupReload(router, notify)
	}

	router.Handle("/static/*", resources.Handler())

	return grid.SetupRoutes(router, table, store, sessionStore, logger, isDev)
}

// setupReload wires the dev reload stream. Every open page holds a /reload
// SSE connection; a notifier broadcast reloads them all. The first
// connection after a server restart also reloads, which refreshes the
// stale page that triggered the reconnect.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var restartOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		restartOnce.Do(reload)

		ch := notify.Subscribe()
		defer notify.Unsubscribe(ch)

		select {
		case <-ch:
			reload()
		case <-r.Context().Done():
		}
	})

	// Manual poke for external tooling.
	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
