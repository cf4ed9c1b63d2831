package grid

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
	"github.com/leapstack-labs/milgrid/internal/ui/views"
)

const (
	windowTitle  = "Military Data Report"
	pageTitle    = "Personnel Military Data"
	sessionName  = "milgrid"
	sessionEmpID = "empid"
	sessionMil   = "military"
	sessionCol   = "sortcol"
	sessionDir   = "sortdir"
)

// Handlers provides HTTP handlers for the report grid feature.
type Handlers struct {
	table        *report.Table
	store        state.Store
	sessionStore sessions.Store
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance. The table is the immutable
// dataset loaded at startup; every request recomputes from it.
func NewHandlers(
	table *report.Table,
	store state.Store,
	sessionStore sessions.Store,
	logger *slog.Logger,
	isDev bool,
) *Handlers {
	return &Handlers{
		table:        table,
		store:        store,
		sessionStore: sessionStore,
		logger:       logger,
		isDev:        isDev,
	}
}

// Page renders the full report page. The grid is server-rendered with the
// session's last control values so the first paint needs no SSE round trip.
func (h *Handlers) Page(w http.ResponseWriter, r *http.Request) {
	signals := h.signalsFromSession(r)

	data, err := h.buildPageData(signals)
	if err != nil {
		h.logger.Error("failed to build report page", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Render(w, "page", data); err != nil {
		h.logger.Error("failed to render report page", "error", err)
	}
}

// ApplySSE recomputes the grid from the signals and patches the report
// view. Signals are read before the SSE stream starts (the stream consumes
// the request body) and persisted to the session while headers can still
// be written.
func (h *Handlers) ApplySSE(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.persistSignals(w, r, signals)

	sse := datastar.NewSSE(w, r)
	h.patchReportView(sse, signals)
}

// SaveViewSSE stores the current control values under a user-chosen name
// and refreshes the saved-views panel.
func (h *Handlers) SaveViewSSE(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)

	name := strings.TrimSpace(signals.ViewName)
	if name == "" {
		_ = sse.ConsoleError(errors.New("view name is required"))
		return
	}

	view := &state.SavedView{
		Name:           name,
		EmployeeID:     parseEmployeeID(signals.EmpID),
		MilitaryStatus: signals.Military,
		SortColumn:     signals.SortCol,
		SortDirection:  signals.SortDir,
	}
	if err := h.store.SaveView(view); err != nil {
		h.logger.Error("failed to save view", "name", name, "error", err)
		_ = sse.ConsoleError(err)
		return
	}
	h.logger.Info("saved view", "name", name, "id", view.ID)

	h.patchViewsPanel(sse)
	_ = sse.PatchSignals([]byte(`{"viewname": ""}`))
}

// ApplyViewSSE loads a saved view, pushes its control values into the
// signals, and patches the recomputed grid.
func (h *Handlers) ApplyViewSSE(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := h.store.GetView(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	signals := signalsFromView(view)
	h.persistSignals(w, r, signals)

	sse := datastar.NewSSE(w, r)

	patch, err := json.Marshal(map[string]string{
		"empid":    signals.EmpID,
		"military": signals.Military,
		"sortcol":  signals.SortCol,
		"sortdir":  signals.SortDir,
	})
	if err == nil {
		_ = sse.PatchSignals(patch)
	}

	h.patchReportView(sse, signals)
}

// DeleteViewSSE removes a saved view and refreshes the panel.
func (h *Handlers) DeleteViewSSE(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sse := datastar.NewSSE(w, r)

	if err := h.store.DeleteView(id); err != nil {
		h.logger.Error("failed to delete view", "id", id, "error", err)
		_ = sse.ConsoleError(err)
		return
	}

	h.patchViewsPanel(sse)
}

// patchReportView renders the grid for the given signals and sends it as
// an element patch.
func (h *Handlers) patchReportView(sse *datastar.ServerSentEventGenerator, signals Signals) {
	grid, err := buildGrid(h.table, signals)
	if err != nil {
		h.logger.Error("failed to recompute grid", "error", err)
		_ = sse.ConsoleError(err)
		return
	}

	html, err := views.RenderString("report-view", grid)
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// patchViewsPanel re-renders the saved-views panel.
func (h *Handlers) patchViewsPanel(sse *datastar.ServerSentEventGenerator) {
	viewsList, err := h.store.ListViews()
	if err != nil {
		h.logger.Error("failed to list views", "error", err)
		_ = sse.ConsoleError(err)
		return
	}

	html, err := views.RenderString("views-list", ViewsData{Views: viewsList})
	if err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// buildPageData assembles everything the page template needs.
func (h *Handlers) buildPageData(signals Signals) (PageData, error) {
	grid, err := buildGrid(h.table, signals)
	if err != nil {
		return PageData{}, err
	}

	signalsJSON, err := json.Marshal(signals)
	if err != nil {
		return PageData{}, err
	}

	viewsList, err := h.store.ListViews()
	if err != nil {
		// The grid works without the panel; log and render empty.
		h.logger.Error("failed to list views", "error", err)
		viewsList = nil
	}

	return PageData{
		WindowTitle: windowTitle,
		Title:       pageTitle,
		Subtitle:    strconv.Itoa(h.table.RowCount()) + " records",
		IsDev:       h.isDev,
		SignalsJSON: string(signalsJSON),
		Statuses:    statusOptions(),
		Columns:     h.table.Columns,
		Grid:        grid,
		Views:       ViewsData{Views: viewsList},
	}, nil
}

// signalsFromSession restores the last persisted control values.
func (h *Handlers) signalsFromSession(r *http.Request) Signals {
	signals := Signals{SortDir: report.Ascending}

	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie decodes to a fresh session.
		return signals
	}

	if v, ok := sess.Values[sessionEmpID].(string); ok {
		signals.EmpID = v
	}
	if v, ok := sess.Values[sessionMil].(string); ok {
		signals.Military = v
	}
	if v, ok := sess.Values[sessionCol].(string); ok {
		signals.SortCol = v
	}
	if v, ok := sess.Values[sessionDir].(string); ok && v != "" {
		signals.SortDir = v
	}
	return signals
}

// persistSignals writes the control values to the session cookie. Must run
// before the response body starts.
func (h *Handlers) persistSignals(w http.ResponseWriter, r *http.Request, signals Signals) {
	sess, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		h.logger.Debug("session decode failed, starting fresh", "error", err)
	}
	if sess == nil {
		return
	}

	sess.Values[sessionEmpID] = signals.EmpID
	sess.Values[sessionMil] = signals.Military
	sess.Values[sessionCol] = signals.SortCol
	sess.Values[sessionDir] = signals.SortDir

	if err := sess.Save(r, w); err != nil {
		h.logger.Debug("failed to save session", "error", err)
	}
}

// signalsFromView converts a saved view back into frontend signals.
func signalsFromView(view *state.SavedView) Signals {
	signals := Signals{
		Military: view.MilitaryStatus,
		SortCol:  view.SortColumn,
		SortDir:  view.SortDirection,
	}
	if view.EmployeeID != nil {
		signals.EmpID = strconv.FormatInt(*view.EmployeeID, 10)
	}
	if signals.SortDir == "" {
		signals.SortDir = report.Ascending
	}
	return signals
}
