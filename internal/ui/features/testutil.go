// Package features provides shared test fixtures for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
	"github.com/leapstack-labs/milgrid/internal/ui/notifier"
)

// TestFixture holds the dependencies UI handler tests need.
type TestFixture struct {
	Table        *report.Table
	Store        state.Store
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture assembles a fixture around the standard test dataset
// and an in-memory saved-views store.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	store := state.NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })

	return &TestFixture{
		Table:        NewTestTable(),
		Store:        store,
		Notifier:     notifier.New(),
		SessionStore: NewTestSessionStore(),
	}
}

// NewTestTable builds a small personnel dataset with Arabic status values,
// one null status, and one empty status.
func NewTestTable() *report.Table {
	columns := []string{"Person_Instance_ID", "En_Name", "Ar_Military"}
	rows := []report.Row{
		{"Person_Instance_ID": int64(1001), "En_Name": "Ahmed Hassan", "Ar_Military": "مؤجل"},
		{"Person_Instance_ID": int64(1002), "En_Name": "Omar Farouk", "Ar_Military": "معفى"},
		{"Person_Instance_ID": int64(1003), "En_Name": "Khaled Said", "Ar_Military": "أدى الخدمة العسكرية"},
		{"Person_Instance_ID": int64(1004), "En_Name": "Tarek Nour", "Ar_Military": nil},
		{"Person_Instance_ID": int64(1005), "En_Name": "Samir Adel", "Ar_Military": ""},
		{"Person_Instance_ID": int64(1006), "En_Name": "Hany Mostafa", "Ar_Military": "مؤجل"},
	}
	return report.NewTable(columns, rows)
}

// NewTestTableWithoutMilitary builds a dataset whose military column is
// missing entirely, for column-resolution failure cases.
func NewTestTableWithoutMilitary() *report.Table {
	columns := []string{"Person_Instance_ID", "En_Name"}
	rows := []report.Row{
		{"Person_Instance_ID": int64(1001), "En_Name": "Ahmed Hassan"},
	}
	return report.NewTable(columns, rows)
}

// NewTestSessionStore creates a cookie session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
