package loader

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/testutil"
	"github.com/leapstack-labs/milgrid/pkg/adapter"
)

// mockAdapter wraps a sqlmock-backed DB in the adapter interface.
type mockAdapter struct {
	adapter.BaseSQLAdapter
}

func (m *mockAdapter) Type() string { return "mock" }

func (m *mockAdapter) Connect(_ context.Context, cfg adapter.Config) error {
	m.Cfg = cfg
	return nil
}

func newMockAdapter(t *testing.T) (*mockAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &mockAdapter{BaseSQLAdapter: adapter.BaseSQLAdapter{DB: db}}, mock
}

const reportQuery = "EXEC Rpt_Personnel_Military_Data 92, null, 1, null, null, 1, 0, null, null"

func TestLoad(t *testing.T) {
	adp, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{"Person_Instance_ID", "En_Name", "Ar_Military"}).
		AddRow(10, "Ahmed", "مؤجل").
		AddRow(11, "Omar", nil).
		AddRow(12, "Salim", []byte("معفى"))
	mock.ExpectQuery("EXEC Rpt_Personnel_Military_Data").WillReturnRows(rows)

	table, err := Load(context.Background(), adp, reportQuery, testutil.NewTestLogger(t))
	require.NoError(t, err)

	// Column order follows the result set
	assert.Equal(t, []string{"Person_Instance_ID", "En_Name", "Ar_Military"}, table.Columns)
	require.Equal(t, 3, table.RowCount())

	// NULL stays nil, []byte becomes string
	assert.Nil(t, table.Rows[1]["Ar_Military"])
	assert.Equal(t, "معفى", table.Rows[2]["Ar_Military"])
	assert.Equal(t, "Ahmed", table.Rows[0]["En_Name"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_EmptyResult(t *testing.T) {
	adp, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{"Person_Instance_ID", "Ar_Military"})
	mock.ExpectQuery("EXEC").WillReturnRows(rows)

	table, err := Load(context.Background(), adp, reportQuery, testutil.NewTestLogger(t))
	require.NoError(t, err)

	// Empty dataset keeps its column headers
	assert.Equal(t, []string{"Person_Instance_ID", "Ar_Military"}, table.Columns)
	assert.Equal(t, 0, table.RowCount())
}

func TestLoad_QueryError(t *testing.T) {
	adp, mock := newMockAdapter(t)

	mock.ExpectQuery("EXEC").WillReturnError(assert.AnError)

	_, err := Load(context.Background(), adp, reportQuery, testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run report query")
}

func TestLoad_RowIterationError(t *testing.T) {
	adp, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{"Person_Instance_ID"}).
		AddRow(1).
		AddRow(2).
		RowError(1, assert.AnError)
	mock.ExpectQuery("EXEC").WillReturnRows(rows)

	_, err := Load(context.Background(), adp, reportQuery, testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read result rows")
}

func TestLoad_NotConnected(t *testing.T) {
	adp := &mockAdapter{}

	_, err := Load(context.Background(), adp, reportQuery, testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not established")
}

func TestLoad_ResultIsDetachedFromDriver(t *testing.T) {
	adp, mock := newMockAdapter(t)

	rows := sqlmock.NewRows([]string{"Person_Instance_ID", "Ar_Military"}).
		AddRow(1, "مؤجل")
	mock.ExpectQuery("EXEC").WillReturnRows(rows)

	table, err := Load(context.Background(), adp, reportQuery, testutil.NewTestLogger(t))
	require.NoError(t, err)

	// Closing the source must not affect the loaded snapshot
	mock.ExpectClose()
	require.NoError(t, adp.Close())
	assert.Equal(t, 1, table.RowCount())
	assert.Equal(t, "مؤجل", report.CellText(table.Rows[0][report.MilitaryColumn]))
}
