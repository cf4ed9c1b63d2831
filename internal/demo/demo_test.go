package demo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/milgrid/internal/loader"
	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/testutil"
	"github.com/leapstack-labs/milgrid/pkg/adapter"
	"github.com/leapstack-labs/milgrid/pkg/adapters/duckdb"
)

func TestLoad(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "personnel", ds.Table)
	assert.Equal(t, "Rpt_Personnel_Military_Data", ds.View)
	assert.Equal(t, "SELECT * FROM Rpt_Personnel_Military_Data", ds.Query())
	assert.NotEmpty(t, ds.Rows)

	// The dataset must carry both well-known report columns
	names := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		names[i] = col.Name
	}
	assert.Contains(t, names, report.EmployeeIDColumn)
	assert.Contains(t, names, report.MilitaryColumn)
}

func TestLoad_CoversEveryStatus(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	statusIdx := -1
	for i, col := range ds.Columns {
		if col.Name == report.MilitaryColumn {
			statusIdx = i
		}
	}
	require.GreaterOrEqual(t, statusIdx, 0)

	seen := make(map[string]bool)
	blanks := 0
	for _, row := range ds.Rows {
		val := row[statusIdx]
		if val == nil {
			blanks++
			continue
		}
		s, ok := val.(string)
		require.True(t, ok, "status cells must be strings or null")
		if s == "" {
			blanks++
			continue
		}
		seen[s] = true
	}

	// Every selectable status appears at least once, plus blank rows for the
	// "None" sentinel filter
	for _, status := range report.MilitaryStatuses {
		assert.True(t, seen[status], "dataset should contain status %q", status)
	}
	assert.Greater(t, blanks, 0, "dataset should contain blank statuses")
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	adp := duckdb.New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	ds, err := Seed(ctx, adp)
	require.NoError(t, err)

	// The default query shape works against the seeded view
	table, err := loader.Load(ctx, adp, ds.Query(), testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, len(ds.Rows), table.RowCount())
	assert.Equal(t, len(ds.Columns), len(table.Columns))
	assert.True(t, table.HasColumn(report.EmployeeIDColumn))

	// And the loaded snapshot filters like the real dataset
	result, msg, err := report.Apply(table, report.FilterCriteria{MilitaryStatus: "مؤجل"}, report.SortSpec{})
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Greater(t, result.RowCount(), 0)
	for _, row := range result.Rows {
		assert.Equal(t, "مؤجل", report.CellText(row[report.MilitaryColumn]))
	}
}

func TestSeed_Reseed(t *testing.T) {
	ctx := context.Background()
	adp := duckdb.New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	_, err := Seed(ctx, adp)
	require.NoError(t, err)

	// Seeding twice replaces rather than duplicates
	ds, err := Seed(ctx, adp)
	require.NoError(t, err)

	table, err := loader.Load(ctx, adp, ds.Query(), testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, len(ds.Rows), table.RowCount())
}
