// Package loader runs the configured report query once and materializes the
// result set as an immutable report.Table.
//
// The table is loaded at startup and never refreshed; every filter and sort
// the UI applies is computed in memory from this snapshot.
package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/pkg/adapter"
)

// Load executes query against the adapter and scans the full result set.
// Column order follows the result set; NULLs are kept as nil cell values.
// Callers bound the load with a context deadline.
func Load(ctx context.Context, adp adapter.Adapter, query string, logger *slog.Logger) (*report.Table, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rows, err := adp.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to run report query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	var records []report.Row
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		row := make(report.Row, len(cols))
		for i, col := range cols {
			val := values[i]
			// Convert []byte to string so cells compare and render as text
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		records = append(records, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read result rows: %w", err)
	}

	t := report.NewTable(cols, records)

	logger.Info("report dataset loaded",
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", len(t.Columns)))

	if !t.HasColumn(report.EmployeeIDColumn) {
		logger.Warn("dataset is missing the employee ID column; employee filtering will fail",
			slog.String("column", report.EmployeeIDColumn))
	}
	if _, ok := report.Resolve(t, report.MilitaryColumn); !ok {
		logger.Warn("dataset has no column matching the military status column; the grid will report it as not found",
			slog.String("column", report.MilitaryColumn))
	}

	return t, nil
}
