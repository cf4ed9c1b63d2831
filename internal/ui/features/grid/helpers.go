package grid

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/milgrid/internal/report"
)

// messagePrefix decorates status messages for display. The core message
// strings carry no prefix.
const messagePrefix = "⚠️ "

// statusOptions returns the fixed military-status dropdown entries: the
// known categories plus the null/empty sentinel labeled None.
func statusOptions() []StatusOption {
	options := make([]StatusOption, 0, len(report.MilitaryStatuses)+1)
	for _, status := range report.MilitaryStatuses {
		options = append(options, StatusOption{Value: status, Label: status})
	}
	return append(options, StatusOption{Value: report.StatusNone, Label: "None"})
}

// parseEmployeeID converts the employee-ID signal to a filter value.
// Blank or non-numeric text means no filter.
func parseEmployeeID(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// criteriaFromSignals maps the frontend signals onto the engine inputs.
func criteriaFromSignals(s Signals) (report.FilterCriteria, report.SortSpec) {
	return report.FilterCriteria{
			EmployeeID:     parseEmployeeID(s.EmpID),
			MilitaryStatus: s.Military,
		}, report.SortSpec{
			Column:    s.SortCol,
			Direction: s.SortDir,
		}
}

// buildGrid recomputes the view from the full dataset and shapes it for
// the report-view fragment.
func buildGrid(original *report.Table, signals Signals) (GridData, error) {
	criteria, sortSpec := criteriaFromSignals(signals)
	result, message, err := report.Apply(original, criteria, sortSpec)
	if err != nil {
		return GridData{}, err
	}

	grid := GridData{
		Columns: result.Columns,
		Count:   result.RowCount(),
		Total:   original.RowCount(),
	}
	if message != "" {
		grid.Message = messagePrefix + message
	}

	grid.Rows = make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		cells := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			cells[i] = report.CellText(row[col])
		}
		grid.Rows = append(grid.Rows, cells)
	}
	return grid, nil
}
