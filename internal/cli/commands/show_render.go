package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/milgrid/internal/cli/output"
	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
)

// renderShow renders a computed view in the requested format. totalRows is
// the unfiltered dataset size; the view may be smaller, and limit truncates
// what gets printed without changing the reported match count.
func renderShow(w io.Writer, view *report.Table, msg, format string, limit, totalRows int) error {
	rows := view.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	switch format {
	case "json":
		return renderShowJSON(w, view.Columns, rows, msg, totalRows, view.RowCount())
	case "csv":
		return renderShowCSV(w, view.Columns, rows)
	case "md", "markdown":
		return renderShowMarkdown(w, view.Columns, rows, msg)
	default:
		return renderShowTable(w, view.Columns, rows, msg, view.RowCount())
	}
}

func renderShowTable(w io.Writer, cols []string, rows []report.Row, msg string, matched int) error {
	if msg != "" {
		_, _ = fmt.Fprintln(w, msg)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = formatValue(r[col])
		}
		t.AppendRow(row)
	}

	t.Render()
	if len(rows) < matched {
		_, _ = fmt.Fprintf(w, "(%d of %d rows)\n", len(rows), matched)
	} else {
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	}
	return nil
}

func renderShowJSON(w io.Writer, cols []string, rows []report.Row, msg string, totalRows, matched int) error {
	out := output.ShowOutput{
		Columns: cols,
		Rows:    make([]map[string]string, 0, len(rows)),
		Message: msg,
		Summary: output.ShowSummary{
			TotalRows:   totalRows,
			VisibleRows: matched,
		},
	}
	for _, r := range rows {
		m := make(map[string]string, len(cols))
		for _, col := range cols {
			m[col] = report.CellText(r[col])
		}
		out.Rows = append(out.Rows, m)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderShowCSV emits pure data with no status message line, so piped output
// stays parseable. An empty view produces just the header (or nothing when
// the status column is missing and the view has no columns at all).
func renderShowCSV(w io.Writer, cols []string, rows []report.Row) error {
	if len(cols) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))

	for _, r := range rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = escapeCSV(formatValue(r[col]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderShowMarkdown(w io.Writer, cols []string, rows []report.Row, msg string) error {
	if msg != "" {
		_, _ = fmt.Fprintf(w, "> %s\n\n", msg)
	}
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range rows {
		values := make([]string, len(cols))
		for i, col := range cols {
			values[i] = formatValue(r[col])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// renderColumns lists dataset columns, marking the resolved status column.
func renderColumns(w io.Writer, t *report.Table, format string) error {
	resolved, ok := report.Resolve(t, report.MilitaryColumn)

	if format == "json" {
		type col struct {
			Name           string `json:"name"`
			MilitaryStatus bool   `json:"military_status,omitempty"`
		}
		out := make([]col, 0, len(t.Columns))
		for _, c := range t.Columns {
			out = append(out, col{Name: c, MilitaryStatus: ok && c == resolved})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, c := range t.Columns {
		if ok && c == resolved {
			_, _ = fmt.Fprintf(w, "%s\t(military status)\n", c)
			continue
		}
		_, _ = fmt.Fprintln(w, c)
	}
	if !ok {
		_, _ = fmt.Fprintln(w, report.MsgColumnNotFound)
	}
	return nil
}

// renderViews lists saved views.
func renderViews(w io.Writer, views []*state.SavedView, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	if len(views) == 0 {
		_, _ = fmt.Fprintln(w, "No saved views.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Employee", "Status", "Sort", "Created"})

	for _, v := range views {
		employee := ""
		if v.EmployeeID != nil {
			employee = fmt.Sprintf("%d", *v.EmployeeID)
		}
		sortDesc := v.SortColumn
		if sortDesc != "" && v.SortDirection != "" {
			sortDesc += " " + v.SortDirection
		}
		t.AppendRow(table.Row{v.Name, employee, v.MilitaryStatus, sortDesc, v.CreatedAt.Format("2006-01-02 15:04")})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d views)\n", len(views))
	return nil
}
