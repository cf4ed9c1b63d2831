// Package report holds the in-memory personnel dataset and the filter/sort
// pipeline that every frontend (web, CLI, REPL, TUI) computes views through.
//
// A Table is loaded exactly once at process start and never mutated; Apply
// derives new Table values from it. Because rows are shared between the
// original and derived tables, callers must treat Row maps as read-only.
package report

// Column names and filter values fixed by the report contract.
const (
	// EmployeeIDColumn is matched literally (exact name) by the employee filter.
	EmployeeIDColumn = "Person_Instance_ID"

	// MilitaryColumn is the logical status column, located via Resolve so the
	// lookup survives schema drift (renamed or prefixed variants).
	MilitaryColumn = "Ar_Military"

	// StatusNone is the dropdown sentinel selecting rows whose military status
	// is null or empty. Distinct from "" which means no status filter at all.
	StatusNone = "__NONE__"
)

// MilitaryStatuses is the closed set of selectable status categories, in
// display order. StatusNone is appended by the frontends as a final option.
var MilitaryStatuses = []string{
	"مؤجل",
	"صغار سن",
	"معفى",
	"أدى الخدمة العسكرية",
	"لم يصبه الدور",
	"اجنبى",
	"عدم لياقه طبيه",
}

// Row maps a column name to its scalar value. A value may be nil (SQL NULL).
type Row map[string]any

// Table is a rectangular dataset: ordered columns plus rows that each carry a
// value (possibly nil) for every declared column.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a Table from columns and rows. The slices are used as-is.
func NewTable(columns []string, rows []Row) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// HasColumn reports whether name is one of the declared columns (exact match).
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// copy returns a new Table sharing this table's rows. Row membership and
// order can then change without touching the source.
func (t *Table) copy() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	return &Table{Columns: cols, Rows: rows}
}

// filter returns a new Table keeping only rows for which keep returns true.
func (t *Table) filter(keep func(Row) bool) *Table {
	out := &Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
