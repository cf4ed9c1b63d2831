package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Status messages surfaced to the user. These are informational, not errors;
// Apply returns them alongside the result table. Frontends decide how to
// decorate them (the web UI prepends a warning glyph).
const (
	MsgColumnNotFound = "Column 'Ar_Military' not found."
	MsgNoData         = "No data found with current filters."
)

// Sort directions.
const (
	Ascending  = "asc"
	Descending = "desc"
)

// FilterCriteria are the user-adjustable filter inputs. A nil EmployeeID and
// an empty MilitaryStatus mean the respective filter is off.
type FilterCriteria struct {
	EmployeeID     *int64
	MilitaryStatus string
}

// SortSpec selects an optional single-key sort. An empty Column disables
// sorting; an empty Direction means ascending.
type SortSpec struct {
	Column    string
	Direction string
}

// Desc reports whether the configured direction is descending.
func (s SortSpec) Desc() bool {
	return strings.EqualFold(strings.TrimSpace(s.Direction), Descending)
}

// Apply computes a filtered, sorted view of original. Steps run in fixed
// order: employee filter, military-status filter, sort, empty check. The
// source table is never mutated.
//
// The returned error is non-nil only for a configuration fault: the employee
// filter is requested but the dataset has no Person_Instance_ID column.
// Everything else degrades to a (possibly empty) table plus a status message.
// MsgColumnNotFound wins over MsgNoData, and its check runs even when no
// status filter is selected.
func Apply(original *Table, criteria FilterCriteria, sortSpec SortSpec) (*Table, string, error) {
	result := original.copy()

	if criteria.EmployeeID != nil {
		if !result.HasColumn(EmployeeIDColumn) {
			return nil, "", fmt.Errorf("employee filter requires column %q, which the loaded dataset does not have", EmployeeIDColumn)
		}
		want := *criteria.EmployeeID
		result = result.filter(func(r Row) bool {
			return equalsID(r[EmployeeIDColumn], want)
		})
	}

	statusCol, ok := Resolve(result, MilitaryColumn)
	if !ok {
		return &Table{}, MsgColumnNotFound, nil
	}
	switch status := criteria.MilitaryStatus; {
	case status == "":
		// No status filter selected.
	case status == StatusNone:
		result = result.filter(func(r Row) bool {
			return isBlank(r[statusCol])
		})
	default:
		want := strings.TrimSpace(status)
		result = result.filter(func(r Row) bool {
			return CellText(r[statusCol]) == want
		})
	}

	if sortSpec.Column != "" && result.HasColumn(sortSpec.Column) {
		sortRows(result, sortSpec.Column, sortSpec.Desc())
	}

	if len(result.Rows) == 0 {
		return result, MsgNoData, nil
	}
	return result, "", nil
}

// CellText renders a cell value as trimmed text, the representation both
// status-filter comparisons use. nil becomes the empty string.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func isBlank(v any) bool {
	return v == nil || CellText(v) == ""
}

// equalsID compares a cell against the employee filter value numerically,
// accepting the integer, float, and numeric-text shapes drivers produce.
func equalsID(v any, want int64) bool {
	switch x := v.(type) {
	case nil:
		return false
	case int64:
		return x == want
	case int32:
		return int64(x) == want
	case int:
		return int64(x) == want
	case int16:
		return int64(x) == want
	case int8:
		return int64(x) == want
	case uint64:
		return want >= 0 && x == uint64(want)
	case uint32:
		return int64(x) == want
	case float64:
		return x == float64(want)
	case float32:
		return float64(x) == float64(want)
	case string:
		return textEqualsID(x, want)
	case []byte:
		return textEqualsID(string(x), want)
	default:
		return false
	}
}

func textEqualsID(s string, want int64) bool {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n == want
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f == float64(want)
	}
	return false
}

// sortRows stable-sorts rows by one column. Nulls order last regardless of
// direction, mirroring how the report behaved before the Go port.
func sortRows(t *Table, column string, desc bool) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i][column], t.Rows[j][column]
		if a == nil || b == nil {
			if a == nil && b == nil {
				return false
			}
			return b == nil
		}
		c := compareValues(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}

// compareValues defines the total ordering used by sortRows: numbers compare
// numerically across integer/float types, strings byte-wise, booleans
// false-before-true, timestamps chronologically. Values of mismatched or
// unknown types fall back to their printed representation.
func compareValues(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if as, aok := asString(a); aok {
		if bs, bok := asString(b); bok {
			return strings.Compare(as, bs)
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0
			case bb:
				return -1
			default:
				return 1
			}
		}
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return at.Compare(bt)
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int:
		return float64(x), true
	case int16:
		return float64(x), true
	case int8:
		return float64(x), true
	case uint64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	default:
		return 0, false
	}
}

func asString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return "", false
	}
}
