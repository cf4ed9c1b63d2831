package report

import "strings"

// Resolve locates the actual column for a logical target name.
//
// The target is normalized by trimming whitespace and lowercasing. The first
// pass returns the first declared column whose normalized name equals the
// target; the second pass (only when the first finds nothing) returns the
// first declared column whose normalized name contains the target as a
// substring. Columns with blank names are skipped in both passes. Scan order
// is declaration order, so the first declared match always wins.
func Resolve(t *Table, target string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(target))

	for _, c := range t.Columns {
		name := strings.ToLower(strings.TrimSpace(c))
		if name == "" {
			continue
		}
		if name == want {
			return c, true
		}
	}

	for _, c := range t.Columns {
		name := strings.ToLower(strings.TrimSpace(c))
		if name == "" {
			continue
		}
		if strings.Contains(name, want) {
			return c, true
		}
	}

	return "", false
}
