// Package grid serves the personnel military data grid: the page shell,
// the SSE apply endpoint behind the filter and sort controls, and the
// saved-view actions.
package grid

import "github.com/leapstack-labs/milgrid/internal/state"

// Signals are the datastar signals the frontend round-trips on every
// control change. Employee ID travels as text; blank means no filter.
type Signals struct {
	EmpID    string `json:"empid"`
	Military string `json:"military"`
	SortCol  string `json:"sortcol"`
	SortDir  string `json:"sortdir"`
	ViewName string `json:"viewname"`
}

// StatusOption is one entry of the military-status dropdown.
type StatusOption struct {
	Value string
	Label string
}

// GridData is the rendered state of the report view fragment. Message is
// display text and already carries the UI warning prefix when set.
type GridData struct {
	Message string
	Columns []string
	Rows    [][]string
	Count   int
	Total   int
}

// ViewsData is the rendered state of the saved-views panel.
type ViewsData struct {
	Views []*state.SavedView
}

// PageData feeds the full page template. WindowTitle is the browser tab
// title; Title is the navbar brand.
type PageData struct {
	WindowTitle string
	Title       string
	Subtitle    string
	IsDev       bool
	SignalsJSON string
	Statuses    []StatusOption
	Columns     []string
	Grid        GridData
	Views       ViewsData
}
