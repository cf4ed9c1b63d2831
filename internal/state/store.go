// Package state persists saved report views in a local SQLite database.
//
// A saved view is a named snapshot of the grid controls: the employee ID
// filter, the military status selection, and the sort. Reapplying a view
// recomputes the grid from the full dataset; nothing about the data itself
// is stored here.
package state

import (
	"time"

	"github.com/leapstack-labs/milgrid/internal/report"
)

// SavedView is a named filter/sort combination.
type SavedView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EmployeeID     *int64    `json:"employee_id,omitempty"`
	MilitaryStatus string    `json:"military_status,omitempty"`
	SortColumn     string    `json:"sort_column,omitempty"`
	SortDirection  string    `json:"sort_direction,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Query converts the view back into the criteria and sort it captured.
func (v *SavedView) Query() (report.FilterCriteria, report.SortSpec) {
	return report.FilterCriteria{
			EmployeeID:     v.EmployeeID,
			MilitaryStatus: v.MilitaryStatus,
		}, report.SortSpec{
			Column:    v.SortColumn,
			Direction: v.SortDirection,
		}
}

// Store is the interface for saved view persistence.
type Store interface {
	// Open opens the store at the given path (":memory:" for in-memory).
	Open(path string) error

	// Close closes the store.
	Close() error

	// Migrate brings the schema up to date.
	Migrate() error

	// SaveView persists a view. A missing ID and CreatedAt are filled in.
	SaveView(view *SavedView) error

	// GetView retrieves a view by ID.
	GetView(id string) (*SavedView, error)

	// ListViews returns all views, newest first.
	ListViews() ([]*SavedView, error)

	// DeleteView removes a view by ID.
	DeleteView(id string) error
}
