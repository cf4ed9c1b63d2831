package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	// Enable foreign keys, and WAL mode for file-backed stores
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// SaveView persists a view. A missing ID and CreatedAt are filled in.
func (s *SQLiteStore) SaveView(view *SavedView) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if view.Name == "" {
		return fmt.Errorf("view name is required")
	}

	if view.ID == "" {
		view.ID = generateID()
	}
	if view.CreatedAt.IsZero() {
		view.CreatedAt = time.Now().UTC()
	}

	var employeeID any
	if view.EmployeeID != nil {
		employeeID = *view.EmployeeID
	}

	_, err := s.db.Exec(
		`INSERT INTO saved_views (id, name, employee_id, military_status, sort_column, sort_direction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		view.ID, view.Name, employeeID, view.MilitaryStatus, view.SortColumn, view.SortDirection, view.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save view: %w", err)
	}

	return nil
}

// GetView retrieves a view by ID.
func (s *SQLiteStore) GetView(id string) (*SavedView, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	view := &SavedView{}
	var employeeID sql.NullInt64

	err := s.db.QueryRow(
		`SELECT id, name, employee_id, military_status, sort_column, sort_direction, created_at
		 FROM saved_views WHERE id = ?`,
		id,
	).Scan(&view.ID, &view.Name, &employeeID, &view.MilitaryStatus, &view.SortColumn, &view.SortDirection, &view.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("saved view not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view: %w", err)
	}

	if employeeID.Valid {
		view.EmployeeID = &employeeID.Int64
	}

	return view, nil
}

// ListViews returns all views, newest first.
func (s *SQLiteStore) ListViews() ([]*SavedView, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, name, employee_id, military_status, sort_column, sort_direction, created_at
		 FROM saved_views ORDER BY created_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var views []*SavedView
	for rows.Next() {
		view := &SavedView{}
		var employeeID sql.NullInt64

		err := rows.Scan(&view.ID, &view.Name, &employeeID, &view.MilitaryStatus, &view.SortColumn, &view.SortDirection, &view.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}

		if employeeID.Valid {
			view.EmployeeID = &employeeID.Int64
		}
		views = append(views, view)
	}

	return views, rows.Err()
}

// DeleteView removes a view by ID.
func (s *SQLiteStore) DeleteView(id string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	result, err := s.db.Exec(`DELETE FROM saved_views WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete view: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("saved view not found: %s", id)
	}

	return nil
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
