// Package adapter defines the database adapter contract milgrid loads the
// report dataset through, plus the registry concrete adapters register into.
//
// Concrete implementations live in pkg/adapters/ subdirectories and register
// themselves via init(), so importing an adapter package with a blank
// identifier is enough to make its type available.
package adapter

import (
	"context"
	"database/sql"
)

// Config carries everything an adapter needs to reach its database. Path is
// used by file-backed engines (duckdb, sqlite); the network fields by
// server-backed ones. Params holds engine-specific extras (sslmode, duckdb
// settings) decoded by the adapter that understands them.
type Config struct {
	Type     string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	Path     string
	Params   map[string]any
}

// Adapter is the interface all database adapters implement.
type Adapter interface {
	// Type returns the registered adapter type name (e.g. "postgres").
	Type() string

	// Connect establishes the database connection described by cfg.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection and releases resources.
	Close() error

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, sqlStr string, args ...any) error

	// Query runs a statement that returns rows. The caller owns the rows and
	// must close them.
	Query(ctx context.Context, sqlStr string, args ...any) (*sql.Rows, error)

	// IsConnected reports whether Connect has succeeded.
	IsConnected() bool
}
