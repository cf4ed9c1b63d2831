// Package config provides configuration management for milgrid.
//
// Configuration is loaded from milgrid.yaml, environment variables with the
// MILGRID_ prefix, and CLI flags, in increasing order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/milgrid/pkg/adapter"
)

// SourceConfig describes the database the report dataset is loaded from.
type SourceConfig struct {
	Type string `koanf:"type"` // duckdb, sqlite, postgres

	// File-based databases (DuckDB, SQLite)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Query is the statement that produces the report dataset. It runs once
	// at startup; all filtering and sorting happens in memory afterwards.
	Query string `koanf:"query"`

	// Timeout bounds the initial connect-and-load phase.
	Timeout time.Duration `koanf:"timeout"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the source section into an adapter.Config.
func (s *SourceConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     strings.ToLower(s.Type),
		Host:     s.Host,
		Port:     s.Port,
		Database: s.Database,
		User:     s.User,
		Password: s.Password,
		Path:     s.Path,
		Params:   s.Params,
	}
}

// Validate checks if the source configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (s *SourceConfig) Validate() error {
	if s.Type == "" {
		return fmt.Errorf("source type is required")
	}

	// Use adapter registry as single source of truth
	if !adapter.IsRegistered(strings.ToLower(s.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      s.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if strings.TrimSpace(s.Query) == "" {
		return fmt.Errorf("source query is required")
	}

	return nil
}

// UIConfig holds configuration for the report web server.
type UIConfig struct {
	Host          string `koanf:"host"`
	Port          int    `koanf:"port"`
	AutoOpen      bool   `koanf:"auto_open"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// ListenAddr returns the host:port the web server binds to.
func (u *UIConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", u.Host, u.Port)
}

// StateConfig holds configuration for the saved-views store.
type StateConfig struct {
	Path string `koanf:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// Config holds all milgrid configuration options.
type Config struct {
	Source       SourceConfig `koanf:"source"`
	UI           UIConfig     `koanf:"ui"`
	State        StateConfig  `koanf:"state"`
	Log          LogConfig    `koanf:"log"`
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`

	// ProjectRoot is the directory relative paths resolve against.
	// Set by the loader, never read from a file.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultSourceType = "duckdb"
	DefaultQuery      = "EXEC Rpt_Personnel_Military_Data 92, null, 1, null, null, 1, 0, null, null"
	DefaultUIHost     = "0.0.0.0"
	DefaultUIPort     = 8050
	DefaultStateFile  = ".milgrid/state.db"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultTimeout    = 30 * time.Second
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return err
	}
	if c.UI.Port <= 0 || c.UI.Port > 65535 {
		return fmt.Errorf("ui port %d is out of range", c.UI.Port)
	}
	return nil
}
