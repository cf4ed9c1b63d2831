// Package commands implements the milgrid subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/cli/output"
	"github.com/leapstack-labs/milgrid/internal/config"
	"github.com/leapstack-labs/milgrid/internal/loader"
	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
	"github.com/leapstack-labs/milgrid/pkg/adapter"
	_ "github.com/leapstack-labs/milgrid/pkg/adapters/duckdb"   // register duckdb adapter
	_ "github.com/leapstack-labs/milgrid/pkg/adapters/postgres" // register postgres adapter
	_ "github.com/leapstack-labs/milgrid/pkg/adapters/sqlite"   // register sqlite adapter
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.OutputMode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	sourceType := getEnvOrDefault("MILGRID_SOURCE_TYPE", config.DefaultSourceType)
	sourcePath := getEnvOrDefault("MILGRID_SOURCE_PATH", ":memory:")
	query := getEnvOrDefault("MILGRID_SOURCE_QUERY", config.DefaultQuery)
	statePath := getEnvOrDefault("MILGRID_STATE_PATH", config.DefaultStateFile)
	verbose := os.Getenv("MILGRID_VERBOSE") == "true"
	outputFormat := os.Getenv("MILGRID_OUTPUT")

	return &config.Config{
		Source: config.SourceConfig{
			Type:    sourceType,
			Path:    sourcePath,
			Query:   query,
			Timeout: config.DefaultTimeout,
		},
		UI: config.UIConfig{
			Host: config.DefaultUIHost,
			Port: config.DefaultUIPort,
		},
		State:        config.StateConfig{Path: statePath},
		Log:          config.LogConfig{Level: config.DefaultLogLevel, Format: config.DefaultLogFormat},
		Verbose:      verbose,
		OutputFormat: outputFormat,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// connectSource connects to the configured source database.
// Returns the adapter and a cleanup function that must be called (typically via defer).
func connectSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (adapter.Adapter, func(), error) {
	adp, err := adapter.New(cfg.Source.AdapterConfig(), logger)
	if err != nil {
		return nil, nil, err
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()

	if err := adp.Connect(connectCtx, cfg.Source.AdapterConfig()); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s source: %w", cfg.Source.Type, err)
	}

	cleanup := func() {
		_ = adp.Close()
	}
	return adp, cleanup, nil
}

// loadDataset connects to the source and runs the report query, returning
// the in-memory table every command operates on.
func loadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*report.Table, error) {
	adp, cleanup, err := connectSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()

	table, err := loader.Load(loadCtx, adp, cfg.Source.Query, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load report dataset: %w", err)
	}
	return table, nil
}

// openStateStore opens (and migrates) the saved-views store.
// Returns the store and a cleanup function that must be called (typically via defer).
func openStateStore(cfg *config.Config) (state.Store, func(), error) {
	// Ensure state directory exists
	if cfg.State.Path != ":memory:" {
		stateDir := filepath.Dir(cfg.State.Path)
		if stateDir != "." && stateDir != "" {
			if err := os.MkdirAll(stateDir, 0750); err != nil {
				return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.State.Path); err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	cleanup := func() {
		_ = store.Close()
	}
	return store, cleanup, nil
}
