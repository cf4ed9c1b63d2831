package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/cli/output"
	"github.com/leapstack-labs/milgrid/internal/config"
	"github.com/leapstack-labs/milgrid/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web table server",
		Long: `Start a local web server for browsing the personnel military report.

The report query runs once at startup and the result is held in memory;
filters and sorting in the browser never touch the source database.
Restart the server to pick up new data.`,
		Example: `  # Start on the configured host and port
  milgrid serve

  # Start on a custom port and open the browser
  milgrid serve --port 3000 --open

  # Load from a specific DuckDB file
  milgrid serve --source duckdb --database ./personnel.db`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.OutputMode(cfg.OutputFormat))

	spin := r.NewSpinner("Loading report dataset...")
	if r.EffectiveMode() == output.ModeText {
		spin.Start()
	}
	table, err := loadDataset(cmd.Context(), cfg, logger)
	if err != nil {
		spin.Fail("Report dataset load failed")
		return err
	}
	spin.Success(fmt.Sprintf("Loaded %d rows, %d columns", table.RowCount(), len(table.Columns)))

	store, cleanup, err := openStateStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	server := ui.NewServer(ui.Config{
		Table:         table,
		Store:         store,
		Host:          cfg.UI.Host,
		Port:          cfg.UI.Port,
		Watch:         cfg.UI.Watch,
		SessionSecret: sessionSecret(cfg),
		Logger:        logger,
	})

	// Open browser if configured
	if cfg.UI.AutoOpen {
		url := fmt.Sprintf("http://localhost:%d", cfg.UI.Port)
		go openBrowser(url)
	}

	r.Printf("Starting web server on http://localhost:%d\n", cfg.UI.Port)
	r.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		r.Println("\nShutting down...")
		cancel()
	}()

	return server.Serve(ctx)
}

// sessionSecret returns the cookie session secret.
// Config takes priority, then the environment, then a development default.
func sessionSecret(cfg *config.Config) string {
	if cfg.UI.SessionSecret != "" {
		return cfg.UI.SessionSecret
	}
	if secret := os.Getenv("MILGRID_SESSION_SECRET"); secret != "" {
		return secret
	}
	// Default secret for development (nolint:gosec)
	return "milgrid-dev-secret-change-in-production" //nolint:gosec
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
