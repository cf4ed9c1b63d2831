package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/config"
	"github.com/leapstack-labs/milgrid/internal/tui"
)

// NewTUICommand creates the terminal browser command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the report in a full-screen terminal table",
		Long: `Browse the loaded report dataset in a full-screen terminal table.

The browser offers the same controls as the web table: an employee ID
filter, the military status categories (including the blank bucket), and
a stable sort on any column. Press ? inside the browser for the full key
reference.`,
		Example: `  # Browse with the configured source
  milgrid tui

  # Browse a DuckDB snapshot
  milgrid tui --source duckdb --database ./personnel.db`,
		Args: cobra.NoArgs,
		RunE: runTUI,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	table, err := loadDataset(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	store, cleanup, err := openStateStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.Run(tui.Config{Table: table, Store: store})
}
