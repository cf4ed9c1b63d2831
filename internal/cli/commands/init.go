package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/cli/output"
	"github.com/leapstack-labs/milgrid/internal/config"
	"github.com/leapstack-labs/milgrid/internal/demo"
	"github.com/leapstack-labs/milgrid/pkg/adapter"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var withDemo bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new milgrid project",
		Long: `Initialize a new milgrid project with a configuration file.

This creates:
  - milgrid.yaml configuration file
  - .gitignore for local state and databases

Use --demo to also seed a local DuckDB database with a small personnel
dataset, so the report can be explored without a warehouse connection.`,
		Example: `  # Initialize in current directory
  milgrid init

  # Initialize with seeded demo data
  milgrid init --demo

  # Initialize in a new directory
  milgrid init my-report --demo

  # Force overwrite existing config
  milgrid init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			mode := output.OutputMode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			if withDemo {
				return runInitDemo(cmd.Context(), r, dir, force)
			}
			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&withDemo, "demo", false, "Seed a local DuckDB database with demo data")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := scaffold(r, "minimal", dir, force); err != nil {
		return err
	}

	r.Println("")
	r.Success("Milgrid project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Point source in milgrid.yaml at your database")
	r.Println("  2. Run 'milgrid check' to verify the connection")
	r.Println("  3. Run 'milgrid serve' to browse the report")

	return nil
}

func runInitDemo(ctx context.Context, r *output.Renderer, dir string, force bool) error {
	if err := scaffold(r, "demo", dir, force); err != nil {
		return err
	}

	ds, err := seedDemoDatabase(ctx, filepath.Join(dir, "milgrid.db"))
	if err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	r.StatusLine("milgrid.db", "success", fmt.Sprintf("%d rows", len(ds.Rows)))

	r.Println("")
	r.Success("Milgrid demo project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  milgrid show     Print the report to the terminal")
	r.Println("  milgrid serve    Browse the report in the browser")
	r.Println("  milgrid tui      Browse the report in the terminal")

	return nil
}

// scaffold copies a template into dir and reports each created file.
func scaffold(r *output.Renderer, template, dir string, force bool) error {
	// Create directory if specified and doesn't exist
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// Check if config already exists
	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	// List created files
	files, _ := listTemplateFiles(template)
	for _, f := range files {
		r.StatusLine(f, "success", "")
	}

	return nil
}

// seedDemoDatabase creates (or replaces) the demo dataset in a DuckDB file.
func seedDemoDatabase(ctx context.Context, path string) (*demo.Dataset, error) {
	cfg := adapter.Config{Type: "duckdb", Path: path}

	adp, err := adapter.New(cfg, config.GetLogger(ctx))
	if err != nil {
		return nil, err
	}
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	defer func() { _ = adp.Close() }()

	return demo.Seed(ctx, adp)
}
