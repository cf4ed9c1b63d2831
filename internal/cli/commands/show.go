package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/config"
	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Employee int64
	Status   string
	Sort     string
	Desc     bool
	Limit    int
	Format   string
	View     string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the report table to the terminal",
		Long: `Load the personnel military report and print a filtered, sorted view.

Filtering matches the web UI: --employee filters on Person_Instance_ID,
--status on the military status column (pass __NONE__ for rows with no
recorded status). Supports multiple output formats for scripting.`,
		Example: `  # Full table
  milgrid show

  # One employee
  milgrid show --employee 100234

  # Exempt personnel, sorted by name
  milgrid show --status "معفى" --sort Person_Full_Name

  # Rows with no recorded status, as JSON
  milgrid show --status __NONE__ --format json

  # Reapply a saved view
  milgrid show --view conscripts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, opts)
		},
	}

	// Flags
	cmd.Flags().Int64Var(&opts.Employee, "employee", 0, "Filter by employee ID (Person_Instance_ID)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by military status (__NONE__ for empty)")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort by column")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Limit printed rows (0 = all)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVar(&opts.View, "view", "", "Apply a saved view by name")

	_ = cmd.RegisterFlagCompletionFunc("status", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		statuses := make([]string, 0, len(report.MilitaryStatuses)+1)
		statuses = append(statuses, report.MilitaryStatuses...)
		statuses = append(statuses, report.StatusNone)
		return statuses, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "csv", "md"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Subcommands
	cmd.AddCommand(newShowColumnsCommand(opts))
	cmd.AddCommand(newShowStatusesCommand())
	cmd.AddCommand(newShowViewsCommand(opts))

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	table, err := loadDataset(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	criteria, sortSpec, err := showQuery(cmd, cfg, opts)
	if err != nil {
		return err
	}

	view, msg, err := report.Apply(table, criteria, sortSpec)
	if err != nil {
		return err
	}

	return renderShow(cmd.OutOrStdout(), view, msg, opts.Format, opts.Limit, table.RowCount())
}

// showQuery builds the filter criteria and sort from flags, or from a saved
// view when --view is given. Flags and --view are mutually exclusive.
func showQuery(cmd *cobra.Command, cfg *config.Config, opts *ShowOptions) (report.FilterCriteria, report.SortSpec, error) {
	if opts.View != "" {
		for _, name := range []string{"employee", "status", "sort", "desc"} {
			if cmd.Flags().Changed(name) {
				return report.FilterCriteria{}, report.SortSpec{}, fmt.Errorf("--view cannot be combined with --%s", name)
			}
		}

		store, cleanup, err := openStateStore(cfg)
		if err != nil {
			return report.FilterCriteria{}, report.SortSpec{}, err
		}
		defer cleanup()

		saved, err := findViewByName(store, opts.View)
		if err != nil {
			return report.FilterCriteria{}, report.SortSpec{}, err
		}
		criteria, sortSpec := saved.Query()
		return criteria, sortSpec, nil
	}

	criteria := report.FilterCriteria{MilitaryStatus: opts.Status}
	if cmd.Flags().Changed("employee") {
		criteria.EmployeeID = &opts.Employee
	}

	sortSpec := report.SortSpec{Column: opts.Sort, Direction: report.Ascending}
	if opts.Desc {
		sortSpec.Direction = report.Descending
	}
	return criteria, sortSpec, nil
}

// findViewByName looks a saved view up by name (case-insensitive), falling
// back to an ID match.
func findViewByName(store state.Store, name string) (*state.SavedView, error) {
	views, err := store.ListViews()
	if err != nil {
		return nil, fmt.Errorf("failed to list saved views: %w", err)
	}
	for _, v := range views {
		if strings.EqualFold(v.Name, name) || v.ID == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("saved view %q not found (run 'milgrid show views' to list)", name)
}

// newShowColumnsCommand creates the columns subcommand.
func newShowColumnsCommand(opts *ShowOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List dataset columns",
		Long: `List the columns of the loaded report dataset.

The column serving as the military status filter is marked; it is located
by name with a fuzzy match, so a renamed variant like EXT_Ar_Military
still qualifies.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			logger := config.GetLogger(cmd.Context())

			table, err := loadDataset(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			return renderColumns(cmd.OutOrStdout(), table, opts.Format)
		},
	}
}

// newShowStatusesCommand creates the statuses subcommand.
func newShowStatusesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List selectable military status values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			for _, s := range report.MilitaryStatuses {
				fmt.Fprintln(w, s)
			}
			fmt.Fprintf(w, "%s\t(no status recorded)\n", report.StatusNone)
			return nil
		},
	}
}

// newShowViewsCommand creates the views subcommand.
func newShowViewsCommand(opts *ShowOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List saved views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()

			store, cleanup, err := openStateStore(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			views, err := store.ListViews()
			if err != nil {
				return fmt.Errorf("failed to list saved views: %w", err)
			}
			return renderViews(cmd.OutOrStdout(), views, opts.Format)
		},
	}
}
