package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/cli/output"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display milgrid version and build information.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.OutputMode(cfg.OutputFormat))

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(output.VersionOutput{
					Version: version,
					Commit:  commit,
					Date:    date,
				})
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "milgrid v%s\n", version)
			if commit != "unknown" && commit != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit: %s (built %s)\n", commit, date)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Personnel Military Data Viewer")
			return nil
		},
	}
}
