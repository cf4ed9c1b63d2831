package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/cli/output"
	"github.com/leapstack-labs/milgrid/internal/config"
	"github.com/leapstack-labs/milgrid/internal/loader"
	"github.com/leapstack-labs/milgrid/internal/report"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format string // Output format: text, json
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the source connection and dataset health",
		Long: `Diagnose the configured source and the report dataset it produces.

The check command runs connectivity and dataset checks:
- Source configuration and connectivity
- Report query execution
- Filter columns (employee ID, military status)
- Status values against the known vocabulary
- State database access

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run checks
  milgrid check

  # Output as JSON
  milgrid check --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")

	return cmd
}

// Check statuses, mirrored in CheckSummary counters.
const (
	checkPass = "pass"
	checkWarn = "warn"
	checkFail = "error"
)

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.OutputMode(opts.Format))
	}

	checkOutput := buildCheckOutput(cmd.Context(), cmdCtx.Cfg, cmdCtx.Logger)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(checkOutput)
	case output.ModeMarkdown:
		return renderCheckMarkdown(r, checkOutput)
	default:
		return renderCheckText(r, checkOutput)
	}
}

// checkRun accumulates results while the checks execute. Checks with failed
// prerequisites are omitted rather than reported as failures.
type checkRun struct {
	checks          []output.HealthCheck
	recommendations []string
	table           *report.Table
}

func (c *checkRun) add(group, name, status string, details ...string) {
	c.checks = append(c.checks, output.HealthCheck{
		Name:    name,
		Group:   group,
		Status:  status,
		Details: details,
	})
}

func (c *checkRun) recommend(rec string) {
	for _, r := range c.recommendations {
		if r == rec {
			return
		}
	}
	c.recommendations = append(c.recommendations, rec)
}

func buildCheckOutput(ctx context.Context, cfg *config.Config, logger *slog.Logger) *output.CheckOutput {
	run := &checkRun{}

	if run.checkSource(ctx, cfg, logger) {
		run.checkDataset()
	}
	run.checkState(cfg)

	return run.output()
}

// checkSource validates the source settings, connects, and loads the report
// dataset. Returns false when the dataset could not be loaded.
func (c *checkRun) checkSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) bool {
	if err := cfg.Source.Validate(); err != nil {
		c.add("source", "Source configuration", checkFail, err.Error())
		c.recommend("Fix the source settings in milgrid.yaml (run 'milgrid init' to scaffold one)")
		return false
	}
	c.add("source", "Source configuration", checkPass, describeSource(cfg))

	adp, cleanup, err := connectSource(ctx, cfg, logger)
	if err != nil {
		c.add("source", "Source connectivity", checkFail, err.Error())
		c.recommend("Verify the source database is reachable and credentials are set")
		return false
	}
	defer cleanup()

	if err := adp.Ping(ctx); err != nil {
		c.add("source", "Source connectivity", checkFail, err.Error())
		c.recommend("Verify the source database is reachable and credentials are set")
		return false
	}
	c.add("source", "Source connectivity", checkPass)

	loadCtx, cancel := context.WithTimeout(ctx, cfg.Source.Timeout)
	defer cancel()

	table, err := loader.Load(loadCtx, adp, cfg.Source.Query, logger)
	if err != nil {
		c.add("dataset", "Report query", checkFail, err.Error())
		c.recommend("Check source.query in milgrid.yaml against the source schema")
		return false
	}
	c.table = table
	c.add("dataset", "Report query", checkPass,
		fmt.Sprintf("%d rows, %d columns", table.RowCount(), len(table.Columns)))
	return true
}

// checkDataset inspects the loaded table for the columns and values the
// filters depend on.
func (c *checkRun) checkDataset() {
	t := c.table

	if t.HasColumn(report.EmployeeIDColumn) {
		c.add("dataset", "Employee ID column", checkPass, report.EmployeeIDColumn)
	} else {
		c.add("dataset", "Employee ID column", checkWarn,
			fmt.Sprintf("%s not in result; the employee filter is unavailable", report.EmployeeIDColumn))
		c.recommend(fmt.Sprintf("Ensure the report query returns %s to enable the employee filter", report.EmployeeIDColumn))
	}

	statusCol, ok := report.Resolve(t, report.MilitaryColumn)
	if !ok {
		c.add("dataset", "Military status column", checkFail, report.MsgColumnNotFound)
		c.recommend(fmt.Sprintf("Ensure the report query returns an %s column (renamed variants are matched by substring)", report.MilitaryColumn))
		return
	}
	if statusCol == report.MilitaryColumn {
		c.add("dataset", "Military status column", checkPass, statusCol)
	} else {
		c.add("dataset", "Military status column", checkPass,
			fmt.Sprintf("resolved to %s", statusCol))
	}

	known := make(map[string]bool, len(report.MilitaryStatuses))
	for _, s := range report.MilitaryStatuses {
		known[s] = true
	}

	distinct := map[string]bool{}
	var unknown []string
	for _, row := range t.Rows {
		v := report.CellText(row[statusCol])
		if v == "" || distinct[v] {
			continue
		}
		distinct[v] = true
		if !known[v] {
			unknown = append(unknown, v)
		}
	}

	if len(unknown) > 0 {
		c.add("dataset", "Status values", checkWarn, unknown...)
		c.recommend("Review unrecognized status values; they cannot be selected in the status filter")
	} else {
		c.add("dataset", "Status values", checkPass,
			fmt.Sprintf("%d distinct values, all recognized", len(distinct)))
	}
}

func (c *checkRun) checkState(cfg *config.Config) {
	_, cleanup, err := openStateStore(cfg)
	if err != nil {
		c.add("state", "State database", checkFail, err.Error())
		c.recommend("Check permissions on the state directory")
		return
	}
	cleanup()
	c.add("state", "State database", checkPass, cfg.State.Path)
}

func (c *checkRun) output() *output.CheckOutput {
	summary := output.CheckSummary{}
	for _, check := range c.checks {
		switch check.Status {
		case checkWarn:
			summary.Warned++
		case checkFail:
			summary.Failed++
		default:
			summary.Passed++
		}
	}
	if c.table != nil {
		summary.Rows = c.table.RowCount()
		summary.Columns = len(c.table.Columns)
	}

	// Limit to top 5 recommendations
	recommendations := c.recommendations
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	return &output.CheckOutput{
		Checks:          c.checks,
		Recommendations: recommendations,
		Summary:         summary,
	}
}

// describeSource renders the source target in one line.
func describeSource(cfg *config.Config) string {
	s := cfg.Source
	if s.Host != "" {
		target := s.Host
		if s.Port > 0 {
			target = fmt.Sprintf("%s:%d", s.Host, s.Port)
		}
		if s.Database != "" {
			target += "/" + s.Database
		}
		return fmt.Sprintf("%s: %s", strings.ToLower(s.Type), target)
	}
	return fmt.Sprintf("%s: %s", strings.ToLower(s.Type), s.Path)
}

func renderCheckText(r *output.Renderer, out *output.CheckOutput) error {
	styles := r.Styles()

	// Header
	r.Println("")
	r.Println(styles.Header1.Render("Milgrid Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.StatusSuccess.String()
		switch check.Status {
		case checkWarn:
			icon = styles.Warning.Render("!")
		case checkFail:
			icon = styles.StatusFailed.String()
		}

		r.Println("   " + icon + " " + check.Name)

		// Show first 3 details
		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	// Summary
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	summaryStyle := styles.Success
	if out.Summary.Warned > 0 {
		summaryStyle = styles.Warning
	}
	if out.Summary.Failed > 0 {
		summaryStyle = styles.Error
	}
	r.Printf("   %s\n", summaryStyle.Render(fmt.Sprintf("%d passed, %d warnings, %d failed",
		out.Summary.Passed, out.Summary.Warned, out.Summary.Failed)))
	if out.Summary.Rows > 0 || out.Summary.Columns > 0 {
		r.Printf("   Dataset: %d rows, %d columns\n", out.Summary.Rows, out.Summary.Columns)
	}
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}

func renderCheckMarkdown(r *output.Renderer, out *output.CheckOutput) error {
	r.Println("# Milgrid Health Report")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("## " + titleCaser.String(currentGroup))
			r.Println("")
		}

		status := "PASS"
		switch check.Status {
		case checkWarn:
			status = "WARN"
		case checkFail:
			status = "FAIL"
		}

		r.Printf("- **[%s]** %s\n", status, check.Name)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	// Summary
	r.Println("## Summary")
	r.Println("")
	r.Printf("- **Passed**: %d\n", out.Summary.Passed)
	r.Printf("- **Warnings**: %d\n", out.Summary.Warned)
	r.Printf("- **Failed**: %d\n", out.Summary.Failed)
	if out.Summary.Rows > 0 || out.Summary.Columns > 0 {
		r.Printf("- **Dataset**: %d rows, %d columns\n", out.Summary.Rows, out.Summary.Columns)
	}
	r.Println("")

	// Recommendations
	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}

	return nil
}
