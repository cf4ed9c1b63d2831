package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/milgrid/internal/config"
	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
)

// REPLOptions holds options for the repl command.
type REPLOptions struct {
	Format string
	Limit  int
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &REPLOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively filter the report",
		Long: `Start an interactive shell over the loaded report.

The dataset is loaded once at startup; commands adjust the employee and
military-status filters and the sort, and 'show' prints the resulting
view. Views can be saved and reloaded by name.`,
		Example: `  milgrid repl

  milgrid> employee 100234
  milgrid> status معفى
  milgrid> sort Person_Full_Name desc
  milgrid> show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Limit printed rows (0 = all)")

	return cmd
}

// replSession holds interactive state: the immutable dataset plus the current
// filter and sort selections.
type replSession struct {
	table    *report.Table
	store    state.Store
	criteria report.FilterCriteria
	sortSpec report.SortSpec
	format   string
	limit    int
}

func runREPL(cmd *cobra.Command, opts *REPLOptions) error {
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

	sess := &replSession{
		table:  table,
		store:  store,
		format: opts.Format,
		limit:  opts.Limit,
	}

	// History lives next to the state database
	historyFile := filepath.Join(filepath.Dir(cfg.State.Path), "repl_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "milgrid> ",
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(table),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Milgrid REPL (%d rows, %d columns)\n", table.RowCount(), len(table.Columns))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := handleREPLDotCommand(cmd, sess, line); quit {
				break
			}
			continue
		}

		if err := handleREPLCommand(cmd, sess, line); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}

	return nil
}

func handleREPLCommand(cmd *cobra.Command, sess *replSession, line string) error {
	out := cmd.OutOrStdout()
	parts := strings.Fields(line)
	verb := strings.ToLower(parts[0])
	args := parts[1:]

	switch verb {
	case "show":
		return sess.render(out)

	case "employee":
		if len(args) != 1 {
			return errors.New("usage: employee <id> (or 'employee clear')")
		}
		if strings.EqualFold(args[0], "clear") {
			sess.criteria.EmployeeID = nil
		} else {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid employee ID %q", args[0])
			}
			sess.criteria.EmployeeID = &id
		}
		_, _ = fmt.Fprintln(out, sess.selection())
		return nil

	case "status":
		if len(args) == 0 {
			return errors.New("usage: status <value> (or 'status none', 'status clear')")
		}
		value := strings.Join(args, " ")
		switch strings.ToLower(value) {
		case "clear":
			sess.criteria.MilitaryStatus = ""
		case "none":
			sess.criteria.MilitaryStatus = report.StatusNone
		default:
			sess.criteria.MilitaryStatus = value
		}
		_, _ = fmt.Fprintln(out, sess.selection())
		return nil

	case "sort":
		if len(args) == 0 {
			return errors.New("usage: sort <column> [asc|desc] (or 'sort clear')")
		}
		if len(args) == 1 && strings.EqualFold(args[0], "clear") {
			sess.sortSpec = report.SortSpec{}
			_, _ = fmt.Fprintln(out, sess.selection())
			return nil
		}
		direction := report.Ascending
		last := strings.ToLower(args[len(args)-1])
		if last == report.Ascending || last == report.Descending {
			direction = last
			args = args[:len(args)-1]
		}
		column := strings.Join(args, " ")
		if !sess.table.HasColumn(column) {
			return fmt.Errorf("unknown column %q (type .columns to list)", column)
		}
		sess.sortSpec = report.SortSpec{Column: column, Direction: direction}
		_, _ = fmt.Fprintln(out, sess.selection())
		return nil

	case "reset":
		sess.criteria = report.FilterCriteria{}
		sess.sortSpec = report.SortSpec{}
		_, _ = fmt.Fprintln(out, "Filters cleared.")
		return nil

	case "save":
		if len(args) == 0 {
			return errors.New("usage: save <name>")
		}
		name := strings.Join(args, " ")
		view := &state.SavedView{
			Name:           name,
			EmployeeID:     sess.criteria.EmployeeID,
			MilitaryStatus: sess.criteria.MilitaryStatus,
			SortColumn:     sess.sortSpec.Column,
			SortDirection:  sess.sortSpec.Direction,
		}
		if err := sess.store.SaveView(view); err != nil {
			return fmt.Errorf("failed to save view: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Saved view %q.\n", name)
		return nil

	case "load":
		if len(args) == 0 {
			return errors.New("usage: load <name>")
		}
		saved, err := findViewByName(sess.store, strings.Join(args, " "))
		if err != nil {
			return err
		}
		sess.criteria, sess.sortSpec = saved.Query()
		_, _ = fmt.Fprintf(out, "Loaded view %q: %s\n", saved.Name, sess.selection())
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type .help for commands)", verb)
	}
}

func handleREPLDotCommand(cmd *cobra.Command, sess *replSession, line string) bool {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(out)

	case ".columns":
		if err := renderColumns(out, sess.table, "text"); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}

	case ".statuses":
		for _, s := range report.MilitaryStatuses {
			_, _ = fmt.Fprintln(out, s)
		}
		_, _ = fmt.Fprintf(out, "%s\t(no status recorded)\n", report.StatusNone)

	case ".views":
		views, err := sess.store.ListViews()
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			break
		}
		if err := renderViews(out, views, "table"); err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
		}

	case ".format":
		if len(parts) != 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .format <table|json|csv|md>")
			break
		}
		switch parts[1] {
		case "table", "json", "csv", "md", "markdown":
			sess.format = parts[1]
			_, _ = fmt.Fprintf(out, "Output format: %s\n", parts[1])
		default:
			_, _ = fmt.Fprintf(errOut, "Unknown format: %s\n", parts[1])
		}

	case ".limit":
		if len(parts) != 2 {
			_, _ = fmt.Fprintln(errOut, "Usage: .limit <n>")
			break
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 {
			_, _ = fmt.Fprintf(errOut, "Invalid limit: %s\n", parts[1])
			break
		}
		sess.limit = n

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(errOut, "Unknown command: %s (type .help for commands)\n", command)
	}

	return false
}

// render applies the current selections and prints the view.
func (s *replSession) render(w io.Writer) error {
	view, msg, err := report.Apply(s.table, s.criteria, s.sortSpec)
	if err != nil {
		return err
	}
	return renderShow(w, view, msg, s.format, s.limit, s.table.RowCount())
}

// selection describes the active filters in one line.
func (s *replSession) selection() string {
	var parts []string
	if s.criteria.EmployeeID != nil {
		parts = append(parts, fmt.Sprintf("employee=%d", *s.criteria.EmployeeID))
	}
	if s.criteria.MilitaryStatus != "" {
		parts = append(parts, "status="+s.criteria.MilitaryStatus)
	}
	if s.sortSpec.Column != "" {
		direction := report.Ascending
		if s.sortSpec.Desc() {
			direction = report.Descending
		}
		parts = append(parts, fmt.Sprintf("sort=%s %s", s.sortSpec.Column, direction))
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, ", ")
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  show                      Print the current view
  employee <id>             Filter by employee ID ('employee clear' to unset)
  status <value>            Filter by military status ('status none' for empty,
                            'status clear' to unset)
  sort <column> [asc|desc]  Sort by column ('sort clear' to unset)
  reset                     Clear all filters and sorting
  save <name>               Save the current filters as a named view
  load <name>               Reapply a saved view

  .help            Show this help message
  .columns         List dataset columns
  .statuses        List selectable military statuses
  .views           List saved views
  .format <fmt>    Set output format: table, json, csv, md
  .limit <n>       Limit printed rows (0 = all)
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - Use arrow keys to navigate history
  - Tab completion works for commands, columns, and statuses
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter creates a readline completer from the dataset columns and
// the status vocabulary.
func newREPLCompleter(t *report.Table) *readline.PrefixCompleter {
	columns := make([]readline.PrefixCompleterInterface, 0, len(t.Columns))
	for _, c := range t.Columns {
		columns = append(columns, readline.PcItem(c))
	}

	statuses := make([]readline.PrefixCompleterInterface, 0, len(report.MilitaryStatuses)+2)
	for _, s := range report.MilitaryStatuses {
		statuses = append(statuses, readline.PcItem(s))
	}
	statuses = append(statuses, readline.PcItem("none"), readline.PcItem("clear"))

	return readline.NewPrefixCompleter(
		readline.PcItem("show"),
		readline.PcItem("employee"),
		readline.PcItem("status", statuses...),
		readline.PcItem("sort", columns...),
		readline.PcItem("reset"),
		readline.PcItem("save"),
		readline.PcItem("load"),
		readline.PcItem(".help"),
		readline.PcItem(".columns"),
		readline.PcItem(".statuses"),
		readline.PcItem(".views"),
		readline.PcItem(".format"),
		readline.PcItem(".limit"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
