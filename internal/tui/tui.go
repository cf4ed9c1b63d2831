// Package tui implements the full-screen terminal browser for the personnel
// military dataset. It presents the same filtered and sorted view the web
// table serves, driven by single-key bindings instead of form controls.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/milgrid/internal/report"
	"github.com/leapstack-labs/milgrid/internal/state"
)

// Config carries the dependencies of the browser. Store may be nil, in which
// case saving views is disabled.
type Config struct {
	Table *report.Table
	Store state.Store
}

// Run starts the browser in the alternate screen and blocks until the user
// quits.
func Run(cfg Config) error {
	_, err := tea.NewProgram(newModel(cfg), tea.WithAltScreen()).Run()
	return err
}

// inputMode tracks which prompt, if any, currently owns the keyboard.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeEmployee
	modeSave
)

// model is the bubbletea model for the dataset browser. The loaded dataset
// never changes; every filter or sort action recomputes the visible view
// from it.
type model struct {
	data  *report.Table
	store state.Store

	criteria report.FilterCriteria
	sortSpec report.SortSpec
	view     *report.Table
	msg      string

	grid   table.Model
	input  textinput.Model
	help   help.Model
	keys   keyMap
	mode   inputMode
	colIdx int
	notice string

	width  int
	height int
	ready  bool
}

func newModel(cfg Config) model {
	input := textinput.New()
	input.CharLimit = 64
	input.Width = 32

	m := model{
		data:  cfg.Table,
		store: cfg.Store,
		grid:  newGrid(),
		input: input,
		help:  help.New(),
		keys:  newKeyMap(),
	}
	m.refresh()
	return m
}

func newGrid() table.Model {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return table.New(table.WithFocused(true), table.WithStyles(s))
}

// statusCycle returns the choices the status key steps through: no filter,
// each known status in display order, then the blank bucket.
func statusCycle() []string {
	cycle := make([]string, 0, len(report.MilitaryStatuses)+2)
	cycle = append(cycle, "")
	cycle = append(cycle, report.MilitaryStatuses...)
	return append(cycle, report.StatusNone)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.layout()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Employee):
		m.mode = modeEmployee
		m.input.Prompt = "employee id> "
		m.input.Placeholder = "blank clears the filter"
		if m.criteria.EmployeeID != nil {
			m.input.SetValue(strconv.FormatInt(*m.criteria.EmployeeID, 10))
		} else {
			m.input.SetValue("")
		}
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Status):
		m.cycleStatus(1)
		return m, nil
	case key.Matches(msg, m.keys.StatusBack):
		m.cycleStatus(-1)
		return m, nil
	case key.Matches(msg, m.keys.ColLeft):
		m.moveColumn(-1)
		return m, nil
	case key.Matches(msg, m.keys.ColRight):
		m.moveColumn(1)
		return m, nil
	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		m.criteria = report.FilterCriteria{}
		m.sortSpec = report.SortSpec{}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		if m.store == nil {
			m.notice = "saving views is unavailable without a state store"
			return m, nil
		}
		m.mode = modeSave
		m.input.Prompt = "view name> "
		m.input.Placeholder = "e.g. deferred only"
		m.input.SetValue("")
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.grid, cmd = m.grid.Update(msg)
	return m, cmd
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		switch mode {
		case modeEmployee:
			m.applyEmployee(value)
		case modeSave:
			m.saveView(value)
		case modeBrowse:
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleStatus steps the status filter forward or backward through the cycle.
func (m *model) cycleStatus(step int) {
	cycle := statusCycle()
	idx := 0
	for i, s := range cycle {
		if s == m.criteria.MilitaryStatus {
			idx = i
			break
		}
	}
	idx = (idx + step + len(cycle)) % len(cycle)
	m.criteria.MilitaryStatus = cycle[idx]
	m.refresh()
}

// moveColumn shifts the column selection the sort key operates on.
func (m *model) moveColumn(step int) {
	n := len(m.data.Columns)
	if n == 0 {
		return
	}
	m.colIdx = (m.colIdx + step + n) % n
}

// cycleSort toggles the selected column through ascending, descending, and
// unsorted.
func (m *model) cycleSort() {
	if len(m.data.Columns) == 0 {
		return
	}
	col := m.data.Columns[m.colIdx]
	switch {
	case m.sortSpec.Column != col:
		m.sortSpec = report.SortSpec{Column: col, Direction: report.Ascending}
	case !m.sortSpec.Desc():
		m.sortSpec.Direction = report.Descending
	default:
		m.sortSpec = report.SortSpec{}
	}
	m.refresh()
}

// applyEmployee parses the prompt value. Empty input clears the filter.
func (m *model) applyEmployee(value string) {
	if value == "" {
		m.criteria.EmployeeID = nil
		m.refresh()
		return
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		m.notice = fmt.Sprintf("invalid employee ID %q", value)
		return
	}
	m.criteria.EmployeeID = &id
	m.refresh()
}

func (m *model) saveView(name string) {
	if name == "" {
		m.notice = "view name cannot be empty"
		return
	}
	view := &state.SavedView{
		Name:           name,
		EmployeeID:     m.criteria.EmployeeID,
		MilitaryStatus: m.criteria.MilitaryStatus,
		SortColumn:     m.sortSpec.Column,
		SortDirection:  m.sortSpec.Direction,
	}
	if err := m.store.SaveView(view); err != nil {
		m.notice = fmt.Sprintf("save failed: %v", err)
		return
	}
	m.notice = fmt.Sprintf("saved view %q", name)
}

// refresh recomputes the visible view and rebuilds the grid. Columns always
// come from the loaded dataset so the header stays in place even when the
// current selection matches nothing.
func (m *model) refresh() {
	view, msg, err := report.Apply(m.data, m.criteria, m.sortSpec)
	if err != nil {
		// The employee filter needs a column this dataset lacks. Drop the
		// filter rather than leaving the grid stuck.
		m.notice = err.Error()
		m.criteria.EmployeeID = nil
		view, msg, _ = report.Apply(m.data, m.criteria, m.sortSpec)
	}
	m.view, m.msg = view, msg

	cols := buildColumns(m.data, m.sortSpec)
	if m.ready {
		cols = fitColumns(cols, m.width)
	}
	m.grid.SetColumns(cols)
	m.grid.SetRows(buildRows(m.view, m.data.Columns))
	if m.grid.Cursor() >= len(m.view.Rows) {
		m.grid.SetCursor(0)
	}
}

// layout sizes the grid to the terminal, leaving room for the title, status
// line, message line, and help footer.
func (m *model) layout() {
	if !m.ready {
		return
	}
	chrome := 3 + lipgloss.Height(m.help.View(m.keys))
	h := m.height - chrome
	if h < 4 {
		h = 4
	}
	m.grid.SetHeight(h)
	m.grid.SetWidth(m.width)
}

const (
	minColumnWidth = 6
	maxColumnWidth = 28
)

// buildColumns sizes each column to its widest cell, clamped to a sane
// range, and marks the sorted column in its title.
func buildColumns(t *report.Table, spec report.SortSpec) []table.Column {
	cols := make([]table.Column, len(t.Columns))
	for i, name := range t.Columns {
		title := name
		if spec.Column == name {
			if spec.Desc() {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		width := lipgloss.Width(title)
		for _, row := range t.Rows {
			if w := lipgloss.Width(report.CellText(row[name])); w > width {
				width = w
			}
		}
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		cols[i] = table.Column{Title: title, Width: width}
	}
	return cols
}

// fitColumns shrinks column widths proportionally so the grid fits the
// terminal. Cell padding takes two cells per column.
func fitColumns(cols []table.Column, width int) []table.Column {
	if width <= 0 || len(cols) == 0 {
		return cols
	}
	avail := width - 2*len(cols)
	total := 0
	for _, c := range cols {
		total += c.Width
	}
	if total <= avail {
		return cols
	}
	for i := range cols {
		w := cols[i].Width * avail / total
		if w < 4 {
			w = 4
		}
		cols[i].Width = w
	}
	return cols
}

// buildRows renders the view's cells in the dataset's column order. Null
// cells render blank, matching the web table.
func buildRows(view *report.Table, columns []string) []table.Row {
	rows := make([]table.Row, len(view.Rows))
	for i, r := range view.Rows {
		cells := make(table.Row, len(columns))
		for j, name := range columns {
			cells[j] = report.CellText(r[name])
		}
		rows[i] = cells
	}
	return rows
}
