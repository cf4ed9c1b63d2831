package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/milgrid/internal/report"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

func (m model) View() string {
	if !m.ready {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Personnel Military Data"))
	b.WriteString("\n")
	b.WriteString(m.grid.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.messageLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// statusLine summarizes the selection: row counts, active filters, sort,
// and the column the sort key currently targets.
func (m model) statusLine() string {
	parts := []string{
		fmt.Sprintf("%d of %d rows", len(m.view.Rows), m.data.RowCount()),
	}
	if m.criteria.EmployeeID != nil {
		parts = append(parts, fmt.Sprintf("employee %d", *m.criteria.EmployeeID))
	}
	if m.criteria.MilitaryStatus != "" {
		parts = append(parts, "status "+statusLabel(m.criteria.MilitaryStatus))
	}
	if m.sortSpec.Column != "" {
		dir := report.Ascending
		if m.sortSpec.Desc() {
			dir = report.Descending
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", m.sortSpec.Column, dir))
	}
	if len(m.data.Columns) > 0 {
		parts = append(parts, "column "+m.data.Columns[m.colIdx])
	}
	return statusStyle.Render(strings.Join(parts, " · "))
}

// messageLine shows the active prompt, a transient notice, or the dataset
// message, in that priority order.
func (m model) messageLine() string {
	if m.mode != modeBrowse {
		return m.input.View()
	}
	if m.notice != "" {
		return noticeStyle.Render(m.notice)
	}
	if m.msg != "" {
		return noticeStyle.Render(m.msg)
	}
	return ""
}

func statusLabel(status string) string {
	if status == report.StatusNone {
		return "(no status recorded)"
	}
	return status
}
