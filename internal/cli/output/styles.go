package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for terminal rendering. Renderers
// in markdown or JSON mode carry attribute-free styles so their output
// stays clean of escape codes.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	Info          lipgloss.Style
	ColumnName    lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

func newStyles(styled bool) *Styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1:       plain,
			Header2:       plain,
			Bold:          plain,
			Muted:         plain,
			Success:       plain,
			Warning:       plain,
			Error:         plain,
			Info:          plain,
			ColumnName:    plain,
			StatusSuccess: plain.SetString("✓"),
			StatusFailed:  plain.SetString("✗"),
		}
	}
	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Underline(true),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Info:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		ColumnName:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).SetString("✗"),
	}
}
