package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browser's own bindings. Cursor movement and paging are
// handled by the table component's default key map.
type keyMap struct {
	Employee   key.Binding
	Status     key.Binding
	StatusBack key.Binding
	ColLeft    key.Binding
	ColRight   key.Binding
	Sort       key.Binding
	Reset      key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Employee: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "employee filter"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "next status"),
		),
		StatusBack: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "previous status"),
		),
		ColLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "column left"),
		),
		ColRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "column right"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "cycle sort"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Save: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "save view"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Employee, k.Status, k.Sort, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Employee, k.Status, k.StatusBack, k.Reset},
		{k.ColLeft, k.ColRight, k.Sort, k.Save},
		{k.Help, k.Quit},
	}
}
