package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle      key.Binding
	Reset       key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	EditName    key.Binding
	MinutesUp   key.Binding
	MinutesDown key.Binding
	SecondsUp   key.Binding
	SecondsDown key.Binding
	NextRecord  key.Binding
	PrevRecord  key.Binding
	Delete      key.Binding
	Clear       key.Binding
	Export      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "start/stop"),
		),
		Reset: key.NewBinding(
			key.WithKeys("esc", "r"),
			key.WithHelp("esc", "reset"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter/y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "n"),
			key.WithHelp("esc/n", "cancel"),
		),
		EditName: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "speaker name"),
		),
		MinutesUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓", "minutes"),
		),
		MinutesDown: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		SecondsUp: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("←/→", "seconds"),
		),
		SecondsDown: key.NewBinding(
			key.WithKeys("left", "h"),
		),
		NextRecord: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("[/]", "select record"),
		),
		PrevRecord: key.NewBinding(
			key.WithKeys("["),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete record"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear records"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.EditName, k.MinutesUp, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Confirm, k.Cancel},
		{k.EditName, k.MinutesUp, k.SecondsUp},
		{k.NextRecord, k.Delete, k.Clear, k.Export},
		{k.Help, k.Quit},
	}
}

// promptKeys is the help shown while a confirmation is open
type promptKeys struct {
	keyMap
}

func (k promptKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k promptKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
