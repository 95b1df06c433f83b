package ui

import (
	"charm.land/bubbles/v2/key"

	"github.com/kpumuk/lazycharts/internal/ui/dialogs/help"
)

// KeyMap defines all global keybindings.
type KeyMap struct {
	Quit    key.Binding
	Left    key.Binding
	Right   key.Binding
	Leave   key.Binding
	Refresh key.Binding
	Inspect key.Binding
	Copy    key.Binding
	Trace   key.Binding
	Help    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "move cursor"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide cursor"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "inspect"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy svg"),
		),
		Trace: key.NewBinding(
			key.WithKeys("t", "~"),
			key.WithHelp("t", "redis log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// ShortHelp returns keybindings to show in the navbar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Leave, k.Refresh, k.Inspect, k.Copy, k.Quit, k.Help}
}

// FullHelp returns the keybindings listed in the help dialog.
func (k KeyMap) FullHelp() []help.Section {
	return []help.Section{
		{Title: "Chart", Bindings: []key.Binding{k.Left, k.Right, k.Leave}},
		{Title: "Panels", Bindings: []key.Binding{k.Inspect, k.Trace, k.Help}},
		{Title: "General", Bindings: []key.Binding{k.Refresh, k.Copy, k.Quit}},
	}
}
