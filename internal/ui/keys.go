package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings for the clock screen.
type keyMap struct {
	Start  key.Binding
	Pause  key.Binding
	Resume key.Binding
	End    key.Binding
	Sync   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "clock in"),
		),
		Pause: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "start break"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "end break"),
		),
		End: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "clock out"),
		),
		Sync: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "sync now"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
