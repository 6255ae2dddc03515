package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	OneMinute   key.Binding
	TwoMinutes  key.Binding
	FiveMinutes key.Binding
	More        key.Binding
	Less        key.Binding
	Custom      key.Binding
	Theme       key.Binding
	Toggle      key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		OneMinute: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "1 min"),
		),
		TwoMinutes: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "2 min"),
		),
		FiveMinutes: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "5 min"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "longer"),
		),
		Less: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "shorter"),
		),
		Custom: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "use custom"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "theme"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp("space", "start/stop"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k KeyMap) help() []key.Binding {
	return []key.Binding{k.OneMinute, k.TwoMinutes, k.FiveMinutes, k.Less, k.More, k.Custom, k.Theme, k.Toggle, k.Quit}
}
