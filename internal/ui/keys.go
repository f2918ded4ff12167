// ABOUTME: Key bindings for the viewer TUI
// ABOUTME: Threshold, gap, endpoint and session controls
package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer's key bindings
type KeyMap struct {
	HighUp   key.Binding
	HighDown key.Binding
	LowUp    key.Binding
	LowDown  key.Binding
	GapUp    key.Binding
	GapDown  key.Binding

	Edit    key.Binding // open the endpoint editor
	Connect key.Binding
	Reset   key.Binding // zero the rep counter
	Debug   key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set. Lower case raises a
// value and upper case lowers it.
var DefaultKeyMap = KeyMap{
	HighUp:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h/H", "upper ±")),
	HighDown: key.NewBinding(key.WithKeys("H")),
	LowUp:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l/L", "lower ±")),
	LowDown:  key.NewBinding(key.WithKeys("L")),
	GapUp:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g/G", "gap ±")),
	GapDown:  key.NewBinding(key.WithKeys("G")),
	Edit:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "endpoint")),
	Connect:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "connect")),
	Reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset reps")),
	Debug:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "debug")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// helpBindings lists the bindings shown in the footer
func (k KeyMap) helpBindings() []key.Binding {
	return []key.Binding{k.HighUp, k.LowUp, k.GapUp, k.Edit, k.Connect, k.Reset, k.Debug, k.Quit}
}
