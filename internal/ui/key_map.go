package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	fetch    key.Binding
	fetchAll key.Binding
	remove   key.Binding
	refresh  key.Binding
	yes      key.Binding
	no       key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		fetch:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch")),
		fetchAll: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "fetch all")),
		remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.fetch, k.fetchAll, k.remove, k.refresh},
		{k.yes, k.no, k.quit},
	}
}
