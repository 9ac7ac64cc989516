// Package keys defines the key bindings of the interactive viewer.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines every key binding the viewer responds to
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Tab   key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding

	Search     key.Binding
	Mark       key.Binding
	OnlyMarked key.Binding
	Fullscreen key.Binding

	StatusAll     key.Binding
	StatusFailed  key.Binding
	StatusPassed  key.Binding
	StatusSkipped key.Binding
	StatusError   key.Binding

	CopyMarked key.Binding
	CopyRecord key.Binding
	CopyLog    key.Binding
	OpenTicket key.Binding

	SectionSetup    key.Binding
	SectionCall     key.Binding
	SectionTeardown key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open log"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark"),
		),
		OnlyMarked: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "marked only"),
		),
		Fullscreen: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "fullscreen log"),
		),
		StatusAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all"),
		),
		StatusFailed: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "failed"),
		),
		StatusPassed: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "passed"),
		),
		StatusSkipped: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skipped"),
		),
		StatusError: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "error"),
		),
		CopyMarked: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy marked"),
		),
		CopyRecord: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy test"),
		),
		CopyLog: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "copy log"),
		),
		OpenTicket: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open ticket"),
		),
		SectionSetup: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "setup"),
		),
		SectionCall: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "call"),
		),
		SectionTeardown: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "teardown"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Tab, k.Enter, k.Search, k.Mark, k.Quit}
}

// FullHelp returns all bindings grouped for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Enter, k.Back},
		{k.StatusAll, k.StatusFailed, k.StatusPassed, k.StatusSkipped, k.StatusError},
		{k.Search, k.Mark, k.OnlyMarked, k.Fullscreen},
		{k.CopyMarked, k.CopyRecord, k.CopyLog, k.OpenTicket},
		{k.SectionSetup, k.SectionCall, k.SectionTeardown, k.Quit},
	}
}
