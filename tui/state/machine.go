// Package state tracks which panel of the viewer owns keyboard input.
package state

import "fmt"

// Focus represents the panel currently receiving navigation keys
type Focus int

const (
	// List - the record table has focus
	List Focus = iota

	// Detail - the detail panel has focus and scrolls
	Detail

	// Log - the execution log panel has focus and scrolls
	Log
)

// String returns a human-readable representation of the focus
func (f Focus) String() string {
	switch f {
	case List:
		return "List"
	case Detail:
		return "Detail"
	case Log:
		return "Log"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// IsValid checks if the focus is a valid panel
func (f Focus) IsValid() bool {
	return f >= List && f <= Log
}

// InputMode represents how key presses are interpreted
type InputMode int

const (
	// Normal - keys are commands
	Normal InputMode = iota

	// Search - keys are text for the record search input
	Search

	// LogSearch - keys are text for the log search input
	LogSearch
)

// String returns a human-readable representation of the input mode
func (m InputMode) String() string {
	switch m {
	case Normal:
		return "Normal"
	case Search:
		return "Search"
	case LogSearch:
		return "LogSearch"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Machine manages the focus and input mode of the viewer
type Machine struct {
	focus   Focus
	mode    InputMode
	history []Focus
}

// NewMachine creates a new machine focused on the given panel
func NewMachine(initial Focus) *Machine {
	return &Machine{
		focus:   initial,
		mode:    Normal,
		history: []Focus{initial},
	}
}

// Focus returns the panel currently holding focus
func (m *Machine) Focus() Focus {
	return m.focus
}

// Mode returns the current input mode
func (m *Machine) Mode() InputMode {
	return m.mode
}

// Transition moves focus to another panel. Invalid targets are ignored.
func (m *Machine) Transition(to Focus) {
	if !to.IsValid() || to == m.focus {
		return
	}
	m.focus = to
	m.history = append(m.history, to)
}

// CanGoBack returns true if there is a previous panel to return to
func (m *Machine) CanGoBack() bool {
	return len(m.history) > 1
}

// GoBack returns focus to the previously focused panel
func (m *Machine) GoBack() {
	if !m.CanGoBack() {
		return
	}
	m.history = m.history[:len(m.history)-1]
	m.focus = m.history[len(m.history)-1]
}

// EnterMode switches the input mode
func (m *Machine) EnterMode(mode InputMode) {
	m.mode = mode
}

// Reset resets the machine to the given panel in normal mode
func (m *Machine) Reset(initial Focus) {
	m.focus = initial
	m.mode = Normal
	m.history = []Focus{initial}
}
