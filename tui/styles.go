package tui

import (
	"github.com/charmbracelet/lipgloss"
	btable "github.com/evertras/bubble-table/table"

	"github.com/wvsac/Report-Miner/report"
)

// Colors
var (
	colorPassed  = lipgloss.Color("#00aa00")
	colorFailed  = lipgloss.Color("#ff0000")
	colorSkipped = lipgloss.Color("#aaaa00")
	colorError   = lipgloss.Color("#ff5500")
	colorAccent  = lipgloss.Color("#00ffaa")
	colorMuted   = lipgloss.Color("#666666")
)

// Common styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	focusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorAccent).
				Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorFailed).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Faint(true)

	searchStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Padding(0, 1)
)

// Log line styles by level
var logLevelStyles = map[report.LogLevel]lipgloss.Style{
	report.LevelFatal:   lipgloss.NewStyle().Foreground(colorFailed).Bold(true),
	report.LevelError:   lipgloss.NewStyle().Foreground(colorFailed),
	report.LevelWarn:    lipgloss.NewStyle().Foreground(colorSkipped),
	report.LevelInfo:    lipgloss.NewStyle(),
	report.LevelDebug:   lipgloss.NewStyle().Foreground(colorMuted),
	report.LevelTrace:   lipgloss.NewStyle().Foreground(colorMuted).Faint(true),
}

// Table configuration
var listColumns = []btable.Column{
	btable.NewColumn("mark", " ", 3),
	btable.NewColumn("status", "Status", 9),
	btable.NewColumn("key", "Ticket", 12),
	btable.NewFlexColumn("name", "Test", 1),
}

// statusIcon returns the list marker for a status
func statusIcon(s report.Status) string {
	switch s {
	case report.StatusPassed:
		return "✓ passed"
	case report.StatusFailed:
		return "✗ failed"
	case report.StatusError:
		return "! error"
	case report.StatusSkipped:
		return "~ skipped"
	case report.StatusXFailed:
		return "✓ xfailed"
	case report.StatusXPassed:
		return "✗ xpassed"
	case report.StatusRerun:
		return "↻ rerun"
	default:
		return s.String()
	}
}
