package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	btable "github.com/evertras/bubble-table/table"

	"github.com/wvsac/Report-Miner/report"
	"github.com/wvsac/Report-Miner/tui/state"
)

// layout resizes the panels to the current terminal dimensions
func (m *Model) layout() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	// header, footer and search line
	chrome := 4
	panelHeight := (height - chrome) / 2
	if panelHeight < 3 {
		panelHeight = 3
	}

	m.table = m.table.WithTargetWidth(width).WithPageSize(panelHeight)

	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	if m.detail.Width == 0 {
		m.detail = viewport.New(contentWidth, panelHeight)
		m.logView = viewport.New(contentWidth, height-chrome)
	} else {
		m.detail.Width = contentWidth
		m.detail.Height = panelHeight
		m.logView.Width = contentWidth
	}
	if m.fullscreen {
		m.logView.Height = height - chrome
	} else {
		m.logView.Height = panelHeight
	}
}

// rebuildTable rebuilds the list rows from the current view
func (m *Model) rebuildTable() {
	rows := make([]btable.Row, 0, len(m.view))
	for _, idx := range m.view {
		r := &m.records[idx]
		mark := " "
		if m.marked[m.records.Key(idx)] {
			mark = "●"
		}
		rows = append(rows, btable.NewRow(map[string]interface{}{
			"idx":    idx,
			"mark":   mark,
			"status": statusIcon(r.Status),
			"key":    r.TicketKey(),
			"name":   r.ReadableName(),
		}))
	}
	m.table = m.table.WithRows(rows)
	if m.selected >= 0 {
		m.table = m.table.WithHighlightedRow(m.selected)
	}
}

// syncPanels refreshes the detail and log panels for the selected record
func (m *Model) syncPanels() {
	r := m.current()
	if r == nil {
		m.detail.SetContent("No tests found matching criteria.")
		m.logView.SetContent("")
		return
	}
	m.detail.SetContent(detailContent(r))
	m.logView.SetContent(logContent(r.Log))
	m.detail.GotoTop()
	m.logView.GotoTop()
}

// detailContent renders the record fields for the detail panel
func detailContent(r *report.TestRecord) string {
	var b strings.Builder
	if r.HasIdentifier() {
		fmt.Fprintf(&b, "Ticket:   %s\n", r.TicketKey())
	}
	fmt.Fprintf(&b, "Status:   %s\n", r.Status)
	if r.Duration != "" {
		fmt.Fprintf(&b, "Duration: %s\n", r.Duration)
	}
	fmt.Fprintf(&b, "Test:     %s\n", r.QualifiedName)
	if r.Title != "" {
		fmt.Fprintf(&b, "Title:    %s\n", r.Title)
	}
	if r.Reason != "" {
		fmt.Fprintf(&b, "\n%s\n", r.Reason)
	}
	if r.Steps != "" {
		fmt.Fprintf(&b, "\nSteps:\n%s\n", r.Steps)
	}
	return strings.TrimRight(b.String(), "\n")
}

// logContent renders the leveled log lines with per-level colors
func logContent(log []report.LogLine) string {
	if len(log) == 0 {
		return "no execution log"
	}
	lines := make([]string, len(log))
	for i, l := range log {
		if style, ok := logLevelStyles[l.Level]; ok {
			lines[i] = style.Render(l.Text)
		} else {
			lines[i] = l.Text
		}
	}
	return strings.Join(lines, "\n")
}

// headerLine summarizes the view and the active filters
func (m *Model) headerLine() string {
	parts := []string{fmt.Sprintf("%d/%d tests", len(m.view), len(m.records))}
	c := m.records.CountStatuses()
	parts = append(parts, fmt.Sprintf("✓%d ✗%d ~%d !%d", c.Passed, c.Failed, c.Skipped, c.Errors))
	if len(m.spec.Statuses) > 0 {
		var names []string
		for s := report.StatusPassed; s <= report.StatusRerun; s++ {
			if m.spec.Statuses[s] {
				names = append(names, s.String())
			}
		}
		parts = append(parts, strings.Join(names, ","))
	}
	if m.spec.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", m.spec.Search))
	}
	if m.spec.OnlyMarked {
		parts = append(parts, "marked only")
	}
	if len(m.marked) > 0 {
		parts = append(parts, fmt.Sprintf("%d marked", len(m.marked)))
	}
	line := headerStyle.Render(strings.Join(parts, "  "))
	if m.enriching {
		line += " " + m.spin.View() + noticeStyle.Render("resolving tickets")
	}
	return line
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return headerStyle.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	if m.fullscreen {
		b.WriteString(focusedPanelStyle.Render(m.logView.View()))
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
		switch m.machine.Focus() {
		case state.Log:
			b.WriteString(focusedPanelStyle.Render(m.logView.View()))
		case state.Detail:
			b.WriteString(focusedPanelStyle.Render(m.detail.View()))
		default:
			b.WriteString(panelStyle.Render(m.detail.View()))
		}
	}
	b.WriteString("\n")

	switch m.machine.Mode() {
	case state.Search:
		b.WriteString(searchStyle.Render(m.search.View()))
	case state.LogSearch:
		b.WriteString(searchStyle.Render(m.logSearch.View()))
	default:
		if m.notice != "" && m.noticeErr {
			b.WriteString(errorStyle.Render(m.notice))
		} else if m.notice != "" {
			b.WriteString(noticeStyle.Render(m.notice))
		} else {
			b.WriteString(helpStyle.Render(m.help.View(m.keys)))
		}
	}
	return b.String()
}

// containsFold reports whether s contains substr, case-insensitive
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
