// Package tui implements the interactive report viewer: a record table,
// a detail panel and a scrollable execution log, with marks, search and
// ticket resolution on top of the same filter engine the CLI uses.
package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	btable "github.com/evertras/bubble-table/table"

	"github.com/wvsac/Report-Miner/clipboard"
	"github.com/wvsac/Report-Miner/config"
	"github.com/wvsac/Report-Miner/filter"
	"github.com/wvsac/Report-Miner/jira"
	"github.com/wvsac/Report-Miner/report"
	"github.com/wvsac/Report-Miner/tui/keys"
	"github.com/wvsac/Report-Miner/tui/state"
)

// Model is the root bubbletea model of the viewer
type Model struct {
	// Data
	records report.Snapshot
	spec    filter.Spec
	marked  map[string]bool
	view    []int // positions into records surviving the current spec
	// selected indexes into view; -1 when the view is empty
	selected int

	// Focus and input
	machine *state.Machine
	keys    keys.KeyMap

	// Components
	table     btable.Model
	detail    viewport.Model
	logView   viewport.Model
	search    textinput.Model
	logSearch textinput.Model
	spin      spinner.Model
	help      help.Model

	// Ticket resolution
	client      *jira.Client
	enriching   bool
	enrichCtx   context.Context
	enrichAbort context.CancelFunc

	// Display state
	width      int
	height     int
	ready      bool
	fullscreen bool
	notice     string
	noticeErr  bool
	quitting   bool
}

// enrichedMsg carries the finished background ticket lookup. The snapshot is
// only written when the message is handled, never from the lookup goroutine.
type enrichedMsg struct {
	issues map[string]*jira.Issue
}

// New builds the viewer model over an already parsed snapshot
func New(records report.Snapshot, spec filter.Spec, cfg config.Config) Model {
	search := textinput.New()
	search.Placeholder = "search tests"
	search.Prompt = "/"

	logSearch := textinput.New()
	logSearch.Placeholder = "search log"
	logSearch.Prompt = "/"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	cache := jira.NewCache(cfg.CacheDir, cfg.CacheTTL)
	client := jira.NewClient(jira.Options{
		BaseURL:    cfg.JiraBaseURL,
		Email:      cfg.JiraEmail,
		Token:      cfg.JiraToken,
		StepsField: cfg.JiraStepsField,
	}, cache)

	m := Model{
		records:   records,
		spec:      spec,
		marked:    make(map[string]bool),
		selected:  -1,
		machine:   state.NewMachine(state.List),
		keys:      keys.DefaultKeyMap(),
		table:     btable.New(listColumns).Focused(true),
		search:    search,
		logSearch: logSearch,
		spin:      spin,
		help:      help.New(),
		client:    client,
	}
	if cfg.JiraConfigured() {
		m.enrichCtx, m.enrichAbort = context.WithCancel(context.Background())
		m.enriching = true
	}
	m.refreshView()
	return m
}

// Run parses nothing; it shows the given snapshot until the user quits
func Run(records report.Snapshot, spec filter.Spec, cfg config.Config) error {
	p := tea.NewProgram(New(records, spec, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the background ticket lookup when a client is configured
func (m Model) Init() tea.Cmd {
	if !m.enriching {
		return nil
	}
	return tea.Batch(m.spin.Tick, enrichCmd(m.enrichCtx, m.client, m.records))
}

// enrichCmd fetches ticket titles and steps off the UI loop; the records
// themselves stay untouched until Update applies the result
func enrichCmd(ctx context.Context, client *jira.Client, records report.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return enrichedMsg{issues: client.FetchIssues(ctx, records, nil)}
	}
}

// refreshView recomputes the visible rows and re-clamps the selection.
// Called after every event that can change the view length.
func (m *Model) refreshView() {
	m.view = filter.ApplyIndexes(m.records, m.spec, m.marked)
	if len(m.view) == 0 {
		m.selected = -1
	} else if m.selected < 0 {
		m.selected = 0
	} else if m.selected >= len(m.view) {
		// the selected row no longer exists; restart at the top
		m.selected = 0
	}
	m.rebuildTable()
	m.syncPanels()
}

// current returns the selected record, or nil when the view is empty
func (m *Model) current() *report.TestRecord {
	if m.selected < 0 || m.selected >= len(m.view) {
		return nil
	}
	return &m.records[m.view[m.selected]]
}

// currentKey returns the mark key of the selected record
func (m *Model) currentKey() string {
	if m.selected < 0 || m.selected >= len(m.view) {
		return ""
	}
	return m.records.Key(m.view[m.selected])
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.syncPanels()
		m.ready = true
		return m, nil

	case enrichedMsg:
		jira.ApplyIssues(m.records, msg.issues)
		m.enriching = false
		m.syncPanels()
		return m, nil

	case spinner.TickMsg:
		if !m.enriching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.machine.Mode() {
		case state.Search:
			return m.updateSearch(msg)
		case state.LogSearch:
			return m.updateLogSearch(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// updateSearch handles keys while the record search input is open
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.spec.Search = m.search.Value()
		m.search.Blur()
		m.machine.EnterMode(state.Normal)
		m.refreshView()
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.search.SetValue(m.spec.Search)
		m.search.Blur()
		m.machine.EnterMode(state.Normal)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// updateLogSearch handles keys while the log search input is open
func (m Model) updateLogSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		term := m.logSearch.Value()
		m.logSearch.Blur()
		m.machine.EnterMode(state.Normal)
		m.jumpToLogMatch(term)
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.logSearch.Blur()
		m.machine.EnterMode(state.Normal)
		return m, nil
	}

	var cmd tea.Cmd
	m.logSearch, cmd = m.logSearch.Update(msg)
	return m, cmd
}

// updateNormal handles command keys
func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.noticeErr = false

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if m.enrichAbort != nil {
			m.enrichAbort()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.machine.Focus() == state.Detail {
			m.machine.Transition(state.List)
		} else {
			m.machine.Transition(state.Detail)
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if m.current() != nil {
			m.machine.Transition(state.Log)
			m.syncPanels()
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		return m.escape()

	case key.Matches(msg, m.keys.Search):
		if m.machine.Focus() == state.Log {
			m.logSearch.SetValue("")
			m.logSearch.Focus()
			m.machine.EnterMode(state.LogSearch)
			return m, textinput.Blink
		}
		m.search.SetValue(m.spec.Search)
		m.search.Focus()
		m.machine.EnterMode(state.Search)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Mark):
		if k := m.currentKey(); k != "" {
			if m.marked[k] {
				delete(m.marked, k)
			} else {
				m.marked[k] = true
			}
			m.refreshView()
		}
		return m, nil

	case key.Matches(msg, m.keys.OnlyMarked):
		m.spec.OnlyMarked = !m.spec.OnlyMarked
		m.refreshView()
		return m, nil

	case key.Matches(msg, m.keys.Fullscreen):
		m.fullscreen = !m.fullscreen
		if m.fullscreen {
			m.machine.Transition(state.Log)
		}
		m.layout()
		m.syncPanels()
		return m, nil

	case key.Matches(msg, m.keys.StatusAll):
		m.setStatuses(filter.AllStatuses())
		return m, nil
	case key.Matches(msg, m.keys.StatusFailed):
		m.setStatuses(filter.ByStatus(report.StatusFailed))
		return m, nil
	case key.Matches(msg, m.keys.StatusPassed):
		m.setStatuses(filter.ByStatus(report.StatusPassed))
		return m, nil
	case key.Matches(msg, m.keys.StatusSkipped):
		m.setStatuses(filter.ByStatus(report.StatusSkipped))
		return m, nil
	case key.Matches(msg, m.keys.StatusError):
		m.setStatuses(filter.ByStatus(report.StatusError))
		return m, nil

	case key.Matches(msg, m.keys.CopyMarked):
		m.copyMarked()
		return m, nil

	case key.Matches(msg, m.keys.CopyRecord):
		if r := m.current(); r != nil {
			text := fmt.Sprintf("%s %s", r.Identifier, r.QualifiedName)
			if r.Reason != "" {
				text += "\n" + r.Reason
			}
			m.copyText(text, "test")
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyLog):
		if r := m.current(); r != nil {
			m.copyText(r.RawLog(), "log")
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenTicket):
		m.openTicket()
		return m, nil

	case key.Matches(msg, m.keys.SectionSetup):
		m.jumpToSection(report.SectionSetup)
		return m, nil
	case key.Matches(msg, m.keys.SectionCall):
		m.jumpToSection(report.SectionCall)
		return m, nil
	case key.Matches(msg, m.keys.SectionTeardown):
		m.jumpToSection(report.SectionTeardown)
		return m, nil
	}
	return m, nil
}

// escape unwinds one layer: fullscreen, focus back to the list, an active
// search filter, then quit
func (m Model) escape() (tea.Model, tea.Cmd) {
	if m.fullscreen {
		m.fullscreen = false
		m.layout()
		m.syncPanels()
		return m, nil
	}
	if m.machine.Focus() != state.List {
		for m.machine.Focus() != state.List && m.machine.CanGoBack() {
			m.machine.GoBack()
		}
		if m.machine.Focus() != state.List {
			m.machine.Reset(state.List)
		}
		return m, nil
	}
	if m.spec.Search != "" {
		m.spec.Search = ""
		m.search.SetValue("")
		m.refreshView()
		return m, nil
	}
	m.quitting = true
	if m.enrichAbort != nil {
		m.enrichAbort()
	}
	return m, tea.Quit
}

// moveCursor moves the list selection or scrolls the focused panel
func (m *Model) moveCursor(delta int) {
	switch m.machine.Focus() {
	case state.List:
		if len(m.view) == 0 {
			return
		}
		m.selected += delta
		if m.selected < 0 {
			m.selected = 0
		}
		if m.selected >= len(m.view) {
			m.selected = len(m.view) - 1
		}
		m.rebuildTable()
		m.syncPanels()
	case state.Detail:
		if delta < 0 {
			m.detail.LineUp(1)
		} else {
			m.detail.LineDown(1)
		}
	case state.Log:
		if delta < 0 {
			m.logView.LineUp(1)
		} else {
			m.logView.LineDown(1)
		}
	}
}

func (m *Model) setStatuses(spec filter.Spec) {
	m.spec.Statuses = spec.Statuses
	m.refreshView()
}

// copyMarked puts the identifiers of all marked records on the clipboard
func (m *Model) copyMarked() {
	var ids []string
	seen := make(map[string]bool)
	for i := range m.records {
		key := m.records.Key(i)
		if m.marked[key] && m.records[i].HasIdentifier() && !seen[key] {
			ids = append(ids, m.records[i].Identifier)
			seen[key] = true
		}
	}
	if len(ids) == 0 {
		m.notice = "no marked tests"
		return
	}
	text := ids[0]
	for _, id := range ids[1:] {
		text += ", " + id
	}
	m.copyText(text, fmt.Sprintf("%d marked test(s)", len(ids)))
}

func (m *Model) copyText(text, what string) {
	if clipboard.Copy(text) {
		m.notice = "copied " + what
	} else {
		m.notice = "(clipboard copy failed)"
		m.noticeErr = true
	}
}

// openTicket opens the browse URL of the selected record in the browser
func (m *Model) openTicket() {
	r := m.current()
	if r == nil || !r.HasIdentifier() {
		return
	}
	url := m.client.BrowseURL(r.TicketKey())
	if url == "" {
		m.notice = "no ticket base URL configured"
		m.noticeErr = true
		return
	}
	if err := openBrowser(url); err != nil {
		m.notice = "could not open browser"
		m.noticeErr = true
		return
	}
	m.notice = "opened " + url
}

// openBrowser launches the platform browser for a URL
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // "linux", "freebsd", "openbsd", "netbsd"
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// jumpToSection scrolls the log to the named pytest section
func (m *Model) jumpToSection(section string) {
	r := m.current()
	if r == nil {
		return
	}
	line := report.FindSection(r.Log, section)
	if line < 0 {
		m.notice = "no " + section + " section"
		return
	}
	m.machine.Transition(state.Log)
	m.syncPanels()
	m.logView.SetYOffset(line)
}

// jumpToLogMatch scrolls the log to the first line containing the term
func (m *Model) jumpToLogMatch(term string) {
	r := m.current()
	if r == nil || term == "" {
		return
	}
	for i, l := range r.Log {
		if containsFold(l.Text, term) {
			m.logView.SetYOffset(i)
			return
		}
	}
	m.notice = "no match for " + term
}
