// Package format renders a filtered record sequence into one of the text
// encodings consumed by scripts and ticket systems. Separators and field
// order are contractual; change them and downstream tooling breaks.
package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/wvsac/Report-Miner/report"
)

// Format selects an output encoding
type Format int

const (
	Raw Format = iota
	Pytest
	Names
	Full
	Detailed
	Jira
	JiraMarkdown
	Wiki
)

var formatNames = map[Format]string{
	Raw:          "raw",
	Pytest:       "pytest",
	Names:        "names",
	Full:         "full",
	Detailed:     "detailed",
	Jira:         "jira",
	JiraMarkdown: "jira-md",
	Wiki:         "wiki",
}

// FormatNames lists the accepted format names for CLI help
func FormatNames() []string {
	return []string{"raw", "pytest", "names", "full", "detailed", "jira", "jira-md", "wiki"}
}

// ParseFormat converts a format name into a Format, case-insensitive
func ParseFormat(name string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == normalized {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown format: %s (valid: %s)", name, strings.Join(FormatNames(), ", "))
}

// String returns the CLI name of the format
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(f))
}

// NeedsResolution reports whether the format consults the ticket client
func (f Format) NeedsResolution() bool {
	return f == Jira || f == JiraMarkdown || f == Wiki
}

// Ticket is a resolved ticket reference
type Ticket struct {
	Key   string
	Title string
	URL   string
}

// Resolver looks up ticket data for an identifier. Implementations must fail
// soft: a network problem is reported as "not resolved", never as an error.
type Resolver interface {
	Resolve(identifier string) (Ticket, bool)
}

// unresolved is the Resolver used when no ticket client is configured
type unresolved struct{}

func (unresolved) Resolve(string) (Ticket, bool) { return Ticket{}, false }

// Renderer renders record sequences. The zero value renders everything but
// falls back to bare identifiers for ticket formats.
type Renderer struct {
	resolver Resolver
}

// NewRenderer creates a renderer backed by the given ticket resolver; pass
// nil when no ticket system is configured
func NewRenderer(resolver Resolver) *Renderer {
	if resolver == nil {
		resolver = unresolved{}
	}
	return &Renderer{resolver: resolver}
}

// Render produces the text encoding of the records. With grouped set, records
// are partitioned by failure reason before per-unit rendering.
func (rd *Renderer) Render(records report.Snapshot, f Format, grouped bool) string {
	if grouped {
		return rd.renderGrouped(records, f)
	}
	return rd.renderFlat(records, f)
}

func (rd *Renderer) renderFlat(records report.Snapshot, f Format) string {
	switch f {
	case Raw:
		return strings.Join(identifiers(records), ", ")
	case Pytest:
		return strings.Join(identifiers(records), " or ")
	case Names:
		return strings.Join(shortNames(records), ", ")
	case Full:
		return strings.Join(qualifiedNames(records), "\n")
	case Detailed:
		return rd.renderDetailed(records)
	case Jira:
		return rd.renderJiraLinks(records)
	case JiraMarkdown:
		return rd.renderTitled(records, func(t Ticket) string {
			return fmt.Sprintf("[%s](%s)", t.Title, t.URL)
		})
	case Wiki:
		return rd.renderTitled(records, func(t Ticket) string {
			return fmt.Sprintf("[%s|%s]", t.Title, t.URL)
		})
	default:
		return ""
	}
}

// renderDetailed produces the tabular encoding: one row per record with
// identifier, status, short name and the first line of the failure reason
func (rd *Renderer) renderDetailed(records report.Snapshot) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.Header("IDENTIFIER", "STATUS", "TEST", "REASON")
	for i := range records {
		r := &records[i]
		reason := ""
		if r.Reason != "" {
			reason, _, _ = strings.Cut(r.Reason, "\n")
		}
		table.Append([]string{r.Identifier, r.Status.String(), r.ShortName, reason})
	}
	table.Render()
	return strings.TrimRight(buf.String(), "\n")
}

// renderJiraLinks emits one resolved URL per record; unresolved entries fall
// back to the bare identifier
func (rd *Renderer) renderJiraLinks(records report.Snapshot) string {
	lines := make([]string, 0, len(records))
	for i := range records {
		if t, ok := rd.resolver.Resolve(records[i].Identifier); ok && t.URL != "" {
			lines = append(lines, t.URL)
		} else {
			lines = append(lines, records[i].Identifier)
		}
	}
	return strings.Join(lines, "\n")
}

// renderTitled handles the titled link encodings (jira-md, wiki). Resolved
// entries carry "KEY: title"; unresolved entries degrade to the bare key.
func (rd *Renderer) renderTitled(records report.Snapshot, render func(Ticket) string) string {
	lines := make([]string, 0, len(records))
	for i := range records {
		r := &records[i]
		t, ok := rd.resolver.Resolve(r.Identifier)
		if !ok || t.URL == "" {
			lines = append(lines, r.TicketKey())
			continue
		}
		if t.Title != "" {
			t.Title = fmt.Sprintf("%s: %s", t.Key, t.Title)
		} else {
			t.Title = t.Key
		}
		lines = append(lines, render(t))
	}
	return strings.Join(lines, "\n")
}

// RerunCommand builds a test-runner invocation selecting the given records.
// The template uses a {tests} placeholder, e.g. `pytest -k "{tests}"`.
func RerunCommand(records report.Snapshot, template string) string {
	if len(records) == 0 {
		return "# No tests to rerun"
	}
	expr := strings.Join(shortNames(records), " or ")
	return strings.ReplaceAll(template, "{tests}", expr)
}

func identifiers(records report.Snapshot) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].Identifier
	}
	return out
}

func shortNames(records report.Snapshot) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].ShortName
	}
	return out
}

func qualifiedNames(records report.Snapshot) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].QualifiedName
	}
	return out
}
