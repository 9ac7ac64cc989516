package report

import (
	"fmt"
	"strings"
)

// Status represents the outcome of a single test run
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
	StatusError
	StatusXFailed
	StatusXPassed
	StatusRerun
)

var statusNames = map[Status]string{
	StatusPassed:  "passed",
	StatusFailed:  "failed",
	StatusSkipped: "skipped",
	StatusError:   "error",
	StatusXFailed: "xfailed",
	StatusXPassed: "xpassed",
	StatusRerun:   "rerun",
}

// ParseStatus converts a status string from a report into a Status, case-insensitive
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for s, name := range statusNames {
		if name == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown test status: %q", value)
}

// String returns the report representation of the status
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Severity orders statuses for diff classification: error > failed > skipped > passed.
// The remaining statuses rank below passed and never count as failing.
func (s Status) Severity() int {
	switch s {
	case StatusError:
		return 4
	case StatusFailed:
		return 3
	case StatusSkipped:
		return 2
	case StatusPassed:
		return 1
	default:
		return 0
	}
}

// Failing reports whether the status counts as a failure
func (s Status) Failing() bool {
	return s == StatusFailed || s == StatusError
}

// TestRecord represents one test outcome within a report
type TestRecord struct {
	Identifier    string // ticket key embedded in the test name, e.g. TMS_12345; may be empty
	QualifiedName string // full test path, e.g. tests/test_login.py::test_ok[chrome]
	ShortName     string // leaf function name
	Status        Status
	Reason        string // primary failure text, empty for passed/skipped
	Log           []LogLine
	Duration      string
	Timestamp     string

	// Filled in by ticket enrichment, empty otherwise
	Title string
	Steps string
}

// HasIdentifier reports whether a ticket key was found in the test name
func (r *TestRecord) HasIdentifier() bool {
	return r.Identifier != ""
}

// TicketKey converts TMS_123 into the TMS-123 form used in ticket URLs
func (r *TestRecord) TicketKey() string {
	return strings.ReplaceAll(r.Identifier, "_", "-")
}

// ReadableName strips the test_ prefix and underscores from the short name
func (r *TestRecord) ReadableName() string {
	name := strings.TrimPrefix(r.ShortName, "test_")
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// RawLog returns the execution log as plain text
func (r *TestRecord) RawLog() string {
	if len(r.Log) == 0 {
		return ""
	}
	lines := make([]string, len(r.Log))
	for i, l := range r.Log {
		lines[i] = l.Text
	}
	return strings.Join(lines, "\n")
}

// Snapshot is an ordered, immutable sequence of records parsed from reports.
// Identifiers are not unique within a snapshot: reruns of the same ticket
// produce multiple records, so a snapshot is never treated as a map.
type Snapshot []TestRecord

// Key returns the mark/selection key for the record at index i. Records
// without an identifier (and records sharing one) stay addressable through
// the positional fallback.
func (s Snapshot) Key(i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	if s[i].HasIdentifier() {
		return s[i].Identifier
	}
	return fmt.Sprintf("#%d", i)
}

// Counts holds per-status totals for a snapshot
type Counts struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Errors  int
}

// CountStatuses tallies the snapshot by status
func (s Snapshot) CountStatuses() Counts {
	c := Counts{Total: len(s)}
	for i := range s {
		switch s[i].Status {
		case StatusPassed:
			c.Passed++
		case StatusFailed:
			c.Failed++
		case StatusSkipped:
			c.Skipped++
		case StatusError:
			c.Errors++
		}
	}
	return c
}
