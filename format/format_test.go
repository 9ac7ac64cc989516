package format

import (
	"strings"
	"testing"

	"github.com/wvsac/Report-Miner/report"
)

// fakeResolver resolves a fixed set of ticket keys
type fakeResolver struct {
	tickets map[string]Ticket
}

func (f *fakeResolver) Resolve(identifier string) (Ticket, bool) {
	t, ok := f.tickets[identifier]
	return t, ok
}

func sampleRecords() report.Snapshot {
	return report.Snapshot{
		{Identifier: "TMS_1", ShortName: "test_login", QualifiedName: "tests/auth.py::test_login", Status: report.StatusFailed, Reason: "AssertionError: bad credentials\nTraceback follows"},
		{Identifier: "TMS_2", ShortName: "test_logout", QualifiedName: "tests/auth.py::test_logout", Status: report.StatusFailed, Reason: "Timeout after 30 seconds"},
		{Identifier: "TMS_3", ShortName: "test_health", QualifiedName: "tests/ops.py::test_health", Status: report.StatusPassed},
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range FormatNames() {
		f, err := ParseFormat(name)
		if err != nil {
			t.Errorf("ParseFormat(%q): unexpected error: %v", name, err)
			continue
		}
		if f.String() != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, f.String())
		}
	}

	if _, err := ParseFormat("JIRA-MD"); err != nil {
		t.Errorf("Expected case-insensitive parse, got %v", err)
	}
	if _, err := ParseFormat("nope"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestFormat_NeedsResolution(t *testing.T) {
	needs := map[Format]bool{
		Raw: false, Pytest: false, Names: false, Full: false, Detailed: false,
		Jira: true, JiraMarkdown: true, Wiki: true,
	}
	for f, expected := range needs {
		if f.NeedsResolution() != expected {
			t.Errorf("%s.NeedsResolution() = %v, expected %v", f, f.NeedsResolution(), expected)
		}
	}
}

func TestRender_Raw(t *testing.T) {
	got := NewRenderer(nil).Render(sampleRecords(), Raw, false)
	if got != "TMS_1, TMS_2, TMS_3" {
		t.Errorf("Unexpected raw output: %q", got)
	}
}

func TestRender_Pytest(t *testing.T) {
	got := NewRenderer(nil).Render(sampleRecords(), Pytest, false)
	if got != "TMS_1 or TMS_2 or TMS_3" {
		t.Errorf("Unexpected pytest output: %q", got)
	}
}

func TestRender_Names(t *testing.T) {
	got := NewRenderer(nil).Render(sampleRecords(), Names, false)
	if got != "test_login, test_logout, test_health" {
		t.Errorf("Unexpected names output: %q", got)
	}
}

func TestRender_Full(t *testing.T) {
	got := NewRenderer(nil).Render(sampleRecords(), Full, false)
	expected := "tests/auth.py::test_login\ntests/auth.py::test_logout\ntests/ops.py::test_health"
	if got != expected {
		t.Errorf("Unexpected full output: %q", got)
	}
}

func TestRender_Detailed(t *testing.T) {
	records := report.Snapshot{
		{Identifier: "TMS_1", ShortName: "test_a", Status: report.StatusFailed, Reason: "boom\ndetails"},
		{Identifier: "TMS_2", ShortName: "test_b", Status: report.StatusFailed, Reason: "crash"},
		{Identifier: "TMS_3", ShortName: "test_c", Status: report.StatusPassed},
	}
	got := NewRenderer(nil).Render(records, Detailed, false)

	for _, want := range []string{"IDENTIFIER", "STATUS", "TEST", "REASON", "TMS_1", "test_b", "crash"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected detailed output to contain %q:\n%s", want, got)
		}
	}
	// only the first reason line appears
	if strings.Contains(got, "details") {
		t.Errorf("Expected multi-line reason to be cut at the first line:\n%s", got)
	}
}

func TestRender_Jira(t *testing.T) {
	resolver := &fakeResolver{tickets: map[string]Ticket{
		"TMS_1": {Key: "TMS-1", Title: "Login breaks", URL: "https://jira.example.com/browse/TMS-1"},
	}}
	records := sampleRecords()[:2]

	got := NewRenderer(resolver).Render(records, Jira, false)
	expected := "https://jira.example.com/browse/TMS-1\nTMS_2"
	if got != expected {
		t.Errorf("Unexpected jira output: %q", got)
	}
}

func TestRender_JiraMarkdown(t *testing.T) {
	resolver := &fakeResolver{tickets: map[string]Ticket{
		"TMS_1": {Key: "TMS-1", Title: "Login breaks", URL: "https://jira.example.com/browse/TMS-1"},
		"TMS_2": {Key: "TMS-2", URL: "https://jira.example.com/browse/TMS-2"},
	}}
	records := sampleRecords()

	got := NewRenderer(resolver).Render(records, JiraMarkdown, false)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "[TMS-1: Login breaks](https://jira.example.com/browse/TMS-1)" {
		t.Errorf("Unexpected resolved line: %q", lines[0])
	}
	// resolved but untitled: bare key as link text
	if lines[1] != "[TMS-2](https://jira.example.com/browse/TMS-2)" {
		t.Errorf("Unexpected untitled line: %q", lines[1])
	}
	// unresolved: bare ticket key, no link
	if lines[2] != "TMS-3" {
		t.Errorf("Unexpected unresolved line: %q", lines[2])
	}
}

func TestRender_Wiki(t *testing.T) {
	resolver := &fakeResolver{tickets: map[string]Ticket{
		"TMS_1": {Key: "TMS-1", Title: "Login breaks", URL: "https://jira.example.com/browse/TMS-1"},
	}}
	records := sampleRecords()[:1]

	got := NewRenderer(resolver).Render(records, Wiki, false)
	if got != "[TMS-1: Login breaks|https://jira.example.com/browse/TMS-1]" {
		t.Errorf("Unexpected wiki output: %q", got)
	}
}

func TestGroupByReason(t *testing.T) {
	records := report.Snapshot{
		{Identifier: "TMS_1", Reason: "Timeout after 30 seconds"},
		{Identifier: "TMS_2", Reason: "Timeout after 45 seconds"},
		{Identifier: "TMS_3", Reason: "AssertionError: nope"},
		{Identifier: "TMS_4", Reason: "AssertionError: nope"},
		{Identifier: "TMS_5", Reason: "KeyError: missing"},
	}

	groups := GroupByReason(records)
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	// two groups of two; the timeout group appeared first and stays first
	if len(groups[0].Records) != 2 || len(groups[1].Records) != 2 || len(groups[2].Records) != 1 {
		t.Fatalf("Unexpected group sizes: %d, %d, %d",
			len(groups[0].Records), len(groups[1].Records), len(groups[2].Records))
	}
	if groups[0].Records[0].Identifier != "TMS_1" {
		t.Errorf("Expected the timeout group first, got %q", groups[0].Header)
	}
	if groups[1].Records[0].Identifier != "TMS_3" {
		t.Errorf("Expected the assertion group second, got %q", groups[1].Header)
	}
	if groups[2].Records[0].Identifier != "TMS_5" {
		t.Errorf("Expected the singleton group last, got %q", groups[2].Header)
	}
}

func TestGroupByReason_EmptyReasonsShareGroup(t *testing.T) {
	records := report.Snapshot{
		{Identifier: "TMS_1"},
		{Identifier: "TMS_2"},
	}
	groups := GroupByReason(records)
	if len(groups) != 1 {
		t.Fatalf("Expected a single group, got %d", len(groups))
	}
	if groups[0].Header != "No failure reason" {
		t.Errorf("Unexpected header %q", groups[0].Header)
	}
}

func TestRender_Grouped(t *testing.T) {
	records := report.Snapshot{
		{Identifier: "TMS_1", Reason: "Timeout after 30 seconds"},
		{Identifier: "TMS_2", Reason: "Timeout after 45 seconds"},
		{Identifier: "TMS_3", Reason: "AssertionError: nope"},
	}

	got := NewRenderer(nil).Render(records, Raw, true)
	expected := "[2] Timeout after 30 seconds\n" +
		"  TMS_1, TMS_2\n" +
		"\n" +
		"[1] AssertionError: nope\n" +
		"  TMS_3"
	if got != expected {
		t.Errorf("Unexpected grouped output:\n%q\nexpected:\n%q", got, expected)
	}
}

func TestRerunCommand(t *testing.T) {
	records := report.Snapshot{
		{ShortName: "test_a"},
		{ShortName: "test_b"},
	}
	got := RerunCommand(records, `pytest -k "{tests}"`)
	if got != `pytest -k "test_a or test_b"` {
		t.Errorf("Unexpected rerun command: %q", got)
	}

	if got := RerunCommand(nil, `pytest -k "{tests}"`); got != "# No tests to rerun" {
		t.Errorf("Unexpected empty rerun command: %q", got)
	}
}
