package report

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input    string
		expected Status
		wantErr  bool
	}{
		{"passed", StatusPassed, false},
		{"Passed", StatusPassed, false},
		{"FAILED", StatusFailed, false},
		{" skipped ", StatusSkipped, false},
		{"error", StatusError, false},
		{"XFailed", StatusXFailed, false},
		{"xpassed", StatusXPassed, false},
		{"Rerun", StatusRerun, false},
		{"unknown", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		status, err := ParseStatus(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseStatus(%q): expected an error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q): unexpected error: %v", tc.input, err)
			continue
		}
		if status != tc.expected {
			t.Errorf("ParseStatus(%q) = %s, expected %s", tc.input, status, tc.expected)
		}
	}
}

func TestStatus_Severity(t *testing.T) {
	// error outranks failed outranks skipped outranks passed
	ordered := []Status{StatusError, StatusFailed, StatusSkipped, StatusPassed}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Severity() <= ordered[i].Severity() {
			t.Errorf("Expected %s to outrank %s", ordered[i-1], ordered[i])
		}
	}
	for _, s := range []Status{StatusXFailed, StatusXPassed, StatusRerun} {
		if s.Severity() >= StatusPassed.Severity() {
			t.Errorf("Expected %s to rank below passed", s)
		}
	}
}

func TestStatus_Failing(t *testing.T) {
	failing := map[Status]bool{
		StatusPassed:  false,
		StatusFailed:  true,
		StatusSkipped: false,
		StatusError:   true,
		StatusXFailed: false,
		StatusXPassed: false,
		StatusRerun:   false,
	}
	for status, expected := range failing {
		if status.Failing() != expected {
			t.Errorf("%s.Failing() = %v, expected %v", status, status.Failing(), expected)
		}
	}
}

func TestTestRecord_TicketKey(t *testing.T) {
	r := TestRecord{Identifier: "TMS_12345"}
	if r.TicketKey() != "TMS-12345" {
		t.Errorf("Expected TMS-12345, got %q", r.TicketKey())
	}
}

func TestTestRecord_ReadableName(t *testing.T) {
	cases := []struct {
		short    string
		expected string
	}{
		{"test_login_with_bad_password", "Login with bad password"},
		{"test_ok", "Ok"},
		{"check_health", "Check health"},
		{"", ""},
	}
	for _, tc := range cases {
		r := TestRecord{ShortName: tc.short}
		if got := r.ReadableName(); got != tc.expected {
			t.Errorf("ReadableName(%q) = %q, expected %q", tc.short, got, tc.expected)
		}
	}
}

func TestSnapshot_Key(t *testing.T) {
	snapshot := Snapshot{
		{Identifier: "TMS_1"},
		{},
		{Identifier: "TMS_1"},
	}
	if snapshot.Key(0) != "TMS_1" {
		t.Errorf("Expected identifier key, got %q", snapshot.Key(0))
	}
	if snapshot.Key(1) != "#1" {
		t.Errorf("Expected positional key #1, got %q", snapshot.Key(1))
	}
	if snapshot.Key(2) != "TMS_1" {
		t.Errorf("Expected shared identifier key, got %q", snapshot.Key(2))
	}
	if snapshot.Key(-1) != "" || snapshot.Key(3) != "" {
		t.Error("Expected empty key for out-of-range indexes")
	}
}

func TestSnapshot_CountStatuses(t *testing.T) {
	snapshot := Snapshot{
		{Status: StatusPassed},
		{Status: StatusPassed},
		{Status: StatusFailed},
		{Status: StatusSkipped},
		{Status: StatusError},
		{Status: StatusRerun},
	}
	counts := snapshot.CountStatuses()
	if counts.Total != 6 {
		t.Errorf("Expected total 6, got %d", counts.Total)
	}
	if counts.Passed != 2 || counts.Failed != 1 || counts.Skipped != 1 || counts.Errors != 1 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
}

func TestFailureGroupKey(t *testing.T) {
	cases := []struct {
		name     string
		reason   string
		expected string
	}{
		{
			"digits collapse",
			"Timeout after 30 seconds on port 8080",
			"timeout after # seconds on port #",
		},
		{
			"whitespace collapses",
			"AssertionError:   expected\ttrue",
			"assertionerror: expected true",
		},
		{
			"first line only",
			"ConnectionError: refused\nTraceback (most recent call last):",
			"connectionerror: refused",
		},
		{
			"empty reason",
			"",
			"no failure reason",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := TestRecord{Reason: tc.reason}
			if got := r.FailureGroupKey(); got != tc.expected {
				t.Errorf("FailureGroupKey() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestFailureGroupKey_SameGroupForDifferentDigits(t *testing.T) {
	a := TestRecord{Reason: "Timeout after 30 seconds"}
	b := TestRecord{Reason: "Timeout after 45 seconds"}
	if a.FailureGroupKey() != b.FailureGroupKey() {
		t.Errorf("Expected matching group keys, got %q and %q",
			a.FailureGroupKey(), b.FailureGroupKey())
	}
}

func TestGroupHeader(t *testing.T) {
	short := TestRecord{Reason: "AssertionError: nope"}
	if short.GroupHeader() != "AssertionError: nope" {
		t.Errorf("Unexpected header %q", short.GroupHeader())
	}

	long := TestRecord{Reason: strings.Repeat("x", 100)}
	header := long.GroupHeader()
	if len(header) != 80 {
		t.Errorf("Expected 80-character header, got %d", len(header))
	}
	if !strings.HasSuffix(header, "...") {
		t.Errorf("Expected truncation marker, got %q", header)
	}

	empty := TestRecord{}
	if empty.GroupHeader() != "No failure reason" {
		t.Errorf("Unexpected empty-reason header %q", empty.GroupHeader())
	}
}

func TestGroupHeader_TruncatesOnRunes(t *testing.T) {
	wide := TestRecord{Reason: strings.Repeat("日", 100)}
	header := wide.GroupHeader()
	if !utf8.ValidString(header) {
		t.Fatalf("Expected valid UTF-8, got %q", header)
	}
	if got := utf8.RuneCountInString(header); got != 80 {
		t.Errorf("Expected 80 runes, got %d", got)
	}
	if !strings.HasSuffix(header, "...") {
		t.Errorf("Expected truncation marker, got %q", header)
	}
}
