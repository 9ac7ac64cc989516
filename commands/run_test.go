package commands

import (
	"strings"
	"testing"

	"github.com/wvsac/Report-Miner/config"
	"github.com/wvsac/Report-Miner/report"
)

func TestParseStatusSpec(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected []report.Status
		all      bool
		wantErr  bool
	}{
		{"single status", "failed", []report.Status{report.StatusFailed}, false, false},
		{"comma separated", "failed,error", []report.Status{report.StatusFailed, report.StatusError}, false, false},
		{"spaces tolerated", " failed , error ", []report.Status{report.StatusFailed, report.StatusError}, false, false},
		{"all keyword", "all", nil, true, false},
		{"empty means all", "", nil, true, false},
		{"mixed case", "Failed", []report.Status{report.StatusFailed}, false, false},
		{"unknown status", "broken", nil, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := parseStatusSpec(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tc.all {
				if len(spec.Statuses) != 0 {
					t.Errorf("Expected no status restriction, got %v", spec.Statuses)
				}
				return
			}
			if len(spec.Statuses) != len(tc.expected) {
				t.Fatalf("Expected %d statuses, got %d", len(tc.expected), len(spec.Statuses))
			}
			for _, s := range tc.expected {
				if !spec.Statuses[s] {
					t.Errorf("Expected status %s in spec", s)
				}
			}
		})
	}
}

func TestNewRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand(config.Config{DefaultFormat: "raw", DefaultStatus: "failed"})

	for _, name := range []string{
		"format", "status", "output", "unique", "sort", "count",
		"copy", "diff", "view", "group", "rerun", "clear-cache",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected flag --%s to be registered", name)
		}
	}

	// defaults come from the config
	if got := cmd.Flags().Lookup("format").DefValue; got != "raw" {
		t.Errorf("Expected format default raw, got %q", got)
	}
	if got := cmd.Flags().Lookup("status").DefValue; got != "failed" {
		t.Errorf("Expected status default failed, got %q", got)
	}
}

func TestRunDiff_RequiresTwoFiles(t *testing.T) {
	rc := newRunCommand(config.Config{}, &Flags{Diff: true})
	err := rc.runDiff([]string{"only-one.html"})
	if err == nil {
		t.Fatal("Expected an error for a single diff argument")
	}
	if !strings.Contains(err.Error(), "exactly 2") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestExecute_NoArguments(t *testing.T) {
	rc := newRunCommand(config.Config{DefaultFormat: "raw", DefaultStatus: "failed"},
		&Flags{Format: "raw", Status: "failed"})
	if err := rc.Execute(nil, nil); err == nil {
		t.Error("Expected an error without report files")
	}
}
