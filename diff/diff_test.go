package diff

import (
	"strings"
	"testing"

	"github.com/wvsac/Report-Miner/report"
)

func entryIDs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Identifier
	}
	return out
}

func TestClassify_BasicTransitions(t *testing.T) {
	old := report.Snapshot{
		{Identifier: "TMS_A", ShortName: "test_a", Status: report.StatusFailed},
	}
	current := report.Snapshot{
		{Identifier: "TMS_A", ShortName: "test_a", Status: report.StatusPassed},
		{Identifier: "TMS_B", ShortName: "test_b", Status: report.StatusFailed},
	}

	result := Classify(old, current)
	if got := entryIDs(result.NewFailures); len(got) != 1 || got[0] != "TMS_B" {
		t.Errorf("Expected new failure TMS_B, got %v", got)
	}
	if got := entryIDs(result.Fixed); len(got) != 1 || got[0] != "TMS_A" {
		t.Errorf("Expected fixed TMS_A, got %v", got)
	}
	if len(result.StillFailing) != 0 {
		t.Errorf("Expected no still-failing entries, got %v", entryIDs(result.StillFailing))
	}
}

func TestClassify_StillFailingAndStillPassing(t *testing.T) {
	old := report.Snapshot{
		{Identifier: "TMS_1", Status: report.StatusFailed},
		{Identifier: "TMS_2", Status: report.StatusPassed},
	}
	current := report.Snapshot{
		{Identifier: "TMS_1", Status: report.StatusError},
		{Identifier: "TMS_2", Status: report.StatusPassed},
	}

	result := Classify(old, current)
	if got := entryIDs(result.StillFailing); len(got) != 1 || got[0] != "TMS_1" {
		t.Errorf("Expected still failing TMS_1, got %v", got)
	}
	if got := entryIDs(result.StillPassing); len(got) != 1 || got[0] != "TMS_2" {
		t.Errorf("Expected still passing TMS_2, got %v", got)
	}
}

func TestClassify_EveryNewIdentifierInExactlyOneBucket(t *testing.T) {
	old := report.Snapshot{
		{Identifier: "TMS_1", Status: report.StatusFailed},
		{Identifier: "TMS_2", Status: report.StatusPassed},
		{Identifier: "TMS_3", Status: report.StatusFailed},
		{Identifier: "TMS_9", Status: report.StatusFailed}, // gone in new
	}
	current := report.Snapshot{
		{Identifier: "TMS_1", Status: report.StatusPassed},  // fixed
		{Identifier: "TMS_2", Status: report.StatusFailed},  // new failure
		{Identifier: "TMS_3", Status: report.StatusFailed},  // still failing
		{Identifier: "TMS_4", Status: report.StatusFailed},  // new failure, absent from old
		{Identifier: "TMS_5", Status: report.StatusPassed},  // passing, absent from old
		{Identifier: "TMS_6", Status: report.StatusSkipped}, // not failing, absent from old
	}

	result := Classify(old, current)

	seen := make(map[string]int)
	for _, bucket := range [][]Entry{result.NewFailures, result.Fixed, result.StillFailing, result.StillPassing} {
		for _, e := range bucket {
			seen[e.Identifier]++
		}
	}
	for _, id := range []string{"TMS_1", "TMS_2", "TMS_3", "TMS_4", "TMS_5", "TMS_6"} {
		if seen[id] != 1 {
			t.Errorf("Identifier %s appears in %d buckets, expected exactly 1", id, seen[id])
		}
	}
	// old-only identifiers are ignored
	if seen["TMS_9"] != 0 {
		t.Errorf("Expected TMS_9 to be ignored, found it %d time(s)", seen["TMS_9"])
	}
}

func TestClassify_WorstStatusWithReruns(t *testing.T) {
	// A rerun that eventually passed still counts as failing for the run:
	// the worst status per identifier wins.
	old := report.Snapshot{
		{Identifier: "TMS_1", Status: report.StatusPassed},
	}
	current := report.Snapshot{
		{Identifier: "TMS_1", Status: report.StatusRerun},
		{Identifier: "TMS_1", Status: report.StatusFailed},
		{Identifier: "TMS_1", Status: report.StatusPassed},
	}

	result := Classify(old, current)
	if got := entryIDs(result.NewFailures); len(got) != 1 || got[0] != "TMS_1" {
		t.Errorf("Expected TMS_1 as new failure via worst status, got %v", got)
	}
}

func TestClassify_OrderFollowsSnapshots(t *testing.T) {
	old := report.Snapshot{
		{Identifier: "TMS_2", Status: report.StatusFailed},
		{Identifier: "TMS_1", Status: report.StatusFailed},
	}
	current := report.Snapshot{
		{Identifier: "TMS_5", Status: report.StatusFailed},
		{Identifier: "TMS_4", Status: report.StatusFailed},
		{Identifier: "TMS_1", Status: report.StatusPassed},
		{Identifier: "TMS_2", Status: report.StatusPassed},
	}

	result := Classify(old, current)
	// new failures follow new snapshot order
	if got := entryIDs(result.NewFailures); got[0] != "TMS_5" || got[1] != "TMS_4" {
		t.Errorf("Expected new order [TMS_5 TMS_4], got %v", got)
	}
	// fixed follows old snapshot order
	if got := entryIDs(result.Fixed); got[0] != "TMS_2" || got[1] != "TMS_1" {
		t.Errorf("Expected old order [TMS_2 TMS_1], got %v", got)
	}
}

func TestClassify_IgnoresRecordsWithoutIdentifier(t *testing.T) {
	old := report.Snapshot{}
	current := report.Snapshot{
		{ShortName: "test_orphan", Status: report.StatusFailed},
	}
	result := Classify(old, current)
	total := len(result.NewFailures) + len(result.Fixed) + len(result.StillFailing) + len(result.StillPassing)
	if total != 0 {
		t.Errorf("Expected identifierless records to be ignored, got %d entries", total)
	}
}

func TestReport(t *testing.T) {
	old := report.Snapshot{
		{Identifier: "TMS_A", ShortName: "test_a", Status: report.StatusFailed},
		{Identifier: "TMS_C", ShortName: "test_c", Status: report.StatusFailed},
	}
	current := report.Snapshot{
		{Identifier: "TMS_A", ShortName: "test_a", Status: report.StatusPassed},
		{Identifier: "TMS_B", ShortName: "test_b", Status: report.StatusFailed},
		{Identifier: "TMS_C", ShortName: "test_c", Status: report.StatusFailed},
	}

	got := Report(Classify(old, current))
	expected := "NEW FAILURES (1):\n" +
		"  - TMS_B: test_b\n" +
		"\n" +
		"FIXED (1):\n" +
		"  + TMS_A: test_a\n" +
		"\n" +
		"STILL FAILING (1):\n" +
		"  ~ TMS_C: test_c\n" +
		"\n" +
		"SUMMARY: 1 new, 1 fixed, 1 still failing"
	if got != expected {
		t.Errorf("Unexpected report:\n%q\nexpected:\n%q", got, expected)
	}
}

func TestReport_Empty(t *testing.T) {
	got := Report(Result{})
	if !strings.Contains(got, "SUMMARY: 0 new, 0 fixed, 0 still failing") {
		t.Errorf("Unexpected empty report: %q", got)
	}
}
