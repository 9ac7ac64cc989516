// Package filter provides pure, order-preserving predicates over a report
// snapshot. Nothing here mutates records; every function returns a new slice.
package filter

import (
	"sort"
	"strings"

	"github.com/wvsac/Report-Miner/report"
)

// Spec describes which records survive filtering. The zero value keeps
// everything.
type Spec struct {
	Statuses   map[report.Status]bool // empty means no status filtering
	Search     string                 // case-insensitive substring, empty matches all
	OnlyMarked bool
}

// AllStatuses returns a spec with no restrictions
func AllStatuses() Spec {
	return Spec{}
}

// ByStatus returns a spec keeping only the given statuses
func ByStatus(statuses ...report.Status) Spec {
	set := make(map[report.Status]bool, len(statuses))
	for _, s := range statuses {
		set[s] = true
	}
	return Spec{Statuses: set}
}

// Apply filters the snapshot according to the spec. The marked set is keyed
// by report.Snapshot.Key and only consulted when spec.OnlyMarked is set.
// Input order is preserved and the input never modified.
func Apply(records report.Snapshot, spec Spec, marked map[string]bool) report.Snapshot {
	indexes := ApplyIndexes(records, spec, marked)
	out := make(report.Snapshot, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, records[i])
	}
	return out
}

// ApplyIndexes is Apply returning the surviving positions instead of the
// records, for callers that need to map a filtered row back to its place
// in the snapshot.
func ApplyIndexes(records report.Snapshot, spec Spec, marked map[string]bool) []int {
	out := make([]int, 0, len(records))
	for i := range records {
		if len(spec.Statuses) > 0 && !spec.Statuses[records[i].Status] {
			continue
		}
		if spec.OnlyMarked && !marked[records.Key(i)] {
			continue
		}
		if !matchesSearch(&records[i], spec.Search) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// matchesSearch checks the qualified name, identifier and reason for a
// case-insensitive substring match. TMS-123 and TMS_123 are treated as the
// same identifier.
func matchesSearch(r *report.TestRecord, search string) bool {
	if search == "" {
		return true
	}
	query := strings.ToLower(search)
	if strings.Contains(strings.ToLower(r.QualifiedName), query) {
		return true
	}
	if strings.Contains(normalizeKey(r.Identifier), normalizeKey(search)) {
		return true
	}
	return strings.Contains(strings.ToLower(r.Reason), query)
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", "_")
}

// Deduplicate collapses records sharing both identifier and status, keeping
// the first occurrence. Records with the same identifier but different
// statuses are all kept: a flaky rerun is meaningful. Records without an
// identifier are never collapsed.
func Deduplicate(records report.Snapshot) report.Snapshot {
	type dedupKey struct {
		identifier string
		status     report.Status
	}
	seen := make(map[dedupKey]bool, len(records))
	out := make(report.Snapshot, 0, len(records))
	for i := range records {
		if !records[i].HasIdentifier() {
			out = append(out, records[i])
			continue
		}
		key := dedupKey{records[i].Identifier, records[i].Status}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, records[i])
	}
	return out
}

// SortByIdentifier returns a copy sorted alphabetically by identifier.
// The sort is stable so records sharing an identifier keep their input order.
func SortByIdentifier(records report.Snapshot) report.Snapshot {
	out := make(report.Snapshot, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Identifier < out[j].Identifier
	})
	return out
}
