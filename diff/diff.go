// Package diff classifies test identity changes between two report
// snapshots. This is set classification, not sequence alignment: each
// identifier is reduced to its worst status per snapshot and bucketed.
package diff

import (
	"github.com/wvsac/Report-Miner/report"
)

// Entry pairs an identifier with the record shown for it
type Entry struct {
	Identifier string
	Record     report.TestRecord
}

// Result holds the four disjoint classification buckets. StillPassing is
// informational; the summary counts only the first three.
type Result struct {
	NewFailures  []Entry
	Fixed        []Entry
	StillFailing []Entry
	StillPassing []Entry
}

// worst tracks the most severe status seen for an identifier along with the
// record that carried it
type worst struct {
	status report.Status
	record report.TestRecord
	order  int // first-appearance position, preserved in output buckets
}

// worstByIdentifier reduces a snapshot to one worst status per identifier.
// Records without an identifier cannot be correlated across runs and are
// skipped.
func worstByIdentifier(records report.Snapshot) (map[string]worst, []string) {
	byID := make(map[string]worst)
	var order []string
	for i := range records {
		r := &records[i]
		if !r.HasIdentifier() {
			continue
		}
		w, seen := byID[r.Identifier]
		if !seen {
			byID[r.Identifier] = worst{status: r.Status, record: *r, order: len(order)}
			order = append(order, r.Identifier)
			continue
		}
		if r.Status.Severity() > w.status.Severity() {
			w.status = r.Status
			w.record = *r
			byID[r.Identifier] = w
		}
	}
	return byID, order
}

// Classify compares two snapshots. Identifiers only present in old are
// ignored: a test removed between runs is neither new nor fixed. Buckets
// follow new's first-appearance order, except Fixed which follows old's.
func Classify(old, new report.Snapshot) Result {
	oldByID, oldOrder := worstByIdentifier(old)
	newByID, newOrder := worstByIdentifier(new)

	var result Result
	for _, id := range newOrder {
		n := newByID[id]
		o, inOld := oldByID[id]
		entry := Entry{Identifier: id, Record: n.record}
		switch {
		case n.status.Failing() && (!inOld || !o.status.Failing()):
			result.NewFailures = append(result.NewFailures, entry)
		case n.status.Failing():
			result.StillFailing = append(result.StillFailing, entry)
		case inOld && o.status.Failing():
			// lands in Fixed below, keeping the buckets disjoint
		default:
			result.StillPassing = append(result.StillPassing, entry)
		}
	}

	for _, id := range oldOrder {
		o := oldByID[id]
		if !o.status.Failing() {
			continue
		}
		n, inNew := newByID[id]
		if inNew && !n.status.Failing() {
			result.Fixed = append(result.Fixed, Entry{Identifier: id, Record: n.record})
		}
	}
	return result
}
