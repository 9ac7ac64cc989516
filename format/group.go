package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wvsac/Report-Miner/report"
)

// Group is one failure-reason partition of a record sequence
type Group struct {
	Key     string // normalized reason, see report.TestRecord.FailureGroupKey
	Header  string // display form of the reason
	Records report.Snapshot
}

// GroupByReason partitions records by normalized failure reason. Groups are
// ordered by descending member count; equal counts keep first-appearance
// order.
func GroupByReason(records report.Snapshot) []Group {
	index := make(map[string]int)
	var groups []Group
	for i := range records {
		key := records[i].FailureGroupKey()
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{Key: key, Header: records[i].GroupHeader()})
		}
		groups[gi].Records = append(groups[gi].Records, records[i])
	}
	// Stable sort keeps first-appearance order for equal counts.
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Records) > len(groups[j].Records)
	})
	return groups
}

// renderGrouped renders each reason group under a "[count] reason" header,
// applying the chosen format to just that group's records
func (rd *Renderer) renderGrouped(records report.Snapshot, f Format) string {
	groups := GroupByReason(records)
	var b strings.Builder
	for gi, g := range groups {
		if gi > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%d] %s\n", len(g.Records), g.Header)
		inner := rd.renderFlat(g.Records, f)
		for _, line := range strings.Split(inner, "\n") {
			if line == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString("  " + line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
