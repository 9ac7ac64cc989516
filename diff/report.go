package diff

import (
	"fmt"
	"strings"
)

// Report renders the classification as the labeled three-section text
// report. Section order, markers and the summary line are consumed by
// scripts and must stay stable.
func Report(result Result) string {
	var b strings.Builder

	writeSection(&b, "NEW FAILURES", "-", result.NewFailures)
	writeSection(&b, "FIXED", "+", result.Fixed)
	writeSection(&b, "STILL FAILING", "~", result.StillFailing)

	fmt.Fprintf(&b, "SUMMARY: %d new, %d fixed, %d still failing",
		len(result.NewFailures), len(result.Fixed), len(result.StillFailing))
	return b.String()
}

func writeSection(b *strings.Builder, label, marker string, entries []Entry) {
	fmt.Fprintf(b, "%s (%d):\n", label, len(entries))
	for _, e := range entries {
		fmt.Fprintf(b, "  %s %s: %s\n", marker, e.Identifier, e.Record.ShortName)
	}
	b.WriteString("\n")
}
