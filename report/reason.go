package report

import (
	"regexp"
	"strings"
)

const noReason = "no failure reason"

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	digitRuns      = regexp.MustCompile(`\d+`)
)

// FailureGroupKey returns the normalized form of the failure reason used to
// group records. Normalization: first line only, whitespace runs collapsed to
// a single space, digit runs replaced with '#' (timestamps, ports and ids are
// noise), lowercased. Records without a reason share the "no failure reason"
// group.
func (r *TestRecord) FailureGroupKey() string {
	line := firstLine(r.Reason)
	if line == "" {
		return noReason
	}
	line = whitespaceRuns.ReplaceAllString(line, " ")
	line = digitRuns.ReplaceAllString(line, "#")
	return strings.ToLower(line)
}

// GroupHeader returns the display form of the failure reason: first line,
// truncated to 80 characters
func (r *TestRecord) GroupHeader() string {
	line := firstLine(r.Reason)
	if line == "" {
		return "No failure reason"
	}
	// truncate on runes so multi-byte reasons stay valid UTF-8
	if runes := []rune(line); len(runes) > 80 {
		return string(runes[:77]) + "..."
	}
	return line
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
