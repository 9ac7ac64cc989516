package report

import (
	"regexp"
	"strings"
)

// LogLevel categorizes a line of captured test output
type LogLevel int

const (
	LevelUnknown LogLevel = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// String returns the canonical level token
func (l LogLevel) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return ""
	}
}

// LogLine is a single line of execution log with its detected level
type LogLine struct {
	Level LogLevel
	Text  string
}

// Section names recognized inside pytest logs
const (
	SectionSetup    = "setup"
	SectionCall     = "call"
	SectionTeardown = "teardown"
)

var levelPattern = regexp.MustCompile(`\b(FATAL|ERROR|ERR|WARNING|WARN|INFO|DEBUG|DBG|TRACE|TRC)\b`)

var levelTokens = map[string]LogLevel{
	"FATAL":   LevelFatal,
	"ERROR":   LevelError,
	"ERR":     LevelError,
	"WARNING": LevelWarn,
	"WARN":    LevelWarn,
	"INFO":    LevelInfo,
	"DEBUG":   LevelDebug,
	"DBG":     LevelDebug,
	"TRACE":   LevelTrace,
	"TRC":     LevelTrace,
}

var sectionPatterns = []struct {
	re      *regexp.Regexp
	section string
}{
	{regexp.MustCompile(`(?i)-+\s*live log setup\s*-+`), SectionSetup},
	{regexp.MustCompile(`(?i)-+\s*live log call\s*-+`), SectionCall},
	{regexp.MustCompile(`(?i)-+\s*live log teardown\s*-+`), SectionTeardown},
	{regexp.MustCompile(`(?i)-+\s*Captured log setup\s*-+`), SectionSetup},
	{regexp.MustCompile(`(?i)-+\s*Captured log call\s*-+`), SectionCall},
	{regexp.MustCompile(`(?i)-+\s*Captured log teardown\s*-+`), SectionTeardown},
}

// SplitLog breaks raw execution output into leveled lines. Lines without a
// recognizable level token keep LevelUnknown.
func SplitLog(raw string) []LogLine {
	if raw == "" {
		return nil
	}
	rawLines := strings.Split(raw, "\n")
	lines := make([]LogLine, len(rawLines))
	for i, text := range rawLines {
		lines[i] = LogLine{Level: detectLevel(text), Text: text}
	}
	return lines
}

func detectLevel(line string) LogLevel {
	match := levelPattern.FindString(strings.ToUpper(line))
	if match == "" {
		return LevelUnknown
	}
	return levelTokens[match]
}

// SectionName reports which pytest section a line opens, if any
func SectionName(line string) (string, bool) {
	for _, p := range sectionPatterns {
		if p.re.MatchString(line) {
			return p.section, true
		}
	}
	return "", false
}

// FindSection returns the index of the first line opening the named section,
// or -1 when the log has no such section
func FindSection(log []LogLine, section string) int {
	for i, l := range log {
		if name, ok := SectionName(l.Text); ok && name == section {
			return i
		}
	}
	return -1
}
