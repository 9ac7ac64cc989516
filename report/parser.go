package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	stdhtml "html"

	"golang.org/x/net/html"
)

// DefaultTicketPrefix matches the ticket keys embedded in test names
const DefaultTicketPrefix = "TMS"

// Parser extracts test records from pytest-html report files
type Parser struct {
	ticketPattern *regexp.Regexp
}

// NewParser creates a parser that recognizes ticket keys with the given
// prefix (e.g. "TMS" matches TMS_12345)
func NewParser(ticketPrefix string) *Parser {
	if ticketPrefix == "" {
		ticketPrefix = DefaultTicketPrefix
	}
	return &Parser{
		ticketPattern: regexp.MustCompile(regexp.QuoteMeta(ticketPrefix) + `[_-]\d+`),
	}
}

// reportData mirrors the JSON blob embedded in a pytest-html report
type reportData struct {
	Tests json.RawMessage `json:"tests"`
}

type testEntry struct {
	id   string
	runs json.RawMessage
}

// testRun is a single run entry for a test id; reruns produce several
type testRun struct {
	Result   string          `json:"result"`
	Duration json.RawMessage `json:"duration"`
	Time     string          `json:"time"`
	Log      string          `json:"log"`
	RowCells []string        `json:"resultsTableRow"`
	Extras   []testRunExtra  `json:"extras"`
}

type testRunExtra struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Parse reads one pytest-html report and returns its records in table order
func (p *Parser) Parse(reader io.Reader) (Snapshot, error) {
	doc, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	blob, ok := findDataBlob(doc)
	if !ok {
		return nil, fmt.Errorf("could not find data container in HTML report")
	}

	var data reportData
	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("failed to decode report data blob: %w", err)
	}

	entries, err := orderedTests(data.Tests)
	if err != nil {
		return nil, fmt.Errorf("failed to decode report data blob: %w", err)
	}

	var records Snapshot
	for _, entry := range entries {
		runs, err := decodeRuns(entry.runs)
		if err != nil {
			return nil, fmt.Errorf("malformed entry for %q: %w", entry.id, err)
		}
		for _, run := range runs {
			if rec, ok := p.parseRun(entry.id, run); ok {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

// orderedTests walks the tests object token by token to keep records in
// report order; decoding into a map would lose it
func orderedTests(raw json.RawMessage) ([]testEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("tests is not an object")
	}
	var entries []testEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}
		var runs json.RawMessage
		if err := dec.Decode(&runs); err != nil {
			return nil, err
		}
		entries = append(entries, testEntry{id: key, runs: runs})
	}
	return entries, nil
}

// ParseFile parses a single report file
func (p *Parser) ParseFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	records, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// ParseFiles parses multiple report files, concatenating records in file
// order. The progress callback, when non-nil, is invoked before each file.
func (p *Parser) ParseFiles(paths []string, progress func(current, total int, name string)) (Snapshot, error) {
	var all Snapshot
	for i, path := range paths {
		if progress != nil {
			progress(i, len(paths), filepath.Base(path))
		}
		records, err := p.ParseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	if progress != nil {
		progress(len(paths), len(paths), "complete")
	}
	return all, nil
}

// CollectHTMLFiles gathers report files from the given paths. Directories
// are searched recursively; the result is sorted.
func CollectHTMLFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("path not found: %s", path)
		}
		if info.IsDir() {
			err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".html") {
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", path, err)
			}
			continue
		}
		if !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil, fmt.Errorf("not an HTML file: %s", path)
		}
		files = append(files, path)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no HTML files found in provided paths")
	}
	sort.Strings(files)
	return files, nil
}

// decodeRuns accepts both a single run object and a list of reruns
func decodeRuns(raw json.RawMessage) ([]testRun, error) {
	var runs []testRun
	if err := json.Unmarshal(raw, &runs); err == nil {
		return runs, nil
	}
	var single testRun
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []testRun{single}, nil
}

// parseRun builds a record from one run entry. Runs without a known status
// or without a ticket key are skipped.
func (p *Parser) parseRun(testID string, run testRun) (TestRecord, bool) {
	status, err := ParseStatus(run.Result)
	if err != nil {
		return TestRecord{}, false
	}

	identifier := ""
	for _, cell := range run.RowCells {
		if m := p.ticketPattern.FindString(cell); m != "" {
			identifier = strings.ReplaceAll(m, "-", "_")
			break
		}
	}
	if identifier == "" {
		return TestRecord{}, false
	}

	return TestRecord{
		Identifier:    identifier,
		QualifiedName: testID,
		ShortName:     shortNameFromID(testID),
		Status:        status,
		Reason:        reasonFromCells(run.RowCells),
		Log:           SplitLog(executionLog(run)),
		Duration:      durationString(run.Duration),
		Timestamp:     run.Time,
	}, true
}

// shortNameFromID extracts the leaf function name from a test id like
// tests/test_login.py::test_ok[chrome]
func shortNameFromID(testID string) string {
	name := testID
	if idx := strings.LastIndex(name, "::"); idx >= 0 {
		name = name[idx+2:]
	}
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	return name
}

// reasonFromCells pulls the failure text out of the fourth results-table cell
func reasonFromCells(cells []string) string {
	if len(cells) < 4 {
		return ""
	}
	return strings.TrimSpace(textContent(cells[3]))
}

// executionLog collects captured output from the run extras, the log field
// and any <pre> blocks in the table cells
func executionLog(run testRun) string {
	var parts []string

	for _, extra := range run.Extras {
		name := strings.ToLower(extra.Name)
		if (name == "stdout" || name == "stderr" || name == "log") && extra.Content != "" {
			parts = append(parts, "=== "+strings.ToUpper(extra.Name)+" ===")
			parts = append(parts, cleanLog(extra.Content))
		}
	}

	if run.Log != "" {
		parts = append(parts, "=== LOG ===")
		parts = append(parts, cleanLog(run.Log))
	}

	for _, cell := range run.RowCells {
		lower := strings.ToLower(cell)
		if !strings.Contains(lower, "log") && !strings.Contains(lower, "pre") {
			continue
		}
		for _, pre := range preBlocks(cell) {
			if len(strings.TrimSpace(pre)) > 10 {
				parts = append(parts, cleanLog(pre))
			}
		}
	}

	return strings.Join(parts, "\n\n")
}

func durationString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return fmt.Sprintf("%.2f s", asNumber)
	}
	return ""
}

var (
	ansiEscapes  = regexp.MustCompile(`\x1b(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)
	controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
)

// cleanLog strips escape sequences and control noise from captured output
func cleanLog(content string) string {
	content = stdhtml.UnescapeString(content)
	content = ansiEscapes.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = controlChars.ReplaceAllString(content, "")
	content = blankRuns.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// findDataBlob locates the data-jsonblob attribute in the report DOM
func findDataBlob(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "data-jsonblob" {
				return attr.Val, true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if blob, ok := findDataBlob(c); ok {
			return blob, ok
		}
	}
	return "", false
}

// textContent strips tags from an HTML fragment
func textContent(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var b strings.Builder
	collectText(doc, &b)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// preBlocks returns the text of every <pre> element in an HTML fragment
func preBlocks(fragment string) []string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	var blocks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "pre" {
			var b strings.Builder
			collectText(n, &b)
			blocks = append(blocks, b.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks
}
