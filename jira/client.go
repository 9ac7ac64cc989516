// Package jira resolves ticket identifiers against a Jira Cloud instance.
// Lookups fail soft: a missing or unreachable ticket degrades the affected
// entry, never the whole render.
package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wvsac/Report-Miner/report"
)

// Options configures the client; values come from the explicit application
// config, never from the environment directly
type Options struct {
	BaseURL    string
	Email      string
	Token      string
	StepsField string // custom field id holding test steps, e.g. customfield_10100
	Timeout    time.Duration
}

// Client talks to the Jira REST API v3
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	token      string
	stepsField string
	cache      *Cache
}

// NewClient creates a Jira client. The cache may be nil to disable caching.
func NewClient(opts Options, cache *Cache) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		email:      opts.Email,
		token:      opts.Token,
		stepsField: opts.StepsField,
		cache:      cache,
	}
}

// Configured reports whether credentials are present. Unconfigured clients
// still serve cache hits.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.email != "" && c.token != ""
}

// BrowseURL returns the human-facing URL for a ticket key
func (c *Client) BrowseURL(key string) string {
	if c.baseURL == "" {
		return ""
	}
	return c.baseURL + "/browse/" + key
}

// FetchIssue looks up one issue, consulting the cache first. A 404 returns
// (nil, nil): the ticket simply does not exist.
func (c *Client) FetchIssue(ctx context.Context, key string) (*Issue, error) {
	if c.cache != nil {
		if issue, ok := c.cache.Get(key); ok {
			return issue, nil
		}
	}

	if !c.Configured() {
		return nil, nil
	}

	fields := "summary"
	if c.stepsField != "" {
		fields += "," + c.stepsField
	}
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s?fields=%s", c.baseURL, url.PathEscape(key), url.QueryEscape(fields))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code for %s: %d", key, resp.StatusCode)
	}

	var payload struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	issue := &Issue{Key: key}
	if raw, ok := payload.Fields["summary"]; ok {
		_ = json.Unmarshal(raw, &issue.Summary)
	}
	if c.stepsField != "" {
		if raw, ok := payload.Fields[c.stepsField]; ok {
			issue.Steps = fieldText(raw)
		}
	}

	if c.cache != nil {
		c.cache.Set(key, issue)
	}
	return issue, nil
}

// FetchIssues looks up every distinct ticket in the snapshot and returns the
// results keyed by ticket key. The records are never written: callers apply
// the results with ApplyIssues on the goroutine that owns the snapshot.
// Individual lookup failures are skipped; the context cancels the rest.
func (c *Client) FetchIssues(ctx context.Context, records report.Snapshot, progress func(current, total int, key string)) map[string]*Issue {
	issues := make(map[string]*Issue)
	seen := make(map[string]bool)
	for i := range records {
		if ctx.Err() != nil {
			return issues
		}
		r := &records[i]
		if !r.HasIdentifier() {
			continue
		}
		key := r.TicketKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		if progress != nil {
			progress(i, len(records), key)
		}
		issue, err := c.FetchIssue(ctx, key)
		if err != nil || issue == nil {
			continue
		}
		issues[key] = issue
	}
	if progress != nil {
		progress(len(records), len(records), "complete")
	}
	return issues
}

// ApplyIssues copies titles and steps onto every record whose ticket was
// fetched
func ApplyIssues(records report.Snapshot, issues map[string]*Issue) {
	for i := range records {
		r := &records[i]
		if !r.HasIdentifier() {
			continue
		}
		if issue, ok := issues[r.TicketKey()]; ok {
			r.Title = issue.Summary
			r.Steps = issue.Steps
		}
	}
}

func (c *Client) authHeader() string {
	credentials := c.email + ":" + c.token
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

// fieldText extracts plain text from a Jira field value, handling both bare
// strings and Atlassian Document Format
func fieldText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var node adfNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return ""
	}
	return strings.TrimSpace(node.text())
}

type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
}

func (n adfNode) text() string {
	if n.Type == "text" {
		return n.Text
	}
	var parts []string
	for _, child := range n.Content {
		parts = append(parts, child.text())
	}
	text := strings.Join(parts, "")
	switch n.Type {
	case "paragraph", "heading":
		return strings.TrimSpace(text) + "\n"
	case "orderedList", "bulletList":
		return text + "\n"
	case "listItem":
		return "- " + strings.TrimSpace(text) + "\n"
	}
	return text
}
