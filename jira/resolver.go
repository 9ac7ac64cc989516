package jira

import (
	"context"
	"strings"

	"github.com/wvsac/Report-Miner/format"
)

// Resolver adapts the client to the format.Resolver contract. Lookups block,
// so it belongs on the batch-formatting path; the TUI prefetches instead.
type Resolver struct {
	client *Client
	ctx    context.Context
	memo   map[string]format.Ticket
}

// NewResolver creates a resolver bound to ctx; cancelling it abandons any
// remaining lookups
func NewResolver(ctx context.Context, client *Client) *Resolver {
	return &Resolver{
		client: client,
		ctx:    ctx,
		memo:   make(map[string]format.Ticket),
	}
}

// Resolve implements format.Resolver. Without a configured base URL there is
// nothing to link to and the entry stays unresolved. Lookup errors degrade to
// a title-less ticket rather than failing the render.
func (r *Resolver) Resolve(identifier string) (format.Ticket, bool) {
	key := strings.ReplaceAll(identifier, "_", "-")
	if t, ok := r.memo[key]; ok {
		return t, t.URL != ""
	}

	url := r.client.BrowseURL(key)
	if url == "" {
		r.memo[key] = format.Ticket{}
		return format.Ticket{}, false
	}

	ticket := format.Ticket{Key: key, URL: url}
	if issue, err := r.client.FetchIssue(r.ctx, key); err == nil && issue != nil {
		ticket.Title = issue.Summary
	}
	r.memo[key] = ticket
	return ticket, true
}
