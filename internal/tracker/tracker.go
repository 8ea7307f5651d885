// Package tracker wraps the issue tracker used for publishing aggregated
// reports.
package tracker

import "context"

// Issue is a minimal view of a tracker issue.
type Issue struct {
	Number int
	Title  string
	URL    string
}

// Client is the issue tracker interface consumed by the publisher.
type Client interface {
	// SearchOpenIssues finds open issues whose titles contain every term.
	SearchOpenIssues(ctx context.Context, terms []string) ([]Issue, error)
	// CreateIssue opens a new issue and returns it.
	CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error)
	// UpdateIssue replaces an existing issue's title and body.
	UpdateIssue(ctx context.Context, number int, title, body string) (*Issue, error)
}
