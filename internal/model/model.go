// Package model defines the domain types used across the pipeline.
package model

import "time"

// FeedSource is one configured RSS/Atom endpoint.
type FeedSource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// FeedItem is one normalized entry fetched from a source. Items only exist
// if their publication time fell inside the recency window at fetch time.
type FeedItem struct {
	Title       string
	Link        string
	Published   time.Time
	Description string
	SourceName  string
	Category    string
}

// MatchResult holds the outcome of scoring a piece of text against the
// keyword rules. Keywords and Categories are sorted.
type MatchResult struct {
	Score      int
	Keywords   []string
	Categories []string
}

// RelevantItem pairs a feed item with its match result. Its score is always
// at or above the threshold that was active when it was selected.
type RelevantItem struct {
	Item  FeedItem
	Match MatchResult
}

// IssueGroup is the ordered set of relevant items for one category.
type IssueGroup struct {
	Category string
	Items    []RelevantItem
}

// Action describes what the publisher did for a category group.
type Action string

// Supported publish actions.
const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionSimulated Action = "simulated"
	ActionNone      Action = "none"
)

// PublishResult is the per-category outcome of a publish attempt. At most
// one result exists per category per run.
type PublishResult struct {
	Category  string
	ItemCount int
	Action    Action
	Success   bool
	Skipped   bool
	Simulated bool
	IssueURL  string
	Error     string
}

// RunSummary aggregates one full pipeline run.
type RunSummary struct {
	Fetched    int
	Relevant   int
	Categories int
	Created    int
	Updated    int
	Failed     int
	Simulated  int
	TotalItems int
}
