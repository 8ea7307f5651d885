// Package fetcher handles RSS/Atom feed downloading, parsing, and
// normalization into feed items.
package fetcher

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"updatewatch/internal/model"
)

// RecencyWindow is how far back items are kept, relative to fetch time.
const RecencyWindow = 24 * time.Hour

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 5 * 1024 * 1024
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses configured feed sources.
type Fetcher struct {
	client  HTTPClient
	log     *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// New creates a Fetcher with the given HTTP client.
func New(client HTTPClient, log *slog.Logger) *Fetcher {
	return &Fetcher{
		client:  client,
		log:     log,
		timeout: defaultTimeout,
		now:     time.Now,
	}
}

// SetTimeout overrides the default per-source fetch timeout.
func (f *Fetcher) SetTimeout(d time.Duration) {
	f.timeout = d
}

// SetNow overrides the clock (useful for testing the recency window).
func (f *Fetcher) SetNow(now func() time.Time) {
	f.now = now
}

// ParseAll fetches every source concurrently and returns the surviving items
// from all of them. Each source writes to its own result slot, so no locking
// is needed. A failing source contributes zero items and a log line; it
// never fails the run.
func (f *Fetcher) ParseAll(ctx context.Context, sources []model.FeedSource) []model.FeedItem {
	results := make([][]model.FeedItem, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := f.fetchSource(ctx, src)
			if err != nil {
				f.log.Error("fetch source", "source", src.Name, "url", src.URL, "error", err)
				return
			}
			results[i] = items
		}()
	}
	wg.Wait()

	var all []model.FeedItem
	for _, items := range results {
		all = append(all, items...)
	}
	return all
}

// fetchSource downloads one source and normalizes its entries. Items without
// a parseable publication date are dropped, as are items at or beyond the
// recency window.
func (f *Fetcher) fetchSource(ctx context.Context, src model.FeedSource) ([]model.FeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	cutoff := f.now().Add(-RecencyWindow)
	var items []model.FeedItem
	for _, entry := range feed.Items {
		published := entryTime(entry)
		if published == nil {
			f.log.Debug("drop item without date", "source", src.Name, "title", entry.Title)
			continue
		}
		if !published.After(cutoff) {
			continue
		}
		items = append(items, model.FeedItem{
			Title:       strings.TrimSpace(entry.Title),
			Link:        entry.Link,
			Published:   published.UTC(),
			Description: normalizeText(entryText(entry)),
			SourceName:  src.Name,
			Category:    src.Category,
		})
	}
	return items, nil
}

// Fetch downloads and parses a single feed from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "updatewatch/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// entryTime returns the entry's publication time, preferring pubDate over
// the last-updated timestamp. Nil means the entry carries no parseable date.
func entryTime(entry *gofeed.Item) *time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed
	}
	return entry.UpdatedParsed
}

// entryText returns the entry's description, falling back to its content
// block for feeds that only populate one of the two.
func entryText(entry *gofeed.Item) string {
	if entry.Description != "" {
		return entry.Description
	}
	return entry.Content
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// normalizeText strips HTML markup and collapses whitespace so downstream
// scoring sees plain text.
func normalizeText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
