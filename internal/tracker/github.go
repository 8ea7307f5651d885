package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
	"github.com/sethvargo/go-retry"
)

// GitHub implements Client against the GitHub Issues API.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHub creates a tracker client for owner/repo authenticated with the
// given token.
func NewGitHub(token, owner, repo string) *GitHub {
	return &GitHub{
		client: github.NewClient(nil).WithAuthToken(token),
		owner:  owner,
		repo:   repo,
	}
}

// SearchOpenIssues finds open issues whose titles contain every term. This
// is a text search, not an exact lookup: it can match an unrelated issue
// whose title happens to contain all terms, and it misses an issue whose
// title was hand-edited. Callers rely on it only as a best-effort
// deduplication heuristic.
func (g *GitHub) SearchOpenIssues(ctx context.Context, terms []string) ([]Issue, error) {
	query := searchQuery(g.owner, g.repo, terms)

	var issues []Issue
	err := g.withRetry(ctx, func(ctx context.Context) error {
		result, resp, err := g.client.Search.Issues(ctx, query, &github.SearchOptions{
			ListOptions: github.ListOptions{PerPage: 10},
		})
		if err != nil {
			return retryable(resp, err)
		}
		issues = issues[:0]
		for _, found := range result.Issues {
			issues = append(issues, Issue{
				Number: found.GetNumber(),
				Title:  found.GetTitle(),
				URL:    found.GetHTMLURL(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return issues, nil
}

// CreateIssue opens a new issue with the given title, body, and labels.
func (g *GitHub) CreateIssue(ctx context.Context, title, body string, labels []string) (*Issue, error) {
	var issue *Issue
	err := g.withRetry(ctx, func(ctx context.Context) error {
		created, resp, err := g.client.Issues.Create(ctx, g.owner, g.repo, &github.IssueRequest{
			Title:  github.Ptr(title),
			Body:   github.Ptr(body),
			Labels: &labels,
		})
		if err != nil {
			return retryable(resp, err)
		}
		issue = &Issue{
			Number: created.GetNumber(),
			Title:  created.GetTitle(),
			URL:    created.GetHTMLURL(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return issue, nil
}

// UpdateIssue replaces the issue's title and body in place.
func (g *GitHub) UpdateIssue(ctx context.Context, number int, title, body string) (*Issue, error) {
	var issue *Issue
	err := g.withRetry(ctx, func(ctx context.Context) error {
		updated, resp, err := g.client.Issues.Edit(ctx, g.owner, g.repo, number, &github.IssueRequest{
			Title: github.Ptr(title),
			Body:  github.Ptr(body),
		})
		if err != nil {
			return retryable(resp, err)
		}
		issue = &Issue{
			Number: updated.GetNumber(),
			Title:  updated.GetTitle(),
			URL:    updated.GetHTMLURL(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update issue #%d: %w", number, err)
	}
	return issue, nil
}

// searchQuery builds the issue search query: open issues in the repository
// whose titles contain every term as a quoted phrase.
func searchQuery(owner, repo string, terms []string) string {
	var q strings.Builder
	fmt.Fprintf(&q, "repo:%s/%s is:issue is:open in:title", owner, repo)
	for _, term := range terms {
		fmt.Fprintf(&q, " %q", term)
	}
	return q.String()
}

func (g *GitHub) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, fn)
}

// retryable marks rate-limit and server-side errors for retry; everything
// else (auth failures, validation errors) fails immediately.
func retryable(resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return retry.RetryableError(err)
	}
	if resp != nil && resp.StatusCode >= 500 {
		return retry.RetryableError(err)
	}
	return err
}
