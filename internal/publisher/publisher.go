// Package publisher turns aggregated issue groups into created or updated
// tracker issues, one per category per run date.
package publisher

import (
	"context"
	"log/slog"
	"time"

	"updatewatch/internal/aggregate"
	"updatewatch/internal/config"
	"updatewatch/internal/model"
	"updatewatch/internal/tracker"
)

const (
	defaultDelay     = 2 * time.Second
	maxDryRunSamples = 5
)

// Publisher upserts one tracking issue per category group.
type Publisher struct {
	tracker tracker.Client
	rc      *config.ReportConfig
	log     *slog.Logger
	delay   time.Duration
	now     func() time.Time
}

// New creates a Publisher. The tracker client may be nil if only dry runs
// are performed.
func New(client tracker.Client, rc *config.ReportConfig, log *slog.Logger) *Publisher {
	return &Publisher{
		tracker: client,
		rc:      rc,
		log:     log,
		delay:   defaultDelay,
		now:     time.Now,
	}
}

// SetDelay overrides the delay inserted between category publishes.
func (p *Publisher) SetDelay(d time.Duration) {
	p.delay = d
}

// SetNow overrides the clock (useful for testing the run date).
func (p *Publisher) SetNow(now func() time.Time) {
	p.now = now
}

// Publish groups the relevant items by category and creates or updates one
// issue per group. In dry-run mode nothing is sent to the tracker. A failure
// in one category is captured in that category's result; the remaining
// categories are still attempted.
func (p *Publisher) Publish(ctx context.Context, items []model.RelevantItem, dryRun bool) []model.PublishResult {
	groups := aggregate.Group(items)
	runDate := p.now().UTC().Format("2006-01-02")

	var results []model.PublishResult
	for i, group := range groups {
		if len(group.Items) == 0 {
			results = append(results, model.PublishResult{
				Category: group.Category,
				Action:   model.ActionNone,
				Skipped:  true,
			})
			continue
		}
		if dryRun {
			results = append(results, p.simulate(group, runDate))
			continue
		}
		if i > 0 {
			// Sequential publishing with a pause keeps us under the
			// tracker's rate limits.
			time.Sleep(p.delay)
		}
		results = append(results, p.publishGroup(ctx, group, runDate))
	}
	return results
}

// simulate logs what a live run would publish, without contacting the
// tracker.
func (p *Publisher) simulate(group model.IssueGroup, runDate string) model.PublishResult {
	title := aggregate.Title(group, p.rc, runDate)
	p.log.Info("dry run: would publish", "category", group.Category, "title", title, "items", len(group.Items))

	for i, item := range group.Items {
		if i == maxDryRunSamples {
			p.log.Info("dry run: additional items", "category", group.Category, "count", len(group.Items)-maxDryRunSamples)
			break
		}
		p.log.Info("dry run: item", "title", item.Item.Title, "score", item.Match.Score, "link", item.Item.Link)
	}

	return model.PublishResult{
		Category:  group.Category,
		ItemCount: len(group.Items),
		Action:    model.ActionSimulated,
		Success:   true,
		Simulated: true,
	}
}

func (p *Publisher) publishGroup(ctx context.Context, group model.IssueGroup, runDate string) model.PublishResult {
	result := model.PublishResult{
		Category:  group.Category,
		ItemCount: len(group.Items),
		Action:    model.ActionNone,
	}

	prefix := p.rc.TitlePrefix(group.Category)
	title := aggregate.Title(group, p.rc, runDate)
	body := aggregate.Body(group)

	existing, err := p.tracker.SearchOpenIssues(ctx, []string{prefix, runDate})
	if err != nil {
		p.log.Error("search existing issue", "category", group.Category, "error", err)
		result.Error = err.Error()
		return result
	}

	if len(existing) > 0 {
		issue, err := p.tracker.UpdateIssue(ctx, existing[0].Number, title, body)
		if err != nil {
			p.log.Error("update issue", "category", group.Category, "number", existing[0].Number, "error", err)
			result.Error = err.Error()
			return result
		}
		p.log.Info("updated issue", "category", group.Category, "url", issue.URL, "items", len(group.Items))
		result.Action = model.ActionUpdated
		result.Success = true
		result.IssueURL = issue.URL
		return result
	}

	issue, err := p.tracker.CreateIssue(ctx, title, body, aggregate.Labels(group, p.rc))
	if err != nil {
		p.log.Error("create issue", "category", group.Category, "error", err)
		result.Error = err.Error()
		return result
	}
	p.log.Info("created issue", "category", group.Category, "url", issue.URL, "items", len(group.Items))
	result.Action = model.ActionCreated
	result.Success = true
	result.IssueURL = issue.URL
	return result
}

// Summarize folds per-category results into run totals.
func Summarize(fetched, relevant int, results []model.PublishResult) model.RunSummary {
	summary := model.RunSummary{
		Fetched:    fetched,
		Relevant:   relevant,
		Categories: len(results),
	}
	for _, r := range results {
		summary.TotalItems += r.ItemCount
		switch {
		case r.Skipped:
		case r.Simulated:
			summary.Simulated++
		case !r.Success:
			summary.Failed++
		case r.Action == model.ActionUpdated:
			summary.Updated++
		case r.Action == model.ActionCreated:
			summary.Created++
		}
	}
	return summary
}
