// Package pipeline wires the fetch, filter, and publish stages into one
// report run.
package pipeline

import (
	"context"
	"log/slog"

	"updatewatch/internal/config"
	"updatewatch/internal/fetcher"
	"updatewatch/internal/model"
	"updatewatch/internal/publisher"
	"updatewatch/internal/relevance"
)

// Options select per-run behavior.
type Options struct {
	DryRun            bool
	Extended          bool
	ThresholdOverride int
}

// Runner executes the full report pipeline.
type Runner struct {
	fetcher   *fetcher.Fetcher
	publisher *publisher.Publisher
	rc        *config.ReportConfig
	log       *slog.Logger
}

// New creates a Runner from the stage implementations.
func New(f *fetcher.Fetcher, p *publisher.Publisher, rc *config.ReportConfig, log *slog.Logger) *Runner {
	return &Runner{
		fetcher:   f,
		publisher: p,
		rc:        rc,
		log:       log,
	}
}

// RunOnce executes fetch, filter, and publish, returning the per-category
// results and the run summary. Per-source and per-category failures never
// abort the run; they surface in the log and the summary.
func (r *Runner) RunOnce(ctx context.Context, opts Options) ([]model.PublishResult, model.RunSummary) {
	sources := r.rc.Sources(opts.Extended)
	r.log.Info("fetching feeds", "sources", len(sources), "extended", opts.Extended)

	items := r.fetcher.ParseAll(ctx, sources)
	r.log.Info("fetched items", "count", len(items))

	relevant := relevance.Filter(items, r.rc, opts.ThresholdOverride)
	r.log.Info("relevant items", "count", len(relevant))

	results := r.publisher.Publish(ctx, relevant, opts.DryRun)
	summary := publisher.Summarize(len(items), len(relevant), results)

	r.log.Info("run complete",
		"categories", summary.Categories,
		"created", summary.Created,
		"updated", summary.Updated,
		"failed", summary.Failed,
		"simulated", summary.Simulated,
		"items", summary.TotalItems,
	)
	return results, summary
}
