// Package main provides the updatewatch CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"updatewatch/internal/config"
	"updatewatch/internal/fetcher"
	"updatewatch/internal/model"
	"updatewatch/internal/pipeline"
	"updatewatch/internal/publisher"
	"updatewatch/internal/scheduler"
	"updatewatch/internal/tracker"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the updatewatch CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "updatewatch",
		Short:   "Watch platform-update feeds and file aggregated tracking issues",
		Long:    "Updatewatch fetches platform announcement feeds, scores entries for relevance, and publishes one aggregated tracking issue per category per day.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("updatewatch version {{.Version}}\n")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

type runFlags struct {
	dryRun     bool
	extended   bool
	threshold  int
	reportPath string
}

func addRunFlags(cmd *cobra.Command, fl *runFlags) {
	cmd.Flags().BoolVar(&fl.dryRun, "dry-run", false, "simulate publishing without contacting the issue tracker")
	cmd.Flags().BoolVar(&fl.extended, "extended", false, "include the extended feed set (also via EXTENDED_FEEDS=true)")
	cmd.Flags().IntVar(&fl.threshold, "threshold", 0, "override the relevance threshold")
	cmd.Flags().StringVar(&fl.reportPath, "report-config", "", "path to a YAML report configuration file")
}

// newRunCmd creates the run subcommand: one pipeline invocation.
func newRunCmd() *cobra.Command {
	var fl runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the report pipeline once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, opts, _, err := buildRunner(fl)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			results, summary := runner.RunOnce(ctx, opts)
			printSummary(cmd.OutOrStdout(), results, summary)

			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d categories failed", summary.Failed, summary.Categories)
			}
			return nil
		},
	}

	addRunFlags(cmd, &fl)
	return cmd
}

// newWatchCmd creates the watch subcommand: the pipeline on a ticker.
func newWatchCmd() *cobra.Command {
	var fl runFlags
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the report pipeline on a fixed interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, opts, log, err := buildRunner(fl)
			if err != nil {
				return err
			}
			if every <= 0 {
				return fmt.Errorf("invalid --every %s: must be positive", every)
			}

			sched := scheduler.New(runner, opts, log)
			sched.SetTickInterval(every)

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			log.Info("watching feeds", "every", every, "dry_run", opts.DryRun)
			sched.Run(ctx)
			log.Info("watch stopped")
			return nil
		},
	}

	addRunFlags(cmd, &fl)
	cmd.Flags().DurationVar(&every, "every", 6*time.Hour, "interval between runs")
	return cmd
}

// buildRunner assembles the pipeline from configuration and flags.
func buildRunner(fl runFlags) (*pipeline.Runner, pipeline.Options, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, pipeline.Options{}, nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)

	rc := config.DefaultReport()
	if fl.reportPath != "" {
		rc, err = config.LoadReport(fl.reportPath)
		if err != nil {
			return nil, pipeline.Options{}, nil, err
		}
	}

	var client tracker.Client
	if !fl.dryRun {
		if err := cfg.ValidateLive(); err != nil {
			return nil, pipeline.Options{}, nil, err
		}
		client = tracker.NewGitHub(cfg.GithubToken, cfg.RepoOwner, cfg.RepoName)
	}

	f := fetcher.New(http.DefaultClient, log)
	p := publisher.New(client, rc, log)
	runner := pipeline.New(f, p, rc, log)

	opts := pipeline.Options{
		DryRun:            fl.dryRun,
		Extended:          fl.extended || cfg.ExtendedFeeds,
		ThresholdOverride: fl.threshold,
	}
	return runner, opts, log, nil
}

func printSummary(w io.Writer, results []model.PublishResult, summary model.RunSummary) {
	fmt.Fprintf(w, "Fetched %d items, %d relevant across %d categories\n",
		summary.Fetched, summary.Relevant, summary.Categories)
	for _, r := range results {
		switch {
		case r.Simulated:
			fmt.Fprintf(w, "  %s: %d item(s), simulated\n", r.Category, r.ItemCount)
		case r.Success:
			fmt.Fprintf(w, "  %s: %d item(s), %s %s\n", r.Category, r.ItemCount, r.Action, r.IssueURL)
		default:
			fmt.Fprintf(w, "  %s: %d item(s), FAILED: %s\n", r.Category, r.ItemCount, r.Error)
		}
	}
	fmt.Fprintf(w, "Created %d, updated %d, failed %d, simulated %d (%d items total)\n",
		summary.Created, summary.Updated, summary.Failed, summary.Simulated, summary.TotalItems)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
