package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"updatewatch/internal/model"
)

// KeywordRule attaches a score weight and a category to one keyword.
// A zero weight counts as 1.
type KeywordRule struct {
	Weight   int    `yaml:"weight"`
	Category string `yaml:"category"`
}

// LabelRules describes how issue labels are derived for a category group.
// Conditional entries are categories whose presence in any item's match adds
// the category name itself as a label.
type LabelRules struct {
	Base        []string          `yaml:"base"`
	ByCategory  map[string]string `yaml:"by_category"`
	Conditional []string          `yaml:"conditional"`
}

// ReportConfig drives one report run: what to fetch, how to score it, and
// how to title and label the resulting issues. It is loaded once per run and
// never mutated.
type ReportConfig struct {
	Keywords      map[string]KeywordRule `yaml:"keywords"`
	Threshold     int                    `yaml:"threshold"`
	CoreFeeds     []model.FeedSource     `yaml:"core_feeds"`
	ExtendedFeeds []model.FeedSource     `yaml:"extended_feeds"`
	TitlePrefixes map[string]string      `yaml:"title_prefixes"`
	DefaultPrefix string                 `yaml:"default_prefix"`
	Labels        LabelRules             `yaml:"labels"`
}

// Sources returns the feed list for a run: the core set, plus the extended
// set when requested.
func (rc *ReportConfig) Sources(extended bool) []model.FeedSource {
	if !extended {
		return rc.CoreFeeds
	}
	sources := make([]model.FeedSource, 0, len(rc.CoreFeeds)+len(rc.ExtendedFeeds))
	sources = append(sources, rc.CoreFeeds...)
	sources = append(sources, rc.ExtendedFeeds...)
	return sources
}

// TitlePrefix returns the issue title prefix for a category, falling back to
// the default prefix.
func (rc *ReportConfig) TitlePrefix(category string) string {
	if p, ok := rc.TitlePrefixes[category]; ok {
		return p
	}
	return rc.DefaultPrefix
}

// DefaultReport returns the built-in report configuration.
func DefaultReport() *ReportConfig {
	return &ReportConfig{
		Keywords: map[string]KeywordRule{
			"pricing":        {Weight: 3, Category: "pricing"},
			"price":          {Weight: 2, Category: "pricing"},
			"billing":        {Weight: 2, Category: "pricing"},
			"api":            {Weight: 1, Category: "api"},
			"sdk":            {Weight: 2, Category: "sdk"},
			"deprecat":       {Weight: 3, Category: "api"},
			"rate limit":     {Weight: 2, Category: "api"},
			"model":          {Weight: 1, Category: "models"},
			"context window": {Weight: 2, Category: "models"},
			"fine-tun":       {Weight: 2, Category: "models"},
			"gpt":            {Weight: 2, Category: "openai"},
			"claude":         {Weight: 2, Category: "anthropic"},
			"gemini":         {Weight: 2, Category: "google"},
			"release":        {Weight: 2, Category: ""},
			"announc":        {Weight: 1, Category: ""},
			"launch":         {Weight: 1, Category: ""},
		},
		Threshold: 5,
		CoreFeeds: []model.FeedSource{
			{Name: "OpenAI Blog", URL: "https://openai.com/blog/rss.xml", Category: "openai"},
			{Name: "Anthropic News", URL: "https://www.anthropic.com/news/rss.xml", Category: "anthropic"},
			{Name: "Google AI Blog", URL: "https://blog.google/technology/ai/rss/", Category: "google"},
		},
		ExtendedFeeds: []model.FeedSource{
			{Name: "AWS Machine Learning Blog", URL: "https://aws.amazon.com/blogs/machine-learning/feed/", Category: "aws"},
			{Name: "Hugging Face Blog", URL: "https://huggingface.co/blog/feed.xml", Category: "huggingface"},
			{Name: "Meta AI Blog", URL: "https://ai.meta.com/blog/rss/", Category: "meta"},
		},
		TitlePrefixes: map[string]string{
			"openai":    "[OpenAI]",
			"anthropic": "[Anthropic]",
			"google":    "[Google AI]",
			"aws":       "[AWS]",
		},
		DefaultPrefix: "[Platform]",
		Labels: LabelRules{
			Base: []string{"automated", "platform-updates"},
			ByCategory: map[string]string{
				"openai":    "platform:openai",
				"anthropic": "platform:anthropic",
				"google":    "platform:google",
				"aws":       "platform:aws",
			},
			Conditional: []string{"sdk", "pricing"},
		},
	}
}

// LoadReport reads a report configuration from a YAML file. Fields absent
// from the file keep their built-in defaults.
func LoadReport(path string) (*ReportConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report config: %w", err)
	}

	rc := DefaultReport()
	if err := yaml.Unmarshal(data, rc); err != nil {
		return nil, fmt.Errorf("parse report config: %w", err)
	}

	if rc.Threshold < 1 {
		return nil, fmt.Errorf("threshold must be at least 1, got %d", rc.Threshold)
	}
	if len(rc.Keywords) == 0 {
		return nil, fmt.Errorf("at least one keyword is required")
	}
	if len(rc.CoreFeeds) == 0 {
		return nil, fmt.Errorf("at least one core feed is required")
	}
	return rc, nil
}
