// Package config handles process configuration from environment variables
// and the per-report configuration that drives scoring and publishing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the process-level configuration for one run.
type Config struct {
	GithubToken   string
	RepoOwner     string
	RepoName      string
	ExtendedFeeds bool
	LogLevel      string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GithubToken: os.Getenv("GITHUB_TOKEN"),
		LogLevel:    os.Getenv("LOG_LEVEL"),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" {
			return nil, fmt.Errorf("invalid GITHUB_REPOSITORY %q: want owner/name", repo)
		}
		cfg.RepoOwner = owner
		cfg.RepoName = name
	} else {
		// Local-testing fallback coordinates.
		cfg.RepoOwner = os.Getenv("REPO_OWNER")
		cfg.RepoName = os.Getenv("REPO_NAME")
	}

	if raw := os.Getenv("EXTENDED_FEEDS"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid EXTENDED_FEEDS %q: %w", raw, err)
		}
		cfg.ExtendedFeeds = b
	}

	return cfg, nil
}

// ValidateLive checks that the credentials required for live publishing are
// present. Dry runs work without any of them.
func (c *Config) ValidateLive() error {
	if c.GithubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is required for live runs")
	}
	if c.RepoOwner == "" || c.RepoName == "" {
		return fmt.Errorf("repository coordinates are required: set GITHUB_REPOSITORY or REPO_OWNER/REPO_NAME")
	}
	return nil
}
