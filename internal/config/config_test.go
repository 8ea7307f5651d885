package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"updatewatch/internal/model"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "empty environment, defaults applied",
			env:  map[string]string{},
			want: &Config{LogLevel: "info"},
		},
		{
			name: "github repository split into owner and name",
			env: map[string]string{
				"GITHUB_TOKEN":      "ghp_test",
				"GITHUB_REPOSITORY": "acme/platform-watch",
			},
			want: &Config{
				GithubToken: "ghp_test",
				RepoOwner:   "acme",
				RepoName:    "platform-watch",
				LogLevel:    "info",
			},
		},
		{
			name: "local testing fallback coordinates",
			env: map[string]string{
				"REPO_OWNER": "acme",
				"REPO_NAME":  "sandbox",
			},
			want: &Config{
				RepoOwner: "acme",
				RepoName:  "sandbox",
				LogLevel:  "info",
			},
		},
		{
			name: "github repository wins over fallback",
			env: map[string]string{
				"GITHUB_REPOSITORY": "acme/real",
				"REPO_OWNER":        "other",
				"REPO_NAME":         "ignored",
			},
			want: &Config{
				RepoOwner: "acme",
				RepoName:  "real",
				LogLevel:  "info",
			},
		},
		{
			name: "extended feeds and log level",
			env: map[string]string{
				"EXTENDED_FEEDS": "true",
				"LOG_LEVEL":      "debug",
			},
			want: &Config{
				ExtendedFeeds: true,
				LogLevel:      "debug",
			},
		},
		{
			name:    "malformed github repository",
			env:     map[string]string{"GITHUB_REPOSITORY": "no-slash"},
			wantErr: true,
		},
		{
			name:    "malformed extended feeds flag",
			env:     map[string]string{"EXTENDED_FEEDS": "maybe"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear relevant env vars
			for _, key := range []string{"GITHUB_TOKEN", "GITHUB_REPOSITORY", "REPO_OWNER", "REPO_NAME", "EXTENDED_FEEDS", "LOG_LEVEL"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateLive(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "complete credentials",
			cfg:  Config{GithubToken: "tok", RepoOwner: "acme", RepoName: "repo"},
		},
		{
			name:    "missing token",
			cfg:     Config{RepoOwner: "acme", RepoName: "repo"},
			wantErr: true,
		},
		{
			name:    "missing repository",
			cfg:     Config{GithubToken: "tok"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateLive()
			gotErr := err != nil
			if diff := cmp.Diff(tt.wantErr, gotErr); diff != "" {
				t.Errorf("ValidateLive() error mismatch (-want +got):\n%s\nerr: %v", diff, err)
			}
		})
	}
}

func TestSources(t *testing.T) {
	rc := &ReportConfig{
		CoreFeeds: []model.FeedSource{
			{Name: "core-a", URL: "https://a.example/rss", Category: "a"},
		},
		ExtendedFeeds: []model.FeedSource{
			{Name: "ext-b", URL: "https://b.example/rss", Category: "b"},
		},
	}

	if diff := cmp.Diff([]string{"core-a"}, sourceNames(rc.Sources(false))); diff != "" {
		t.Errorf("core sources mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"core-a", "ext-b"}, sourceNames(rc.Sources(true))); diff != "" {
		t.Errorf("extended sources mismatch (-want +got):\n%s", diff)
	}
}

func sourceNames(sources []model.FeedSource) []string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name)
	}
	return names
}

func TestTitlePrefix(t *testing.T) {
	rc := &ReportConfig{
		TitlePrefixes: map[string]string{"openai": "[OpenAI]"},
		DefaultPrefix: "[Platform]",
	}

	if got := rc.TitlePrefix("openai"); got != "[OpenAI]" {
		t.Errorf("TitlePrefix(openai) = %q, want [OpenAI]", got)
	}
	if got := rc.TitlePrefix("unknown"); got != "[Platform]" {
		t.Errorf("TitlePrefix(unknown) = %q, want [Platform]", got)
	}
}

func TestLoadReport(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		check   func(t *testing.T, rc *ReportConfig)
		wantErr bool
	}{
		{
			name: "overrides merge with defaults",
			yaml: `
threshold: 3
core_feeds:
  - name: Custom Feed
    url: https://custom.example/rss
    category: custom
`,
			check: func(t *testing.T, rc *ReportConfig) {
				if rc.Threshold != 3 {
					t.Errorf("threshold = %d, want 3", rc.Threshold)
				}
				if diff := cmp.Diff([]string{"Custom Feed"}, sourceNames(rc.CoreFeeds)); diff != "" {
					t.Errorf("core feeds mismatch (-want +got):\n%s", diff)
				}
				// Untouched fields keep their defaults.
				if len(rc.Keywords) == 0 {
					t.Error("expected default keywords to survive")
				}
				if rc.DefaultPrefix != "[Platform]" {
					t.Errorf("default prefix = %q", rc.DefaultPrefix)
				}
			},
		},
		{
			name:    "invalid yaml",
			yaml:    "threshold: [not an int",
			wantErr: true,
		},
		{
			name:    "zero threshold rejected",
			yaml:    "threshold: 0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatalf("write config: %v", err)
			}

			rc, err := LoadReport(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, rc)
		})
	}
}

func TestLoadReportMissingFile(t *testing.T) {
	if _, err := LoadReport(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
