package tracker

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v68/github"
)

func TestSearchQuery(t *testing.T) {
	got := searchQuery("acme", "watch", []string{"[OpenAI]", "2026-08-30"})
	want := `repo:acme/watch is:issue is:open in:title "[OpenAI]" "2026-08-30"`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("searchQuery mismatch (-want +got):\n%s", diff)
	}
}

// A retryable classification wraps the error; a terminal one returns it
// unchanged.
func TestRetryable(t *testing.T) {
	baseErr := fmt.Errorf("boom")

	tests := []struct {
		name      string
		resp      *github.Response
		err       error
		wantRetry bool
	}{
		{
			name:      "rate limit error retries",
			err:       &github.RateLimitError{Message: "rate limited"},
			wantRetry: true,
		},
		{
			name:      "abuse rate limit error retries",
			err:       &github.AbuseRateLimitError{Message: "secondary limit"},
			wantRetry: true,
		},
		{
			name:      "server error retries",
			resp:      &github.Response{Response: &http.Response{StatusCode: 502}},
			err:       baseErr,
			wantRetry: true,
		},
		{
			name:      "client error fails immediately",
			resp:      &github.Response{Response: &http.Response{StatusCode: 401}},
			err:       baseErr,
			wantRetry: false,
		},
		{
			name:      "nil response fails immediately",
			err:       baseErr,
			wantRetry: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := retryable(tt.resp, tt.err)
			gotRetry := got != tt.err //nolint:errorlint // identity check is the point
			if diff := cmp.Diff(tt.wantRetry, gotRetry); diff != "" {
				t.Errorf("retryable classification mismatch (-want +got):\n%s\nerr: %v", diff, got)
			}
		})
	}
}
