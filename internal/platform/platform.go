// Package platform implements the per-platform solved-count adapters.
//
// Every adapter is single-attempt and never panics or propagates transport
// problems to its caller: a fetch either succeeds with a non-negative count
// or fails with a reason, and the caller persists zero for failures. This
// keeps one provider outage from blocking the rest of a sync batch.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codetrack/internal/config"
	"codetrack/internal/model"
)

// FetchResult is the tagged outcome of a single fetch attempt. A failed
// fetch still aggregates as a zero count; Err carries the reason so the
// caller can log richer diagnostics.
type FetchResult struct {
	Count int
	Err   error
}

// Success returns a successful result with the given count.
func Success(count int) FetchResult {
	return FetchResult{Count: count}
}

// Failure returns a failed result. The count is always zero.
func Failure(err error) FetchResult {
	return FetchResult{Err: err}
}

// Failed reports whether the fetch attempt failed.
func (r FetchResult) Failed() bool {
	return r.Err != nil
}

// Fetcher fetches the activity signal for one username on one platform.
type Fetcher interface {
	Platform() model.Platform
	Fetch(ctx context.Context, username string) FetchResult
}

// Registry maps platforms to their adapters. Platforms without an adapter
// (currently github) are simply absent.
type Registry map[model.Platform]Fetcher

// NewRegistry builds the adapter registry from the configured base URLs.
// All adapters share one HTTP client so the per-request timeout applies
// uniformly.
func NewRegistry(cfg *config.PlatformsConfig, client *http.Client) Registry {
	return Registry{
		model.PlatformLeetCode:   NewLeetCode(cfg.LeetCodeURL, client),
		model.PlatformCodeChef:   NewCodeChef(cfg.CodeChefURL, client),
		model.PlatformCodeforces: NewCodeforces(cfg.CodeforcesURL, client),
		model.PlatformHackerRank: NewHackerRank(cfg.HackerRankURL, client),
	}
}

// Lookup returns the adapter for a platform, if one exists.
func (r Registry) Lookup(p model.Platform) (Fetcher, bool) {
	f, ok := r[p]
	return f, ok
}

// NewHTTPClient returns the shared client used by all adapters. The timeout
// bounds every fetch so a hung provider cannot stall a whole sync batch.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs a GET request and decodes the JSON response body into v.
// Non-2xx statuses and non-JSON bodies are errors.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
