package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// searchLimiter throttles outbound provider calls. The provider meters by
// request, so one limiter is shared across all owners.
var searchLimiter *rate.Limiter

func initSearchLimiter(perSec float64) {
	if perSec <= 0 {
		perSec = 2
	}
	searchLimiter = rate.NewLimiter(rate.Limit(perSec), 1)
}

type searchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Search issues one query to the search provider and returns raw result
// documents. It performs no retries: a failed call surfaces as ErrUpstream
// and retry policy stays with the caller. A missing API key is
// ErrConfiguration. Zero results is a valid outcome, not an error.
func Search(ctx context.Context, query string, maxResults int, depth string) ([]SearchResult, error) {
	if cfg.SearchAPIKey == "" {
		return nil, fmt.Errorf("search: missing SEARCH_API_KEY: %w", ErrConfiguration)
	}
	if query == "" {
		return nil, fmt.Errorf("search: empty query: %w", ErrInvalidInput)
	}
	if maxResults <= 0 {
		maxResults = cfg.SearchMaxResults
	}
	if depth == "" {
		depth = cfg.SearchDepth
	}

	if searchLimiter == nil {
		initSearchLimiter(0)
	}
	if err := searchLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	metrics.SearchRequests.Add(1)

	u, err := url.JoinPath(cfg.SearchAPIURL, "search")
	if err != nil {
		return nil, fmt.Errorf("search: bad provider URL %q: %w", cfg.SearchAPIURL, ErrConfiguration)
	}

	body, err := json.Marshal(searchRequest{
		APIKey:      cfg.SearchAPIKey,
		Query:       query,
		MaxResults:  maxResults,
		SearchDepth: depth,
	})
	if err != nil {
		return nil, fmt.Errorf("search: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		metrics.SearchErrors.Add(1)
		return nil, ClassifyTransportError("search", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		metrics.SearchErrors.Add(1)
		return nil, fmt.Errorf("search: provider rejected credentials (status %d): %w", resp.StatusCode, ErrConfiguration)
	case resp.StatusCode != http.StatusOK:
		metrics.SearchErrors.Add(1)
		return nil, fmt.Errorf("search: %w", UpstreamStatus(resp.StatusCode))
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		metrics.SearchErrors.Add(1)
		return nil, fmt.Errorf("search: decode response: %w", ErrUpstream)
	}

	slog.Debug("search complete", slog.Int("results", len(data.Results)))
	return data.Results, nil
}

// DedupByURL collapses results to one per distinct URL, dropping results
// without a URL. The last occurrence wins so a fresher observation of the
// same posting replaces an earlier one within the batch; position follows
// the first sighting.
func DedupByURL(results []SearchResult) []SearchResult {
	index := make(map[string]int)
	var out []SearchResult
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		if i, ok := index[r.URL]; ok {
			out[i] = r
			continue
		}
		index[r.URL] = len(out)
		out = append(out, r)
	}
	return out
}

// DedupByDomain limits results to maxPerDomain per domain.
func DedupByDomain(results []SearchResult, maxPerDomain int) []SearchResult {
	counts := make(map[string]int)
	var out []SearchResult
	for _, r := range results {
		u, err := url.Parse(r.URL)
		if err != nil {
			continue
		}
		domain := u.Hostname()
		if counts[domain] < maxPerDomain {
			out = append(out, r)
			counts[domain]++
		}
	}
	return out
}
