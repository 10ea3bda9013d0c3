package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	SearchRequests   atomic.Int64
	SearchErrors     atomic.Int64
	SimilarityCalls  atomic.Int64
	SimilarityErrors atomic.Int64
	JobsParsed       atomic.Int64
	JobsUpserted     atomic.Int64
	UpsertErrors     atomic.Int64
	RescoreRequests  atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"search_requests":   metrics.SearchRequests.Load(),
		"search_errors":     metrics.SearchErrors.Load(),
		"similarity_calls":  metrics.SimilarityCalls.Load(),
		"similarity_errors": metrics.SimilarityErrors.Load(),
		"jobs_parsed":       metrics.JobsParsed.Load(),
		"jobs_upserted":     metrics.JobsUpserted.Load(),
		"upsert_errors":     metrics.UpsertErrors.Load(),
		"rescore_requests":  metrics.RescoreRequests.Load(),
		"cache_hits":        hits,
		"cache_misses":      misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"search_requests", "search_errors",
		"similarity_calls", "similarity_errors",
		"jobs_parsed", "jobs_upserted", "upsert_errors",
		"rescore_requests",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the jobs/ sub-package.
func IncrJobsParsed(n int) { metrics.JobsParsed.Add(int64(n)) }
func IncrJobsUpserted()    { metrics.JobsUpserted.Add(1) }
func IncrUpsertErrors()    { metrics.UpsertErrors.Add(1) }
func IncrRescoreRequests() { metrics.RescoreRequests.Add(1) }
