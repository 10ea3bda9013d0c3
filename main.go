// go_jobmatch — Job Ingestion & Matching MCP server.
//
// Exposes five MCP tools: job_search (ingest and score), match_score,
// application_track, application_list, application_update.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_jobmatch/internal/engine"
	"github.com/anatolykoptev/go_jobmatch/internal/engine/jobs"
	"github.com/anatolykoptev/go_jobmatch/internal/jobserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_jobmatch",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_jobmatch",
		Version: version,
	}, nil)

	jobserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 5))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_jobmatch",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		SearchAPIURL:         env.Str("SEARCH_API_URL", "https://api.tavily.com"),
		SearchAPIKey:         env.Str("SEARCH_API_KEY", ""),
		SearchMaxResults:     env.Int("SEARCH_MAX_RESULTS", 50),
		SearchDepth:          env.Str("SEARCH_DEPTH", "basic"),
		SearchRatePerSec:     env.Float("SEARCH_RATE_PER_SEC", 2),
		LLMAPIKey:            env.Str("LLM_API_KEY", ""),
		LLMAPIBase:           env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:             env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:       env.Float("LLM_TEMPERATURE", 0.1),
		LLMMaxTokens:         env.Int("LLM_MAX_TOKENS", 1024),
		MaxContentChars:      env.Int("MAX_CONTENT_CHARS", 6000),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Warn("LLM_API_KEY not set, semantic similarity disabled")
	}

	engine.Init(c)

	store, err := jobs.OpenStore(storePath())
	if err != nil {
		slog.Error("job store init failed", slog.Any("error", err))
		os.Exit(1)
	}
	jobs.SetStore(store)

	// Resume DB (PostgreSQL) — optional; without it jobs get no scores.
	var resumes jobs.ResumeSource
	if dbURL := env.Str("DATABASE_URL", ""); dbURL != "" {
		rdb, err := jobs.ConnectResumeDB(context.Background(), dbURL)
		if err != nil {
			slog.Warn("resume DB init failed, scoring disabled", slog.Any("error", err))
		} else {
			resumes = rdb
			jobs.SetResumeSource(rdb)
			slog.Info("resume DB initialized")
		}
	}

	var sim engine.SimilarityScorer
	if c.LLMClient != nil {
		sim = engine.NewLLMSimilarity()
		jobs.SetSimilarity(sim)
	}

	jobs.SetIngestor(jobs.NewIngestor(store, resumes, sim, engine.Search))

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}

func storePath() string {
	if p := env.Str("JOBS_DB_PATH", ""); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "jobs.db"
	}
	return filepath.Join(home, ".go_jobmatch", "jobs.db")
}
