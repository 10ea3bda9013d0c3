package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	SearchAPIURL         string  // search provider base URL
	SearchAPIKey         string  // empty = Search returns ErrConfiguration
	SearchMaxResults     int     // result cap per search call
	SearchDepth          string  // "basic" or "deep"
	SearchRatePerSec     float64 // provider politeness limit
	LLMAPIKey            string
	LLMAPIBase           string
	LLMModel             string
	LLMTemperature       float64
	LLMMaxTokens         int
	MaxContentChars      int
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	LLMClient            *llm.Client // nil = semantic similarity disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.SearchMaxResults <= 0 {
		c.SearchMaxResults = 50
	}
	if c.SearchDepth == "" {
		c.SearchDepth = "basic"
	}
	cfg = c
	Cfg = &cfg
	initSearchLimiter(c.SearchRatePerSec)
}
