// Package toolutil provides shared helpers for go_jobmatch MCP tools.
package toolutil

import (
	"context"
	"encoding/json"

	"github.com/anatolykoptev/go_jobmatch/internal/engine"
)

// DefaultOwner is used when a tool call carries no owner id. The server
// is single-profile by default; multi-profile callers pass explicit ids.
const DefaultOwner = "local"

// NormOwner normalises an owner field: empty string → DefaultOwner.
func NormOwner(owner string) string {
	if owner == "" {
		return DefaultOwner
	}
	return owner
}

// CacheLoadJSON tries to load a cached value of type T from the engine cache.
// Returns the decoded value and true on hit; zero value and false on miss or
// decode error.
func CacheLoadJSON[T any](ctx context.Context, key string) (T, bool) {
	var zero T
	data, ok := engine.CacheGet(ctx, key)
	if !ok {
		return zero, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it in the engine cache.
func CacheStoreJSON[T any](ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	engine.CacheSet(ctx, key, data)
}
