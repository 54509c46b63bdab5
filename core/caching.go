package core

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/quantifio/codemetrics/internal/contract"
)

// currentCacheVersion defines the version of the cache payload layout
const currentCacheVersion = 1

// cacheMaxAge bounds how long a cached tool invocation stays valid.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedToolOutput wraps one external tool invocation with the invocation
// cache. Without a configured cache store it degrades to a direct fetch.
func cachedToolOutput(mgr contract.StoreManager, tool string, args []string, state string, fetch func() ([]byte, error)) ([]byte, error) {
	store := mgr.GetCacheStore()
	if store == nil {
		// Fallback to direct invocation
		return fetch()
	}

	key := invocationKey(tool, args, state)

	// Check for cache hit
	if data, ok := checkCacheHit(store, key); ok {
		return data, nil
	}

	// Cache miss: invoke and store
	return computeAndStore(store, key, fetch)
}

// checkCacheHit attempts to retrieve and validate a cached payload
func checkCacheHit(store contract.CacheStore, key string) ([]byte, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil, false // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= cacheMaxAge {
			return data, true // Cache hit
		}
	}

	return nil, false // Cache miss (stale or version mismatch)
}

// computeAndStore invokes the tool and stores its payload in the cache
func computeAndStore(store contract.CacheStore, key string, fetch func() ([]byte, error)) ([]byte, error) {
	data, err := fetch()
	if err != nil {
		return nil, err
	}

	// Store in cache
	_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())

	return data, nil
}

// invocationKey creates a unique key for one tool invocation. state carries
// a token for mutable repository state (HEAD hash for git, working copy
// revision for svn); invocations pinned to an explicit revision pass ""
// since their output never changes.
func invocationKey(tool string, args []string, state string) string {
	key := fmt.Sprintf("%s|%s|%s", tool, strings.Join(args, " "), state)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
