// Package strategy implements the per-class caching strategies: cache-first,
// network-first, stale-while-revalidate and freshness-windowed. Executors
// share one rule: at most one of {cache read, network fetch} gates the
// returned value; everything else proceeds in the background.
package strategy

import (
	"context"
	"fmt"
	"net/http"

	"catalog-cache/internal/background"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
	"catalog-cache/internal/store"
)

// levelMatcher is implemented by tiered stores that can report which tier
// served a hit.
type levelMatcher interface {
	MatchWithLevel(generation, key string) (*models.Entry, models.CacheLevel, bool)
}

// match looks up an entry and reports the serving tier when the store can
// tell; single-tier stores report L1.
func match(s interfaces.Store, generation, key string) (*models.Entry, models.CacheLevel, bool) {
	if lm, ok := s.(levelMatcher); ok {
		return lm.MatchWithLevel(generation, key)
	}
	entry, found := s.Match(generation, key)
	if !found {
		return nil, models.CacheLevelMiss, false
	}
	return entry, models.CacheLevelL1, true
}

// revalidate spawns a fire-and-forget fetch-and-store for the request.
// Concurrent revalidations of the same key collapse into one; failures are
// logged and counted, never surfaced.
func revalidate(runner *background.Runner, fetcher interfaces.Fetcher, s interfaces.Store, generation, key, task string, req *http.Request) {
	clone := req.Clone(context.Background())
	clone.Body = nil // only read-retrieval requests reach a caching strategy

	runner.GoKeyed(key, task, func(ctx context.Context) error {
		entry, err := fetcher.Fetch(ctx, clone)
		if err != nil {
			return err
		}
		if !entry.Successful() {
			return fmt.Errorf("origin returned status %d", entry.Status)
		}
		s.Put(generation, key, entry)
		return nil
	})
}

// requestKey builds the cache key for an intercepted request.
func requestKey(req *http.Request) string {
	return store.BuildRequestKey(req)
}
