package strategy

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// Ensure CacheFirst implements interfaces.Strategy
var _ interfaces.Strategy = (*CacheFirst)(nil)

// CacheFirst returns a cached entry without consulting the network; on a
// miss it fetches, stores the response and returns it. Network failures on
// a miss surface to the caller since there is nothing to fall back to.
type CacheFirst struct {
	store      interfaces.Store
	fetcher    interfaces.Fetcher
	generation string
	fallback   string
	logger     *zap.Logger
}

// NewCacheFirst creates a cache-first executor targeting a generation. A
// non-empty fallback generation is consulted after a primary miss so that
// install-populated shell entries remain reachable offline.
func NewCacheFirst(s interfaces.Store, f interfaces.Fetcher, generation, fallback string, logger *zap.Logger) *CacheFirst {
	return &CacheFirst{
		store:      s,
		fetcher:    f,
		generation: generation,
		fallback:   fallback,
		logger:     logger,
	}
}

// Serve implements interfaces.Strategy
func (s *CacheFirst) Serve(ctx context.Context, req *http.Request) (*models.Result, error) {
	key := requestKey(req)

	if entry, level, found := match(s.store, s.generation, key); found {
		return &models.Result{Entry: entry, Status: models.CacheStatusHit, Level: level}, nil
	}

	if s.fallback != "" {
		if entry, level, found := match(s.store, s.fallback, key); found {
			return &models.Result{Entry: entry, Status: models.CacheStatusHit, Level: level}, nil
		}
	}

	entry, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if entry.Successful() {
		s.store.Put(s.generation, key, entry)
	}

	return &models.Result{Entry: entry, Status: models.CacheStatusMiss, Level: models.CacheLevelMiss}, nil
}
