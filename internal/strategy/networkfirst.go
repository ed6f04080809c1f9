package strategy

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// Ensure NetworkFirst implements interfaces.Strategy
var _ interfaces.Strategy = (*NetworkFirst)(nil)

// NetworkFirst tries the network for the freshest document shell; on
// transport failure it falls back to the cache, and only when both fail
// does the original network error reach the caller.
type NetworkFirst struct {
	store      interfaces.Store
	fetcher    interfaces.Fetcher
	generation string
	logger     *zap.Logger
}

// NewNetworkFirst creates a network-first executor targeting a generation
func NewNetworkFirst(s interfaces.Store, f interfaces.Fetcher, generation string, logger *zap.Logger) *NetworkFirst {
	return &NetworkFirst{
		store:      s,
		fetcher:    f,
		generation: generation,
		logger:     logger,
	}
}

// Serve implements interfaces.Strategy
func (s *NetworkFirst) Serve(ctx context.Context, req *http.Request) (*models.Result, error) {
	key := requestKey(req)

	entry, fetchErr := s.fetcher.Fetch(ctx, req)
	if fetchErr == nil {
		// Cache write is best-effort; the live response is the answer
		// either way.
		if entry.Successful() {
			s.store.Put(s.generation, key, entry)
		}
		return &models.Result{Entry: entry, Status: models.CacheStatusMiss, Level: models.CacheLevelMiss}, nil
	}

	s.logger.Debug("Network-first falling back to cache",
		zap.String("key", key), zap.Error(fetchErr))

	if cached, level, found := match(s.store, s.generation, key); found {
		return &models.Result{Entry: cached, Status: models.CacheStatusHit, Level: level}, nil
	}

	return nil, fetchErr
}
