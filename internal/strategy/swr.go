package strategy

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"catalog-cache/internal/background"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// Ensure StaleWhileRevalidate implements interfaces.Strategy
var _ interfaces.Strategy = (*StaleWhileRevalidate)(nil)

// StaleWhileRevalidate returns the cached entry immediately and refreshes
// it in the background. On a miss the caller gets the network result,
// success or failure.
type StaleWhileRevalidate struct {
	store      interfaces.Store
	fetcher    interfaces.Fetcher
	runner     *background.Runner
	generation string
	fallback   string
	logger     *zap.Logger
}

// NewStaleWhileRevalidate creates a stale-while-revalidate executor. The
// fallback generation, when non-empty, is consulted after a primary miss:
// install populates shell assets into the static generation while asset
// requests serve from the dynamic one, and the fallback is what lets an
// install-populated asset hit offline.
func NewStaleWhileRevalidate(s interfaces.Store, f interfaces.Fetcher, runner *background.Runner, generation, fallback string, logger *zap.Logger) *StaleWhileRevalidate {
	return &StaleWhileRevalidate{
		store:      s,
		fetcher:    f,
		runner:     runner,
		generation: generation,
		fallback:   fallback,
		logger:     logger,
	}
}

// Serve implements interfaces.Strategy
func (s *StaleWhileRevalidate) Serve(ctx context.Context, req *http.Request) (*models.Result, error) {
	key := requestKey(req)

	if cached, level, found := match(s.store, s.generation, key); found {
		// The refresh proceeds regardless; its failure is a failed
		// optimization and never surfaces.
		revalidate(s.runner, s.fetcher, s.store, s.generation, key, "swr_refresh", req)
		return &models.Result{Entry: cached, Status: models.CacheStatusHit, Level: level}, nil
	}

	if s.fallback != "" {
		if cached, level, found := match(s.store, s.fallback, key); found {
			// Refresh the copy where it lives so shell assets stay in
			// their install generation.
			revalidate(s.runner, s.fetcher, s.store, s.fallback, key, "swr_refresh", req)
			return &models.Result{Entry: cached, Status: models.CacheStatusHit, Level: level}, nil
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
