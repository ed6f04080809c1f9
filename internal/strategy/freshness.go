package strategy

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"catalog-cache/internal/background"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/metrics"
	"catalog-cache/internal/models"
)

// Ensure FreshnessWindowed implements interfaces.Strategy
var _ interfaces.Strategy = (*FreshnessWindowed)(nil)

// FreshnessWindowed governs catalog API responses. A cached entry is
// returned immediately whether fresh or stale; the window only decides
// whether the serve is reported as stale. A background refresh always runs
// so the next request sees newer data. With no cache and no network the
// caller gets a synthesized unavailability response, never a raw transport
// error.
//
// The window bounds preference, not staleness: under a persistently failing
// network, arbitrarily old entries keep being served. That is the intended
// latency/freshness trade-off.
type FreshnessWindowed struct {
	store      interfaces.Store
	fetcher    interfaces.Fetcher
	runner     *background.Runner
	generation string
	window     time.Duration
	clock      clock.Clock
	logger     *zap.Logger
}

// NewFreshnessWindowed creates a freshness-windowed executor. The window is
// a deployment tunable, not a constant of the design.
func NewFreshnessWindowed(s interfaces.Store, f interfaces.Fetcher, runner *background.Runner, generation string, window time.Duration, clk clock.Clock, logger *zap.Logger) *FreshnessWindowed {
	return &FreshnessWindowed{
		store:      s,
		fetcher:    f,
		runner:     runner,
		generation: generation,
		window:     window,
		clock:      clk,
		logger:     logger,
	}
}

// Serve implements interfaces.Strategy
func (s *FreshnessWindowed) Serve(ctx context.Context, req *http.Request) (*models.Result, error) {
	key := requestKey(req)

	if cached, level, found := match(s.store, s.generation, key); found {
		revalidate(s.runner, s.fetcher, s.store, s.generation, key, "api_refresh", req)

		// Entries without a usable timestamp count as stale; since the
		// strategy never waits, this only affects reporting.
		if cached.Fresh(s.clock.Now(), s.window) {
			return &models.Result{Entry: cached, Status: models.CacheStatusHit, Level: level}, nil
		}

		metrics.RecordStaleServe(string(models.ClassAPI))
		return &models.Result{Entry: cached, Status: models.CacheStatusStale, Level: level}, nil
	}

	entry, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		s.logger.Warn("API fetch failed with no cached fallback",
			zap.String("key", key), zap.Error(err))
		metrics.RecordUnavailable()
		return &models.Result{
			Entry:  unavailableEntry(),
			Status: models.CacheStatusMiss,
			Level:  models.CacheLevelMiss,
		}, nil
	}

	if entry.Successful() {
		s.store.Put(s.generation, key, entry)
	}

	return &models.Result{Entry: entry, Status: models.CacheStatusMiss, Level: models.CacheLevelMiss}, nil
}

// unavailableEntry synthesizes the offline fallback for API requests. It is
// returned, not stored: the next request should retry the network.
func unavailableEntry() *models.Entry {
	body, _ := json.Marshal(map[string]string{
		"error": "catalog temporarily unavailable, please retry",
	})
	return &models.Entry{
		Status: http.StatusServiceUnavailable,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	}
}
