// Package prefetch warms the cache for the next paginated result set during
// idle periods. The warm call goes through the same data path the page
// would use, so the freshness-windowed cache population does all the work;
// the result itself is discarded.
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"catalog-cache/internal/catalog"
	"catalog-cache/internal/metrics"
)

// ActivitySource reports the last time the gateway handled a request. The
// prefetcher only fires once no request has arrived for the idle window.
type ActivitySource interface {
	LastActivity() time.Time
}

// pollInterval is how often the pending job is checked against the idle
// window.
const pollInterval = 250 * time.Millisecond

type job struct {
	filter   catalog.Filter
	page     int
	pageSize int
}

// Prefetcher schedules one pending next-page warm-up at a time; a newer
// schedule replaces an older pending one.
type Prefetcher struct {
	querier   catalog.Querier
	activity  ActivitySource
	clock     clock.Clock
	idleAfter time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	pending *job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// New creates a prefetcher
func New(querier catalog.Querier, activity ActivitySource, clk clock.Clock, idleAfter time.Duration, logger *zap.Logger) *Prefetcher {
	return &Prefetcher{
		querier:   querier,
		activity:  activity,
		clock:     clk,
		idleAfter: idleAfter,
		logger:    logger,
	}
}

// Schedule registers a warm-up for the page after the one just rendered.
// When no next page exists it does nothing.
func (p *Prefetcher) Schedule(f catalog.Filter, page, pageSize, total int) {
	if page*pageSize >= total {
		metrics.RecordPrefetch("skipped")
		return
	}

	p.mu.Lock()
	p.pending = &job{filter: f, page: page + 1, pageSize: pageSize}
	p.mu.Unlock()
}

// Start begins watching for idle periods
func (p *Prefetcher) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.running = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := p.clock.Ticker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.fireIfIdle(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the idle watcher
func (p *Prefetcher) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

// fireIfIdle runs the pending job if the gateway has been quiet long enough.
func (p *Prefetcher) fireIfIdle(ctx context.Context) {
	p.mu.Lock()
	pending := p.pending
	p.mu.Unlock()

	if pending == nil {
		return
	}
	if p.clock.Now().Sub(p.activity.LastActivity()) < p.idleAfter {
		return
	}

	p.mu.Lock()
	p.pending = nil
	p.mu.Unlock()

	// The result is thrown away; the call exists for its caching side
	// effect. Every failure, cancellation included, stays a warning.
	if _, err := p.querier.Query(ctx, pending.filter, pending.page, pending.pageSize); err != nil {
		metrics.RecordPrefetch("failed")
		p.logger.Warn("Prefetch failed",
			zap.Int("page", pending.page), zap.Error(err))
		return
	}

	metrics.RecordPrefetch("warmed")
	p.logger.Debug("Prefetched next page", zap.Int("page", pending.page))
}
