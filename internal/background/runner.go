package background

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"catalog-cache/internal/metrics"
)

// Runner spawns named background tasks whose failures are captured into the
// log and a failure counter instead of disappearing. Cache refreshes are
// failed optimizations, not failed operations, so nothing ever propagates
// out of here.
type Runner struct {
	logger *zap.Logger
	wg     sync.WaitGroup
	flight singleflight.Group
}

// NewRunner creates a new background task runner
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Go runs fn in the background under the given task name.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := fn(context.Background()); err != nil {
			metrics.RecordBackgroundFailure(name)
			r.logger.Warn("Background task failed",
				zap.String("task", name), zap.Error(err))
		}
	}()
}

// GoKeyed runs fn in the background, collapsing concurrent invocations that
// share a key into a single execution. Used for cache revalidation so two
// in-flight requests for the same resource trigger one refresh.
func (r *Runner) GoKeyed(key, name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_, err, _ := r.flight.Do(key, func() (interface{}, error) {
			return nil, fn(context.Background())
		})
		if err != nil {
			metrics.RecordBackgroundFailure(name)
			r.logger.Warn("Background task failed",
				zap.String("task", name), zap.String("key", key), zap.Error(err))
		}
	}()
}

// Wait blocks until all spawned tasks have finished. Used in shutdown and
// tests.
func (r *Runner) Wait() {
	r.wg.Wait()
}
