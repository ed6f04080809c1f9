package catalog

import (
	"context"

	"go.uber.org/zap"

	"catalog-cache/internal/guard"
	"catalog-cache/internal/metrics"
)

// GuardedClient wraps a Querier with the request sequence guard. Rapid-fire
// filter changes issue many queries; only the last initiated one's result
// is ever applied, regardless of the order responses come back in.
type GuardedClient struct {
	querier Querier
	coord   *guard.Coordinator
	logger  *zap.Logger
}

// NewGuardedClient creates a guard-wrapped catalog client
func NewGuardedClient(querier Querier, coord *guard.Coordinator, logger *zap.Logger) *GuardedClient {
	return &GuardedClient{
		querier: querier,
		coord:   coord,
		logger:  logger,
	}
}

// Query issues a guarded query. The second return value reports whether the
// result is current: when false, a newer request superseded this one and
// both the result and any error were discarded. Discards are deliberate
// no-ops, not failures.
func (g *GuardedClient) Query(ctx context.Context, f Filter, page, pageSize int) (*Page, bool, error) {
	token := g.coord.Begin()

	result, err := g.querier.Query(ctx, f, page, pageSize)

	if !g.coord.Current(token) {
		metrics.RecordGuardDiscard()
		g.logger.Debug("Discarding superseded response",
			zap.Uint64("token", uint64(token)),
			zap.Uint64("latest", uint64(g.coord.Latest())))
		return nil, false, nil
	}

	if err != nil {
		return nil, true, err
	}
	return result, true, nil
}
