package l2

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"catalog-cache/internal/config"
	"catalog-cache/internal/interfaces"
)

// NewClient creates a real KeyDB/Redis client from configuration and
// verifies connectivity before returning it.
func NewClient(cfg config.KeyDBConfig, logger *zap.Logger) (interfaces.KeyDbClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to KeyDB at %s: %w", cfg.Address, err)
	}

	logger.Info("Connected to KeyDB", zap.String("address", cfg.Address))
	return client, nil
}
