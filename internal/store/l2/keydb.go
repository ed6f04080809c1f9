package l2

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"catalog-cache/internal/config"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// generationIndexKey is the KeyDB set holding all known generation names.
const generationIndexKey = "catalog-cache:generations"

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store implements the persistent generation store on KeyDB/Redis. Entries
// live under "gen:<generation>:<key>" and generation names are tracked in
// an index set so activation can enumerate them after a restart.
type Store struct {
	client interfaces.KeyDbClient
	config config.KeyDBConfig
	logger *zap.Logger
}

// New creates a new KeyDB-backed generation store with the provided client
func New(cfg config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Match retrieves an entry by generation and key
func (s *Store) Match(generation, key string) (*models.Entry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetReadTimeout())
	defer cancel()

	data, err := s.client.Get(ctx, entryKey(generation, key)).Result()
	if err != nil {
		return nil, false
	}

	var entry models.Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		s.logger.Warn("Failed to unmarshal L2 cache entry",
			zap.String("generation", generation), zap.String("key", key), zap.Error(err))
		s.client.Del(context.Background(), entryKey(generation, key))
		return nil, false
	}

	return &entry, true
}

// Put stores an entry and registers its generation in the index set
func (s *Store) Put(generation, key string, entry *models.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetWriteTimeout())
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("Failed to marshal L2 cache entry",
			zap.String("key", key), zap.Error(err))
		return
	}

	// Entries never expire individually; they die with their generation.
	if err := s.client.Set(ctx, entryKey(generation, key), data, 0).Err(); err != nil {
		s.logger.Error("Failed to set L2 cache entry",
			zap.String("key", key), zap.Error(err))
		return
	}

	if err := s.client.SAdd(ctx, generationIndexKey, generation).Err(); err != nil {
		s.logger.Warn("Failed to index L2 generation",
			zap.String("generation", generation), zap.Error(err))
	}
}

// Delete removes a single entry
func (s *Store) Delete(generation, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetWriteTimeout())
	defer cancel()

	if err := s.client.Del(ctx, entryKey(generation, key)).Err(); err != nil {
		s.logger.Warn("Failed to delete L2 cache entry",
			zap.String("key", key), zap.Error(err))
	}
}

// Generations enumerates all generation names from the index set
func (s *Store) Generations() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetReadTimeout())
	defer cancel()

	names, err := s.client.SMembers(ctx, generationIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list L2 generations: %w", err)
	}
	return names, nil
}

// DeleteGeneration evicts all entries of a generation and unregisters it
func (s *Store) DeleteGeneration(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetWriteTimeout())
	defer cancel()

	keys, err := s.client.Keys(ctx, entryKey(name, "*")).Result()
	if err != nil {
		return fmt.Errorf("failed to enumerate generation %s: %w", name, err)
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete generation %s entries: %w", name, err)
		}
	}

	if err := s.client.SRem(ctx, generationIndexKey, name).Err(); err != nil {
		return fmt.Errorf("failed to unregister generation %s: %w", name, err)
	}
	return nil
}

// Ping verifies connectivity to KeyDB
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

func entryKey(generation, key string) string {
	return fmt.Sprintf("gen:%s:%s", generation, key)
}
