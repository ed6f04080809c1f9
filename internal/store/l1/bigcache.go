package l1

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/metrics"
	"catalog-cache/internal/models"
)

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store implements the in-memory generation store on BigCache. Each
// generation gets its own BigCache instance so DeleteGeneration can evict
// a whole resource class in one call.
type Store struct {
	mu          sync.RWMutex
	generations map[string]*bigcache.BigCache
	sizeMB      int
	clock       clock.Clock
	logger      *zap.Logger

	collectCancel context.CancelFunc
	collectWG     sync.WaitGroup
}

// New creates a new in-memory generation store
func New(sizeMB int, logger *zap.Logger) *Store {
	return &Store{
		generations: make(map[string]*bigcache.BigCache),
		sizeMB:      sizeMB,
		clock:       clock.New(),
		logger:      logger,
	}
}

// Match retrieves an entry by generation and key
func (s *Store) Match(generation, key string) (*models.Entry, bool) {
	s.mu.RLock()
	cache, ok := s.generations[generation]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	data, err := cache.Get(key)
	if err != nil {
		return nil, false
	}

	var entry models.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.Warn("Failed to unmarshal L1 cache entry",
			zap.String("generation", generation), zap.String("key", key), zap.Error(err))
		_ = cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	return &entry, true
}

// Put stores an entry, creating the generation on first write
func (s *Store) Put(generation, key string, entry *models.Entry) {
	cache, err := s.openGeneration(generation)
	if err != nil {
		s.logger.Error("Failed to open L1 generation",
			zap.String("generation", generation), zap.Error(err))
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		s.logger.Error("Failed to marshal L1 cache entry",
			zap.String("key", key), zap.Error(err))
		return
	}

	if err := cache.Set(key, data); err != nil {
		s.logger.Error("Failed to set L1 cache entry",
			zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a single entry
func (s *Store) Delete(generation, key string) {
	s.mu.RLock()
	cache, ok := s.generations[generation]
	s.mu.RUnlock()
	if !ok {
		return
	}
	_ = cache.Delete(key)
}

// Generations enumerates all generation names currently present
func (s *Store) Generations() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.generations))
	for name := range s.generations {
		names = append(names, name)
	}
	return names, nil
}

// DeleteGeneration evicts a whole generation
func (s *Store) DeleteGeneration(name string) error {
	s.mu.Lock()
	cache, ok := s.generations[name]
	delete(s.generations, name)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return cache.Close()
}

// Close closes all generations
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, cache := range s.generations {
		if err := cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.generations, name)
	}
	return firstErr
}

// UpdateCapacityMetrics publishes L1 capacity gauges across all generations
func (s *Store) UpdateCapacityMetrics() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var capacity, used int64
	for _, cache := range s.generations {
		capacity += int64(cache.Capacity())
		stats := cache.Stats()
		used += int64(stats.Hits + stats.Misses) // approximate, BigCache has no exact usage
	}
	metrics.UpdateL1CacheCapacity(capacity, used)
}

// StartMetricsCollection publishes the capacity gauges on a fixed interval
// until StopMetricsCollection is called.
func (s *Store) StartMetricsCollection(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.collectCancel = cancel

	s.collectWG.Add(1)
	go func() {
		defer s.collectWG.Done()
		ticker := s.clock.Ticker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.UpdateCapacityMetrics()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// StopMetricsCollection terminates the collector started by
// StartMetricsCollection. Safe to call when it was never started.
func (s *Store) StopMetricsCollection() {
	if s.collectCancel == nil {
		return
	}
	s.collectCancel()
	s.collectWG.Wait()
	s.collectCancel = nil
}

// openGeneration returns the BigCache for a generation, creating it if needed
func (s *Store) openGeneration(name string) (*bigcache.BigCache, error) {
	s.mu.RLock()
	cache, ok := s.generations[name]
	s.mu.RUnlock()
	if ok {
		return cache, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cache, ok := s.generations[name]; ok {
		return cache, nil
	}

	cfg := bigcache.DefaultConfig(24 * time.Hour)
	cfg.HardMaxCacheSize = s.sizeMB
	cfg.MaxEntrySize = 1024 * 1024
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	s.generations[name] = cache
	return cache, nil
}
