package tiered

import (
	"go.uber.org/zap"

	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store composes the L1 memory tier over the L2 persistent tier. Reads fall
// through L1 to L2 and backfill L1 on an L2 hit; writes and deletes fan out
// to both tiers.
type Store struct {
	tiers     []interfaces.Store
	logger    *zap.Logger
	propagate bool
}

// New creates a tiered store. Tiers are consulted in order; tier 0 is
// backfilled from deeper tiers when propagation is enabled.
func New(tiers []interfaces.Store, propagate bool, logger *zap.Logger) *Store {
	return &Store{
		tiers:     tiers,
		logger:    logger,
		propagate: propagate,
	}
}

// Match retrieves an entry from the first tier that has the key
func (s *Store) Match(generation, key string) (*models.Entry, bool) {
	entry, _, found := s.MatchWithLevel(generation, key)
	return entry, found
}

// MatchWithLevel retrieves an entry and reports which tier served it
func (s *Store) MatchWithLevel(generation, key string) (*models.Entry, models.CacheLevel, bool) {
	for i, tier := range s.tiers {
		entry, found := tier.Match(generation, key)
		if !found {
			continue
		}

		if s.propagate && i > 0 {
			s.tiers[0].Put(generation, key, entry)
		}

		level := models.CacheLevelL1
		if i > 0 {
			level = models.CacheLevelL2
		}
		return entry, level, true
	}
	return nil, models.CacheLevelMiss, false
}

// Put stores an entry in every tier
func (s *Store) Put(generation, key string, entry *models.Entry) {
	for _, tier := range s.tiers {
		tier.Put(generation, key, entry)
	}
}

// Delete removes an entry from every tier
func (s *Store) Delete(generation, key string) {
	for _, tier := range s.tiers {
		tier.Delete(generation, key)
	}
}

// Generations returns the union of generation names across tiers
func (s *Store) Generations() ([]string, error) {
	seen := make(map[string]struct{})
	var names []string

	for _, tier := range s.tiers {
		tierNames, err := tier.Generations()
		if err != nil {
			return nil, err
		}
		for _, name := range tierNames {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names, nil
}

// DeleteGeneration evicts a generation from every tier
func (s *Store) DeleteGeneration(name string) error {
	var firstErr error
	for _, tier := range s.tiers {
		if err := tier.DeleteGeneration(name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
