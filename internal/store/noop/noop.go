package noop

import (
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store is a no-operation generation store used when the L2 tier is
// disabled in configuration.
type Store struct{}

// New creates a new no-operation store instance
func New() *Store {
	return &Store{}
}

// Match always misses
func (s *Store) Match(generation, key string) (*models.Entry, bool) {
	return nil, false
}

// Put does nothing
func (s *Store) Put(generation, key string, entry *models.Entry) {
	// No-op
}

// Delete does nothing
func (s *Store) Delete(generation, key string) {
	// No-op
}

// Generations returns no names
func (s *Store) Generations() ([]string, error) {
	return nil, nil
}

// DeleteGeneration does nothing
func (s *Store) DeleteGeneration(name string) error {
	return nil
}
