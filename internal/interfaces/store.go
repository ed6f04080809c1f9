package interfaces

import (
	"catalog-cache/internal/models"
)

//go:generate mockgen -package=mock -source=store.go -destination=mock/store.go

// Store is the named generation store: an addressable set of key→response
// containers partitioned by generation name. Exactly one generation per
// resource class is current; superseded generations are deleted wholesale.
type Store interface {
	// Match looks up an entry by generation and key.
	Match(generation, key string) (*models.Entry, bool)

	// Put stores an entry under generation/key, overwriting any previous
	// entry for the same key. Write failures are logged, not returned:
	// cache writes are best-effort by design.
	Put(generation, key string, entry *models.Entry)

	// Delete removes a single entry.
	Delete(generation, key string)

	// Generations enumerates all generation names currently present.
	Generations() ([]string, error)

	// DeleteGeneration evicts a whole generation and all its entries.
	// Deleting a generation that does not exist is a no-op.
	DeleteGeneration(name string) error
}
