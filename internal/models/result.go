package models

// CacheStatus describes how a strategy produced its response.
type CacheStatus string

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusStale  CacheStatus = "STALE"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
)

// CacheLevel identifies which tier of the store served a hit.
type CacheLevel string

const (
	CacheLevelL1   CacheLevel = "l1"
	CacheLevelL2   CacheLevel = "l2"
	CacheLevelMiss CacheLevel = "miss"
)

// Result is what a strategy executor returns to the gateway.
type Result struct {
	Entry  *Entry
	Status CacheStatus
	Level  CacheLevel
}
