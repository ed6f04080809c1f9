package models

import (
	"net/http"
	"time"
)

// Entry is a stored response: status, headers, body and the capture
// timestamp used for freshness-window decisions.
type Entry struct {
	Status    int         `json:"status"`
	Header    http.Header `json:"header"`
	Body      []byte      `json:"body"`
	FetchedAt int64       `json:"fetched_at"` // unix seconds; 0 means unknown
}

// Successful reports whether the response may be stored. Only 2xx responses
// are cacheable.
func (e *Entry) Successful() bool {
	return e.Status >= 200 && e.Status < 300
}

// Age returns the entry's age at the given instant. The second return value
// is false when the capture timestamp is missing, in which case the entry is
// treated as stale for refresh decisions.
func (e *Entry) Age(now time.Time) (time.Duration, bool) {
	if e.FetchedAt == 0 {
		return 0, false
	}
	return now.Sub(time.Unix(e.FetchedAt, 0)), true
}

// Fresh reports whether the entry's age is within the freshness window.
// Entries without a usable timestamp are never fresh.
func (e *Entry) Fresh(now time.Time, window time.Duration) bool {
	age, ok := e.Age(now)
	return ok && age < window
}
