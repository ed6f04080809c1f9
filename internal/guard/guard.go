// Package guard implements the last-initiated-wins discipline for primary
// data requests: every outgoing query gets a monotonic token, and a response
// is applied only if no newer request has been issued by the time it
// arrives. Resolution order does not matter; initiation order does.
package guard

import "sync/atomic"

// Token identifies one initiated request. Tokens are issued in strict
// initiation order and never reset.
type Token uint64

// Coordinator owns the process-wide sequence counter. It replaces a
// module-level mutable global with an explicit object handed to the data
// layer.
type Coordinator struct {
	latest atomic.Uint64
}

// NewCoordinator creates a new request sequence coordinator
func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Begin issues the next token. Call synchronously before starting the
// asynchronous fetch it tags.
func (c *Coordinator) Begin() Token {
	return Token(c.latest.Add(1))
}

// Current reports whether the token still identifies the newest initiated
// request. A false result means the response must be discarded silently.
func (c *Coordinator) Current(t Token) bool {
	return uint64(t) == c.latest.Load()
}

// Latest returns the most recently issued token.
func (c *Coordinator) Latest() Token {
	return Token(c.latest.Load())
}
