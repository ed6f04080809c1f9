package guard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBegin_IssuesMonotonicTokens(t *testing.T) {
	c := NewCoordinator()

	first := c.Begin()
	second := c.Begin()
	third := c.Begin()

	assert.Less(t, uint64(first), uint64(second))
	assert.Less(t, uint64(second), uint64(third))
	assert.Equal(t, third, c.Latest())
}

func TestCurrent_OnlyNewestTokenIsCurrent(t *testing.T) {
	c := NewCoordinator()

	old := c.Begin()
	newest := c.Begin()

	assert.False(t, c.Current(old))
	assert.True(t, c.Current(newest))
}

func TestCurrent_SupersededByLaterBegin(t *testing.T) {
	c := NewCoordinator()

	token := c.Begin()
	assert.True(t, c.Current(token))

	c.Begin()
	assert.False(t, c.Current(token))
}

func TestBegin_ConcurrentTokensAreUnique(t *testing.T) {
	c := NewCoordinator()

	const n = 100
	tokens := make([]Token, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			tokens[i] = c.Begin()
		}(i)
	}
	wg.Wait()

	seen := make(map[Token]bool, n)
	for _, tok := range tokens {
		assert.False(t, seen[tok], "token issued twice: %d", tok)
		seen[tok] = true
	}
	assert.Equal(t, Token(n), c.Latest())
}
