package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuccessful(t *testing.T) {
	assert.True(t, (&Entry{Status: 200}).Successful())
	assert.True(t, (&Entry{Status: 204}).Successful())
	assert.False(t, (&Entry{Status: 304}).Successful())
	assert.False(t, (&Entry{Status: 404}).Successful())
	assert.False(t, (&Entry{Status: 500}).Successful())
}

func TestAge(t *testing.T) {
	now := time.Unix(1700000100, 0)

	age, ok := (&Entry{FetchedAt: 1700000000}).Age(now)
	assert.True(t, ok)
	assert.Equal(t, 100*time.Second, age)

	_, ok = (&Entry{}).Age(now)
	assert.False(t, ok, "missing capture timestamp has no usable age")
}

func TestFresh(t *testing.T) {
	now := time.Unix(1700000100, 0)

	assert.True(t, (&Entry{FetchedAt: 1700000090}).Fresh(now, 30*time.Second))
	assert.False(t, (&Entry{FetchedAt: 1700000000}).Fresh(now, 30*time.Second))
	assert.False(t, (&Entry{FetchedAt: 1700000070}).Fresh(now, 30*time.Second), "age equal to window is not fresh")
	assert.False(t, (&Entry{}).Fresh(now, 30*time.Second), "missing timestamp is never fresh")
}
