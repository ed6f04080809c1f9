package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-cache/internal/guard"
)

// blockingQuerier parks every Query call until the test releases it, so the
// test controls resolution order independently of initiation order.
type blockingQuerier struct {
	mu      sync.Mutex
	next    int
	entered []chan struct{} // closed when call i has started
	release []chan struct{} // the test closes these to let call i return
	pages   []*Page
	errs    []error
}

func newBlockingQuerier(n int) *blockingQuerier {
	q := &blockingQuerier{
		entered: make([]chan struct{}, n),
		release: make([]chan struct{}, n),
		pages:   make([]*Page, n),
		errs:    make([]error, n),
	}
	for i := 0; i < n; i++ {
		q.entered[i] = make(chan struct{})
		q.release[i] = make(chan struct{})
		q.pages[i] = &Page{Total: i, Page: page, PageSize: 24}
	}
	return q
}

const page = 1

func (q *blockingQuerier) Query(ctx context.Context, f Filter, _, _ int) (*Page, error) {
	q.mu.Lock()
	idx := q.next
	q.next++
	q.mu.Unlock()

	close(q.entered[idx])
	<-q.release[idx]
	return q.pages[idx], q.errs[idx]
}

type guardedResult struct {
	page    *Page
	applied bool
	err     error
}

// startGuardedQueries launches n queries one at a time, waiting for each to
// reach the querier before starting the next, so initiation order is fixed
// even though resolution order is up to the test.
func startGuardedQueries(t *testing.T, g *GuardedClient, q *blockingQuerier, n int) ([]chan guardedResult, *sync.WaitGroup) {
	t.Helper()
	results := make([]chan guardedResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		results[i] = make(chan guardedResult, 1)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, applied, err := g.Query(context.Background(), Filter{Search: "q"}, page, 24)
			results[i] <- guardedResult{page: p, applied: applied, err: err}
		}(i)
		<-q.entered[i]
	}
	return results, &wg
}

func TestGuardedQuery_LastInitiatedWinsUnderOutOfOrderResolution(t *testing.T) {
	q := newBlockingQuerier(3)
	g := NewGuardedClient(q, guard.NewCoordinator(), zap.NewNop())

	results, wg := startGuardedQueries(t, g, q, 3)

	// Resolve in reverse: the newest request completes first, then the two
	// stale ones straggle in.
	close(q.release[2])
	last := <-results[2]
	close(q.release[0])
	first := <-results[0]
	close(q.release[1])
	second := <-results[1]
	wg.Wait()

	require.NoError(t, last.err)
	assert.True(t, last.applied)
	assert.Equal(t, 2, last.page.Total)

	for _, stale := range []guardedResult{first, second} {
		assert.False(t, stale.applied)
		assert.Nil(t, stale.page)
		assert.NoError(t, stale.err)
	}
}

func TestGuardedQuery_SupersededErrorIsDiscardedToo(t *testing.T) {
	q := newBlockingQuerier(2)
	q.errs[0] = errors.New("connection reset")
	g := NewGuardedClient(q, guard.NewCoordinator(), zap.NewNop())

	results, wg := startGuardedQueries(t, g, q, 2)

	close(q.release[0])
	stale := <-results[0]
	close(q.release[1])
	newest := <-results[1]
	wg.Wait()

	// The failed request was already superseded, so its error must not
	// surface as a user-visible failure.
	assert.False(t, stale.applied)
	assert.NoError(t, stale.err)

	assert.True(t, newest.applied)
	require.NoError(t, newest.err)
	assert.Equal(t, 1, newest.page.Total)
}

func TestGuardedQuery_CurrentErrorSurfaces(t *testing.T) {
	q := newBlockingQuerier(1)
	q.errs[0] = errors.New("connection reset")
	g := NewGuardedClient(q, guard.NewCoordinator(), zap.NewNop())

	results, wg := startGuardedQueries(t, g, q, 1)
	close(q.release[0])
	res := <-results[0]
	wg.Wait()

	assert.True(t, res.applied)
	assert.ErrorContains(t, res.err, "connection reset")
}

func TestGuardedQuery_SingleQueryIsApplied(t *testing.T) {
	q := newBlockingQuerier(1)
	g := NewGuardedClient(q, guard.NewCoordinator(), zap.NewNop())

	results, wg := startGuardedQueries(t, g, q, 1)
	close(q.release[0])
	res := <-results[0]
	wg.Wait()

	require.NoError(t, res.err)
	assert.True(t, res.applied)
	assert.Equal(t, 0, res.page.Total)
}
