package prefetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-cache/internal/catalog"
)

type queryCall struct {
	filter   catalog.Filter
	page     int
	pageSize int
}

type recordingQuerier struct {
	mu    sync.Mutex
	calls []queryCall
	err   error
}

func (q *recordingQuerier) Query(ctx context.Context, f catalog.Filter, page, pageSize int) (*catalog.Page, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.calls = append(q.calls, queryCall{filter: f, page: page, pageSize: pageSize})
	if q.err != nil {
		return nil, q.err
	}
	return &catalog.Page{Page: page, PageSize: pageSize}, nil
}

func (q *recordingQuerier) recorded() []queryCall {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queryCall(nil), q.calls...)
}

type stubActivity struct {
	mu   sync.Mutex
	last time.Time
}

func (s *stubActivity) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *stubActivity) touch(t time.Time) {
	s.mu.Lock()
	s.last = t
	s.mu.Unlock()
}

func newPrefetcherForTest(q catalog.Querier) (*Prefetcher, *clock.Mock, *stubActivity) {
	clk := clock.NewMock()
	clk.Add(1000 * time.Hour)
	activity := &stubActivity{last: clk.Now()}
	return New(q, activity, clk, 2*time.Second, zap.NewNop()), clk, activity
}

func TestFireIfIdle_WarmsNextPageAfterIdleWindow(t *testing.T) {
	q := &recordingQuerier{}
	p, clk, _ := newPrefetcherForTest(q)

	f := catalog.Filter{Search: "alien"}
	p.Schedule(f, 1, 24, 100)

	// Still inside the idle window: nothing fires.
	clk.Add(1 * time.Second)
	p.fireIfIdle(context.Background())
	assert.Empty(t, q.recorded())

	clk.Add(2 * time.Second)
	p.fireIfIdle(context.Background())

	calls := q.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, f, calls[0].filter)
	assert.Equal(t, 2, calls[0].page)
	assert.Equal(t, 24, calls[0].pageSize)
}

func TestFireIfIdle_JobFiresAtMostOnce(t *testing.T) {
	q := &recordingQuerier{}
	p, clk, _ := newPrefetcherForTest(q)

	p.Schedule(catalog.Filter{}, 1, 24, 100)
	clk.Add(5 * time.Second)

	p.fireIfIdle(context.Background())
	p.fireIfIdle(context.Background())

	assert.Len(t, q.recorded(), 1)
}

func TestFireIfIdle_RenewedActivityDefersWarmUp(t *testing.T) {
	q := &recordingQuerier{}
	p, clk, activity := newPrefetcherForTest(q)

	p.Schedule(catalog.Filter{}, 1, 24, 100)

	clk.Add(3 * time.Second)
	activity.touch(clk.Now()) // a request just came in
	p.fireIfIdle(context.Background())
	assert.Empty(t, q.recorded())

	// The job stays pending and fires once the gateway goes quiet again.
	clk.Add(3 * time.Second)
	p.fireIfIdle(context.Background())
	assert.Len(t, q.recorded(), 1)
}

func TestSchedule_LastPageHasNothingToWarm(t *testing.T) {
	q := &recordingQuerier{}
	p, clk, _ := newPrefetcherForTest(q)

	// Page 5 of 100 results at 24 per page is the final page.
	p.Schedule(catalog.Filter{}, 5, 24, 100)
	clk.Add(5 * time.Second)
	p.fireIfIdle(context.Background())

	assert.Empty(t, q.recorded())
}

func TestSchedule_NewerScheduleReplacesPending(t *testing.T) {
	q := &recordingQuerier{}
	p, clk, _ := newPrefetcherForTest(q)

	p.Schedule(catalog.Filter{Search: "old"}, 1, 24, 100)
	p.Schedule(catalog.Filter{Search: "new"}, 2, 24, 100)

	clk.Add(5 * time.Second)
	p.fireIfIdle(context.Background())

	calls := q.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "new", calls[0].filter.Search)
	assert.Equal(t, 3, calls[0].page)
}

func TestFireIfIdle_FailureIsSilentAndJobNotRetried(t *testing.T) {
	q := &recordingQuerier{err: errors.New("network unreachable")}
	p, clk, _ := newPrefetcherForTest(q)

	p.Schedule(catalog.Filter{}, 1, 24, 100)
	clk.Add(5 * time.Second)

	p.fireIfIdle(context.Background())
	p.fireIfIdle(context.Background())

	// One attempt, swallowed failure, no retry storm.
	assert.Len(t, q.recorded(), 1)
}

func TestStartStop_Lifecycle(t *testing.T) {
	q := &recordingQuerier{}
	p, _, _ := newPrefetcherForTest(q)

	p.Start()
	p.Start() // second start is a no-op
	p.Stop()
	p.Stop() // second stop is a no-op
}
