package listctl

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	mu      sync.Mutex
	calls   int64
	last    Query
	records []string
	err     error
}

func (f *countingFetcher) FetchList(_ context.Context, q Query) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = q
	return f.records, f.err
}

func (f *countingFetcher) callCount() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRefreshRejectsInvalidTenant(t *testing.T) {
	fetcher := &countingFetcher{records: []string{"should never be seen"}}

	for _, companyID := range []int64{0, -1} {
		c := NewController[string](fetcher, companyID)

		err := c.Refresh(context.Background())

		assert.ErrorIs(t, err, ErrInvalidTenant)
		assert.ErrorIs(t, c.Err(), ErrInvalidTenant)
		assert.Empty(t, c.Records())
	}
	assert.Equal(t, int64(0), fetcher.callCount(), "invalid tenant must not hit the network")
}

func TestRefreshOverwritesWholesale(t *testing.T) {
	fetcher := &countingFetcher{records: []string{"a", "b"}}
	c := NewController[string](fetcher, 1)

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"a", "b"}, c.Records())

	fetcher.mu.Lock()
	fetcher.records = []string{"c"}
	fetcher.mu.Unlock()

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"c"}, c.Records(), "old rows must not survive a refetch")
}

func TestRefreshFailureClearsRecords(t *testing.T) {
	fetcher := &countingFetcher{records: []string{"a"}}
	c := NewController[string](fetcher, 1)

	require.NoError(t, c.Refresh(context.Background()))
	require.NotEmpty(t, c.Records())

	fetchErr := errors.New("backend down")
	fetcher.mu.Lock()
	fetcher.err = fetchErr
	fetcher.mu.Unlock()

	err := c.Refresh(context.Background())

	assert.ErrorIs(t, err, fetchErr)
	assert.ErrorIs(t, c.Err(), fetchErr)
	assert.Empty(t, c.Records(), "a failed fetch must not leave stale rows visible")
}

// A slow response for an old query must never overwrite the result of a
// newer one, no matter the arrival order.
func TestStaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	fetcher := FetcherFunc[string](func(_ context.Context, q Query) ([]string, error) {
		if q.Status == "" {
			close(started)
			<-release
			return []string{"stale"}, nil
		}
		return []string{"fresh"}, nil
	})
	c := NewController[string](fetcher, 1)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()
	<-started

	// The second request completes while the first is still in flight
	require.NoError(t, c.SetStatus(context.Background(), "Active"))
	assert.Equal(t, []string{"fresh"}, c.Records())

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"fresh"}, c.Records(), "late response resurfaced stale data")
	assert.NoError(t, c.Err())
}

func TestSetSearchDebounces(t *testing.T) {
	fetcher := &countingFetcher{}
	c := NewController[string](fetcher, 1, WithDebounce[string](20*time.Millisecond))

	ctx := context.Background()
	c.SetSearch(ctx, "a")
	c.SetSearch(ctx, "ab")
	c.SetSearch(ctx, "abc")

	assert.Eventually(t, func() bool {
		return fetcher.callCount() == 1
	}, time.Second, 5*time.Millisecond, "burst of keystrokes must collapse to one fetch")

	// Give a wrongly re-armed timer a chance to fire
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), fetcher.callCount())

	fetcher.mu.Lock()
	assert.Equal(t, "abc", fetcher.last.Search, "fetch must carry the final search text")
	fetcher.mu.Unlock()
}

func TestSetTenantSwitchesScope(t *testing.T) {
	fetcher := &countingFetcher{records: []string{"x"}}
	c := NewController[string](fetcher, 1)

	require.NoError(t, c.SetTenant(context.Background(), 7))

	fetcher.mu.Lock()
	assert.Equal(t, int64(7), fetcher.last.CompanyID)
	fetcher.mu.Unlock()

	err := c.SetTenant(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidTenant)
	assert.Empty(t, c.Records(), "switching to an invalid tenant clears the list")
}

func TestCloseAbandonsPendingWork(t *testing.T) {
	var calls int64
	fetcher := FetcherFunc[string](func(_ context.Context, _ Query) ([]string, error) {
		atomic.AddInt64(&calls, 1)
		return []string{"late"}, nil
	})
	c := NewController[string](fetcher, 1, WithDebounce[string](10*time.Millisecond))

	c.SetSearch(context.Background(), "pending")
	c.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, c.Records())

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, int64(0), atomic.LoadInt64(&calls), "closed controller must not fetch")
}

func TestRecordsReturnsCopy(t *testing.T) {
	fetcher := &countingFetcher{records: []string{"a", "b"}}
	c := NewController[string](fetcher, 1)
	require.NoError(t, c.Refresh(context.Background()))

	got := c.Records()
	got[0] = "mutated"

	assert.Equal(t, []string{"a", "b"}, c.Records())
}
