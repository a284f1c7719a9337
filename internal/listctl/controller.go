// Package listctl implements the remote list controller backing every
// entity table: a tenant-scoped record cache kept consistent with the
// user's filters, plus the pure client-side derived filter applied on
// top of it.
package listctl

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidTenant is returned when a fetch is attempted without a
// valid company id. No network call is made in that case.
var ErrInvalidTenant = errors.New("invalid or missing company id")

// Query carries the server-side filters for a list fetch
type Query struct {
	CompanyID int64
	Search    string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Fetcher loads one page-worth of records for a query
type Fetcher[T any] interface {
	FetchList(ctx context.Context, q Query) ([]T, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc[T any] func(ctx context.Context, q Query) ([]T, error)

// FetchList implements Fetcher
func (f FetcherFunc[T]) FetchList(ctx context.Context, q Query) ([]T, error) {
	return f(ctx, q)
}

// Controller owns the canonical record list for one entity page.
// Every fetch overwrites the cache wholesale; responses that are no
// longer the most recent request are discarded, so rapid filter
// changes cannot resurface stale data.
type Controller[T any] struct {
	fetcher  Fetcher[T]
	logger   *zap.Logger
	debounce time.Duration

	mu        sync.Mutex
	companyID int64
	search    string
	status    string
	dateFrom  *time.Time
	dateTo    *time.Time

	records []T
	loading bool
	lastErr error

	seq    uint64
	timer  *time.Timer
	closed bool
}

// Option configures a Controller
type Option[T any] func(*Controller[T])

// WithDebounce overrides the search debounce interval
func WithDebounce[T any](d time.Duration) Option[T] {
	return func(c *Controller[T]) { c.debounce = d }
}

// WithLogger sets the controller logger
func WithLogger[T any](logger *zap.Logger) Option[T] {
	return func(c *Controller[T]) { c.logger = logger }
}

// NewController creates a controller for one tenant. The tenant id is
// injected here once and never re-read from ambient state.
func NewController[T any](fetcher Fetcher[T], companyID int64, opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		fetcher:   fetcher,
		companyID: companyID,
		debounce:  300 * time.Millisecond,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh fetches the list for the current filters and commits the
// result unless a newer request was issued meanwhile. An invalid
// tenant short-circuits to an empty list with no network call.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if c.companyID <= 0 {
		c.records = nil
		c.lastErr = ErrInvalidTenant
		c.mu.Unlock()
		return ErrInvalidTenant
	}

	c.seq++
	seq := c.seq
	q := Query{
		CompanyID: c.companyID,
		Search:    c.search,
		Status:    c.status,
		DateFrom:  c.dateFrom,
		DateTo:    c.dateTo,
	}
	c.loading = true
	c.mu.Unlock()

	records, err := c.fetcher.FetchList(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq || c.closed {
		// A newer request owns the cache now
		c.logger.Debug("Discarding stale list response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq))
		return nil
	}
	c.loading = false

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		c.logger.Error("List fetch failed",
			zap.Int64("company_id", q.CompanyID),
			zap.Error(err))
		c.records = nil
		c.lastErr = err
		return err
	}

	c.records = records
	c.lastErr = nil
	return nil
}

// SetSearch updates the search text and schedules a debounced refresh
func (c *Controller[T]) SetSearch(ctx context.Context, search string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.search = search
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		_ = c.Refresh(ctx)
	})
	c.mu.Unlock()
}

// SetStatus updates the status filter and refetches immediately
func (c *Controller[T]) SetStatus(ctx context.Context, status string) error {
	c.mu.Lock()
	c.status = status
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetDateRange updates the date-range filter and refetches immediately
func (c *Controller[T]) SetDateRange(ctx context.Context, from, to *time.Time) error {
	c.mu.Lock()
	c.dateFrom, c.dateTo = from, to
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// SetTenant switches the controller to a different company and
// refetches. Passing an invalid id clears the list.
func (c *Controller[T]) SetTenant(ctx context.Context, companyID int64) error {
	c.mu.Lock()
	c.companyID = companyID
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Records returns a copy of the cached record list
func (c *Controller[T]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Loading reports whether a fetch is in flight
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error from the most recent fetch, if any
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close abandons interest in any pending or in-flight work. Responses
// arriving after Close never touch the cache.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.seq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
