// Package listing implements the query engine behind every listing
// screen: filters, sort, page and page size, converted into fetches whose
// responses are reconciled by sequence number.
//
// Every fetch is tagged with a sequence number when it is issued. A
// response is applied only if no newer fetch has been issued since, so
// the visible state always converges to the last issued request whatever
// order the responses arrive in. Several fetches may be in flight at once;
// superseded ones are not cancelled, their results are dropped.
package listing

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/dmitrijs2005/govadmin/internal/client/client"
	"github.com/dmitrijs2005/govadmin/internal/client/models"
	"github.com/dmitrijs2005/govadmin/internal/logging"
)

const DefaultPageSize = 10

// maxClamps bounds the refetches issued when the result set keeps
// shrinking under the current page.
const maxClamps = 3

var ErrInvalidPageSize = errors.New("page size must be positive")

// InvalidPageError rejects a SetPage outside [1, TotalPages].
type InvalidPageError struct {
	Page       int
	TotalPages int
}

func (e *InvalidPageError) Error() string {
	return fmt.Sprintf("page %d out of range [1, %d]", e.Page, e.TotalPages)
}

// Fetcher loads one page for q.
type Fetcher[T any] func(ctx context.Context, q models.Query) (models.Page[T], error)

type Options struct {
	PageSize       int
	DefaultFilters map[string]string
	Sort           string
	Logger         logging.Logger
}

// request holds the parameters the next fetch is issued with. They reach
// the snapshot only when a fetch carrying them is applied, so a failed
// fetch leaves the visible page, filters and items consistent.
type request struct {
	filters  map[string]string
	sort     string
	page     int
	pageSize int
}

type Engine[T any] struct {
	fetch       Fetcher[T]
	defaults    map[string]string
	defaultSort string
	log         logging.Logger

	mu     sync.Mutex
	st     Snapshot[T]
	want   request
	issued uint64
}

func New[T any](fetch Fetcher[T], opts Options) *Engine[T] {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	defaults := maps.Clone(opts.DefaultFilters)
	if defaults == nil {
		defaults = map[string]string{}
	}

	return &Engine[T]{
		fetch:       fetch,
		defaults:    defaults,
		defaultSort: opts.Sort,
		log:         log.With("component", "listing"),
		want: request{
			filters:  maps.Clone(defaults),
			sort:     opts.Sort,
			page:     1,
			pageSize: size,
		},
		st: Snapshot[T]{
			Filters:  maps.Clone(defaults),
			Sort:     opts.Sort,
			Page:     1,
			PageSize: size,
			Items:    []T{},
		},
	}
}

// Snapshot returns a copy of the visible state.
func (e *Engine[T]) Snapshot() Snapshot[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.clone()
}

// Refresh re-issues the fetch for the requested filters and page. After a
// failed change this retries that change.
func (e *Engine[T]) Refresh(ctx context.Context) error {
	e.mu.Lock()
	q, seq := e.issueLocked()
	e.mu.Unlock()
	return e.run(ctx, q, seq, 0)
}

// SetFilter sets one filter and fetches page 1. An empty value removes the
// filter from the query.
func (e *Engine[T]) SetFilter(ctx context.Context, name, value string) error {
	e.mu.Lock()
	e.want.filters[name] = value
	e.want.page = 1
	q, seq := e.issueLocked()
	e.mu.Unlock()
	return e.run(ctx, q, seq, 0)
}

// ClearFilters restores the default filters and fetches page 1.
func (e *Engine[T]) ClearFilters(ctx context.Context) error {
	e.mu.Lock()
	e.want.filters = maps.Clone(e.defaults)
	e.want.page = 1
	q, seq := e.issueLocked()
	e.mu.Unlock()
	return e.run(ctx, q, seq, 0)
}

// SetSort changes the sort specification and fetches page 1.
func (e *Engine[T]) SetSort(ctx context.Context, spec string) error {
	e.mu.Lock()
	e.want.sort = spec
	e.want.page = 1
	q, seq := e.issueLocked()
	e.mu.Unlock()
	return e.run(ctx, q, seq, 0)
}

// SetPageSize changes the page size and fetches page 1.
func (e *Engine[T]) SetPageSize(ctx context.Context, n int) error {
	if n < 1 {
		return ErrInvalidPageSize
	}
	e.mu.Lock()
	e.want.pageSize = n
	e.want.page = 1
	q, seq := e.issueLocked()
	e.mu.Unlock()
	return e.run(ctx, q, seq, 0)
}

// SetPage fetches page n. Once the total is known, n outside
// [1, TotalPages] is rejected with *InvalidPageError and nothing changes.
// An empty result has a single valid page. The snapshot shows page n only
// once its fetch succeeds.
func (e *Engine[T]) SetPage(ctx context.Context, n int) error {
	e.mu.Lock()
	last := 0
	if e.st.TotalKnown {
		last = max(pageCount(e.st.TotalItems, e.want.pageSize), 1)
	}
	if n < 1 || (e.st.TotalKnown && n > last) {
		e.mu.Unlock()
		return &InvalidPageError{Page: n, TotalPages: last}
	}
	e.want.page = n
	q, seq := e.issueLocked()
	e.mu.Unlock()
	return e.run(ctx, q, seq, 0)
}

// Mutate runs fn and then refetches the current page so the list shows
// what the server holds. If fn fails nothing is fetched.
func (e *Engine[T]) Mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return e.Refresh(ctx)
}

func (e *Engine[T]) issueLocked() (models.Query, uint64) {
	e.issued++
	e.st.Status = StatusLoading
	return models.Query{
		Filters:  maps.Clone(e.want.filters),
		Page:     e.want.page,
		PageSize: e.want.pageSize,
		Sort:     e.want.sort,
	}, e.issued
}

// run performs the fetch for seq and applies it if seq is still the
// latest. A superseded fetch returns nil whatever its outcome.
func (e *Engine[T]) run(ctx context.Context, q models.Query, seq uint64, clamps int) error {
	page, err := e.fetch(ctx, q)

	e.mu.Lock()
	if seq != e.issued {
		e.mu.Unlock()
		e.log.Debug(ctx, "stale response discarded", "seq", seq, "latest", e.issued)
		return nil
	}

	if err != nil {
		if errors.Is(err, client.ErrAuthorityLost) {
			// The session layer reacts to this; the list stays as it was.
			e.st.Status = StatusIdle
			e.st.Err = nil
		} else {
			e.st.Status = StatusError
			e.st.Err = err
		}
		e.mu.Unlock()
		return err
	}

	total := max(page.Total, 0)
	pages := pageCount(total, q.PageSize)
	if pages > 0 && q.Page > pages && clamps < maxClamps {
		e.want.page = pages
		next, nextSeq := e.issueLocked()
		e.mu.Unlock()
		e.log.Debug(ctx, "page clamped", "from", q.Page, "to", pages)
		return e.run(ctx, next, nextSeq, clamps+1)
	}

	e.st.TotalItems = total
	e.st.TotalKnown = true
	e.st.Filters = maps.Clone(q.Filters)
	e.st.Sort = q.Sort
	e.st.PageSize = q.PageSize
	e.st.Page = q.Page
	switch {
	case total == 0:
		e.st.Page, e.want.page = 1, 1
	case q.Page > pages:
		e.st.Page, e.want.page = pages, pages
	}
	e.st.Items = page.Items
	if e.st.Items == nil {
		e.st.Items = []T{}
	}
	e.st.Status = StatusIdle
	e.st.Err = nil
	e.mu.Unlock()
	return nil
}
