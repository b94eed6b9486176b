package collection

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/roosthq/roost/internal/shared"
)

// ListFunc fetches one page of a remote collection for the given query
// parameters.
type ListFunc[T any] func(ctx context.Context, query url.Values) ([]T, error)

// Snapshot is the observable state of a [Controller]: the last applied list,
// whether any load is in flight, and the last load error. Items always
// reflect the most recent successful load; a failed load preserves the
// previous items and only records the error.
type Snapshot[T any] struct {
	Items   []T
	Loading bool
	Err     error
	Seq     uint64
}

// Controller binds a local list to a remote collection endpoint.
//
// Load may be called repeatedly; each call issues one read request. Rapid
// successive calls (for example one per filter keystroke) issue one request
// each, and whichever response belongs to the latest issued request wins:
// responses carry a monotonic sequence number and anything older than the
// applied one is discarded.
type Controller[T any] struct {
	list ListFunc[T]

	mu       sync.Mutex
	filters  url.Values
	items    []T
	err      error
	inflight int
	applied  uint64
	closed   bool

	issued atomic.Uint64
}

// NewController creates a controller for the given list function.
func NewController[T any](list ListFunc[T]) *Controller[T] {
	return &Controller[T]{list: list, filters: url.Values{}}
}

// SetFilter sets a named filter parameter. An empty value removes the filter
// ("no filter"). The caller triggers Load after each change; the controller
// does not debounce.
func (c *Controller[T]) SetFilter(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		c.filters.Del(name)
	} else {
		c.filters.Set(name, value)
	}
}

// Filters returns a copy of the current filter parameters.
func (c *Controller[T]) Filters() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := url.Values{}
	for k, vs := range c.filters {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}

// Load issues one read request with the current filters and, on success,
// replaces the local list with the response. A failed load leaves the
// previous list untouched and records the error. A response that has been
// superseded by a later-issued Load is discarded and reported as
// [shared.ErrStale].
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return shared.ErrStale
	}
	query := url.Values{}
	for k, vs := range c.filters {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	seq := c.issued.Add(1)
	c.inflight++
	c.mu.Unlock()

	items, err := c.list(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if c.closed || seq <= c.applied {
		return shared.ErrStale
	}
	c.applied = seq

	if err != nil {
		c.err = err
		return err
	}

	c.items = items
	c.err = nil
	return nil
}

// Snapshot returns the current observable state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]T, len(c.items))
	copy(items, c.items)

	return Snapshot[T]{
		Items:   items,
		Loading: c.inflight > 0,
		Err:     c.err,
		Seq:     c.applied,
	}
}

// Close tears the controller down. In-flight responses resolving afterwards
// are ignored, the replacement for an unmount guard.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
