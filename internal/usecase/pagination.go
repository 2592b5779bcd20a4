package usecase

import (
	"context"
	"sync"
)

// DefaultPageSize is the number of recipes fetched per page
const DefaultPageSize = 8

// PageState is the state of a Paginator
type PageState int

const (
	PageIdle PageState = iota
	PageLoadingInitial
	PageLoadingMore
	PageExhausted
	PageError
)

// String returns the state name
func (s PageState) String() string {
	switch s {
	case PageIdle:
		return "idle"
	case PageLoadingInitial:
		return "loading_initial"
	case PageLoadingMore:
		return "loading_more"
	case PageExhausted:
		return "exhausted"
	case PageError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state as its name
func (s PageState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PageFetcher fetches up to limit items starting at offset
type PageFetcher[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// PageSnapshot is a consistent view of a Paginator
type PageSnapshot[T any] struct {
	Items   []T       `json:"items"`
	State   PageState `json:"state"`
	Page    int       `json:"page"`
	HasMore bool      `json:"has_more"`
	Error   string    `json:"error,omitempty"`
}

// Paginator accumulates fixed-size pages for an infinite-scroll list. At
// most one fetch is in flight; triggers that arrive while loading, after
// the list is exhausted, or after a failure are no-ops. A failed page is
// only refetched through Retry.
type Paginator[T any] struct {
	fetch    PageFetcher[T]
	pageSize int

	mu         sync.Mutex
	state      PageState
	started    bool
	nextPage   int
	items      []T
	err        error
	generation uint64
	inFlight   bool
	cancel     context.CancelFunc
}

// NewPaginator creates a paginator. A non-positive pageSize selects DefaultPageSize.
func NewPaginator[T any](pageSize int, fetch PageFetcher[T]) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{
		fetch:    fetch,
		pageSize: pageSize,
		items:    make([]T, 0),
	}
}

// PageSize returns the configured page size
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// Start performs the initial load. It is a no-op once started.
func (p *Paginator[T]) Start(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.started || p.inFlight {
		p.mu.Unlock()
		return false, nil
	}
	return p.beginLocked(ctx)
}

// LoadMore fetches the next page. Before the first load it performs the
// initial load. It reports whether a fetch was issued.
func (p *Paginator[T]) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.state != PageIdle || p.inFlight {
		p.mu.Unlock()
		return false, nil
	}
	return p.beginLocked(ctx)
}

// OnSentinelVisible is called when the end-of-list sentinel scrolls into view
func (p *Paginator[T]) OnSentinelVisible(ctx context.Context) (bool, error) {
	return p.LoadMore(ctx)
}

// Retry refetches the page that failed. It is a no-op unless in PageError.
func (p *Paginator[T]) Retry(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.state != PageError || p.inFlight {
		p.mu.Unlock()
		return false, nil
	}
	p.err = nil
	return p.beginLocked(ctx)
}

// Reset discards all results and cancels a fetch still in flight. Its
// result is ignored when it lands, and triggers stay no-ops until then so
// that at most one fetch is ever running.
func (p *Paginator[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.generation++
	p.state = PageIdle
	p.started = false
	p.nextPage = 0
	p.items = make([]T, 0)
	p.err = nil
}

// beginLocked issues the fetch for nextPage. It must be called with p.mu
// held and releases it.
func (p *Paginator[T]) beginLocked(ctx context.Context) (bool, error) {
	if p.started && p.nextPage > 0 {
		p.state = PageLoadingMore
	} else {
		p.state = PageLoadingInitial
	}
	p.started = true
	page := p.nextPage
	generation := p.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	p.cancel = cancel
	p.inFlight = true
	p.mu.Unlock()

	items, err := p.fetch(fetchCtx, page*p.pageSize, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if generation != p.generation {
		return true, nil
	}
	p.cancel = nil
	if err != nil {
		p.state = PageError
		p.err = err
		return true, err
	}

	p.items = append(p.items, items...)
	p.nextPage++
	if len(items) < p.pageSize {
		p.state = PageExhausted
	} else {
		p.state = PageIdle
	}
	return true, nil
}

// State returns the current state
func (p *Paginator[T]) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the error of the last failed fetch
func (p *Paginator[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Items returns a copy of the accumulated items
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Snapshot returns items and state together
func (p *Paginator[T]) Snapshot() PageSnapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	snap := PageSnapshot[T]{
		Items:   make([]T, len(p.items)),
		State:   p.state,
		Page:    p.nextPage,
		HasMore: p.state != PageExhausted,
	}
	copy(snap.Items, p.items)
	if p.err != nil {
		snap.Error = p.err.Error()
	}
	return snap
}
