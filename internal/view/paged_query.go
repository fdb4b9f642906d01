package view

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"dealerdesk/internal/models"
)

// DefaultDebounce is how long search input must stay idle before the query
// commits and a fetch fires.
const DefaultDebounce = 500 * time.Millisecond

// Query is the parameter set a list fetch is derived from.
type Query struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
	Search  string // committed search query, empty for plain listing
}

// FetchFunc loads one page for the given parameters.
type FetchFunc[T any] func(ctx context.Context, q Query) (models.Page[T], error)

// Options configures a PagedQuery.
type Options[T any] struct {
	// Name appears in the user-facing error message ("Failed to load <Name>...").
	Name  string
	Fetch FetchFunc[T]
	// SearchFetch, when set, is used instead of Fetch whenever the committed
	// search query is non-empty. Leaving it nil makes the list non-searchable.
	SearchFetch FetchFunc[T]
	Page        int
	Size        int
	SortBy      string
	SortDir     string
	// Debounce overrides DefaultDebounce; used by tests.
	Debounce time.Duration
}

// Snapshot is the renderable state of a PagedQuery at one point in time.
type Snapshot[T any] struct {
	Items         []T    `json:"items"`
	Page          int    `json:"page"`
	Size          int    `json:"size"`
	SortBy        string `json:"sortBy,omitempty"`
	SortDir       string `json:"sortDir"`
	Search        string `json:"search,omitempty"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	FirstPage     bool   `json:"firstPage"`
	LastPage      bool   `json:"lastPage"`
	Loading       bool   `json:"loading"`
	Loaded        bool   `json:"loaded"`
	Error         string `json:"error,omitempty"`
}

// PagedQuery owns the page/size/sort/search state of one list view and keeps
// it consistent with the upstream result set. All mutators trigger exactly one
// fetch; results of superseded fetches are discarded (last trigger wins), and
// a failed fetch keeps the previous result set on screen (stale-while-error).
type PagedQuery[T any] struct {
	mu       sync.Mutex
	opts     Options[T]
	q        Query
	raw      string // search input as typed, not yet committed
	debounce *time.Timer

	seq     uint64 // id of the latest triggered fetch
	items   []T
	total   int64
	pages   int
	first   bool
	last    bool
	loading bool
	loaded  bool
	errMsg  string

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewPagedQuery builds the controller without fetching. Call Load to run the
// initial fetch. The controller detaches from parent when Close is called or
// parent is cancelled.
func NewPagedQuery[T any](parent context.Context, opts Options[T]) *PagedQuery[T] {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(parent)
	return &PagedQuery[T]{
		opts:   opts,
		q:      Query{Page: opts.Page, Size: opts.Size, SortBy: opts.SortBy, SortDir: opts.SortDir},
		first:  true,
		last:   true,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Load runs the initial fetch.
func (p *PagedQuery[T]) Load() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trigger()
}

// Reload refetches with the current parameters. Used after a mutation made
// the current result set stale.
func (p *PagedQuery[T]) Reload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trigger()
}

// SetPage jumps to page n. Negative pages and forward jumps past the last
// page are ignored.
func (p *PagedQuery[T]) SetPage(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 0 || n == p.q.Page {
		return
	}
	if n > p.q.Page && p.last {
		return
	}
	p.q.Page = n
	p.trigger()
}

// NextPage advances one page unless the current page is the last.
func (p *PagedQuery[T]) NextPage() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last {
		return
	}
	p.q.Page++
	p.trigger()
}

// PrevPage goes back one page unless the current page is the first.
func (p *PagedQuery[T]) PrevPage() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.first || p.q.Page == 0 {
		return
	}
	p.q.Page--
	p.trigger()
}

// SetSortBy changes the sort field. The current page is preserved.
func (p *PagedQuery[T]) SetSortBy(field string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if field == "" || field == p.q.SortBy {
		return
	}
	p.q.SortBy = field
	p.trigger()
}

// ToggleSortDir flips ASC to DESC and back. The current page is preserved.
func (p *PagedQuery[T]) ToggleSortDir() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.q.SortDir == "ASC" {
		p.q.SortDir = "DESC"
	} else {
		p.q.SortDir = "ASC"
	}
	p.trigger()
}

// SetPageSize changes the page size and resets to the first page.
func (p *PagedQuery[T]) SetPageSize(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n <= 0 || n == p.q.Size {
		return
	}
	p.q.Size = n
	p.q.Page = 0
	p.trigger()
}

// SetSearch records a keystroke of the search input. The query only commits
// (and fetches, with page reset to 0) after the input has been idle for the
// debounce window; every new keystroke restarts the single pending timer.
func (p *PagedQuery[T]) SetSearch(raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opts.SearchFetch == nil || p.closed {
		return
	}
	p.raw = raw
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.opts.Debounce, p.commitSearch)
}

func (p *PagedQuery[T]) commitSearch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.raw == p.q.Search {
		return
	}
	p.q.Search = p.raw
	p.q.Page = 0
	p.trigger()
}

// Snapshot returns the current renderable state.
func (p *PagedQuery[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot[T]{
		Items:         p.items,
		Page:          p.q.Page,
		Size:          p.q.Size,
		SortBy:        p.q.SortBy,
		SortDir:       p.q.SortDir,
		Search:        p.raw,
		TotalElements: p.total,
		TotalPages:    p.pages,
		FirstPage:     p.first,
		LastPage:      p.last,
		Loading:       p.loading,
		Loaded:        p.loaded,
		Error:         p.errMsg,
	}
}

// WaitIdle blocks until no fetch is in flight, or the wait budget runs out.
// It reports whether the controller went idle. Pending debounce timers do not
// count as in flight.
func (p *PagedQuery[T]) WaitIdle(d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		p.mu.Lock()
		busy := p.loading
		p.mu.Unlock()
		if !busy {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// Close cancels the pending debounce timer and detaches in-flight fetches so
// they can no longer touch this state.
func (p *PagedQuery[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.cancel()
}

// trigger starts one fetch for the current parameters. Caller holds p.mu.
// Each trigger takes a fresh sequence number; only the fetch holding the
// latest number may apply its result, so a slow response for superseded
// parameters can never regress the view.
func (p *PagedQuery[T]) trigger() {
	if p.closed {
		return
	}
	p.seq++
	seq := p.seq
	p.loading = true
	p.errMsg = ""

	q := p.q
	fetch := p.opts.Fetch
	if q.Search != "" && p.opts.SearchFetch != nil {
		fetch = p.opts.SearchFetch
	}
	ctx := p.ctx

	go func() {
		page, err := fetch(ctx, q)

		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed || seq != p.seq {
			return
		}
		p.loading = false
		if err != nil {
			log.Printf("[View] %s fetch failed: %v", p.opts.Name, err)
			p.errMsg = fmt.Sprintf("Failed to load %s. Please try again later.", p.opts.Name)
			return
		}
		p.items = page.Content
		p.total = page.TotalElements
		p.pages = page.TotalPages
		p.first = page.FirstPage
		p.last = page.LastPage
		p.loaded = true
	}()
}
