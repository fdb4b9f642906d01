package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dealerdesk/internal/models"
)

const testWait = 2 * time.Second

func singlePage(items ...string) models.Page[string] {
	return models.Page[string]{
		Content:       items,
		TotalElements: int64(len(items)),
		TotalPages:    1,
		FirstPage:     true,
		LastPage:      true,
	}
}

func multiPage(items []string, total int64, pages int, first, last bool) models.Page[string] {
	return models.Page[string]{
		Content:       items,
		TotalElements: total,
		TotalPages:    pages,
		FirstPage:     first,
		LastPage:      last,
	}
}

func TestLoadPopulatesSnapshot(t *testing.T) {
	var calls int64
	p := NewPagedQuery(context.Background(), Options[string]{
		Name: "dealers",
		Size: 5,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			atomic.AddInt64(&calls, 1)
			return singlePage("a", "b", "c"), nil
		},
	})
	defer p.Close()

	p.Load()
	if !p.WaitIdle(testWait) {
		t.Fatal("query never went idle")
	}

	snap := p.Snapshot()
	if !snap.Loaded || snap.Loading {
		t.Fatalf("expected loaded idle snapshot, got %+v", snap)
	}
	if len(snap.Items) != 3 || snap.TotalElements != 3 {
		t.Fatalf("expected 3 items, got %+v", snap)
	}
	if !snap.FirstPage || !snap.LastPage {
		t.Fatalf("expected single-page flags, got %+v", snap)
	}
	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestDebounceCoalescesKeystrokes(t *testing.T) {
	var calls int64
	var mu sync.Mutex
	var lastSearch string

	p := NewPagedQuery(context.Background(), Options[string]{
		Name:     "modals",
		Size:     15,
		Debounce: 20 * time.Millisecond,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			return singlePage(), nil
		},
		SearchFetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			atomic.AddInt64(&calls, 1)
			mu.Lock()
			lastSearch = q.Search
			mu.Unlock()
			return singlePage("match"), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)

	for _, prefix := range []string{"s", "sa", "sam", "sams", "samsu"} {
		p.SetSearch(prefix)
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	p.WaitIdle(testWait)

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected 5 keystrokes to coalesce into 1 search fetch, got %d", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if lastSearch != "samsu" {
		t.Fatalf("expected committed search %q, got %q", "samsu", lastSearch)
	}
}

func TestSearchTypedThenRestoredDoesNotFetch(t *testing.T) {
	var searches int64
	p := NewPagedQuery(context.Background(), Options[string]{
		Name:     "modals",
		Size:     15,
		Debounce: 20 * time.Millisecond,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			return singlePage("x"), nil
		},
		SearchFetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			atomic.AddInt64(&searches, 1)
			return singlePage(), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)

	// Type and erase within the debounce window: the raw input is back at
	// the committed value when the timer fires, so nothing happens.
	p.SetSearch("s")
	time.Sleep(5 * time.Millisecond)
	p.SetSearch("")

	time.Sleep(60 * time.Millisecond)
	p.WaitIdle(testWait)

	if got := atomic.LoadInt64(&searches); got != 0 {
		t.Fatalf("expected no search fetch after type-then-erase, got %d", got)
	}
}

func TestSearchCommitResetsPage(t *testing.T) {
	var mu sync.Mutex
	var searchPage = -1

	p := NewPagedQuery(context.Background(), Options[string]{
		Name:     "modals",
		Size:     15,
		Debounce: 10 * time.Millisecond,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			return multiPage([]string{"a"}, 40, 3, q.Page == 0, q.Page == 2), nil
		},
		SearchFetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			mu.Lock()
			searchPage = q.Page
			mu.Unlock()
			return singlePage("match"), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)
	p.NextPage()
	p.WaitIdle(testWait)
	if snap := p.Snapshot(); snap.Page != 1 {
		t.Fatalf("expected page 1 before searching, got %d", snap.Page)
	}

	p.SetSearch("led")
	time.Sleep(40 * time.Millisecond)
	p.WaitIdle(testWait)

	mu.Lock()
	defer mu.Unlock()
	if searchPage != 0 {
		t.Fatalf("expected search to fetch page 0, got %d", searchPage)
	}
}

func TestLastFetchWins(t *testing.T) {
	release := make(chan struct{})

	p := NewPagedQuery(context.Background(), Options[string]{
		Name:    "dealers",
		Size:    5,
		SortBy:  "dealerName",
		SortDir: "ASC",
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			if q.SortBy == "dealerName" {
				<-release // first request is slow
				return singlePage("stale"), nil
			}
			return singlePage("fresh"), nil
		},
	})
	defer p.Close()

	p.Load()          // slow fetch, sortBy dealerName
	p.SetSortBy("id") // supersedes it
	if !p.WaitIdle(testWait) {
		t.Fatal("query never went idle")
	}

	snap := p.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0] != "fresh" {
		t.Fatalf("expected fresh result, got %+v", snap.Items)
	}

	// Let the superseded fetch finish; its result must be discarded.
	close(release)
	time.Sleep(20 * time.Millisecond)

	snap = p.Snapshot()
	if snap.Items[0] != "fresh" {
		t.Fatalf("superseded fetch overwrote newer result: %+v", snap.Items)
	}
	if snap.Loading {
		t.Fatal("discarded fetch flipped loading back on")
	}
}

func TestPageGatingOnSinglePage(t *testing.T) {
	var calls int64
	// 3 dealers with page size 5: a single page, both flags set.
	p := NewPagedQuery(context.Background(), Options[string]{
		Name: "dealers",
		Size: 5,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			atomic.AddInt64(&calls, 1)
			return singlePage("a", "b", "c"), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)

	p.NextPage()
	p.PrevPage()
	p.SetPage(5)
	p.SetPage(-1)
	p.WaitIdle(testWait)

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected gated navigation to cause no fetch, got %d fetches", got)
	}
	if snap := p.Snapshot(); snap.Page != 0 {
		t.Fatalf("expected page to stay 0, got %d", snap.Page)
	}
}

func TestNextPrevAcrossPages(t *testing.T) {
	p := NewPagedQuery(context.Background(), Options[string]{
		Name: "dealers",
		Size: 5,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			return multiPage([]string{"row"}, 12, 3, q.Page == 0, q.Page == 2), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)

	p.NextPage()
	p.WaitIdle(testWait)
	if snap := p.Snapshot(); snap.Page != 1 || snap.FirstPage || snap.LastPage {
		t.Fatalf("expected middle page, got %+v", snap)
	}

	p.NextPage()
	p.WaitIdle(testWait)
	if snap := p.Snapshot(); snap.Page != 2 || !snap.LastPage {
		t.Fatalf("expected last page, got %+v", snap)
	}

	// Gated at the edge.
	p.NextPage()
	p.WaitIdle(testWait)
	if snap := p.Snapshot(); snap.Page != 2 {
		t.Fatalf("expected NextPage on last page to be ignored, got page %d", snap.Page)
	}

	p.PrevPage()
	p.WaitIdle(testWait)
	if snap := p.Snapshot(); snap.Page != 1 {
		t.Fatalf("expected page 1 after PrevPage, got %d", snap.Page)
	}
}

func TestToggleSortDirPreservesPage(t *testing.T) {
	p := NewPagedQuery(context.Background(), Options[string]{
		Name:    "modals",
		Size:    15,
		SortDir: "DESC",
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			return multiPage([]string{"row"}, 40, 3, q.Page == 0, q.Page == 2), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)
	p.NextPage()
	p.WaitIdle(testWait)

	p.ToggleSortDir()
	p.WaitIdle(testWait)
	snap := p.Snapshot()
	if snap.SortDir != "ASC" {
		t.Fatalf("expected ASC after toggle, got %q", snap.SortDir)
	}
	if snap.Page != 1 {
		t.Fatalf("expected toggle to preserve page 1, got %d", snap.Page)
	}

	p.ToggleSortDir()
	p.WaitIdle(testWait)
	if snap := p.Snapshot(); snap.SortDir != "DESC" {
		t.Fatalf("expected DESC after double toggle, got %q", snap.SortDir)
	}
}

func TestSetPageSizeResetsToFirstPage(t *testing.T) {
	var mu sync.Mutex
	var lastQuery Query

	p := NewPagedQuery(context.Background(), Options[string]{
		Name: "modals",
		Size: 15,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			mu.Lock()
			lastQuery = q
			mu.Unlock()
			return multiPage([]string{"row"}, 100, 7, q.Page == 0, q.Page == 6), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)
	p.NextPage()
	p.WaitIdle(testWait)

	p.SetPageSize(50)
	p.WaitIdle(testWait)

	mu.Lock()
	defer mu.Unlock()
	if lastQuery.Page != 0 || lastQuery.Size != 50 {
		t.Fatalf("expected fetch for page 0 size 50, got %+v", lastQuery)
	}

	// Same size again is a no-op.
	before := lastQuery
	p.SetPageSize(50)
	p.SetPageSize(0)
	time.Sleep(10 * time.Millisecond)
	if lastQuery != before {
		t.Fatalf("expected no fetch for unchanged or invalid size, got %+v", lastQuery)
	}
}

func TestFetchErrorKeepsStaleItems(t *testing.T) {
	var fail atomic.Bool

	p := NewPagedQuery(context.Background(), Options[string]{
		Name: "dealers",
		Size: 5,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			if fail.Load() {
				return models.Page[string]{}, errors.New("upstream down")
			}
			return singlePage("a", "b"), nil
		},
	})
	defer p.Close()

	p.Load()
	p.WaitIdle(testWait)

	fail.Store(true)
	p.ToggleSortDir()
	p.WaitIdle(testWait)

	snap := p.Snapshot()
	if snap.Error != "Failed to load dealers. Please try again later." {
		t.Fatalf("unexpected error message %q", snap.Error)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("expected stale items to survive the failed fetch, got %+v", snap.Items)
	}
	if !snap.Loaded {
		t.Fatal("expected loaded flag to survive the failed fetch")
	}

	// Recovery clears the error.
	fail.Store(false)
	p.Reload()
	p.WaitIdle(testWait)
	if snap := p.Snapshot(); snap.Error != "" {
		t.Fatalf("expected error cleared after successful refetch, got %q", snap.Error)
	}
}

func TestCloseDropsInFlightResult(t *testing.T) {
	release := make(chan struct{})

	p := NewPagedQuery(context.Background(), Options[string]{
		Name: "dealers",
		Size: 5,
		Fetch: func(ctx context.Context, q Query) (models.Page[string], error) {
			<-release
			return singlePage("late"), nil
		},
	})

	p.Load()
	p.Close()
	close(release)
	time.Sleep(20 * time.Millisecond)

	if snap := p.Snapshot(); len(snap.Items) != 0 {
		t.Fatalf("expected closed query to drop in-flight result, got %+v", snap.Items)
	}
}
