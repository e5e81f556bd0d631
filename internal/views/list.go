// Package views holds the per-screen state of the management client: a
// snapshot of a collection, the search term over it and an edit draft.
package views

import (
	"context"
	"errors"
	"sync"

	"github.com/skyproperties/sky-backend/internal/events"
	"github.com/skyproperties/sky-backend/internal/logging"
	"github.com/skyproperties/sky-backend/internal/search"
)

var ErrNotMounted = errors.New("view is not mounted")

// Fetcher loads a whole collection.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// List caches one collection for a screen. It fetches once on Mount, keeps
// the filtered copy in step with the search term, and refetches on the next
// read after an invalidation for its collection.
type List[T any] struct {
	collection string
	fetch      Fetcher[T]
	fields     func(T) []string
	bus        events.Bus

	mu          sync.RWMutex
	mounted     bool
	loaded      bool
	stale       bool
	all         []T
	filtered    []T
	term        string
	gen         uint64
	invalidated uint64
	cancel      context.CancelFunc
	unsubscribe func()
}

// NewList creates a list over collection. fields picks the searchable text
// of an item. bus may be nil.
func NewList[T any](collection string, fetch Fetcher[T], fields func(T) []string, bus events.Bus) *List[T] {
	return &List[T]{collection: collection, fetch: fetch, fields: fields, bus: bus}
}

// Mount performs the initial fetch. Mounting an already mounted list is a
// no-op.
func (l *List[T]) Mount(ctx context.Context) error {
	l.mu.Lock()
	if l.mounted {
		l.mu.Unlock()
		return nil
	}
	l.mounted = true
	if l.bus != nil {
		l.unsubscribe = l.bus.Subscribe(l.collection, func(events.Event) { l.markStale() })
	}
	l.mu.Unlock()

	return l.load(ctx)
}

// Unmount cancels any in-flight fetch, stops following invalidations and
// drops the snapshot.
func (l *List[T]) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
	l.gen++
	l.mounted, l.loaded, l.stale = false, false, false
	l.all, l.filtered = nil, nil
}

// Refresh refetches the collection and reapplies the current search term.
func (l *List[T]) Refresh(ctx context.Context) error {
	l.mu.RLock()
	mounted := l.mounted
	l.mu.RUnlock()
	if !mounted {
		return ErrNotMounted
	}
	return l.load(ctx)
}

// Sync refreshes the list after a write if it is mounted. An unmounted
// list has no snapshot to update, so Sync is a no-op for it.
func (l *List[T]) Sync(ctx context.Context) error {
	err := l.Refresh(ctx)
	if errors.Is(err, ErrNotMounted) {
		return nil
	}
	return err
}

// Search recomputes the filtered copy from the full snapshot.
func (l *List[T]) Search(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.term = term
	l.filtered = search.Filter(l.all, term, l.fields)
}

func (l *List[T]) Term() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.term
}

// Filtered returns the items matching the search term, refetching first if
// the snapshot was invalidated.
func (l *List[T]) Filtered(ctx context.Context) ([]T, error) {
	if err := l.revalidate(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.filtered...), nil
}

// Items returns the full snapshot, refetching first if it was invalidated.
func (l *List[T]) Items(ctx context.Context) ([]T, error) {
	if err := l.revalidate(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.all...), nil
}

// Stale reports whether an invalidation arrived since the last fetch.
func (l *List[T]) Stale() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stale
}

func (l *List[T]) markStale() {
	l.mu.Lock()
	if l.mounted {
		l.stale = true
		l.invalidated++
	}
	l.mu.Unlock()
}

func (l *List[T]) revalidate(ctx context.Context) error {
	l.mu.RLock()
	mounted, needed := l.mounted, l.stale || !l.loaded
	l.mu.RUnlock()

	if !mounted {
		return ErrNotMounted
	}
	if !needed {
		return nil
	}
	return l.load(ctx)
}

// load runs one fetch. A newer fetch or an Unmount supersedes it, in which
// case its result is discarded. An invalidation that arrives while the
// fetch is in flight leaves the list stale.
func (l *List[T]) load(ctx context.Context) error {
	fctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen, seen := l.gen, l.invalidated
	l.cancel = cancel
	l.mu.Unlock()

	items, err := l.fetch(fctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	defer cancel()

	if gen != l.gen {
		if err == nil {
			err = context.Canceled
		}
		return err
	}
	l.cancel = nil

	if err != nil {
		logging.Op(ctx, "views."+l.collection+".fetch").WithError(err).Error("fetch failed")
		return err
	}

	l.all = items
	l.filtered = search.Filter(items, l.term, l.fields)
	l.loaded = true
	l.stale = l.invalidated != seen
	return nil
}
