// Package events carries cache invalidations from repositories to the views
// holding snapshots of a collection.
package events

import (
	"context"
	"sync"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event announces that a document in Collection changed.
type Event struct {
	Collection string `json:"collection"`
	Op         Op     `json:"op"`
	ID         string `json:"id"`
}

type Handler func(Event)

// Bus publishes invalidations and fans them out to subscribers.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	// Subscribe registers fn for events on collection and returns a func
	// removing the subscription. An empty collection receives every event.
	Subscribe(collection string, fn Handler) (unsubscribe func())
	Close() error
}

// LocalBus delivers events synchronously within the process.
type LocalBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	collection string
	fn         Handler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[int]subscription)}
}

func (b *LocalBus) Publish(_ context.Context, ev Event) error {
	b.dispatch(ev)
	return nil
}

func (b *LocalBus) Subscribe(collection string, fn Handler) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = subscription{collection: collection, fn: fn}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.subs = make(map[int]subscription)
	b.mu.Unlock()
	return nil
}

func (b *LocalBus) dispatch(ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.collection == "" || s.collection == ev.Collection {
			handlers = append(handlers, s.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
