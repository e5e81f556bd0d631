package repository

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/skyproperties/sky-backend/internal/audit"
	"github.com/skyproperties/sky-backend/internal/events"
	"github.com/skyproperties/sky-backend/internal/gateway"
	"github.com/skyproperties/sky-backend/internal/gateway/redisstore"
)

type recordingAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *recordingAuditor) Record(_ context.Context, e *audit.Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, *e)
	return nil
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Collection+":"+e.Action)
	}
	return out
}

type fixture struct {
	deps    *Deps
	store   *redisstore.Store
	auditor *recordingAuditor
	events  []events.Event
}

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.New(client, "test", "http://localhost:8080")
	bus := events.NewLocalBus()

	f := &fixture{store: store, auditor: &recordingAuditor{}}
	bus.Subscribe("", func(ev events.Event) { f.events = append(f.events, ev) })

	f.deps = &Deps{
		Docs:  store,
		Blobs: store,
		Bus:   bus,
		Audit: f.auditor,
		Now:   func() time.Time { return fixedNow },
	}
	return f
}

type failingBlobs struct{}

func (failingBlobs) UploadBlob(context.Context, string, io.Reader, string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingBlobs) ListBlobs(context.Context, string) ([]gateway.BlobInfo, error) {
	return nil, nil
}

func (failingBlobs) DeleteBlob(context.Context, string) error {
	return nil
}

func ptr[T any](v T) *T { return &v }
