package gateway

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skyproperties/sky-backend/internal/logging"
)

// Instrumented wraps a Gateway with counters, per-call timeouts and debug logs.
type Instrumented struct {
	docs    DocumentStore
	blobs   BlobStore
	timeout time.Duration
	Metrics *Metrics
}

// Instrument decorates g. A zero timeout leaves deadlines to the caller.
func Instrument(g *Gateway, timeout time.Duration) (*Gateway, *Metrics) {
	in := &Instrumented{docs: g.Docs, blobs: g.Blobs, timeout: timeout, Metrics: &Metrics{}}
	out := &Gateway{}
	if g.Docs != nil {
		out.Docs = &instrumentedDocs{in}
	}
	if g.Blobs != nil {
		out.Blobs = &instrumentedBlobs{in}
	}
	return out, in.Metrics
}

func (in *Instrumented) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	if in.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, in.timeout)
}

func (in *Instrumented) trace(ctx context.Context, op, target string, started time.Time, err error) {
	entry := logging.Op(ctx, "gateway."+op).WithFields(logrus.Fields{
		"target":     target,
		"latency_ms": time.Since(started).Milliseconds(),
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		entry.WithError(err).Warn("store call failed")
		return
	}
	entry.Debug("store call")
}

type instrumentedDocs struct{ *Instrumented }

func (d *instrumentedDocs) GetAll(ctx context.Context, collection string) ([]Document, error) {
	ctx, cancel := d.begin(ctx)
	defer cancel()
	started := time.Now()
	docs, err := d.docs.GetAll(ctx, collection)
	d.Metrics.record(&d.Metrics.reads, started, err)
	d.trace(ctx, "get_all", collection, started, err)
	return docs, err
}

func (d *instrumentedDocs) GetOne(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := d.begin(ctx)
	defer cancel()
	started := time.Now()
	doc, err := d.docs.GetOne(ctx, collection, id)
	d.Metrics.record(&d.Metrics.reads, started, err)
	d.trace(ctx, "get_one", collection+"/"+id, started, err)
	return doc, err
}

func (d *instrumentedDocs) Where(ctx context.Context, collection, field string, value any) ([]Document, error) {
	ctx, cancel := d.begin(ctx)
	defer cancel()
	started := time.Now()
	docs, err := d.docs.Where(ctx, collection, field, value)
	d.Metrics.record(&d.Metrics.reads, started, err)
	d.trace(ctx, "where", collection+"."+field, started, err)
	return docs, err
}

func (d *instrumentedDocs) SetOrMerge(ctx context.Context, collection, id string, data map[string]any) error {
	ctx, cancel := d.begin(ctx)
	defer cancel()
	started := time.Now()
	err := d.docs.SetOrMerge(ctx, collection, id, data)
	d.Metrics.record(&d.Metrics.writes, started, err)
	d.trace(ctx, "set_or_merge", collection+"/"+id, started, err)
	return err
}

func (d *instrumentedDocs) DeleteOne(ctx context.Context, collection, id string) error {
	ctx, cancel := d.begin(ctx)
	defer cancel()
	started := time.Now()
	err := d.docs.DeleteOne(ctx, collection, id)
	d.Metrics.record(&d.Metrics.writes, started, err)
	d.trace(ctx, "delete_one", collection+"/"+id, started, err)
	return err
}

func (d *instrumentedDocs) Close() error {
	return d.docs.Close()
}

type instrumentedBlobs struct{ *Instrumented }

func (b *instrumentedBlobs) UploadBlob(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	ctx, cancel := b.begin(ctx)
	defer cancel()
	started := time.Now()
	url, err := b.blobs.UploadBlob(ctx, path, r, contentType)
	b.Metrics.record(&b.Metrics.uploads, started, err)
	b.trace(ctx, "upload_blob", path, started, err)
	return url, err
}

func (b *instrumentedBlobs) ListBlobs(ctx context.Context, prefix string) ([]BlobInfo, error) {
	ctx, cancel := b.begin(ctx)
	defer cancel()
	started := time.Now()
	blobs, err := b.blobs.ListBlobs(ctx, prefix)
	b.Metrics.record(&b.Metrics.reads, started, err)
	b.trace(ctx, "list_blobs", prefix, started, err)
	return blobs, err
}

func (b *instrumentedBlobs) DeleteBlob(ctx context.Context, path string) error {
	ctx, cancel := b.begin(ctx)
	defer cancel()
	started := time.Now()
	err := b.blobs.DeleteBlob(ctx, path)
	b.Metrics.record(&b.Metrics.writes, started, err)
	b.trace(ctx, "delete_blob", path, started, err)
	return err
}
