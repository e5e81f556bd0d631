// Package gateway is the typed boundary to the hosted document store and
// blob store. Every call is a single round trip: no retry, no batching.
package gateway

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrBlobNotFound = errors.New("blob not found")
)

// Document is one stored document. Data never contains the id.
type Document struct {
	ID   string
	Data map[string]any
}

// BlobInfo describes a stored blob.
type BlobInfo struct {
	Path    string
	Size    int64
	Created time.Time
}

type DocumentStore interface {
	GetAll(ctx context.Context, collection string) ([]Document, error)
	GetOne(ctx context.Context, collection, id string) (Document, error)
	// Where returns the documents whose field equals value.
	Where(ctx context.Context, collection, field string, value any) ([]Document, error)
	// SetOrMerge creates the document or merges data into it, field by field.
	SetOrMerge(ctx context.Context, collection, id string, data map[string]any) error
	DeleteOne(ctx context.Context, collection, id string) error
	Close() error
}

type BlobStore interface {
	// UploadBlob stores the bytes at path and returns a resolvable URL.
	UploadBlob(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	ListBlobs(ctx context.Context, prefix string) ([]BlobInfo, error)
	// DeleteBlob returns ErrBlobNotFound when nothing is stored at path.
	DeleteBlob(ctx context.Context, path string) error
}

// Gateway bundles both stores.
type Gateway struct {
	Docs  DocumentStore
	Blobs BlobStore
}

// Close releases the document store.
func (g *Gateway) Close() error {
	if g == nil || g.Docs == nil {
		return nil
	}
	return g.Docs.Close()
}

// Clone returns a shallow copy of data, so callers can keep mutating theirs.
func Clone(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
