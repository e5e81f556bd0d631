// Package repository reads and writes the stored entities through the
// gateway. Writes are validated, stamped, published as invalidations and
// recorded in the audit log.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skyproperties/sky-backend/internal/audit"
	"github.com/skyproperties/sky-backend/internal/events"
	"github.com/skyproperties/sky-backend/internal/gateway"
	"github.com/skyproperties/sky-backend/internal/logging"
)

// Auditor records a completed write.
type Auditor interface {
	Record(ctx context.Context, e *audit.Entry) error
}

// Deps are shared by every repository. Bus and Audit are optional.
type Deps struct {
	Docs  gateway.DocumentStore
	Blobs gateway.BlobStore
	Bus   events.Bus
	Audit Auditor
	Now   func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now().UTC()
	}
	return time.Now().UTC()
}

// stamp is the current time in the stored timestamp format.
func (d *Deps) stamp() string {
	return d.now().Format(time.RFC3339Nano)
}

// collection is the typed CRUD core each entity repository builds on.
type collection[T any] struct {
	name string
	deps *Deps
}

func (c *collection[T]) log(ctx context.Context, op string) *logrus.Entry {
	return logging.Op(ctx, "repository."+c.name+"."+op)
}

func (c *collection[T]) list(ctx context.Context) ([]T, error) {
	docs, err := c.deps.Docs.GetAll(ctx, c.name)
	if err != nil {
		c.log(ctx, "list").WithError(err).Error("store read failed")
		return nil, err
	}
	return c.decodeAll(ctx, docs)
}

func (c *collection[T]) where(ctx context.Context, field string, value any) ([]T, error) {
	docs, err := c.deps.Docs.Where(ctx, c.name, field, value)
	if err != nil {
		c.log(ctx, "where").WithError(err).WithField("field", field).Error("store read failed")
		return nil, err
	}
	return c.decodeAll(ctx, docs)
}

func (c *collection[T]) decodeAll(ctx context.Context, docs []gateway.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := decode(doc, &v); err != nil {
			c.log(ctx, "decode").WithError(err).Error("skipping undecodable document")
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *collection[T]) get(ctx context.Context, id string) (T, error) {
	var v T
	doc, err := c.deps.Docs.GetOne(ctx, c.name, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return v, ErrNotFound
	}
	if err != nil {
		c.log(ctx, "get").WithError(err).WithField("id", id).Error("store read failed")
		return v, err
	}
	if err := decode(doc, &v); err != nil {
		return v, err
	}
	return v, nil
}

func (c *collection[T]) exists(ctx context.Context, id string) error {
	_, err := c.deps.Docs.GetOne(ctx, c.name, id)
	if errors.Is(err, gateway.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		c.log(ctx, "get").WithError(err).WithField("id", id).Error("store read failed")
	}
	return err
}

// create writes a new document.
func (c *collection[T]) create(ctx context.Context, id string, data map[string]any) error {
	if err := c.deps.Docs.SetOrMerge(ctx, c.name, id, data); err != nil {
		c.log(ctx, "create").WithError(err).WithField("id", id).Error("store write failed")
		return err
	}
	c.written(ctx, events.OpCreate, id, data)
	return nil
}

// merge updates the given fields of an existing document.
func (c *collection[T]) merge(ctx context.Context, id string, patch map[string]any) error {
	if err := c.exists(ctx, id); err != nil {
		return err
	}
	if err := c.deps.Docs.SetOrMerge(ctx, c.name, id, patch); err != nil {
		c.log(ctx, "update").WithError(err).WithField("id", id).Error("store write failed")
		return err
	}
	c.written(ctx, events.OpUpdate, id, patch)
	return nil
}

func (c *collection[T]) remove(ctx context.Context, id string) error {
	if err := c.exists(ctx, id); err != nil {
		return err
	}
	if err := c.deps.Docs.DeleteOne(ctx, c.name, id); err != nil {
		c.log(ctx, "delete").WithError(err).WithField("id", id).Error("store write failed")
		return err
	}
	c.written(ctx, events.OpDelete, id, nil)
	return nil
}

// written publishes the invalidation and records the audit entry. Neither
// failure undoes the write; both are logged.
func (c *collection[T]) written(ctx context.Context, op events.Op, id string, changes map[string]any) {
	entry := c.log(ctx, string(op)).WithField("id", id)

	if c.deps.Bus != nil {
		if err := c.deps.Bus.Publish(ctx, events.Event{Collection: c.name, Op: op, ID: id}); err != nil {
			entry.WithError(err).Warn("failed to publish invalidation")
		}
	}

	if c.deps.Audit != nil {
		rec := &audit.Entry{Collection: c.name, DocumentID: id, Action: string(op), Changes: changes}
		if err := c.deps.Audit.Record(ctx, rec); err != nil {
			entry.WithError(err).Warn("failed to record audit entry")
		}
	}

	entry.Debug("document written")
}
