// Package maintenance removes blobs left behind by failed or replaced
// property uploads.
package maintenance

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/gateway"
	"github.com/skyproperties/sky-backend/internal/logging"
)

// DocumentLister reads raw documents. The sweeper reads references from
// the stored maps so a property that no longer decodes still protects
// its blobs.
type DocumentLister interface {
	GetAll(ctx context.Context, collection string) ([]gateway.Document, error)
}

// referenceFields are the property fields that hold blob URLs.
var referenceFields = []string{"modelUrl", "thumbnail"}

// Result counts what one sweep saw and did.
type Result struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Kept    int `json:"kept"`
	Failed  int `json:"failed"`
}

type Sweeper struct {
	docs       DocumentLister
	blobs      gateway.BlobStore
	grace      time.Duration
	now        func() time.Time
}

// NewSweeper deletes unreferenced blobs once they are older than grace.
func NewSweeper(docs DocumentLister, blobs gateway.BlobStore, grace time.Duration) *Sweeper {
	return &Sweeper{docs: docs, blobs: blobs, grace: grace, now: time.Now}
}

// Sweep runs once over the model and thumbnail prefixes. A blob that is
// already gone counts as deleted; other delete failures are counted and
// logged and do not stop the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	log := logging.Op(ctx, "maintenance.sweep")

	props, err := s.docs.GetAll(ctx, domain.CollectionProperties)
	if err != nil {
		return Result{}, err
	}
	refs := referencedPaths(props)
	cutoff := s.now().Add(-s.grace)

	var res Result
	for _, prefix := range []string{repository.ModelPrefix, repository.ThumbnailPrefix} {
		blobs, err := s.blobs.ListBlobs(ctx, prefix)
		if err != nil {
			return res, err
		}
		for _, b := range blobs {
			res.Scanned++
			if referenced(refs, b.Path) || b.Created.After(cutoff) {
				res.Kept++
				continue
			}
			err := s.blobs.DeleteBlob(ctx, b.Path)
			switch {
			case err == nil, errors.Is(err, gateway.ErrBlobNotFound):
				res.Deleted++
			case ctx.Err() != nil:
				return res, ctx.Err()
			default:
				res.Failed++
				log.WithError(err).WithField("path", b.Path).Warn("failed to delete orphaned blob")
			}
		}
	}

	log.WithFields(logrus.Fields{
		"scanned": res.Scanned,
		"deleted": res.Deleted,
		"kept":    res.Kept,
		"failed":  res.Failed,
	}).Info("sweep finished")
	return res, nil
}

// referencedPaths collects the decoded URL paths of every model and
// thumbnail. Every backend ends its URL path with the blob path.
func referencedPaths(props []gateway.Document) []string {
	var out []string
	for _, p := range props {
		for _, field := range referenceFields {
			raw, _ := p.Data[field].(string)
			if raw == "" {
				continue
			}
			u, err := url.Parse(raw)
			if err != nil {
				continue
			}
			out = append(out, u.Path)
		}
	}
	return out
}

func referenced(refs []string, blobPath string) bool {
	for _, r := range refs {
		if strings.HasSuffix(r, "/"+blobPath) {
			return true
		}
	}
	return false
}
