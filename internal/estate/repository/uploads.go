package repository

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/skyproperties/sky-backend/internal/logging"
)

// Blob prefixes for property files.
const (
	ModelPrefix     = "properties/"
	ThumbnailPrefix = "thumbnails/"
)

// Upload is a file submitted with a form.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// BlobPath names an uploaded file: prefix, upload time in unix millis and
// the original base name.
func BlobPath(prefix string, at time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%s%d_%s", prefix, at.UnixMilli(), name)
}

func (d *Deps) upload(ctx context.Context, prefix string, u *Upload) (string, error) {
	if d.Blobs == nil {
		return "", fmt.Errorf("%w: no blob store configured", ErrUpload)
	}

	p := BlobPath(prefix, d.now(), u.Filename)
	contentType := u.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := d.Blobs.UploadBlob(ctx, p, u.Body, contentType)
	if err != nil {
		logging.Op(ctx, "repository.upload").WithError(err).WithField("path", p).Error("upload failed")
		return "", fmt.Errorf("%w: %s: %v", ErrUpload, p, err)
	}
	return url, nil
}
