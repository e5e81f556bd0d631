// Package firebasestore implements the gateway against Cloud Firestore and
// Firebase Storage through the Firebase Admin SDK.
package firebasestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/skyproperties/sky-backend/internal/gateway"
)

const downloadTokenKey = "firebaseStorageDownloadTokens"

// Documents implements gateway.DocumentStore on Firestore.
type Documents struct {
	client *firestore.Client
}

// NewDocuments opens a Firestore client from an initialized Firebase app.
func NewDocuments(ctx context.Context, app *firebase.App) (*Documents, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Firestore client: %w", err)
	}
	return &Documents{client: client}, nil
}

func (d *Documents) GetAll(ctx context.Context, collection string) ([]gateway.Document, error) {
	snaps, err := d.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	return toDocuments(snaps), nil
}

func (d *Documents) GetOne(ctx context.Context, collection, id string) (gateway.Document, error) {
	snap, err := d.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return gateway.Document{}, gateway.ErrNotFound
	}
	if err != nil {
		return gateway.Document{}, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return gateway.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (d *Documents) Where(ctx context.Context, collection, field string, value any) ([]gateway.Document, error) {
	snaps, err := d.client.Collection(collection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", collection, field, err)
	}
	return toDocuments(snaps), nil
}

func (d *Documents) SetOrMerge(ctx context.Context, collection, id string, data map[string]any) error {
	if _, err := d.client.Collection(collection).Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (d *Documents) DeleteOne(ctx context.Context, collection, id string) error {
	if _, err := d.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (d *Documents) Close() error {
	return d.client.Close()
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []gateway.Document {
	docs := make([]gateway.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, gateway.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs
}

// Blobs implements gateway.BlobStore on the project's Firebase Storage bucket.
type Blobs struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewBlobs(ctx context.Context, app *firebase.App, bucketName string) (*Blobs, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Storage client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucketName, err)
	}
	return &Blobs{bucket: bucket, bucketName: bucketName}, nil
}

// UploadBlob writes the object with a download token, so the returned URL
// resolves the same way a web-SDK download URL does.
func (b *Blobs) UploadBlob(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	token := uuid.NewString()

	w := b.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokenKey: token}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", path, err)
	}

	return DownloadURL(b.bucketName, path, token), nil
}

func (b *Blobs) ListBlobs(ctx context.Context, prefix string) ([]gateway.BlobInfo, error) {
	it := b.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	out := make([]gateway.BlobInfo, 0)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs under %s: %w", prefix, err)
		}
		out = append(out, gateway.BlobInfo{Path: attrs.Name, Size: attrs.Size, Created: attrs.Created})
	}
	return out, nil
}

func (b *Blobs) DeleteBlob(ctx context.Context, path string) error {
	err := b.bucket.Object(path).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return gateway.ErrBlobNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	return nil
}

// DownloadURL builds a token-authorized Firebase Storage download URL.
func DownloadURL(bucket, path, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(path), url.QueryEscape(token),
	)
}
