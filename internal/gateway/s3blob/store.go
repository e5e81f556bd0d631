// Package s3blob stores uploaded files in an S3 bucket.
package s3blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/skyproperties/sky-backend/internal/gateway"
)

// ObjectAPI is the subset of the S3 client the store uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type Store struct {
	api    ObjectAPI
	bucket string
	region string
}

// New loads the default AWS credential chain for region and returns a store
// writing to bucket.
func New(ctx context.Context, bucket, region string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, region), nil
}

func NewWithClient(api ObjectAPI, bucket, region string) *Store {
	return &Store{api: api, bucket: bucket, region: region}
}

func (s *Store) UploadBlob(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	// PutObject needs a seekable body to sign the payload.
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload %s: %w", path, err)
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return s.URL(path), nil
}

func (s *Store) ListBlobs(ctx context.Context, prefix string) ([]gateway.BlobInfo, error) {
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	out := make([]gateway.BlobInfo, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs under %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			out = append(out, gateway.BlobInfo{
				Path:    aws.ToString(obj.Key),
				Size:    aws.ToInt64(obj.Size),
				Created: aws.ToTime(obj.LastModified),
			})
		}
	}
	return out, nil
}

// DeleteBlob removes the object. S3 deletes succeed for missing keys, so the
// object is looked up first to report gateway.ErrBlobNotFound.
func (s *Store) DeleteBlob(ctx context.Context, path string) error {
	_, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return gateway.ErrBlobNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to stat blob %s: %w", path, err)
	}

	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	return nil
}

// URL is the virtual-hosted-style public URL of the object.
func (s *Store) URL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, strings.Join(segments, "/"))
}
