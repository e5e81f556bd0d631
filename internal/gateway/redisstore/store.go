// Package redisstore keeps documents and blobs in Redis. It backs local
// development and tests; production uses firebasestore.
package redisstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyproperties/sky-backend/internal/gateway"
)

const (
	collectionKeyPrefix = "col:"  // {prefix}:col:{collection} -> hash id => JSON
	blobKeyPrefix       = "blob:" // {prefix}:blob:{path} -> raw bytes
	blobIndexKey        = "blobs" // {prefix}:blobs -> hash path => JSON blobMeta
	maxMergeAttempts    = 5
)

// Store implements gateway.DocumentStore and gateway.BlobStore.
type Store struct {
	client  *redis.Client
	prefix  string
	baseURL string
}

type blobMeta struct {
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Created     time.Time `json:"created"`
}

// New returns a Store. baseURL is where the API serves /blobs/*path.
func New(client *redis.Client, prefix, baseURL string) *Store {
	if prefix == "" {
		prefix = "sky"
	}
	return &Store{
		client:  client,
		prefix:  prefix,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Store) GetAll(ctx context.Context, collection string) ([]gateway.Document, error) {
	raw, err := s.client.HGetAll(ctx, s.collectionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}

	docs := make([]gateway.Document, 0, len(raw))
	for id, payload := range raw {
		data, err := decode(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, gateway.Document{ID: id, Data: data})
	}
	return docs, nil
}

func (s *Store) GetOne(ctx context.Context, collection, id string) (gateway.Document, error) {
	payload, err := s.client.HGet(ctx, s.collectionKey(collection), id).Result()
	if err == redis.Nil {
		return gateway.Document{}, gateway.ErrNotFound
	}
	if err != nil {
		return gateway.Document{}, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}

	data, err := decode(payload)
	if err != nil {
		return gateway.Document{}, fmt.Errorf("failed to decode %s/%s: %w", collection, id, err)
	}
	return gateway.Document{ID: id, Data: data}, nil
}

// Where scans the whole collection; Redis hashes have no secondary index.
func (s *Store) Where(ctx context.Context, collection, field string, value any) ([]gateway.Document, error) {
	all, err := s.GetAll(ctx, collection)
	if err != nil {
		return nil, err
	}

	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter value: %w", err)
	}

	out := make([]gateway.Document, 0)
	for _, doc := range all {
		got, ok := doc.Data[field]
		if !ok {
			continue
		}
		gotRaw, err := json.Marshal(got)
		if err != nil {
			continue
		}
		if bytes.Equal(gotRaw, want) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (s *Store) SetOrMerge(ctx context.Context, collection, id string, data map[string]any) error {
	key := s.collectionKey(collection)

	txf := func(tx *redis.Tx) error {
		current := map[string]any{}
		payload, err := tx.HGet(ctx, key, id).Result()
		switch {
		case err == redis.Nil:
		case err != nil:
			return err
		default:
			if current, err = decode(payload); err != nil {
				return err
			}
		}

		for k, v := range data {
			current[k] = v
		}

		merged, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, id, merged)
			return nil
		})
		return err
	}

	for i := 0; i < maxMergeAttempts; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to write %s/%s: %w", collection, id, err)
		}
		return nil
	}
	return fmt.Errorf("failed to write %s/%s: too much contention", collection, id)
}

func (s *Store) DeleteOne(ctx context.Context, collection, id string) error {
	if err := s.client.HDel(ctx, s.collectionKey(collection), id).Err(); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) UploadBlob(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	meta, err := json.Marshal(blobMeta{
		Size:        int64(len(body)),
		ContentType: contentType,
		Created:     time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal blob meta: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.blobKey(path), body, 0)
	pipe.HSet(ctx, s.key(blobIndexKey), path, meta)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to store blob %s: %w", path, err)
	}

	return s.URL(path), nil
}

func (s *Store) ListBlobs(ctx context.Context, prefix string) ([]gateway.BlobInfo, error) {
	raw, err := s.client.HGetAll(ctx, s.key(blobIndexKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	out := make([]gateway.BlobInfo, 0)
	for path, payload := range raw {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		var meta blobMeta
		if err := json.Unmarshal([]byte(payload), &meta); err != nil {
			continue
		}
		out = append(out, gateway.BlobInfo{Path: path, Size: meta.Size, Created: meta.Created})
	}
	return out, nil
}

func (s *Store) DeleteBlob(ctx context.Context, path string) error {
	pipe := s.client.TxPipeline()
	deleted := pipe.Del(ctx, s.blobKey(path))
	pipe.HDel(ctx, s.key(blobIndexKey), path)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	if deleted.Val() == 0 {
		return gateway.ErrBlobNotFound
	}
	return nil
}

// ReadBlob returns the bytes and content type stored at path.
func (s *Store) ReadBlob(ctx context.Context, path string) ([]byte, string, error) {
	body, err := s.client.Get(ctx, s.blobKey(path)).Bytes()
	if err == redis.Nil {
		return nil, "", gateway.ErrBlobNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read blob %s: %w", path, err)
	}

	contentType := "application/octet-stream"
	if payload, err := s.client.HGet(ctx, s.key(blobIndexKey), path).Result(); err == nil {
		var meta blobMeta
		if json.Unmarshal([]byte(payload), &meta) == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}
	return body, contentType, nil
}

// URL is the public address of a blob served by the API.
func (s *Store) URL(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/blobs/" + strings.Join(segments, "/")
}

// Close is a no-op; the client is owned by the caller.
func (s *Store) Close() error {
	return nil
}

func (s *Store) key(suffix string) string {
	return fmt.Sprintf("%s:%s", s.prefix, suffix)
}

func (s *Store) collectionKey(collection string) string {
	return s.key(collectionKeyPrefix + collection)
}

func (s *Store) blobKey(path string) string {
	return s.key(blobKeyPrefix + path)
}

func decode(payload string) (map[string]any, error) {
	data := map[string]any{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, err
	}
	return data, nil
}
