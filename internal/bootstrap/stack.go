package bootstrap

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/skyproperties/sky-backend/config"
	"github.com/skyproperties/sky-backend/internal/audit"
	"github.com/skyproperties/sky-backend/internal/auth"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/events"
	"github.com/skyproperties/sky-backend/internal/gateway"
	"github.com/skyproperties/sky-backend/internal/gateway/firebasestore"
	"github.com/skyproperties/sky-backend/internal/gateway/redisstore"
	"github.com/skyproperties/sky-backend/internal/gateway/s3blob"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/logging"
)

// Stack is every backing service the API and the CLI share.
type Stack struct {
	Gateway  *gateway.Gateway
	Metrics  *gateway.Metrics
	Provider identity.Provider
	Bus      events.Bus
	Audit    *audit.Store
	Deps     *repository.Deps

	// RedisBlobs is set when blobs live in Redis and the API must serve them.
	RedisBlobs *redisstore.Store

	redis   *redis.Client
	closers []func() error
}

// Build connects to the backends selected in cfg. Close releases them.
func Build(ctx context.Context, cfg *config.Config) (*Stack, error) {
	s := &Stack{}
	if err := s.build(ctx, cfg); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Stack) build(ctx context.Context, cfg *config.Config) error {
	log := logging.Op(ctx, "bootstrap")

	var app *firebase.App
	if cfg.NeedsFirebase() {
		var err error
		if app, err = auth.InitializeApp(ctx, &cfg.Firebase); err != nil {
			return err
		}
	}

	if cfg.NeedsRedis() {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		s.closers = append(s.closers, s.redis.Close)
		if err := s.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}

	raw := &gateway.Gateway{}
	var rs *redisstore.Store
	if s.redis != nil {
		rs = redisstore.New(s.redis, cfg.Redis.Prefix, cfg.Server.PublicBaseURL)
	}

	switch cfg.Store.Blobs {
	case config.BackendFirebase:
		blobs, err := firebasestore.NewBlobs(ctx, app, cfg.Firebase.StorageBucket)
		if err != nil {
			return err
		}
		raw.Blobs = blobs
	case config.BackendRedis:
		raw.Blobs = rs
		s.RedisBlobs = rs
	case config.BackendS3:
		blobs, err := s3blob.New(ctx, cfg.S3.Bucket, cfg.S3.Region)
		if err != nil {
			return err
		}
		raw.Blobs = blobs
	}

	switch cfg.Store.Documents {
	case config.BackendFirebase:
		docs, err := firebasestore.NewDocuments(ctx, app)
		if err != nil {
			return err
		}
		raw.Docs = docs
	case config.BackendRedis:
		raw.Docs = rs
	}

	s.Gateway, s.Metrics = gateway.Instrument(raw, cfg.Store.Timeout)
	s.closers = append(s.closers, s.Gateway.Close)

	switch cfg.Store.EventBus {
	case config.BackendRedis:
		bus, err := events.NewRedisBus(ctx, s.redis, cfg.Redis.Prefix)
		if err != nil {
			return err
		}
		s.Bus = bus
	default:
		s.Bus = events.NewLocalBus()
	}
	s.closers = append(s.closers, s.Bus.Close)

	switch cfg.Auth.Provider {
	case config.BackendFirebase:
		p, err := identity.NewFirebaseProvider(ctx, app, cfg.Firebase.WebAPIKey)
		if err != nil {
			return err
		}
		s.Provider = p
	default:
		log.Warn("using the in-memory identity provider; accounts do not survive a restart")
		s.Provider = identity.NewLocalProvider()
	}

	store, closeDB, err := OpenAudit(ctx, &cfg.Audit, DBOptions{Migrate: true})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, closeDB)
	s.Audit = store

	s.Deps = &repository.Deps{
		Docs:  s.Gateway.Docs,
		Blobs: s.Gateway.Blobs,
		Bus:   s.Bus,
	}
	if store != nil {
		s.Deps.Audit = store
	}

	log.WithField("documents", cfg.Store.Documents).
		WithField("blobs", cfg.Store.Blobs).
		WithField("bus", cfg.Store.EventBus).
		WithField("auth", cfg.Auth.Provider).
		WithField("audit", cfg.Audit.Enabled()).
		Info("backends ready")
	return nil
}

// PingStore checks the document store with a read of the settings document.
func (s *Stack) PingStore(ctx context.Context) error {
	_, err := s.Gateway.Docs.GetOne(ctx, domain.CollectionSettings, domain.SettingsDocID)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Stack) PingRedis(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Ping(ctx).Err()
}

// Close releases the backends in reverse order of acquisition.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
