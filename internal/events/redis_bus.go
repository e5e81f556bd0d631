package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/skyproperties/sky-backend/internal/logging"
)

// RedisBus shares invalidations between processes over Redis Pub/Sub. Each
// collection has its own channel; local subscribers are served by one
// pattern subscription.
type RedisBus struct {
	client *redis.Client
	prefix string
	local  *LocalBus
	pubsub *redis.PubSub
	done   chan struct{}
}

func NewRedisBus(ctx context.Context, client *redis.Client, prefix string) (*RedisBus, error) {
	b := &RedisBus{
		client: client,
		prefix: prefix,
		local:  NewLocalBus(),
		done:   make(chan struct{}),
	}

	b.pubsub = client.PSubscribe(ctx, b.channel("*"))
	if _, err := b.pubsub.Receive(ctx); err != nil {
		_ = b.pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to invalidations: %w", err)
	}

	go b.loop()
	return b, nil
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel(ev.Collection), data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", ev.Collection, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(collection string, fn Handler) func() {
	return b.local.Subscribe(collection, fn)
}

func (b *RedisBus) Close() error {
	err := b.pubsub.Close()
	<-b.done
	_ = b.local.Close()
	return err
}

func (b *RedisBus) loop() {
	defer close(b.done)

	for msg := range b.pubsub.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			logging.Logger.WithError(err).WithField("channel", msg.Channel).Warn("dropping malformed invalidation")
			continue
		}
		if ev.Collection == "" {
			ev.Collection = strings.TrimPrefix(msg.Channel, b.channel(""))
		}
		b.local.dispatch(ev)
	}
}

func (b *RedisBus) channel(collection string) string {
	return b.prefix + ":events:" + collection
}
