package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus(t *testing.T) {
	bus := NewLocalBus()
	ctx := context.Background()

	var units, all []Event
	stopUnits := bus.Subscribe("units", func(ev Event) { units = append(units, ev) })
	stopAll := bus.Subscribe("", func(ev Event) { all = append(all, ev) })
	defer stopAll()

	require.NoError(t, bus.Publish(ctx, Event{Collection: "units", Op: OpCreate, ID: "u1"}))
	require.NoError(t, bus.Publish(ctx, Event{Collection: "tickets", Op: OpUpdate, ID: "t1"}))

	assert.Equal(t, []Event{{Collection: "units", Op: OpCreate, ID: "u1"}}, units)
	assert.Len(t, all, 2)

	stopUnits()
	stopUnits()
	require.NoError(t, bus.Publish(ctx, Event{Collection: "units", Op: OpDelete, ID: "u1"}))
	assert.Len(t, units, 1)
	assert.Len(t, all, 3)
}

func TestRedisBus(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	bus, err := NewRedisBus(ctx, client, "test")
	require.NoError(t, err)
	defer bus.Close()

	var (
		mu  sync.Mutex
		got []Event
	)
	bus.Subscribe("properties", func(ev Event) {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
	})

	require.NoError(t, bus.Publish(ctx, Event{Collection: "properties", Op: OpUpdate, ID: "p1"}))
	require.NoError(t, bus.Publish(ctx, Event{Collection: "units", Op: OpUpdate, ID: "u1"}))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, Event{Collection: "properties", Op: OpUpdate, ID: "p1"}, got[0])
	mu.Unlock()
}
