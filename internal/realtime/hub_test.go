package realtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"farmferia/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []*service.ChangeEvent
}

func (p *capturingPublisher) PublishChangeEvent(_ context.Context, event *service.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.events)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHub_DeliversToMatchingSubscribers(t *testing.T) {
	hub := newHub(discardLogger(), nil)
	defer hub.Close()

	var mu sync.Mutex
	var profiles, all []service.ChangeEvent

	hub.Subscribe("profiles", func(e service.ChangeEvent) {
		mu.Lock()
		profiles = append(profiles, e)
		mu.Unlock()
	})
	hub.Subscribe("", func(e service.ChangeEvent) {
		mu.Lock()
		all = append(all, e)
		mu.Unlock()
	})

	hub.Publish(service.ChangeEvent{Table: "profiles", Op: service.ChangeInsert, RecordID: "p1"})
	hub.Publish(service.ChangeEvent{Table: "orders", Op: service.ChangeInsert, RecordID: "o1"})

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(all) == 2
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, profiles, 1)
	assert.Equal(t, "p1", profiles[0].RecordID)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := newHub(discardLogger(), nil)
	defer hub.Close()

	var mu sync.Mutex
	var got int

	unsubscribe := hub.Subscribe("orders", func(service.ChangeEvent) {
		mu.Lock()
		got++
		mu.Unlock()
	})

	hub.Publish(service.ChangeEvent{Table: "orders", RecordID: "o1"})
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return got == 1
	})

	unsubscribe()
	hub.Publish(service.ChangeEvent{Table: "orders", RecordID: "o2"})

	// Give the worker a beat to prove nothing else arrives.
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, got)
}

func TestHub_MirrorsToPublisher(t *testing.T) {
	pub := &capturingPublisher{}
	hub := newHub(discardLogger(), pub)
	defer hub.Close()

	hub.Publish(service.ChangeEvent{Table: "orders", Op: service.ChangeInsert, RecordID: "o1"})

	waitFor(t, func() bool { return pub.count() == 1 })
}

func TestHub_PublishAfterCloseDoesNotBlock(t *testing.T) {
	hub := newHub(discardLogger(), nil)
	hub.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < queueDepth*2; i++ {
			hub.Publish(service.ChangeEvent{Table: "orders"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked after close")
	}
}
