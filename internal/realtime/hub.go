// Package realtime fans committed row changes out to in-process subscribers
// and, when configured, mirrors them onto an external message queue.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"farmferia/internal/domain/service"

	"go.uber.org/fx"
)

type subscriber struct {
	id    uint64
	table string
	fn    func(service.ChangeEvent)
}

// Hub implements service.ChangeFeed. Events are queued and dispatched from a
// single worker goroutine, so publishers never run subscriber callbacks on
// their own stack and never block on a slow consumer.
type Hub struct {
	logger    *slog.Logger
	publisher service.EventPublisher

	mu     sync.Mutex
	nextID uint64
	subs   []subscriber

	queue chan service.ChangeEvent
	done  chan struct{}

	closeOnce sync.Once
}

const queueDepth = 256

// HubParams holds dependencies for the Hub, injected by Fx.
type HubParams struct {
	fx.In

	Lc        fx.Lifecycle
	Logger    *slog.Logger
	Publisher service.EventPublisher
}

// NewHub creates the change feed hub and ties its worker to the Fx lifecycle.
func NewHub(params HubParams) service.ChangeFeed {
	hub := newHub(params.Logger, params.Publisher)

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			hub.Close()

			return nil
		},
	})

	return hub
}

func newHub(logger *slog.Logger, publisher service.EventPublisher) *Hub {
	hub := &Hub{
		logger:    logger,
		publisher: publisher,
		queue:     make(chan service.ChangeEvent, queueDepth),
		done:      make(chan struct{}),
	}
	go hub.run()

	return hub
}

// Publish queues the event for asynchronous delivery. When the queue is full
// the event is dropped with a warning rather than blocking the writer.
func (h *Hub) Publish(event service.ChangeEvent) {
	select {
	case h.queue <- event:
	case <-h.done:
	default:
		h.logger.Warn("change feed queue full, dropping event",
			slog.String("table", event.Table),
			slog.String("record_id", event.RecordID),
		)
	}
}

// Subscribe registers a handler for events on the given table. An empty table
// matches every event.
func (h *Hub) Subscribe(table string, fn func(service.ChangeEvent)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, table: table, fn: fn})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		for i, sub := range h.subs {
			if sub.id == id {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)

				break
			}
		}
	}
}

// Close stops the dispatch worker. Queued events that were not yet dispatched
// are dropped.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

func (h *Hub) run() {
	for {
		select {
		case event := <-h.queue:
			h.dispatch(event)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) dispatch(event service.ChangeEvent) {
	h.mu.Lock()
	targets := make([]subscriber, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.table == "" || sub.table == event.Table {
			targets = append(targets, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range targets {
		sub.fn(event)
	}

	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishChangeEvent(context.Background(), &event); err != nil {
		h.logger.Error("failed to mirror change event to queue",
			slog.String("table", event.Table),
			slog.String("record_id", event.RecordID),
			slog.Any("error", err),
		)
	}
}
