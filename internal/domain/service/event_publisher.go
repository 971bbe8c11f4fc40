package service

import (
	"context"
)

// ChangeOp names the database operation a change event describes.
type ChangeOp string

const (
	ChangeInsert ChangeOp = "INSERT"
	ChangeUpdate ChangeOp = "UPDATE"
	ChangeDelete ChangeOp = "DELETE"
)

// ChangeEvent represents a committed row change fanned out to live subscribers.
type ChangeEvent struct {
	RequestID string            `json:"request_id,omitempty"` // For distributed tracing
	Table     string            `json:"table"`
	Op        ChangeOp          `json:"op"`
	RecordID  string            `json:"record_id"`
	Payload   map[string]string `json:"payload,omitempty"`
}

// EventPublisher defines the interface for publishing change events to a message queue
type EventPublisher interface {
	// PublishChangeEvent publishes a row change event for async fan-out
	PublishChangeEvent(ctx context.Context, event *ChangeEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// ChangeFeed delivers change events to in-process subscribers. Dispatch is
// asynchronous so publishers never block on slow consumers.
type ChangeFeed interface {
	// Publish queues an event for delivery to every matching subscriber.
	Publish(event ChangeEvent)

	// Subscribe registers a handler for events on the given table. An empty
	// table matches every event. The returned function removes the handler.
	Subscribe(table string, fn func(ChangeEvent)) (unsubscribe func())
}
