package service

import (
	"sync"
	"testing"

	"farmferia/internal/domain/service"
)

// RecordingChangeFeed captures published change events for assertions and
// delivers them synchronously to subscribers.
type RecordingChangeFeed struct {
	mu        sync.Mutex
	published []service.ChangeEvent
	subs      []feedSub
	nextID    int
}

type feedSub struct {
	id    int
	table string
	fn    func(service.ChangeEvent)
}

// NewRecordingChangeFeed creates an empty recorder.
func NewRecordingChangeFeed(_ *testing.T) *RecordingChangeFeed {
	return &RecordingChangeFeed{}
}

func (f *RecordingChangeFeed) Publish(event service.ChangeEvent) {
	f.mu.Lock()
	f.published = append(f.published, event)
	subs := append([]feedSub{}, f.subs...)
	f.mu.Unlock()

	for _, sub := range subs {
		if sub.table == "" || sub.table == event.Table {
			sub.fn(event)
		}
	}
}

func (f *RecordingChangeFeed) Subscribe(table string, fn func(service.ChangeEvent)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	f.subs = append(f.subs, feedSub{id: id, table: table, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, sub := range f.subs {
			if sub.id == id {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)

				break
			}
		}
	}
}

// Published returns a copy of every event published so far.
func (f *RecordingChangeFeed) Published() []service.ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]service.ChangeEvent, len(f.published))
	copy(out, f.published)

	return out
}
