// Package identity provides the identity provider implementations: a hosted
// provider reached over HTTP and a local provider backed by the credential
// store.
package identity

import (
	"sync"

	"farmferia/internal/domain/service"
)

// listeners manages session-change subscriptions shared by both providers.
// Events are delivered on the emitting goroutine; subscribers are expected to
// hand the event off without blocking.
type listeners struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]func(service.SessionEvent)
}

func newListeners() *listeners {
	return &listeners{subs: make(map[uint64]func(service.SessionEvent))}
}

func (l *listeners) add(fn func(service.SessionEvent)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.subs[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

func (l *listeners) emit(event service.SessionEvent) {
	l.mu.Lock()
	subs := make([]func(service.SessionEvent), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}
