// Package bus decouples mutation actions from the sibling views that need
// to refresh in response. Delivery is synchronous, in subscription order,
// at most once: a subscriber registered after Publish never sees the event.
package bus

import (
	"sync"

	"saas-admin-console/internal/logger"
	"saas-admin-console/internal/telemetry"
)

type Kind string

const (
	ProjectCreated Kind = "projectCreated"
	ProjectUpdated Kind = "projectUpdated"
	ProjectDeleted Kind = "projectDeleted"
)

// ProjectMutation is the payload for all project event kinds. Status is
// only set for ProjectUpdated.
type ProjectMutation struct {
	ProjectID string
	Status    string
}

type Event struct {
	Kind    Kind
	Payload ProjectMutation
}

type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

type Bus struct {
	mu      sync.Mutex
	nextID  uint64
	subs    map[Kind][]subscriber
	metrics *telemetry.Metrics
}

// New builds a bus. metrics may be nil.
func New(metrics *telemetry.Metrics) *Bus {
	return &Bus{
		subs:    make(map[Kind][]subscriber),
		metrics: metrics,
	}
}

// Subscribe registers a handler for one event kind and returns the
// capability that removes it. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(kind Kind, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscriber{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[kind]
		for i, s := range list {
			if s.id == id {
				b.subs[kind] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish fans the event out to all current subscribers in subscription
// order. A panicking subscriber must not prevent delivery to the others.
// Publishing with zero subscribers is a no-op.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	list := make([]subscriber, len(b.subs[event.Kind]))
	copy(list, b.subs[event.Kind])
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.RecordMutationEvent(string(event.Kind))
	}

	for _, s := range list {
		deliver(s.handler, event)
	}
}

func deliver(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event subscriber panicked", "kind", string(event.Kind), "panic", r)
		}
	}()
	h(event)
}
