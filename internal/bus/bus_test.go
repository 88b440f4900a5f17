package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishWithoutSubscribers(t *testing.T) {
	b := New(nil)

	require.NotPanics(t, func() {
		b.Publish(Event{Kind: ProjectCreated, Payload: ProjectMutation{ProjectID: "p1"}})
	})
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New(nil)

	var order []string
	b.Subscribe(ProjectUpdated, func(Event) { order = append(order, "first") })
	b.Subscribe(ProjectUpdated, func(Event) { order = append(order, "second") })
	b.Subscribe(ProjectUpdated, func(Event) { order = append(order, "third") })

	b.Publish(Event{Kind: ProjectUpdated, Payload: ProjectMutation{ProjectID: "p1", Status: "suspended"}})

	require.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublishOnlyMatchingKind(t *testing.T) {
	b := New(nil)

	created, deleted := 0, 0
	b.Subscribe(ProjectCreated, func(Event) { created++ })
	b.Subscribe(ProjectDeleted, func(Event) { deleted++ })

	b.Publish(Event{Kind: ProjectCreated, Payload: ProjectMutation{ProjectID: "p1"}})

	require.Equal(t, 1, created)
	require.Equal(t, 0, deleted)
}

func TestPanickingSubscriberDoesNotBlockDelivery(t *testing.T) {
	b := New(nil)

	var delivered []string
	b.Subscribe(ProjectDeleted, func(Event) { delivered = append(delivered, "a") })
	b.Subscribe(ProjectDeleted, func(Event) { panic("subscriber bug") })
	b.Subscribe(ProjectDeleted, func(Event) { delivered = append(delivered, "c") })

	require.NotPanics(t, func() {
		b.Publish(Event{Kind: ProjectDeleted, Payload: ProjectMutation{ProjectID: "p1"}})
	})
	require.Equal(t, []string{"a", "c"}, delivered)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New(nil)

	calls := 0
	unsub := b.Subscribe(ProjectCreated, func(Event) { calls++ })

	b.Publish(Event{Kind: ProjectCreated})
	unsub()
	b.Publish(Event{Kind: ProjectCreated})

	require.Equal(t, 1, calls)
}

func TestUnsubscribeTwiceIsHarmless(t *testing.T) {
	b := New(nil)

	first := 0
	second := 0
	unsub := b.Subscribe(ProjectCreated, func(Event) { first++ })
	b.Subscribe(ProjectCreated, func(Event) { second++ })

	unsub()
	unsub()
	b.Publish(Event{Kind: ProjectCreated})

	require.Equal(t, 0, first)
	require.Equal(t, 1, second)
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	b := New(nil)

	b.Publish(Event{Kind: ProjectUpdated, Payload: ProjectMutation{ProjectID: "p1"}})

	calls := 0
	b.Subscribe(ProjectUpdated, func(Event) { calls++ })

	require.Equal(t, 0, calls, "no replay of events published before subscription")
}
