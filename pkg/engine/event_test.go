package engine

import (
	"testing"
	"time"

	"github.com/germanamz/analytical/pkg/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_SubscribePublish(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(8)
	defer bus.Unsubscribe(sub)

	e := Event{
		Kind:      EventScriptRendered,
		PageID:    "p1",
		Provider:  "Google",
		Timestamp: time.Now(),
	}

	bus.Publish(e)

	select {
	case got := <-sub.C:
		assert.Equal(t, EventScriptRendered, got.Kind)
		assert.Equal(t, "p1", got.PageID)
		assert.Equal(t, "Google", got.Provider)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestEventBus_FanOut(t *testing.T) {
	bus := NewEventBus()
	sub1 := bus.Subscribe(4)
	sub2 := bus.Subscribe(4)
	defer bus.Unsubscribe(sub1)
	defer bus.Unsubscribe(sub2)

	bus.Publish(Event{Kind: EventCommandQueued})

	select {
	case <-sub1.C:
	case <-time.After(time.Second):
		t.Fatal("sub1 did not receive event")
	}

	select {
	case <-sub2.C:
	case <-time.After(time.Second):
		t.Fatal("sub2 did not receive event")
	}
}

func TestEventBus_NonBlockingDrop(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(1) // buffer of 1
	defer bus.Unsubscribe(sub)

	// Fill the buffer.
	bus.Publish(Event{Kind: EventProviderReady})
	// This should not block; the event is dropped.
	bus.Publish(Event{Kind: EventCommandQueued})

	got := <-sub.C
	assert.Equal(t, EventProviderReady, got.Kind)

	select {
	case <-sub.C:
		t.Fatal("expected channel to be empty after drop")
	default:
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	sub := bus.Subscribe(4)

	bus.Unsubscribe(sub)

	// Channel should be closed.
	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed after unsubscribe")

	// Double unsubscribe should not panic.
	bus.Unsubscribe(sub)
}

func TestEventBus_PublishNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Should not panic.
	bus.Publish(Event{Kind: EventScriptRendered})
}

func TestEventBus_Record(t *testing.T) {
	bus := NewEventBus()
	stop := bus.Record(8, EventScriptRendered)

	bus.Publish(Event{Kind: EventCommandQueued, PageID: "p1"})
	bus.Publish(Event{Kind: EventScriptRendered, PageID: "p1", Provider: "Google"})
	bus.Publish(Event{Kind: EventScriptRendered, PageID: "p1", Provider: "Clicky"})

	got := stop()
	if assert.Len(t, got, 2) {
		assert.Equal(t, "Google", got[0].Provider)
		assert.Equal(t, "Clicky", got[1].Provider)
	}

	// Events after stop are not recorded and stop is safe to call again.
	bus.Publish(Event{Kind: EventScriptRendered})
	assert.Empty(t, stop())
}

func TestEventBus_RecordAllKinds(t *testing.T) {
	bus := NewEventBus()
	stop := bus.Record(8)

	bus.Publish(Event{Kind: EventProviderReady})
	bus.Publish(Event{Kind: EventCommandQueued})

	assert.Len(t, stop(), 2)
}

func TestPage_RecordRenderedProviders(t *testing.T) {
	eng := newEngine(t)
	page := eng.Page()

	stop := eng.Events().Record(16, EventScriptRendered)
	page.BodyAppend()
	page.HeadAppend()
	got := stop()

	require.Len(t, got, 2)
	assert.Equal(t, "Clicky", got[0].Provider)
	assert.Equal(t, location.BodyAppend, got[0].Location)
	assert.Equal(t, "Google", got[1].Provider)
	assert.Equal(t, page.ID(), got[1].PageID)
}
