package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/germanamz/analytical/pkg/location"
)

// EventKind identifies the type of engine event.
type EventKind string

const (
	EventProviderReady  EventKind = "provider_ready"
	EventCommandQueued  EventKind = "command_queued"
	EventScriptRendered EventKind = "script_rendered"
)

// Event is an immutable notification of engine activity.
type Event struct {
	Kind      EventKind
	PageID    string
	Provider  string
	Location  location.Location
	Timestamp time.Time
	Data      any
}

// Subscription receives events from an EventBus.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// EventBus fans out events to all active subscribers. It is safe for
// concurrent use.
type EventBus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewEventBus creates an EventBus ready for use.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe creates a new subscription with the given channel buffer size.
// The caller should read from sub.C and eventually call Unsubscribe.
func (b *EventBus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish sends an event to all subscribers. If a subscriber's buffer is full
// the event is dropped for that subscriber to prevent slow consumers from
// stalling page rendering.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
		}
	}
}

// Record subscribes to the bus and returns stop, which ends the recording and
// returns the events of the given kinds published in between, in publish
// order. No kinds keeps every kind. Events beyond bufSize are dropped.
func (b *EventBus) Record(bufSize int, kinds ...EventKind) (stop func() []Event) {
	sub := b.Subscribe(bufSize)

	return func() []Event {
		b.Unsubscribe(sub)

		var out []Event
		for e := range sub.C {
			if len(kinds) == 0 || slices.Contains(kinds, e.Kind) {
				out = append(out, e)
			}
		}

		return out
	}
}
