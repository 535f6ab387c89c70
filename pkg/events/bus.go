package events

import (
	"slices"
	"sync"

	"github.com/jscyril/playlist_manager/api"
	"github.com/samber/lo"
)

// subscriberBuffer is how many undelivered events a subscriber may fall behind by
const subscriberBuffer = 32

type subscription struct {
	ch    chan api.AudioEvent
	types []api.EventType // empty means every type
}

func (s *subscription) wants(t api.EventType) bool {
	return len(s.types) == 0 || lo.Contains(s.types, t)
}

// EventBus fans out playback notifications to subscribers. Publishing never
// blocks: a subscriber with a full buffer misses the event.
type EventBus struct {
	mu     sync.RWMutex
	subs   []*subscription
	closed bool
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe returns a channel receiving events of the given types. After
// Close it returns an already closed channel.
func (b *EventBus) Subscribe(types ...api.EventType) <-chan api.AudioEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &subscription{ch: make(chan api.AudioEvent, subscriberBuffer), types: lo.Uniq(types)}
	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	return sub.ch
}

// SubscribeAll returns a channel receiving every event
func (b *EventBus) SubscribeAll() <-chan api.AudioEvent {
	return b.Subscribe()
}

func (b *EventBus) Publish(event api.AudioEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// Emit publishes an event built from t and payload
func (b *EventBus) Emit(t api.EventType, payload any) {
	b.Publish(api.AudioEvent{Type: t, Payload: payload})
}

// Unsubscribe stops delivery to ch and closes it. Unknown channels are ignored.
func (b *EventBus) Unsubscribe(ch <-chan api.AudioEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s *subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Close closes every subscriber channel. Publishing afterwards is a no-op.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
	b.closed = true
}
