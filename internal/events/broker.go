package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Broker fans events out to in-process subscribers. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]chan ChangeEvent
	nextID uint64
	log    *zap.Logger
}

// NewBroker creates an empty broker.
func NewBroker(log *zap.Logger) *Broker {
	return &Broker{
		subs: make(map[uint64]chan ChangeEvent),
		log:  log.Named("broker"),
	}
}

// Publish delivers event to every current subscriber.
func (b *Broker) Publish(_ context.Context, event ChangeEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.log.Debug("subscriber buffer full, dropping event",
				zap.Uint64("subscriber", id), zap.String("type", string(event.Type)))
		}
	}
	return nil
}

// Subscribe registers a new subscriber. The channel is closed by cancel.
func (b *Broker) Subscribe(buffer int) (<-chan ChangeEvent, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan ChangeEvent, buffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of registered subscribers.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
