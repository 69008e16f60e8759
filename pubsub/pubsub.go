// Package pubsub fans messages out to any number of subscribers, dropping
// instead of blocking when a subscriber falls behind.
package pubsub

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var plog zerolog.Logger

func init() {
	plog = log.With().Str("component", "pubsub").Logger()
}

// Each subscriber gets this much slack before messages are dropped
const subscriberBuffer = 16

type SubscriptionID int64

type Pubsub[T any] struct {
	nextID      SubscriptionID
	subscribers map[SubscriptionID]chan T
	mu          sync.RWMutex
}

func New[T any]() *Pubsub[T] {
	return &Pubsub[T]{
		subscribers: make(map[SubscriptionID]chan T),
	}
}

// Subscribe registers a new subscriber. The channel is closed on Unsubscribe.
func (ps *Pubsub[T]) Subscribe() (SubscriptionID, <-chan T) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan T, subscriberBuffer)
	id := ps.nextID
	ps.nextID++
	ps.subscribers[id] = ch

	return id, ch
}

func (ps *Pubsub[T]) Unsubscribe(id SubscriptionID) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch, ok := ps.subscribers[id]
	if !ok {
		return
	}

	delete(ps.subscribers, id)
	close(ch)
}

// Publish delivers msg to every subscriber without blocking; subscribers
// whose buffers are full miss the message.
func (ps *Pubsub[T]) Publish(msg T) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for id, ch := range ps.subscribers {
		select {
		case ch <- msg:
		default:
			plog.Warn().
				Int64("subscription_id", int64(id)).
				Msg("Message dropped, subscriber too slow")
		}
	}
}

// Count reports the number of active subscribers.
func (ps *Pubsub[T]) Count() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.subscribers)
}
