package events

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/imagerater"
)

// queueSize bounds the events waiting for delivery.
const queueSize = 256

// Broker delivers published events to its subscribers one at a time, so
// every subscriber sees changes in the order the rater made them.
type Broker struct {
	mu     sync.RWMutex
	subs   []Subscriber
	queue  chan Event
	seq    atomic.Uint64
	logger *zerolog.Logger
}

// NewBroker creates a broker. Call Run to start delivery.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		queue:  make(chan Event, queueSize),
		logger: logger,
	}
}

// Connect publishes every rating, selection and filter change of r to b.
func Connect(r *imagerater.Rater, b *Broker) {
	r.OnRatingChanged(func(c imagerater.RatingChange) {
		b.Publish(RatingChanged, c)
	})
	r.OnSelectionChanged(func(c imagerater.SelectionChange) {
		b.Publish(SelectionChanged, c)
	})
	r.OnFilterChanged(func(c imagerater.FilterChange) {
		b.Publish(FilterChanged, c)
	})
}

// Publish stamps data with the next sequence number and queues it for
// delivery. It never blocks. When the queue is full the event is dropped
// and ok is false; the skipped sequence number tells clients they missed it.
func (b *Broker) Publish(t EventType, data any) (e Event, ok bool) {
	e = Event{
		Seq:       b.seq.Add(1),
		Type:      t,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
	select {
	case b.queue <- e:
		return e, true
	default:
		b.logger.Warn().
			Uint64("seq", e.Seq).
			Str("event_type", string(t)).
			Msg("Event queue full, event dropped")
		return e, false
	}
}

// Run delivers queued events until ctx is cancelled, then closes every
// subscriber.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			subs := b.subs
			b.subs = nil
			b.mu.Unlock()
			for _, sub := range subs {
				_ = sub.Close()
			}
			b.logger.Info().Msg("Event broker shut down")
			return

		case e := <-b.queue:
			b.deliver(e)
		}
	}
}

func (b *Broker) deliver(e Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(e); err != nil {
			b.logger.Warn().
				Err(err).
				Uint64("seq", e.Seq).
				Str("event_type", string(e.Type)).
				Msg("Failed to send event to subscriber")
		}
	}
	b.logger.Debug().
		Uint64("seq", e.Seq).
		Str("event_type", string(e.Type)).
		Int("subscribers", len(subs)).
		Msg("Event delivered")
}

// Subscribe adds sub. It takes effect for the next delivered event.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
}

// Unsubscribe removes and closes sub.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	i := slices.Index(b.subs, sub)
	if i >= 0 {
		b.subs = slices.Delete(b.subs, i, i+1)
	}
	b.mu.Unlock()
	if i >= 0 {
		_ = sub.Close()
	}
}

// SubscriberCount returns the number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
