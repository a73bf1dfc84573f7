// Package sse streams rater changes to browsers as Server-Sent Events.
//
// Events carrying a numeric id are kept in a short history. A client that
// reconnects with a Last-Event-ID header first receives whatever it missed
// that is still in the history, then the live stream.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// clientBuffer is the number of events queued per stream before events are skipped.
	clientBuffer = 64

	// historySize is the number of sequenced events kept for replay.
	historySize = 128
)

// Event is one SSE frame. Data is encoded as JSON.
type Event struct {
	Event string `json:"event,omitempty"`
	ID    string `json:"id,omitempty"`
	Data  any    `json:"data"`
}

// Broadcaster fans events out to every open stream.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[chan Event]struct{}
	history []Event
	stopped bool
	events  chan Event
	logger  *zerolog.Logger
}

// NewBroadcaster creates a broadcaster. Call Run to start delivery.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan Event]struct{}),
		events:  make(chan Event, 256),
		logger:  logger,
	}
}

// Run delivers broadcast events until ctx is cancelled, then ends every stream.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			b.stopped = true
			for client := range b.clients {
				close(client)
				delete(b.clients, client)
			}
			b.mu.Unlock()
			b.logger.Info().Msg("SSE broadcaster shut down")
			return

		case event := <-b.events:
			b.mu.Lock()
			b.remember(event)
			for client := range b.clients {
				select {
				case client <- event:
				default:
					b.logger.Warn().Str("id", event.ID).Msg("SSE client buffer full, event skipped")
				}
			}
			b.mu.Unlock()
		}
	}
}

// remember appends a sequenced event to the history. Callers hold mu.
func (b *Broadcaster) remember(event Event) {
	if _, err := strconv.ParseUint(event.ID, 10, 64); err != nil {
		return
	}
	b.history = append(b.history, event)
	if len(b.history) > historySize {
		b.history = b.history[len(b.history)-historySize:]
	}
}

// since returns the remembered events after id. Callers hold mu.
func (b *Broadcaster) since(id uint64) []Event {
	var missed []Event
	for _, e := range b.history {
		if seq, _ := strconv.ParseUint(e.ID, 10, 64); seq > id {
			missed = append(missed, e)
		}
	}
	return missed
}

// Broadcast queues an event for every stream. It never blocks.
func (b *Broadcaster) Broadcast(event Event) {
	select {
	case b.events <- event:
	default:
		b.logger.Warn().Str("event", event.Event).Msg("SSE broadcast channel full, event dropped")
	}
}

// ClientCount returns the number of open streams.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// attach registers a stream and returns the events it missed since lastID.
func (b *Broadcaster) attach(lastID string) (chan Event, []Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return nil, nil, false
	}

	var missed []Event
	if id, err := strconv.ParseUint(lastID, 10, 64); err == nil {
		missed = b.since(id)
	}
	client := make(chan Event, clientBuffer)
	b.clients[client] = struct{}{}
	b.logger.Debug().Int("total_clients", len(b.clients)).Int("replayed", len(missed)).Msg("SSE client connected")
	return client, missed, true
}

func (b *Broadcaster) detach(client chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client)
	}
	b.logger.Debug().Int("total_clients", len(b.clients)).Msg("SSE client disconnected")
}

// ServeHTTP streams events to one client until it disconnects or the
// broadcaster shuts down.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, missed, ok := b.attach(r.Header.Get("Last-Event-ID"))
	if !ok {
		http.Error(w, "Stream closed", http.StatusServiceUnavailable)
		return
	}
	defer b.detach(client)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	b.write(w, Event{
		Event: "connected",
		Data: map[string]any{
			"message":   "Connected to imagerater updates stream",
			"timestamp": time.Now().UTC(),
			"replayed":  len(missed),
		},
	})
	for _, e := range missed {
		b.write(w, e)
	}
	flusher.Flush()

	for {
		select {
		case event, ok := <-client:
			if !ok {
				return
			}
			b.write(w, event)
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func (b *Broadcaster) write(w http.ResponseWriter, event Event) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event.Event).Msg("Failed to marshal SSE event data")
		return
	}
	if event.Event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event.Event)
	}
	if event.ID != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", event.ID)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
