// Package adapters subscribes the live update transports to the event broker.
package adapters

import (
	"strconv"

	"github.com/agentstation/imagerater/internal/server/events"
	"github.com/agentstation/imagerater/internal/server/sse"
	ws "github.com/agentstation/imagerater/internal/server/websocket"
)

// WebSocket forwards events to every client of a hub.
type WebSocket struct {
	hub *ws.Hub
}

// NewWebSocket returns a subscriber for hub.
func NewWebSocket(hub *ws.Hub) *WebSocket {
	return &WebSocket{hub: hub}
}

// Send implements events.Subscriber.
func (w *WebSocket) Send(e events.Event) error {
	w.hub.Broadcast(ws.Message{
		Seq:       e.Seq,
		Type:      string(e.Type),
		Timestamp: e.Timestamp,
		Data:      e.Data,
	})
	return nil
}

// Close implements events.Subscriber. The hub stops with its own context.
func (w *WebSocket) Close() error { return nil }

// SSE forwards events to every stream of a broadcaster. The sequence number
// becomes the SSE id so reconnecting clients can report Last-Event-ID.
type SSE struct {
	broadcaster *sse.Broadcaster
}

// NewSSE returns a subscriber for b.
func NewSSE(b *sse.Broadcaster) *SSE {
	return &SSE{broadcaster: b}
}

// Send implements events.Subscriber.
func (s *SSE) Send(e events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event: string(e.Type),
		ID:    strconv.FormatUint(e.Seq, 10),
		Data:  e.Data,
	})
	return nil
}

// Close implements events.Subscriber. The broadcaster stops with its own context.
func (s *SSE) Close() error { return nil }
