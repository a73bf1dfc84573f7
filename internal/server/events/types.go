// Package events carries rater changes to the live update transports.
//
// Connect subscribes a Broker to a Rater's hooks. The broker stamps every
// change with a sequence number and delivers it, in publish order, to the
// WebSocket and SSE subscribers registered through package adapters.
package events

import "time"

// EventType names a change on the wire.
type EventType string

// Event types.
const (
	RatingChanged    EventType = "rating.changed"
	SelectionChanged EventType = "selection.changed"
	FilterChanged    EventType = "filter.changed"

	// ClientConnected greets a new WebSocket client. It is not sequenced.
	ClientConnected EventType = "client.connected"
)

// Event is one published change. Data holds an imagerater.RatingChange,
// SelectionChange or FilterChange matching Type.
type Event struct {
	Seq       uint64    `json:"seq"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
