package events

// Subscriber receives every event the broker delivers.
// Send must not block; transports queue internally.
type Subscriber interface {
	Send(Event) error
	Close() error
}
