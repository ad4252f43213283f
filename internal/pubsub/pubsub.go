// Package pubsub is the in-process event bus of the gallery. Mutations that
// succeeded against the remote API are announced as events; subscribers such
// as the activity log react to them without the controller knowing.
package pubsub

import (
	"context"
)

// Message is one gallery event on the bus.
type Message struct {
	// Topic is the event name, e.g. "card.created" or "profile.updated".
	Topic string
	// UserID is the user whose action produced the event.
	UserID string
	// Payload is the JSON encoded event body, see Event.
	Payload []byte
	// Metadata holds string annotations such as published_at.
	Metadata map[string]string
}

// Handler processes one delivered event. ctx carries the values of the
// context the event was published with, so request scoped loggers reach
// the subscriber, but not its cancellation.
type Handler func(ctx context.Context, msg Message) error

// Publisher announces events.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber delivers the events of a topic to a handler until ctx is done
// or the bus is closed. Subscribe itself does not block.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
