package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Event[T] wraps a topic name and provides type-safe publishing.
type Event[T any] struct {
	topicName   string
	description string
}

var (
	catalogMu sync.RWMutex
	catalog   = map[string]string{}
)

// NewEvent creates a typed event and records it in the event catalog.
// Events are declared at package level, so a duplicate name is a programming
// error and panics.
func NewEvent[T any](name, description string) Event[T] {
	catalogMu.Lock()
	defer catalogMu.Unlock()
	if _, exists := catalog[name]; exists {
		panic(fmt.Sprintf("pubsub: event %q declared twice", name))
	}
	catalog[name] = description
	return Event[T]{topicName: name, description: description}
}

// Name returns the topic name.
func (e Event[T]) Name() string {
	return e.topicName
}

// Description returns the human readable description of the event.
func (e Event[T]) Description() string {
	return e.description
}

// Topics lists every declared event name in sorted order.
func Topics() []string {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Publish sends a typed event. The compiler ensures 'payload' matches 'T'.
func Publish[T any](ctx context.Context, p Publisher, event Event[T], userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event.Name(), err)
	}
	return p.Publish(ctx, Message{
		Topic:   event.Name(),
		UserID:  userID,
		Payload: data,
	})
}

// Subscribe decodes every message of the event's topic into T before
// handing it to handler.
func Subscribe[T any](ctx context.Context, s Subscriber, event Event[T], handler func(ctx context.Context, userID string, payload T) error) error {
	return s.Subscribe(ctx, event.Name(), func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Name(), err)
		}
		return handler(ctx, msg.UserID, payload)
	})
}
