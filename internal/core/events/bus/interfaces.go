package bus

import "time"

// EventBus is an in-process pub/sub bus used to announce hierarchy changes.
//
// Delivery is synchronous: Publish runs every handler subscribed to
// Event.Type() in the caller goroutine, in subscription order. Handler errors
// are joined and returned. All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event to all active subscribers of event.Type().
	Publish(event Event) error
	// Subscribe registers a handler for one event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error
}

// Event is an immutable message. Type is the routing key.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type EventHandler func(event Event) error

// Subscription is a handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel removes the handler from the bus. Repeated calls are safe.
	Cancel() error
}
