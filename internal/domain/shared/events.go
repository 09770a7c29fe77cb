package shared

import (
	"context"
	"encoding/json"
	"time"

	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// EventType names a domain event, e.g. "ProjectCreated".
type EventType string

// DomainEvent is an immutable record of a state change inside an aggregate.
type DomainEvent interface {
	// EventID returns the unique id of this occurrence.
	EventID() string

	// EventType returns the kind of event.
	EventType() EventType

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// AggregateType returns the kind of aggregate, e.g. "Project".
	AggregateType() string

	// EventVersion returns the schema version of the payload.
	EventVersion() int

	// OccurredOn returns when the event occurred.
	OccurredOn() time.Time

	// EventData returns the event payload for serialization.
	EventData() map[string]any
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID        string
	Type      EventType
	Aggregate string
	AggType   string
	Version   int
	Timestamp time.Time
}

// NewBaseEvent creates a new base event stamped with the current time.
func NewBaseEvent(eventType EventType, aggregateType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:        NewEventRecordID(),
		Type:      eventType,
		Aggregate: aggregateID,
		AggType:   aggregateType,
		Version:   1,
		Timestamp: timeutil.Now(),
	}
}

// EventID implements DomainEvent.
func (e BaseEvent) EventID() string { return e.ID }

// EventType implements DomainEvent.
func (e BaseEvent) EventType() EventType { return e.Type }

// AggregateID implements DomainEvent.
func (e BaseEvent) AggregateID() string { return e.Aggregate }

// AggregateType implements DomainEvent.
func (e BaseEvent) AggregateType() string { return e.AggType }

// EventVersion implements DomainEvent.
func (e BaseEvent) EventVersion() int { return e.Version }

// OccurredOn implements DomainEvent.
func (e BaseEvent) OccurredOn() time.Time { return e.Timestamp }

// ═══════════════════════════════════════════════════════════════════════════
// Event Record (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventRecord is the serializable form of a DomainEvent.
type EventRecord struct {
	EventID       string         `json:"eventId"`
	EventType     EventType      `json:"eventType"`
	AggregateID   string         `json:"aggregateId"`
	AggregateType string         `json:"aggregateType"`
	EventVersion  int            `json:"eventVersion"`
	OccurredOn    string         `json:"occurredOn"`
	EventData     map[string]any `json:"eventData"`
}

// ToRecord converts a DomainEvent to its serializable form.
func ToRecord(e DomainEvent) EventRecord {
	data := e.EventData()
	if data == nil {
		data = map[string]any{}
	}
	return EventRecord{
		EventID:       e.EventID(),
		EventType:     e.EventType(),
		AggregateID:   e.AggregateID(),
		AggregateType: e.AggregateType(),
		EventVersion:  e.EventVersion(),
		OccurredOn:    timeutil.FormatISO(e.OccurredOn()),
		EventData:     data,
	}
}

// MarshalEvent encodes a DomainEvent as JSON.
func MarshalEvent(e DomainEvent) ([]byte, error) {
	return json.Marshal(ToRecord(e))
}

// EventHandler handles a published domain event.
type EventHandler func(ctx context.Context, event DomainEvent) error

// EventPublisher dispatches domain events raised by aggregates.
type EventPublisher interface {
	// Publish sends events to subscribers in order.
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers handlers.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
