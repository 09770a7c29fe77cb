package event

import "github.com/civic-hub/civic-site/internal/domain/shared"

// AggregateType is the aggregate name carried by every event-domain event.
const AggregateType = "Event"

const (
	EventParticipantRegistered  shared.EventType = "ParticipantRegistered"
	EventParticipationCancelled  shared.EventType = "ParticipationCancelled"
)

// ParticipantChangedEvent records a registration or a cancellation together
// with the resulting participant count.
type ParticipantChangedEvent struct {
	shared.BaseEvent
	CurrentParticipants int
	MaxParticipants     int
}

// NewParticipantRegisteredEvent is raised after AddParticipant succeeds.
func NewParticipantRegisteredEvent(e *Event) ParticipantChangedEvent {
	return newParticipantChanged(EventParticipantRegistered, e)
}

// NewParticipationCancelledEvent is raised after RemoveParticipant succeeds.
func NewParticipationCancelledEvent(e *Event) ParticipantChangedEvent {
	return newParticipantChanged(EventParticipationCancelled, e)
}

func newParticipantChanged(t shared.EventType, e *Event) ParticipantChangedEvent {
	return ParticipantChangedEvent{
		BaseEvent:           shared.NewBaseEvent(t, AggregateType, e.ID().String()),
		CurrentParticipants: e.CurrentParticipants(),
		MaxParticipants:     e.MaxParticipants(),
	}
}

// EventData implements shared.DomainEvent.
func (ev ParticipantChangedEvent) EventData() map[string]any {
	return map[string]any{
		"currentParticipants": ev.CurrentParticipants,
		"maxParticipants":     ev.MaxParticipants,
	}
}
