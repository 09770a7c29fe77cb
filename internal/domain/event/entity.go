// Package event models community gatherings: workshops, hackathons, meetups
// and conferences, with capacity-limited registration.
package event

import (
	"slices"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: EVENT
// ══════════════════════════════════════════════════════════════════════════════

// Event is an immutable event record. A zero maxParticipants means the event
// has no participant cap.
type Event struct {
	id                  shared.EventID
	title               string
	description         string
	eventType           Type
	status              Status
	dates               shared.DateRange
	location            Location
	tags                []string
	maxParticipants     int
	currentParticipants int
	registrationOpen    bool
	createdAt           time.Time
	updatedAt           time.Time
}

// NewEventParams contains parameters for creating a new event.
type NewEventParams struct {
	Title       string
	Description string
	Type        Type
	StartDate   time.Time
	EndDate     time.Time // zero means StartDate + the type's typical duration
	Location    LocationParams
	Tags        []string

	MaxParticipants    int // zero means uncapped
	RegistrationClosed bool
}

// Props is the persisted shape of an event.
type Props struct {
	ID                  string
	Title               string
	Description         string
	Type                string
	Status              string
	StartDate           time.Time
	EndDate             time.Time
	Location            LocationParams
	Tags                []string
	MaxParticipants     int
	CurrentParticipants int
	RegistrationOpen    bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewEvent creates an upcoming event with a generated id.
func NewEvent(params NewEventParams) (*Event, error) {
	eventType, err := ParseType(string(params.Type))
	if err != nil {
		return nil, err
	}
	end := params.EndDate
	if end.IsZero() && !params.StartDate.IsZero() {
		end = params.StartDate.Add(eventType.TypicalDuration())
	}
	now := timeutil.Now()
	return EventFromPersistence(Props{
		ID:               shared.NewEventID().String(),
		Title:            params.Title,
		Description:      params.Description,
		Type:             string(eventType),
		Status:           string(StatusUpcoming),
		StartDate:        params.StartDate,
		EndDate:          end,
		Location:         params.Location,
		Tags:             params.Tags,
		MaxParticipants:  params.MaxParticipants,
		RegistrationOpen: !params.RegistrationClosed,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

// EventFromPersistence rehydrates an event, revalidating every invariant.
func EventFromPersistence(props Props) (*Event, error) {
	id, err := shared.ParseEventID(props.ID)
	if err != nil {
		return nil, err
	}
	title, err := shared.RequireText("title", props.Title, 1, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	description, err := shared.RequireText("description", props.Description, 1, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	eventType, err := ParseType(props.Type)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(props.Status)
	if err != nil {
		return nil, err
	}
	dates, err := shared.NewDateRange(props.StartDate, props.EndDate)
	if err != nil {
		return nil, err
	}
	location, err := NewLocation(props.Location)
	if err != nil {
		return nil, err
	}
	tags, err := shared.NormalizeTags(props.Tags)
	if err != nil {
		return nil, err
	}
	if props.MaxParticipants < 0 {
		return nil, shared.Negative("max participants")
	}
	if props.CurrentParticipants < 0 {
		return nil, shared.Negative("current participants")
	}
	if props.MaxParticipants > 0 && props.CurrentParticipants > props.MaxParticipants {
		return nil, shared.OutOfRange("current participants", "cannot exceed max participants")
	}
	if props.CreatedAt.IsZero() {
		return nil, shared.EmptyField("created at")
	}
	if props.UpdatedAt.Before(props.CreatedAt) {
		return nil, shared.OutOfRange("updated at", "cannot be before created at")
	}

	return &Event{
		id:                  id,
		title:               title,
		description:         description,
		eventType:           eventType,
		status:              status,
		dates:               dates,
		location:            location,
		tags:                tags,
		maxParticipants:     props.MaxParticipants,
		currentParticipants: props.CurrentParticipants,
		registrationOpen:    props.RegistrationOpen,
		createdAt:           props.CreatedAt.UTC(),
		updatedAt:           props.UpdatedAt.UTC(),
	}, nil
}

// ToProps returns the persisted shape of the event.
func (e *Event) ToProps() Props {
	return Props{
		ID:                  e.id.String(),
		Title:               e.title,
		Description:         e.description,
		Type:                string(e.eventType),
		Status:              string(e.status),
		StartDate:           e.dates.Start(),
		EndDate:             e.dates.End(),
		Location:            e.location.Params(),
		Tags:                e.Tags(),
		MaxParticipants:     e.maxParticipants,
		CurrentParticipants: e.currentParticipants,
		RegistrationOpen:    e.registrationOpen,
		CreatedAt:           e.createdAt,
		UpdatedAt:           e.updatedAt,
	}
}

func (e *Event) update(mutate func(*Props)) (*Event, error) {
	props := e.ToProps()
	mutate(&props)
	props.UpdatedAt = timeutil.Later(e.updatedAt, timeutil.Now())
	return EventFromPersistence(props)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS
// ══════════════════════════════════════════════════════════════════════════════

func (e *Event) ID() shared.EventID       { return e.id }
func (e *Event) Title() string            { return e.title }
func (e *Event) Description() string      { return e.description }
func (e *Event) Type() Type               { return e.eventType }
func (e *Event) Status() Status           { return e.status }
func (e *Event) Dates() shared.DateRange  { return e.dates }
func (e *Event) StartDate() time.Time     { return e.dates.Start() }
func (e *Event) EndDate() time.Time       { return e.dates.End() }
func (e *Event) Location() Location       { return e.location }
func (e *Event) Tags() []string           { return slices.Clone(e.tags) }
func (e *Event) HasTag(tag string) bool   { return slices.Contains(e.tags, tag) }
func (e *Event) MaxParticipants() int     { return e.maxParticipants }
func (e *Event) CurrentParticipants() int { return e.currentParticipants }
func (e *Event) IsRegistrationOpen() bool { return e.registrationOpen }
func (e *Event) IsCancelled() bool        { return e.status == StatusCancelled }
func (e *Event) IsCapped() bool           { return e.maxParticipants > 0 }
func (e *Event) CreatedAt() time.Time     { return e.createdAt }
func (e *Event) UpdatedAt() time.Time     { return e.updatedAt }

// Capacity returns the capacity value object; ok is false for uncapped events.
func (e *Event) Capacity() (c Capacity, ok bool) {
	if !e.IsCapped() {
		return Capacity{}, false
	}
	c, err := NewCapacity(e.maxParticipants, e.currentParticipants)
	if err != nil {
		return Capacity{}, false
	}
	return c, true
}

// AvailableSpots returns the remaining spots; ok is false for uncapped events.
func (e *Event) AvailableSpots() (spots int, ok bool) {
	c, ok := e.Capacity()
	if !ok {
		return 0, false
	}
	return c.AvailableSpots(), true
}

// HasAvailableSpots is true for uncapped events and capped events with room.
func (e *Event) HasAvailableSpots() bool {
	spots, capped := e.AvailableSpots()
	return !capped || spots > 0
}

// IsFull reports whether a capped event has no spots left.
func (e *Event) IsFull() bool { return !e.HasAvailableSpots() }

func (e *Event) IsUpcoming(now time.Time) bool { return e.dates.IsInFuture(now) }
func (e *Event) IsOngoing(now time.Time) bool  { return e.dates.IsOngoing(now) }
func (e *Event) IsPast(now time.Time) bool     { return e.dates.IsInPast(now) }

// EffectiveStatus derives the status from the dates unless the event was cancelled.
func (e *Event) EffectiveStatus(now time.Time) Status {
	switch {
	case e.IsCancelled():
		return StatusCancelled
	case e.IsUpcoming(now):
		return StatusUpcoming
	case e.IsPast(now):
		return StatusPast
	default:
		return StatusOngoing
	}
}

// CanAddParticipant reports whether AddParticipant would succeed.
func (e *Event) CanAddParticipant() bool {
	return e.registrationOpen && !e.IsCancelled() && e.HasAvailableSpots()
}

// Slug derives a URL slug from the title.
func (e *Event) Slug() shared.Slug {
	s, err := shared.SlugFromTitleOr(e.title, "event", e.id.String())
	if err != nil {
		return shared.Slug("event")
	}
	return s
}

// MatchesSearch checks title, description, tags and location name/city.
func (e *Event) MatchesSearch(query string) bool {
	for _, field := range []string{e.title, e.description, e.location.Name(), e.location.City()} {
		if shared.ContainsFold(field, query) {
			return true
		}
	}
	for _, t := range e.tags {
		if shared.ContainsFold(t, query) {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (functional updates)
// ══════════════════════════════════════════════════════════════════════════════

// Registration error fields, used by callers to tell failures apart.
const (
	FieldRegistration = "registration"
	FieldParticipants = "participants"
)

// AddParticipant registers one participant. It fails with
// INVALID_STATE_TRANSITION when registration is closed or the event was
// cancelled, and with EVENT_FULL when no spots remain.
func (e *Event) AddParticipant() (*Event, error) {
	if e.IsCancelled() {
		return nil, shared.InvalidTransition(FieldRegistration, "cannot register for a cancelled event")
	}
	if !e.registrationOpen {
		return nil, shared.InvalidTransition(FieldRegistration, "registration is closed")
	}
	if !e.HasAvailableSpots() {
		return nil, shared.NewValidationError(FieldParticipants, shared.CodeEventFull, "event is full")
	}
	return e.update(func(p *Props) { p.CurrentParticipants++ })
}

// RemoveParticipant unregisters one participant; it fails when there are none.
func (e *Event) RemoveParticipant() (*Event, error) {
	if e.currentParticipants == 0 {
		return nil, shared.InvalidTransition(FieldParticipants, "event has no participants")
	}
	return e.update(func(p *Props) { p.CurrentParticipants-- })
}

// Cancel marks the event cancelled and closes registration.
func (e *Event) Cancel() (*Event, error) {
	if e.IsCancelled() {
		return e, nil
	}
	return e.update(func(p *Props) {
		p.Status = string(StatusCancelled)
		p.RegistrationOpen = false
	})
}

// OpenRegistration reopens registration; cancelled events cannot reopen.
func (e *Event) OpenRegistration() (*Event, error) {
	if e.IsCancelled() {
		return nil, shared.InvalidTransition(FieldRegistration, "cannot open registration for a cancelled event")
	}
	if e.registrationOpen {
		return e, nil
	}
	return e.update(func(p *Props) { p.RegistrationOpen = true })
}

// CloseRegistration stops new registrations.
func (e *Event) CloseRegistration() (*Event, error) {
	if !e.registrationOpen {
		return e, nil
	}
	return e.update(func(p *Props) { p.RegistrationOpen = false })
}

// Reschedule moves the event to a new date range.
func (e *Event) Reschedule(start, end time.Time) (*Event, error) {
	if e.IsCancelled() {
		return nil, shared.InvalidTransition("status", "cannot reschedule a cancelled event")
	}
	return e.update(func(p *Props) {
		p.StartDate = start
		p.EndDate = end
	})
}

// SyncStatus stores the date-derived status; cancelled events stay cancelled.
func (e *Event) SyncStatus(now time.Time) (*Event, error) {
	next := e.EffectiveStatus(now)
	if next == e.status {
		return e, nil
	}
	return e.update(func(p *Props) { p.Status = string(next) })
}
