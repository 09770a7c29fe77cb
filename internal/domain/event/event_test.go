package event

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

var baseTime = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func physical() LocationParams {
	return LocationParams{
		Name:    "City Library",
		Address: "1 Main St",
		City:    "Springfield",
		Country: "US",
	}
}

func validParams() NewEventParams {
	return NewEventParams{
		Title:           "Civic Data Workshop",
		Description:     "Hands-on introduction to open municipal data.",
		Type:            TypeWorkshop,
		StartDate:       baseTime,
		Location:        physical(),
		Tags:            []string{"data"},
		MaxParticipants: 50,
	}
}

func newEvent(t *testing.T, mutate func(*NewEventParams)) *Event {
	t.Helper()
	params := validParams()
	if mutate != nil {
		mutate(&params)
	}
	e, err := NewEvent(params)
	require.NoError(t, err)
	return e
}

func TestCapacity_Scenarios(t *testing.T) {
	nearly, err := NewCapacity(100, 95)
	require.NoError(t, err)
	assert.True(t, nearly.IsNearlyFull(0.9))
	assert.False(t, nearly.IsFull())
	assert.Equal(t, 5, nearly.AvailableSpots())

	full, err := NewCapacity(100, 100)
	require.NoError(t, err)
	assert.True(t, full.IsFull())

	zero, err := NewCapacity(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, zero.OccupancyRate())
	assert.True(t, zero.IsFull())
}

func TestCapacity_Invariant(t *testing.T) {
	_, err := NewCapacity(10, 11)
	assert.Equal(t, shared.CodeInvalidRange, shared.ValidationCodeOf(err))

	_, err = NewCapacity(-1, 0)
	assert.Equal(t, shared.CodeNegativeValue, shared.ValidationCodeOf(err))

	c, err := NewCapacity(10, 9)
	require.NoError(t, err)
	next, err := c.WithRegistration(1)
	require.NoError(t, err)
	assert.True(t, next.IsFull())

	_, err = next.WithRegistration(1)
	assert.Error(t, err)
	_, err = c.WithRegistration(-10)
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	loc, err := NewLocation(physical())
	require.NoError(t, err)
	assert.Equal(t, "City Library, Springfield", loc.DisplayName())

	online, err := NewLocation(LocationParams{Online: true, OnlineURL: "https://meet.example.org/civic"})
	require.NoError(t, err)
	assert.Equal(t, "Online", online.DisplayName())

	missingCity := physical()
	missingCity.City = ""
	_, err = NewLocation(missingCity)
	assert.Equal(t, "city", shared.ValidationFieldOf(err))

	lat := 91.0
	badLat := physical()
	badLat.Latitude = &lat
	_, err = NewLocation(badLat)
	assert.Equal(t, shared.CodeInvalidRange, shared.ValidationCodeOf(err))
}

func TestNewEvent_DefaultEndFromTypicalDuration(t *testing.T) {
	e := newEvent(t, func(p *NewEventParams) { p.Type = TypeHackathon })

	assert.Equal(t, 48*time.Hour, e.Dates().Duration())
	assert.Equal(t, StatusUpcoming, e.Status())
	assert.True(t, e.IsRegistrationOpen())
}

func TestNewEvent_Validation(t *testing.T) {
	_, err := NewEvent(NewEventParams{Type: TypeMeetup})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	long := validParams()
	long.Description = strings.Repeat("x", 5001)
	_, err = NewEvent(long)
	assert.Equal(t, "description", shared.ValidationFieldOf(err))

	backwards := validParams()
	backwards.EndDate = baseTime.Add(-time.Hour)
	_, err = NewEvent(backwards)
	assert.Equal(t, shared.CodeInvalidRange, shared.ValidationCodeOf(err))

	unknown := validParams()
	unknown.Type = "party"
	_, err = NewEvent(unknown)
	assert.Equal(t, shared.CodeInvalidValue, shared.ValidationCodeOf(err))
}

func TestEvent_AddParticipant(t *testing.T) {
	e := newEvent(t, func(p *NewEventParams) { p.MaxParticipants = 2 })

	e, err := e.AddParticipant()
	require.NoError(t, err)
	e, err = e.AddParticipant()
	require.NoError(t, err)
	assert.Equal(t, 2, e.CurrentParticipants())
	assert.False(t, e.CanAddParticipant())

	_, err = e.AddParticipant()
	assert.Equal(t, shared.CodeEventFull, shared.ValidationCodeOf(err))
	assert.ErrorIs(t, err, shared.ErrStateTransition)
}

func TestEvent_AddParticipantClosedOrCancelled(t *testing.T) {
	closed, err := newEvent(t, nil).CloseRegistration()
	require.NoError(t, err)
	_, err = closed.AddParticipant()
	assert.Equal(t, shared.CodeInvalidStateTransition, shared.ValidationCodeOf(err))
	assert.Equal(t, FieldRegistration, shared.ValidationFieldOf(err))

	cancelled, err := newEvent(t, nil).Cancel()
	require.NoError(t, err)
	assert.False(t, cancelled.IsRegistrationOpen())
	_, err = cancelled.AddParticipant()
	assert.Equal(t, FieldRegistration, shared.ValidationFieldOf(err))

	_, err = cancelled.OpenRegistration()
	assert.Error(t, err)
}

func TestEvent_UncappedAcceptsParticipants(t *testing.T) {
	e := newEvent(t, func(p *NewEventParams) { p.MaxParticipants = 0 })

	_, capped := e.AvailableSpots()
	assert.False(t, capped)
	_, ok := e.Capacity()
	assert.False(t, ok)

	e, err := e.AddParticipant()
	require.NoError(t, err)
	assert.Equal(t, 1, e.CurrentParticipants())
}

func TestEvent_RemoveParticipant(t *testing.T) {
	e := newEvent(t, nil)

	_, err := e.RemoveParticipant()
	assert.Equal(t, FieldParticipants, shared.ValidationFieldOf(err))

	added, err := e.AddParticipant()
	require.NoError(t, err)
	removed, err := added.RemoveParticipant()
	require.NoError(t, err)
	assert.Equal(t, 0, removed.CurrentParticipants())
	assert.Equal(t, 1, added.CurrentParticipants(), "receiver must not change")
}

func TestEvent_EffectiveStatus(t *testing.T) {
	e := newEvent(t, nil)

	assert.Equal(t, StatusUpcoming, e.EffectiveStatus(baseTime.Add(-time.Hour)))
	assert.Equal(t, StatusOngoing, e.EffectiveStatus(baseTime.Add(time.Hour)))
	assert.Equal(t, StatusPast, e.EffectiveStatus(baseTime.Add(4*time.Hour)))

	cancelled, err := e.Cancel()
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.EffectiveStatus(baseTime.Add(-time.Hour)))

	synced, err := e.SyncStatus(baseTime.Add(4 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, StatusPast, synced.Status())
}

func TestEvent_MatchesSearch(t *testing.T) {
	e := newEvent(t, nil)

	assert.True(t, e.MatchesSearch("springfield"))
	assert.True(t, e.MatchesSearch("LIBRARY"))
	assert.True(t, e.MatchesSearch("data"))
	assert.False(t, e.MatchesSearch("opera"))
}

func TestEventType_Table(t *testing.T) {
	assert.Equal(t, 3*time.Hour, TypeWorkshop.TypicalDuration())
	assert.Equal(t, 2*time.Hour, TypeMeetup.TypicalDuration())
	assert.Equal(t, 8*time.Hour, TypeConference.TypicalDuration())
	assert.Equal(t, "Hackathon", TypeHackathon.DisplayName())
	assert.NotEmpty(t, TypeHackathon.Icon())
}

func TestEvent_FromPersistenceRoundTrip(t *testing.T) {
	e := newEvent(t, nil)

	restored, err := EventFromPersistence(e.ToProps())

	require.NoError(t, err)
	assert.Equal(t, e.ToProps(), restored.ToProps())
}

func TestParticipantEvents(t *testing.T) {
	e, err := newEvent(t, nil).AddParticipant()
	require.NoError(t, err)

	registered := NewParticipantRegisteredEvent(e)
	assert.Equal(t, EventParticipantRegistered, registered.EventType())
	assert.Equal(t, AggregateType, registered.AggregateType())
	assert.Equal(t, e.ID().String(), registered.AggregateID())
	assert.Equal(t, map[string]any{"currentParticipants": 1, "maxParticipants": 50}, registered.EventData())

	back, err := e.RemoveParticipant()
	require.NoError(t, err)
	cancelled := NewParticipationCancelledEvent(back)
	assert.Equal(t, EventParticipationCancelled, cancelled.EventType())
	assert.Equal(t, 0, cancelled.EventData()["currentParticipants"])
}
