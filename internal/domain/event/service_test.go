package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

func withRegistrations(t *testing.T, e *Event, n int) *Event {
	t.Helper()
	props := e.ToProps()
	props.CurrentParticipants = n
	restored, err := EventFromPersistence(props)
	require.NoError(t, err)
	return restored
}

func eventTitles(events []*Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title()
	}
	return out
}

func TestFilterEvents_HasAvailableSpots(t *testing.T) {
	workshop := withRegistrations(t, newEvent(t, func(p *NewEventParams) {
		p.Title = "Workshop"
		p.Type = TypeWorkshop
		p.MaxParticipants = 50
	}), 25)
	hackathon := withRegistrations(t, newEvent(t, func(p *NewEventParams) {
		p.Title = "Hackathon"
		p.Type = TypeHackathon
		p.MaxParticipants = 100
	}), 100)
	yes := true

	got := FilterEvents([]*Event{workshop, hackathon}, Filters{HasAvailableSpots: &yes}, baseTime)

	require.Len(t, got, 1)
	assert.Equal(t, workshop.ID(), got[0].ID())
}

func TestFilterEvents_Criteria(t *testing.T) {
	online := newEvent(t, func(p *NewEventParams) {
		p.Title = "Remote Meetup"
		p.Type = TypeMeetup
		p.Location = LocationParams{Online: true}
		p.StartDate = baseTime.Add(48 * time.Hour)
	})
	local := newEvent(t, nil)
	events := []*Event{local, online}
	yes := true
	now := baseTime.Add(-time.Hour)

	assert.Equal(t, []string{"Remote Meetup"}, eventTitles(FilterEvents(events, Filters{Online: &yes}, now)))
	assert.Equal(t, []string{"Civic Data Workshop"}, eventTitles(FilterEvents(events, Filters{City: "springfield"}, now)))
	assert.Equal(t, []string{"Remote Meetup"},
		eventTitles(FilterEvents(events, Filters{StartsAfter: baseTime.Add(time.Hour)}, now)))
	assert.Equal(t, []string{"Remote Meetup"},
		eventTitles(FilterEvents(events, Filters{Status: StatusUpcoming}, baseTime.Add(time.Hour))))
	no := false
	assert.Equal(t, []string{"Civic Data Workshop"},
		eventTitles(FilterEvents(events, Filters{Upcoming: &no}, baseTime.Add(time.Hour))))
	assert.Len(t, FilterEvents(events, Filters{}, now), 2)
}

func TestSearchEvents(t *testing.T) {
	events := []*Event{newEvent(t, nil), newEvent(t, func(p *NewEventParams) { p.Title = "Transit Meetup" })}

	assert.Equal(t, eventTitles(events), eventTitles(SearchEvents(events, "")))
	assert.Equal(t, []string{"Transit Meetup"}, eventTitles(SearchEvents(events, "transit")))
}

func TestSortEvents(t *testing.T) {
	a := newEvent(t, func(p *NewEventParams) {
		p.Title = "Beta"
		p.StartDate = baseTime.Add(time.Hour)
	})
	b := newEvent(t, func(p *NewEventParams) {
		p.Title = "Alpha"
		p.StartDate = baseTime.Add(time.Hour)
	})
	c := newEvent(t, func(p *NewEventParams) {
		p.Title = "Gamma"
		p.StartDate = baseTime
	})
	events := []*Event{a, b, c}

	asc := SortEvents(events, shared.SortOptions{Field: SortByStartDate})
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, eventTitles(asc))

	desc := SortEvents(events, shared.SortOptions{Field: SortByStartDate, Direction: shared.SortDesc})
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, eventTitles(desc))

	assert.Equal(t, eventTitles(events), eventTitles(SortEvents(events, shared.SortOptions{Field: "nope"})))
}

func TestGetUpcomingAndFeaturedEvents(t *testing.T) {
	soon := withRegistrations(t, newEvent(t, func(p *NewEventParams) {
		p.Title = "Soon"
		p.StartDate = baseTime.Add(24 * time.Hour)
	}), 5)
	later := withRegistrations(t, newEvent(t, func(p *NewEventParams) {
		p.Title = "Later"
		p.StartDate = baseTime.Add(72 * time.Hour)
	}), 30)
	closed := newEvent(t, func(p *NewEventParams) {
		p.Title = "Closed"
		p.StartDate = baseTime.Add(48 * time.Hour)
		p.RegistrationClosed = true
	})
	past := newEvent(t, func(p *NewEventParams) {
		p.Title = "Past"
		p.StartDate = baseTime.Add(-72 * time.Hour)
	})
	events := []*Event{past, later, closed, soon}

	assert.Equal(t, []string{"Soon", "Closed", "Later"}, eventTitles(GetUpcomingEvents(events, baseTime, 0)))
	assert.Equal(t, []string{"Soon"}, eventTitles(GetUpcomingEvents(events, baseTime, 1)))
	assert.Equal(t, []string{"Later", "Soon"}, eventTitles(GetFeaturedEvents(events, baseTime, 5)))
}

func TestGetEventStats(t *testing.T) {
	upcoming := withRegistrations(t, newEvent(t, func(p *NewEventParams) {
		p.StartDate = baseTime.Add(24 * time.Hour)
	}), 10)
	online := newEvent(t, func(p *NewEventParams) {
		p.Type = TypeMeetup
		p.Location = LocationParams{Online: true}
		p.MaxParticipants = 0
		p.StartDate = baseTime.Add(-72 * time.Hour)
	})
	cancelled, err := newEvent(t, nil).Cancel()
	require.NoError(t, err)

	stats := GetEventStats([]*Event{upcoming, online, cancelled}, baseTime.Add(time.Minute))

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Upcoming)
	assert.Equal(t, 1, stats.Past)
	assert.Equal(t, 1, stats.Cancelled)
	assert.Equal(t, 1, stats.Online)
	assert.Equal(t, 2, stats.ByType[TypeWorkshop])
	assert.Equal(t, 100, stats.TotalCapacity)
	assert.Equal(t, 10, stats.TotalRegistered)
}
