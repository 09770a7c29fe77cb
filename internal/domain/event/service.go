package event

import (
	"math"
	"strings"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVENT SERVICE
// Stateless queries over event slices. Inputs are never modified.
// ══════════════════════════════════════════════════════════════════════════════

// Sort fields accepted by SortEvents.
const (
	SortByTitle         = "title"
	SortByStartDate     = "startDate"
	SortByEndDate       = "endDate"
	SortByCreatedAt     = "createdAt"
	SortByParticipants  = "participants"
	SortByAvailableSpot = "availableSpots"
	SortByType          = "type"
)

// Filters narrows an event listing. Zero-valued criteria are ignored.
// Status is compared against EffectiveStatus at now.
type Filters struct {
	Type              Type
	Status            Status
	Upcoming          *bool // start date strictly after now
	Tags              []string
	Online            *bool
	HasAvailableSpots *bool
	RegistrationOpen  *bool
	City              string
	StartsAfter       time.Time
	StartsBefore      time.Time
	Search            string
}

// FilterEvents keeps events matching every set criterion.
func FilterEvents(events []*Event, f Filters, now time.Time) []*Event {
	return shared.Filter(events, func(e *Event) bool {
		if f.Type != "" && e.Type() != f.Type {
			return false
		}
		if f.Status != "" && e.EffectiveStatus(now) != f.Status {
			return false
		}
		if f.Upcoming != nil && e.IsUpcoming(now) != *f.Upcoming {
			return false
		}
		if len(f.Tags) > 0 && !shared.HasAnyTag(e.tags, f.Tags) {
			return false
		}
		if f.Online != nil && e.location.IsOnline() != *f.Online {
			return false
		}
		if f.HasAvailableSpots != nil && e.HasAvailableSpots() != *f.HasAvailableSpots {
			return false
		}
		if f.RegistrationOpen != nil && e.IsRegistrationOpen() != *f.RegistrationOpen {
			return false
		}
		if f.City != "" && !strings.EqualFold(strings.TrimSpace(f.City), e.location.City()) {
			return false
		}
		if !f.StartsAfter.IsZero() && e.StartDate().Before(f.StartsAfter) {
			return false
		}
		if !f.StartsBefore.IsZero() && e.StartDate().After(f.StartsBefore) {
			return false
		}
		if q := strings.TrimSpace(f.Search); q != "" && !e.MatchesSearch(q) {
			return false
		}
		return true
	})
}

// SearchEvents returns events matching query. A blank query returns a copy.
func SearchEvents(events []*Event, query string) []*Event {
	q := strings.TrimSpace(query)
	if q == "" {
		return shared.Filter(events, func(*Event) bool { return true })
	}
	return shared.Filter(events, func(e *Event) bool { return e.MatchesSearch(q) })
}

// SortEvents returns a stably sorted copy; ties fall back to title ascending.
func SortEvents(events []*Event, opts shared.SortOptions) []*Event {
	col := shared.NewCollator()
	byTitle := func(a, b *Event) int { return col.Compare(a.Title(), b.Title()) }

	var primary func(a, b *Event) int
	switch opts.Field {
	case SortByTitle:
		return shared.StableSort(events, opts.Desc(), byTitle)
	case SortByStartDate:
		primary = func(a, b *Event) int { return a.StartDate().Compare(b.StartDate()) }
	case SortByEndDate:
		primary = func(a, b *Event) int { return a.EndDate().Compare(b.EndDate()) }
	case SortByCreatedAt:
		primary = func(a, b *Event) int { return a.CreatedAt().Compare(b.CreatedAt()) }
	case SortByParticipants:
		primary = func(a, b *Event) int {
			return shared.CompareInts(a.CurrentParticipants(), b.CurrentParticipants())
		}
	case SortByAvailableSpot:
		primary = func(a, b *Event) int { return shared.CompareInts(spotsOrMax(a), spotsOrMax(b)) }
	case SortByType:
		primary = func(a, b *Event) int { return col.Compare(string(a.Type()), string(b.Type())) }
	default:
		return shared.Filter(events, func(*Event) bool { return true })
	}
	return shared.SortBy(events, opts.Desc(), primary, byTitle)
}

// uncapped events sort as having unlimited spots
func spotsOrMax(e *Event) int {
	spots, capped := e.AvailableSpots()
	if !capped {
		return math.MaxInt
	}
	return spots
}

// GetUpcomingEvents returns events that have not started and are not
// cancelled, soonest first.
func GetUpcomingEvents(events []*Event, now time.Time, limit int) []*Event {
	upcoming := shared.Filter(events, func(e *Event) bool {
		return !e.IsCancelled() && e.IsUpcoming(now)
	})
	col := shared.NewCollator()
	sorted := shared.SortBy(upcoming, false,
		func(a, b *Event) int { return a.StartDate().Compare(b.StartDate()) },
		func(a, b *Event) int { return col.Compare(a.Title(), b.Title()) })
	return shared.Truncate(sorted, limit)
}

// GetFeaturedEvents returns upcoming events with open registration, most
// registrations first, then soonest.
func GetFeaturedEvents(events []*Event, now time.Time, limit int) []*Event {
	open := shared.Filter(events, func(e *Event) bool {
		return !e.IsCancelled() && e.IsUpcoming(now) && e.IsRegistrationOpen()
	})
	ranked := shared.StableSort(open, false, func(a, b *Event) int {
		if c := shared.CompareInts(b.CurrentParticipants(), a.CurrentParticipants()); c != 0 {
			return c
		}
		return a.StartDate().Compare(b.StartDate())
	})
	return shared.Truncate(ranked, limit)
}

// Stats summarizes a set of events at a point in time.
type Stats struct {
	Total           int
	Upcoming        int
	Ongoing         int
	Past            int
	Cancelled       int
	Online          int
	ByType          map[Type]int
	TotalCapacity   int
	TotalRegistered int
}

// GetEventStats computes Stats in a single pass. Uncapped events do not
// contribute to TotalCapacity.
func GetEventStats(events []*Event, now time.Time) Stats {
	s := Stats{Total: len(events), ByType: make(map[Type]int)}
	for _, e := range events {
		switch e.EffectiveStatus(now) {
		case StatusUpcoming:
			s.Upcoming++
		case StatusOngoing:
			s.Ongoing++
		case StatusPast:
			s.Past++
		case StatusCancelled:
			s.Cancelled++
		}
		if e.location.IsOnline() {
			s.Online++
		}
		s.ByType[e.Type()]++
		s.TotalCapacity += e.MaxParticipants()
		s.TotalRegistered += e.CurrentParticipants()
	}
	return s
}

// GetPopularTags counts tags across events, most used first.
func GetPopularTags(events []*Event, limit int) []shared.TagCount {
	return shared.CountTags(events, func(e *Event) []string { return e.tags }, limit)
}
