package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVENT TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type is the kind of gathering.
type Type string

const (
	TypeWorkshop   Type = "workshop"
	TypeHackathon  Type = "hackathon"
	TypeMeetup     Type = "meetup"
	TypeConference Type = "conference"
)

type typeInfo struct {
	name     string
	icon     string
	duration time.Duration
}

var typeTable = map[Type]typeInfo{
	TypeWorkshop:   {name: "Workshop", icon: "🛠️", duration: 3 * time.Hour},
	TypeHackathon:  {name: "Hackathon", icon: "💻", duration: 48 * time.Hour},
	TypeMeetup:     {name: "Meetup", icon: "🤝", duration: 2 * time.Hour},
	TypeConference: {name: "Conference", icon: "🎤", duration: 8 * time.Hour},
}

// Types lists every event type.
func Types() []Type {
	return []Type{TypeWorkshop, TypeHackathon, TypeMeetup, TypeConference}
}

// ParseType validates an event type.
func ParseType(value string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", shared.UnknownValue("event type", value)
	}
	return t, nil
}

func (t Type) IsValid() bool {
	_, ok := typeTable[t]
	return ok
}

// DisplayName returns the human-readable name.
func (t Type) DisplayName() string { return typeTable[t].name }

// Icon returns an emoji for listings.
func (t Type) Icon() string { return typeTable[t].icon }

// TypicalDuration is used when an event is created without an end date.
func (t Type) TypicalDuration() time.Duration { return typeTable[t].duration }

func (t Type) String() string         { return string(t) }
func (t Type) Equals(other Type) bool { return t == other }

// ══════════════════════════════════════════════════════════════════════════════
// EVENT STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the lifecycle stage of an event.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusPast      Status = "past"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates an event status.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	switch s {
	case StatusUpcoming, StatusOngoing, StatusPast, StatusCancelled:
		return s, nil
	}
	return "", shared.UnknownValue("event status", value)
}

func (s Status) String() string           { return string(s) }
func (s Status) Equals(other Status) bool { return s == other }

// ══════════════════════════════════════════════════════════════════════════════
// CAPACITY
// ══════════════════════════════════════════════════════════════════════════════

// Capacity tracks registrations against a maximum.
// Invariant: 0 <= registered <= max.
type Capacity struct {
	max        int
	registered int
}

// NewCapacity validates the capacity invariant.
func NewCapacity(max, registered int) (Capacity, error) {
	if max < 0 {
		return Capacity{}, shared.Negative("max capacity")
	}
	if registered < 0 {
		return Capacity{}, shared.Negative("current registered")
	}
	if registered > max {
		return Capacity{}, shared.OutOfRange("current registered", "cannot exceed max capacity")
	}
	return Capacity{max: max, registered: registered}, nil
}

func (c Capacity) Max() int        { return c.max }
func (c Capacity) Registered() int { return c.registered }

// AvailableSpots returns max - registered.
func (c Capacity) AvailableSpots() int { return c.max - c.registered }

// OccupancyRate returns registered/max, or 1 for a zero capacity.
func (c Capacity) OccupancyRate() float64 {
	if c.max == 0 {
		return 1
	}
	return float64(c.registered) / float64(c.max)
}

// IsFull reports whether no spots remain.
func (c Capacity) IsFull() bool { return c.registered >= c.max }

// IsNearlyFull reports whether occupancy reached threshold (0 < threshold <= 1).
func (c Capacity) IsNearlyFull(threshold float64) bool {
	return c.OccupancyRate() >= threshold
}

// WithRegistration returns a capacity with n more (or, for negative n, fewer)
// registrations.
func (c Capacity) WithRegistration(n int) (Capacity, error) {
	return NewCapacity(c.max, c.registered+n)
}

func (c Capacity) Equals(other Capacity) bool {
	return c.max == other.max && c.registered == other.registered
}

// ══════════════════════════════════════════════════════════════════════════════
// LOCATION
// ══════════════════════════════════════════════════════════════════════════════

// Location field limits.
const (
	MaxLocationNameLength = 200
	MaxAddressLength      = 300
	MaxCityLength         = 100
	MaxCountryLength      = 100
)

// LocationParams is the raw form of a Location.
type LocationParams struct {
	Name      string
	Address   string
	City      string
	Country   string
	Online    bool
	OnlineURL string
	Latitude  *float64
	Longitude *float64
}

// Location is where an event takes place, physically or online.
type Location struct {
	name      string
	address   string
	city      string
	country   string
	online    bool
	onlineURL string
	latitude  *float64
	longitude *float64
}

// NewLocation validates a location. Physical locations need name, address,
// city and country; online ones may omit them.
func NewLocation(p LocationParams) (Location, error) {
	min := 1
	if p.Online {
		min = 0
	}
	name, err := shared.RequireText("location name", p.Name, min, MaxLocationNameLength)
	if err != nil {
		return Location{}, err
	}
	address, err := shared.RequireText("address", p.Address, min, MaxAddressLength)
	if err != nil {
		return Location{}, err
	}
	city, err := shared.RequireText("city", p.City, min, MaxCityLength)
	if err != nil {
		return Location{}, err
	}
	country, err := shared.RequireText("country", p.Country, min, MaxCountryLength)
	if err != nil {
		return Location{}, err
	}
	onlineURL, err := shared.OptionalURL("online url", p.OnlineURL, 500)
	if err != nil {
		return Location{}, err
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		return Location{}, shared.OutOfRange("latitude", "must be between -90 and 90")
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		return Location{}, shared.OutOfRange("longitude", "must be between -180 and 180")
	}
	return Location{
		name:      name,
		address:   address,
		city:      city,
		country:   country,
		online:    p.Online,
		onlineURL: onlineURL,
		latitude:  copyFloat(p.Latitude),
		longitude: copyFloat(p.Longitude),
	}, nil
}

// Params returns the raw form of the location.
func (l Location) Params() LocationParams {
	return LocationParams{
		Name:      l.name,
		Address:   l.address,
		City:      l.city,
		Country:   l.country,
		Online:    l.online,
		OnlineURL: l.onlineURL,
		Latitude:  copyFloat(l.latitude),
		Longitude: copyFloat(l.longitude),
	}
}

func (l Location) Name() string      { return l.name }
func (l Location) Address() string   { return l.address }
func (l Location) City() string      { return l.city }
func (l Location) Country() string   { return l.country }
func (l Location) IsOnline() bool    { return l.online }
func (l Location) OnlineURL() string { return l.onlineURL }

// Coordinates returns latitude and longitude when both are known.
func (l Location) Coordinates() (lat, long float64, ok bool) {
	if l.latitude == nil || l.longitude == nil {
		return 0, 0, false
	}
	return *l.latitude, *l.longitude, true
}

// DisplayName is "Online" (or the venue name) for online events and
// "name, city" otherwise.
func (l Location) DisplayName() string {
	if l.online {
		if l.name != "" {
			return l.name
		}
		return "Online"
	}
	return fmt.Sprintf("%s, %s", l.name, l.city)
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
