package news

import (
	"fmt"
	"strings"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATEGORY
// ══════════════════════════════════════════════════════════════════════════════

type Category string

const (
	CategoryAnnouncement Category = "announcement"
	CategoryRelease      Category = "release"
	CategoryEvent        Category = "event"
	CategoryCommunity    Category = "community"
	CategoryPartnership  Category = "partnership"
)

var categoryNames = map[Category]string{
	CategoryAnnouncement: "Announcement",
	CategoryRelease:      "Release",
	CategoryEvent:        "Event",
	CategoryCommunity:    "Community",
	CategoryPartnership:  "Partnership",
}

func Categories() []Category {
	return []Category{CategoryAnnouncement, CategoryRelease, CategoryEvent, CategoryCommunity, CategoryPartnership}
}

func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := categoryNames[c]; !ok {
		return "", shared.UnknownValue("news category", value)
	}
	return c, nil
}

func (c Category) DisplayName() string        { return categoryNames[c] }
func (c Category) String() string             { return string(c) }
func (c Category) Equals(other Category) bool { return c == other }

// ══════════════════════════════════════════════════════════════════════════════
// READING TIME
// ══════════════════════════════════════════════════════════════════════════════

const (
	WordsPerMinute    = 200
	MinReadingMinutes = 1
	MaxReadingMinutes = 600
)

// ReadingTime is an estimate in whole minutes.
type ReadingTime struct {
	minutes int
}

// NewReadingTime validates 1 <= minutes <= 600.
func NewReadingTime(minutes int) (ReadingTime, error) {
	if minutes < MinReadingMinutes || minutes > MaxReadingMinutes {
		return ReadingTime{}, shared.OutOfRange("reading time",
			fmt.Sprintf("must be between %d and %d minutes", MinReadingMinutes, MaxReadingMinutes))
	}
	return ReadingTime{minutes: minutes}, nil
}

// ReadingTimeFromContent estimates ceil(words/200) minutes, at least one.
func ReadingTimeFromContent(content string) ReadingTime {
	words := len(strings.Fields(content))
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	minutes = max(minutes, MinReadingMinutes)
	minutes = min(minutes, MaxReadingMinutes)
	return ReadingTime{minutes: minutes}
}

func (r ReadingTime) Minutes() int { return r.minutes }

// String renders "N min read".
func (r ReadingTime) String() string { return fmt.Sprintf("%d min read", r.minutes) }

func (r ReadingTime) Equals(other ReadingTime) bool { return r.minutes == other.minutes }

// ══════════════════════════════════════════════════════════════════════════════
// PUBLISHED DATE
// ══════════════════════════════════════════════════════════════════════════════

// PublishedDate is the instant an article went public.
type PublishedDate struct {
	at time.Time
}

func NewPublishedDate(at time.Time) (PublishedDate, error) {
	if at.IsZero() {
		return PublishedDate{}, shared.EmptyField("published at")
	}
	return PublishedDate{at: at.UTC()}, nil
}

func (d PublishedDate) Time() time.Time { return d.at }

// IsRecent reports whether the date lies within the last days days of now.
func (d PublishedDate) IsRecent(now time.Time, days int) bool {
	if d.at.After(now) {
		return false
	}
	return now.Sub(d.at) <= time.Duration(days)*24*time.Hour
}

// DaysAgo returns the number of calendar days between the date and now.
func (d PublishedDate) DaysAgo(now time.Time) int { return timeutil.DaysSince(d.at, now) }

func (d PublishedDate) Equals(other PublishedDate) bool { return d.at.Equal(other.at) }
