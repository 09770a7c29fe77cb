package shared

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// Text helpers
// ═══════════════════════════════════════════════════════════════════════════

// RequireText trims value and checks it holds between min and max runes.
// A min of zero makes the field optional.
func RequireText(field, value string, min, max int) (string, error) {
	v := strings.TrimSpace(value)
	n := utf8.RuneCountInString(v)
	if n == 0 && min > 0 {
		return "", EmptyField(field)
	}
	if n < min {
		return "", TooShort(field, min)
	}
	if max > 0 && n > max {
		return "", TooLong(field, max)
	}
	return v, nil
}

// OptionalURL validates an optional http(s) URL of at most max characters.
func OptionalURL(field, value string, max int) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", nil
	}
	if len(v) > max {
		return "", TooLong(field, max)
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", BadFormat(field, "must be an absolute http(s) URL")
	}
	return v, nil
}

// ContainsFold reports whether substr is within s, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ═══════════════════════════════════════════════════════════════════════════
// Tags
// ═══════════════════════════════════════════════════════════════════════════

const (
	MaxTagLength = 50
	MaxTags      = 20
)

// NormalizeTag trims and validates a single tag.
func NormalizeTag(tag string) (string, error) {
	return RequireText("tag", tag, 1, MaxTagLength)
}

// NormalizeTags validates every tag, drops duplicates (first occurrence wins)
// and enforces MaxTags.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		v, err := NormalizeTag(t)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) > MaxTags {
		return nil, OutOfRange("tags", fmt.Sprintf("cannot contain more than %d entries", MaxTags))
	}
	return out, nil
}

// HasAnyTag reports whether tags contains any of wanted, case-insensitively.
func HasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

// TagSetEqual compares two tag lists as sets.
func TagSetEqual(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, t := range a {
		as[t] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, t := range b {
		bs[t] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for t := range as {
		if _, ok := bs[t]; !ok {
			return false
		}
	}
	return true
}

// TagDiff returns the tags present in next but not prev, and in prev but not next.
func TagDiff(prev, next []string) (added, removed []string) {
	inPrev := make(map[string]struct{}, len(prev))
	for _, t := range prev {
		inPrev[t] = struct{}{}
	}
	inNext := make(map[string]struct{}, len(next))
	for _, t := range next {
		inNext[t] = struct{}{}
	}
	added = []string{}
	removed = []string{}
	for _, t := range next {
		if _, ok := inPrev[t]; !ok {
			added = append(added, t)
		}
	}
	for _, t := range prev {
		if _, ok := inNext[t]; !ok {
			removed = append(removed, t)
		}
	}
	return added, removed
}

// ═══════════════════════════════════════════════════════════════════════════
// Slug Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Slug is a URL-safe identifier derived from a title.
type Slug string

const MaxSlugLength = 100

var (
	slugRegex      = regexp.MustCompile(`^[a-z0-9-]+$`)
	slugStripRegex = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSepRegex   = regexp.MustCompile(`[\s_-]+`)
)

// NewSlug validates an existing slug.
func NewSlug(value string) (Slug, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", EmptyField("slug")
	}
	if len(v) > MaxSlugLength {
		return "", TooLong("slug", MaxSlugLength)
	}
	if !slugRegex.MatchString(v) {
		return "", BadFormat("slug", "can only contain lowercase letters, numbers, and hyphens")
	}
	return Slug(v), nil
}

// SlugFromTitle derives a slug from a title. Accents are folded to their base
// letter; any other non-ASCII text is dropped, so a title written entirely in
// a non-Latin script yields an EMPTY_FIELD error. Use SlugFromTitleOr when a
// fallback is acceptable.
func SlugFromTitle(title string) (Slug, error) {
	s := strings.ToLower(foldDiacritics(title))
	s = slugStripRegex.ReplaceAllString(s, "")
	s = slugSepRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-")
	}
	return NewSlug(s)
}

// SlugFromTitleOr derives a slug from title, falling back to "<prefix>-<id[:8]>".
func SlugFromTitleOr(title, prefix, id string) (Slug, error) {
	if s, err := SlugFromTitle(title); err == nil {
		return s, nil
	}
	short := strings.ToLower(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return NewSlug(prefix + "-" + short)
}

// String returns the string representation.
func (s Slug) String() string { return string(s) }

// Equals compares by value.
func (s Slug) Equals(other Slug) bool { return s == other }

func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// ═══════════════════════════════════════════════════════════════════════════
// Email Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Email is a normalized (trimmed, lowercase) e-mail address.
type Email string

const MaxEmailLength = 254

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// NewEmail validates and normalizes an e-mail address.
func NewEmail(value string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", EmptyField("email")
	}
	if len(v) > MaxEmailLength {
		return "", TooLong("email", MaxEmailLength)
	}
	if strings.Contains(v, "..") || !emailRegex.MatchString(v) {
		return "", BadFormat("email", "must be a valid email address")
	}
	return Email(v), nil
}

// String returns the string representation.
func (e Email) String() string { return string(e) }

// Domain returns the part after '@'.
func (e Email) Domain() string {
	if i := strings.LastIndexByte(string(e), '@'); i >= 0 {
		return string(e)[i+1:]
	}
	return ""
}

// Equals compares by value.
func (e Email) Equals(other Email) bool { return e == other }

// ═══════════════════════════════════════════════════════════════════════════
// DateRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// MaxDateRangeYears is the longest span a DateRange may cover, in calendar
// years, so a range across a leap day is still one year.
const MaxDateRangeYears = 1

// DateRange is a half-validated time span: start strictly before end.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange validates start < end and a duration of at most one year.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() {
		return DateRange{}, EmptyField("start date")
	}
	if end.IsZero() {
		return DateRange{}, EmptyField("end date")
	}
	if !start.Before(end) {
		return DateRange{}, OutOfRange("date range", "start date must be before end date")
	}
	if end.After(start.AddDate(MaxDateRangeYears, 0, 0)) {
		return DateRange{}, OutOfRange("date range", "cannot exceed 1 year")
	}
	return DateRange{start: start.UTC(), end: end.UTC()}, nil
}

// Start returns the start instant.
func (r DateRange) Start() time.Time { return r.start }

// End returns the end instant.
func (r DateRange) End() time.Time { return r.end }

// Duration returns end - start.
func (r DateRange) Duration() time.Duration { return r.end.Sub(r.start) }

// IsInFuture reports whether the range starts after now.
func (r DateRange) IsInFuture(now time.Time) bool { return r.start.After(now) }

// IsInPast reports whether the range ended before now.
func (r DateRange) IsInPast(now time.Time) bool { return r.end.Before(now) }

// IsOngoing reports whether now is within the range.
func (r DateRange) IsOngoing(now time.Time) bool { return r.Contains(now) }

// IsSingleDay reports whether start and end fall on the same UTC day.
func (r DateRange) IsSingleDay() bool { return timeutil.IsSameDay(r.start, r.end) }

// Overlaps reports whether the two ranges share any instant besides a touching boundary.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// Contains reports whether t is within [start, end].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// Equals compares by value.
func (r DateRange) Equals(other DateRange) bool {
	return r.start.Equal(other.start) && r.end.Equal(other.end)
}
