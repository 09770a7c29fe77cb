package project

import (
	"strings"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CATEGORY
// ══════════════════════════════════════════════════════════════════════════════

// Category groups projects by the public service they improve.
type Category string

const (
	CategoryGovernment     Category = "government"
	CategoryEducation      Category = "education"
	CategoryEnvironment    Category = "environment"
	CategoryHealthcare     Category = "healthcare"
	CategoryTransportation Category = "transportation"
	CategoryCivicTech      Category = "civic-tech"
)

var categoryNames = map[Category]string{
	CategoryGovernment:     "Government",
	CategoryEducation:      "Education",
	CategoryEnvironment:    "Environment",
	CategoryHealthcare:     "Healthcare",
	CategoryTransportation: "Transportation",
	CategoryCivicTech:      "Civic Tech",
}

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryGovernment, CategoryEducation, CategoryEnvironment,
		CategoryHealthcare, CategoryTransportation, CategoryCivicTech,
	}
}

// ParseCategory validates a category value.
func ParseCategory(value string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(value)))
	if !c.IsValid() {
		return "", shared.UnknownValue("project category", value)
	}
	return c, nil
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human-readable name.
func (c Category) DisplayName() string { return categoryNames[c] }

// String returns the string representation.
func (c Category) String() string { return string(c) }

// Equals compares by value.
func (c Category) Equals(other Category) bool { return c == other }

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the lifecycle stage of a project.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// allowedTransitions lists, per status, the statuses it may move to.
var allowedTransitions = map[Status][]Status{
	StatusPlanning:  {StatusActive, StatusArchived},
	StatusActive:    {StatusCompleted, StatusPlanning, StatusArchived},
	StatusCompleted: {StatusActive, StatusArchived},
	StatusArchived:  {StatusPlanning, StatusActive},
}

// Statuses lists every status.
func Statuses() []Status {
	return []Status{StatusActive, StatusCompleted, StatusPlanning, StatusArchived}
}

// ParseStatus validates a status value.
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if !s.IsValid() {
		return "", shared.UnknownValue("project status", value)
	}
	return s, nil
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the project is being worked on.
func (s Status) IsActive() bool { return s == StatusActive }

// IsCompleted reports whether the project has shipped.
func (s Status) IsCompleted() bool { return s == StatusCompleted }

// String returns the string representation.
func (s Status) String() string { return string(s) }

// Equals compares by value.
func (s Status) Equals(other Status) bool { return s == other }

// ══════════════════════════════════════════════════════════════════════════════
// GITHUB METRICS
// ══════════════════════════════════════════════════════════════════════════════

// GitHubMetrics holds repository popularity counters.
type GitHubMetrics struct {
	stars int
	forks int
}

// NewGitHubMetrics validates that both counters are non-negative.
func NewGitHubMetrics(stars, forks int) (GitHubMetrics, error) {
	if stars < 0 {
		return GitHubMetrics{}, shared.Negative("stars")
	}
	if forks < 0 {
		return GitHubMetrics{}, shared.Negative("forks")
	}
	return GitHubMetrics{stars: stars, forks: forks}, nil
}

// Stars returns the star count.
func (m GitHubMetrics) Stars() int { return m.stars }

// Forks returns the fork count.
func (m GitHubMetrics) Forks() int { return m.forks }

// PopularityScore weights stars twice as much as forks.
func (m GitHubMetrics) PopularityScore() int { return m.stars*2 + m.forks }

// Equals compares by value.
func (m GitHubMetrics) Equals(other GitHubMetrics) bool {
	return m.stars == other.stars && m.forks == other.forks
}
