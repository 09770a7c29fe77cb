package project

import (
	"slices"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN EVENTS
// Raised by ProjectAggregate and dispatched by the application layer.
// ══════════════════════════════════════════════════════════════════════════════

// AggregateType is the aggregate name carried by every project event.
const AggregateType = "Project"

const (
	EventProjectCreated       shared.EventType = "ProjectCreated"
	EventProjectStatusChanged shared.EventType = "ProjectStatusChanged"
	EventProjectStatsUpdated  shared.EventType = "ProjectStatsUpdated"
	EventProjectTagsChanged   shared.EventType = "ProjectTagsChanged"
)

// ProjectCreatedEvent - a new project was created.
type ProjectCreatedEvent struct {
	shared.BaseEvent
	Title    string
	Category Category
	Status   Status
}

// NewProjectCreatedEvent creates the event for p.
func NewProjectCreatedEvent(p *Project) ProjectCreatedEvent {
	return ProjectCreatedEvent{
		BaseEvent: shared.NewBaseEvent(EventProjectCreated, AggregateType, p.ID().String()),
		Title:     p.Title(),
		Category:  p.Category(),
		Status:    p.Status(),
	}
}

// EventData implements shared.DomainEvent.
func (e ProjectCreatedEvent) EventData() map[string]any {
	return map[string]any{
		"title":    e.Title,
		"category": string(e.Category),
		"status":   string(e.Status),
	}
}

// ProjectStatusChangedEvent - the project moved to another lifecycle stage.
type ProjectStatusChangedEvent struct {
	shared.BaseEvent
	PreviousStatus Status
	NewStatus      Status
	ChangedAt      time.Time
}

// NewProjectStatusChangedEvent creates the event.
func NewProjectStatusChangedEvent(id shared.ProjectID, previous, next Status, changedAt time.Time) ProjectStatusChangedEvent {
	return ProjectStatusChangedEvent{
		BaseEvent:      shared.NewBaseEvent(EventProjectStatusChanged, AggregateType, id.String()),
		PreviousStatus: previous,
		NewStatus:      next,
		ChangedAt:      changedAt,
	}
}

// EventData implements shared.DomainEvent.
func (e ProjectStatusChangedEvent) EventData() map[string]any {
	return map[string]any{
		"previousStatus": string(e.PreviousStatus),
		"newStatus":      string(e.NewStatus),
		"changedAt":      timeutil.FormatISO(e.ChangedAt),
	}
}

// ProjectStatsUpdatedEvent - the GitHub counters changed.
type ProjectStatsUpdatedEvent struct {
	shared.BaseEvent
	PreviousStars int
	NewStars      int
	PreviousForks int
	NewForks      int
}

// NewProjectStatsUpdatedEvent creates the event.
func NewProjectStatsUpdatedEvent(id shared.ProjectID, previous, next GitHubMetrics) ProjectStatsUpdatedEvent {
	return ProjectStatsUpdatedEvent{
		BaseEvent:     shared.NewBaseEvent(EventProjectStatsUpdated, AggregateType, id.String()),
		PreviousStars: previous.Stars(),
		NewStars:      next.Stars(),
		PreviousForks: previous.Forks(),
		NewForks:      next.Forks(),
	}
}

// EventData implements shared.DomainEvent.
func (e ProjectStatsUpdatedEvent) EventData() map[string]any {
	return map[string]any{
		"previousStars": e.PreviousStars,
		"newStars":      e.NewStars,
		"previousForks": e.PreviousForks,
		"newForks":      e.NewForks,
	}
}

// ProjectTagsChangedEvent - the tag set changed.
type ProjectTagsChangedEvent struct {
	shared.BaseEvent
	PreviousTags []string
	NewTags      []string
	AddedTags    []string
	RemovedTags  []string
}

// NewProjectTagsChangedEvent creates the event, computing the added and removed tags.
func NewProjectTagsChangedEvent(id shared.ProjectID, previous, next []string) ProjectTagsChangedEvent {
	added, removed := shared.TagDiff(previous, next)
	return ProjectTagsChangedEvent{
		BaseEvent:    shared.NewBaseEvent(EventProjectTagsChanged, AggregateType, id.String()),
		PreviousTags: slices.Clone(previous),
		NewTags:      slices.Clone(next),
		AddedTags:    added,
		RemovedTags:  removed,
	}
}

// EventData implements shared.DomainEvent.
func (e ProjectTagsChangedEvent) EventData() map[string]any {
	return map[string]any{
		"previousTags": nonNil(e.PreviousTags),
		"newTags":      nonNil(e.NewTags),
		"addedTags":    nonNil(e.AddedTags),
		"removedTags":  nonNil(e.RemovedTags),
	}
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
