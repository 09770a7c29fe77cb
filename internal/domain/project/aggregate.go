package project

import (
	"slices"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATE ROOT
// ══════════════════════════════════════════════════════════════════════════════

// Aggregate wraps a Project and buffers the domain events raised by its
// operations. It never dispatches events itself; the caller saves the project,
// publishes DomainEvents and then calls ClearDomainEvents.
//
// An Aggregate is owned by a single code path and is not safe for concurrent use.
type Aggregate struct {
	project *Project
	events  []shared.DomainEvent
}

// NewProjectAggregate creates a project and raises ProjectCreated.
func NewProjectAggregate(params NewProjectParams) (*Aggregate, error) {
	p, err := NewProject(params)
	if err != nil {
		return nil, err
	}
	a := &Aggregate{project: p}
	a.raise(NewProjectCreatedEvent(p))
	return a, nil
}

// LoadProjectAggregate wraps an existing project without raising events.
func LoadProjectAggregate(p *Project) *Aggregate {
	return &Aggregate{project: p}
}

// Project returns the current project snapshot.
func (a *Aggregate) Project() *Project { return a.project }

// ID returns the project id.
func (a *Aggregate) ID() shared.ProjectID { return a.project.ID() }

// ChangeStatus moves the project to next and raises ProjectStatusChanged.
// Moving to the current status is a no-op.
func (a *Aggregate) ChangeStatus(next Status) error {
	previous := a.project.Status()
	if next == previous {
		return nil
	}
	updated, err := a.project.UpdateStatus(next)
	if err != nil {
		return err
	}
	a.project = updated
	a.raise(NewProjectStatusChangedEvent(updated.ID(), previous, next, updated.UpdatedAt()))
	return nil
}

// UpdateGitHubStats replaces the counters and raises ProjectStatsUpdated.
// Unchanged counters are a no-op.
func (a *Aggregate) UpdateGitHubStats(stars, forks int) error {
	previous := a.project.Metrics()
	if previous.Stars() == stars && previous.Forks() == forks {
		return nil
	}
	updated, err := a.project.UpdateGitHubStats(stars, forks)
	if err != nil {
		return err
	}
	a.project = updated
	a.raise(NewProjectStatsUpdatedEvent(updated.ID(), previous, updated.Metrics()))
	return nil
}

// ManageTags adds toAdd, then removes toRemove, and raises ProjectTagsChanged
// when the resulting tag set differs from the original. On error the
// aggregate is left unchanged.
func (a *Aggregate) ManageTags(toAdd, toRemove []string) error {
	previous := a.project.Tags()
	current := a.project

	for _, t := range toAdd {
		next, err := current.AddTag(t)
		if err != nil {
			return err
		}
		current = next
	}
	for _, t := range toRemove {
		next, err := current.RemoveTag(t)
		if err != nil {
			return err
		}
		current = next
	}

	if shared.TagSetEqual(previous, current.Tags()) {
		return nil
	}
	a.project = current
	a.raise(NewProjectTagsChangedEvent(current.ID(), previous, current.Tags()))
	return nil
}

// DomainEvents returns a copy of the buffered events.
func (a *Aggregate) DomainEvents() []shared.DomainEvent {
	return slices.Clone(a.events)
}

// ClearDomainEvents empties the buffer.
func (a *Aggregate) ClearDomainEvents() {
	a.events = nil
}

func (a *Aggregate) raise(e shared.DomainEvent) {
	a.events = append(a.events, e)
}
