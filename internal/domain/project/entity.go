// Package project contains the Project entity, its value objects, the
// ProjectAggregate and the stateless ProjectService queries.
package project

import (
	"slices"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

// Field limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxURLLength         = 500
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: PROJECT
// ══════════════════════════════════════════════════════════════════════════════

// Project is an immutable civic project record. Every mutating method returns
// a new Project and leaves the receiver untouched.
type Project struct {
	id          shared.ProjectID
	title       string
	description string
	category    Category
	status      Status
	githubURL   string
	websiteURL  string
	tags        []string
	metrics     GitHubMetrics
	featured    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewProjectParams contains parameters for creating a new project.
type NewProjectParams struct {
	Title       string
	Description string
	Category    Category
	Status      Status // defaults to planning
	GitHubURL   string
	WebsiteURL  string
	Tags        []string
	Stars       int
	Forks       int
	Featured    bool
}

// Props is the persisted shape of a project, used for rehydration.
type Props struct {
	ID          string
	Title       string
	Description string
	Category    string
	Status      string
	GitHubURL   string
	WebsiteURL  string
	Tags        []string
	Stars       int
	Forks       int
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProject creates a project with a generated id and fresh timestamps.
func NewProject(params NewProjectParams) (*Project, error) {
	status := params.Status
	if status == "" {
		status = StatusPlanning
	}
	now := timeutil.Now()
	return ProjectFromPersistence(Props{
		ID:          shared.NewProjectID().String(),
		Title:       params.Title,
		Description: params.Description,
		Category:    string(params.Category),
		Status:      string(status),
		GitHubURL:   params.GitHubURL,
		WebsiteURL:  params.WebsiteURL,
		Tags:        params.Tags,
		Stars:       params.Stars,
		Forks:       params.Forks,
		Featured:    params.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// ProjectFromPersistence rehydrates a project, revalidating every invariant.
func ProjectFromPersistence(props Props) (*Project, error) {
	id, err := shared.ParseProjectID(props.ID)
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
	category, err := ParseCategory(props.Category)
	if err != nil {
		return nil, err
	}
	status, err := ParseStatus(props.Status)
	if err != nil {
		return nil, err
	}
	githubURL, err := shared.OptionalURL("github url", props.GitHubURL, MaxURLLength)
	if err != nil {
		return nil, err
	}
	websiteURL, err := shared.OptionalURL("website url", props.WebsiteURL, MaxURLLength)
	if err != nil {
		return nil, err
	}
	tags, err := shared.NormalizeTags(props.Tags)
	if err != nil {
		return nil, err
	}
	metrics, err := NewGitHubMetrics(props.Stars, props.Forks)
	if err != nil {
		return nil, err
	}
	if props.CreatedAt.IsZero() {
		return nil, shared.EmptyField("created at")
	}
	if props.UpdatedAt.Before(props.CreatedAt) {
		return nil, shared.OutOfRange("updated at", "cannot be before created at")
	}

	return &Project{
		id:          id,
		title:       title,
		description: description,
		category:    category,
		status:      status,
		githubURL:   githubURL,
		websiteURL:  websiteURL,
		tags:        tags,
		metrics:     metrics,
		featured:    props.Featured,
		createdAt:   props.CreatedAt.UTC(),
		updatedAt:   props.UpdatedAt.UTC(),
	}, nil
}

// ToProps returns the persisted shape of the project.
func (p *Project) ToProps() Props {
	return Props{
		ID:          p.id.String(),
		Title:       p.title,
		Description: p.description,
		Category:    string(p.category),
		Status:      string(p.status),
		GitHubURL:   p.githubURL,
		WebsiteURL:  p.websiteURL,
		Tags:        p.Tags(),
		Stars:       p.metrics.Stars(),
		Forks:       p.metrics.Forks(),
		Featured:    p.featured,
		CreatedAt:   p.createdAt,
		UpdatedAt:   p.updatedAt,
	}
}

// update applies mutate to a copy, bumps updatedAt and revalidates.
func (p *Project) update(mutate func(*Props)) (*Project, error) {
	props := p.ToProps()
	mutate(&props)
	props.UpdatedAt = timeutil.Later(p.updatedAt, timeutil.Now())
	return ProjectFromPersistence(props)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS
// ══════════════════════════════════════════════════════════════════════════════

func (p *Project) ID() shared.ProjectID   { return p.id }
func (p *Project) Title() string          { return p.title }
func (p *Project) Description() string    { return p.description }
func (p *Project) Category() Category     { return p.category }
func (p *Project) Status() Status         { return p.status }
func (p *Project) GitHubURL() string      { return p.githubURL }
func (p *Project) WebsiteURL() string     { return p.websiteURL }
func (p *Project) Metrics() GitHubMetrics { return p.metrics }
func (p *Project) Stars() int             { return p.metrics.Stars() }
func (p *Project) Forks() int             { return p.metrics.Forks() }
func (p *Project) PopularityScore() int   { return p.metrics.PopularityScore() }
func (p *Project) Featured() bool         { return p.featured }
func (p *Project) CreatedAt() time.Time   { return p.createdAt }
func (p *Project) UpdatedAt() time.Time   { return p.updatedAt }
func (p *Project) HasGitHub() bool        { return p.githubURL != "" }
func (p *Project) Tags() []string         { return slices.Clone(p.tags) }
func (p *Project) HasTag(tag string) bool { return slices.Contains(p.tags, tag) }
func (p *Project) IsActive() bool         { return p.status.IsActive() }
func (p *Project) IsCompleted() bool      { return p.status.IsCompleted() }

// Slug derives a URL slug from the title, falling back to the id for
// titles without Latin characters.
func (p *Project) Slug() shared.Slug {
	s, err := shared.SlugFromTitleOr(p.title, "project", p.id.String())
	if err != nil {
		return shared.Slug("project")
	}
	return s
}

// MatchesSearch checks title, description and tags case-insensitively.
func (p *Project) MatchesSearch(query string) bool {
	if shared.ContainsFold(p.title, query) || shared.ContainsFold(p.description, query) {
		return true
	}
	for _, t := range p.tags {
		if shared.ContainsFold(t, query) {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (functional updates)
// ══════════════════════════════════════════════════════════════════════════════

// AddTag returns a project carrying tag. Adding a present tag returns the receiver.
func (p *Project) AddTag(tag string) (*Project, error) {
	t, err := shared.NormalizeTag(tag)
	if err != nil {
		return nil, err
	}
	if p.HasTag(t) {
		return p, nil
	}
	return p.update(func(props *Props) {
		props.Tags = append(props.Tags, t)
	})
}

// RemoveTag returns a project without tag, trimmed the way AddTag trims it.
// Removing an absent or blank tag returns the receiver.
func (p *Project) RemoveTag(tag string) (*Project, error) {
	tag, err := shared.NormalizeTag(tag)
	if err != nil || !p.HasTag(tag) {
		return p, nil
	}
	return p.update(func(props *Props) {
		props.Tags = slices.DeleteFunc(props.Tags, func(t string) bool { return t == tag })
	})
}

// UpdateGitHubStats returns a project with new counters.
func (p *Project) UpdateGitHubStats(stars, forks int) (*Project, error) {
	return p.update(func(props *Props) {
		props.Stars = stars
		props.Forks = forks
	})
}

// UpdateStatus returns a project in status next. Staying in the same status
// returns the receiver; disallowed moves fail with INVALID_STATE_TRANSITION.
func (p *Project) UpdateStatus(next Status) (*Project, error) {
	if !next.IsValid() {
		return nil, shared.UnknownValue("project status", string(next))
	}
	if next == p.status {
		return p, nil
	}
	if !p.status.CanTransitionTo(next) {
		return nil, shared.InvalidTransition("status",
			"cannot change project status from "+string(p.status)+" to "+string(next))
	}
	return p.update(func(props *Props) {
		props.Status = string(next)
	})
}

// UpdateDetails returns a project with a new title and description.
func (p *Project) UpdateDetails(title, description string) (*Project, error) {
	return p.update(func(props *Props) {
		props.Title = title
		props.Description = description
	})
}

// SetFeatured returns a project with the featured flag set to featured.
func (p *Project) SetFeatured(featured bool) (*Project, error) {
	if p.featured == featured {
		return p, nil
	}
	return p.update(func(props *Props) {
		props.Featured = featured
	})
}
