// Package about describes the organization behind the site: its mission,
// core values, guiding principles and team.
package about

import (
	"context"
	"slices"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// Field limits.
const (
	MaxNameLength        = 100
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxBioLength         = 2000
	MinPriority          = 1
	MaxPriority          = 10
)

// ══════════════════════════════════════════════════════════════════════════════
// CORE VALUE
// ══════════════════════════════════════════════════════════════════════════════

// CoreValue is one of the values the organization stands for.
type CoreValue struct {
	key         shared.Slug
	title       string
	description string
	icon        string
	order       int
}

func NewCoreValue(key, title, description, icon string, order int) (CoreValue, error) {
	k, err := shared.NewSlug(key)
	if err != nil {
		return CoreValue{}, err
	}
	t, err := shared.RequireText("title", title, 1, MaxTitleLength)
	if err != nil {
		return CoreValue{}, err
	}
	d, err := shared.RequireText("description", description, 1, MaxDescriptionLength)
	if err != nil {
		return CoreValue{}, err
	}
	if order < 0 {
		return CoreValue{}, shared.Negative("order")
	}
	return CoreValue{key: k, title: t, description: d, icon: icon, order: order}, nil
}

func (v CoreValue) Key() shared.Slug    { return v.key }
func (v CoreValue) Title() string       { return v.title }
func (v CoreValue) Description() string { return v.description }
func (v CoreValue) Icon() string        { return v.icon }
func (v CoreValue) Order() int          { return v.order }

// ══════════════════════════════════════════════════════════════════════════════
// PRINCIPLE
// ══════════════════════════════════════════════════════════════════════════════

// Principle is a working rule, ranked by priority (1 is highest).
type Principle struct {
	key         shared.Slug
	title       string
	description string
	priority    int
	category    string
}

func NewPrinciple(key, title, description string, priority int, category string) (Principle, error) {
	k, err := shared.NewSlug(key)
	if err != nil {
		return Principle{}, err
	}
	t, err := shared.RequireText("title", title, 1, MaxTitleLength)
	if err != nil {
		return Principle{}, err
	}
	d, err := shared.RequireText("description", description, 1, MaxDescriptionLength)
	if err != nil {
		return Principle{}, err
	}
	if priority < MinPriority || priority > MaxPriority {
		return Principle{}, shared.OutOfRange("priority", "must be between 1 and 10")
	}
	c, err := shared.RequireText("category", category, 0, MaxNameLength)
	if err != nil {
		return Principle{}, err
	}
	return Principle{key: k, title: t, description: d, priority: priority, category: c}, nil
}

func (p Principle) Key() shared.Slug    { return p.key }
func (p Principle) Title() string       { return p.title }
func (p Principle) Description() string { return p.description }
func (p Principle) Priority() int       { return p.priority }
func (p Principle) Category() string    { return p.category }

// ══════════════════════════════════════════════════════════════════════════════
// TEAM MEMBER
// ══════════════════════════════════════════════════════════════════════════════

// TeamMember is a person listed on the about page.
type TeamMember struct {
	id         shared.TeamMemberID
	name       string
	role       string
	department string
	bio        string
	skills     []string
	featured   bool
	active     bool
	order      int
	joinedAt   time.Time
}

// TeamMemberProps is the raw form of a TeamMember. An empty ID is generated.
type TeamMemberProps struct {
	ID         string
	Name       string
	Role       string
	Department string
	Bio        string
	Skills     []string
	Featured   bool
	Active     bool
	Order      int
	JoinedAt   time.Time
}

func NewTeamMember(p TeamMemberProps) (TeamMember, error) {
	idValue := p.ID
	if idValue == "" {
		idValue = shared.NewTeamMemberID().String()
	}
	id, err := shared.ParseTeamMemberID(idValue)
	if err != nil {
		return TeamMember{}, err
	}
	name, err := shared.RequireText("name", p.Name, 1, MaxNameLength)
	if err != nil {
		return TeamMember{}, err
	}
	role, err := shared.RequireText("role", p.Role, 1, MaxNameLength)
	if err != nil {
		return TeamMember{}, err
	}
	department, err := shared.RequireText("department", p.Department, 0, MaxNameLength)
	if err != nil {
		return TeamMember{}, err
	}
	bio, err := shared.RequireText("bio", p.Bio, 0, MaxBioLength)
	if err != nil {
		return TeamMember{}, err
	}
	skills, err := shared.NormalizeTags(p.Skills)
	if err != nil {
		return TeamMember{}, err
	}
	if p.Order < 0 {
		return TeamMember{}, shared.Negative("order")
	}
	return TeamMember{
		id:         id,
		name:       name,
		role:       role,
		department: department,
		bio:        bio,
		skills:     skills,
		featured:   p.Featured,
		active:     p.Active,
		order:      p.Order,
		joinedAt:   p.JoinedAt.UTC(),
	}, nil
}

func (m TeamMember) ID() shared.TeamMemberID { return m.id }
func (m TeamMember) Name() string            { return m.name }
func (m TeamMember) Role() string            { return m.role }
func (m TeamMember) Department() string      { return m.department }
func (m TeamMember) Bio() string             { return m.bio }
func (m TeamMember) Skills() []string        { return slices.Clone(m.skills) }
func (m TeamMember) IsFeatured() bool        { return m.featured }
func (m TeamMember) IsActive() bool          { return m.active }
func (m TeamMember) Order() int              { return m.order }
func (m TeamMember) JoinedAt() time.Time     { return m.joinedAt }

// Props returns the raw form of the member.
func (m TeamMember) Props() TeamMemberProps {
	return TeamMemberProps{
		ID:         m.id.String(),
		Name:       m.name,
		Role:       m.role,
		Department: m.department,
		Bio:        m.bio,
		Skills:     m.Skills(),
		Featured:   m.featured,
		Active:     m.active,
		Order:      m.order,
		JoinedAt:   m.joinedAt,
	}
}

// MatchesSearch checks name, role, department, bio and skills.
func (m TeamMember) MatchesSearch(query string) bool {
	for _, field := range []string{m.name, m.role, m.department, m.bio} {
		if shared.ContainsFold(field, query) {
			return true
		}
	}
	for _, s := range m.skills {
		if shared.ContainsFold(s, query) {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// ORGANIZATION
// ══════════════════════════════════════════════════════════════════════════════

// Organization is the root of the about page.
type Organization struct {
	name        string
	mission     string
	vision      string
	foundedYear int
	values      []CoreValue
	principles  []Principle
	team        []TeamMember
}

// OrganizationParams contains the parts of an Organization.
type OrganizationParams struct {
	Name        string
	Mission     string
	Vision      string
	FoundedYear int
	Values      []CoreValue
	Principles  []Principle
	Team        []TeamMember
}

// NewOrganization validates the organization. Value and principle keys must
// be unique, as must team member ids.
func NewOrganization(p OrganizationParams) (*Organization, error) {
	name, err := shared.RequireText("name", p.Name, 1, MaxNameLength)
	if err != nil {
		return nil, err
	}
	mission, err := shared.RequireText("mission", p.Mission, 1, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	vision, err := shared.RequireText("vision", p.Vision, 0, MaxDescriptionLength)
	if err != nil {
		return nil, err
	}
	if p.FoundedYear < 0 {
		return nil, shared.Negative("founded year")
	}
	if err := uniqueKeys("core values", p.Values, func(v CoreValue) string { return v.key.String() }); err != nil {
		return nil, err
	}
	if err := uniqueKeys("principles", p.Principles, func(v Principle) string { return v.key.String() }); err != nil {
		return nil, err
	}
	if err := uniqueKeys("team", p.Team, func(m TeamMember) string { return m.id.String() }); err != nil {
		return nil, err
	}
	return &Organization{
		name:        name,
		mission:     mission,
		vision:      vision,
		foundedYear: p.FoundedYear,
		values:      slices.Clone(p.Values),
		principles:  slices.Clone(p.Principles),
		team:        slices.Clone(p.Team),
	}, nil
}

func uniqueKeys[T any](field string, items []T, key func(T) string) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := key(it)
		if _, dup := seen[k]; dup {
			return shared.NewValidationError(field, shared.CodeInvalidValue, "duplicate "+field+" entry: "+k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func (o *Organization) Name() string            { return o.name }
func (o *Organization) Mission() string         { return o.mission }
func (o *Organization) Vision() string          { return o.vision }
func (o *Organization) FoundedYear() int        { return o.foundedYear }
func (o *Organization) CoreValues() []CoreValue { return slices.Clone(o.values) }
func (o *Organization) Principles() []Principle { return slices.Clone(o.principles) }
func (o *Organization) Team() []TeamMember      { return slices.Clone(o.team) }

// Params returns the parts of the organization.
func (o *Organization) Params() OrganizationParams {
	return OrganizationParams{
		Name:        o.name,
		Mission:     o.mission,
		Vision:      o.vision,
		FoundedYear: o.foundedYear,
		Values:      o.CoreValues(),
		Principles:  o.Principles(),
		Team:        o.Team(),
	}
}

// WithTeamMember returns an organization with m added, or replaced when a
// member with the same id exists.
func (o *Organization) WithTeamMember(m TeamMember) (*Organization, error) {
	p := o.Params()
	i := slices.IndexFunc(p.Team, func(x TeamMember) bool { return x.id == m.id })
	if i >= 0 {
		p.Team[i] = m
	} else {
		p.Team = append(p.Team, m)
	}
	return NewOrganization(p)
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// Repository stores the single organization record.
type Repository interface {
	// GetOrganization returns an error matching shared.ErrNotFound before the
	// first save.
	GetOrganization(ctx context.Context) (*Organization, error)
	SaveOrganization(ctx context.Context, org *Organization) error
}
