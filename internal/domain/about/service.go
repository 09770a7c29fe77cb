package about

import (
	"strings"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// SortPrinciples orders principles by priority (1 first), then title.
func SortPrinciples(principles []Principle) []Principle {
	col := shared.NewCollator()
	return shared.SortBy(principles, false,
		func(a, b Principle) int { return shared.CompareInts(a.priority, b.priority) },
		func(a, b Principle) int { return col.Compare(a.title, b.title) })
}

// SortCoreValues orders values by display order, then title.
func SortCoreValues(values []CoreValue) []CoreValue {
	col := shared.NewCollator()
	return shared.SortBy(values, false,
		func(a, b CoreValue) int { return shared.CompareInts(a.order, b.order) },
		func(a, b CoreValue) int { return col.Compare(a.title, b.title) })
}

func sortTeam(members []TeamMember) []TeamMember {
	col := shared.NewCollator()
	return shared.SortBy(members, false,
		func(a, b TeamMember) int { return shared.CompareInts(a.order, b.order) },
		func(a, b TeamMember) int { return col.Compare(a.name, b.name) })
}

// TeamFilters narrows the team list. Role and Department match
// case-insensitively; Skills matches when the member has any of them.
type TeamFilters struct {
	Role       string
	Department string
	Skills     []string
	ActiveOnly bool
}

// FilterTeamMembers keeps members matching every set criterion.
func FilterTeamMembers(members []TeamMember, f TeamFilters) []TeamMember {
	role := strings.TrimSpace(f.Role)
	department := strings.TrimSpace(f.Department)
	return shared.Filter(members, func(m TeamMember) bool {
		if f.ActiveOnly && !m.active {
			return false
		}
		if role != "" && !strings.EqualFold(m.role, role) {
			return false
		}
		if department != "" && !strings.EqualFold(m.department, department) {
			return false
		}
		if len(f.Skills) > 0 && !shared.HasAnyTag(m.skills, f.Skills) {
			return false
		}
		return true
	})
}

// SearchTeamMembers matches query against name, role, department, bio and
// skills. A blank query returns a copy.
func SearchTeamMembers(members []TeamMember, query string) []TeamMember {
	q := strings.TrimSpace(query)
	return shared.Filter(members, func(m TeamMember) bool { return q == "" || m.MatchesSearch(q) })
}

// GetFeaturedTeamMembers returns active featured members by display order.
// A non-positive limit means no limit.
func GetFeaturedTeamMembers(members []TeamMember, limit int) []TeamMember {
	featured := shared.Filter(members, func(m TeamMember) bool { return m.featured && m.active })
	return shared.Truncate(sortTeam(featured), limit)
}

// Stats summarizes an organization.
type Stats struct {
	TeamSize      int
	ActiveMembers int
	Departments   int
	CoreValues    int
	Principles    int
}

// GetAboutStats counts team members and content blocks. Departments counts
// distinct non-empty department names, case-insensitively.
func GetAboutStats(org *Organization) Stats {
	s := Stats{
		TeamSize:   len(org.team),
		CoreValues: len(org.values),
		Principles: len(org.principles),
	}
	departments := make(map[string]struct{})
	for _, m := range org.team {
		if m.active {
			s.ActiveMembers++
		}
		if m.department != "" {
			departments[strings.ToLower(m.department)] = struct{}{}
		}
	}
	s.Departments = len(departments)
	return s
}

// ActiveTeam returns the active members in display order.
func (o *Organization) ActiveTeam() []TeamMember {
	return sortTeam(FilterTeamMembers(o.team, TeamFilters{ActiveOnly: true}))
}
