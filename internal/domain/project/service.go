package project

import (
	"strings"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROJECT SERVICE
// Stateless queries over project slices. Inputs are never modified.
// ══════════════════════════════════════════════════════════════════════════════

// Sort fields accepted by SortProjects.
const (
	SortByTitle      = "title"
	SortByCreatedAt  = "createdAt"
	SortByUpdatedAt  = "updatedAt"
	SortByStars      = "stars"
	SortByForks      = "forks"
	SortByPopularity = "popularity"
	SortByStatus     = "status"
	SortByCategory   = "category"
)

// Filters narrows a project listing. Zero-valued criteria are ignored.
type Filters struct {
	Category  Category
	Status    Status
	Tags      []string // any of
	Featured  *bool
	HasGitHub *bool
	Search    string
}

// FilterProjects keeps projects matching every set criterion.
func FilterProjects(projects []*Project, f Filters) []*Project {
	return shared.Filter(projects, func(p *Project) bool {
		if f.Category != "" && p.Category() != f.Category {
			return false
		}
		if f.Status != "" && p.Status() != f.Status {
			return false
		}
		if len(f.Tags) > 0 && !shared.HasAnyTag(p.tags, f.Tags) {
			return false
		}
		if f.Featured != nil && p.Featured() != *f.Featured {
			return false
		}
		if f.HasGitHub != nil && p.HasGitHub() != *f.HasGitHub {
			return false
		}
		if q := strings.TrimSpace(f.Search); q != "" && !p.MatchesSearch(q) {
			return false
		}
		return true
	})
}

// SearchProjects returns projects whose title, description or tags contain
// query. A blank query returns a copy of the input.
func SearchProjects(projects []*Project, query string) []*Project {
	q := strings.TrimSpace(query)
	if q == "" {
		return shared.Filter(projects, func(*Project) bool { return true })
	}
	return shared.Filter(projects, func(p *Project) bool { return p.MatchesSearch(q) })
}

// SortProjects returns a stably sorted copy. Numeric ties fall back to title
// ascending; an unknown field keeps the input order.
func SortProjects(projects []*Project, opts shared.SortOptions) []*Project {
	col := shared.NewCollator()
	byTitle := func(a, b *Project) int { return col.Compare(a.Title(), b.Title()) }

	var primary func(a, b *Project) int
	switch opts.Field {
	case SortByTitle:
		return shared.StableSort(projects, opts.Desc(), byTitle)
	case SortByCreatedAt:
		primary = func(a, b *Project) int { return a.CreatedAt().Compare(b.CreatedAt()) }
	case SortByUpdatedAt:
		primary = func(a, b *Project) int { return a.UpdatedAt().Compare(b.UpdatedAt()) }
	case SortByStars:
		primary = func(a, b *Project) int { return shared.CompareInts(a.Stars(), b.Stars()) }
	case SortByForks:
		primary = func(a, b *Project) int { return shared.CompareInts(a.Forks(), b.Forks()) }
	case SortByPopularity:
		primary = func(a, b *Project) int { return shared.CompareInts(a.PopularityScore(), b.PopularityScore()) }
	case SortByStatus:
		primary = func(a, b *Project) int { return col.Compare(string(a.Status()), string(b.Status())) }
	case SortByCategory:
		primary = func(a, b *Project) int { return col.Compare(string(a.Category()), string(b.Category())) }
	default:
		return shared.Filter(projects, func(*Project) bool { return true })
	}

	return shared.SortBy(projects, opts.Desc(), primary, byTitle)
}

// GetFeaturedProjects returns active projects ranked by popularity score
// descending. Projects flagged as featured by an editor are placed ahead of
// the rest, so curation wins over raw popularity; ties break on title.
func GetFeaturedProjects(projects []*Project, limit int) []*Project {
	active := shared.Filter(projects, (*Project).IsActive)
	col := shared.NewCollator()
	ranked := shared.StableSort(active, false, func(a, b *Project) int {
		if a.Featured() != b.Featured() {
			if a.Featured() {
				return -1
			}
			return 1
		}
		if c := shared.CompareInts(b.PopularityScore(), a.PopularityScore()); c != 0 {
			return c
		}
		return col.Compare(a.Title(), b.Title())
	})
	return shared.Truncate(ranked, limit)
}

// Stats summarizes a set of projects.
type Stats struct {
	Total      int
	Active     int
	Completed  int
	Planning   int
	Archived   int
	ByCategory map[Category]int
	TotalStars int
	TotalForks int
}

// GetProjectStats computes Stats in a single pass.
func GetProjectStats(projects []*Project) Stats {
	s := Stats{Total: len(projects), ByCategory: make(map[Category]int)}
	for _, p := range projects {
		switch p.Status() {
		case StatusActive:
			s.Active++
		case StatusCompleted:
			s.Completed++
		case StatusPlanning:
			s.Planning++
		case StatusArchived:
			s.Archived++
		}
		s.ByCategory[p.Category()]++
		s.TotalStars += p.Stars()
		s.TotalForks += p.Forks()
	}
	return s
}

// GetPopularTags counts tags across projects, most used first.
func GetPopularTags(projects []*Project, limit int) []shared.TagCount {
	return shared.CountTags(projects, func(p *Project) []string { return p.tags }, limit)
}
