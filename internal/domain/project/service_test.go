package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

func fixture(t *testing.T) []*Project {
	t.Helper()
	mk := func(title string, cat Category, status Status, stars, forks int, featured bool, tags ...string) *Project {
		return newProject(t, func(p *NewProjectParams) {
			p.Title = title
			p.Category = cat
			p.Status = status
			p.Stars = stars
			p.Forks = forks
			p.Featured = featured
			p.Tags = tags
		})
	}
	return []*Project{
		mk("Transit Tracker", CategoryTransportation, StatusActive, 50, 10, false, "maps", "transit"),
		mk("Air Quality", CategoryEnvironment, StatusActive, 20, 20, true, "sensors", "maps"),
		mk("School Finder", CategoryEducation, StatusCompleted, 50, 10, false, "maps"),
		mk("Budget Explorer", CategoryGovernment, StatusPlanning, 5, 1, false, "budget"),
		mk("Clinic Wait Times", CategoryHealthcare, StatusActive, 50, 10, false),
	}
}

func titles(projects []*Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Title()
	}
	return out
}

func TestFilterProjects(t *testing.T) {
	projects := fixture(t)
	yes := true

	assert.Equal(t, []string{"Transit Tracker", "Air Quality", "Clinic Wait Times"},
		titles(FilterProjects(projects, Filters{Status: StatusActive})))
	assert.Equal(t, []string{"Transit Tracker", "Air Quality", "School Finder"},
		titles(FilterProjects(projects, Filters{Tags: []string{"MAPS"}})))
	assert.Equal(t, []string{"Air Quality"},
		titles(FilterProjects(projects, Filters{Status: StatusActive, Featured: &yes, Tags: []string{"maps"}})))
	assert.Len(t, FilterProjects(projects, Filters{}), len(projects))
}

func TestSearchProjects(t *testing.T) {
	projects := fixture(t)

	all := SearchProjects(projects, "   ")
	assert.Equal(t, titles(projects), titles(all))

	assert.Equal(t, []string{"Transit Tracker"}, titles(SearchProjects(projects, "TRANSIT")))
	assert.Equal(t, []string{"Air Quality"}, titles(SearchProjects(projects, "sensor")))
	assert.Empty(t, SearchProjects(projects, "zzz"))
}

func TestSortProjects_NumericTiesFallBackToTitle(t *testing.T) {
	projects := fixture(t)

	sorted := SortProjects(projects, shared.SortOptions{Field: SortByStars, Direction: shared.SortDesc})

	assert.Equal(t, []string{
		"Clinic Wait Times", "School Finder", "Transit Tracker", "Air Quality", "Budget Explorer",
	}, titles(sorted))
}

func TestSortProjects_Stable(t *testing.T) {
	projects := fixture(t)
	opts := shared.SortOptions{Field: SortByPopularity, Direction: shared.SortAsc}

	first := SortProjects(projects, opts)
	second := SortProjects(projects, opts)

	assert.Equal(t, titles(first), titles(second))
	assert.Equal(t, "Budget Explorer", first[0].Title())
}

func TestSortProjects_ByTitleAndUnknownField(t *testing.T) {
	projects := fixture(t)

	byTitle := SortProjects(projects, shared.SortOptions{Field: SortByTitle})
	assert.Equal(t, []string{
		"Air Quality", "Budget Explorer", "Clinic Wait Times", "School Finder", "Transit Tracker",
	}, titles(byTitle))

	unknown := SortProjects(projects, shared.SortOptions{Field: "color"})
	assert.Equal(t, titles(projects), titles(unknown))
}

func TestGetFeaturedProjects(t *testing.T) {
	projects := fixture(t)

	featured := GetFeaturedProjects(projects, 2)

	assert.Equal(t, []string{"Air Quality", "Clinic Wait Times"}, titles(featured))
	assert.Len(t, GetFeaturedProjects(projects, 0), 3)
}

func TestGetProjectStats(t *testing.T) {
	stats := GetProjectStats(fixture(t))

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Planning)
	assert.Equal(t, 0, stats.Archived)
	assert.Equal(t, 175, stats.TotalStars)
	assert.Equal(t, 51, stats.TotalForks)
	assert.Equal(t, 1, stats.ByCategory[CategoryHealthcare])
}

func TestGetPopularTags(t *testing.T) {
	tags := GetPopularTags(fixture(t), 2)

	require.Len(t, tags, 2)
	assert.Equal(t, shared.TagCount{Tag: "maps", Count: 3}, tags[0])
	assert.Equal(t, shared.TagCount{Tag: "budget", Count: 1}, tags[1])
}

func TestQueriesDoNotMutateInput(t *testing.T) {
	projects := fixture(t)
	before := titles(projects)

	SortProjects(projects, shared.SortOptions{Field: SortByTitle, Direction: shared.SortDesc})
	GetFeaturedProjects(projects, 1)

	assert.Equal(t, before, titles(projects))
}
