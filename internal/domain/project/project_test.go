package project

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

func validParams() NewProjectParams {
	return NewProjectParams{
		Title:       "Open Budget Portal",
		Description: "Visualizes the municipal budget for residents.",
		Category:    CategoryGovernment,
		GitHubURL:   "https://github.com/civic/open-budget",
		Tags:        []string{"budget", "transparency"},
		Stars:       10,
		Forks:       4,
	}
}

func newProject(t *testing.T, mutate func(*NewProjectParams)) *Project {
	t.Helper()
	params := validParams()
	if mutate != nil {
		mutate(&params)
	}
	p, err := NewProject(params)
	require.NoError(t, err)
	return p
}

func TestNewProject_Defaults(t *testing.T) {
	p := newProject(t, nil)

	assert.Equal(t, StatusPlanning, p.Status())
	assert.Equal(t, "Open Budget Portal", p.Title())
	assert.Equal(t, 24, p.PopularityScore())
	assert.True(t, p.HasGitHub())
	assert.Equal(t, p.CreatedAt(), p.UpdatedAt())
	assert.Equal(t, "open-budget-portal", p.Slug().String())
}

func TestNewProject_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewProjectParams)
		field  string
		code   shared.ValidationCode
	}{
		{"empty title", func(p *NewProjectParams) { p.Title = "   " }, "title", shared.CodeEmptyField},
		{"long title", func(p *NewProjectParams) { p.Title = strings.Repeat("a", 201) }, "title", shared.CodeFieldTooLong},
		{"empty description", func(p *NewProjectParams) { p.Description = "" }, "description", shared.CodeEmptyField},
		{"long description", func(p *NewProjectParams) { p.Description = strings.Repeat("d", 2001) }, "description", shared.CodeFieldTooLong},
		{"unknown category", func(p *NewProjectParams) { p.Category = "sports" }, "project category", shared.CodeInvalidValue},
		{"negative stars", func(p *NewProjectParams) { p.Stars = -1 }, "stars", shared.CodeNegativeValue},
		{"bad url", func(p *NewProjectParams) { p.GitHubURL = "github.com/x" }, "github url", shared.CodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := NewProject(params)

			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrValidation))
			assert.Equal(t, tt.code, shared.ValidationCodeOf(err))
			assert.Equal(t, tt.field, shared.ValidationFieldOf(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestNewProject_TitleBoundary(t *testing.T) {
	p := newProject(t, func(p *NewProjectParams) { p.Title = strings.Repeat("a", 200) })
	assert.Len(t, p.Title(), 200)
}

func TestProject_AddTagIdempotent(t *testing.T) {
	p := newProject(t, nil)

	once, err := p.AddTag("civic")
	require.NoError(t, err)
	twice, err := once.AddTag("civic")
	require.NoError(t, err)

	count := 0
	for _, tag := range twice.Tags() {
		if tag == "civic" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.True(t, once.UpdatedAt().After(p.UpdatedAt()))
	assert.False(t, p.HasTag("civic"), "receiver must not change")
}

func TestProject_RemoveAbsentTag(t *testing.T) {
	p := newProject(t, nil)

	same, err := p.RemoveTag("missing")

	require.NoError(t, err)
	assert.Equal(t, p.Tags(), same.Tags())
}

func TestProject_AddTagValidates(t *testing.T) {
	p := newProject(t, nil)

	_, err := p.AddTag(strings.Repeat("x", 51))

	assert.Equal(t, shared.CodeFieldTooLong, shared.ValidationCodeOf(err))
}

func TestProject_UpdateStatus(t *testing.T) {
	p := newProject(t, nil)

	active, err := p.UpdateStatus(StatusActive)
	require.NoError(t, err)
	assert.True(t, active.IsActive())

	completed, err := active.UpdateStatus(StatusCompleted)
	require.NoError(t, err)
	assert.True(t, completed.IsCompleted())

	_, err = completed.UpdateStatus(StatusPlanning)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrStateTransition))
}

func TestProject_UpdatesAreStrictlyLater(t *testing.T) {
	frozen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	restore := timeutil.Freeze(frozen)
	defer restore()

	p := newProject(t, nil)
	updated, err := p.UpdateGitHubStats(11, 4)
	require.NoError(t, err)

	assert.True(t, updated.UpdatedAt().After(p.UpdatedAt()))
	assert.Equal(t, p.CreatedAt(), updated.CreatedAt())
}

func TestProject_IDEquality(t *testing.T) {
	p := newProject(t, nil)
	renamed, err := p.UpdateDetails("Budget Explorer", p.Description())
	require.NoError(t, err)

	assert.True(t, p.ID().Equals(renamed.ID()))
	assert.NotEqual(t, p.Title(), renamed.Title())
}

func TestProject_FromPersistence(t *testing.T) {
	p := newProject(t, nil)

	restored, err := ProjectFromPersistence(p.ToProps())

	require.NoError(t, err)
	assert.Equal(t, p.ToProps(), restored.ToProps())

	props := p.ToProps()
	props.ID = "not-a-uuid"
	_, err = ProjectFromPersistence(props)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestProject_SlugFallbackForNonLatinTitle(t *testing.T) {
	p := newProject(t, func(p *NewProjectParams) { p.Title = "市民预算" })

	slug := p.Slug().String()

	assert.True(t, strings.HasPrefix(slug, "project-"))
	assert.Len(t, slug, len("project-")+8)
}

func TestStatus_Transitions(t *testing.T) {
	assert.True(t, StatusPlanning.CanTransitionTo(StatusActive))
	assert.True(t, StatusArchived.CanTransitionTo(StatusPlanning))
	assert.False(t, StatusPlanning.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusPlanning))
	assert.False(t, StatusActive.CanTransitionTo(StatusActive))
}

func TestCategory_DisplayName(t *testing.T) {
	assert.Equal(t, "Civic Tech", CategoryCivicTech.DisplayName())
	c, err := ParseCategory(" Education ")
	require.NoError(t, err)
	assert.Equal(t, CategoryEducation, c)
}
