package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/internal/domain/user"
)

func newProject(t *testing.T, title string, status project.Status, tags ...string) *project.Project {
	t.Helper()
	p, err := project.NewProject(project.NewProjectParams{
		Title:    title,
		Category: project.CategoryCivicTech,
		Status:   status,
		Tags:     tags,
	})
	require.NoError(t, err)
	return p
}

func TestProjectRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	a := newProject(t, "Alpha", project.StatusActive, "go")
	repo := NewProjectRepository(a)

	got, err := repo.FindByID(ctx, a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	exists, err := repo.Exists(ctx, a.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, a.ID()))
	_, err = repo.FindByID(ctx, a.ID())
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, shared.IsNotFound(repo.Delete(ctx, a.ID())))
}

func TestProjectRepository_Aggregations(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectRepository(
		newProject(t, "Alpha", project.StatusActive, "go", "maps"),
		newProject(t, "Beta", project.StatusActive, "go"),
		newProject(t, "Gamma", project.StatusPlanning, "python"),
	)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[project.StatusActive])
	assert.Equal(t, 1, counts[project.StatusPlanning])

	tags, err := repo.GetPopularTags(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].Tag)
	assert.Equal(t, 2, tags[0].Count)

	page, err := repo.FindAll(ctx, project.Filters{Status: project.StatusActive},
		shared.SortOptions{Field: project.SortByTitle, Direction: shared.SortDesc}, shared.NewPagination(1, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.True(t, page.HasMore())
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Beta", page.Items[0].Title())
}

func TestRepositories_HonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProjectRepository().FindByID(ctx, shared.NewProjectID())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewNewsRepository().FindFeatured(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewsRepository_SlugIsUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewNewsRepository()
	mk := func() *news.Article {
		a, err := news.NewArticle(news.NewArticleParams{
			Title:    "Open Data Day",
			Excerpt:  "Summary.",
			Content:  "Body.",
			Category: news.CategoryEvent,
			AuthorID: shared.NewUserID().AsAuthor().String(),
		})
		require.NoError(t, err)
		return a
	}

	first := mk()
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, first), "saving the same article again is an update")

	err := repo.Save(ctx, mk())
	assert.True(t, shared.IsAlreadyExists(err))

	found, err := repo.FindBySlug(ctx, first.Slug())
	require.NoError(t, err)
	assert.Equal(t, first.ID(), found.ID())

	require.NoError(t, repo.Delete(ctx, first.ID()))
	_, err = repo.FindBySlug(ctx, first.Slug())
	assert.True(t, shared.IsNotFound(err))
}

func TestEventRepository_FindUpcoming(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	mk := func(title string, start time.Time) *event.Event {
		e, err := event.NewEvent(event.NewEventParams{
			Title:       title,
			Description: "Monthly civic tech meetup.",
			Type:        event.TypeMeetup,
			StartDate:   start,
			Location:    event.LocationParams{Online: true, OnlineURL: "https://meet.example.org/civic"},
		})
		require.NoError(t, err)
		return e
	}
	repo := NewEventRepository(
		mk("Later", now.Add(72*time.Hour)),
		mk("Past", now.Add(-72*time.Hour)),
		mk("Soon", now.Add(24*time.Hour)),
	)

	upcoming, err := repo.FindUpcoming(ctx, now, 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Soon", upcoming[0].Title())
	assert.Equal(t, "Later", upcoming[1].Title())
}

func TestUserRepository_EmailIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	ada, err := user.NewUser("ada@example.org", "Ada", user.RoleEditor)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, ada))

	other, err := user.NewUser("ADA@example.org", "Impostor", "")
	require.NoError(t, err)
	assert.True(t, shared.IsAlreadyExists(repo.Save(ctx, other)))

	found, err := repo.FindByEmail(ctx, ada.Email())
	require.NoError(t, err)
	assert.Equal(t, ada.ID(), found.ID())

	require.NoError(t, repo.Delete(ctx, ada.ID()))
	exists, err := repo.ExistsByEmail(ctx, ada.Email())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAboutRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAboutRepository(nil)

	_, err := repo.GetOrganization(ctx)
	assert.True(t, shared.IsNotFound(err))
}
