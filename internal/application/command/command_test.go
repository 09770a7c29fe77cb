package command

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/event"
	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/internal/infrastructure/persistence/memory"
	"github.com/civic-hub/civic-site/pkg/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) types() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]shared.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// PROJECTS
// ══════════════════════════════════════════════════════════════════════════════

func createProject(t *testing.T, repo project.Repository, pub shared.EventPublisher) string {
	t.Helper()
	res := NewCreateProjectHandler(repo, pub, logger.Discard()).Handle(context.Background(), CreateProjectCommand{
		Title:    "Open Budget Explorer",
		Category: string(project.CategoryGovernment),
		Tags:     []string{"budget"},
	})
	require.True(t, res.Success, res.Message)
	return res.Data.ID
}

func TestCreateProject(t *testing.T) {
	repo := memory.NewProjectRepository()
	pub := &recordingPublisher{}

	res := NewCreateProjectHandler(repo, pub, logger.Discard()).Handle(context.Background(), CreateProjectCommand{
		Title:    "Open Budget Explorer",
		Category: "government",
		Tags:     []string{"Budget", "data"},
		Stars:    10,
	})

	require.True(t, res.Success, res.Message)
	assert.Equal(t, "open-budget-explorer", res.Data.Slug)
	assert.Equal(t, "planning", res.Data.Status)
	assert.Equal(t, 10, res.Data.StarCount)
	assert.Equal(t, []shared.EventType{project.EventProjectCreated}, pub.types())

	id, err := shared.ParseProjectID(res.Data.ID)
	require.NoError(t, err)
	stored, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Open Budget Explorer", stored.Title())
}

func TestCreateProject_InvalidInput(t *testing.T) {
	h := NewCreateProjectHandler(memory.NewProjectRepository(), nil, logger.Discard())

	tests := []struct {
		name string
		cmd  CreateProjectCommand
		code ErrorCode
	}{
		{"missing title", CreateProjectCommand{Category: "government"}, ErrInvalidInput},
		{"unknown category", CreateProjectCommand{Title: "X", Category: "space"}, ErrInvalidInput},
		{"negative stars", CreateProjectCommand{Title: "X", Category: "government", Stars: -1}, ErrInvalidInput},
		{"unknown status", CreateProjectCommand{Title: "X", Category: "government", Status: "paused"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Handle(context.Background(), tt.cmd)
			assert.False(t, res.Success)
			assert.Equal(t, tt.code, res.Error)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestCreateProject_PublishFailureStillSucceeds(t *testing.T) {
	repo := memory.NewProjectRepository()
	pub := &recordingPublisher{err: errors.New("bus closed")}

	id := createProject(t, repo, pub)
	assert.NotEmpty(t, id)
}

func TestChangeProjectStatus(t *testing.T) {
	repo := memory.NewProjectRepository()
	pub := &recordingPublisher{}
	id := createProject(t, repo, pub)
	h := NewChangeProjectStatusHandler(repo, pub, logger.Discard())

	res := h.Handle(context.Background(), ChangeProjectStatusCommand{ProjectID: id, Status: "active"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "active", res.Data.Status)

	res = h.Handle(context.Background(), ChangeProjectStatusCommand{ProjectID: id, Status: "active"})
	require.True(t, res.Success, "same status is a no-op")

	res = h.Handle(context.Background(), ChangeProjectStatusCommand{ProjectID: id, Status: "planning"})
	require.True(t, res.Success, res.Message)

	res = h.Handle(context.Background(), ChangeProjectStatusCommand{ProjectID: id, Status: "completed"})
	assert.False(t, res.Success)
	assert.Equal(t, ErrInvalidStatusTransition, res.Error)

	assert.Equal(t, []shared.EventType{
		project.EventProjectCreated,
		project.EventProjectStatusChanged,
		project.EventProjectStatusChanged,
	}, pub.types())
}

func TestChangeProjectStatus_NotFound(t *testing.T) {
	h := NewChangeProjectStatusHandler(memory.NewProjectRepository(), nil, logger.Discard())

	res := h.Handle(context.Background(), ChangeProjectStatusCommand{
		ProjectID: shared.NewProjectID().String(),
		Status:    "active",
	})
	assert.False(t, res.Success)
	assert.Equal(t, ErrProjectNotFound, res.Error)

	res = h.Handle(context.Background(), ChangeProjectStatusCommand{ProjectID: "not-a-uuid", Status: "active"})
	assert.Equal(t, ErrInvalidInput, res.Error)
}

func TestChangeProjectStatus_AcceptsUppercaseID(t *testing.T) {
	repo := memory.NewProjectRepository()
	id := createProject(t, repo, nil)
	h := NewChangeProjectStatusHandler(repo, nil, logger.Discard())

	res := h.Handle(context.Background(), ChangeProjectStatusCommand{ProjectID: strings.ToUpper(id), Status: "active"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, id, res.Data.ID)
	assert.Equal(t, "active", res.Data.Status)
}

func TestUpdateProjectStats(t *testing.T) {
	repo := memory.NewProjectRepository()
	id := createProject(t, repo, nil)
	h := NewUpdateProjectStatsHandler(repo, nil, logger.Discard())

	res := h.Handle(context.Background(), UpdateProjectStatsCommand{ProjectID: id, Stars: 42, Forks: 7})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 42, res.Data.StarCount)
	assert.Equal(t, 7, res.Data.ForkCount)

	res = h.Handle(context.Background(), UpdateProjectStatsCommand{ProjectID: id, Stars: -1})
	assert.False(t, res.Success)
	assert.Equal(t, ErrInvalidInput, res.Error)
}

func TestManageProjectTags(t *testing.T) {
	repo := memory.NewProjectRepository()
	id := createProject(t, repo, nil)
	h := NewManageProjectTagsHandler(repo, nil, logger.Discard())

	res := h.Handle(context.Background(), ManageProjectTagsCommand{
		ProjectID: id,
		Add:       []string{"transparency"},
		Remove:    []string{"budget"},
	})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, []string{"transparency"}, res.Data.Tags)
}

// ══════════════════════════════════════════════════════════════════════════════
// EVENTS
// ══════════════════════════════════════════════════════════════════════════════

func seedEvent(t *testing.T, max int, closed bool) (*memory.EventRepository, string) {
	t.Helper()
	e, err := event.NewEvent(event.NewEventParams{
		Title:              "Civic Data Workshop",
		Description:        "Hands-on introduction to open municipal data.",
		Type:               event.TypeWorkshop,
		StartDate:          time.Now().Add(7 * 24 * time.Hour),
		Location:           event.LocationParams{Name: "City Library", Address: "1 Main St", City: "Springfield", Country: "US"},
		MaxParticipants:    max,
		RegistrationClosed: closed,
	})
	require.NoError(t, err)
	return memory.NewEventRepository(e), e.ID().String()
}

func TestRegisterParticipant(t *testing.T) {
	repo, id := seedEvent(t, 2, false)
	pub := &recordingPublisher{}
	h := NewRegisterParticipantHandler(repo, pub, logger.Discard())

	for i := 1; i <= 2; i++ {
		res := h.Handle(context.Background(), ParticipationCommand{EventID: id})
		require.True(t, res.Success, res.Message)
		assert.Equal(t, i, res.Data.CurrentParticipants)
	}

	res := h.Handle(context.Background(), ParticipationCommand{EventID: id})
	assert.False(t, res.Success)
	assert.Equal(t, ErrEventFull, res.Error)

	assert.Equal(t, []shared.EventType{
		event.EventParticipantRegistered,
		event.EventParticipantRegistered,
	}, pub.types())
}

func TestRegisterParticipant_RegistrationClosed(t *testing.T) {
	repo, id := seedEvent(t, 0, true)
	res := NewRegisterParticipantHandler(repo, nil, logger.Discard()).
		Handle(context.Background(), ParticipationCommand{EventID: id})

	assert.False(t, res.Success)
	assert.Equal(t, ErrRegistrationClosed, res.Error)
}

func TestCancelParticipation(t *testing.T) {
	repo, id := seedEvent(t, 0, false)
	cancel := NewCancelParticipationHandler(repo, nil, logger.Discard())

	res := cancel.Handle(context.Background(), ParticipationCommand{EventID: id})
	assert.False(t, res.Success)
	assert.Equal(t, ErrNoParticipants, res.Error)

	reg := NewRegisterParticipantHandler(repo, nil, logger.Discard())
	require.True(t, reg.Handle(context.Background(), ParticipationCommand{EventID: id}).Success)

	res = cancel.Handle(context.Background(), ParticipationCommand{EventID: id})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 0, res.Data.CurrentParticipants)
}

func TestParticipation_UnknownEvent(t *testing.T) {
	repo, _ := seedEvent(t, 0, false)
	res := NewRegisterParticipantHandler(repo, nil, logger.Discard()).
		Handle(context.Background(), ParticipationCommand{EventID: shared.NewEventID().String()})

	assert.Equal(t, ErrEventNotFound, res.Error)
}

// ══════════════════════════════════════════════════════════════════════════════
// NEWS
// ══════════════════════════════════════════════════════════════════════════════

func seedDraft(t *testing.T) (*memory.NewsRepository, string) {
	t.Helper()
	a, err := news.NewArticle(news.NewArticleParams{
		Title:    "City Council Adopts Open Data Policy",
		Excerpt:  "A short summary.",
		Content:  "The council voted to publish datasets.",
		Category: news.CategoryAnnouncement,
		AuthorID: shared.NewUserID().AsAuthor().String(),
	})
	require.NoError(t, err)
	repo := memory.NewNewsRepository()
	require.NoError(t, repo.Save(context.Background(), a))
	return repo, a.ID().String()
}

func TestPublishAndUnpublishNews(t *testing.T) {
	repo, id := seedDraft(t)
	pub := &recordingPublisher{}
	publish := NewPublishNewsHandler(repo, pub, logger.Discard())
	unpublish := NewUnpublishNewsHandler(repo, pub, logger.Discard())
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	res := publish.Handle(context.Background(), PublishNewsCommand{NewsID: id, PublishedAt: at})
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Data.Published)
	require.NotNil(t, res.Data.PublishedAt)

	again := publish.Handle(context.Background(), PublishNewsCommand{NewsID: id, PublishedAt: at.Add(time.Hour)})
	require.True(t, again.Success)
	assert.Equal(t, *res.Data.PublishedAt, *again.Data.PublishedAt, "original date is kept")

	res = unpublish.Handle(context.Background(), UnpublishNewsCommand{NewsID: id})
	require.True(t, res.Success, res.Message)
	assert.False(t, res.Data.Published)
	assert.Nil(t, res.Data.PublishedAt)

	assert.Equal(t, []shared.EventType{news.EventNewsPublished, news.EventNewsUnpublished}, pub.types())
}

func TestPublishNews_NotFound(t *testing.T) {
	repo, _ := seedDraft(t)
	res := NewPublishNewsHandler(repo, nil, logger.Discard()).
		Handle(context.Background(), PublishNewsCommand{NewsID: shared.NewNewsID().String()})
	assert.Equal(t, ErrNewsNotFound, res.Error)
}

// ══════════════════════════════════════════════════════════════════════════════
// USERS
// ══════════════════════════════════════════════════════════════════════════════

func TestRegisterUser(t *testing.T) {
	repo := memory.NewUserRepository()
	h := NewRegisterUserHandler(repo, logger.Discard())

	res := h.Handle(context.Background(), RegisterUserCommand{Email: "Ada@Example.org", Name: "Ada Lovelace"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "ada@example.org", res.Data.Email)
	assert.Equal(t, "member", res.Data.Role)

	dup := h.Handle(context.Background(), RegisterUserCommand{Email: "ada@example.org", Name: "Someone Else"})
	assert.False(t, dup.Success)
	assert.Equal(t, ErrEmailAlreadyExists, dup.Error)
}

func TestRegisterUser_InvalidFields(t *testing.T) {
	h := NewRegisterUserHandler(memory.NewUserRepository(), logger.Discard())

	res := h.Handle(context.Background(), RegisterUserCommand{Email: "not-an-email", Name: "Ada"})
	assert.Equal(t, ErrInvalidEmail, res.Error)

	res = h.Handle(context.Background(), RegisterUserCommand{Email: "ada@example.org", Name: ""})
	assert.Equal(t, ErrInvalidName, res.Error)

	res = h.Handle(context.Background(), RegisterUserCommand{Email: "ada@example.org", Name: "Ada", Role: "owner"})
	assert.Equal(t, ErrInvalidInput, res.Error)
}

func TestUpdateUserName(t *testing.T) {
	repo := memory.NewUserRepository()
	created := NewRegisterUserHandler(repo, logger.Discard()).
		Handle(context.Background(), RegisterUserCommand{Email: "ada@example.org", Name: "Ada"})
	require.True(t, created.Success)

	h := NewUpdateUserNameHandler(repo, logger.Discard())
	res := h.Handle(context.Background(), UpdateUserNameCommand{UserID: created.Data.ID, Name: "Ada Lovelace"})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Ada Lovelace", res.Data.Name)

	res = h.Handle(context.Background(), UpdateUserNameCommand{UserID: shared.NewUserID().String(), Name: "X"})
	assert.Equal(t, ErrUserNotFound, res.Error)
}
