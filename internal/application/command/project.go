package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civic-hub/civic-site/internal/application/dto"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHARED PROJECT PLUMBING
// Every project command follows the same cycle: load the aggregate, apply one
// operation, save, publish the buffered events, clear the buffer.
// ══════════════════════════════════════════════════════════════════════════════

type projectUnit struct {
	repo      project.Repository
	publisher shared.EventPublisher
	log       *slog.Logger
}

func newProjectUnit(repo project.Repository, publisher shared.EventPublisher, log *slog.Logger) projectUnit {
	return projectUnit{repo: repo, publisher: publisher, log: logger.OrDefault(log).With(logger.Component("project_commands"))}
}

func (u projectUnit) load(ctx context.Context, rawID string) (*project.Aggregate, error) {
	id, err := shared.ParseProjectID(rawID)
	if err != nil {
		return nil, err
	}
	p, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return project.LoadProjectAggregate(p), nil
}

// commit saves the aggregate and publishes its events. A publish failure is
// logged but does not fail the command: the state change is already stored.
func (u projectUnit) commit(ctx context.Context, agg *project.Aggregate) error {
	if err := u.repo.Save(ctx, agg.Project()); err != nil {
		return fmt.Errorf("save project %s: %w", agg.ID(), err)
	}
	events := agg.DomainEvents()
	if len(events) > 0 && u.publisher != nil {
		if err := u.publisher.Publish(ctx, events...); err != nil {
			u.log.ErrorContext(ctx, "failed to publish project events",
				logger.ProjectID(agg.ID().String()), slog.Int("events", len(events)), logger.Err(err))
		}
	}
	agg.ClearDomainEvents()
	return nil
}

func (u projectUnit) run(ctx context.Context, rawID, op string, apply func(*project.Aggregate) error) Result[dto.ProjectDto] {
	agg, err := u.load(ctx, rawID)
	if err != nil {
		return failWith[dto.ProjectDto](err, ErrProjectNotFound)
	}
	if err := apply(agg); err != nil {
		u.log.DebugContext(ctx, "project command rejected",
			logger.Operation(op), logger.ProjectID(rawID), logger.Err(err))
		return failWith[dto.ProjectDto](err, ErrProjectNotFound)
	}
	if err := u.commit(ctx, agg); err != nil {
		u.log.ErrorContext(ctx, "project command failed", logger.Operation(op), logger.Err(err))
		return fail[dto.ProjectDto](ErrRepository, err.Error())
	}
	u.log.InfoContext(ctx, "project updated", logger.Operation(op), logger.ProjectID(rawID))
	return ok(dto.FromProject(agg.Project()))
}

// ══════════════════════════════════════════════════════════════════════════════
// CREATE PROJECT
// ══════════════════════════════════════════════════════════════════════════════

// CreateProjectCommand contains the data for a new project.
type CreateProjectCommand struct {
	Title       string   `validate:"required,max=200"`
	Description string   `validate:"max=2000"`
	Category    string   `validate:"required"`
	Status      string   // defaults to planning
	GitHubURL   string   `validate:"omitempty,max=500"`
	WebsiteURL  string   `validate:"omitempty,max=500"`
	Tags        []string `validate:"max=20,dive,max=50"`
	Stars       int      `validate:"gte=0"`
	Forks       int      `validate:"gte=0"`
	Featured    bool
}

// CreateProjectHandler handles CreateProjectCommand.
type CreateProjectHandler struct {
	unit projectUnit
}

func NewCreateProjectHandler(repo project.Repository, publisher shared.EventPublisher, log *slog.Logger) *CreateProjectHandler {
	return &CreateProjectHandler{unit: newProjectUnit(repo, publisher, log)}
}

// Handle creates the project and publishes ProjectCreated.
func (h *CreateProjectHandler) Handle(ctx context.Context, cmd CreateProjectCommand) Result[dto.ProjectDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.ProjectDto](ErrInvalidInput, err.Error())
	}

	category, err := project.ParseCategory(cmd.Category)
	if err != nil {
		return failWith[dto.ProjectDto](err, ErrProjectNotFound)
	}
	var status project.Status
	if cmd.Status != "" {
		if status, err = project.ParseStatus(cmd.Status); err != nil {
			return failWith[dto.ProjectDto](err, ErrProjectNotFound)
		}
	}

	agg, err := project.NewProjectAggregate(project.NewProjectParams{
		Title:       cmd.Title,
		Description: cmd.Description,
		Category:    category,
		Status:      status,
		GitHubURL:   cmd.GitHubURL,
		WebsiteURL:  cmd.WebsiteURL,
		Tags:        cmd.Tags,
		Stars:       cmd.Stars,
		Forks:       cmd.Forks,
		Featured:    cmd.Featured,
	})
	if err != nil {
		return failWith[dto.ProjectDto](err, ErrProjectNotFound)
	}

	if err := h.unit.commit(ctx, agg); err != nil {
		h.unit.log.ErrorContext(ctx, "create project failed", logger.Err(err))
		return fail[dto.ProjectDto](ErrRepository, err.Error())
	}
	h.unit.log.InfoContext(ctx, "project created",
		logger.ProjectID(agg.ID().String()), slog.String("category", string(category)))
	return ok(dto.FromProject(agg.Project()))
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANGE STATUS
// ══════════════════════════════════════════════════════════════════════════════

type ChangeProjectStatusCommand struct {
	ProjectID string `validate:"required"`
	Status    string `validate:"required"`
}

type ChangeProjectStatusHandler struct {
	unit projectUnit
}

func NewChangeProjectStatusHandler(repo project.Repository, publisher shared.EventPublisher, log *slog.Logger) *ChangeProjectStatusHandler {
	return &ChangeProjectStatusHandler{unit: newProjectUnit(repo, publisher, log)}
}

// Handle moves the project along its lifecycle. Disallowed moves yield
// INVALID_STATUS_TRANSITION.
func (h *ChangeProjectStatusHandler) Handle(ctx context.Context, cmd ChangeProjectStatusCommand) Result[dto.ProjectDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.ProjectDto](ErrInvalidInput, err.Error())
	}
	status, err := project.ParseStatus(cmd.Status)
	if err != nil {
		return failWith[dto.ProjectDto](err, ErrProjectNotFound)
	}
	return h.unit.run(ctx, cmd.ProjectID, "change_status", func(a *project.Aggregate) error {
		return a.ChangeStatus(status)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STATS
// ══════════════════════════════════════════════════════════════════════════════

type UpdateProjectStatsCommand struct {
	ProjectID string `validate:"required"`
	Stars     int
	Forks     int
}

type UpdateProjectStatsHandler struct {
	unit projectUnit
}

func NewUpdateProjectStatsHandler(repo project.Repository, publisher shared.EventPublisher, log *slog.Logger) *UpdateProjectStatsHandler {
	return &UpdateProjectStatsHandler{unit: newProjectUnit(repo, publisher, log)}
}

// Handle replaces the GitHub counters. Negative counts are rejected by the
// domain with NEGATIVE_VALUE, reported as INVALID_INPUT.
func (h *UpdateProjectStatsHandler) Handle(ctx context.Context, cmd UpdateProjectStatsCommand) Result[dto.ProjectDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.ProjectDto](ErrInvalidInput, err.Error())
	}
	return h.unit.run(ctx, cmd.ProjectID, "update_stats", func(a *project.Aggregate) error {
		return a.UpdateGitHubStats(cmd.Stars, cmd.Forks)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// MANAGE TAGS
// ══════════════════════════════════════════════════════════════════════════════

type ManageProjectTagsCommand struct {
	ProjectID string   `validate:"required"`
	Add       []string `validate:"max=20"`
	Remove    []string `validate:"max=20"`
}

type ManageProjectTagsHandler struct {
	unit projectUnit
}

func NewManageProjectTagsHandler(repo project.Repository, publisher shared.EventPublisher, log *slog.Logger) *ManageProjectTagsHandler {
	return &ManageProjectTagsHandler{unit: newProjectUnit(repo, publisher, log)}
}

func (h *ManageProjectTagsHandler) Handle(ctx context.Context, cmd ManageProjectTagsCommand) Result[dto.ProjectDto] {
	if err := checkInput(cmd); err != nil {
		return fail[dto.ProjectDto](ErrInvalidInput, err.Error())
	}
	return h.unit.run(ctx, cmd.ProjectID, "manage_tags", func(a *project.Aggregate) error {
		return a.ManageTags(cmd.Add, cmd.Remove)
	})
}
