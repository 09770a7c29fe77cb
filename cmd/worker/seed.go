package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civic-hub/civic-site/internal/application/command"
	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

var demoProjects = []command.CreateProjectCommand{
	{
		Title:       "Open Budget Explorer",
		Description: "Interactive view of the municipal budget by department and year.",
		Category:    string(project.CategoryGovernment),
		Status:      string(project.StatusActive),
		GitHubURL:   "https://github.com/civic-hub/open-budget",
		Tags:        []string{"budget", "transparency", "data"},
		Stars:       128,
		Forks:       21,
		Featured:    true,
	},
	{
		Title:       "Transit Delay Map",
		Description: "Live map of bus and tram delays built from public feeds.",
		Category:    string(project.CategoryTransportation),
		Status:      string(project.StatusActive),
		Tags:        []string{"transit", "maps", "data"},
		Stars:       64,
		Forks:       9,
	},
	{
		Title:       "School Meal Finder",
		Description: "Find free summer meal sites near you.",
		Category:    string(project.CategoryEducation),
		Tags:        []string{"schools", "food"},
		Featured:    true,
	},
}

// seedDemoContent creates the demo projects through the regular command
// path so their events reach the outbox and the listing cache.
func seedDemoContent(ctx context.Context, repo project.Repository, publisher shared.EventPublisher, log *slog.Logger) error {
	create := command.NewCreateProjectHandler(repo, publisher, log)
	for _, cmd := range demoProjects {
		result := create.Handle(ctx, cmd)
		if !result.Success {
			return fmt.Errorf("%s: %s: %s", cmd.Title, result.Error, result.Message)
		}
	}
	log.Info("demo content seeded", slog.Int("projects", len(demoProjects)))
	return nil
}
