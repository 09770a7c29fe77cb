package project

import (
	"context"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository stores projects.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// Lookups
	// ─────────────────────────────────────────────────────────────────────────

	// FindByID returns the project or an error matching shared.ErrNotFound.
	FindByID(ctx context.Context, id shared.ProjectID) (*Project, error)

	// FindAll applies filters, then sorting, then pagination.
	FindAll(ctx context.Context, filters Filters, sort shared.SortOptions, page shared.Pagination) (shared.Page[*Project], error)

	// FindFeatured returns up to limit projects ranked as GetFeaturedProjects does.
	FindFeatured(ctx context.Context, limit int) ([]*Project, error)

	// FindByCategory returns every project in category.
	FindByCategory(ctx context.Context, category Category) ([]*Project, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Writes
	// ─────────────────────────────────────────────────────────────────────────

	// Save inserts or replaces the project.
	Save(ctx context.Context, p *Project) error

	// Delete removes the project; unknown ids match shared.ErrNotFound.
	Delete(ctx context.Context, id shared.ProjectID) error

	// ─────────────────────────────────────────────────────────────────────────
	// Aggregations
	// ─────────────────────────────────────────────────────────────────────────

	Exists(ctx context.Context, id shared.ProjectID) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
	GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error)
}
