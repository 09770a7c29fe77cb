package memory

import (
	"context"

	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ProjectRepository implements project.Repository.
type ProjectRepository struct {
	store *store[shared.ProjectID, *project.Project]
}

// Compile-time check.
var _ project.Repository = (*ProjectRepository)(nil)

func NewProjectRepository(seed ...*project.Project) *ProjectRepository {
	r := &ProjectRepository{store: newStore[shared.ProjectID, *project.Project]()}
	for _, p := range seed {
		r.store.put(p.ID(), p)
	}
	return r
}

func (r *ProjectRepository) FindByID(ctx context.Context, id shared.ProjectID) (*project.Project, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	p, ok := r.store.get(id)
	if !ok {
		return nil, shared.NotFound("project", "FindByID", id.String())
	}
	return p, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context, filters project.Filters, sort shared.SortOptions, page shared.Pagination) (shared.Page[*project.Project], error) {
	if err := alive(ctx); err != nil {
		return shared.Page[*project.Project]{}, err
	}
	matched := project.FilterProjects(r.store.all(), filters)
	return shared.Paginate(project.SortProjects(matched, sort), page), nil
}

func (r *ProjectRepository) FindFeatured(ctx context.Context, limit int) ([]*project.Project, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return project.GetFeaturedProjects(r.store.all(), limit), nil
}

func (r *ProjectRepository) FindByCategory(ctx context.Context, category project.Category) ([]*project.Project, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return project.FilterProjects(r.store.all(), project.Filters{Category: category}), nil
}

func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.store.put(p.ID(), p)
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id shared.ProjectID) error {
	if err := alive(ctx); err != nil {
		return err
	}
	if !r.store.remove(id) {
		return shared.NotFound("project", "Delete", id.String())
	}
	return nil
}

func (r *ProjectRepository) Exists(ctx context.Context, id shared.ProjectID) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	_, ok := r.store.get(id)
	return ok, nil
}

func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[project.Status]int, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	counts := make(map[project.Status]int)
	for _, p := range r.store.all() {
		counts[p.Status()]++
	}
	return counts, nil
}

func (r *ProjectRepository) GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return project.GetPopularTags(r.store.all(), limit), nil
}
