package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/civic-hub/civic-site/internal/domain/project"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROJECT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ProjectRepository implements project.Repository for PostgreSQL. Equality
// filters run in SQL; search, tag matching and collated sorting reuse the
// domain query services so results match the in-memory adapter exactly.
type ProjectRepository struct {
	conn *Connection
}

var _ project.Repository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(conn *Connection) *ProjectRepository {
	return &ProjectRepository{conn: conn}
}

const projectColumns = `id, title, description, category, status, github_url, website_url,
	tags, stars, forks, featured, created_at, updated_at`

func (r *ProjectRepository) FindByID(ctx context.Context, id shared.ProjectID) (*project.Project, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id.String())
	if err != nil {
		return nil, shared.WrapError("project", "FindByID", shared.ErrRepository, "query failed", err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProject)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NotFound("project", "FindByID", id.String())
		}
		return nil, shared.WrapError("project", "FindByID", shared.ErrRepository, "scan failed", err)
	}
	return p, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context, filters project.Filters, sort shared.SortOptions, page shared.Pagination) (shared.Page[*project.Project], error) {
	var where []string
	var args []any
	if filters.Category != "" {
		args = append(args, string(filters.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, string(filters.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	projects, err := r.load(ctx, "FindAll", where, args...)
	if err != nil {
		return shared.Page[*project.Project]{}, err
	}
	matched := project.FilterProjects(projects, filters)
	return shared.Paginate(project.SortProjects(matched, sort), page), nil
}

func (r *ProjectRepository) FindFeatured(ctx context.Context, limit int) ([]*project.Project, error) {
	projects, err := r.load(ctx, "FindFeatured", []string{"status = 'active'"})
	if err != nil {
		return nil, err
	}
	return project.GetFeaturedProjects(projects, limit), nil
}

func (r *ProjectRepository) FindByCategory(ctx context.Context, category project.Category) ([]*project.Project, error) {
	return r.load(ctx, "FindByCategory", []string{"category = $1"}, string(category))
}

// Save upserts the project.
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	props := p.ToProps()
	_, err := r.conn.Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			github_url = EXCLUDED.github_url,
			website_url = EXCLUDED.website_url,
			tags = EXCLUDED.tags,
			stars = EXCLUDED.stars,
			forks = EXCLUDED.forks,
			featured = EXCLUDED.featured,
			updated_at = EXCLUDED.updated_at`,
		props.ID, props.Title, props.Description, props.Category, props.Status,
		props.GitHubURL, props.WebsiteURL, nonNil(props.Tags), props.Stars, props.Forks,
		props.Featured, props.CreatedAt, props.UpdatedAt,
	)
	if err != nil {
		return shared.WrapError("project", "Save", shared.ErrRepository, "upsert failed", err)
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id shared.ProjectID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id.String())
	if err != nil {
		return shared.WrapError("project", "Delete", shared.ErrRepository, "delete failed", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("project", "Delete", id.String())
	}
	return nil
}

func (r *ProjectRepository) Exists(ctx context.Context, id shared.ProjectID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, id.String()).Scan(&exists)
	if err != nil {
		return false, shared.WrapError("project", "Exists", shared.ErrRepository, "query failed", err)
	}
	return exists, nil
}

func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[project.Status]int, error) {
	rows, err := r.conn.Query(ctx, `SELECT status, count(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, shared.WrapError("project", "CountByStatus", shared.ErrRepository, "query failed", err)
	}
	defer rows.Close()

	counts := make(map[project.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, shared.WrapError("project", "CountByStatus", shared.ErrRepository, "scan failed", err)
		}
		counts[project.Status(status)] = n
	}
	return counts, rows.Err()
}

func (r *ProjectRepository) GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error) {
	return popularTags(ctx, r.conn, "projects", limit)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *ProjectRepository) load(ctx context.Context, op string, where []string, args ...any) ([]*project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapError("project", op, shared.ErrRepository, "query failed", err)
	}
	projects, err := pgx.CollectRows(rows, scanProject)
	if err != nil {
		return nil, shared.WrapError("project", op, shared.ErrRepository, "scan failed", err)
	}
	return projects, nil
}

// scanProject rehydrates through the entity constructor, so a row that
// violates a domain invariant surfaces as a validation error.
func scanProject(row pgx.CollectableRow) (*project.Project, error) {
	var props project.Props
	err := row.Scan(
		&props.ID, &props.Title, &props.Description, &props.Category, &props.Status,
		&props.GitHubURL, &props.WebsiteURL, &props.Tags, &props.Stars, &props.Forks,
		&props.Featured, &props.CreatedAt, &props.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return project.ProjectFromPersistence(props)
}

// popularTags counts tags with unnest; ordering matches shared.CountTags
// except that ties are broken by byte order rather than collation.
func popularTags(ctx context.Context, q Querier, table string, limit int) ([]shared.TagCount, error) {
	query := `SELECT tag, count(*) AS n FROM ` + table + `, unnest(tags) AS tag
		GROUP BY tag ORDER BY n DESC, tag ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapError(table, "GetPopularTags", shared.ErrRepository, "query failed", err)
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.TagCount, error) {
		var tc shared.TagCount
		err := row.Scan(&tc.Tag, &tc.Count)
		return tc, err
	})
	if err != nil {
		return nil, shared.WrapError(table, "GetPopularTags", shared.ErrRepository, "scan failed", err)
	}
	return counts, nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
