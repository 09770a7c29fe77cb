package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NEWS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NewsRepository implements news.Repository for PostgreSQL.
type NewsRepository struct {
	conn *Connection
}

var _ news.Repository = (*NewsRepository)(nil)

// NewNewsRepository creates a new NewsRepository.
func NewNewsRepository(conn *Connection) *NewsRepository {
	return &NewsRepository{conn: conn}
}

const newsColumns = `id, slug, title, excerpt, content, category, author_id, tags,
	featured, published_at, created_at, updated_at`

func (r *NewsRepository) FindByID(ctx context.Context, id shared.NewsID) (*news.Article, error) {
	return r.findOne(ctx, "FindByID", "id", id.String())
}

func (r *NewsRepository) FindBySlug(ctx context.Context, slug shared.Slug) (*news.Article, error) {
	return r.findOne(ctx, "FindBySlug", "slug", slug.String())
}

func (r *NewsRepository) FindAll(ctx context.Context, filters news.Filters, sort shared.SortOptions, page shared.Pagination) (shared.Page[*news.Article], error) {
	var where []string
	var args []any
	if filters.Category != "" {
		args = append(args, string(filters.Category))
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filters.Published != nil {
		if *filters.Published {
			where = append(where, "published_at IS NOT NULL")
		} else {
			where = append(where, "published_at IS NULL")
		}
	}

	articles, err := r.load(ctx, "FindAll", where, args...)
	if err != nil {
		return shared.Page[*news.Article]{}, err
	}
	matched := news.FilterNews(articles, filters)
	return shared.Paginate(news.SortNews(matched, sort), page), nil
}

func (r *NewsRepository) FindFeatured(ctx context.Context, limit int) ([]*news.Article, error) {
	articles, err := r.load(ctx, "FindFeatured", []string{"published_at IS NOT NULL"})
	if err != nil {
		return nil, err
	}
	return news.GetFeaturedNews(articles, limit), nil
}

func (r *NewsRepository) FindByCategory(ctx context.Context, category news.Category) ([]*news.Article, error) {
	return r.load(ctx, "FindByCategory", []string{"category = $1"}, string(category))
}

// Save upserts the article. A slug already used by another article is
// reported as ErrAlreadyExists.
func (r *NewsRepository) Save(ctx context.Context, a *news.Article) error {
	props := a.ToProps()
	_, err := r.conn.Exec(ctx, `
		INSERT INTO news_articles (`+newsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug,
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			tags = EXCLUDED.tags,
			featured = EXCLUDED.featured,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at`,
		props.ID, props.Slug, props.Title, props.Excerpt, props.Content, props.Category,
		props.AuthorID, nonNil(props.Tags), props.Featured, props.PublishedAt,
		props.CreatedAt, props.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.WrapError("news", "Save", shared.ErrAlreadyExists, "slug already in use: "+props.Slug, err)
		}
		return shared.WrapError("news", "Save", shared.ErrRepository, "upsert failed", err)
	}
	return nil
}

func (r *NewsRepository) Delete(ctx context.Context, id shared.NewsID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM news_articles WHERE id = $1`, id.String())
	if err != nil {
		return shared.WrapError("news", "Delete", shared.ErrRepository, "delete failed", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("news", "Delete", id.String())
	}
	return nil
}

func (r *NewsRepository) Exists(ctx context.Context, id shared.NewsID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM news_articles WHERE id = $1)`, id.String()).Scan(&exists)
	if err != nil {
		return false, shared.WrapError("news", "Exists", shared.ErrRepository, "query failed", err)
	}
	return exists, nil
}

func (r *NewsRepository) CountByCategory(ctx context.Context) (map[news.Category]int, error) {
	rows, err := r.conn.Query(ctx, `SELECT category, count(*) FROM news_articles GROUP BY category`)
	if err != nil {
		return nil, shared.WrapError("news", "CountByCategory", shared.ErrRepository, "query failed", err)
	}
	defer rows.Close()

	counts := make(map[news.Category]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, shared.WrapError("news", "CountByCategory", shared.ErrRepository, "scan failed", err)
		}
		counts[news.Category(category)] = n
	}
	return counts, rows.Err()
}

func (r *NewsRepository) GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error) {
	return popularTags(ctx, r.conn, "news_articles", limit)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *NewsRepository) findOne(ctx context.Context, op, column, value string) (*news.Article, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+newsColumns+` FROM news_articles WHERE `+column+` = $1`, value)
	if err != nil {
		return nil, shared.WrapError("news", op, shared.ErrRepository, "query failed", err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanArticle)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.NotFound("news", op, value)
		}
		return nil, shared.WrapError("news", op, shared.ErrRepository, "scan failed", err)
	}
	return a, nil
}

func (r *NewsRepository) load(ctx context.Context, op string, where []string, args ...any) ([]*news.Article, error) {
	query := `SELECT ` + newsColumns + ` FROM news_articles`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, shared.WrapError("news", op, shared.ErrRepository, "query failed", err)
	}
	articles, err := pgx.CollectRows(rows, scanArticle)
	if err != nil {
		return nil, shared.WrapError("news", op, shared.ErrRepository, "scan failed", err)
	}
	return articles, nil
}

func scanArticle(row pgx.CollectableRow) (*news.Article, error) {
	var props news.Props
	err := row.Scan(
		&props.ID, &props.Slug, &props.Title, &props.Excerpt, &props.Content, &props.Category,
		&props.AuthorID, &props.Tags, &props.Featured, &props.PublishedAt,
		&props.CreatedAt, &props.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	props.Published = props.PublishedAt != nil
	return news.ArticleFromPersistence(props)
}
