package memory

import (
	"context"

	"github.com/civic-hub/civic-site/internal/domain/news"
	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// NewsRepository implements news.Repository with a unique slug index.
type NewsRepository struct {
	store  *store[shared.NewsID, *news.Article]
	bySlug map[shared.Slug]shared.NewsID // guarded by store.mu
}

var _ news.Repository = (*NewsRepository)(nil)

func NewNewsRepository() *NewsRepository {
	return &NewsRepository{
		store:  newStore[shared.NewsID, *news.Article](),
		bySlug: make(map[shared.Slug]shared.NewsID),
	}
}

func (r *NewsRepository) FindByID(ctx context.Context, id shared.NewsID) (*news.Article, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	a, ok := r.store.get(id)
	if !ok {
		return nil, shared.NotFound("news", "FindByID", id.String())
	}
	return a, nil
}

func (r *NewsRepository) FindBySlug(ctx context.Context, slug shared.Slug) (*news.Article, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	id, ok := r.bySlug[slug]
	a := r.store.items[id]
	r.store.mu.RUnlock()
	if !ok {
		return nil, shared.NotFound("news", "FindBySlug", slug.String())
	}
	return a, nil
}

func (r *NewsRepository) FindAll(ctx context.Context, filters news.Filters, sort shared.SortOptions, page shared.Pagination) (shared.Page[*news.Article], error) {
	if err := alive(ctx); err != nil {
		return shared.Page[*news.Article]{}, err
	}
	matched := news.FilterNews(r.store.all(), filters)
	return shared.Paginate(news.SortNews(matched, sort), page), nil
}

func (r *NewsRepository) FindFeatured(ctx context.Context, limit int) ([]*news.Article, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return news.GetFeaturedNews(r.store.all(), limit), nil
}

func (r *NewsRepository) FindByCategory(ctx context.Context, category news.Category) ([]*news.Article, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return news.FilterNews(r.store.all(), news.Filters{Category: category}), nil
}

func (r *NewsRepository) Save(ctx context.Context, a *news.Article) error {
	if err := alive(ctx); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if owner, taken := r.bySlug[a.Slug()]; taken && owner != a.ID() {
		return shared.NewDomainError("news", "Save", shared.ErrAlreadyExists, "slug "+a.Slug().String()+" is already used")
	}
	if prev, ok := r.store.items[a.ID()]; ok && prev.Slug() != a.Slug() {
		delete(r.bySlug, prev.Slug())
	}
	r.bySlug[a.Slug()] = a.ID()
	r.store.putLocked(a.ID(), a)
	return nil
}

func (r *NewsRepository) Delete(ctx context.Context, id shared.NewsID) error {
	if err := alive(ctx); err != nil {
		return err
	}
	a, ok := r.store.get(id)
	if !ok || !r.store.remove(id) {
		return shared.NotFound("news", "Delete", id.String())
	}
	r.store.mu.Lock()
	delete(r.bySlug, a.Slug())
	r.store.mu.Unlock()
	return nil
}

func (r *NewsRepository) Exists(ctx context.Context, id shared.NewsID) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	_, ok := r.store.get(id)
	return ok, nil
}

func (r *NewsRepository) CountByCategory(ctx context.Context) (map[news.Category]int, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	counts := make(map[news.Category]int)
	for _, a := range r.store.all() {
		counts[a.Category()]++
	}
	return counts, nil
}

func (r *NewsRepository) GetPopularTags(ctx context.Context, limit int) ([]shared.TagCount, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return news.GetPopularTags(r.store.all(), limit), nil
}
