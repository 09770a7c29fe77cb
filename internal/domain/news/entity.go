// Package news contains the NewsArticle entity and the stateless news queries.
package news

import (
	"slices"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

const (
	MaxTitleLength   = 200
	MaxExcerptLength = 500
	MaxContentLength = 50000
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: NEWS ARTICLE
// ══════════════════════════════════════════════════════════════════════════════

// Article is an immutable news article. Published articles always carry a
// publishedAt; drafts never do.
type Article struct {
	id          shared.NewsID
	slug        shared.Slug
	title       string
	excerpt     string
	content     string
	category    Category
	authorID    shared.AuthorID
	tags        []string
	featured    bool
	publishedAt *PublishedDate
	readingTime ReadingTime
	createdAt   time.Time
	updatedAt   time.Time
}

// NewArticleParams contains parameters for drafting a new article.
type NewArticleParams struct {
	Slug     string // derived from the title when empty
	Title    string
	Excerpt  string
	Content  string
	Category Category
	AuthorID string
	Tags     []string
	Featured bool
}

// Props is the persisted shape of an article.
type Props struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Content     string
	Category    string
	AuthorID    string
	Tags        []string
	Featured    bool
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewArticle drafts an unpublished article.
func NewArticle(params NewArticleParams) (*Article, error) {
	id := shared.NewNewsID()
	slug := params.Slug
	if slug == "" {
		s, err := shared.SlugFromTitleOr(params.Title, "news", id.String())
		if err != nil {
			return nil, err
		}
		slug = s.String()
	}
	now := timeutil.Now()
	return ArticleFromPersistence(Props{
		ID:        id.String(),
		Slug:      slug,
		Title:     params.Title,
		Excerpt:   params.Excerpt,
		Content:   params.Content,
		Category:  string(params.Category),
		AuthorID:  params.AuthorID,
		Tags:      params.Tags,
		Featured:  params.Featured,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// ArticleFromPersistence rehydrates an article, revalidating every invariant.
// The reading time is always recomputed from content.
func ArticleFromPersistence(props Props) (*Article, error) {
	id, err := shared.ParseNewsID(props.ID)
	if err != nil {
		return nil, err
	}
	slug, err := shared.NewSlug(props.Slug)
	if err != nil {
		return nil, err
	}
	title, err := shared.RequireText("title", props.Title, 1, MaxTitleLength)
	if err != nil {
		return nil, err
	}
	excerpt, err := shared.RequireText("excerpt", props.Excerpt, 0, MaxExcerptLength)
	if err != nil {
		return nil, err
	}
	content, err := shared.RequireText("content", props.Content, 1, MaxContentLength)
	if err != nil {
		return nil, err
	}
	category, err := ParseCategory(props.Category)
	if err != nil {
		return nil, err
	}
	authorID, err := shared.ParseAuthorID(props.AuthorID)
	if err != nil {
		return nil, err
	}
	tags, err := shared.NormalizeTags(props.Tags)
	if err != nil {
		return nil, err
	}

	var publishedAt *PublishedDate
	switch {
	case props.Published && props.PublishedAt == nil:
		return nil, shared.EmptyField("published at")
	case props.Published:
		d, err := NewPublishedDate(*props.PublishedAt)
		if err != nil {
			return nil, err
		}
		publishedAt = &d
	case props.PublishedAt != nil:
		return nil, shared.InvalidTransition("published at", "draft articles cannot have a published date")
	}

	if props.CreatedAt.IsZero() {
		return nil, shared.EmptyField("created at")
	}
	if props.UpdatedAt.Before(props.CreatedAt) {
		return nil, shared.OutOfRange("updated at", "cannot be before created at")
	}

	return &Article{
		id:          id,
		slug:        slug,
		title:       title,
		excerpt:     excerpt,
		content:     content,
		category:    category,
		authorID:    authorID,
		tags:        tags,
		featured:    props.Featured,
		publishedAt: publishedAt,
		readingTime: ReadingTimeFromContent(content),
		createdAt:   props.CreatedAt.UTC(),
		updatedAt:   props.UpdatedAt.UTC(),
	}, nil
}

// ToProps returns the persisted shape of the article.
func (a *Article) ToProps() Props {
	props := Props{
		ID:        a.id.String(),
		Slug:      a.slug.String(),
		Title:     a.title,
		Excerpt:   a.excerpt,
		Content:   a.content,
		Category:  string(a.category),
		AuthorID:  a.authorID.String(),
		Tags:      a.Tags(),
		Featured:  a.featured,
		Published: a.IsPublished(),
		CreatedAt: a.createdAt,
		UpdatedAt: a.updatedAt,
	}
	if a.publishedAt != nil {
		t := a.publishedAt.Time()
		props.PublishedAt = &t
	}
	return props
}

func (a *Article) update(mutate func(*Props)) (*Article, error) {
	props := a.ToProps()
	mutate(&props)
	props.UpdatedAt = timeutil.Later(a.updatedAt, timeutil.Now())
	return ArticleFromPersistence(props)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCESSORS
// ══════════════════════════════════════════════════════════════════════════════

func (a *Article) ID() shared.NewsID         { return a.id }
func (a *Article) Slug() shared.Slug         { return a.slug }
func (a *Article) Title() string             { return a.title }
func (a *Article) Excerpt() string           { return a.excerpt }
func (a *Article) Content() string           { return a.content }
func (a *Article) Category() Category        { return a.category }
func (a *Article) AuthorID() shared.AuthorID { return a.authorID }
func (a *Article) Tags() []string            { return slices.Clone(a.tags) }
func (a *Article) HasTag(tag string) bool    { return slices.Contains(a.tags, tag) }
func (a *Article) IsFeatured() bool          { return a.featured }
func (a *Article) IsPublished() bool         { return a.publishedAt != nil }
func (a *Article) ReadingTime() ReadingTime  { return a.readingTime }
func (a *Article) CreatedAt() time.Time      { return a.createdAt }
func (a *Article) UpdatedAt() time.Time      { return a.updatedAt }

// PublishedAt returns the publication instant; ok is false for drafts.
func (a *Article) PublishedAt() (t time.Time, ok bool) {
	if a.publishedAt == nil {
		return time.Time{}, false
	}
	return a.publishedAt.Time(), true
}

// Recency is the publication instant, or the creation time for drafts.
func (a *Article) Recency() time.Time {
	if t, ok := a.PublishedAt(); ok {
		return t
	}
	return a.createdAt
}

// IsRecent reports whether a published article went out within days of now.
func (a *Article) IsRecent(now time.Time, days int) bool {
	return a.publishedAt != nil && a.publishedAt.IsRecent(now, days)
}

// MatchesSearch checks title, excerpt, content and tags case-insensitively.
func (a *Article) MatchesSearch(query string) bool {
	for _, field := range []string{a.title, a.excerpt, a.content} {
		if shared.ContainsFold(field, query) {
			return true
		}
	}
	for _, t := range a.tags {
		if shared.ContainsFold(t, query) {
			return true
		}
	}
	return false
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (functional updates)
// ══════════════════════════════════════════════════════════════════════════════

// Publish makes the article public at now. Publishing a published article
// returns the receiver, keeping the original publishedAt.
func (a *Article) Publish(now time.Time) (*Article, error) {
	if a.IsPublished() {
		return a, nil
	}
	if now.IsZero() {
		now = timeutil.Now()
	}
	return a.update(func(p *Props) {
		p.Published = true
		p.PublishedAt = &now
	})
}

// Unpublish turns the article back into a draft. Drafts return the receiver.
func (a *Article) Unpublish() (*Article, error) {
	if !a.IsPublished() {
		return a, nil
	}
	return a.update(func(p *Props) {
		p.Published = false
		p.PublishedAt = nil
	})
}

// UpdateContent replaces title, excerpt and content; reading time follows content.
func (a *Article) UpdateContent(title, excerpt, content string) (*Article, error) {
	return a.update(func(p *Props) {
		p.Title = title
		p.Excerpt = excerpt
		p.Content = content
	})
}

// SetFeatured toggles the featured flag.
func (a *Article) SetFeatured(featured bool) (*Article, error) {
	if a.featured == featured {
		return a, nil
	}
	return a.update(func(p *Props) { p.Featured = featured })
}

// AddTag returns an article carrying tag; present tags return the receiver.
func (a *Article) AddTag(tag string) (*Article, error) {
	t, err := shared.NormalizeTag(tag)
	if err != nil {
		return nil, err
	}
	if a.HasTag(t) {
		return a, nil
	}
	return a.update(func(p *Props) { p.Tags = append(p.Tags, t) })
}

// RemoveTag returns an article without tag, trimmed like AddTag; absent or
// blank tags return the receiver.
func (a *Article) RemoveTag(tag string) (*Article, error) {
	tag, err := shared.NormalizeTag(tag)
	if err != nil || !a.HasTag(tag) {
		return a, nil
	}
	return a.update(func(p *Props) {
		p.Tags = slices.DeleteFunc(p.Tags, func(t string) bool { return t == tag })
	})
}
