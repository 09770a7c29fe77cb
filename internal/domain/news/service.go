package news

import (
	"strings"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NEWS SERVICE
// Stateless queries over article slices. Inputs are never modified.
// ══════════════════════════════════════════════════════════════════════════════

const (
	SortByTitle       = "title"
	SortByPublishedAt = "publishedAt"
	SortByCreatedAt   = "createdAt"
	SortByUpdatedAt   = "updatedAt"
	SortByReadingTime = "readingTime"
	SortByCategory    = "category"
)

// Filters narrows a news listing. Zero-valued criteria are ignored.
type Filters struct {
	Category       Category
	Tags           []string
	AuthorID       shared.AuthorID
	Featured       *bool
	Published      *bool
	PublishedAfter time.Time
	Search         string
}

// FilterNews keeps articles matching every set criterion.
func FilterNews(articles []*Article, f Filters) []*Article {
	return shared.Filter(articles, func(a *Article) bool {
		if f.Category != "" && a.Category() != f.Category {
			return false
		}
		if len(f.Tags) > 0 && !shared.HasAnyTag(a.tags, f.Tags) {
			return false
		}
		if f.AuthorID != "" && !a.AuthorID().Equals(f.AuthorID) {
			return false
		}
		if f.Featured != nil && a.IsFeatured() != *f.Featured {
			return false
		}
		if f.Published != nil && a.IsPublished() != *f.Published {
			return false
		}
		if !f.PublishedAfter.IsZero() {
			at, ok := a.PublishedAt()
			if !ok || at.Before(f.PublishedAfter) {
				return false
			}
		}
		if q := strings.TrimSpace(f.Search); q != "" && !a.MatchesSearch(q) {
			return false
		}
		return true
	})
}

// SearchNews returns articles matching query. A blank query returns a copy.
func SearchNews(articles []*Article, query string) []*Article {
	q := strings.TrimSpace(query)
	if q == "" {
		return shared.Filter(articles, func(*Article) bool { return true })
	}
	return shared.Filter(articles, func(a *Article) bool { return a.MatchesSearch(q) })
}

// SortNews returns a stably sorted copy; ties fall back to title ascending.
// Sorting by publishedAt places drafts by creation time.
func SortNews(articles []*Article, opts shared.SortOptions) []*Article {
	col := shared.NewCollator()
	byTitle := func(a, b *Article) int { return col.Compare(a.Title(), b.Title()) }

	var primary func(a, b *Article) int
	switch opts.Field {
	case SortByTitle:
		return shared.StableSort(articles, opts.Desc(), byTitle)
	case SortByPublishedAt:
		primary = func(a, b *Article) int { return a.Recency().Compare(b.Recency()) }
	case SortByCreatedAt:
		primary = func(a, b *Article) int { return a.CreatedAt().Compare(b.CreatedAt()) }
	case SortByUpdatedAt:
		primary = func(a, b *Article) int { return a.UpdatedAt().Compare(b.UpdatedAt()) }
	case SortByReadingTime:
		primary = func(a, b *Article) int {
			return shared.CompareInts(a.ReadingTime().Minutes(), b.ReadingTime().Minutes())
		}
	case SortByCategory:
		primary = func(a, b *Article) int { return col.Compare(string(a.Category()), string(b.Category())) }
	default:
		return shared.Filter(articles, func(*Article) bool { return true })
	}
	return shared.SortBy(articles, opts.Desc(), primary, byTitle)
}

func newestFirst(a, b *Article) int { return b.Recency().Compare(a.Recency()) }

// GetFeaturedNews returns published articles, featured first, then most recent.
func GetFeaturedNews(articles []*Article, limit int) []*Article {
	published := shared.Filter(articles, (*Article).IsPublished)
	ranked := shared.StableSort(published, false, func(a, b *Article) int {
		if a.IsFeatured() != b.IsFeatured() {
			if a.IsFeatured() {
				return -1
			}
			return 1
		}
		return newestFirst(a, b)
	})
	return shared.Truncate(ranked, limit)
}

// GetRecentNews returns articles published within days of now, newest first.
func GetRecentNews(articles []*Article, now time.Time, days int) []*Article {
	recent := shared.Filter(articles, func(a *Article) bool { return a.IsRecent(now, days) })
	return shared.StableSort(recent, false, newestFirst)
}

// GetRelatedNews returns published articles sharing the category or any tag
// with article, excluding article itself, newest first.
func GetRelatedNews(article *Article, articles []*Article, limit int) []*Article {
	related := shared.Filter(articles, func(a *Article) bool {
		if a.ID().Equals(article.ID()) || !a.IsPublished() {
			return false
		}
		return a.Category() == article.Category() || shared.HasAnyTag(a.tags, article.tags)
	})
	return shared.Truncate(shared.StableSort(related, false, newestFirst), limit)
}

// Stats summarizes a set of articles.
type Stats struct {
	Total               int
	Published           int
	Drafts              int
	Featured            int
	ByCategory          map[Category]int
	TotalReadingMinutes int
}

// GetNewsStats computes Stats in a single pass.
func GetNewsStats(articles []*Article) Stats {
	s := Stats{Total: len(articles), ByCategory: make(map[Category]int)}
	for _, a := range articles {
		if a.IsPublished() {
			s.Published++
		} else {
			s.Drafts++
		}
		if a.IsFeatured() {
			s.Featured++
		}
		s.ByCategory[a.Category()]++
		s.TotalReadingMinutes += a.ReadingTime().Minutes()
	}
	return s
}

// GetPopularTags counts tags across articles, most used first.
func GetPopularTags(articles []*Article, limit int) []shared.TagCount {
	return shared.CountTags(articles, func(a *Article) []string { return a.tags }, limit)
}
