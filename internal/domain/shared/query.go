package shared

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ═══════════════════════════════════════════════════════════════════════════
// Sorting
// ═══════════════════════════════════════════════════════════════════════════

// SortDirection is either ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection maps "desc" (any case) to SortDesc and anything else to SortAsc.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// SortOptions selects a field and direction.
type SortOptions struct {
	Field     string
	Direction SortDirection
}

// Desc reports whether the direction is descending.
func (o SortOptions) Desc() bool { return o.Direction == SortDesc }

// Collator compares strings using locale-aware ordering.
// A Collator is not safe for concurrent use; create one per sort.
type Collator struct {
	c *collate.Collator
}

// NewCollator returns an English collator.
func NewCollator() *Collator {
	return &Collator{c: collate.New(language.English)}
}

// Compare returns -1, 0 or +1.
func (c *Collator) Compare(a, b string) int {
	return c.c.CompareString(a, b)
}

// CompareInts returns -1, 0 or +1.
func CompareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// StableSort returns a sorted copy of items; cmp is applied in ascending sense
// and inverted for descending order. Equal elements keep their input order.
func StableSort[T any](items []T, desc bool, cmp func(a, b T) int) []T {
	out := slices.Clone(items)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// SortBy sorts a copy by primary in the requested direction; ties are then
// ordered by tie ascending regardless of direction. tie may be nil.
func SortBy[T any](items []T, desc bool, primary, tie func(a, b T) int) []T {
	return StableSort(items, false, func(a, b T) int {
		c := primary(a, b)
		if desc {
			c = -c
		}
		if c != 0 || tie == nil {
			return c
		}
		return tie(a, b)
	})
}

// Filter returns the items for which keep returns true, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Truncate returns at most limit items; a non-positive limit returns all.
func Truncate[T any](items []T, limit int) []T {
	if limit <= 0 || len(items) <= limit {
		return items
	}
	return items[:limit]
}

// ═══════════════════════════════════════════════════════════════════════════
// Tags
// ═══════════════════════════════════════════════════════════════════════════

// TagCount pairs a tag with the number of items carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CountTags tallies tags across items and returns them by count desc, tag asc.
func CountTags[T any](items []T, tagsOf func(T) []string, limit int) []TagCount {
	counts := make(map[string]int)
	for _, it := range items {
		for _, t := range tagsOf(it) {
			counts[t]++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, TagCount{Tag: t, Count: n})
	}
	col := NewCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return col.Compare(out[i].Tag, out[j].Tag) < 0
	})
	return Truncate(out, limit)
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents 1-indexed pagination parameters.
type Pagination struct {
	Page  int
	Limit int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NewPagination creates a new Pagination with defaults applied.
func NewPagination(page, limit int) Pagination {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}

// Offset returns the zero-based index of the first item on the page.
func (p Pagination) Offset() int {
	n := NewPagination(p.Page, p.Limit)
	return (n.Page - 1) * n.Limit
}

// Page is one page of a larger result set.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// HasMore reports whether pages follow this one.
func (p Page[T]) HasMore() bool { return p.Page < p.TotalPages }

// Paginate slices items according to p.
func Paginate[T any](items []T, p Pagination) Page[T] {
	n := NewPagination(p.Page, p.Limit)
	total := len(items)
	totalPages := (total + n.Limit - 1) / n.Limit

	start := n.Offset()
	if start > total {
		start = total
	}
	end := start + n.Limit
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      slices.Clone(items[start:end]),
		Total:      total,
		Page:       n.Page,
		Limit:      n.Limit,
		TotalPages: totalPages,
	}
}

// MapPage converts the items of a page, keeping the paging metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = fn(it)
	}
	return Page[U]{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages}
}
