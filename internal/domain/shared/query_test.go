package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type item struct {
	name  string
	score int
}

func names(items []item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func TestSortBy_TiesStayAscendingWhenDescending(t *testing.T) {
	items := []item{{"charlie", 1}, {"bravo", 2}, {"alpha", 1}, {"delta", 2}}
	col := NewCollator()
	byScore := func(a, b item) int { return CompareInts(a.score, b.score) }
	byName := func(a, b item) int { return col.Compare(a.name, b.name) }

	assert.Equal(t, []string{"bravo", "delta", "alpha", "charlie"}, names(SortBy(items, true, byScore, byName)))
	assert.Equal(t, []string{"alpha", "charlie", "bravo", "delta"}, names(SortBy(items, false, byScore, byName)))
	assert.Equal(t, []string{"charlie", "alpha", "bravo", "delta"}, names(SortBy(items, false, byScore, nil)),
		"without a tie-breaker input order is kept")
	assert.Equal(t, "charlie", items[0].name, "input is not modified")
}

func TestCollator_OrdersAccentedLetters(t *testing.T) {
	col := NewCollator()
	words := []string{"zebra", "Éclair", "apple"}

	sorted := StableSort(words, false, col.Compare)
	assert.Equal(t, []string{"apple", "Éclair", "zebra"}, sorted)
}

func TestParseSortDirection(t *testing.T) {
	assert.Equal(t, SortDesc, ParseSortDirection(" DESC "))
	assert.Equal(t, SortAsc, ParseSortDirection("descending"))
	assert.Equal(t, SortAsc, ParseSortDirection(""))
	assert.True(t, SortOptions{Direction: SortDesc}.Desc())
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        Pagination
	}{
		{"defaults", 0, 0, Pagination{Page: 1, Limit: DefaultPageSize}},
		{"negative", -2, -5, Pagination{Page: 1, Limit: DefaultPageSize}},
		{"clamped", 3, MaxPageSize + 1, Pagination{Page: 3, Limit: MaxPageSize}},
		{"kept", 2, 10, Pagination{Page: 2, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.limit))
		})
	}
	assert.Equal(t, 10, Pagination{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 0, Pagination{}.Offset())
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first := Paginate(items, NewPagination(1, 2))
	assert.Equal(t, []int{1, 2}, first.Items)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 3, first.TotalPages)
	assert.True(t, first.HasMore())

	last := Paginate(items, NewPagination(3, 2))
	assert.Equal(t, []int{5}, last.Items)
	assert.False(t, last.HasMore())

	past := Paginate(items, NewPagination(9, 2))
	assert.Empty(t, past.Items)
	assert.Equal(t, 5, past.Total)
	assert.Equal(t, 9, past.Page)
	assert.False(t, past.HasMore())

	empty := Paginate([]int(nil), DefaultPagination())
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasMore())

	first.Items[0] = 99
	assert.Equal(t, 1, items[0], "page items are a copy")
}

func TestMapPage(t *testing.T) {
	p := MapPage(Paginate([]int{1, 2, 3}, NewPagination(2, 2)), func(n int) string {
		return string(rune('a' + n - 1))
	})
	assert.Equal(t, []string{"c"}, p.Items)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 2, p.TotalPages)
}

func TestCountTags(t *testing.T) {
	items := [][]string{{"data", "maps"}, {"data", "budget"}, {"budget", "data"}}

	got := CountTags(items, func(tags []string) []string { return tags }, 2)
	assert.Equal(t, []TagCount{{Tag: "data", Count: 3}, {Tag: "budget", Count: 2}}, got)

	assert.Empty(t, CountTags([][]string{}, func(tags []string) []string { return tags }, 5))
}

func TestFilterAndTruncate(t *testing.T) {
	evens := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, evens)

	assert.Equal(t, []int{2}, Truncate(evens, 1))
	assert.Equal(t, []int{2, 4}, Truncate(evens, 0))
	assert.Equal(t, []int{2, 4}, Truncate(evens, 10))
}
