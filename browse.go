package postbrowser

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultPageSize is the number of posts per page on the index.
const DefaultPageSize = 12

// PageResult is one page of the filtered post sequence.
type PageResult struct {
	Items         []Post
	TotalPages    int
	FilteredCount int
	Page          int
	PageSize      int
}

// Empty reports whether the filters matched no posts at all.
func (r PageResult) Empty() bool {
	return r.FilteredCount == 0
}

// HasPrev reports whether a page before the current one exists.
func (r PageResult) HasPrev() bool {
	return r.Page > 1 && r.Page <= r.TotalPages
}

// HasNext reports whether a page after the current one exists.
func (r PageResult) HasNext() bool {
	return r.Page >= 1 && r.Page < r.TotalPages
}

// PageNumbers returns 1..TotalPages for pagination controls.
func (r PageResult) PageNumbers() []int {
	nums := make([]int, r.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// ComputeVisiblePosts filters posts by the search query, category and tag in
// state and returns the requested page. The relative order of posts is kept.
// A page past the end (or below 1) yields no items; it is not clamped.
func ComputeVisiblePosts(posts []Post, state BrowseState, pageSize int) PageResult {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	filtered := FilterPosts(posts, state)

	res := PageResult{
		FilteredCount: len(filtered),
		TotalPages:    pageCount(len(filtered), pageSize),
		Page:          state.CurrentPage,
		PageSize:      pageSize,
	}
	if state.CurrentPage < 1 || state.CurrentPage > res.TotalPages {
		return res
	}
	start := (state.CurrentPage - 1) * pageSize
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Items = filtered[start:end]
	return res
}

// pageCount is ceil(n / size) without the overflow of (n+size-1)/size.
func pageCount(n, size int) int {
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

// FilterPosts returns the posts matching every active predicate of state.
func FilterPosts(posts []Post, state BrowseState) []Post {
	fold := cases.Fold()
	query := fold.String(state.SearchQuery)

	var out []Post
	for _, p := range posts {
		if !matchesQuery(fold, p, query) {
			continue
		}
		if state.Category != "" && !p.HasCategory(state.Category) {
			continue
		}
		if state.Tag != "" && !p.HasTag(state.Tag) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchesQuery expects query to be case-folded already.
func matchesQuery(fold cases.Caser, p Post, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(fold.String(p.Title), query) ||
		strings.Contains(fold.String(p.Excerpt), query)
}
