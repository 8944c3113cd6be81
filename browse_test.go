package postbrowser

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedPosts(n int) []Post {
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = Post{
			ID:      fmt.Sprintf("p%d", i+1),
			Slug:    fmt.Sprintf("post-%d", i+1),
			Title:   fmt.Sprintf("Post %d", i+1),
			Excerpt: "<p>Lorem ipsum</p>",
		}
	}
	return posts
}

func taxonomyPosts() []Post {
	return []Post{
		{ID: "1", Slug: "launch", Title: "Launch Day", Excerpt: "We shipped", CategorySlugs: []string{"news"}, TagSlugs: []string{"featured"}},
		{ID: "2", Slug: "roadmap", Title: "Roadmap", Excerpt: "What is NEXT", CategorySlugs: []string{"news"}},
		{ID: "3", Slug: "tips", Title: "Ten Tips", Excerpt: "Things to try", CategorySlugs: []string{"tutorials"}, TagSlugs: []string{"featured"}},
		{ID: "4", Slug: "bare", Title: "No Relations", Excerpt: ""},
		{ID: "5", Slug: "recap", Title: "Weekly Recap", Excerpt: "<em>next</em> steps", CategorySlugs: []string{"news", "tutorials"}, TagSlugs: []string{"featured", "weekly"}},
	}
}

func slugsOf(posts []Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func TestComputeVisiblePostsFifteenPosts(t *testing.T) {
	posts := numberedPosts(15)

	page1 := ComputeVisiblePosts(posts, BrowseState{CurrentPage: 1}, 12)
	assert.Len(t, page1.Items, 12)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, 15, page1.FilteredCount)
	assert.Equal(t, "post-1", page1.Items[0].Slug)

	page2 := ComputeVisiblePosts(posts, BrowseState{CurrentPage: 2}, 12)
	assert.Len(t, page2.Items, 3)
	assert.Equal(t, 2, page2.TotalPages)
	assert.Equal(t, []string{"post-13", "post-14", "post-15"}, slugsOf(page2.Items))
}

func TestComputeVisiblePostsNoMatch(t *testing.T) {
	res := ComputeVisiblePosts(numberedPosts(15), BrowseState{SearchQuery: "hello", CurrentPage: 1}, 12)

	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
	assert.True(t, res.Empty())
	assert.Empty(t, res.PageNumbers())
}

func TestComputeVisiblePostsCategoryAndTag(t *testing.T) {
	posts := taxonomyPosts()

	news := ComputeVisiblePosts(posts, BrowseState{Category: "news", CurrentPage: 1}, 12)
	assert.Equal(t, []string{"launch", "roadmap", "recap"}, slugsOf(news.Items))

	both := ComputeVisiblePosts(posts, BrowseState{Category: "news", Tag: "featured", CurrentPage: 1}, 12)
	assert.Equal(t, []string{"launch", "recap"}, slugsOf(both.Items))
	assert.Equal(t, 1, both.TotalPages)
}

func TestComputeVisiblePostsPagePastEnd(t *testing.T) {
	res := ComputeVisiblePosts(numberedPosts(15), BrowseState{CurrentPage: 5}, 12)

	assert.Empty(t, res.Items)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 5, res.Page)
	assert.False(t, res.Empty(), "a page past the end is not an empty result")
	assert.False(t, res.HasNext())
	assert.False(t, res.HasPrev())
}

func TestComputeVisiblePostsHugePage(t *testing.T) {
	for _, page := range []int{math.MaxInt, math.MaxInt / 12, math.MaxInt/12 + 2} {
		res := ComputeVisiblePosts(numberedPosts(15), BrowseState{CurrentPage: page}, 12)
		assert.Empty(t, res.Items, "page %d", page)
		assert.Equal(t, 2, res.TotalPages, "page %d", page)
		assert.Equal(t, page, res.Page)
	}
}

func TestComputeVisiblePostsHugePageSize(t *testing.T) {
	res := ComputeVisiblePosts(numberedPosts(15), BrowseState{CurrentPage: 1}, math.MaxInt)

	assert.Equal(t, 1, res.TotalPages)
	assert.Len(t, res.Items, 15)
}

func TestComputeVisiblePostsPageBelowOne(t *testing.T) {
	for _, page := range []int{0, -3} {
		res := ComputeVisiblePosts(numberedPosts(3), BrowseState{CurrentPage: page}, 12)
		assert.Empty(t, res.Items, "page %d", page)
		assert.Equal(t, 1, res.TotalPages, "page %d", page)
	}
}

func TestComputeVisiblePostsDefaultPageSize(t *testing.T) {
	res := ComputeVisiblePosts(numberedPosts(30), NewBrowseState(), 0)

	assert.Equal(t, DefaultPageSize, res.PageSize)
	assert.Len(t, res.Items, DefaultPageSize)
	assert.Equal(t, 3, res.TotalPages)
}

func TestSearchIsCaseInsensitiveOverTitleAndExcerpt(t *testing.T) {
	posts := taxonomyPosts()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"title match", "launch", []string{"launch"}},
		{"upper-case query", "TIPS", []string{"tips"}},
		{"excerpt match", "next", []string{"roadmap", "recap"}},
		{"markup in excerpt", "<em>", []string{"recap"}},
		{"empty query", "", []string{"launch", "roadmap", "tips", "bare", "recap"}},
		{"no match", "zebra", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPosts(posts, BrowseState{SearchQuery: tt.query})
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, slugsOf(got))
		})
	}
}

func TestSearchFoldsUnicodeCase(t *testing.T) {
	posts := []Post{{Slug: "strasse", Title: "Die STRASSE"}, {Slug: "sigma", Title: "ΣΊΣΥΦΟΣ"}}

	assert.Equal(t, []string{"strasse"}, slugsOf(FilterPosts(posts, BrowseState{SearchQuery: "straße"})))
	assert.Equal(t, []string{"sigma"}, slugsOf(FilterPosts(posts, BrowseState{SearchQuery: "σίσυφος"})))
}

func TestPostsWithoutRelationsNeverMatchTaxonomyFilters(t *testing.T) {
	posts := []Post{{Slug: "bare", Title: "Bare"}}

	assert.Empty(t, FilterPosts(posts, BrowseState{Category: "news"}))
	assert.Empty(t, FilterPosts(posts, BrowseState{Tag: "featured"}))
	assert.Len(t, FilterPosts(posts, BrowseState{}), 1)
}

func TestComputeVisiblePostsIsDeterministic(t *testing.T) {
	posts := taxonomyPosts()
	state := BrowseState{SearchQuery: "e", Category: "news", CurrentPage: 1}

	first := ComputeVisiblePosts(posts, state, 2)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ComputeVisiblePosts(posts, state, 2))
	}
	assert.Equal(t, "launch", posts[0].Slug, "input must not be reordered")
}

func TestFilteringIsMonotonic(t *testing.T) {
	posts := append(taxonomyPosts(), numberedPosts(7)...)
	queries := []string{"", "e", "next", "post"}
	categories := []string{"news", "tutorials", "missing"}
	tags := []string{"featured", "weekly", "missing"}

	for _, q := range queries {
		base := len(FilterPosts(posts, BrowseState{SearchQuery: q}))
		for _, c := range categories {
			withCat := len(FilterPosts(posts, BrowseState{SearchQuery: q, Category: c}))
			assert.LessOrEqual(t, withCat, base)
			for _, tg := range tags {
				withBoth := len(FilterPosts(posts, BrowseState{SearchQuery: q, Category: c, Tag: tg}))
				assert.LessOrEqual(t, withBoth, withCat)
			}
		}
	}
}

func TestTotalPagesMatchesFilteredCount(t *testing.T) {
	for n := 0; n <= 30; n++ {
		for _, size := range []int{1, 5, 12} {
			res := ComputeVisiblePosts(numberedPosts(n), NewBrowseState(), size)
			want := (n + size - 1) / size
			require.Equal(t, want, res.TotalPages, "n=%d size=%d", n, size)
			require.Equal(t, n == 0, res.TotalPages == 0, "n=%d size=%d", n, size)
		}
	}
}

func TestPagesPartitionFilteredSequence(t *testing.T) {
	posts := append(numberedPosts(23), taxonomyPosts()...)
	state := BrowseState{SearchQuery: "o"}
	filtered := FilterPosts(posts, state)
	const size = 4

	first := ComputeVisiblePosts(posts, state, size)
	var joined []Post
	for page := 1; page <= first.TotalPages; page++ {
		state.CurrentPage = page
		res := ComputeVisiblePosts(posts, state, size)
		require.NotEmpty(t, res.Items, "page %d", page)
		require.LessOrEqual(t, len(res.Items), size, "page %d", page)
		joined = append(joined, res.Items...)
	}
	assert.Equal(t, slugsOf(filtered), slugsOf(joined))
}

func TestPageResultNavigation(t *testing.T) {
	res := ComputeVisiblePosts(numberedPosts(25), BrowseState{CurrentPage: 2}, 12)

	assert.True(t, res.HasPrev())
	assert.True(t, res.HasNext())
	assert.Equal(t, []int{1, 2, 3}, res.PageNumbers())

	last := ComputeVisiblePosts(numberedPosts(25), BrowseState{CurrentPage: 3}, 12)
	assert.True(t, last.HasPrev())
	assert.False(t, last.HasNext())
}
