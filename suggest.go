package postbrowser

import (
	"sort"

	"github.com/sahilm/fuzzy"
)

// Suggestion points the visitor at a category or tag whose name resembles a
// search query that found nothing.
type Suggestion struct {
	Kind  string // "category" or "tag"
	Name  string
	Slug  string
	Score int
}

// Suggest fuzzy-matches query against category and tag names and returns at
// most limit suggestions, best first.
func Suggest(query string, categories []Category, tags []Tag, limit int) []Suggestion {
	if query == "" || limit <= 0 {
		return nil
	}
	var out []Suggestion

	catNames := make([]string, len(categories))
	for i, c := range categories {
		catNames[i] = c.Name
	}
	for _, m := range fuzzy.Find(query, catNames) {
		c := categories[m.Index]
		out = append(out, Suggestion{Kind: "category", Name: c.Name, Slug: c.Slug, Score: m.Score})
	}

	tagNames := make([]string, len(tags))
	for i, t := range tags {
		tagNames[i] = t.Name
	}
	for _, m := range fuzzy.Find(query, tagNames) {
		t := tags[m.Index]
		out = append(out, Suggestion{Kind: "tag", Name: t.Name, Slug: t.Slug, Score: m.Score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
