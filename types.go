package postbrowser

// Post is a content item loaded from a ContentSource. Title and Excerpt may
// contain markup. Posts are never mutated after loading.
type Post struct {
	ID               string
	Title            string
	Excerpt          string
	Slug             string
	CategorySlugs    []string
	TagSlugs         []string
	FeaturedImageURL string
}

// Path returns the navigation target for the post.
func (p Post) Path() string {
	return "/posts/" + p.Slug
}

// HasCategory reports whether the post is filed under slug.
func (p Post) HasCategory(slug string) bool {
	return containsSlug(p.CategorySlugs, slug)
}

// HasTag reports whether the post carries tag slug.
func (p Post) HasTag(slug string) bool {
	return containsSlug(p.TagSlugs, slug)
}

func containsSlug(slugs []string, slug string) bool {
	for _, s := range slugs {
		if s == slug {
			return true
		}
	}
	return false
}

// Category is a slug-keyed classification applied to posts.
type Category struct {
	ID   string
	Name string
	Slug string
}

// Tag is a slug-keyed label applied to posts.
type Tag struct {
	ID   string
	Name string
	Slug string
}

// Site carries the general settings reported by the content source.
type Site struct {
	Title       string
	Description string
}

// Snapshot is everything a ContentSource returns in one load.
type Snapshot struct {
	Site       Site
	Posts      []Post
	Categories []Category
	Tags       []Tag
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
