package postbrowser

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// PostCard is the display projection of a Post.
type PostCard struct {
	Title      template.HTML
	PlainTitle string
	Excerpt    template.HTML
	ImageURL   string
	Path       string
	Slug       string
	Categories []string
	Tags       []string
}

// Presenter maps posts to cards. Markup in titles and excerpts is sanitized
// unless the content source is trusted.
type Presenter struct {
	trusted bool
	ugc     *bluemonday.Policy
	strict  *bluemonday.Policy

	categoryNames map[string]string
	tagNames      map[string]string
}

// NewPresenter creates a Presenter that resolves taxonomy names from snap.
func NewPresenter(snap Snapshot, trustMarkup bool) *Presenter {
	p := &Presenter{
		trusted:       trustMarkup,
		ugc:           bluemonday.UGCPolicy(),
		strict:        bluemonday.StrictPolicy(),
		categoryNames: make(map[string]string, len(snap.Categories)),
		tagNames:      make(map[string]string, len(snap.Tags)),
	}
	for _, c := range snap.Categories {
		p.categoryNames[c.Slug] = c.Name
	}
	for _, t := range snap.Tags {
		p.tagNames[t.Slug] = t.Name
	}
	return p
}

// Card projects a single post.
func (p *Presenter) Card(post Post) PostCard {
	return PostCard{
		Title:      p.Markup(post.Title),
		PlainTitle: p.PlainText(post.Title),
		Excerpt:    p.Markup(post.Excerpt),
		ImageURL:   strings.TrimSpace(post.FeaturedImageURL),
		Path:       post.Path(),
		Slug:       post.Slug,
		Categories: names(post.CategorySlugs, p.categoryNames),
		Tags:       names(post.TagSlugs, p.tagNames),
	}
}

// Cards projects posts in order.
func (p *Presenter) Cards(posts []Post) []PostCard {
	cards := make([]PostCard, 0, len(posts))
	for _, post := range posts {
		cards = append(cards, p.Card(post))
	}
	return cards
}

// Markup returns s as HTML, sanitized unless the presenter trusts its source.
func (p *Presenter) Markup(s string) template.HTML {
	if p.trusted {
		return template.HTML(s)
	}
	return template.HTML(p.ugc.Sanitize(s))
}

// PlainText strips all tags from s and decodes entities.
func (p *Presenter) PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.strict.Sanitize(s)))
}

// CategoryName returns the display name for slug, or the slug itself.
func (p *Presenter) CategoryName(slug string) string {
	if n, ok := p.categoryNames[slug]; ok {
		return n
	}
	return slug
}

// TagName returns the display name for slug, or the slug itself.
func (p *Presenter) TagName(slug string) string {
	if n, ok := p.tagNames[slug]; ok {
		return n
	}
	return slug
}

func names(slugs []string, lookup map[string]string) []string {
	if len(slugs) == 0 {
		return nil
	}
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if n, ok := lookup[s]; ok && n != "" {
			out = append(out, n)
		} else {
			out = append(out, s)
		}
	}
	return out
}
