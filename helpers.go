package postbrowser

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// AbsoluteURL resolves a site-relative path such as Post.Path against base.
func AbsoluteURL(base, p string) string {
	return BuildURL(base, strings.Split(strings.Trim(p, "/"), "/")...)
}

type ldThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type websiteLD struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Author      *ldThing `json:"author,omitempty"`
}

type blogPostingLD struct {
	Context   string   `json:"@context"`
	Type      string   `json:"@type"`
	Headline  string   `json:"headline"`
	URL       string   `json:"url"`
	Page      ldThing  `json:"mainEntityOfPage"`
	Image     string   `json:"image,omitempty"`
	Author    *ldThing `json:"author,omitempty"`
	Publisher *ldThing `json:"publisher,omitempty"`
	Keywords  string   `json:"keywords,omitempty"`
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(cfg SiteConfig, site Site) string {
	return marshalLD(websiteLD{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        siteTitle(cfg, site),
		URL:         BuildURL(cfg.URL),
		Description: site.Description,
		Author:      person(cfg.Author),
	})
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema. The
// headline is the plain-text title, never the rendered markup.
func BlogPostingJsonLD(card PostCard, cfg SiteConfig, site Site) string {
	postURL := AbsoluteURL(cfg.URL, card.Path)
	ld := blogPostingLD{
		Context:  "https://schema.org",
		Type:     "BlogPosting",
		Headline: card.PlainTitle,
		URL:      postURL,
		Page:     ldThing{Type: "WebPage", ID: postURL},
		Image:    card.ImageURL,
		Author:   person(cfg.Author),
		Keywords: strings.Join(card.Tags, ", "),
	}
	if name := siteTitle(cfg, site); name != "" {
		ld.Publisher = &ldThing{Type: "Organization", Name: name}
	}
	return marshalLD(ld)
}

func person(name string) *ldThing {
	if name == "" {
		return nil
	}
	return &ldThing{Type: "Person", Name: name}
}

func marshalLD(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// siteTitle prefers the title reported by the content source.
func siteTitle(cfg SiteConfig, site Site) string {
	if site.Title != "" {
		return site.Title
	}
	return cfg.Name
}
