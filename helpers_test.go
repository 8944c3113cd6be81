package postbrowser

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Go 1.22: What's New?  ", "go-1-22-what-s-new"},
		{"already-a-slug", "already-a-slug"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.input), tt.input)
	}
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://blog.example.com/", BuildURL("https://blog.example.com"))
	assert.Equal(t, "https://blog.example.com/sitemap.xml", BuildURL("https://blog.example.com/", "sitemap.xml"))
	assert.Equal(t, "https://example.com/blog/posts/a", BuildURL("https://example.com/blog", "posts", "a"))
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://blog.example.com/posts/hello", AbsoluteURL("https://blog.example.com", "/posts/hello"))
	assert.Equal(t, "https://blog.example.com/posts/hello", AbsoluteURL("https://blog.example.com/", Post{Slug: "hello"}.Path()))
}

func TestWebsiteJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Blog", URL: "https://blog.example.com", Author: "Ada"}
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(WebsiteJsonLD(cfg, Site{Title: "Field Notes", Description: "Notes"})), &data))

	assert.Equal(t, "WebSite", data["@type"])
	assert.Equal(t, "Field Notes", data["name"])
	assert.Equal(t, "Notes", data["description"])
	assert.Equal(t, "https://blog.example.com/", data["url"])
}

func TestBlogPostingJsonLD(t *testing.T) {
	cfg := SiteConfig{Name: "Blog", URL: "https://blog.example.com"}
	card := PostCard{PlainTitle: "Hello", Path: "/posts/hello", ImageURL: "https://cdn.example.com/h.jpg", Tags: []string{"Go", "Web"}}
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(BlogPostingJsonLD(card, cfg, Site{})), &data))

	assert.Equal(t, "Hello", data["headline"])
	assert.Equal(t, "https://blog.example.com/posts/hello", data["url"])
	assert.Equal(t, "Go, Web", data["keywords"])
	assert.Equal(t, "Blog", data["publisher"].(map[string]any)["name"])
	assert.NotContains(t, data, "author")
}
