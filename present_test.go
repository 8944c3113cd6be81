package postbrowser

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenterSanitizesByDefault(t *testing.T) {
	p := NewPresenter(sampleSnapshot(), false)
	card := p.Card(Post{
		Slug:    "x",
		Title:   `Hello <script>alert(1)</script><b>World</b>`,
		Excerpt: `<p onclick="evil()">Body <a href="javascript:alert(1)">link</a></p>`,
	})

	assert.NotContains(t, string(card.Title), "<script>")
	assert.Contains(t, string(card.Title), "<b>World</b>")
	assert.NotContains(t, string(card.Excerpt), "onclick")
	assert.NotContains(t, string(card.Excerpt), "javascript:")
	assert.Equal(t, "Hello World", card.PlainTitle)
}

func TestPresenterTrustedMarkupPassesThrough(t *testing.T) {
	p := NewPresenter(Snapshot{}, true)
	raw := `<p class="lead">Keep <em>this</em></p>`

	assert.Equal(t, template.HTML(raw), p.Markup(raw))
}

func TestPresenterCard(t *testing.T) {
	snap := sampleSnapshot()
	p := NewPresenter(snap, false)
	card := p.Card(snap.Posts[0])

	assert.Equal(t, "/posts/hello-world", card.Path)
	assert.Equal(t, "hello-world", card.Slug)
	assert.Equal(t, "https://cdn.example.com/hello.png", card.ImageURL)
	assert.Equal(t, []string{"News"}, card.Categories)
	assert.Equal(t, []string{"Featured", "Go"}, card.Tags)
}

func TestPresenterCardWithoutImageOrRelations(t *testing.T) {
	p := NewPresenter(sampleSnapshot(), false)
	card := p.Card(Post{Slug: "plain", Title: "Plain", FeaturedImageURL: "   "})

	assert.Empty(t, card.ImageURL)
	assert.Nil(t, card.Categories)
	assert.Nil(t, card.Tags)
}

func TestPresenterUnknownSlugsFallBackToSlug(t *testing.T) {
	p := NewPresenter(sampleSnapshot(), false)

	assert.Equal(t, "News", p.CategoryName("news"))
	assert.Equal(t, "gone", p.CategoryName("gone"))
	assert.Equal(t, "Go", p.TagName("go"))
	assert.Equal(t, "gone", p.TagName("gone"))
	assert.Equal(t, []string{"Go", "gone"}, p.Card(Post{TagSlugs: []string{"go", "gone"}}).Tags)
}

func TestPresenterPlainText(t *testing.T) {
	p := NewPresenter(Snapshot{}, false)

	assert.Equal(t, "Tom & Jerry", p.PlainText("<p>Tom &amp; Jerry</p>"))
	assert.Equal(t, "", p.PlainText("  "))
}

func TestPresenterCardsKeepOrder(t *testing.T) {
	p := NewPresenter(Snapshot{}, false)
	cards := p.Cards(numberedPosts(4))

	assert.Len(t, cards, 4)
	for i, c := range cards {
		assert.Equal(t, numberedPosts(4)[i].Path(), c.Path)
	}
	assert.Empty(t, p.Cards(nil))
}
