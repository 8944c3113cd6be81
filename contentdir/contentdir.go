// Package contentdir loads a postbrowser snapshot from a directory of
// Markdown posts with YAML frontmatter.
//
// Layout:
//
//	site.yaml       title, description
//	taxonomy.yaml   categories and tags vocabularies
//	posts/*.md      one post per file
package contentdir

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/eringen/postbrowser"
)

// Source reads content from a directory on every Load.
type Source struct {
	dir string
	md  goldmark.Markdown
}

var _ postbrowser.ContentSource = (*Source)(nil)

// New creates a Source rooted at dir.
func New(dir string) *Source {
	return &Source{
		dir: dir,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Dir returns the content directory.
func (s *Source) Dir() string {
	return s.dir
}

type siteFile struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type term struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type taxonomyFile struct {
	Categories []term `yaml:"categories"`
	Tags       []term `yaml:"tags"`
}

type postMatter struct {
	ID            string   `yaml:"id"`
	Title         string   `yaml:"title"`
	Slug          string   `yaml:"slug"`
	Excerpt       string   `yaml:"excerpt"`
	Date          string   `yaml:"date"`
	Categories    []string `yaml:"categories"`
	Tags          []string `yaml:"tags"`
	FeaturedImage string   `yaml:"featured_image"`
	Draft         bool     `yaml:"draft"`
}

type datedPost struct {
	post postbrowser.Post
	date time.Time
}

// Load reads site.yaml, taxonomy.yaml and posts/*.md. Missing site and
// taxonomy files yield empty settings; a missing posts directory yields no
// posts. Drafts are skipped. Posts are ordered newest first, then by slug.
func (s *Source) Load(ctx context.Context) (postbrowser.Snapshot, error) {
	var snap postbrowser.Snapshot

	var site siteFile
	if err := readYAML(filepath.Join(s.dir, "site.yaml"), &site); err != nil {
		return snap, err
	}
	snap.Site = postbrowser.Site{Title: site.Title, Description: site.Description}

	var tax taxonomyFile
	if err := readYAML(filepath.Join(s.dir, "taxonomy.yaml"), &tax); err != nil {
		return snap, err
	}
	for _, t := range tax.Categories {
		snap.Categories = append(snap.Categories, postbrowser.Category{ID: termID(t), Name: t.Name, Slug: termSlug(t)})
	}
	for _, t := range tax.Tags {
		snap.Tags = append(snap.Tags, postbrowser.Tag{ID: termID(t), Name: t.Name, Slug: termSlug(t)})
	}

	files, err := filepath.Glob(filepath.Join(s.dir, "posts", "*.md"))
	if err != nil {
		return snap, err
	}
	var dated []datedPost
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		dp, ok, err := s.readPost(f)
		if err != nil {
			return snap, err
		}
		if ok {
			dated = append(dated, dp)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		if !dated[i].date.Equal(dated[j].date) {
			return dated[i].date.After(dated[j].date)
		}
		return dated[i].post.Slug < dated[j].post.Slug
	})
	for _, dp := range dated {
		snap.Posts = append(snap.Posts, dp.post)
	}
	return snap, nil
}

func (s *Source) readPost(path string) (datedPost, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return datedPost{}, false, err
	}
	var m postMatter
	body, err := frontmatter.Parse(bytes.NewReader(raw), &m)
	if err != nil {
		return datedPost{}, false, fmt.Errorf("parse frontmatter %s: %w", path, err)
	}
	if m.Draft {
		return datedPost{}, false, nil
	}

	slug := m.Slug
	if slug == "" {
		slug = postbrowser.Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	excerptSrc := m.Excerpt
	if excerptSrc == "" {
		excerptSrc = firstParagraph(string(body))
	}
	excerpt, err := s.render(excerptSrc)
	if err != nil {
		return datedPost{}, false, fmt.Errorf("render excerpt %s: %w", path, err)
	}

	var date time.Time
	if m.Date != "" {
		date, err = time.Parse("2006-01-02", m.Date)
		if err != nil {
			return datedPost{}, false, fmt.Errorf("%s: invalid date %q, use YYYY-MM-DD", path, m.Date)
		}
	}

	id := m.ID
	if id == "" {
		id = slug
	}
	return datedPost{
		post: postbrowser.Post{
			ID:               id,
			Title:            m.Title,
			Excerpt:          excerpt,
			Slug:             slug,
			CategorySlugs:    normalize(m.Categories),
			TagSlugs:         normalize(m.Tags),
			FeaturedImageURL: m.FeaturedImage,
		},
		date: date,
	}, true, nil
}

func (s *Source) render(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// firstParagraph returns the first block of body text that is not a heading.
func firstParagraph(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "#") || strings.HasPrefix(block, "```") {
			continue
		}
		return block
	}
	return ""
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func termSlug(t term) string {
	if t.Slug != "" {
		return t.Slug
	}
	return postbrowser.Slugify(t.Name)
}

func termID(t term) string {
	if t.ID != "" {
		return t.ID
	}
	return termSlug(t)
}

func normalize(slugs []string) []string {
	var out []string
	for _, s := range slugs {
		if s = postbrowser.Slugify(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
