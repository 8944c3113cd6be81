package postbrowser

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test_posts.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Site: Site{Title: "Field Notes", Description: "Notes from the field"},
		Posts: []Post{
			{ID: "p1", Slug: "hello-world", Title: "Hello World", Excerpt: "<p>First post</p>",
				CategorySlugs: []string{"news"}, TagSlugs: []string{"featured", "go"},
				FeaturedImageURL: "https://cdn.example.com/hello.png"},
			{ID: "p2", Slug: "second", Title: "Second", Excerpt: "<p>Another</p>"},
			{ID: "p3", Slug: "a-third", Title: "A Third", Excerpt: "", CategorySlugs: []string{"tutorials"}},
		},
		Categories: []Category{{ID: "c1", Name: "News", Slug: "news"}, {ID: "c2", Name: "Tutorials", Slug: "tutorials"}},
		Tags:       []Tag{{ID: "t1", Name: "Featured", Slug: "featured"}, {ID: "t2", Name: "Go", Slug: "go"}},
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)

	if s == nil {
		t.Fatal("store should not be nil")
	}
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestLoadEmptyStore(t *testing.T) {
	s := setupTestStore(t)

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Posts) != 0 || len(snap.Categories) != 0 || len(snap.Tags) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	want := sampleSnapshot()

	if err := s.SaveSnapshot(ctx, want); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Site != want.Site {
		t.Errorf("Site = %+v, want %+v", got.Site, want.Site)
	}
	if !reflect.DeepEqual(got.Posts, want.Posts) {
		t.Errorf("Posts = %+v, want %+v", got.Posts, want.Posts)
	}
	if !reflect.DeepEqual(got.Categories, want.Categories) {
		t.Errorf("Categories = %+v, want %+v", got.Categories, want.Categories)
	}
	if !reflect.DeepEqual(got.Tags, want.Tags) {
		t.Errorf("Tags = %+v, want %+v", got.Tags, want.Tags)
	}
}

func TestSaveSnapshotPreservesOrder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Slug order would put "a-third" first.
	wantOrder := []string{"hello-world", "second", "a-third"}
	for i, p := range got.Posts {
		if p.Slug != wantOrder[i] {
			t.Errorf("Posts[%d].Slug = %q, want %q", i, p.Slug, wantOrder[i])
		}
	}
}

func TestSaveSnapshotReplacesPrevious(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	if err := s.SaveSnapshot(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("first SaveSnapshot failed: %v", err)
	}
	next := Snapshot{
		Site:  Site{Title: "Renamed"},
		Posts: []Post{{ID: "p9", Slug: "only", Title: "Only"}},
	}
	if err := s.SaveSnapshot(ctx, next); err != nil {
		t.Fatalf("second SaveSnapshot failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Site.Title != "Renamed" || got.Site.Description != "" {
		t.Errorf("Site = %+v, want title Renamed and no description", got.Site)
	}
	if len(got.Posts) != 1 || got.Posts[0].Slug != "only" {
		t.Errorf("Posts = %+v, want only the new post", got.Posts)
	}
	if len(got.Categories) != 0 || len(got.Tags) != 0 {
		t.Errorf("expected taxonomies to be cleared, got %d categories and %d tags", len(got.Categories), len(got.Tags))
	}
}

func TestSaveSnapshotKeepsDuplicateSlugs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	snap := Snapshot{
		Posts: []Post{
			{ID: "p1", Slug: "same", Title: "First"},
			{ID: "p2", Slug: "same", Title: "Second"},
			{ID: "p3", Slug: "", Title: "No slug"},
			{ID: "p4", Slug: "", Title: "No slug either"},
		},
		Categories: []Category{{ID: "c1", Name: "News", Slug: "news"}, {ID: "c2", Name: "News", Slug: "news"}},
	}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Posts) != 4 {
		t.Fatalf("expected 4 posts, got %d", len(got.Posts))
	}
	for i, want := range []string{"p1", "p2", "p3", "p4"} {
		if got.Posts[i].ID != want {
			t.Errorf("Posts[%d].ID = %q, want %q", i, got.Posts[i].ID, want)
		}
	}
	if len(got.Categories) != 2 {
		t.Errorf("expected 2 categories, got %d", len(got.Categories))
	}
}

func TestNewStoreUpgradesSlugKeyedMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec(`CREATE TABLE posts (position INTEGER NOT NULL, slug TEXT PRIMARY KEY, id TEXT NOT NULL,
		title TEXT NOT NULL, excerpt TEXT NOT NULL, categories TEXT NOT NULL, tags TEXT NOT NULL,
		featured_image TEXT NOT NULL DEFAULT '')`); err != nil {
		t.Fatalf("create old schema: %v", err)
	}
	db.Close()

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	snap := Snapshot{Posts: []Post{{ID: "p1", Slug: "same"}, {ID: "p2", Slug: "same"}}}
	if err := s.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Posts) != 2 {
		t.Errorf("expected 2 posts after upgrade, got %d", len(got.Posts))
	}
}

func TestStoreIsContentSource(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	if err := s.SaveSnapshot(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	h := NewSnapshotHolder(false)
	if err := h.Load(ctx, s); err != nil {
		t.Fatalf("holder Load failed: %v", err)
	}
	post, err := h.PostBySlug("hello-world")
	if err != nil {
		t.Fatalf("PostBySlug failed: %v", err)
	}
	if post.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", post.Title, "Hello World")
	}
}

func TestJoinSlugs(t *testing.T) {
	tests := []struct {
		input []string
		want  string
	}{
		{nil, ""},
		{[]string{}, ""},
		{[]string{"go"}, ",go,"},
		{[]string{"go", "web"}, ",go,web,"},
	}

	for _, tt := range tests {
		got := JoinSlugs(tt.input)
		if got != tt.want {
			t.Errorf("JoinSlugs(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseSlugs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",go,web,", []string{"go", "web"}},
		{"go, web", []string{"go", "web"}},
	}

	for _, tt := range tests {
		got := ParseSlugs(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseSlugs(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
