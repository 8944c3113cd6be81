package postbrowser

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Store is a local SQLite mirror of a content snapshot. It is written by the
// sync command and can serve as a ContentSource for the server.
type Store struct {
	db *sql.DB
}

var _ ContentSource = (*Store)(nil)

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while a sync is writing; busy_timeout makes the
	// writer wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// schemaVersion 1 keys posts and vocabularies on position so entries with
// duplicate or empty slugs survive a round trip. Mirrors written before it
// are dropped and must be synced again.
const schemaVersion = 1

func (s *Store) ensureSchema() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version < schemaVersion {
		if _, err := s.db.Exec(`
DROP TABLE IF EXISTS posts;
DROP TABLE IF EXISTS categories;
DROP TABLE IF EXISTS tags;
`); err != nil {
			return fmt.Errorf("drop old schema: %w", err)
		}
	}
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS site (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
    position INTEGER PRIMARY KEY,
    slug TEXT NOT NULL,
    id TEXT NOT NULL,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    categories TEXT NOT NULL,
    tags TEXT NOT NULL,
    featured_image TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS categories (
    position INTEGER PRIMARY KEY,
    slug TEXT NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
    position INTEGER PRIMARY KEY,
    slug TEXT NOT NULL,
    id TEXT NOT NULL,
    name TEXT NOT NULL
);
`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion))
	return err
}

// SaveSnapshot replaces the mirrored content with snap in one transaction.
// Post order is preserved through the position column.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"site", "posts", "categories", "tags"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO site (key, value) VALUES ('title', ?), ('description', ?)`,
		snap.Site.Title, snap.Site.Description); err != nil {
		return fmt.Errorf("save site: %w", err)
	}
	for i, p := range snap.Posts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO posts (position, slug, id, title, excerpt, categories, tags, featured_image) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, p.Slug, p.ID, p.Title, p.Excerpt, JoinSlugs(p.CategorySlugs), JoinSlugs(p.TagSlugs), p.FeaturedImageURL); err != nil {
			return fmt.Errorf("save post %q: %w", p.Slug, err)
		}
	}
	for i, c := range snap.Categories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (position, slug, id, name) VALUES (?, ?, ?, ?)`,
			i, c.Slug, c.ID, c.Name); err != nil {
			return fmt.Errorf("save category %q: %w", c.Slug, err)
		}
	}
	for i, t := range snap.Tags {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (position, slug, id, name) VALUES (?, ?, ?, ?)`,
			i, t.Slug, t.ID, t.Name); err != nil {
			return fmt.Errorf("save tag %q: %w", t.Slug, err)
		}
	}
	return tx.Commit()
}

// Load reads the mirrored snapshot.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM site`)
	if err != nil {
		return Snapshot{}, err
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			rows.Close()
			return Snapshot{}, err
		}
		switch key {
		case "title":
			snap.Site.Title = value
		case "description":
			snap.Site.Description = value
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	if snap.Posts, err = s.listPosts(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Categories, err = s.listCategories(ctx); err != nil {
		return Snapshot{}, err
	}
	if snap.Tags, err = s.listTags(ctx); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) listPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, id, title, excerpt, categories, tags, featured_image FROM posts ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var slug, id, title, excerpt, categories, tags, image string
		if err := rows.Scan(&slug, &id, &title, &excerpt, &categories, &tags, &image); err != nil {
			return nil, err
		}
		posts = append(posts, Post{
			ID:               id,
			Slug:             slug,
			Title:            title,
			Excerpt:          excerpt,
			CategorySlugs:    ParseSlugs(categories),
			TagSlugs:         ParseSlugs(tags),
			FeaturedImageURL: image,
		})
	}
	return posts, rows.Err()
}

func (s *Store) listCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) listTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug FROM tags ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// JoinSlugs encodes slugs as a comma-delimited string (e.g. ",go,web,").
func JoinSlugs(slugs []string) string {
	if len(slugs) == 0 {
		return ""
	}
	return "," + strings.Join(slugs, ",") + ","
}

// ParseSlugs splits a comma-delimited slug string (e.g. ",go,web,") into a slice.
func ParseSlugs(s string) []string {
	s = strings.Trim(s, ",")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
