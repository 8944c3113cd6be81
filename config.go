package postbrowser

import "time"

// SiteConfig holds all configuration for a postbrowser site.
type SiteConfig struct {
	Name   string // Fallback site name when the source reports none (default "Blog")
	URL    string // Canonical URL (default "http://localhost:3000")
	Author string // Author name for JSON-LD

	Addr string // Listen address (default ":3000")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PageSize             int  // Posts per page (default 12)
	PreservePageOnFilter bool // Keep the page number when filters change
	TrustMarkup          bool // Pass titles and excerpts through unsanitized

	ActionLimit  int           // Browse actions per IP per ActionWindow (default 60)
	ActionWindow time.Duration // default 1 minute
	LoadTimeout  time.Duration // Content load timeout at start (default 30s)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.ActionLimit <= 0 {
		c.ActionLimit = 60
	}
	if c.ActionWindow == 0 {
		c.ActionWindow = time.Minute
	}
	if c.LoadTimeout == 0 {
		c.LoadTimeout = 30 * time.Second
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithSnapshotHolder makes the App serve content from h instead of loading
// its source into a fresh holder. Used when a watcher replaces snapshots.
func WithSnapshotHolder(h *SnapshotHolder) Option {
	return func(a *App) {
		a.Content = h
	}
}
