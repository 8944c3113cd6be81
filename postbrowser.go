// Package postbrowser serves a searchable, filterable and paginated blog
// index over posts loaded once from a headless content source.
//
// Users provide templ components via the ViewFuncs struct; postbrowser owns
// the handler logic, per-visitor browse state, middleware and metrics.
package postbrowser

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// ViewFuncs holds the templ components the App calls when rendering pages.
type ViewFuncs struct {
	Home          func(v IndexView) templ.Component
	BrowseSection func(v IndexView) templ.Component
	Post          func(v PostView) templ.Component
	NotFound      func() templ.Component
	ServerError   func() templ.Component
}

// IndexView is everything the index page and its results partial render.
type IndexView struct {
	ViewID      string
	Site        Site
	Meta        PageMeta
	JSONLD      string
	State       BrowseState
	Result      PageResult
	Cards       []PostCard
	Categories  []Category
	Tags        []Tag
	Suggestions []Suggestion
	CSRFToken   string
}

// PageURL returns the bookmarkable index URL for page n of the current filters.
func (v IndexView) PageURL(n int) string {
	s := v.State
	s.CurrentPage = n
	return "/?" + stateQuery(s).Encode()
}

// PostView is the data for a single post page.
type PostView struct {
	Site   Site
	Meta   PageMeta
	JSONLD string
	Card   PostCard
}

// App wires together the content snapshot, handlers, middleware, metrics
// and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Source  ContentSource
	Content *SnapshotHolder
	Views   ViewFuncs
	Metrics *Metrics

	actionLimiter *ActionLimiter
	customRoutes  []func(*App)
	staticDir     string
}

// New creates an App that will load its content from src.
func New(cfg SiteConfig, src ContentSource, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Source:    src,
		Views:     views,
		Metrics:   NewMetrics(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Setup loads the content snapshot (unless an already loaded holder was
// supplied) and installs middleware and routes. Start calls it; tests call
// it directly and drive a.Echo as an http.Handler.
func (a *App) Setup(ctx context.Context) error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("postbrowser: SessionSecret is required")
	}
	if a.Content == nil {
		a.Content = NewSnapshotHolder(a.Config.TrustMarkup)
	}
	if a.Content.LoadedAt().IsZero() {
		if a.Source == nil {
			return fmt.Errorf("postbrowser: no content source configured")
		}
		loadCtx, cancel := context.WithTimeout(ctx, a.Config.LoadTimeout)
		defer cancel()
		if err := a.Content.Load(loadCtx, a.Source); err != nil {
			a.Metrics.snapshotLoaded(false, 0)
			return fmt.Errorf("postbrowser: load content: %w", err)
		}
	}
	snap, _ := a.Content.Snapshot()
	a.Metrics.snapshotLoaded(true, len(snap.Posts))
	a.Echo.Logger.Infof("loaded %d posts, %d categories, %d tags", len(snap.Posts), len(snap.Categories), len(snap.Tags))

	a.actionLimiter = NewActionLimiter(a.Config.ActionLimit, a.Config.ActionWindow)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the App up and serves until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	if a.actionLimiter != nil {
		a.actionLimiter.Stop()
	}
	return a.Echo.Shutdown(ctx)
}

// ReplaceSnapshot installs a newly loaded snapshot, e.g. from a file watcher.
// Views opened before the swap keep their BrowseState; they render against
// the new posts on their next action.
func (a *App) ReplaceSnapshot(snap Snapshot) {
	a.Content.Replace(snap)
	a.Metrics.snapshotLoaded(true, len(snap.Posts))
	a.Echo.Logger.Infof("reloaded %d posts", len(snap.Posts))
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/browse.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.staticDir)

	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", handleHealth)
	e.GET("/metrics", a.Metrics.Handler())

	e.GET("/", a.handleHome)
	e.POST("/browse", a.handleBrowse, a.limitActions)
	e.GET("/posts/:slug", a.handlePost)
	e.GET("/posts/:slug/", func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, "/posts/"+c.Param("slug"))
	})
}
