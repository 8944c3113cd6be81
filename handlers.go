package postbrowser

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const suggestionLimit = 5

// handleHome opens a new view. Query parameters seed the BrowseState so
// index URLs stay bookmarkable.
func (a *App) handleHome(c echo.Context) error {
	viewID, state := newViewID(), stateFromQuery(c)
	if err := saveView(c, viewID, state); err != nil {
		return err
	}
	ctrl := a.controller(state)
	view := a.indexView(c, viewID, ctrl)
	a.Metrics.observe("open", view.Result)

	return a.renderIndex(c, view, isPartial(c) && c.QueryParam("partial") == "browse")
}

// handleBrowse applies one selection action to the visitor's view.
func (a *App) handleBrowse(c echo.Context) error {
	viewID, state := loadView(c, c.FormValue("view"))
	ctrl := a.controller(state)

	action := c.FormValue("action")
	value := c.FormValue("value")
	switch action {
	case "search":
		ctrl.SetSearchQuery(value)
	case "category":
		ctrl.SetCategory(value)
	case "tag":
		ctrl.SetTag(value)
	case "page":
		n, err := strconv.Atoi(value)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid page %q", value))
		}
		ctrl.SetPage(n)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown action %q", action))
	}

	if err := saveView(c, viewID, ctrl.State()); err != nil {
		return err
	}
	view := a.indexView(c, viewID, ctrl)
	a.Metrics.observe(action, view.Result)

	if isPartial(c) {
		return a.renderIndex(c, view, true)
	}
	return c.Redirect(http.StatusSeeOther, "/?"+stateQuery(ctrl.State()).Encode())
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Content.PostBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		}
		return err
	}
	snap, pres := a.Content.Snapshot()
	card := pres.Card(post)
	return Render(c, a.Views.Post(PostView{
		Site: a.site(snap),
		Meta: PageMeta{
			Title:       card.PlainTitle + " | " + siteTitle(a.Config, snap.Site),
			Description: pres.PlainText(post.Excerpt),
			URL:         AbsoluteURL(a.Config.URL, card.Path),
			OGType:      "article",
		},
		JSONLD: BlogPostingJsonLD(card, a.Config, snap.Site),
		Card:   card,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	snap, _ := a.Content.Snapshot()
	return a.renderSitemap(c, snap)
}

func (a *App) handleFeed(c echo.Context) error {
	snap, pres := a.Content.Snapshot()
	return a.renderRSS(c, snap, pres)
}

func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /browse\n\nSitemap: %s\n", BuildURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) controller(state BrowseState) *Controller {
	snap, _ := a.Content.Snapshot()
	return NewController(snap.Posts, a.Config.PageSize,
		WithState(state),
		WithPageReset(!a.Config.PreservePageOnFilter),
	)
}

func (a *App) indexView(c echo.Context, viewID string, ctrl *Controller) IndexView {
	snap, pres := a.Content.Snapshot()
	state := ctrl.State()
	res := ctrl.Visible()

	view := IndexView{
		ViewID: viewID,
		Site:   a.site(snap),
		Meta: PageMeta{
			Title:       siteTitle(a.Config, snap.Site),
			Description: snap.Site.Description,
			URL:         BuildURL(a.Config.URL),
			OGType:      "website",
		},
		JSONLD:     WebsiteJsonLD(a.Config, snap.Site),
		State:      state,
		Result:     res,
		Cards:      pres.Cards(res.Items),
		Categories: snap.Categories,
		Tags:       snap.Tags,
		CSRFToken:  CsrfToken(c),
	}
	if res.Empty() && state.SearchQuery != "" {
		view.Suggestions = Suggest(state.SearchQuery, snap.Categories, snap.Tags, suggestionLimit)
	}
	return view
}

// site returns the snapshot's site settings with the configured name as
// fallback title.
func (a *App) site(snap Snapshot) Site {
	s := snap.Site
	s.Title = siteTitle(a.Config, s)
	return s
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
