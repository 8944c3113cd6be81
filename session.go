package postbrowser

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const viewSessionName = "browse_view"

// maxViews bounds how many open views (tabs) one session remembers. The
// oldest view is forgotten first; its next action starts from a fresh state.
const maxViews = 8

// keyViews holds the remembered view IDs, oldest first, comma separated.
// Each view's BrowseState is stored under viewKey(id) as an encoded query.
const keyViews = "views"

func viewKey(id string) string {
	return "view:" + id
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

func newViewID() string {
	return uuid.NewString()
}

// loadView returns the BrowseState of view id. A malformed id gets a new view;
// a well-formed id the session no longer knows (expired cookie or evicted
// view) keeps its id and starts from a fresh state.
func loadView(c echo.Context, id string) (string, BrowseState) {
	if _, err := uuid.Parse(id); err != nil {
		return newViewID(), NewBrowseState()
	}
	sess, err := session.Get(viewSessionName, c)
	if err != nil {
		return id, NewBrowseState()
	}
	raw, ok := sess.Values[viewKey(id)].(string)
	if !ok {
		return id, NewBrowseState()
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return id, NewBrowseState()
	}
	return id, stateFromValues(values)
}

// saveView stores state for view id and marks the view most recently used.
func saveView(c echo.Context, id string, state BrowseState) error {
	sess, err := session.Get(viewSessionName, c)
	if err != nil {
		return err
	}
	ids := sessionViewIDs(sess)
	kept := ids[:0]
	for _, v := range ids {
		if v != id {
			kept = append(kept, v)
		}
	}
	kept = append(kept, id)
	for len(kept) > maxViews {
		delete(sess.Values, viewKey(kept[0]))
		kept = kept[1:]
	}
	sess.Values[keyViews] = strings.Join(kept, ",")

	values := stateQuery(state)
	values.Set("page", strconv.Itoa(state.CurrentPage))
	sess.Values[viewKey(id)] = values.Encode()
	return sess.Save(c.Request(), c.Response())
}

func sessionViewIDs(sess *sessions.Session) []string {
	raw, _ := sess.Values[keyViews].(string)
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// stateFromQuery reads a BrowseState from index query parameters.
func stateFromQuery(c echo.Context) BrowseState {
	return stateFromValues(c.QueryParams())
}

// stateFromValues decodes q, category, tag and page. An unparsable page
// falls back to 1.
func stateFromValues(values url.Values) BrowseState {
	state := NewBrowseState()
	state.SearchQuery = values.Get("q")
	state.Category = strings.TrimSpace(values.Get("category"))
	state.Tag = strings.TrimSpace(values.Get("tag"))
	if p := values.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			state.CurrentPage = n
		}
	}
	return state
}

// stateQuery encodes the non-default fields of state as index query parameters.
func stateQuery(state BrowseState) url.Values {
	q := url.Values{}
	if state.SearchQuery != "" {
		q.Set("q", state.SearchQuery)
	}
	if state.Category != "" {
		q.Set("category", state.Category)
	}
	if state.Tag != "" {
		q.Set("tag", state.Tag)
	}
	if state.CurrentPage != 1 {
		q.Set("page", strconv.Itoa(state.CurrentPage))
	}
	return q
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
