package postbrowser

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderIndex writes either the full index page or only its results
// section. Both come from the same URL, so caches must key on HX-Request.
func (a *App) renderIndex(c echo.Context, view IndexView, partial bool) error {
	c.Response().Header().Add(echo.HeaderVary, "HX-Request")
	if partial {
		return Render(c, a.Views.BrowseSection(view))
	}
	return Render(c, a.Views.Home(view))
}

// isPartial reports whether the request came from the results script and
// wants only the results section back.
func isPartial(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}
