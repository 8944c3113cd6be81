// Package views renders the postbrowser pages as templ components backed by
// embedded html/template layouts.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/eringen/postbrowser"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"jsonld": func(s string) template.JS { return template.JS(s) },
}).ParseFS(files, "templates/*.html"))

// Funcs returns the ViewFuncs implemented by this package.
func Funcs() postbrowser.ViewFuncs {
	return postbrowser.ViewFuncs{
		Home:          Home,
		BrowseSection: BrowseSection,
		Post:          Post,
		NotFound:      NotFound,
		ServerError:   ServerError,
	}
}

// Home renders the full index page.
func Home(v postbrowser.IndexView) templ.Component {
	return component("home", v)
}

// BrowseSection renders only the results list and pagination.
func BrowseSection(v postbrowser.IndexView) templ.Component {
	return component("browse", v)
}

// Post renders a single post page.
func Post(v postbrowser.PostView) templ.Component {
	return component("post", v)
}

func NotFound() templ.Component {
	return component("not_found", nil)
}

func ServerError() templ.Component {
	return component("server_error", nil)
}

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}
