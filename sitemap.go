package postbrowser

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	XMLNS   string     `xml:"xmlns,attr"`
	Entries []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

// buildSitemap lists the index page followed by every post in snapshot order.
// The index changes whenever the snapshot is reloaded; post pages are stable.
func buildSitemap(base string, snap Snapshot, loadedAt time.Time) urlSet {
	set := urlSet{XMLNS: sitemapNS, Entries: make([]urlEntry, 0, len(snap.Posts)+1)}
	index := urlEntry{Loc: BuildURL(base), ChangeFreq: "daily"}
	if !loadedAt.IsZero() {
		index.LastMod = loadedAt.UTC().Format("2006-01-02")
	}
	set.Entries = append(set.Entries, index)
	for _, p := range snap.Posts {
		set.Entries = append(set.Entries, urlEntry{Loc: AbsoluteURL(base, p.Path()), ChangeFreq: "monthly"})
	}
	return set
}

func (a *App) renderSitemap(c echo.Context, snap Snapshot) error {
	set := buildSitemap(a.Config.URL, snap, a.Content.LoadedAt())
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMEApplicationXMLCharsetUTF8)
	res.WriteHeader(http.StatusOK)
	if _, err := res.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(res).Encode(set)
}
