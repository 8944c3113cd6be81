package postbrowser

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	Categories  []string   `xml:"category,omitempty"`
	Enclosure   *enclosure `xml:"enclosure,omitempty"`
	GUID        string     `xml:"guid"`
}

type enclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// renderRSS writes every post in source order. Descriptions carry the
// presenter's (sanitized) excerpt markup; encoding/xml escapes it.
func (a *App) renderRSS(c echo.Context, snap Snapshot, pres *Presenter) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(snap.Posts))
	for _, p := range snap.Posts {
		card := pres.Card(p)
		postURL := AbsoluteURL(base, card.Path)
		item := rssItem{
			Title:       card.PlainTitle,
			Link:        postURL,
			Description: string(card.Excerpt),
			Categories:  append(append([]string(nil), card.Categories...), card.Tags...),
			GUID:        postURL,
		}
		if card.ImageURL != "" {
			item.Enclosure = &enclosure{URL: resolveImageURL(base, card.ImageURL), Type: "image/jpeg"}
		}
		items = append(items, item)
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       siteTitle(a.Config, snap.Site),
			Link:        BuildURL(base),
			Description: snap.Site.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}

// resolveImageURL makes mirrored (site-relative) image paths absolute.
func resolveImageURL(base, img string) string {
	if len(img) > 0 && img[0] == '/' {
		return AbsoluteURL(base, img)
	}
	return img
}
