// Package wpgraphql loads a postbrowser snapshot from a WPGraphQL-style
// headless content API.
package wpgraphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eringen/postbrowser"
)

// DefaultMaxPosts is the number of posts requested in one load.
const DefaultMaxPosts = 10000

// ErrGraphQL wraps errors reported in the response's "errors" array.
var ErrGraphQL = errors.New("wpgraphql: query failed")

const indexQuery = `query PostIndex($first: Int!) {
  generalSettings { title description }
  posts(first: $first) {
    edges {
      node {
        id
        excerpt
        title
        slug
        featuredImage { node { sourceUrl } }
        categories { nodes { id name slug } }
        tags { nodes { id name slug } }
      }
    }
  }
  categories(first: $first) { nodes { id name slug } }
  tags(first: $first) { nodes { id name slug } }
}`

// Client queries a GraphQL endpoint for the post index.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	maxPosts int
	header   http.Header
}

var _ postbrowser.ContentSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMaxPosts sets how many posts are requested (default 10000).
func WithMaxPosts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPosts = n
		}
	}
}

// WithTimeout sets the HTTP timeout for a load. It applies to a copy of the
// client, so a client passed to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHeader adds a header (e.g. Authorization) to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// New creates a client for the GraphQL endpoint URL.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		maxPosts: DefaultMaxPosts,
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type response struct {
	Data   *indexData `json:"data"`
	Errors []gqlError `json:"errors"`
}

type indexData struct {
	GeneralSettings *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"generalSettings"`
	Posts *struct {
		Edges []struct {
			Node *postNode `json:"node"`
		} `json:"edges"`
	} `json:"posts"`
	Categories *termConnection `json:"categories"`
	Tags       *termConnection `json:"tags"`
}

type postNode struct {
	ID            string `json:"id"`
	Excerpt       string `json:"excerpt"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	FeaturedImage *struct {
		Node *struct {
			SourceURL string `json:"sourceUrl"`
		} `json:"node"`
	} `json:"featuredImage"`
	Categories *termConnection `json:"categories"`
	Tags       *termConnection `json:"tags"`
}

type termConnection struct {
	Nodes []termNode `json:"nodes"`
}

type termNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Load runs the index query and maps the response to a snapshot. Missing or
// null relations become empty slices.
func (c *Client) Load(ctx context.Context) (postbrowser.Snapshot, error) {
	body, err := json.Marshal(request{
		Query:     indexQuery,
		Variables: map[string]any{"first": c.maxPosts},
	})
	if err != nil {
		return postbrowser.Snapshot{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return postbrowser.Snapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return postbrowser.Snapshot{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return postbrowser.Snapshot{}, fmt.Errorf("wpgraphql: status %s: %s", res.Status, strings.TrimSpace(string(snippet)))
	}

	var payload response
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return postbrowser.Snapshot{}, fmt.Errorf("wpgraphql: decode response: %w", err)
	}
	if len(payload.Errors) > 0 {
		msgs := make([]string, len(payload.Errors))
		for i, e := range payload.Errors {
			msgs[i] = e.Message
		}
		return postbrowser.Snapshot{}, fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
	}
	if payload.Data == nil {
		return postbrowser.Snapshot{}, fmt.Errorf("%w: empty data", ErrGraphQL)
	}
	return toSnapshot(payload.Data), nil
}

func toSnapshot(d *indexData) postbrowser.Snapshot {
	var snap postbrowser.Snapshot
	if d.GeneralSettings != nil {
		snap.Site = postbrowser.Site{
			Title:       d.GeneralSettings.Title,
			Description: d.GeneralSettings.Description,
		}
	}
	if d.Posts != nil {
		for _, e := range d.Posts.Edges {
			if e.Node == nil {
				continue
			}
			snap.Posts = append(snap.Posts, toPost(e.Node))
		}
	}
	if d.Categories != nil {
		for _, n := range d.Categories.Nodes {
			snap.Categories = append(snap.Categories, postbrowser.Category{ID: n.ID, Name: n.Name, Slug: n.Slug})
		}
	}
	if d.Tags != nil {
		for _, n := range d.Tags.Nodes {
			snap.Tags = append(snap.Tags, postbrowser.Tag{ID: n.ID, Name: n.Name, Slug: n.Slug})
		}
	}
	return snap
}

func toPost(n *postNode) postbrowser.Post {
	p := postbrowser.Post{
		ID:            n.ID,
		Title:         n.Title,
		Excerpt:       n.Excerpt,
		Slug:          n.Slug,
		CategorySlugs: slugs(n.Categories),
		TagSlugs:      slugs(n.Tags),
	}
	if n.FeaturedImage != nil && n.FeaturedImage.Node != nil {
		p.FeaturedImageURL = n.FeaturedImage.Node.SourceURL
	}
	return p
}

func slugs(conn *termConnection) []string {
	if conn == nil || len(conn.Nodes) == 0 {
		return nil
	}
	out := make([]string, 0, len(conn.Nodes))
	for _, n := range conn.Nodes {
		if n.Slug != "" {
			out = append(out, n.Slug)
		}
	}
	return out
}
