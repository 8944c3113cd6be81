package postbrowser

// BrowseState is the visitor's current search, filter and page selection.
// Empty Category or Tag means no filter.
type BrowseState struct {
	SearchQuery string
	Category    string
	Tag         string
	CurrentPage int
}

// NewBrowseState returns the state of a freshly opened view.
func NewBrowseState() BrowseState {
	return BrowseState{CurrentPage: 1}
}

func (s BrowseState) filtersEqual(o BrowseState) bool {
	return s.SearchQuery == o.SearchQuery && s.Category == o.Category && s.Tag == o.Tag
}

// Controller owns one view's BrowseState and recomputes the visible page
// from the full post list on demand.
type Controller struct {
	posts     []Post
	pageSize  int
	state     BrowseState
	pageReset bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPageReset makes a change of query, category or tag move the view back
// to page 1. Without it the page number is kept, which can leave the view
// past the end of a shrunk result set.
func WithPageReset(on bool) ControllerOption {
	return func(c *Controller) {
		c.pageReset = on
	}
}

// WithState starts the controller from an existing state instead of the defaults.
func WithState(s BrowseState) ControllerOption {
	return func(c *Controller) {
		c.state = s
	}
}

// NewController creates a controller over posts. A non-positive pageSize
// selects DefaultPageSize.
func NewController(posts []Post, pageSize int, opts ...ControllerOption) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c := &Controller{
		posts:    posts,
		pageSize: pageSize,
		state:    NewBrowseState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() BrowseState {
	return c.state
}

// PageSize returns the number of posts per page.
func (c *Controller) PageSize() int {
	return c.pageSize
}

// SetSearchQuery replaces the search text.
func (c *Controller) SetSearchQuery(q string) {
	next := c.state
	next.SearchQuery = q
	c.apply(next)
}

// SetCategory selects a category slug; "" clears the filter.
func (c *Controller) SetCategory(slug string) {
	next := c.state
	next.Category = slug
	c.apply(next)
}

// SetTag selects a tag slug; "" clears the filter.
func (c *Controller) SetTag(slug string) {
	next := c.state
	next.Tag = slug
	c.apply(next)
}

// SetPage stores n as the current page. It is not validated against the
// number of pages.
func (c *Controller) SetPage(n int) {
	c.state.CurrentPage = n
}

func (c *Controller) apply(next BrowseState) {
	if c.pageReset && !next.filtersEqual(c.state) {
		next.CurrentPage = 1
	}
	c.state = next
}

// Visible computes the page for the current state.
func (c *Controller) Visible() PageResult {
	return ComputeVisiblePosts(c.posts, c.state, c.pageSize)
}
