// Package tui is a terminal post browser built on the same Controller the
// web handlers use.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/eringen/postbrowser"
)

const suggestionLimit = 5

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	subtleStyle  = lipgloss.NewStyle().Faint(true)
	helpStyle    = lipgloss.NewStyle().Faint(true)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	postStyle    = lipgloss.NewStyle().Bold(true)
	filterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AC4BA"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// Model is the Bubble Tea model. The Controller holds the BrowseState;
// Model only tracks focus and terminal size.
type Model struct {
	ctrl   *postbrowser.Controller
	snap   postbrowser.Snapshot
	pres   *postbrowser.Presenter
	search textinput.Model

	// category and tag option lists start with "" (no filter).
	categories []string
	tags       []string

	width, height int
}

// New builds a model over snap. ctrl must have been created from snap.Posts.
func New(snap postbrowser.Snapshot, pres *postbrowser.Presenter, ctrl *postbrowser.Controller) Model {
	ti := textinput.New()
	ti.Placeholder = "Search posts"
	ti.Prompt = "/ "
	ti.CharLimit = 200
	ti.SetValue(ctrl.State().SearchQuery)

	m := Model{
		ctrl:       ctrl,
		snap:       snap,
		pres:       pres,
		search:     ti,
		categories: []string{""},
		tags:       []string{""},
		width:      80,
	}
	for _, c := range snap.Categories {
		m.categories = append(m.categories, c.Slug)
	}
	for _, t := range snap.Tags {
		m.tags = append(m.tags, t.Slug)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// State returns the current BrowseState.
func (m Model) State() postbrowser.BrowseState {
	return m.ctrl.State()
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.search.Focused()
}

// Run starts the program in the alternate screen and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
