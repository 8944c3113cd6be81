package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.search.Focused() {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != m.ctrl.State().SearchQuery {
		m.ctrl.SetSearchQuery(v)
	}
	return m, cmd
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	state := m.ctrl.State()
	switch key {
	case "q":
		return m, tea.Quit
	case "/":
		cmd := m.search.Focus()
		return m, cmd
	case "c":
		m.ctrl.SetCategory(cycle(m.categories, state.Category, 1))
	case "C":
		m.ctrl.SetCategory(cycle(m.categories, state.Category, -1))
	case "t":
		m.ctrl.SetTag(cycle(m.tags, state.Tag, 1))
	case "T":
		m.ctrl.SetTag(cycle(m.tags, state.Tag, -1))
	case "left", "h":
		res := m.ctrl.Visible()
		switch {
		case state.CurrentPage > res.TotalPages:
			// A filter change kept the view past the end.
			m.ctrl.SetPage(max(res.TotalPages, 1))
		case res.HasPrev():
			m.ctrl.SetPage(state.CurrentPage - 1)
		}
	case "right", "l":
		if m.ctrl.Visible().HasNext() {
			m.ctrl.SetPage(state.CurrentPage + 1)
		}
	case "g":
		m.ctrl.SetPage(1)
	}
	return m, nil
}

// cycle returns the option after (dir=1) or before (dir=-1) current,
// wrapping around. Unknown values restart from the first option.
func cycle(options []string, current string, dir int) string {
	if len(options) == 0 {
		return ""
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return options[0]
	}
	n := len(options)
	return options[((idx+dir)%n+n)%n]
}
