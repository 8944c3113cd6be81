package tui

import (
	"fmt"
	"strings"

	"github.com/eringen/postbrowser"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	state := m.ctrl.State()
	res := m.ctrl.Visible()

	title := m.snap.Site.Title
	if title == "" {
		title = "Posts"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if m.snap.Site.Description != "" {
		b.WriteString(subtleStyle.Render(m.pres.PlainText(m.snap.Site.Description)))
		b.WriteString("\n")
	}
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Category: %s   Tag: %s\n",
		filterStyle.Render(m.filterLabel(state.Category, m.pres.CategoryName)),
		filterStyle.Render(m.filterLabel(state.Tag, m.pres.TagName)),
	))
	b.WriteString(dividerStyle.Render(strings.Repeat("─", m.lineWidth())))
	b.WriteString("\n")

	if res.Empty() {
		b.WriteString(warnStyle.Render("Oops, no posts found!"))
		b.WriteString("\n")
		if state.SearchQuery != "" {
			if sugg := m.suggestions(state.SearchQuery); len(sugg) > 0 {
				b.WriteString(subtleStyle.Render("Did you mean: " + strings.Join(sugg, ", ")))
				b.WriteString("\n")
			}
		}
	} else {
		for _, p := range res.Items {
			b.WriteString(postStyle.Render(m.pres.PlainText(p.Title)))
			b.WriteString("\n")
			if ex := m.pres.PlainText(p.Excerpt); ex != "" {
				b.WriteString("  " + subtleStyle.Render(truncate(ex, m.lineWidth()-2)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", m.lineWidth())))
	b.WriteString("\n")
	if res.TotalPages > 0 {
		b.WriteString(fmt.Sprintf("Page %d of %d (%d posts)\n", state.CurrentPage, res.TotalPages, res.FilteredCount))
	}
	if m.search.Focused() {
		b.WriteString(helpStyle.Render("enter/esc: done"))
	} else {
		b.WriteString(helpStyle.Render("/: search  c/C: category  t/T: tag  ←/→: page  g: first page  q: quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) filterLabel(slug string, name func(string) string) string {
	if slug == "" {
		return "all"
	}
	return name(slug)
}

func (m Model) suggestions(query string) []string {
	var out []string
	for _, s := range postbrowser.Suggest(query, m.snap.Categories, m.snap.Tags, suggestionLimit) {
		out = append(out, fmt.Sprintf("%s (%s)", s.Name, s.Kind))
	}
	return out
}

func (m Model) lineWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func truncate(s string, max int) string {
	if max <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
