package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/listing"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	destructive = lipgloss.Color("#e53935")
	warning     = lipgloss.Color("#FFC107")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	tabStyle       = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	errorStyle     = lipgloss.NewStyle().Foreground(destructive)
	draftStyle     = lipgloss.NewStyle().Foreground(warning)
	mutedStyle     = lipgloss.NewStyle().Faint(true)
)

const help = "tab switch • / search • c category • s sort • r reload • d delete • p publish • q quit"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("toolshelf admin"))
	b.WriteString("\n\n")

	var tabs []string
	for _, t := range []Tab{ToolsTab, PostsTab} {
		if t == m.active {
			tabs = append(tabs, activeTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(t.String()))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")

	p := m.panes[m.active]
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("category: %s   sort: %s", p.categoryLabel(), p.sorts[p.sort])))
	b.WriteString("\n\n")

	if m.active == PostsTab {
		b.WriteString(renderList(m.postList.Snapshot(), p.cursor, postRow))
	} else {
		b.WriteString(renderList(m.toolList.Snapshot(), p.cursor, toolRow))
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(help))

	return b.String()
}

func renderList[T any](s listing.Snapshot[T], cursor int, row func(T) string) string {
	switch s.Status {
	case listing.Loading:
		return mutedStyle.Render("loading…") + "\n"
	case listing.Error:
		return errorStyle.Render(fmt.Sprintf("error: %v", s.Err)) + "\n"
	}

	if len(s.Items) == 0 {
		return mutedStyle.Render("nothing matches") + "\n"
	}

	var b strings.Builder
	for i, item := range s.Items {
		line := row(item)
		if i == cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func toolRow(t catalog.Tool) string {
	return fmt.Sprintf("#%-4d %-30s %s", t.ID, t.Name, mutedStyle.Render(catalog.JoinLabels(t.Categories)))
}

func postRow(p catalog.Post) string {
	state := "published"
	if !p.Published {
		state = draftStyle.Render("draft")
	}
	return fmt.Sprintf("#%-4d %-40s %s", p.ID, p.Title, state)
}
