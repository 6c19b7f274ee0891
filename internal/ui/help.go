package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/nav"
)

// renderHelp renders the help overlay. The compact form lists the bindings
// of the current view; the full form lists every group.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var sections []helpSection
	if m.fullHelp {
		titles := []string{"Navigation", "Lists", "Filter", "Books", "Forms", "General"}
		for i, group := range m.keys.FullHelp() {
			sections = append(sections, newHelpSection(titles[i], group...))
		}
	} else {
		sections = m.routeHelp()
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(styles.AccentText.Render(padRight(item.key, 12)))
			b.WriteString(styles.MutedText.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	if m.fullHelp {
		b.WriteString(styles.FaintText.Render("tab: fewer keys · any key: close"))
	} else {
		b.WriteString(styles.FaintText.Render("tab: all keys · any key: close"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// routeHelp returns the bindings that apply to the current view.
func (m Model) routeHelp() []helpSection {
	k := m.keys
	var view helpSection
	switch m.route {
	case nav.RouteHome:
		view = newHelpSection("Home", k.Up, k.Down, k.Open)
		view.items = append(view.items, helpItem{"e", "Explore all books"})
	case nav.RouteAllBooks, nav.RouteExplore:
		view = newHelpSection("All Books", k.Up, k.Down, k.Open, k.Search, k.Category, k.PrevCat, k.ResetCat)
	case nav.RouteFavoriteBooks:
		view = newHelpSection("Favorites", k.Up, k.Down, k.Open, k.Favorite)
	case nav.RouteBookDetail:
		view = newHelpSection("Book", k.Favorite, k.Back)
	case nav.RouteLogin, nav.RouteSignup:
		view = newHelpSection("Form", k.NextField, k.PrevField, k.Submit)
	case nav.RouteAddBooks:
		view = newHelpSection("Add Book", k.NextField, k.PrevField, k.Cycle, k.Submit)
	case nav.RouteProfile:
		view = newHelpSection("Admin", k.AddBook, k.ManageBooks)
	case nav.RouteManageBooks:
		view = newHelpSection("Manage Books", k.Up, k.Down, k.Availability, k.Delete, k.Search)
	}
	general := newHelpSection("General", k.NavLinks, k.Refresh, k.Logout, k.CycleTheme, k.Help, k.Quit)
	return []helpSection{view, general}
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

func newHelpSection(title string, bindings ...key.Binding) helpSection {
	s := helpSection{title: title}
	for _, b := range bindings {
		h := b.Help()
		s.items = append(s.items, helpItem{key: h.Key, desc: h.Desc})
	}
	return s
}
