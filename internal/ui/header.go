package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/nav"
)

// renderHeader renders the navbar: logo, role-dependent links, session state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("shelf", styles.Logo)}

	sess := m.session.Session()
	for i, link := range nav.Links(sess) {
		style := styles.MutedText
		if link.Route == m.route || (link.Route == nav.RouteAllBooks && m.route == nav.RouteExplore) {
			style = styles.AccentText.Bold(true)
		}
		parts = append(parts,
			bg.Render(fmt.Sprintf("%d", i+1), styles.FaintText)+bg.Space()+bg.Render(link.Title, style))
	}

	switch {
	case sess.IsAdmin():
		parts = append(parts, bg.Render("● admin", styles.WarningText))
	case sess.LoggedIn:
		parts = append(parts, bg.Render("● signed in", styles.SuccessText))
	}

	if m.snap.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders context key hints, or the toast when one is live.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if t, ok := m.activeToast(); ok {
		style := styles.SuccessText
		if t.isError {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(bg.Render(t.text, style))
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.route {
	case nav.RouteHome:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Open"}, {"e", "Explore"}, {"r", "Refresh"}}
	case nav.RouteAllBooks, nav.RouteExplore:
		commands = []cmd{{"c/C", m.categoryLabel()}, {"/", "Search"}, {"enter", "Open"}, {"r", "Refresh"}}
		if !catalog.IsFilterAll(m.category()) {
			commands = append(commands, cmd{"x", "All Books"})
		}
	case nav.RouteFavoriteBooks:
		commands = []cmd{{"enter", "Open"}, {"f", "Remove"}, {"r", "Refresh"}}
	case nav.RouteBookDetail:
		commands = []cmd{{"f", "Favorite"}, {"esc", "Back"}}
	case nav.RouteLogin, nav.RouteSignup, nav.RouteAddBooks:
		commands = []cmd{{"tab", "Next"}, {"enter", "Submit"}, {"esc", "Home"}}
		if m.route == nav.RouteAddBooks {
			commands = append(commands, cmd{"←/→", "Choose"})
		}
	case nav.RouteProfile:
		commands = []cmd{{"a", "Add Books"}, {"m", "Manage Books"}}
	case nav.RouteManageBooks:
		commands = []cmd{{"a", "Availability"}, {"d", "Delete"}, {"/", "Search"}, {"r", "Refresh"}}
	}
	if m.session.Session().LoggedIn && !m.inputFocused() {
		commands = append(commands, cmd{"L", "Log out"})
	}
	commands = append(commands, cmd{"?", "More"})

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Footer.Width(m.width).Render(bg.Join(segments, "  "))
}

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int) string {
	if width < 4 || height < 2 {
		return content
	}
	bg := NewBgStyle(m.theme.SurfaceAlt)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Border))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := width - 2
	title = truncate(title, innerWidth-4)
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌"+repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(repeat("─", rightPad)+"┐", borderStyle)
	bottom := bg.Render("└"+repeat("─", innerWidth)+"┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).
		Background(lipgloss.Color(m.theme.SurfaceAlt))
	lines := splitLines(content)
	boxHeight := height - 2
	rows := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	return top + "\n" + joinLines(rows) + "\n" + bottom
}

// contentHeight is the space left under the navbar and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}
