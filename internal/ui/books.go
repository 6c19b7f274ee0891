package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/nav"
	"github.com/five82/shelf/internal/state"
)

// visibleBooks returns the snapshot's books narrowed by the search query.
func (m Model) visibleBooks() []catalog.Book {
	query := m.search.Value()
	if strings.TrimSpace(query) == "" {
		return m.snap.Books
	}
	out := make([]catalog.Book, 0, len(m.snap.Books))
	for _, b := range m.snap.Books {
		if matchesQuery(query, b.Title, b.Author) {
			out = append(out, b)
		}
	}
	return out
}

// selectedBook returns the highlighted book in the visible list.
func (m Model) selectedBook() (catalog.Book, bool) {
	books := m.visibleBooks()
	if m.selected < 0 || m.selected >= len(books) {
		return catalog.Book{}, false
	}
	return books[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.visibleBooks())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// moveSelection handles list navigation keys. It reports whether msg was one.
func (m *Model) moveSelection(keyName string) bool {
	n := len(m.visibleBooks())
	switch keyName {
	case "j", "down":
		if m.selected < n-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
	case "g", "home":
		m.selected = 0
	case "G", "end":
		m.selected = max(n-1, 0)
	default:
		return false
	}
	return true
}

// category returns the selected filter; index 0 is All Books.
// filterFeed is the category-filtered feed behind the current route. All
// Books and Explore each keep their own filter.
func (m Model) filterFeed() *state.Feed {
	switch m.route {
	case nav.RouteAllBooks, nav.RouteExplore:
		return m.feedFor(m.route)
	}
	return nil
}

func (m Model) categoryIndex() int {
	feed := m.filterFeed()
	if feed == nil {
		return 0
	}
	current := feed.Store.Category()
	for i, c := range catalog.Categories {
		if i > 0 && c == current {
			return i
		}
	}
	return 0
}

func (m Model) category() string {
	return catalog.Categories[m.categoryIndex()]
}

func (m Model) categoryLabel() string {
	return truncate(m.category(), 16)
}

// setCategory changes the filter and kicks an immediate fetch.
func (m *Model) setCategory(idx int) {
	n := len(catalog.Categories)
	idx = ((idx % n) + n) % n
	m.selected = 0
	if feed := m.filterFeed(); feed != nil {
		feed.Store.SetCategory(catalog.Categories[idx])
	}
	if m.sched != nil {
		m.sched.Refresh()
	}
}

// renderHome renders the recently added list and the visit counter.
func (m Model) renderHome() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	intro := []string{
		bg.Render("DAV ISPAT LIBRARY", styles.Title),
		bg.Render("Study materials, encyclopedias, fiction and classics.", styles.MutedText),
		bg.Render(fmt.Sprintf("Visits on this device: %d", m.visitors), styles.FaintText),
		"",
	}
	body := joinLines(intro) + "\n" + m.renderBookRows(m.contentHeight()-len(intro)-2, false)
	return m.renderTitledBox("Recently Added", body, m.width, m.contentHeight())
}

// renderAllBooks renders the catalog with its category filter.
func (m Model) renderAllBooks() string {
	title := "All Books"
	if m.route == nav.RouteExplore {
		title = "Explore"
	}
	if !catalog.IsFilterAll(m.category()) {
		title += " · " + m.category()
	}
	return m.renderTitledBox(title, m.renderListBody(), m.width, m.contentHeight())
}

// renderFavorites renders the locally favorited books.
func (m Model) renderFavorites() string {
	body := m.renderListBody()
	if m.snap.HasData && len(m.snap.Books) == 0 && m.search.Value() == "" {
		styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
		body = styles.MutedText.Render("No favorite books yet. Press f on a book to add it.")
	}
	return m.renderTitledBox("My Favorites", body, m.width, m.contentHeight())
}

// renderListBody renders the search line (when active) plus rows.
func (m Model) renderListBody() string {
	var lines []string
	if m.searching || m.search.Value() != "" {
		lines = append(lines, m.search.View())
	}
	height := m.contentHeight() - 2 - len(lines)
	lines = append(lines, m.renderBookRows(height, m.route == nav.RouteManageBooks))
	return joinLines(lines)
}

// renderBookRows renders the visible books, a loading line, or the empty state.
func (m Model) renderBookRows(height int, manage bool) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	books := m.visibleBooks()

	if !m.snap.HasData {
		if m.snap.LastError != nil {
			return styles.DangerText.Render(fetchFailureText(m.feedName()))
		}
		return m.spinner.View() + " " + styles.MutedText.Render("Loading books...")
	}
	if len(books) == 0 {
		msg := styles.MutedText.Render("No books found")
		if m.route == nav.RouteAllBooks || m.route == nav.RouteExplore {
			if !catalog.IsFilterAll(m.category()) {
				msg += "\n" + styles.AccentText.Render("x") + styles.MutedText.Render(": show all books")
			}
		}
		return msg
	}

	width := max(m.width-4, 20)
	start := 0
	if height > 0 && m.selected >= height {
		start = m.selected - height + 1
	}
	end := len(books)
	if height > 0 && end-start > height {
		end = start + height
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderBookRow(books[i], i == m.selected, manage, width))
	}
	return joinLines(lines)
}

// renderBookRow formats one row: "★ Title · Author · Category  [Available]".
func (m Model) renderBookRow(b catalog.Book, selected, manage bool, width int) string {
	rowBg := m.theme.SurfaceAlt
	if selected {
		rowBg = m.theme.SelectionBg
	}
	styles := m.theme.Styles().WithBackground(rowBg)
	bg := NewBgStyle(rowBg)

	textStyle := styles.Text
	if selected {
		textStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
	}
	favStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.BadgeColors[badgeFavorite]))

	marker := "  "
	if m.favs != nil && m.favs.IsFavorite(b.ID) {
		marker = "★ "
	}

	badgeName := badgeUnavailable
	if b.Available {
		badgeName = badgeAvailable
	}
	if manage && m.feeds.Manage != nil && m.feeds.Manage.Store.Pending(b.ID) {
		badgeName = badgePending
	}
	badge := styles.BadgeStyle(badgeName).Render(availabilityLabel(b.Available))
	badgeWidth := lipgloss.Width(badge)

	cols := []string{b.Title}
	if m.width >= LayoutCompactWidth {
		cols = append(cols, b.Author, b.Category)
	}
	if m.width >= LayoutWideWidth {
		cols = append(cols, b.Language)
	}
	textWidth := max(width-badgeWidth-4, 10)
	text := truncate(strings.Join(nonEmpty(cols), " · "), textWidth)

	content := bg.Render(marker, favStyle) +
		bg.Render(padRight(text, textWidth), textStyle) + bg.Space() + badge
	return bg.FillLine(content, width)
}

func (m Model) feedName() string {
	if feed := m.feedFor(m.route); feed != nil {
		return feed.Name
	}
	return ""
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
