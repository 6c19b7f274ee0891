package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/nav"
)

// detailState holds the book detail view.
type detailState struct {
	id       string
	book     catalog.Book
	loading  bool
	notFound bool
	err      error
	favorite bool
}

// openDetail navigates to the detail view of id.
func (m Model) openDetail(id string) (tea.Model, tea.Cmd) {
	back := m.route
	m, cmd := m.navigate(nav.RouteBookDetail)
	m.back = back
	m.detail = detailState{id: id, loading: true}
	return m, tea.Batch(cmd, m.loadBookCmd(id))
}

func (m *Model) handleBookLoaded(msg bookLoadedMsg) {
	if msg.id != m.detail.id {
		return
	}
	m.detail.loading = false
	switch {
	case errors.Is(msg.err, catalog.ErrNotFound):
		m.detail.notFound = true
	case msg.err != nil:
		m.log.Warn("book detail failed", zap.String("id", msg.id), zap.Error(msg.err))
		m.detail.err = msg.err
	default:
		m.detail.book = msg.book
		m.detail.favorite = m.favs != nil && m.favs.IsFavorite(msg.book.ID)
	}
}

// toggleDetailFavorite flips the favorite flag of the shown book.
func (m *Model) toggleDetailFavorite() {
	if m.detail.book.ID == "" || m.favs == nil {
		return
	}
	now, err := m.favs.Toggle(m.detail.book.ID)
	if err != nil {
		m.showToast("Could not save favorites", true)
		return
	}
	m.detail.favorite = now
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	d := m.detail
	title := "Book"

	var body string
	switch {
	case d.loading:
		body = m.spinner.View() + " " + styles.MutedText.Render("Loading book...")
	case d.notFound:
		body = styles.DangerText.Render("Book not found")
	case d.err != nil:
		body = styles.DangerText.Render(catalog.Message(d.err, "Failed to load book"))
	default:
		b := d.book
		title = truncate(b.Title, max(m.width-10, 10))
		rows := [][2]string{
			{"Author", b.Author},
			{"Category", b.Category},
			{"Language", b.Language},
			{"Status", ""},
			{"Cover", b.CoverURL},
		}
		var sb strings.Builder
		for _, r := range rows {
			sb.WriteString(styles.MutedText.Render(padRight(r[0], 10)))
			if r[0] == "Status" {
				badge := badgeUnavailable
				if b.Available {
					badge = badgeAvailable
				}
				sb.WriteString(styles.BadgeStyle(badge).Render(availabilityLabel(b.Available)))
			} else {
				sb.WriteString(styles.Text.Render(orDash(r[1])))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		if d.favorite {
			sb.WriteString(styles.AccentText.Render("★ In your favorites") +
				styles.MutedText.Render(fmt.Sprintf("  (%s: remove)", "f")))
		} else {
			sb.WriteString(styles.MutedText.Render("☆ Not in favorites  (f: add)"))
		}
		body = sb.String()
	}
	return m.renderTitledBox(title, body, m.width, m.contentHeight())
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}
