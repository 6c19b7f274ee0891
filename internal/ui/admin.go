package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/forms"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

const (
	msgAddFailed          = "Failed to add book"
	msgAvailabilityFailed = "Failed to update availability"
	msgDeleteFailed       = "Failed to delete book"
	msgConfirmDelete      = "Are you sure you want to delete this book? (y/n)"
)

// submitAddBook validates the create form and sends it.
func (m Model) submitAddBook() (tea.Model, tea.Cmd) {
	if m.addBook.loading {
		return m, nil
	}
	values := m.addBook.values()
	if err := forms.ValidateBook(values); err != nil {
		m.addBook.err = err.Error()
		return m, nil
	}
	m.addBook.err = ""
	m.addBook.loading = true
	return m, m.createBookCmd(values.Input())
}

func (m Model) handleBookCreated(msg bookCreatedMsg) (tea.Model, tea.Cmd) {
	m.addBook.loading = false
	if msg.err != nil {
		m.log.Warn("add book failed", zap.Error(msg.err))
		m.showToast(catalog.Message(msg.err, msgAddFailed), true)
		return m, nil
	}
	m.addBook.reset()
	cmd := m.addBook.focusField(0)
	m.showToast("Book added successfully!", false)
	return m, cmd
}

// toggleSelectedAvailability flips the highlighted book immediately and sends
// the change. The store keeps the confirmed value until the backend answers.
func (m Model) toggleSelectedAvailability() (tea.Model, tea.Cmd, bool) {
	b, ok := m.selectedBook()
	feed := m.feeds.Manage
	if !ok || feed == nil {
		return m, nil, true
	}
	ticket, ok := feed.Store.BeginToggle(b.ID, !b.Available)
	if !ok {
		return m, nil, true
	}
	m.snap = feed.Store.Snapshot()
	return m, m.updateAvailabilityCmd(ticket), true
}

func (m Model) handleAvailabilityDone(msg availabilityDoneMsg) (tea.Model, tea.Cmd) {
	feed := m.feeds.Manage
	if feed == nil {
		return m, nil
	}
	outcome := feed.Store.ResolveToggle(msg.ticket, msg.err)
	m.log.Debug("availability resolved",
		zap.String("id", msg.ticket.BookID),
		zap.Stringer("outcome", outcome),
		zap.Error(msg.err))

	switch outcome {
	case state.Applied:
		m.showToast("Book marked as "+availabilityLabel(msg.ticket.Next), false)
	case state.Reverted:
		m.showToast(catalog.Message(msg.err, msgAvailabilityFailed), true)
	}
	m.refreshManaged(feed)
	return m, nil
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("delete failed", zap.String("id", msg.id), zap.Error(msg.err))
		m.showToast(catalog.Message(msg.err, msgDeleteFailed), true)
		return m, nil
	}
	if feed := m.feeds.Manage; feed != nil {
		feed.Store.Remove(msg.id)
		m.refreshManaged(feed)
	}
	m.showToast("Book deleted successfully", false)
	return m, nil
}

// refreshManaged re-reads the manage list when it is on screen.
func (m *Model) refreshManaged(feed *state.Feed) {
	if m.feedFor(m.route) != feed {
		return
	}
	m.snap = feed.Store.Snapshot()
	m.clampSelection()
}

func (m Model) renderProfile() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	sess := m.session.Session()

	var b strings.Builder
	b.WriteString(styles.Title.Render("Admin Profile"))
	b.WriteString("\n\n")
	rows := [][2]string{
		{"User ID", orDash(m.session.UserID())},
		{"Role", string(sess.Role)},
	}
	if info, err := session.InspectToken(m.session.Token()); err == nil && !info.ExpiresAt.IsZero() {
		expiry := info.ExpiresAt.Local().Format("2006-01-02 15:04")
		if info.Expired(m.now()) {
			expiry += " (expired)"
		}
		rows = append(rows, [2]string{"Token", "expires " + expiry})
	}
	for _, r := range rows {
		b.WriteString(styles.MutedText.Render(padRight(r[0], 10)))
		b.WriteString(styles.Text.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Render("a") + styles.MutedText.Render(": Add Books    "))
	b.WriteString(styles.AccentText.Render("m") + styles.MutedText.Render(": Manage Books"))
	return m.renderTitledBox("Profile", b.String(), m.width, m.contentHeight())
}

func (m Model) renderAddBook() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	f := m.addBook

	var b strings.Builder
	for i, in := range f.inputs {
		label := styles.MutedText
		if i == f.focus {
			label = styles.AccentText
		}
		b.WriteString(label.Render(padRight(f.labels[i], 12)))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	choosers := []struct {
		idx   int
		label string
		value string
	}{
		{bookFieldCategory, "Category", f.categoryValue()},
		{bookFieldLanguage, "Language", f.languageValue()},
		{bookFieldAvailable, "Available", availabilityLabel(f.available)},
	}
	for _, c := range choosers {
		label := styles.MutedText
		value := c.value
		if value == "" {
			value = "Select " + strings.ToLower(c.label)
		}
		if c.idx == f.focus {
			label = styles.AccentText
			value = fmt.Sprintf("‹ %s ›", value)
		}
		b.WriteString(label.Render(padRight(c.label, 12)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
		b.WriteString("\n")
	}
	if f.loading {
		b.WriteString(m.spinner.View() + " " + styles.MutedText.Render("Adding book..."))
	} else {
		b.WriteString(styles.AccentText.Render("enter") + styles.MutedText.Render(": Add Book"))
	}
	return m.renderTitledBox("Add Book", b.String(), m.width, m.contentHeight())
}

func (m Model) renderManage() string {
	body := m.renderListBody()
	if m.confirm != nil {
		styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
		prompt := styles.WarningText.Render(msgConfirmDelete) + "\n" +
			styles.MutedText.Render(truncate(m.confirm.Title, max(m.width-6, 10)))
		body = prompt + "\n\n" + body
	}
	return m.renderTitledBox("Manage Books", body, m.width, m.contentHeight())
}
