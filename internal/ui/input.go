package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/nav"
	"github.com/five82/shelf/internal/prefs"
)

// handleKey routes key presses. Overlays and text entry take precedence over
// global bindings so typed letters never trigger commands.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		if msg.String() == "tab" {
			m.fullHelp = !m.fullHelp
			m.savePrefs()
			return m, nil
		}
		m.showHelp = false
		return m, nil
	}

	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	switch m.route {
	case nav.RouteLogin, nav.RouteSignup, nav.RouteAddBooks:
		return m.handleFormKey(msg)
	}

	if next, cmd, handled := m.handleRouteKey(msg); handled {
		return next, cmd
	}
	return m.handleGlobalKey(msg)
}

// inputFocused reports whether keys currently go to a text input.
func (m Model) inputFocused() bool {
	if m.searching {
		return true
	}
	switch m.route {
	case nav.RouteLogin, nav.RouteSignup, nav.RouteAddBooks:
		return true
	}
	return false
}

func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.NavLinks):
		idx := int(msg.String()[0] - '1')
		links := nav.Links(m.session.Session())
		if idx < 0 || idx >= len(links) {
			return m, nil
		}
		return m.navigate(links[idx].Route)

	case key.Matches(msg, m.keys.Logout):
		if !m.session.Session().LoggedIn {
			return m, nil
		}
		return m.logout()

	case key.Matches(msg, m.keys.Refresh):
		if m.sched != nil {
			m.sched.Refresh()
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		if m.route == nav.RouteBookDetail {
			return m.navigate(m.back)
		}
		if m.route != nav.RouteHome {
			return m.navigate(nav.RouteHome)
		}
		return m, nil
	}
	return m, nil
}

// handleRouteKey handles bindings specific to the current view. handled is
// false when the key should fall through to the global bindings.
func (m Model) handleRouteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch m.route {
	case nav.RouteHome, nav.RouteAllBooks, nav.RouteExplore, nav.RouteFavoriteBooks, nav.RouteManageBooks:
		if m.moveSelection(msg.String()) {
			return m, nil, true
		}
	}

	switch m.route {
	case nav.RouteHome:
		switch {
		case msg.String() == "e":
			next, cmd := m.navigate(nav.RouteExplore)
			return next, cmd, true
		case key.Matches(msg, m.keys.Open):
			return m.openSelected()
		}

	case nav.RouteAllBooks, nav.RouteExplore:
		switch {
		case key.Matches(msg, m.keys.Open):
			return m.openSelected()
		case key.Matches(msg, m.keys.Search):
			cmd := m.startSearch()
			return m, cmd, true
		case key.Matches(msg, m.keys.Category):
			m.setCategory(m.categoryIndex() + 1)
			return m, fetchSnapshotCmd(m.filterFeed()), true
		case key.Matches(msg, m.keys.PrevCat):
			m.setCategory(m.categoryIndex() - 1)
			return m, fetchSnapshotCmd(m.filterFeed()), true
		case key.Matches(msg, m.keys.ResetCat):
			m.setCategory(0)
			return m, fetchSnapshotCmd(m.filterFeed()), true
		}

	case nav.RouteFavoriteBooks:
		switch {
		case key.Matches(msg, m.keys.Open):
			return m.openSelected()
		case key.Matches(msg, m.keys.Search):
			cmd := m.startSearch()
			return m, cmd, true
		case key.Matches(msg, m.keys.Favorite):
			m.removeSelectedFavorite()
			return m, nil, true
		}

	case nav.RouteBookDetail:
		if key.Matches(msg, m.keys.Favorite) {
			m.toggleDetailFavorite()
			return m, nil, true
		}

	case nav.RouteProfile:
		switch {
		case key.Matches(msg, m.keys.AddBook):
			next, cmd := m.navigate(nav.RouteAddBooks)
			return next, cmd, true
		case key.Matches(msg, m.keys.ManageBooks):
			next, cmd := m.navigate(nav.RouteManageBooks)
			return next, cmd, true
		}

	case nav.RouteManageBooks:
		switch {
		case key.Matches(msg, m.keys.Availability):
			return m.toggleSelectedAvailability()
		case key.Matches(msg, m.keys.Delete):
			if b, ok := m.selectedBook(); ok {
				m.confirm = &b
			}
			return m, nil, true
		case key.Matches(msg, m.keys.Search):
			cmd := m.startSearch()
			return m, cmd, true
		case key.Matches(msg, m.keys.Open):
			return m.openSelected()
		}
	}
	return m, nil, false
}

func (m Model) openSelected() (tea.Model, tea.Cmd, bool) {
	b, ok := m.selectedBook()
	if !ok {
		return m, nil, true
	}
	next, cmd := m.openDetail(b.ID)
	return next, cmd, true
}

// removeSelectedFavorite drops the highlighted book from favorites and from
// the visible list.
func (m *Model) removeSelectedFavorite() {
	b, ok := m.selectedBook()
	if !ok || m.favs == nil {
		return
	}
	if err := m.favs.Remove(b.ID); err != nil {
		m.log.Warn("favorite remove failed", zap.String("id", b.ID), zap.Error(err))
		m.showToast("Could not save favorites", true)
		return
	}
	if feed := m.feeds.Favorites; feed != nil {
		feed.Store.Remove(b.ID)
		m.snap = feed.Store.Snapshot()
	}
	m.clampSelection()
}

func (m *Model) startSearch() tea.Cmd {
	m.searching = true
	return m.search.Focus()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.Reset()
		m.clampSelection()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.selected = 0
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.confirm.ID
		m.confirm = nil
		return m, m.deleteBookCmd(id)
	case key.Matches(msg, m.keys.Cancel):
		m.confirm = nil
	}
	return m, nil
}

// handleFormKey drives the login, signup and add-book forms.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		return m.navigate(nav.RouteHome)
	}

	switch m.route {
	case nav.RouteLogin:
		if key.Matches(msg, m.keys.Submit) {
			return m.submitLogin()
		}
		cmd := m.handleTextFormKey(msg, &m.login)
		return m, cmd
	case nav.RouteSignup:
		if key.Matches(msg, m.keys.Submit) {
			return m.submitSignup()
		}
		cmd := m.handleTextFormKey(msg, &m.signup)
		return m, cmd
	}

	f := &m.addBook
	switch {
	case key.Matches(msg, m.keys.NextField):
		cmd := f.focusField(f.focus + 1)
		return m, cmd
	case key.Matches(msg, m.keys.PrevField):
		cmd := f.focusField(f.focus - 1)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		return m.submitAddBook()
	case f.onChooser() && key.Matches(msg, m.keys.Cycle):
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		f.cycle(delta)
		return m, nil
	case f.onChooser():
		return m, nil
	}
	cmd := f.updateInput(msg)
	return m, cmd
}

// handleTextFormKey moves focus or edits the focused input of f.
func (m Model) handleTextFormKey(msg tea.KeyMsg, f *textForm) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextField):
		return f.focusField(f.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return f.focusField(f.focus - 1)
	}
	return f.updateInput(msg)
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, FullHelp: m.fullHelp}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save prefs failed", zap.Error(err))
	}
}
