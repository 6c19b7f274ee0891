package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	feed string
	snap state.Snapshot
}

type bookLoadedMsg struct {
	id   string
	book catalog.Book
	err  error
}

type signInDoneMsg struct {
	result catalog.SignInResult
	err    error
}

type signUpDoneMsg struct {
	err error
}

type bookCreatedMsg struct {
	err error
}

type availabilityDoneMsg struct {
	ticket state.ToggleTicket
	err    error
}

type deleteDoneMsg struct {
	id  string
	err error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(feed *state.Feed) tea.Cmd {
	if feed == nil || feed.Store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg{feed: feed.Name, snap: feed.Store.Snapshot()}
	}
}

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, RequestTimeout)
}

func (m Model) loadBookCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		book, err := m.backend.GetBook(ctx, id)
		return bookLoadedMsg{id: id, book: book, err: err}
	}
}

func (m Model) signInCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		result, err := m.backend.SignIn(ctx, email, password)
		return signInDoneMsg{result: result, err: err}
	}
}

func (m Model) signUpCmd(in catalog.SignUpInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return signUpDoneMsg{err: m.backend.SignUp(ctx, in)}
	}
}

func (m Model) createBookCmd(in catalog.BookInput) tea.Cmd {
	token := m.session.Token()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return bookCreatedMsg{err: m.backend.CreateBook(ctx, token, in)}
	}
}

func (m Model) updateAvailabilityCmd(t state.ToggleTicket) tea.Cmd {
	token := m.session.Token()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		err := m.backend.UpdateBook(ctx, token, t.BookID, catalog.AvailabilityPatch(t.Next))
		return availabilityDoneMsg{ticket: t, err: err}
	}
}

func (m Model) deleteBookCmd(id string) tea.Cmd {
	token := m.session.Token()
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return deleteDoneMsg{id: id, err: m.backend.DeleteBook(ctx, token, id)}
	}
}
