package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/forms"
	"github.com/five82/shelf/internal/localstore"
	"github.com/five82/shelf/internal/nav"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

type fakeBackend struct {
	mu        sync.Mutex
	books     []catalog.Book
	signIn    catalog.SignInResult
	signInErr error
	signUpErr error
	createErr error
	updateErr error
	deleteErr error

	signInCalls int
	signUps     []catalog.SignUpInput
	passwords   []string
	created     []catalog.BookInput
	updates     []catalog.BookPatch
	deleted     []string
	tokens      []string
}

func (f *fakeBackend) ListBooks(_ context.Context, category string) ([]catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []catalog.Book
	for _, b := range f.books {
		if catalog.IsFilterAll(category) || b.Category == category {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBackend) RecentBooks(ctx context.Context) ([]catalog.Book, error) {
	return f.ListBooks(ctx, "")
}

func (f *fakeBackend) GetBook(_ context.Context, id string) (catalog.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.books {
		if b.ID == id {
			return b, nil
		}
	}
	return catalog.Book{}, catalog.ErrNotFound
}

func (f *fakeBackend) CreateBook(_ context.Context, token string, in catalog.BookInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.created = append(f.created, in)
	return f.createErr
}

func (f *fakeBackend) UpdateBook(_ context.Context, token, _ string, patch catalog.BookPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	f.updates = append(f.updates, patch)
	return f.updateErr
}

func (f *fakeBackend) DeleteBook(_ context.Context, token, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) SignIn(_ context.Context, _, password string) (catalog.SignInResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signInCalls++
	f.passwords = append(f.passwords, password)
	return f.signIn, f.signInErr
}

func (f *fakeBackend) SignUp(_ context.Context, in catalog.SignUpInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUps = append(f.signUps, in)
	return f.signUpErr
}

type fakeScheduler struct {
	active    *state.Feed
	refreshes int
}

func (s *fakeScheduler) Activate(feed *state.Feed) { s.active = feed }
func (s *fakeScheduler) Refresh()                  { s.refreshes++ }

type harness struct {
	backend *fakeBackend
	sched   *fakeScheduler
	session *session.Manager
	favs    *favorites.Cache
	feeds   Feeds
}

func newHarness(t *testing.T, books ...catalog.Book) *harness {
	t.Helper()
	storage := localstore.NewMemory()
	h := &harness{
		backend: &fakeBackend{books: books},
		sched:   &fakeScheduler{},
		session: session.Load(storage),
		favs:    favorites.New(storage),
	}
	list := func(ctx context.Context, category string) ([]catalog.Book, error) {
		return h.backend.ListBooks(ctx, category)
	}
	h.feeds = Feeds{
		Recent: state.NewFeed("recent", func(ctx context.Context, _ string) ([]catalog.Book, error) {
			return h.backend.RecentBooks(ctx)
		}),
		Books:   state.NewFeed("books", list),
		Explore: state.NewFeed("explore", list),
		Manage:  state.NewFeed("manage", list),
		Favorites: state.NewFeed("favorites", func(ctx context.Context, _ string) ([]catalog.Book, error) {
			var out []catalog.Book
			for _, id := range h.favs.List() {
				if b, err := h.backend.GetBook(ctx, id); err == nil {
					out = append(out, b)
				}
			}
			return out, nil
		}),
	}
	return h
}

func (h *harness) model(t *testing.T) Model {
	t.Helper()
	m := New(Options{
		Backend:   h.backend,
		Session:   h.session,
		Favorites: h.favs,
		Scheduler: h.sched,
		Feeds:     h.feeds,
		PrefsPath: t.TempDir() + "/prefs.toml",
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// refresh fills every feed from the fake backend, as the poller would.
func (h *harness) refresh(t *testing.T) {
	t.Helper()
	for _, feed := range []*state.Feed{h.feeds.Recent, h.feeds.Books, h.feeds.Explore, h.feeds.Manage, h.feeds.Favorites} {
		if err := feed.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh %s: %v", feed.Name, err)
		}
	}
}

func (h *harness) signInAs(t *testing.T, role string) {
	t.Helper()
	if err := h.session.SignedIn("u1", "tok-"+role, role); err != nil {
		t.Fatalf("SignedIn: %v", err)
	}
}

// collect runs cmd and returns the messages it produced. Commands that block
// (ticks, cursor blink) are abandoned after a short wait.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

// drain feeds the messages of cmd back into m until nothing is left.
func drain(m Model, cmd tea.Cmd) Model {
	for _, msg := range collect(cmd) {
		next, c := m.Update(msg)
		m = drain(next.(Model), c)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key and drains the resulting commands.
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, cmd := m.Update(keyMsg(k))
		m = drain(next.(Model), cmd)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = press(m, string(r))
	}
	return m
}

func goTo(t *testing.T, m Model, route nav.Route) Model {
	t.Helper()
	next, cmd := m.navigate(route)
	return drain(next, cmd)
}

func sampleBooks() []catalog.Book {
	return []catalog.Book{
		{ID: "b1", Title: "Gödel, Escher, Bach", Author: "Hofstadter", Category: "Others", Language: "English", Available: true},
		{ID: "b2", Title: "Concepts of Physics", Author: "H C Verma", Category: "Physics", Language: "English", Available: true},
		{ID: "b3", Title: "Godan", Author: "Premchand", Category: "Hindi Novel", Language: "Hindi", Available: false},
	}
}

func TestGuardRedirectsAdminRoutes(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	for _, route := range []nav.Route{nav.RouteProfile, nav.RouteAddBooks, nav.RouteManageBooks} {
		m = goTo(t, m, route)
		if m.route != nav.RouteHome {
			t.Fatalf("anonymous navigate(%s) = %s, want home", route, m.route)
		}
	}

	h.signInAs(t, "user")
	m = goTo(t, m, nav.RouteManageBooks)
	if m.route != nav.RouteHome {
		t.Fatalf("user navigate(manage) = %s, want home", m.route)
	}

	h.signInAs(t, "admin")
	m = goTo(t, m, nav.RouteManageBooks)
	if m.route != nav.RouteManageBooks {
		t.Fatalf("admin navigate(manage) = %s, want manage-books", m.route)
	}
}

func TestNavbarDigitsFollowSession(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	m = press(m, "3")
	if m.route != nav.RouteLogin {
		t.Fatalf("anonymous 3 = %s, want login", m.route)
	}
	m = press(m, "esc", "2")
	if m.route != nav.RouteAllBooks {
		t.Fatalf("2 = %s, want all-books", m.route)
	}

	h.signInAs(t, "user")
	m = press(m, "3")
	if m.route != nav.RouteFavoriteBooks {
		t.Fatalf("user 3 = %s, want favorite-books", m.route)
	}
	m = press(m, "4")
	if m.route != nav.RouteFavoriteBooks {
		t.Fatalf("user 4 should be ignored, route = %s", m.route)
	}
}

func TestNavigateActivatesFeed(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	m = goTo(t, m, nav.RouteAllBooks)
	if h.sched.active != h.feeds.Books {
		t.Fatalf("active feed = %v, want books", h.sched.active)
	}
	_ = goTo(t, m, nav.RouteLogin)
	if h.sched.active != nil {
		t.Fatalf("login should pause polling, active = %v", h.sched.active)
	}
}

func TestHomeExploreShowsAllBooks(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.refresh(t)
	m := h.model(t)

	m = press(m, "e")
	if m.route != nav.RouteExplore {
		t.Fatalf("route = %s, want explore", m.route)
	}
	if len(m.visibleBooks()) != 3 {
		t.Fatalf("explore shows %d books, want 3", len(m.visibleBooks()))
	}
}

func TestExploreKeepsItsOwnFilter(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	m := goTo(t, h.model(t), nav.RouteAllBooks)
	m = press(m, "c")
	if got := h.feeds.Books.Store.Category(); got != catalog.Categories[1] {
		t.Fatalf("all-books category = %q, want %q", got, catalog.Categories[1])
	}

	m = goTo(t, m, nav.RouteExplore)
	if h.sched.active != h.feeds.Explore {
		t.Fatalf("active feed = %v, want explore", h.sched.active)
	}
	if !catalog.IsFilterAll(m.category()) {
		t.Fatalf("explore category = %q, want All Books", m.category())
	}
	h.refresh(t)
	m = drain(m, fetchSnapshotCmd(h.feeds.Explore))
	if len(m.visibleBooks()) != 3 {
		t.Fatalf("explore shows %d books, want 3", len(m.visibleBooks()))
	}

	m = press(m, "c")
	m = press(m, "c")
	if got := h.feeds.Explore.Store.Category(); got != catalog.Categories[2] {
		t.Fatalf("explore category = %q, want %q", got, catalog.Categories[2])
	}
	if got := h.feeds.Books.Store.Category(); got != catalog.Categories[1] {
		t.Fatalf("all-books category changed to %q", got)
	}
}

func TestCategoryChangeUpdatesStoreAndRefreshes(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	m := goTo(t, h.model(t), nav.RouteAllBooks)

	m = press(m, "c")
	if got := h.feeds.Books.Store.Category(); got != catalog.Categories[1] {
		t.Fatalf("category = %q, want %q", got, catalog.Categories[1])
	}
	if h.sched.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", h.sched.refreshes)
	}

	m = press(m, "C")
	if got := h.feeds.Books.Store.Category(); got != "" {
		t.Fatalf("category after C = %q, want all books", got)
	}
	m = press(m, "C")
	if got := m.category(); got != catalog.Categories[len(catalog.Categories)-1] {
		t.Fatalf("C from All Books = %q, want last category", got)
	}
	m = press(m, "x")
	if !catalog.IsFilterAll(m.category()) {
		t.Fatalf("x should reset to All Books, got %q", m.category())
	}
}

func TestEmptyFilteredListOffersReset(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	m := goTo(t, h.model(t), nav.RouteAllBooks)
	m = press(m, "c") // Class 9: no books

	if err := h.feeds.Books.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	m = drain(m, fetchSnapshotCmd(h.feeds.Books))

	view := m.View()
	if !strings.Contains(view, "No books found") {
		t.Fatalf("view missing empty state:\n%s", view)
	}
	if !strings.Contains(view, "show all books") {
		t.Fatalf("view missing reset hint:\n%s", view)
	}
}

func TestSearchIsAccentInsensitive(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.refresh(t)
	m := goTo(t, h.model(t), nav.RouteAllBooks)

	m = press(m, "/")
	if !m.searching {
		t.Fatal("expected search mode")
	}
	m = typeText(m, "godel")
	got := m.visibleBooks()
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("search godel = %+v, want b1", got)
	}

	// Letters typed into the search box are not commands.
	if m.route != nav.RouteAllBooks {
		t.Fatalf("route = %s, want all-books", m.route)
	}

	m = press(m, "esc")
	if m.searching || len(m.visibleBooks()) != 3 {
		t.Fatalf("esc should clear search, searching=%v visible=%d", m.searching, len(m.visibleBooks()))
	}
}

func TestSnapshotForHiddenFeedIgnored(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	m := goTo(t, h.model(t), nav.RouteAllBooks)

	next, _ := m.Update(snapshotMsg{feed: "recent", snap: state.Snapshot{Books: sampleBooks(), HasData: true}})
	m = next.(Model)
	if m.snap.HasData {
		t.Fatal("snapshot for the recent feed should not reach the all-books view")
	}
}

func TestFetchFailureRaisesToastOnce(t *testing.T) {
	h := newHarness(t)
	m := goTo(t, h.model(t), nav.RouteAllBooks)

	failed := state.Snapshot{LastError: errors.New("boom"), ConsecutiveFailures: 1}
	next, _ := m.Update(snapshotMsg{feed: "books", snap: failed})
	m = next.(Model)
	tst, ok := m.activeToast()
	if !ok || tst.text != "Failed to fetch books" || !tst.isError {
		t.Fatalf("toast = %+v (%v), want fetch failure", tst, ok)
	}

	m.toast = toast{}
	next, _ = m.Update(snapshotMsg{feed: "books", snap: failed})
	m = next.(Model)
	if _, ok := m.activeToast(); ok {
		t.Fatal("same failure count should not toast again")
	}
}

func TestLoginValidationSkipsRequest(t *testing.T) {
	h := newHarness(t)
	m := goTo(t, h.model(t), nav.RouteLogin)

	m = press(m, "enter")
	if m.login.err != forms.MsgFillAll {
		t.Fatalf("login err = %q, want %q", m.login.err, forms.MsgFillAll)
	}
	if h.backend.signInCalls != 0 {
		t.Fatalf("sign-in calls = %d, want 0", h.backend.signInCalls)
	}
}

func TestLoginSuccessSignsInAndGoesHome(t *testing.T) {
	h := newHarness(t)
	h.backend.signIn = catalog.SignInResult{ID: "u9", Token: "tok", Role: "admin"}
	m := goTo(t, h.model(t), nav.RouteLogin)

	m = typeText(m, "a@b.co")
	m = press(m, "tab")
	m = typeText(m, "secret")
	m = press(m, "enter")

	if m.route != nav.RouteHome {
		t.Fatalf("route = %s, want home", m.route)
	}
	sess := h.session.Session()
	if !sess.LoggedIn || !sess.IsAdmin() {
		t.Fatalf("session = %+v, want logged-in admin", sess)
	}
	if h.session.Token() != "tok" || h.session.UserID() != "u9" {
		t.Fatalf("credentials = %q/%q", h.session.UserID(), h.session.Token())
	}
	if m.login.loading || m.login.value(0) != "" {
		t.Fatalf("login form not reset: loading=%v email=%q", m.login.loading, m.login.value(0))
	}
}

func TestLoginDigitsAreTypedAndHintMatches(t *testing.T) {
	h := newHarness(t)
	m := goTo(t, h.model(t), nav.RouteLogin)

	m = press(m, "2")
	if m.route != nav.RouteLogin || m.login.value(0) != "2" {
		t.Fatalf("route = %s email = %q, want digit typed on login", m.route, m.login.value(0))
	}
	view := m.View()
	if strings.Contains(view, "Press 2") || !strings.Contains(view, "esc for Home") {
		t.Fatalf("login hint does not match key handling:\n%s", view)
	}

	m = press(m, "esc")
	m = press(m, "4")
	if m.route != nav.RouteSignup {
		t.Fatalf("route = %s, want signup via navbar", m.route)
	}
}

func TestLoginSendsPasswordAsTyped(t *testing.T) {
	h := newHarness(t)
	h.backend.signIn = catalog.SignInResult{ID: "u9", Token: "tok", Role: "user"}
	m := goTo(t, h.model(t), nav.RouteLogin)
	m.login.setValue(0, " a@b.co ")
	m.login.setValue(1, " pass word ")

	press(m, "enter")
	if len(h.backend.passwords) != 1 || h.backend.passwords[0] != " pass word " {
		t.Fatalf("passwords = %q, want %q", h.backend.passwords, " pass word ")
	}
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	h := newHarness(t)
	h.backend.signInErr = &catalog.APIError{StatusCode: 401, Message: "Invalid credentials"}
	m := goTo(t, h.model(t), nav.RouteLogin)
	m.login.setValue(0, "a@b.co")
	m.login.setValue(1, "wrong!")

	m = press(m, "enter")
	if m.route != nav.RouteLogin {
		t.Fatalf("route = %s, want login", m.route)
	}
	if m.login.err != "Invalid credentials" {
		t.Fatalf("err = %q, want server message", m.login.err)
	}
	if m.login.loading {
		t.Fatal("loading flag should be cleared")
	}
	if h.session.Session().LoggedIn {
		t.Fatal("session should stay logged out")
	}
}

func TestLoginTransportFailureUsesFallback(t *testing.T) {
	h := newHarness(t)
	h.backend.signInErr = errors.New("execute request: connection refused")
	m := goTo(t, h.model(t), nav.RouteLogin)
	m.login.setValue(0, "a@b.co")
	m.login.setValue(1, "secret")

	m = press(m, "enter")
	if m.login.err != msgLoginFailed {
		t.Fatalf("err = %q, want %q", m.login.err, msgLoginFailed)
	}
}

func TestSignupValidationOrder(t *testing.T) {
	h := newHarness(t)
	m := goTo(t, h.model(t), nav.RouteSignup)
	m.signup.setValue(0, "A")
	m.signup.setValue(1, "bob")
	m.signup.setValue(2, "not-an-email")
	m.signup.setValue(3, "123")

	m = press(m, "enter")
	if m.signup.err != forms.MsgNameTooShort {
		t.Fatalf("err = %q, want %q", m.signup.err, forms.MsgNameTooShort)
	}
	if len(h.backend.signUps) != 0 {
		t.Fatal("invalid form must not be sent")
	}
}

func TestSignupSendsPasswordAsTyped(t *testing.T) {
	h := newHarness(t)
	m := goTo(t, h.model(t), nav.RouteSignup)
	m.signup.setValue(0, "Asha")
	m.signup.setValue(1, "asha1")
	m.signup.setValue(2, "asha@school.in")
	m.signup.setValue(3, "12345 ")

	m = press(m, "enter")
	if m.signup.err != "" {
		t.Fatalf("err = %q, want none", m.signup.err)
	}
	if len(h.backend.signUps) != 1 || h.backend.signUps[0].Password != "12345 " {
		t.Fatalf("sign-ups = %+v, want password %q", h.backend.signUps, "12345 ")
	}
}

func TestSignupWhitespacePasswordIsLengthChecked(t *testing.T) {
	h := newHarness(t)
	m := goTo(t, h.model(t), nav.RouteSignup)
	m.signup.setValue(0, "Asha")
	m.signup.setValue(1, "asha1")
	m.signup.setValue(2, "asha@school.in")
	m.signup.setValue(3, "   ")

	m = press(m, "enter")
	if m.signup.err != forms.MsgPasswordTooShort {
		t.Fatalf("err = %q, want %q", m.signup.err, forms.MsgPasswordTooShort)
	}
	if len(h.backend.signUps) != 0 {
		t.Fatal("invalid form must not be sent")
	}
}

func TestSignupSuccessGoesToLogin(t *testing.T) {
	h := newHarness(t)
	m := goTo(t, h.model(t), nav.RouteSignup)
	m.signup.setValue(0, "Asha")
	m.signup.setValue(1, "asha1")
	m.signup.setValue(2, "asha@school.in")
	m.signup.setValue(3, "secret1")

	m = press(m, "enter")
	if m.route != nav.RouteLogin {
		t.Fatalf("route = %s, want login", m.route)
	}
	if len(h.backend.signUps) != 1 || h.backend.signUps[0].Username != "asha1" {
		t.Fatalf("sign-ups = %+v", h.backend.signUps)
	}
	if h.session.Session().LoggedIn {
		t.Fatal("sign-up must not log in")
	}
}

func TestLogoutReturnsHome(t *testing.T) {
	h := newHarness(t)
	h.signInAs(t, "admin")
	m := goTo(t, h.model(t), nav.RouteProfile)

	m = press(m, "L")
	if m.route != nav.RouteHome {
		t.Fatalf("route = %s, want home", m.route)
	}
	sess := h.session.Session()
	if sess.LoggedIn || sess.Role != session.RoleUser {
		t.Fatalf("session = %+v, want default", sess)
	}
}

func TestDetailFavoriteToggle(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.refresh(t)
	m := h.model(t)
	m = drain(m, fetchSnapshotCmd(h.feeds.Recent))

	m = press(m, "j", "enter")
	if m.route != nav.RouteBookDetail || m.detail.book.ID != "b2" {
		t.Fatalf("detail = %s %+v, want b2", m.route, m.detail.book)
	}

	m = press(m, "f")
	if !m.detail.favorite || !h.favs.IsFavorite("b2") {
		t.Fatal("f should add b2 to favorites")
	}
	m = press(m, "f")
	if m.detail.favorite || h.favs.IsFavorite("b2") {
		t.Fatal("second f should remove b2")
	}

	m = press(m, "esc")
	if m.route != nav.RouteHome {
		t.Fatalf("esc from detail = %s, want home", m.route)
	}
}

func TestDetailNotFound(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)
	next, cmd := m.openDetail("missing")
	m = drain(next.(Model), cmd)

	if !m.detail.notFound || m.detail.loading {
		t.Fatalf("detail = %+v, want not found", m.detail)
	}
	if !strings.Contains(m.View(), "Book not found") {
		t.Fatal("view should say Book not found")
	}
}

func TestFavoritesRemoveInline(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.signInAs(t, "user")
	for _, id := range []string{"b1", "b3"} {
		if err := h.favs.Add(id); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	h.refresh(t)
	m := goTo(t, h.model(t), nav.RouteFavoriteBooks)
	if len(m.visibleBooks()) != 2 {
		t.Fatalf("favorites = %d, want 2", len(m.visibleBooks()))
	}

	m = press(m, "f")
	if h.favs.IsFavorite("b1") {
		t.Fatal("b1 should be removed")
	}
	got := m.visibleBooks()
	if len(got) != 1 || got[0].ID != "b3" {
		t.Fatalf("favorites after remove = %+v, want b3", got)
	}
}

func TestManageAvailabilityRevertsOnFailure(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.backend.updateErr = errors.New("execute request: timeout")
	h.signInAs(t, "admin")
	h.refresh(t)
	m := goTo(t, h.model(t), nav.RouteManageBooks)

	next, cmd := m.Update(keyMsg("a"))
	m = next.(Model)
	if m.snap.Books[0].Available {
		t.Fatal("toggle should flip immediately")
	}
	if !h.feeds.Manage.Store.Pending("b1") {
		t.Fatal("toggle should be pending")
	}

	m = drain(m, cmd)
	if !m.snap.Books[0].Available {
		t.Fatal("failed toggle should restore the previous value")
	}
	tst, ok := m.activeToast()
	if !ok || tst.text != msgAvailabilityFailed || !tst.isError {
		t.Fatalf("toast = %+v, want availability failure", tst)
	}
	if len(h.backend.tokens) != 1 || h.backend.tokens[0] != "tok-admin" {
		t.Fatalf("tokens = %v, want admin bearer", h.backend.tokens)
	}
}

func TestManageAvailabilityApplied(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.signInAs(t, "admin")
	h.refresh(t)
	m := goTo(t, h.model(t), nav.RouteManageBooks)

	m = press(m, "G", "a")
	last := m.snap.Books[len(m.snap.Books)-1]
	if last.ID != "b3" || !last.Available {
		t.Fatalf("b3 = %+v, want available", last)
	}
	if h.feeds.Manage.Store.Pending("b3") {
		t.Fatal("applied toggle should not stay pending")
	}
	tst, _ := m.activeToast()
	if tst.text != "Book marked as Available" {
		t.Fatalf("toast = %q", tst.text)
	}
	if len(h.backend.updates) != 1 || h.backend.updates[0].Available == nil || !*h.backend.updates[0].Available {
		t.Fatalf("updates = %+v, want available=true", h.backend.updates)
	}
}

func TestManageDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.signInAs(t, "admin")
	h.refresh(t)
	m := goTo(t, h.model(t), nav.RouteManageBooks)

	m = press(m, "d")
	if m.confirm == nil || m.confirm.ID != "b1" {
		t.Fatalf("confirm = %+v, want b1", m.confirm)
	}
	if !strings.Contains(m.View(), msgConfirmDelete) {
		t.Fatal("confirm prompt not shown")
	}
	m = press(m, "n")
	if m.confirm != nil || len(h.backend.deleted) != 0 {
		t.Fatal("n should cancel without deleting")
	}

	m = press(m, "d", "y")
	if len(h.backend.deleted) != 1 || h.backend.deleted[0] != "b1" {
		t.Fatalf("deleted = %v, want [b1]", h.backend.deleted)
	}
	if _, ok := m.snap.Find("b1"); ok {
		t.Fatal("b1 should be removed locally")
	}
	tst, _ := m.activeToast()
	if tst.text != "Book deleted successfully" {
		t.Fatalf("toast = %q", tst.text)
	}
}

func TestManageDeleteFailureKeepsBook(t *testing.T) {
	h := newHarness(t, sampleBooks()...)
	h.backend.deleteErr = errors.New("execute request: reset")
	h.signInAs(t, "admin")
	h.refresh(t)
	m := goTo(t, h.model(t), nav.RouteManageBooks)

	m = press(m, "d", "y")
	if _, ok := m.snap.Find("b1"); !ok {
		t.Fatal("b1 should remain after a failed delete")
	}
	tst, _ := m.activeToast()
	if tst.text != msgDeleteFailed || !tst.isError {
		t.Fatalf("toast = %+v", tst)
	}
}

func TestAddBookFlow(t *testing.T) {
	h := newHarness(t)
	h.signInAs(t, "admin")
	m := goTo(t, h.model(t), nav.RouteAddBooks)

	m = press(m, "enter")
	if m.addBook.err != forms.MsgFillAll || len(h.backend.created) != 0 {
		t.Fatalf("err = %q created = %d", m.addBook.err, len(h.backend.created))
	}

	m = typeText(m, "https://img/x.png")
	m = press(m, "tab")
	m = typeText(m, "Wings of Fire")
	m = press(m, "tab")
	m = typeText(m, "A P J Abdul Kalam")
	m = press(m, "tab", "right", "tab", "right", "tab", "space")
	if !m.addBook.onChooser() {
		t.Fatal("focus should be on a chooser")
	}
	m = press(m, "enter")

	if len(h.backend.created) != 1 {
		t.Fatalf("created = %d, want 1 (err %q)", len(h.backend.created), m.addBook.err)
	}
	got := h.backend.created[0]
	if got.Title != "Wings of Fire" || got.Category != catalog.BookCategories[0] || got.Language != catalog.Languages[0] || got.Available {
		t.Fatalf("created = %+v", got)
	}
	tst, _ := m.activeToast()
	if tst.text != "Book added successfully!" {
		t.Fatalf("toast = %q", tst.text)
	}
	if m.addBook.value(1) != "" || m.addBook.category != -1 {
		t.Fatal("form should reset after success")
	}
}

func TestAddBookFailureShowsServerMessage(t *testing.T) {
	h := newHarness(t)
	h.backend.createErr = &catalog.APIError{StatusCode: 400, Message: "Book already exists"}
	h.signInAs(t, "admin")
	m := goTo(t, h.model(t), nav.RouteAddBooks)
	m.addBook.setValue(0, "u")
	m.addBook.setValue(1, "t")
	m.addBook.setValue(2, "a")
	m.addBook.category = 0
	m.addBook.language = 1

	m = press(m, "enter")
	tst, _ := m.activeToast()
	if tst.text != "Book already exists" || !tst.isError {
		t.Fatalf("toast = %+v", tst)
	}
	if m.addBook.value(1) != "t" {
		t.Fatal("form should keep values after failure")
	}
}

func TestQuitKeys(t *testing.T) {
	m := newHarness(t).model(t)
	if _, cmd := m.Update(keyMsg("q")); cmd == nil {
		t.Fatal("q should quit")
	}
	m = goTo(t, m, nav.RouteLogin)
	next, cmd := m.Update(keyMsg("q"))
	for _, msg := range collect(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			t.Fatal("q in a form should be typed, not quit")
		}
	}
	if got := next.(Model).login.value(0); got != "q" {
		t.Fatalf("email = %q, want q", got)
	}
}
