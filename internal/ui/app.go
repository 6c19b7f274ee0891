package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/nav"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
)

// Scheduler refreshes the feed of the visible view.
type Scheduler interface {
	Activate(feed *state.Feed)
	Refresh()
}

// Feeds holds one feed per list view.
type Feeds struct {
	Recent    *state.Feed
	Books     *state.Feed
	Explore   *state.Feed
	Manage    *state.Feed
	Favorites *state.Feed
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Backend      catalog.Backend
	Session      *session.Manager
	Favorites    *favorites.Cache
	Scheduler    Scheduler
	Feeds        Feeds
	VisitorCount int
	ThemeName    string
	FullHelp     bool
	PrefsPath    string
	UITick       time.Duration
	Log          *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	backend   catalog.Backend
	session   *session.Manager
	favs      *favorites.Cache
	sched     Scheduler
	feeds     Feeds
	log       *zap.Logger
	prefsPath string
	uiTick    time.Duration
	now       func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	fullHelp bool
	spinner  spinner.Model
	toast    toast

	// Navigation
	route nav.Route
	back  nav.Route // where esc leaves the detail view to

	// List state
	snap        state.Snapshot
	failures    map[string]int
	selected    int
	search      textinput.Model
	searching   bool
	confirm     *catalog.Book // pending delete confirmation

	// Per-view state
	visitors int
	detail   detailState
	login    textForm
	signup   textForm
	addBook  bookForm
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	uiTick := opts.UITick
	if uiTick <= 0 {
		uiTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "title or author"
	search.CharLimit = 64

	m := Model{
		ctx:       ctx,
		backend:   opts.Backend,
		session:   opts.Session,
		favs:      opts.Favorites,
		sched:     opts.Scheduler,
		feeds:     opts.Feeds,
		log:       log,
		prefsPath: prefsPath,
		uiTick:    uiTick,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(themeName),
		fullHelp:  opts.FullHelp,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		failures:  make(map[string]int),
		search:    search,
		visitors:  opts.VisitorCount,
		login:     newLoginForm(),
		signup:    newSignupForm(),
		addBook:   newBookForm(),
		route:     nav.RouteHome,
		back:      nav.RouteHome,
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	m.activate(nav.RouteHome)
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.uiTick),
		m.spinner.Tick,
		fetchSnapshotCmd(m.feedFor(m.route)),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.feedFor(m.route)), tickCmd(m.uiTick))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(msg)
		return m, nil

	case bookLoadedMsg:
		m.handleBookLoaded(msg)
		return m, nil

	case signInDoneMsg:
		return m.handleSignInDone(msg)

	case signUpDoneMsg:
		return m.handleSignUpDone(msg)

	case bookCreatedMsg:
		return m.handleBookCreated(msg)

	case availabilityDoneMsg:
		return m.handleAvailabilityDone(msg)

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on the current route.
func (m Model) renderContent() string {
	switch m.route {
	case nav.RouteHome:
		return m.renderHome()
	case nav.RouteAllBooks, nav.RouteExplore:
		return m.renderAllBooks()
	case nav.RouteFavoriteBooks:
		return m.renderFavorites()
	case nav.RouteBookDetail:
		return m.renderDetail()
	case nav.RouteLogin:
		return m.renderLogin()
	case nav.RouteSignup:
		return m.renderSignup()
	case nav.RouteProfile:
		return m.renderProfile()
	case nav.RouteAddBooks:
		return m.renderAddBook()
	case nav.RouteManageBooks:
		return m.renderManage()
	default:
		return ""
	}
}

// feedFor returns the feed backing route, or nil for views without a list.
func (m Model) feedFor(route nav.Route) *state.Feed {
	switch route {
	case nav.RouteHome:
		return m.feeds.Recent
	case nav.RouteAllBooks:
		return m.feeds.Books
	case nav.RouteExplore:
		return m.feeds.Explore
	case nav.RouteFavoriteBooks:
		return m.feeds.Favorites
	case nav.RouteManageBooks:
		return m.feeds.Manage
	}
	return nil
}

// navigate switches to route after checking the guard. Admin-only routes
// resolve to home for everyone else.
func (m Model) navigate(route nav.Route) (Model, tea.Cmd) {
	resolved := nav.Resolve(m.session.Session(), route)
	if resolved != route {
		m.log.Debug("route guarded", zap.String("route", string(route)))
	}
	if resolved != nav.RouteBookDetail {
		m.back = resolved
	}
	m.route = resolved
	m.selected = 0
	m.searching = false
	m.search.Blur()
	m.search.Reset()
	m.confirm = nil
	m.snap = state.Snapshot{}

	m.activate(resolved)
	cmds := []tea.Cmd{fetchSnapshotCmd(m.feedFor(resolved))}
	switch resolved {
	case nav.RouteLogin:
		cmds = append(cmds, m.login.focusField(0))
	case nav.RouteSignup:
		cmds = append(cmds, m.signup.focusField(0))
	case nav.RouteAddBooks:
		cmds = append(cmds, m.addBook.focusField(0))
	}
	return m, tea.Batch(cmds...)
}

// activate points the scheduler at the route's feed.
func (m Model) activate(route nav.Route) {
	if m.sched == nil {
		return
	}
	m.sched.Activate(m.feedFor(route))
}

// applySnapshot takes a store snapshot for the visible list. Snapshots for a
// feed that is no longer visible are ignored. A new failure raises a toast.
func (m *Model) applySnapshot(msg snapshotMsg) {
	feed := m.feedFor(m.route)
	if feed == nil || feed.Name != msg.feed {
		return
	}
	if msg.snap.LastError != nil && msg.snap.ConsecutiveFailures > m.failures[msg.feed] {
		m.showToast(fetchFailureText(msg.feed), true)
	}
	m.failures[msg.feed] = msg.snap.ConsecutiveFailures
	m.snap = msg.snap
	m.clampSelection()
}

func fetchFailureText(feed string) string {
	if feed == "recent" {
		return "Failed to fetch recent books"
	}
	return "Failed to fetch books"
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
