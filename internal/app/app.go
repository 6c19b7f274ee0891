package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/favorites"
	"github.com/five82/shelf/internal/localstore"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/session"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/ui"
)

// VisitorCountKey is the local storage key of the page-view counter.
const VisitorCountKey = "visitorCount"

// Options configure the shelf application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shelf/prefs.toml
	PollEvery  int    // seconds; zero uses the configured value
}

// Env is the set of long-lived objects shared by the TUI and the CLI
// commands.
type Env struct {
	Config    config.Config
	Log       *zap.Logger
	Storage   *localstore.Store
	Session   *session.Manager
	Favorites *favorites.Cache
	Client    *catalog.Client
}

// Open loads configuration and wires the core objects. Callers must Close it.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollEvery = time.Duration(opts.PollEvery) * time.Second
	}

	log, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	storage, err := localstore.Open(cfg.StoragePath())
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open local storage: %w", err)
	}

	client, err := catalog.NewClient(cfg.APIBase,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithRateLimit(cfg.RatePerSecond),
		catalog.WithLogger(log.Named("catalog")),
	)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	return &Env{
		Config:    cfg,
		Log:       log,
		Storage:   storage,
		Session:   session.Load(storage),
		Favorites: favorites.New(storage),
		Client:    client,
	}, nil
}

// Close flushes the logger.
func (e *Env) Close() {
	if e == nil || e.Log == nil {
		return
	}
	_ = e.Log.Sync()
}

// Run boots the shelf TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	visits, err := CountVisit(env.Storage)
	if err != nil {
		env.Log.Warn("visitor count not saved", zap.Error(err))
	}
	env.Log.Info("starting",
		zap.String("api", env.Client.BaseURL()),
		zap.Duration("poll", env.Config.PollEvery),
		zap.Bool("logged_in", env.Session.Session().LoggedIn))

	feeds := NewFeeds(env.Client, env.Favorites, env.Log)
	poller := NewPoller(env.Config.PollEvery, env.Log.Named("poller"))
	poller.Start(ctx)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs := prefs.Load(prefsPath)

	uiOpts := ui.Options{
		Context:      ctx,
		Backend:      env.Client,
		Session:      env.Session,
		Favorites:    env.Favorites,
		Scheduler:    poller,
		Feeds:        feeds,
		VisitorCount: visits,
		ThemeName:    userPrefs.Theme,
		FullHelp:     userPrefs.FullHelp,
		PrefsPath:    prefsPath,
		Log:          env.Log.Named("ui"),
	}
	return ui.Run(uiOpts)
}

// NewFeeds builds one feed per list view.
func NewFeeds(backend catalog.Backend, favs *favorites.Cache, log *zap.Logger) ui.Feeds {
	return ui.Feeds{
		Recent: state.NewFeed("recent", func(ctx context.Context, _ string) ([]catalog.Book, error) {
			return backend.RecentBooks(ctx)
		}),
		Books:   state.NewFeed("books", backend.ListBooks),
		Explore: state.NewFeed("explore", backend.ListBooks),
		Manage: state.NewFeed("manage", func(ctx context.Context, _ string) ([]catalog.Book, error) {
			return backend.ListBooks(ctx, "")
		}),
		Favorites: state.NewFeed("favorites", func(ctx context.Context, _ string) ([]catalog.Book, error) {
			return favs.Books(ctx, backend, log)
		}),
	}
}

// CountVisit increments the persisted visitor counter and returns the new
// value. An unreadable counter restarts from zero.
func CountVisit(storage *localstore.Store) (int, error) {
	n := 0
	if raw, ok := storage.Get(VisitorCountKey); ok {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	n++
	return n, storage.Set(VisitorCountKey, strconv.Itoa(n))
}
