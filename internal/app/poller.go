package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/state"
)

const defaultPollInterval = 60 * time.Second

// Poller is the single refresh scheduler. It keeps the active feed fresh on a
// fixed cadence and refreshes immediately when kicked.
type Poller struct {
	interval time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	active *state.Feed
	kick   chan struct{}
}

// NewPoller returns a stopped poller. Call Start to run it.
func NewPoller(interval time.Duration, log *zap.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{
		interval: interval,
		log:      log,
		kick:     make(chan struct{}, 1),
	}
}

// Interval returns the polling cadence.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Activate makes feed the one being polled and refreshes it right away.
// A nil feed pauses polling.
func (p *Poller) Activate(feed *state.Feed) {
	p.mu.Lock()
	p.active = feed
	p.mu.Unlock()
	if feed != nil {
		p.Refresh()
	}
}

// Active returns the feed currently polled.
func (p *Poller) Active() *state.Feed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Refresh requests an immediate refresh of the active feed. Requests made
// while one is pending are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Start launches the polling goroutine. It returns immediately and stops when
// ctx is cancelled.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.kick:
		}
		p.refresh(ctx, p.Active())
	}
}

func (p *Poller) refresh(ctx context.Context, feed *state.Feed) {
	if feed == nil {
		return
	}
	start := time.Now()
	if err := feed.Refresh(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		p.log.Warn("poll failed", zap.String("feed", feed.Name), zap.Error(err))
		return
	}
	p.log.Debug("poll ok",
		zap.String("feed", feed.Name),
		zap.Int("books", len(feed.Store.Snapshot().Books)),
		zap.Duration("took", time.Since(start)))
}
