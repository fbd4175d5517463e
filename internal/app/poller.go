package app

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/five82/wpreport/internal/sources"
	"github.com/five82/wpreport/internal/state"
)

const defaultPollInterval = 5 * time.Second

// Poller refreshes the store on a ticker and whenever a watched log file
// is written or recreated.
type Poller struct {
	service  *Service
	store    *state.Store
	interval time.Duration
	logger   zerolog.Logger

	trigger chan struct{}
	watched map[string]struct{}
}

// NewPoller returns a poller. A non-positive interval uses the default.
func NewPoller(service *Service, store *state.Store, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		service:  service,
		store:    store,
		interval: interval,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
		watched:  make(map[string]struct{}),
	}
}

// Trigger requests an immediate refresh. Requests coalesce while one is pending.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Start launches the refresh loop in a goroutine and returns immediately.
// The loop refreshes on the first tick, trigger or file event, so callers
// run Refresh themselves when they need data before that.
func (p *Poller) Start(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.logger.Warn().Err(err).Msg("file watching disabled")
		watcher = nil
	}
	go p.run(ctx, watcher)
}

func (p *Poller) run(ctx context.Context, watcher *fsnotify.Watcher) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	if watcher != nil {
		defer watcher.Close()
	}

	for {
		p.watch(watcher)
		if !p.wait(ctx, ticker, watcher) {
			return
		}
		p.Refresh(ctx)
	}
}

// wait blocks until the next refresh is due. It returns false once ctx is done.
func (p *Poller) wait(ctx context.Context, ticker *time.Ticker, watcher *fsnotify.Watcher) bool {
	var events <-chan fsnotify.Event
	var errs <-chan error
	if watcher != nil {
		events = watcher.Events
		errs = watcher.Errors
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			return true
		case <-p.trigger:
			return true
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if !relevant(ev) {
				continue
			}
			p.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("log file changed")
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				delete(p.watched, ev.Name)
			}
			return true
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			p.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// Refresh runs one extraction and publishes it to the store. A failed
// extraction keeps the previous records and records the error.
func (p *Poller) Refresh(ctx context.Context) {
	filter := p.store.Filter()
	records, err := p.service.Scan(ctx, filter, 0)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.logger.Warn().Err(err).Str("filter", filter.Label()).Msg("refresh failed")
	}
	p.store.Update(records, p.service.Paths(filter), filter, err)
}

// watch adds every existing candidate file that is not already watched.
func (p *Poller) watch(watcher *fsnotify.Watcher) {
	if watcher == nil {
		return
	}
	for _, path := range p.service.Paths(sources.FilterAll) {
		if _, ok := p.watched[path]; ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := watcher.Add(path); err != nil {
			p.logger.Debug().Err(err).Str("path", path).Msg("watch failed")
			continue
		}
		p.watched[path] = struct{}{}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
