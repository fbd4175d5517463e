package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/wpreport/internal/config"
	"github.com/five82/wpreport/internal/logging"
	"github.com/five82/wpreport/internal/prefs"
	"github.com/five82/wpreport/internal/sources"
	"github.com/five82/wpreport/internal/state"
	"github.com/five82/wpreport/internal/ui"
)

// Options configure the interactive viewer.
type Options struct {
	Config    config.Config
	PrefsPath string // empty uses default ~/.config/wpreport/prefs.toml
	PollEvery int    // seconds; zero uses default
	Filter    sources.Filter
	HasFilter bool // Filter was given on the command line and overrides prefs
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config

	logger, closer, err := logging.File(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn().Err(err).Msg("load prefs")
	}

	filter := opts.Filter
	if !opts.HasFilter {
		if f, err := sources.ParseFilter(userPrefs.LogType); err == nil {
			filter = f
		}
	}

	service := NewService(cfg, logger)
	store := &state.Store{}
	store.SetFilter(filter)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := NewPoller(service, store, interval, logger)

	// Populate the store before the first frame.
	poller.Refresh(ctx)
	poller.Start(ctx)

	logger.Info().Str("filter", filter.Label()).Dur("interval", interval).Msg("viewer started")

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		Refresh:   poller.Trigger,
		ExportDir: cfg.Export.Dir,
		Site:      cfg.WordPress.ABSPath,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}
