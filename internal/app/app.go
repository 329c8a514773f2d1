package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/checkmate/internal/checkmate"
	"github.com/five82/checkmate/internal/config"
	"github.com/five82/checkmate/internal/feed"
	"github.com/five82/checkmate/internal/logging"
	"github.com/five82/checkmate/internal/prefs"
	"github.com/five82/checkmate/internal/state"
	"github.com/five82/checkmate/internal/submission"
	"github.com/five82/checkmate/internal/ui"
)

// Options configure the CheckMate application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/checkmate/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
	FeedURL    string // overrides feed_url and shows the feed list
}

// runtime holds the pieces shared by the TUI and the one-shot modes.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	client *checkmate.Client
	closer io.Closer
}

func open(opts Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if opts.FeedURL != "" {
		cfg.FeedURL = opts.FeedURL
	}

	rt := &runtime{cfg: cfg, logger: logging.Discard()}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		rt.closer = f
		rt.logger = logging.New(f, cfg.LogLevel)
	}

	client, err := checkmate.NewClient(cfg.APIURL)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("init checkmate client: %w", err)
	}
	rt.client = client
	return rt, nil
}

func (rt *runtime) close() {
	if rt.closer != nil {
		_ = rt.closer.Close()
	}
}

func (rt *runtime) controller() *submission.Controller {
	return submission.New(rt.client,
		submission.WithAttemptTimeout(rt.cfg.AttemptTimeout),
		submission.WithLogger(rt.logger.With("component", "submission")))
}

func (rt *runtime) poller(store *state.Store) *Poller {
	return NewPoller(rt.client, store, PollerOptions{
		Interval: rt.cfg.PollInterval,
		FreshFor: rt.cfg.FreshFor,
		Timeout:  rt.cfg.ProbeTimeout,
		Logger:   rt.logger.With("component", "poller"),
	})
}

// Run boots the CheckMate TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := open(opts)
	if err != nil {
		return err
	}
	defer rt.close()
	logging.Install(rt.logger)

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		rt.logger.Warn("using default preferences", "error", err)
	}

	ctrl := rt.controller()
	defer ctrl.Close()

	store := &state.Store{}
	poller := rt.poller(store)

	rt.logger.Info("checkmate starting",
		"api_url", rt.client.BaseURL(),
		"poll_interval", poller.Interval().String(),
		"feed_url", rt.cfg.FeedURL)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return poller.Run(gctx)
	})
	g.Go(func() error {
		// Quitting the UI tears down the poller.
		defer cancel()
		return ui.Run(ui.Options{
			Context:    gctx,
			Controller: ctrl,
			Health:     poller,
			Store:      store,
			Feed:       feed.NewFetcher(nil),
			FeedURL:    rt.cfg.FeedURL,
			FeedLimit:  rt.cfg.FeedLimit,
			LogPath:    rt.cfg.LogFile,
			APIURL:     rt.client.BaseURL(),
			ThemeName:  userPrefs.Theme,
			ShowFeed:   userPrefs.ShowFeed || opts.FeedURL != "",
			PrefsPath:  prefsPath,
		})
	})

	err = g.Wait()
	rt.logger.Info("checkmate stopped")
	return err
}

// Check submits one headline and waits for its outcome. A validation failure
// is returned as a *headline.ValidationError without touching the network.
func Check(ctx context.Context, opts Options, text string) (submission.State, error) {
	rt, err := open(opts)
	if err != nil {
		return submission.State{}, err
	}
	defer rt.close()

	ctrl := rt.controller()
	defer ctrl.Close()
	return ctrl.Submit(ctx, text)
}

// Health runs a single availability probe.
func Health(ctx context.Context, opts Options) (state.Snapshot, error) {
	rt, err := open(opts)
	if err != nil {
		return state.Snapshot{}, err
	}
	defer rt.close()

	store := &state.Store{}
	defer store.Close()
	return rt.poller(store).Refresh(ctx), nil
}
