package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/checkmate/internal/checkmate"
	"github.com/five82/checkmate/internal/state"
)

const (
	defaultPollInterval = 60 * time.Second
	defaultFreshFor     = 30 * time.Second
	defaultProbeTimeout = 10 * time.Second
)

// PollerOptions tune the availability poller. Zero values use the defaults.
type PollerOptions struct {
	Interval time.Duration
	FreshFor time.Duration
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Poller probes backend health on a fixed schedule and records results in a
// state.Store.
type Poller struct {
	checker  checkmate.HealthChecker
	store    *state.Store
	interval time.Duration
	freshFor time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewPoller returns a poller writing into store.
func NewPoller(checker checkmate.HealthChecker, store *state.Store, opts PollerOptions) *Poller {
	p := &Poller{
		checker:  checker,
		store:    store,
		interval: opts.Interval,
		freshFor: opts.FreshFor,
		timeout:  opts.Timeout,
		logger:   opts.Logger,
		now:      time.Now,
	}
	if p.interval <= 0 {
		p.interval = defaultPollInterval
	}
	if p.freshFor <= 0 {
		p.freshFor = defaultFreshFor
	}
	if p.timeout <= 0 {
		p.timeout = defaultProbeTimeout
	}
	if p.timeout > p.interval {
		p.timeout = p.interval
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Interval returns the effective poll interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run probes immediately and then on every interval until ctx is cancelled.
// The store is closed on return so no probe can update it afterwards.
func (p *Poller) Run(ctx context.Context) error {
	defer p.store.Close()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.probe(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Refresh forces a probe and returns the resulting snapshot.
func (p *Poller) Refresh(ctx context.Context) state.Snapshot {
	p.probe(ctx)
	return p.store.Snapshot()
}

// Revalidate probes only when the last successful result is older than the
// freshness window. It reports whether a probe was made.
func (p *Poller) Revalidate(ctx context.Context) bool {
	snap := p.store.Snapshot()
	if snap.Fresh(p.now(), p.freshFor) {
		return false
	}
	p.probe(ctx)
	return true
}

func (p *Poller) probe(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	seq := p.store.Begin()

	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.checker.HealthCheck(probeCtx)
	if err != nil {
		if ctx.Err() != nil {
			// Torn down mid-probe; leave the last result in place.
			return
		}
		if p.store.Apply(seq, nil, err) {
			p.logger.Warn("health probe failed", "seq", seq, "error", checkmate.AsAPIError(err).Detail)
		}
		return
	}
	if p.store.Apply(seq, &resp, nil) {
		p.logger.Debug("health probe ok", "seq", seq, "status", resp.Status)
	}
}
