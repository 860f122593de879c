package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"farming-engine/internal/core/ports"
	"farming-engine/internal/metrics"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// RunnerConfig configures the periodic tick loop.
type RunnerConfig struct {
	Interval time.Duration
	Clock    clockwork.Clock
	// Holder identifies this instance in the tick lease.
	Holder string
	// LeaseTTL defaults to Interval.
	LeaseTTL time.Duration
}

func (c *RunnerConfig) Validate() error {
	if c.Interval <= 0 {
		return errors.New("interval must be greater than 0")
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Holder == "" {
		host, _ := os.Hostname()
		c.Holder = fmt.Sprintf("%s-%d", host, os.Getpid())
	}
	if c.LeaseTTL <= 0 {
		c.LeaseTTL = c.Interval
	}
	return nil
}

// TickRunner drives a BatchRunner on a fixed interval. With a lease, only
// one instance runs a given tick window; without one, concurrent instances
// are still safe because every position write is compare-and-swap guarded.
type TickRunner struct {
	cfg   RunnerConfig
	batch ports.BatchRunner
	lease ports.TickLease
	log   zerolog.Logger

	mu   sync.Mutex
	done chan struct{}
}

// NewTickRunner creates a tick runner. lease may be nil.
func NewTickRunner(cfg RunnerConfig, batch ports.BatchRunner, lease ports.TickLease, log zerolog.Logger) (*TickRunner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TickRunner{
		cfg:   cfg,
		batch: batch,
		lease: lease,
		log:   log,
		done:  make(chan struct{}),
	}, nil
}

// Start runs a tick immediately, then one per interval until ctx is done.
func (r *TickRunner) Start(ctx context.Context) {
	go func() {
		defer close(r.done)
		r.log.Info().Dur("interval", r.cfg.Interval).Str("holder", r.cfg.Holder).Msg("Tick loop started")

		r.safeTick(ctx)

		ticker := r.cfg.Clock.NewTicker(r.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				r.log.Info().Msg("Tick loop stopped")
				return
			case <-ticker.Chan():
				r.safeTick(ctx)
			}
		}
	}()
}

// Done is closed once the loop started by Start has returned.
func (r *TickRunner) Done() <-chan struct{} {
	return r.done
}

// Trigger runs one batch now, bypassing the lease. Used by operators.
func (r *TickRunner) Trigger(ctx context.Context) (*ports.BatchReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batch.RunOnce(ctx, r.cfg.Clock.Now())
}

func (r *TickRunner) safeTick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("Tick panicked")
			metrics.TickRunsTotal.WithLabelValues("panic").Inc()
		}
	}()

	if _, err := r.tick(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.log.Error().Err(err).Msg("Tick failed")
	}
}

func (r *TickRunner) tick(ctx context.Context) (*ports.BatchReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.cfg.Clock.Now()
	window := strconv.FormatInt(now.Truncate(r.cfg.Interval).Unix(), 10)

	if r.lease != nil {
		acquired, err := r.lease.Acquire(ctx, window, r.cfg.Holder, r.cfg.LeaseTTL)
		switch {
		case err != nil:
			// Exclusion is an optimization only.
			r.log.Warn().Err(err).Str("window", window).Msg("Tick lease unavailable, running without it")
		case !acquired:
			r.log.Debug().Str("window", window).Msg("Tick window held by another instance")
			metrics.TickRunsTotal.WithLabelValues("lease_held").Inc()
			return nil, nil
		}
	}

	report, err := r.batch.RunOnce(ctx, now)
	if err != nil && r.lease != nil {
		// Let another instance retry this window.
		if relErr := r.lease.Release(context.WithoutCancel(ctx), window, r.cfg.Holder); relErr != nil {
			r.log.Warn().Err(relErr).Str("window", window).Msg("Tick lease release failed")
		}
	}
	return report, err
}
