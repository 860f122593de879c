package service

import (
	"context"
	"fmt"
	"time"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/metrics"
	"farming-engine/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// CascadeResult counts what a cascade did for one yield reward.
type CascadeResult struct {
	Written int
	Failed  int
}

// CommissionCascade pays the referral chain of a committed yield reward.
// Each level is its own unit of work: a failed level never undoes the
// reward or the levels already written.
type CommissionCascade struct {
	graph    ports.ReferralGraph
	schedule *CommissionSchedule
	applier  ports.CommissionApplier
	queue    ports.CommissionQueue // optional durable fallback
	backoff  func() retry.Backoff
	log      zerolog.Logger
}

// NewCommissionCascade creates a cascade. queue may be nil, in which case
// levels that exhaust their retries are only logged.
func NewCommissionCascade(
	graph ports.ReferralGraph,
	schedule *CommissionSchedule,
	applier ports.CommissionApplier,
	queue ports.CommissionQueue,
	log zerolog.Logger,
) *CommissionCascade {
	return &CommissionCascade{
		graph:    graph,
		schedule: schedule,
		applier:  applier,
		queue:    queue,
		backoff:  DefaultCommissionBackoff,
		log:      log,
	}
}

// DefaultCommissionBackoff retries a level three times, 100ms apart and
// doubling.
func DefaultCommissionBackoff() retry.Backoff {
	return retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
}

// WithBackoff replaces the per-level retry policy. Backoffs are stateful, so
// a fresh one is built for every retried call.
func (c *CommissionCascade) WithBackoff(fn func() retry.Backoff) *CommissionCascade {
	c.backoff = fn
	return c
}

// WithQueue sets the durable fallback after construction, for wiring where
// the queue's workers need the cascade first.
func (c *CommissionCascade) WithQueue(queue ports.CommissionQueue) *CommissionCascade {
	c.queue = queue
	return c
}

// Run resolves the referee's chain and writes one commission per payable
// level.
func (c *CommissionCascade) Run(ctx context.Context, reward *domain.Transaction) CascadeResult {
	var res CascadeResult
	req := ports.NewCascadeRequest(reward)

	var chain []int64
	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		var err error
		chain, err = c.graph.ResolveChain(ctx, req.UserID)
		return retryable(err)
	})
	if err != nil {
		c.log.Error().Err(err).
			Str("origin_transaction_id", req.OriginTransactionID.String()).
			Int64("user_id", req.UserID).
			Msg("Referral chain unavailable, commissions pending settlement")
		metrics.CommissionsTotal.WithLabelValues("failed").Inc()
		res.Failed++
		return res
	}

	for _, entry := range c.entries(req, chain) {
		var written bool
		err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
			var err error
			written, err = c.applier.Apply(ctx, entry)
			return retryable(err)
		})
		if err != nil {
			res.Failed++
			c.handOff(ctx, entry, err)
			continue
		}
		if written {
			res.Written++
		}
	}
	return res
}

// Settle writes every level still owed for req and returns how many rows it
// wrote. It stops at the first error so the caller can retry the whole
// request; levels written by an earlier attempt are skipped by their dedupe
// keys.
func (c *CommissionCascade) Settle(ctx context.Context, req ports.CascadeRequest) (int, error) {
	chain, err := c.graph.ResolveChain(ctx, req.UserID)
	if err != nil {
		return 0, fmt.Errorf("resolve referral chain: %w", err)
	}

	written := 0
	for _, entry := range c.entries(req, chain) {
		ok, err := c.applier.Apply(ctx, entry)
		if err != nil {
			return written, fmt.Errorf("apply commission level %d: %w", entry.Level, err)
		}
		if ok {
			written++
		}
	}
	return written, nil
}

func (c *CommissionCascade) entries(req ports.CascadeRequest, chain []int64) []ports.CommissionEntry {
	shares := c.schedule.Distribute(req.Amount, req.Currency, chain)
	entries := make([]ports.CommissionEntry, 0, len(shares))
	for _, share := range shares {
		entries = append(entries, ports.CommissionEntry{
			OriginTransactionID: req.OriginTransactionID,
			RefereeID:           req.UserID,
			AncestorID:          share.AncestorID,
			Level:               share.Level,
			Currency:            req.Currency,
			Amount:              share.Amount,
		})
	}
	return entries
}

func (c *CommissionCascade) handOff(ctx context.Context, entry ports.CommissionEntry, cause error) {
	logEvent := func() *zerolog.Event {
		return c.log.Error().
			Str("origin_transaction_id", entry.OriginTransactionID.String()).
			Int64("ancestor_id", entry.AncestorID).
			Int("level", entry.Level).
			Str("amount", entry.Amount.String())
	}

	if c.queue == nil {
		logEvent().Err(cause).Msg("Commission failed, left for reconciliation")
		metrics.CommissionsTotal.WithLabelValues("failed").Inc()
		return
	}
	if err := c.queue.Enqueue(ctx, entry); err != nil {
		logEvent().Err(err).AnErr("cause", cause).Msg("Commission failed and could not be queued, left for reconciliation")
		metrics.CommissionsTotal.WithLabelValues("failed").Inc()
		return
	}
	c.log.Warn().Err(cause).
		Str("origin_transaction_id", entry.OriginTransactionID.String()).
		Int("level", entry.Level).
		Msg("Commission queued for durable retry")
	metrics.CommissionsTotal.WithLabelValues("queued").Inc()
}

// retryable marks transient errors for go-retry; anything else stops the
// retry loop at once.
func retryable(err error) error {
	if apperror.IsTransient(err) {
		return retry.RetryableError(err)
	}
	return err
}
