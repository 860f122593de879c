package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/metrics"
	"farming-engine/pkg/apperror"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SchedulerConfig bounds one tick batch.
type SchedulerConfig struct {
	TickInterval  time.Duration
	BatchLimit    int
	Workers       int
	BatchDeadline time.Duration
}

func (c *SchedulerConfig) Validate() error {
	if c.TickInterval <= 0 {
		return errors.New("tick interval must be greater than 0")
	}
	if c.BatchLimit <= 0 {
		return errors.New("batch limit must be greater than 0")
	}
	if c.Workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	if c.BatchDeadline <= 0 {
		return errors.New("batch deadline must be greater than 0")
	}
	return nil
}

type positionOutcome int

const (
	outcomeProcessed positionOutcome = iota
	outcomeSkipped
	outcomeFailed
	outcomeDeferred
	outcomeIntegrity
)

var outcomeLabels = map[positionOutcome]string{
	outcomeProcessed: "processed",
	outcomeSkipped:   "skipped",
	outcomeFailed:    "failed",
	outcomeDeferred:  "deferred",
	outcomeIntegrity: "integrity",
}

// TickScheduler selects stale positions and accrues each one in its own
// database transaction. Positions are independent: one failure never
// affects another.
type TickScheduler struct {
	cfg         SchedulerConfig
	positions   ports.PositionRepository
	txRepo      ports.TransactionRepository
	balanceRepo ports.BalanceRepository
	transactor  ports.DBTransactor
	calc        *AccrualCalculator
	cascade     *CommissionCascade
	outbox      ports.CascadeOutbox
	breaker     *StoreBreaker
	clock       clockwork.Clock
	log         zerolog.Logger
}

// NewTickScheduler creates a new tick scheduler. cascade may be nil to
// disable referral commissions.
func NewTickScheduler(
	cfg SchedulerConfig,
	positions ports.PositionRepository,
	txRepo ports.TransactionRepository,
	balanceRepo ports.BalanceRepository,
	transactor ports.DBTransactor,
	calc *AccrualCalculator,
	cascade *CommissionCascade,
	breaker *StoreBreaker,
	clock clockwork.Clock,
	log zerolog.Logger,
) (*TickScheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &TickScheduler{
		cfg:         cfg,
		positions:   positions,
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		transactor:  transactor,
		calc:        calc,
		cascade:     cascade,
		breaker:     breaker,
		clock:       clock,
		log:         log,
	}, nil
}

// WithOutbox records a settle job for every reward in the reward's own
// transaction, so commissions survive a crash or a referral outage that hits
// after the commit.
func (s *TickScheduler) WithOutbox(outbox ports.CascadeOutbox) *TickScheduler {
	s.outbox = outbox
	return s
}

// RunOnce accrues every active position whose cursor is at least one tick
// interval behind now, up to the batch limit. Positions not reached before
// the batch deadline stay stale and are picked up by the next tick.
func (s *TickScheduler) RunOnce(ctx context.Context, now time.Time) (*ports.BatchReport, error) {
	start := s.clock.Now()
	// Cursors are stored with microsecond precision.
	now = now.UTC().Truncate(time.Microsecond)
	cutoff := now.Add(-s.cfg.TickInterval)

	batchCtx, cancel := context.WithTimeout(ctx, s.cfg.BatchDeadline)
	defer cancel()

	var stale []domain.Position
	err := s.breaker.Do(func() error {
		var err error
		stale, err = s.positions.SelectStale(batchCtx, cutoff, s.cfg.BatchLimit)
		if err != nil {
			return apperror.ErrStoreUnavailable(fmt.Errorf("select stale positions: %w", err))
		}
		return nil
	})
	if err != nil {
		metrics.TickRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	report := &ports.BatchReport{Selected: len(stale)}
	var mu sync.Mutex
	record := func(out positionOutcome, cascade CascadeResult) {
		mu.Lock()
		defer mu.Unlock()
		switch out {
		case outcomeProcessed:
			report.Processed++
		case outcomeSkipped:
			report.Skipped++
		case outcomeFailed:
			report.Failed++
		case outcomeDeferred:
			report.Deferred++
		case outcomeIntegrity:
			report.IntegritySkipped++
		}
		report.CommissionsWritten += cascade.Written
		report.CommissionsFailed += cascade.Failed
		metrics.PositionsTotal.WithLabelValues(outcomeLabels[out]).Inc()
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i := range stale {
		p := stale[i]
		if batchCtx.Err() != nil || s.breaker.Open() {
			record(outcomeDeferred, CascadeResult{})
			continue
		}
		g.Go(func() error {
			out, cascade := s.processPosition(batchCtx, p, now)
			record(out, cascade)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = s.clock.Since(start)
	metrics.TickRunsTotal.WithLabelValues("ok").Inc()
	metrics.TickDuration.Observe(report.Duration.Seconds())

	s.log.Info().
		Time("now", now).
		Int("selected", report.Selected).
		Int("processed", report.Processed).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("deferred", report.Deferred).
		Int("integrity_skipped", report.IntegritySkipped).
		Int("commissions_written", report.CommissionsWritten).
		Int("commissions_failed", report.CommissionsFailed).
		Dur("duration", report.Duration).
		Msg("Tick batch finished")

	return report, nil
}

func (s *TickScheduler) processPosition(ctx context.Context, p domain.Position, now time.Time) (positionOutcome, CascadeResult) {
	if ctx.Err() != nil {
		return outcomeDeferred, CascadeResult{}
	}

	if err := p.Validate(); err != nil {
		s.log.Warn().Err(err).
			Int64("position_id", p.ID).
			Int64("user_id", p.UserID).
			Str("currency", p.Currency.String()).
			Msg("Position skipped, run reconciliation")
		metrics.IntegrityWarningsTotal.WithLabelValues("basis").Inc()
		return outcomeIntegrity, CascadeResult{}
	}

	acc := s.calc.ComputeYield(p, now)
	if !acc.To.After(acc.From) {
		return outcomeSkipped, CascadeResult{}
	}

	var reward *domain.Transaction
	err := s.breaker.Do(func() error {
		var err error
		reward, err = s.accrue(ctx, p, acc)
		return err
	})
	switch {
	case err == nil:
	case apperror.HasCode(err, "CONC_001"):
		s.log.Debug().Int64("position_id", p.ID).Msg("Position already accrued by another runner")
		return outcomeSkipped, CascadeResult{}
	case apperror.HasCode(err, "STORE_002"), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return outcomeDeferred, CascadeResult{}
	default:
		s.log.Error().Err(err).
			Int64("position_id", p.ID).
			Int64("user_id", p.UserID).
			Msg("Accrual failed, position left unchanged")
		return outcomeFailed, CascadeResult{}
	}

	if reward == nil {
		return outcomeProcessed, CascadeResult{}
	}
	metrics.YieldCreditedTotal.WithLabelValues(reward.Currency.String()).Add(reward.Amount.InexactFloat64())
	if s.cascade == nil {
		return outcomeProcessed, CascadeResult{}
	}

	// The reward is committed; its commissions must not be cut off by the
	// batch deadline.
	return outcomeProcessed, s.cascade.Run(context.WithoutCancel(ctx), reward)
}

// accrue advances the cursor and, when the accrual is above dust, writes
// the YIELD_REWARD row and credits the balance, all in one transaction.
func (s *TickScheduler) accrue(ctx context.Context, p domain.Position, acc domain.Accrual) (*domain.Transaction, error) {
	var reward *domain.Transaction
	if acc.Writes() {
		from, to := acc.From, acc.To
		t, err := domain.NewTransaction(
			p.UserID,
			domain.TransactionKindYieldReward,
			p.Currency,
			acc.Amount,
			domain.YieldDedupeKey(p.UserID, p.Currency, from, to),
			domain.TransactionMetadata{
				Source:      "farming",
				PeriodStart: &from,
				PeriodEnd:   &to,
			},
			to,
		)
		if err != nil {
			return nil, err
		}
		reward = t
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	advanced, err := s.positions.AdvanceCursor(ctx, dbTx, p, acc.To, acc.Amount)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("advance cursor: %w", err))
	}
	if !advanced {
		return nil, apperror.ErrConcurrencyConflict("cursor moved")
	}

	if reward != nil {
		inserted, err := s.txRepo.Insert(ctx, dbTx, reward)
		if err != nil {
			return nil, apperror.ErrStoreUnavailable(fmt.Errorf("insert yield reward: %w", err))
		}
		if !inserted {
			return nil, apperror.ErrConcurrencyConflict("yield already recorded")
		}
		if err := s.balanceRepo.Credit(ctx, dbTx, p.UserID, p.Currency, reward.Amount); err != nil {
			return nil, apperror.ErrStoreUnavailable(fmt.Errorf("credit yield: %w", err))
		}
		if s.outbox != nil && s.cascade != nil {
			if err := s.outbox.ScheduleTx(ctx, dbTx, ports.NewCascadeRequest(reward)); err != nil {
				return nil, apperror.ErrStoreUnavailable(fmt.Errorf("schedule commission cascade: %w", err))
			}
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("commit accrual: %w", err))
	}
	return reward, nil
}
