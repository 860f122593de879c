package queue

import (
	"context"
	"fmt"
	"time"

	"farming-engine/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
)

// CommissionRetryArgs carries one commission level that failed in-process.
type CommissionRetryArgs struct {
	Entry ports.CommissionEntry `json:"entry"`
}

func (CommissionRetryArgs) Kind() string { return "commission_retry" }

// InsertOpts keeps at most one pending job per entry.
func (CommissionRetryArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueCommissions,
		MaxAttempts: 25,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}
}

// CommissionRetryWorker re-applies a commission entry until it sticks. The
// entry's dedupe key makes repeated attempts safe.
type CommissionRetryWorker struct {
	river.WorkerDefaults[CommissionRetryArgs]
	applier ports.CommissionApplier
	log     zerolog.Logger
}

// NewCommissionRetryWorker creates the worker.
func NewCommissionRetryWorker(applier ports.CommissionApplier, log zerolog.Logger) *CommissionRetryWorker {
	return &CommissionRetryWorker{applier: applier, log: log}
}

func (w *CommissionRetryWorker) Work(ctx context.Context, job *river.Job[CommissionRetryArgs]) error {
	e := job.Args.Entry
	written, err := w.applier.Apply(ctx, e)
	if err != nil {
		w.log.Warn().Err(err).
			Int64("job_id", job.ID).
			Int("attempt", job.Attempt).
			Str("origin_tx_id", e.OriginTransactionID.String()).
			Int64("ancestor_id", e.AncestorID).
			Int("level", e.Level).
			Msg("commission retry failed")
		return fmt.Errorf("apply commission: %w", err)
	}

	w.log.Info().
		Int64("job_id", job.ID).
		Str("origin_tx_id", e.OriginTransactionID.String()).
		Int64("ancestor_id", e.AncestorID).
		Int("level", e.Level).
		Bool("written", written).
		Msg("commission retry applied")
	return nil
}

// jobInserter is the part of *river.Client the queue needs.
type jobInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
	InsertTx(ctx context.Context, tx pgx.Tx, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// RiverQueue implements ports.CommissionQueue and ports.CascadeOutbox.
type RiverQueue struct {
	client      jobInserter
	clock       clockwork.Clock
	settleDelay time.Duration
	log         zerolog.Logger
}

// NewRiverQueue wraps a River client. Settle jobs run settleDelay after the
// reward commits, by which time the in-line cascade has normally finished.
func NewRiverQueue(client jobInserter, clock clockwork.Clock, settleDelay time.Duration, log zerolog.Logger) *RiverQueue {
	return &RiverQueue{client: client, clock: clock, settleDelay: settleDelay, log: log}
}

// Enqueue durably schedules the entry for retry.
func (q *RiverQueue) Enqueue(ctx context.Context, entry ports.CommissionEntry) error {
	res, err := q.client.Insert(ctx, CommissionRetryArgs{Entry: entry}, nil)
	if err != nil {
		return fmt.Errorf("enqueue commission retry: %w", err)
	}
	q.log.Info().
		Int64("job_id", res.Job.ID).
		Bool("duplicate", res.UniqueSkippedAsDuplicate).
		Str("origin_tx_id", entry.OriginTransactionID.String()).
		Int("level", entry.Level).
		Msg("commission handed to retry queue")
	return nil
}
