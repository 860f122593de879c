package queue

import (
	"context"
	"fmt"

	"farming-engine/internal/core/ports"
	"farming-engine/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
)

// CommissionSettleArgs is the outbox record of a committed reward. It is
// inserted in the reward's transaction, so it exists exactly when the reward
// does.
type CommissionSettleArgs struct {
	Reward ports.CascadeRequest `json:"reward"`
}

func (CommissionSettleArgs) Kind() string { return "commission_settle" }

func (CommissionSettleArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueCommissions,
		MaxAttempts: 25,
	}
}

// CommissionSettleWorker writes the levels of a reward that the in-line
// cascade missed. Most jobs find every level written and do nothing.
type CommissionSettleWorker struct {
	river.WorkerDefaults[CommissionSettleArgs]
	settler ports.CommissionSettler
	log     zerolog.Logger
}

// NewCommissionSettleWorker creates the worker.
func NewCommissionSettleWorker(settler ports.CommissionSettler, log zerolog.Logger) *CommissionSettleWorker {
	return &CommissionSettleWorker{settler: settler, log: log}
}

func (w *CommissionSettleWorker) Work(ctx context.Context, job *river.Job[CommissionSettleArgs]) error {
	r := job.Args.Reward
	written, err := w.settler.Settle(ctx, r)
	if err != nil {
		w.log.Warn().Err(err).
			Int64("job_id", job.ID).
			Int("attempt", job.Attempt).
			Str("origin_tx_id", r.OriginTransactionID.String()).
			Int("written", written).
			Msg("commission settle failed")
		if !apperror.IsTransient(err) {
			return river.JobCancel(err)
		}
		return fmt.Errorf("settle commissions: %w", err)
	}

	if written > 0 {
		w.log.Info().
			Int64("job_id", job.ID).
			Str("origin_tx_id", r.OriginTransactionID.String()).
			Int("written", written).
			Msg("commissions settled after the in-line cascade")
	}
	return nil
}

// ScheduleTx inserts the settle job inside tx. It becomes visible to workers
// only when tx commits and runs once the settle delay has passed.
func (q *RiverQueue) ScheduleTx(ctx context.Context, tx pgx.Tx, req ports.CascadeRequest) error {
	opts := &river.InsertOpts{ScheduledAt: q.clock.Now().Add(q.settleDelay)}
	if _, err := q.client.InsertTx(ctx, tx, CommissionSettleArgs{Reward: req}, opts); err != nil {
		return fmt.Errorf("schedule commission settle: %w", err)
	}
	return nil
}
