package service

import (
	"context"
	"fmt"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/metrics"
	"farming-engine/pkg/apperror"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// CommissionLedger writes one commission level per database transaction.
// It backs both the inline cascade and the durable retry worker.
type CommissionLedger struct {
	txRepo      ports.TransactionRepository
	balanceRepo ports.BalanceRepository
	transactor  ports.DBTransactor
	clock       clockwork.Clock
	log         zerolog.Logger
}

// NewCommissionLedger creates a new commission ledger.
func NewCommissionLedger(
	txRepo ports.TransactionRepository,
	balanceRepo ports.BalanceRepository,
	transactor ports.DBTransactor,
	clock clockwork.Clock,
	log zerolog.Logger,
) *CommissionLedger {
	return &CommissionLedger{
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		transactor:  transactor,
		clock:       clock,
		log:         log,
	}
}

// Apply inserts the REFERRAL_COMMISSION row and credits the ancestor. It
// returns false when the level was already written.
func (l *CommissionLedger) Apply(ctx context.Context, entry ports.CommissionEntry) (bool, error) {
	origin := entry.OriginTransactionID
	key := domain.CommissionDedupeKey(origin, entry.AncestorID, entry.Level)

	t, err := domain.NewTransaction(
		entry.AncestorID,
		domain.TransactionKindReferralCommission,
		entry.Currency,
		entry.Amount,
		key,
		domain.TransactionMetadata{
			Source:              "referral",
			OriginTransactionID: &origin,
			RefereeID:           entry.RefereeID,
			Level:               entry.Level,
		},
		l.clock.Now().UTC(),
	)
	if err != nil {
		return false, err
	}

	dbTx, err := l.transactor.Begin(ctx)
	if err != nil {
		return false, apperror.ErrStoreUnavailable(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	inserted, err := l.txRepo.Insert(ctx, dbTx, t)
	if err != nil {
		return false, apperror.ErrStoreUnavailable(fmt.Errorf("insert commission: %w", err))
	}
	if !inserted {
		l.log.Debug().Str("dedupe_key", key).Msg("Commission already recorded")
		metrics.CommissionsTotal.WithLabelValues("duplicate").Inc()
		return false, nil
	}

	if err := l.balanceRepo.Credit(ctx, dbTx, entry.AncestorID, entry.Currency, entry.Amount); err != nil {
		return false, apperror.ErrStoreUnavailable(fmt.Errorf("credit commission: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return false, apperror.ErrStoreUnavailable(fmt.Errorf("commit commission: %w", err))
	}

	metrics.CommissionsTotal.WithLabelValues("written").Inc()
	return true, nil
}
