package service

import (
	"context"
	"fmt"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReconcileService rebuilds a position's basis from its ledger history.
type ReconcileService struct {
	positions  ports.PositionRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewReconcileService creates a new reconcile service.
func NewReconcileService(
	positions ports.PositionRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *ReconcileService {
	return &ReconcileService{
		positions:  positions,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// RecomputeBasisFromLedger sets the basis to confirmed deposits minus
// confirmed withdrawals. The cursor and accrued total are left alone. A
// position whose principal is gone is deactivated; reconciliation never
// reactivates one.
func (s *ReconcileService) RecomputeBasisFromLedger(ctx context.Context, userID int64, currency string) (*ports.ReconcileResult, error) {
	if userID <= 0 {
		return nil, apperror.ErrInvalidUserID()
	}
	cur, err := domain.ParseCurrency(currency)
	if err != nil {
		return nil, err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	position, err := s.positions.GetForUpdate(ctx, dbTx, userID, cur)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("lock position: %w", err))
	}
	if position == nil {
		return nil, apperror.ErrNotFound("position")
	}

	totals, err := s.txRepo.PrincipalTotals(ctx, dbTx, userID, cur)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("sum principal: %w", err))
	}
	basis := totals.Net()
	if basis.IsNegative() {
		return nil, apperror.ErrDataIntegrity(fmt.Sprintf("withdrawals exceed deposits by %s %s", basis.Neg(), cur))
	}

	result := &ports.ReconcileResult{
		UserID:     userID,
		Currency:   cur,
		PositionID: position.ID,
		Basis:      basis,
		Active:     position.Active && basis.IsPositive(),
	}
	if !position.BasisMissing {
		prev := position.DepositBasis.String()
		result.PreviousBasis = &prev
	}
	result.Changed = position.BasisMissing ||
		!position.DepositBasis.Equal(basis) ||
		result.Active != position.Active

	if !result.Changed {
		return result, nil
	}

	if err := s.positions.SetBasis(ctx, dbTx, position.ID, basis, result.Active); err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("set basis: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("commit reconcile: %w", err))
	}

	event := s.log.Info().
		Int64("position_id", position.ID).
		Int64("user_id", userID).
		Str("currency", cur.String()).
		Str("basis", basis.String()).
		Bool("active", result.Active)
	if result.PreviousBasis != nil {
		event = event.Str("previous_basis", *result.PreviousBasis)
	}
	event.Msg("Position basis reconciled")

	return result, nil
}
