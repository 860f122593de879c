package service

import (
	"context"
	"fmt"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// PositionService is the read side for reporting, plus opt-out.
type PositionService struct {
	positions   ports.PositionRepository
	txRepo      ports.TransactionRepository
	balanceRepo ports.BalanceRepository
	log         zerolog.Logger
}

func NewPositionService(
	positions ports.PositionRepository,
	txRepo ports.TransactionRepository,
	balanceRepo ports.BalanceRepository,
	log zerolog.Logger,
) *PositionService {
	return &PositionService{
		positions:   positions,
		txRepo:      txRepo,
		balanceRepo: balanceRepo,
		log:         log,
	}
}

func (s *PositionService) ListPositions(ctx context.Context, userID int64) ([]domain.Position, error) {
	if userID <= 0 {
		return nil, apperror.ErrInvalidUserID()
	}
	positions, err := s.positions.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("list positions: %w", err))
	}
	return positions, nil
}

func (s *PositionService) Balance(ctx context.Context, userID int64, currency string) (decimal.Decimal, error) {
	if userID <= 0 {
		return decimal.Zero, apperror.ErrInvalidUserID()
	}
	cur, err := domain.ParseCurrency(currency)
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := s.balanceRepo.Get(ctx, userID, cur)
	if err != nil {
		return decimal.Zero, apperror.ErrStoreUnavailable(fmt.Errorf("get balance: %w", err))
	}
	return balance, nil
}

// History returns the user's ledger entries, newest first.
func (s *PositionService) History(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	if userID <= 0 {
		return nil, apperror.ErrInvalidUserID()
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	txns, err := s.txRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// OptOut stops accrual for a position. Yield already credited stays; a
// later deposit reopens the position from the deposit time.
func (s *PositionService) OptOut(ctx context.Context, userID int64, currency string) error {
	if userID <= 0 {
		return apperror.ErrInvalidUserID()
	}
	cur, err := domain.ParseCurrency(currency)
	if err != nil {
		return err
	}
	ok, err := s.positions.Deactivate(ctx, userID, cur)
	if err != nil {
		return apperror.ErrStoreUnavailable(fmt.Errorf("deactivate position: %w", err))
	}
	if !ok {
		return apperror.ErrNotFound("active position")
	}
	s.log.Info().Int64("user_id", userID).Str("currency", cur.String()).Msg("Position opted out")
	return nil
}

func (s *PositionService) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return txn, nil
}
