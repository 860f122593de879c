package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

import (
	"context"
	"time"

	"farming-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PositionRepository defines persistence operations for farming positions.
// Methods accepting pgx.Tx are used inside the per-position atomic unit.
type PositionRepository interface {
	// SelectStale returns active positions whose cursor is at or before cutoff,
	// ordered by id. Rows with a NULL or negative basis are returned too so the
	// caller can report them.
	SelectStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.Position, error)
	// AdvanceCursor moves the cursor of p to next, adds accrued to the running
	// total and clears the carry. It reports false when the stored cursor or
	// carry_until no longer match p or the position was deactivated.
	AdvanceCursor(ctx context.Context, tx pgx.Tx, p domain.Position, next time.Time, accrued decimal.Decimal) (bool, error)
	// ApplyDeposit creates open or adds its basis to the stored position. A
	// created or re-activated position starts its cursor at open.CreatedAt;
	// an active one carries the yield earned at its old basis up to then.
	ApplyDeposit(ctx context.Context, tx pgx.Tx, open *domain.Position) (*domain.Position, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64, currency domain.Currency) (*domain.Position, error)
	SetBasis(ctx context.Context, tx pgx.Tx, positionID int64, basis decimal.Decimal, active bool) error
	Deactivate(ctx context.Context, userID int64, currency domain.Currency) (bool, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Position, error)
}

// TransactionRepository defines persistence operations for ledger rows.
type TransactionRepository interface {
	// Insert writes the row unless its dedupe key is already taken, in which
	// case it reports false and writes nothing.
	Insert(ctx context.Context, tx pgx.Tx, t *domain.Transaction) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByDedupeKey(ctx context.Context, key string) (*domain.Transaction, error)
	// PrincipalTotals sums DEPOSIT and WITHDRAWAL rows for one user and currency.
	PrincipalTotals(ctx context.Context, tx pgx.Tx, userID int64, currency domain.Currency) (*PrincipalTotals, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
}

// PrincipalTotals is the ledger view of a position's principal.
type PrincipalTotals struct {
	Deposits    decimal.Decimal
	Withdrawals decimal.Decimal
}

// Net returns deposits minus withdrawals.
func (p PrincipalTotals) Net() decimal.Decimal {
	return p.Deposits.Sub(p.Withdrawals)
}

// BalanceRepository defines persistence for spendable per-currency balances.
type BalanceRepository interface {
	Credit(ctx context.Context, tx pgx.Tx, userID int64, currency domain.Currency, amount decimal.Decimal) error
	Get(ctx context.Context, userID int64, currency domain.Currency) (decimal.Decimal, error)
}

// ReferralRepository defines persistence for level-1 referral edges.
type ReferralRepository interface {
	// GetReferrer returns the direct referrer of userID, or nil if none.
	GetReferrer(ctx context.Context, userID int64) (*int64, error)
	// Create stores an edge. It reports false if the user already has a referrer.
	Create(ctx context.Context, edge *domain.ReferralEdge) (bool, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
