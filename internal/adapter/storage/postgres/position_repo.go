package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farming-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const positionColumns = `id, user_id, currency, deposit_basis::text, daily_rate::text,
		last_accrual_at, total_accrued::text, active, created_at, updated_at,
		accrual_carry::text, carry_until`

// PositionRepo implements ports.PositionRepository.
type PositionRepo struct {
	pool Pool
}

// NewPositionRepo creates a new PositionRepo.
func NewPositionRepo(pool Pool) *PositionRepo {
	return &PositionRepo{pool: pool}
}

// SelectStale returns active positions whose cursor is at or before cutoff.
func (r *PositionRepo) SelectStale(ctx context.Context, cutoff time.Time, limit int) ([]domain.Position, error) {
	query := `SELECT ` + positionColumns + `
		FROM positions
		WHERE active AND last_accrual_at <= $1
		ORDER BY id
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("select stale positions: %w", err)
	}
	defer rows.Close()

	return collectPositions(rows)
}

// AdvanceCursor compare-and-swaps the cursor inside tx and clears the
// carry it consumed. A deposit that moved carry_until after p was read makes
// the swap miss, like a moved cursor does.
func (r *PositionRepo) AdvanceCursor(ctx context.Context, tx pgx.Tx, p domain.Position, next time.Time, accrued decimal.Decimal) (bool, error) {
	query := `UPDATE positions
		SET last_accrual_at = $1, total_accrued = total_accrued + $2,
			accrual_carry = 0, carry_until = NULL, updated_at = NOW()
		WHERE id = $3 AND last_accrual_at = $4 AND carry_until IS NOT DISTINCT FROM $5 AND active`

	tag, err := tx.Exec(ctx, query, next, accrued.String(), p.ID, p.LastAccrualAt, p.CarryUntil)
	if err != nil {
		return false, fmt.Errorf("advance cursor: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ApplyDeposit inserts open, or adds its basis to the existing position.
//
// On an active position the old basis has been earning since
// max(cursor, carry_until); that stretch moves into accrual_carry so the
// larger basis only counts from the deposit on. A reactivated position
// restarts its cursor at the deposit. A NULL basis stays NULL so the row
// remains flagged for reconciliation.
func (r *PositionRepo) ApplyDeposit(ctx context.Context, tx pgx.Tx, open *domain.Position) (*domain.Position, error) {
	query := `INSERT INTO positions (user_id, currency, deposit_basis, daily_rate, last_accrual_at,
			total_accrued, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, TRUE, $5, $5)
		ON CONFLICT (user_id, currency) DO UPDATE SET
			accrual_carry = CASE
				WHEN NOT positions.active THEN 0
				WHEN positions.deposit_basis IS NULL
					OR EXCLUDED.created_at <= COALESCE(positions.carry_until, positions.last_accrual_at)
					THEN positions.accrual_carry
				ELSE positions.accrual_carry + positions.deposit_basis *
					EXTRACT(EPOCH FROM EXCLUDED.created_at - COALESCE(positions.carry_until, positions.last_accrual_at)) * 1000000
			END,
			carry_until = CASE
				WHEN NOT positions.active THEN NULL
				WHEN positions.deposit_basis IS NULL
					OR EXCLUDED.created_at <= COALESCE(positions.carry_until, positions.last_accrual_at)
					THEN positions.carry_until
				ELSE EXCLUDED.created_at
			END,
			deposit_basis = positions.deposit_basis + EXCLUDED.deposit_basis,
			last_accrual_at = CASE WHEN positions.active THEN positions.last_accrual_at ELSE EXCLUDED.last_accrual_at END,
			active = TRUE,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + positionColumns

	p, err := scanPosition(tx.QueryRow(ctx, query,
		open.UserID, string(open.Currency), open.DepositBasis.String(), open.DailyRate.String(), open.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("apply deposit to position: %w", err)
	}
	return p, nil
}

// GetForUpdate locks the position row. Returns nil, nil if absent.
func (r *PositionRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64, currency domain.Currency) (*domain.Position, error) {
	query := `SELECT ` + positionColumns + `
		FROM positions WHERE user_id = $1 AND currency = $2 FOR UPDATE`

	p, err := scanPosition(tx.QueryRow(ctx, query, userID, string(currency)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get position for update: %w", err)
	}
	return p, nil
}

// SetBasis overwrites the basis and active flag. Only reconciliation calls it.
func (r *PositionRepo) SetBasis(ctx context.Context, tx pgx.Tx, positionID int64, basis decimal.Decimal, active bool) error {
	query := `UPDATE positions SET deposit_basis = $1, active = $2, updated_at = NOW() WHERE id = $3`

	tag, err := tx.Exec(ctx, query, basis.String(), active, positionID)
	if err != nil {
		return fmt.Errorf("set position basis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("position not found: %d", positionID)
	}
	return nil
}

// Deactivate opts a position out of farming. Reports false if there was no
// active position.
func (r *PositionRepo) Deactivate(ctx context.Context, userID int64, currency domain.Currency) (bool, error) {
	query := `UPDATE positions SET active = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND currency = $2 AND active`

	tag, err := r.pool.Exec(ctx, query, userID, string(currency))
	if err != nil {
		return false, fmt.Errorf("deactivate position: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByUser returns all positions of a user ordered by currency.
func (r *PositionRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE user_id = $1 ORDER BY currency`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	return collectPositions(rows)
}

func collectPositions(rows pgx.Rows) ([]domain.Position, error) {
	var positions []domain.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}
	return positions, nil
}

// scanPosition reads one row. NUMERIC columns arrive as text and are parsed
// into decimals; a NULL basis sets BasisMissing.
func scanPosition(row pgx.Row) (*domain.Position, error) {
	var (
		p        domain.Position
		currency string
		basis    *string
		rate     string
		accrued  string
		carry    string
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &currency, &basis, &rate,
		&p.LastAccrualAt, &accrued, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		&carry, &p.CarryUntil,
	); err != nil {
		return nil, err
	}

	var err error
	p.Currency = domain.Currency(currency)
	if basis == nil {
		p.BasisMissing = true
	} else if p.DepositBasis, err = decimal.NewFromString(*basis); err != nil {
		return nil, fmt.Errorf("parse deposit_basis: %w", err)
	}
	if p.DailyRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("parse daily_rate: %w", err)
	}
	if p.TotalAccrued, err = decimal.NewFromString(accrued); err != nil {
		return nil, fmt.Errorf("parse total_accrued: %w", err)
	}
	if p.AccrualCarry, err = decimal.NewFromString(carry); err != nil {
		return nil, fmt.Errorf("parse accrual_carry: %w", err)
	}
	return &p, nil
}
