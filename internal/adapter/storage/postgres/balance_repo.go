package postgres

import (
	"context"
	"errors"
	"fmt"

	"farming-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BalanceRepo implements ports.BalanceRepository over user_balances.
type BalanceRepo struct {
	pool Pool
}

// NewBalanceRepo creates a new BalanceRepo.
func NewBalanceRepo(pool Pool) *BalanceRepo {
	return &BalanceRepo{pool: pool}
}

// Credit adds amount to the user's balance, creating the row on first credit.
func (r *BalanceRepo) Credit(ctx context.Context, tx pgx.Tx, userID int64, currency domain.Currency, amount decimal.Decimal) error {
	query := `INSERT INTO user_balances (user_id, currency, balance, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, currency) DO UPDATE SET
			balance = user_balances.balance + EXCLUDED.balance,
			updated_at = NOW()`

	if _, err := tx.Exec(ctx, query, userID, string(currency), amount.String()); err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	return nil
}

// Get returns the balance, zero if the user never held the currency.
func (r *BalanceRepo) Get(ctx context.Context, userID int64, currency domain.Currency) (decimal.Decimal, error) {
	query := `SELECT balance::text FROM user_balances WHERE user_id = $1 AND currency = $2`

	var balance string
	if err := r.pool.QueryRow(ctx, query, userID, string(currency)).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}

	d, err := decimal.NewFromString(balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance: %w", err)
	}
	return d, nil
}
