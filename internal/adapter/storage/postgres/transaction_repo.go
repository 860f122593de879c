package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, user_id, kind, currency, amount::text, status, dedupe_key, metadata, created_at`

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Insert writes a ledger row within a database transaction. A taken dedupe
// key is not an error: the row is skipped and Insert reports false.
func (r *TransactionRepo) Insert(ctx context.Context, tx pgx.Tx, t *domain.Transaction) (bool, error) {
	meta, err := json.Marshal(t.Metadata)
	if err != nil {
		return false, fmt.Errorf("marshal transaction metadata: %w", err)
	}

	query := `INSERT INTO transactions (id, user_id, kind, currency, amount, status, dedupe_key, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (dedupe_key) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		t.ID, t.UserID, string(t.Kind), string(t.Currency), t.Amount.String(),
		string(t.Status), t.DedupeKey, meta, t.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert transaction: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByDedupeKey fetches the transaction holding a dedupe key.
func (r *TransactionRepo) GetByDedupeKey(ctx context.Context, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE dedupe_key = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, key))
}

// PrincipalTotals sums confirmed deposits and withdrawals inside tx.
func (r *TransactionRepo) PrincipalTotals(ctx context.Context, tx pgx.Tx, userID int64, currency domain.Currency) (*ports.PrincipalTotals, error) {
	query := `SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind = 'DEPOSIT'), 0)::text,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'WITHDRAWAL'), 0)::text
		FROM transactions
		WHERE user_id = $1 AND currency = $2 AND status = 'CONFIRMED'`

	var depositsStr, withdrawalsStr string
	if err := tx.QueryRow(ctx, query, userID, string(currency)).Scan(&depositsStr, &withdrawalsStr); err != nil {
		return nil, fmt.Errorf("sum principal: %w", err)
	}

	deposits, err := decimal.NewFromString(depositsStr)
	if err != nil {
		return nil, fmt.Errorf("parse deposit total: %w", err)
	}
	withdrawals, err := decimal.NewFromString(withdrawalsStr)
	if err != nil {
		return nil, fmt.Errorf("parse withdrawal total: %w", err)
	}
	return &ports.PrincipalTotals{Deposits: deposits, Withdrawals: withdrawals}, nil
}

// ListByUser returns the most recent transactions of a user.
func (r *TransactionRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepo) scanOne(row pgx.Row) (*domain.Transaction, error) {
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t        domain.Transaction
		kind     string
		currency string
		amount   string
		status   string
		meta     []byte
	)
	if err := row.Scan(&t.ID, &t.UserID, &kind, &currency, &amount, &status, &t.DedupeKey, &meta, &t.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &t.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	t.Kind = domain.TransactionKind(kind)
	t.Currency = domain.Currency(currency)
	t.Status = domain.TransactionStatus(status)
	return &t, nil
}
