package postgres

import (
	"context"
	"testing"

	"farming-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceRepo_Credit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO user_balances .+ ON CONFLICT \\(user_id, currency\\) DO UPDATE").
		WithArgs(int64(100), "UNI", "0.003472").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Credit(context.Background(), tx, 100, domain.CurrencyUNI, decimal.RequireFromString("0.003472"))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBalanceRepo_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewBalanceRepo(mock)

	mock.ExpectQuery("SELECT balance::text FROM user_balances").
		WithArgs(int64(100), "TON").
		WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow("12.000000001"))
	mock.ExpectQuery("SELECT balance::text FROM user_balances").
		WithArgs(int64(101), "TON").
		WillReturnError(pgx.ErrNoRows)

	bal, err := repo.Get(context.Background(), 100, domain.CurrencyTON)
	require.NoError(t, err)
	assert.Equal(t, "12.000000001", bal.String())

	bal, err = repo.Get(context.Background(), 101, domain.CurrencyTON)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
