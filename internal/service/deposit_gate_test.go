package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type depositTestDeps struct {
	gate        *DepositGateService
	txRepo      *mocks.MockTransactionRepository
	positions   *mocks.MockPositionRepository
	balanceRepo *mocks.MockBalanceRepository
	transactor  *mocks.MockDBTransactor
	cache       *mocks.MockResultCache
}

func setupDepositGate(t *testing.T) *depositTestDeps {
	ctrl := gomock.NewController(t)
	d := &depositTestDeps{
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		positions:   mocks.NewMockPositionRepository(ctrl),
		balanceRepo: mocks.NewMockBalanceRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		cache:       mocks.NewMockResultCache(ctrl),
	}
	rates := map[domain.Currency]decimal.Decimal{
		domain.CurrencyUNI: dec("0.01"),
		domain.CurrencyTON: dec("0.02"),
	}
	d.gate = NewDepositGateService(
		d.txRepo, d.positions, d.balanceRepo, d.transactor, d.cache,
		rates, clockwork.NewFakeClockAt(testEpoch), zerolog.Nop(),
	)
	return d
}

func depositRequest() ports.DepositRequest {
	return ports.DepositRequest{
		UserID:      42,
		Currency:    "uni",
		Amount:      "5",
		ExternalRef: "0xabc",
	}
}

func existingDeposit(t *testing.T) *domain.Transaction {
	t.Helper()
	txn, err := domain.NewTransaction(42, domain.TransactionKindDeposit, domain.CurrencyUNI, dec("5"), "deposit:0xabc",
		domain.TransactionMetadata{Source: "deposit_gate", ExternalRef: "0xabc"}, testEpoch.Add(-time.Hour))
	require.NoError(t, err)
	return txn
}

func TestDepositGate_Ingest_Success(t *testing.T) {
	d := setupDepositGate(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.cache.EXPECT().Get(ctx, "deposit:0xabc").Return(nil, nil)
	d.txRepo.EXPECT().GetByDedupeKey(ctx, "deposit:0xabc").Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().Insert(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, txn *domain.Transaction) (bool, error) {
			assert.Equal(t, domain.TransactionKindDeposit, txn.Kind)
			assert.Equal(t, domain.CurrencyUNI, txn.Currency)
			assertDecimal(t, "5", txn.Amount)
			assert.Equal(t, "0xabc", txn.Metadata.ExternalRef)
			return true, nil
		})
	d.positions.EXPECT().ApplyDeposit(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, open *domain.Position) (*domain.Position, error) {
			assert.Equal(t, int64(42), open.UserID)
			assert.Equal(t, domain.CurrencyUNI, open.Currency)
			assertDecimal(t, "5", open.DepositBasis)
			assertDecimal(t, "0.01", open.DailyRate)
			assert.Equal(t, testEpoch, open.CreatedAt)
			assert.Equal(t, testEpoch, open.LastAccrualAt)
			return &domain.Position{ID: 7, UserID: 42, Currency: domain.CurrencyUNI, DepositBasis: open.DepositBasis, Active: true}, nil
		})
	d.balanceRepo.EXPECT().Credit(ctx, tx, int64(42), domain.CurrencyUNI, gomock.Any()).Return(nil)
	d.cache.EXPECT().Set(ctx, "deposit:0xabc", gomock.Any(), depositResultTTL).Return(nil)

	res, err := d.gate.Ingest(ctx, depositRequest())
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, int64(7), res.PositionID)
	assert.Equal(t, domain.CurrencyUNI, res.Currency)
	assert.Equal(t, testEpoch, res.CreatedAt)
}

func TestDepositGate_Ingest_RedisReplay(t *testing.T) {
	d := setupDepositGate(t)
	ctx := context.Background()

	cached, _ := json.Marshal(ports.DepositResult{
		TransactionID: uuid.New(),
		UserID:        42,
		Currency:      domain.CurrencyUNI,
		Amount:        dec("5"),
		ExternalRef:   "0xabc",
	})
	d.cache.EXPECT().Get(ctx, "deposit:0xabc").Return(cached, nil)

	res, err := d.gate.Ingest(ctx, depositRequest())
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assertDecimal(t, "5", res.Amount)
}

func TestDepositGate_Ingest_LedgerReplay(t *testing.T) {
	d := setupDepositGate(t)
	ctx := context.Background()
	existing := existingDeposit(t)

	d.cache.EXPECT().Get(ctx, "deposit:0xabc").Return(nil, errors.New("redis down"))
	d.txRepo.EXPECT().GetByDedupeKey(ctx, "deposit:0xabc").Return(existing, nil)

	res, err := d.gate.Ingest(ctx, depositRequest())
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, existing.ID, res.TransactionID)
}

func TestDepositGate_Ingest_LosesInsertRace(t *testing.T) {
	d := setupDepositGate(t)
	ctx := context.Background()
	tx := &mockTx{}
	winner := existingDeposit(t)

	d.cache.EXPECT().Get(ctx, "deposit:0xabc").Return(nil, nil)
	gomock.InOrder(
		d.txRepo.EXPECT().GetByDedupeKey(ctx, "deposit:0xabc").Return(nil, nil),
		d.txRepo.EXPECT().GetByDedupeKey(ctx, "deposit:0xabc").Return(winner, nil),
	)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().Insert(ctx, tx, gomock.Any()).Return(false, nil)
	// No position change and no credit for the loser.

	res, err := d.gate.Ingest(ctx, depositRequest())
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, winner.ID, res.TransactionID)
}

func TestDepositGate_Ingest_CacheWriteFailureIsIgnored(t *testing.T) {
	d := setupDepositGate(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, nil)
	d.txRepo.EXPECT().GetByDedupeKey(ctx, gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().Insert(ctx, tx, gomock.Any()).Return(true, nil)
	d.positions.EXPECT().ApplyDeposit(ctx, tx, gomock.Any()).
		Return(&domain.Position{ID: 1, BasisMissing: true}, nil)
	d.balanceRepo.EXPECT().Credit(ctx, tx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.cache.EXPECT().Set(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	res, err := d.gate.Ingest(ctx, depositRequest())
	require.NoError(t, err)
	assert.False(t, res.Replayed)
}

func TestDepositGate_Ingest_StoreFailure(t *testing.T) {
	d := setupDepositGate(t)
	ctx := context.Background()
	tx := &mockTx{}

	d.cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, nil)
	d.txRepo.EXPECT().GetByDedupeKey(ctx, gomock.Any()).Return(nil, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.txRepo.EXPECT().Insert(ctx, tx, gomock.Any()).Return(true, nil)
	d.positions.EXPECT().ApplyDeposit(ctx, tx, gomock.Any()).
		Return(nil, errors.New("connection reset"))

	_, err := d.gate.Ingest(ctx, depositRequest())
	assertAppError(t, err, "STORE_001")
}

func TestDepositGate_Ingest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ports.DepositRequest)
		code   string
	}{
		{"zero user", func(r *ports.DepositRequest) { r.UserID = 0 }, "VAL_003"},
		{"unknown currency", func(r *ports.DepositRequest) { r.Currency = "BTC" }, "VAL_002"},
		{"not a number", func(r *ports.DepositRequest) { r.Amount = "five" }, "VAL_001"},
		{"zero amount", func(r *ports.DepositRequest) { r.Amount = "0" }, "VAL_001"},
		{"negative amount", func(r *ports.DepositRequest) { r.Amount = "-1" }, "VAL_001"},
		{"below minimum unit", func(r *ports.DepositRequest) { r.Amount = "0.0000001" }, "VAL_001"},
		{"empty external ref", func(r *ports.DepositRequest) { r.ExternalRef = "" }, "VAL_004"},
		{"bad external ref", func(r *ports.DepositRequest) { r.ExternalRef = "0x abc" }, "VAL_004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := setupDepositGate(t)
			req := depositRequest()
			tt.mutate(&req)

			_, err := d.gate.Ingest(context.Background(), req)
			assertAppError(t, err, tt.code)
		})
	}
}

func TestDepositGate_Ingest_CurrencyWithoutRate(t *testing.T) {
	d := setupDepositGate(t)
	delete(d.gate.rates, domain.CurrencyTON)
	req := depositRequest()
	req.Currency = "TON"

	_, err := d.gate.Ingest(context.Background(), req)
	assertAppError(t, err, "VAL_006")
}
