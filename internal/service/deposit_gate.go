package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/metrics"
	"farming-engine/pkg/apperror"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const depositResultTTL = 24 * time.Hour

// DepositGateService ingests confirmed deposits exactly once per external
// reference. The ledger row, the position basis and the balance move
// together or not at all.
type DepositGateService struct {
	txRepo      ports.TransactionRepository
	positions   ports.PositionRepository
	balanceRepo ports.BalanceRepository
	transactor  ports.DBTransactor
	cache       ports.ResultCache
	rates       map[domain.Currency]decimal.Decimal
	clock       clockwork.Clock
	log         zerolog.Logger
}

// NewDepositGateService creates a new deposit gate. rates holds the daily
// rate a newly opened position starts with.
func NewDepositGateService(
	txRepo ports.TransactionRepository,
	positions ports.PositionRepository,
	balanceRepo ports.BalanceRepository,
	transactor ports.DBTransactor,
	cache ports.ResultCache,
	rates map[domain.Currency]decimal.Decimal,
	clock clockwork.Clock,
	log zerolog.Logger,
) *DepositGateService {
	return &DepositGateService{
		txRepo:      txRepo,
		positions:   positions,
		balanceRepo: balanceRepo,
		transactor:  transactor,
		cache:       cache,
		rates:       rates,
		clock:       clock,
		log:         log,
	}
}

// Ingest records a DEPOSIT, increases the farming basis and credits the
// balance. Replaying an external reference returns the original result.
func (g *DepositGateService) Ingest(ctx context.Context, req ports.DepositRequest) (*ports.DepositResult, error) {
	if req.UserID <= 0 {
		return nil, apperror.ErrInvalidUserID()
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() || !currency.Representable(amount) {
		g.reject(currency)
		return nil, apperror.ErrInvalidAmount()
	}
	if err := domain.ValidateExternalRef(req.ExternalRef); err != nil {
		g.reject(currency)
		return nil, err
	}
	rate, ok := g.rates[currency]
	if !ok {
		g.reject(currency)
		return nil, apperror.Validation("currency " + currency.String() + " is not open for farming")
	}

	key := domain.DepositDedupeKey(req.ExternalRef)

	// Layer 1: Redis replay check
	cached, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("redis replay check failed, falling through to DB")
	}
	if cached != nil {
		var res ports.DepositResult
		if err := json.Unmarshal(cached, &res); err == nil {
			return g.replay(&res, req), nil
		}
		g.log.Warn().Str("key", key).Msg("cached deposit result unreadable, falling through to DB")
	}

	// Layer 2: ledger dedupe key
	existing, err := g.txRepo.GetByDedupeKey(ctx, key)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("deposit replay check: %w", err))
	}
	if existing != nil {
		return g.replay(depositResult(existing, 0), req), nil
	}

	now := g.clock.Now().UTC().Truncate(time.Microsecond)
	txn, err := domain.NewTransaction(
		req.UserID,
		domain.TransactionKindDeposit,
		currency,
		amount,
		key,
		domain.TransactionMetadata{Source: "deposit_gate", ExternalRef: req.ExternalRef},
		now,
	)
	if err != nil {
		return nil, err
	}
	open, err := domain.NewPosition(req.UserID, currency, amount, rate, now)
	if err != nil {
		return nil, err
	}

	dbTx, err := g.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	inserted, err := g.txRepo.Insert(ctx, dbTx, txn)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("insert deposit: %w", err))
	}
	if !inserted {
		// A concurrent ingestion of the same reference committed first.
		dbTx.Rollback(ctx) //nolint:errcheck
		winner, err := g.txRepo.GetByDedupeKey(ctx, key)
		if err != nil {
			return nil, apperror.ErrStoreUnavailable(fmt.Errorf("load winning deposit: %w", err))
		}
		if winner == nil {
			return nil, apperror.ErrConcurrencyConflict("deposit " + req.ExternalRef)
		}
		return g.replay(depositResult(winner, 0), req), nil
	}

	position, err := g.positions.ApplyDeposit(ctx, dbTx, open)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("apply deposit to position: %w", err))
	}
	if position.BasisMissing {
		g.log.Warn().
			Int64("position_id", position.ID).
			Int64("user_id", req.UserID).
			Msg("Deposit applied to a position without basis, run reconciliation")
		metrics.IntegrityWarningsTotal.WithLabelValues("basis").Inc()
	}

	if err := g.balanceRepo.Credit(ctx, dbTx, req.UserID, currency, amount); err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("credit deposit: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("commit deposit: %w", err))
	}

	result := depositResult(txn, position.ID)

	// Post-process: cache in Redis (best-effort)
	if respJSON, err := json.Marshal(result); err == nil {
		if err := g.cache.Set(ctx, key, respJSON, depositResultTTL); err != nil {
			g.log.Warn().Err(err).Str("key", key).Msg("failed to cache deposit result in redis")
		}
	}

	metrics.DepositsTotal.WithLabelValues(currency.String(), "applied").Inc()
	g.log.Info().
		Str("transaction_id", txn.ID.String()).
		Int64("user_id", req.UserID).
		Str("currency", currency.String()).
		Str("amount", amount.String()).
		Str("external_ref", req.ExternalRef).
		Int64("position_id", position.ID).
		Msg("Deposit applied")

	return result, nil
}

func (g *DepositGateService) replay(res *ports.DepositResult, req ports.DepositRequest) *ports.DepositResult {
	res.Replayed = true
	if res.UserID != req.UserID || !strings.EqualFold(res.Currency.String(), strings.TrimSpace(req.Currency)) || res.Amount.String() != normalizeAmount(req.Amount) {
		g.log.Warn().
			Str("external_ref", req.ExternalRef).
			Int64("recorded_user_id", res.UserID).
			Int64("requested_user_id", req.UserID).
			Msg("External reference replayed with different details, original kept")
	}
	metrics.DepositsTotal.WithLabelValues(res.Currency.String(), "replayed").Inc()
	return res
}

func (g *DepositGateService) reject(currency domain.Currency) {
	metrics.DepositsTotal.WithLabelValues(currency.String(), "rejected").Inc()
}

func depositResult(t *domain.Transaction, positionID int64) *ports.DepositResult {
	return &ports.DepositResult{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Currency:      t.Currency,
		Amount:        t.Amount,
		ExternalRef:   t.Metadata.ExternalRef,
		PositionID:    positionID,
		CreatedAt:     t.CreatedAt,
	}
}

func normalizeAmount(raw string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return d.String()
}
