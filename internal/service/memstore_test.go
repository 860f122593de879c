package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memState is the committed contents of memStore.
type memState struct {
	nextPositionID int64
	positions      map[int64]domain.Position
	txns           []domain.Transaction
	dedupe         map[string]int // dedupe key -> index in txns
	balances       map[balanceKey]decimal.Decimal
	referrers      map[int64]int64
	cascades       []ports.CascadeRequest // settle jobs scheduled with rewards
}

type balanceKey struct {
	userID   int64
	currency domain.Currency
}

func (s *memState) clone() *memState {
	return &memState{
		nextPositionID: s.nextPositionID,
		positions:      maps.Clone(s.positions),
		txns:           slices.Clone(s.txns),
		dedupe:         maps.Clone(s.dedupe),
		balances:       maps.Clone(s.balances),
		referrers:      maps.Clone(s.referrers),
		cascades:       slices.Clone(s.cascades),
	}
}

// memStore is a serializable in-memory ledger. Transactions run one at a
// time on a private copy that replaces the committed state on Commit.
// Reads outside a transaction see committed data only.
type memStore struct {
	txMu sync.Mutex // held for the lifetime of a transaction
	mu   sync.Mutex // guards committed

	committed     *memState
	failCredit    func(userID int64) error
	failReferrals error
}

func newMemStore() *memStore {
	return &memStore{
		committed: &memState{
			positions: make(map[int64]domain.Position),
			dedupe:    make(map[string]int),
			balances:  make(map[balanceKey]decimal.Decimal),
			referrers: make(map[int64]int64),
		},
	}
}

type memTx struct {
	pgx.Tx
	store *memStore
	state *memState
	done  bool
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return errors.New("tx closed")
	}
	t.done = true
	t.store.mu.Lock()
	t.store.committed = t.state
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (s *memStore) Begin(ctx context.Context) (pgx.Tx, error) {
	s.txMu.Lock()
	if err := ctx.Err(); err != nil {
		s.txMu.Unlock()
		return nil, err
	}
	s.mu.Lock()
	state := s.committed.clone()
	s.mu.Unlock()
	return &memTx{store: s, state: state}, nil
}

func (s *memStore) read() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// write runs fn as its own transaction.
func (s *memStore) write(fn func(st *memState)) {
	tx, _ := s.Begin(context.Background())
	fn(tx.(*memTx).state)
	_ = tx.Commit(context.Background())
}

func state(tx pgx.Tx) *memState {
	return tx.(*memTx).state
}

// --- test helpers ---

func (s *memStore) seedPosition(p domain.Position) int64 {
	var id int64
	s.write(func(st *memState) {
		st.nextPositionID++
		id = st.nextPositionID
		p.ID = id
		st.positions[id] = p
	})
	return id
}

func (s *memStore) seedReferral(userID, referrerID int64) {
	s.write(func(st *memState) { st.referrers[userID] = referrerID })
}

func (s *memStore) position(id int64) domain.Position {
	return s.read().positions[id]
}

func (s *memStore) balance(userID int64, currency domain.Currency) decimal.Decimal {
	return s.read().balances[balanceKey{userID, currency}]
}

func (s *memStore) transactions(kind domain.TransactionKind) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range s.read().txns {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// --- ports.PositionRepository ---

type memPositions struct{ s *memStore }

func (r memPositions) SelectStale(_ context.Context, cutoff time.Time, limit int) ([]domain.Position, error) {
	var out []domain.Position
	for _, p := range r.s.read().positions {
		if p.Active && !p.LastAccrualAt.After(cutoff) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memPositions) AdvanceCursor(_ context.Context, tx pgx.Tx, expected domain.Position, next time.Time, accrued decimal.Decimal) (bool, error) {
	st := state(tx)
	p, ok := st.positions[expected.ID]
	if !ok || !p.Active || !p.LastAccrualAt.Equal(expected.LastAccrualAt) || !sameInstant(p.CarryUntil, expected.CarryUntil) {
		return false, nil
	}
	p.LastAccrualAt = next
	p.TotalAccrued = p.TotalAccrued.Add(accrued)
	p.AccrualCarry = decimal.Zero
	p.CarryUntil = nil
	st.positions[p.ID] = p
	return true, nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (r memPositions) find(st *memState, userID int64, currency domain.Currency) (domain.Position, bool) {
	for _, p := range st.positions {
		if p.UserID == userID && p.Currency == currency {
			return p, true
		}
	}
	return domain.Position{}, false
}

func (r memPositions) ApplyDeposit(_ context.Context, tx pgx.Tx, open *domain.Position) (*domain.Position, error) {
	st := state(tx)
	at := open.CreatedAt
	p, ok := r.find(st, open.UserID, open.Currency)
	switch {
	case !ok:
		st.nextPositionID++
		p = *open
		p.ID = st.nextPositionID
	case !p.Active:
		if !p.BasisMissing {
			p.DepositBasis = p.DepositBasis.Add(open.DepositBasis)
		}
		p.LastAccrualAt = at
		p.AccrualCarry = decimal.Zero
		p.CarryUntil = nil
		p.Active = true
	default:
		if !p.BasisMissing {
			mark := p.LastAccrualAt
			if p.CarryUntil != nil {
				mark = *p.CarryUntil
			}
			if at.After(mark) {
				micros := decimal.NewFromInt(at.Sub(mark).Microseconds())
				p.AccrualCarry = p.AccrualCarry.Add(p.DepositBasis.Mul(micros))
				p.CarryUntil = &at
			}
			p.DepositBasis = p.DepositBasis.Add(open.DepositBasis)
		}
	}
	p.UpdatedAt = at
	st.positions[p.ID] = p
	return &p, nil
}

func (r memPositions) GetForUpdate(_ context.Context, tx pgx.Tx, userID int64, currency domain.Currency) (*domain.Position, error) {
	p, ok := r.find(state(tx), userID, currency)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r memPositions) SetBasis(_ context.Context, tx pgx.Tx, positionID int64, basis decimal.Decimal, active bool) error {
	st := state(tx)
	p := st.positions[positionID]
	p.DepositBasis = basis
	p.BasisMissing = false
	p.Active = active
	st.positions[positionID] = p
	return nil
}

func (r memPositions) Deactivate(_ context.Context, userID int64, currency domain.Currency) (bool, error) {
	var ok bool
	r.s.write(func(st *memState) {
		p, found := r.find(st, userID, currency)
		if !found || !p.Active {
			return
		}
		p.Active = false
		st.positions[p.ID] = p
		ok = true
	})
	return ok, nil
}

func (r memPositions) ListByUser(_ context.Context, userID int64) ([]domain.Position, error) {
	var out []domain.Position
	for _, p := range r.s.read().positions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- ports.TransactionRepository ---

type memTransactions struct{ s *memStore }

func (r memTransactions) Insert(_ context.Context, tx pgx.Tx, t *domain.Transaction) (bool, error) {
	st := state(tx)
	if t.DedupeKey != nil {
		if _, taken := st.dedupe[*t.DedupeKey]; taken {
			return false, nil
		}
		st.dedupe[*t.DedupeKey] = len(st.txns)
	}
	st.txns = append(st.txns, *t)
	return true, nil
}

func (r memTransactions) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	for _, t := range r.s.read().txns {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (r memTransactions) GetByDedupeKey(_ context.Context, key string) (*domain.Transaction, error) {
	st := r.s.read()
	idx, ok := st.dedupe[key]
	if !ok {
		return nil, nil
	}
	t := st.txns[idx]
	return &t, nil
}

func (r memTransactions) PrincipalTotals(_ context.Context, tx pgx.Tx, userID int64, currency domain.Currency) (*ports.PrincipalTotals, error) {
	totals := &ports.PrincipalTotals{Deposits: decimal.Zero, Withdrawals: decimal.Zero}
	for _, t := range state(tx).txns {
		if t.UserID != userID || t.Currency != currency {
			continue
		}
		switch t.Kind {
		case domain.TransactionKindDeposit:
			totals.Deposits = totals.Deposits.Add(t.Amount)
		case domain.TransactionKindWithdrawal:
			totals.Withdrawals = totals.Withdrawals.Add(t.Amount)
		}
	}
	return totals, nil
}

func (r memTransactions) ListByUser(_ context.Context, userID int64, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	txns := r.s.read().txns
	for i := len(txns) - 1; i >= 0 && len(out) < limit; i-- {
		if txns[i].UserID == userID {
			out = append(out, txns[i])
		}
	}
	return out, nil
}

// --- ports.BalanceRepository ---

type memBalances struct{ s *memStore }

func (r memBalances) Credit(_ context.Context, tx pgx.Tx, userID int64, currency domain.Currency, amount decimal.Decimal) error {
	if r.s.failCredit != nil {
		if err := r.s.failCredit(userID); err != nil {
			return err
		}
	}
	st := state(tx)
	k := balanceKey{userID, currency}
	st.balances[k] = st.balances[k].Add(amount)
	return nil
}

func (r memBalances) Get(_ context.Context, userID int64, currency domain.Currency) (decimal.Decimal, error) {
	return r.s.read().balances[balanceKey{userID, currency}], nil
}

// --- ports.ReferralRepository ---

type memReferrals struct{ s *memStore }

func (r memReferrals) GetReferrer(_ context.Context, userID int64) (*int64, error) {
	if r.s.failReferrals != nil {
		return nil, r.s.failReferrals
	}
	ref, ok := r.s.read().referrers[userID]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}

func (r memReferrals) Create(_ context.Context, edge *domain.ReferralEdge) (bool, error) {
	var created bool
	r.s.write(func(st *memState) {
		if _, exists := st.referrers[edge.UserID]; exists {
			return
		}
		st.referrers[edge.UserID] = edge.ReferrerID
		created = true
	})
	return created, nil
}

// --- ports.CascadeOutbox ---

type memOutbox struct{ s *memStore }

func (o memOutbox) ScheduleTx(_ context.Context, tx pgx.Tx, req ports.CascadeRequest) error {
	st := state(tx)
	st.cascades = append(st.cascades, req)
	return nil
}

func (s *memStore) scheduledCascades() []ports.CascadeRequest {
	return s.read().cascades
}

var (
	_ ports.CascadeOutbox         = memOutbox{}
	_ ports.PositionRepository    = memPositions{}
	_ ports.TransactionRepository = memTransactions{}
	_ ports.BalanceRepository     = memBalances{}
	_ ports.ReferralRepository    = memReferrals{}
	_ ports.DBTransactor          = (*memStore)(nil)
)
