package domain

import (
	"time"

	"farming-engine/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is the kind of ledger movement.
type TransactionKind string

const (
	TransactionKindDeposit            TransactionKind = "DEPOSIT"
	TransactionKindYieldReward        TransactionKind = "YIELD_REWARD"
	TransactionKindReferralCommission TransactionKind = "REFERRAL_COMMISSION"
	TransactionKindWithdrawal         TransactionKind = "WITHDRAWAL"
)

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	switch k {
	case TransactionKindDeposit, TransactionKindYieldReward,
		TransactionKindReferralCommission, TransactionKindWithdrawal:
		return true
	}
	return false
}

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
)

// TransactionMetadata is stored as JSONB next to the ledger row.
type TransactionMetadata struct {
	Source              string     `json:"source,omitempty"`
	ExternalRef         string     `json:"external_ref,omitempty"`
	OriginTransactionID *uuid.UUID `json:"origin_transaction_id,omitempty"`
	RefereeID           int64      `json:"referee_id,omitempty"`
	Level               int        `json:"level,omitempty"`
	PeriodStart         *time.Time `json:"period_start,omitempty"`
	PeriodEnd           *time.Time `json:"period_end,omitempty"`
}

// Transaction is an immutable ledger entry. Amount is always positive; the
// direction is implied by Kind.
type Transaction struct {
	ID        uuid.UUID           `json:"id"`
	UserID    int64               `json:"user_id"`
	Kind      TransactionKind     `json:"kind"`
	Currency  Currency            `json:"currency"`
	Amount    decimal.Decimal     `json:"amount"`
	Status    TransactionStatus   `json:"status"`
	DedupeKey *string             `json:"dedupe_key,omitempty"`
	Metadata  TransactionMetadata `json:"metadata"`
	CreatedAt time.Time           `json:"created_at"`
}

// NewTransaction builds a confirmed ledger entry. The amount must be positive
// and expressible in the currency's minimum unit.
func NewTransaction(userID int64, kind TransactionKind, currency Currency, amount decimal.Decimal, dedupeKey string, meta TransactionMetadata, at time.Time) (*Transaction, error) {
	if userID <= 0 {
		return nil, apperror.ErrInvalidUserID()
	}
	if !kind.Valid() {
		return nil, apperror.Validation("unknown transaction kind " + string(kind))
	}
	if !currency.Valid() {
		return nil, apperror.ErrUnknownCurrency(string(currency))
	}
	if !amount.IsPositive() || !currency.Representable(amount) {
		return nil, apperror.ErrInvalidAmount()
	}

	t := &Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Kind:      kind,
		Currency:  currency,
		Amount:    amount,
		Status:    TransactionStatusConfirmed,
		Metadata:  meta,
		CreatedAt: at,
	}
	if dedupeKey != "" {
		t.DedupeKey = &dedupeKey
	}
	return t, nil
}
