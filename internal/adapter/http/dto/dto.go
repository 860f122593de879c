package dto

import (
	"time"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
)

// DepositRequest is the body the verification pipeline posts for a
// confirmed on-chain deposit. Amount is a decimal string.
type DepositRequest struct {
	UserID      int64  `json:"user_id" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,max=8"`
	Amount      string `json:"amount" binding:"required,max=64"`
	ExternalRef string `json:"external_ref" binding:"required,max=128,safe_id"`
}

// ReferralRequest links a user to the user who referred them.
type ReferralRequest struct {
	UserID     int64 `json:"user_id" binding:"required,gt=0"`
	ReferrerID int64 `json:"referrer_id" binding:"required,gt=0"`
}

// ReconcileRequest asks for a position basis to be rebuilt from the ledger.
type ReconcileRequest struct {
	UserID   int64  `json:"user_id" binding:"required,gt=0"`
	Currency string `json:"currency" binding:"required,max=8"`
}

// TokenResponse carries a freshly issued operator token.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// PositionResponse is the public view of a farming position.
type PositionResponse struct {
	ID            int64   `json:"id"`
	Currency      string  `json:"currency"`
	DepositBasis  *string `json:"deposit_basis"` // null until backfilled
	DailyRate     string  `json:"daily_rate"`
	TotalAccrued  string  `json:"total_accrued"`
	LastAccrualAt string  `json:"last_accrual_at"`
	Active        bool    `json:"active"`
	CreatedAt     string  `json:"created_at"`
}

// BalanceResponse is a user's balance in one currency.
type BalanceResponse struct {
	UserID   int64  `json:"user_id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

// TransactionResponse is the public view of a ledger entry.
type TransactionResponse struct {
	ID          string  `json:"id"`
	UserID      int64   `json:"user_id"`
	Kind        string  `json:"kind"`
	Currency    string  `json:"currency"`
	Amount      string  `json:"amount"`
	Status      string  `json:"status"`
	Source      string  `json:"source,omitempty"`
	ExternalRef string  `json:"external_ref,omitempty"`
	OriginID    *string `json:"origin_transaction_id,omitempty"`
	Level       int     `json:"level,omitempty"`
	PeriodStart *string `json:"period_start,omitempty"`
	PeriodEnd   *string `json:"period_end,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// TransactionListResponse wraps a page of ledger entries.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
}

// DepositResponse is returned for both first ingestion and replays.
type DepositResponse struct {
	TransactionID string `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	Currency      string `json:"currency"`
	Amount        string `json:"amount"`
	ExternalRef   string `json:"external_ref"`
	PositionID    int64  `json:"position_id,omitempty"`
	Replayed      bool   `json:"replayed"`
	CreatedAt     string `json:"created_at"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ToPositionResponse maps a domain position to its public view.
func ToPositionResponse(p domain.Position) PositionResponse {
	resp := PositionResponse{
		ID:            p.ID,
		Currency:      p.Currency.String(),
		DailyRate:     p.DailyRate.String(),
		TotalAccrued:  p.TotalAccrued.StringFixed(p.Currency.Precision()),
		LastAccrualAt: formatTime(p.LastAccrualAt),
		Active:        p.Active,
		CreatedAt:     formatTime(p.CreatedAt),
	}
	if !p.BasisMissing {
		basis := p.DepositBasis.StringFixed(p.Currency.Precision())
		resp.DepositBasis = &basis
	}
	return resp
}

// ToTransactionResponse maps a ledger entry to its public view.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID,
		Kind:        string(t.Kind),
		Currency:    t.Currency.String(),
		Amount:      t.Amount.StringFixed(t.Currency.Precision()),
		Status:      string(t.Status),
		Source:      t.Metadata.Source,
		ExternalRef: t.Metadata.ExternalRef,
		Level:       t.Metadata.Level,
		CreatedAt:   formatTime(t.CreatedAt),
	}
	if t.Metadata.OriginTransactionID != nil {
		id := t.Metadata.OriginTransactionID.String()
		resp.OriginID = &id
	}
	if t.Metadata.PeriodStart != nil {
		s := formatTime(*t.Metadata.PeriodStart)
		resp.PeriodStart = &s
	}
	if t.Metadata.PeriodEnd != nil {
		s := formatTime(*t.Metadata.PeriodEnd)
		resp.PeriodEnd = &s
	}
	return resp
}

// ToDepositResponse maps a deposit gate result.
func ToDepositResponse(r *ports.DepositResult) DepositResponse {
	return DepositResponse{
		TransactionID: r.TransactionID.String(),
		UserID:        r.UserID,
		Currency:      r.Currency.String(),
		Amount:        r.Amount.StringFixed(r.Currency.Precision()),
		ExternalRef:   r.ExternalRef,
		PositionID:    r.PositionID,
		Replayed:      r.Replayed,
		CreatedAt:     formatTime(r.CreatedAt),
	}
}
