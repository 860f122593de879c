package domain

import (
	"fmt"
	"time"

	"farming-engine/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Position is a user's farming position in one currency. Yield is computed
// from DepositBasis only, never from the spendable balance.
type Position struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Currency      Currency        `json:"currency"`
	DepositBasis  decimal.Decimal `json:"deposit_basis"`
	BasisMissing  bool            `json:"basis_missing,omitempty"` // stored basis is NULL; never accrued until backfilled
	DailyRate     decimal.Decimal `json:"daily_rate"`
	LastAccrualAt time.Time       `json:"last_accrual_at"`
	TotalAccrued  decimal.Decimal `json:"total_accrued"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// AccrualCarry is basis x microseconds earned since the cursor at bases
	// a later deposit has since replaced. It covers the window up to
	// CarryUntil; the current basis covers the rest.
	AccrualCarry decimal.Decimal `json:"accrual_carry"`
	CarryUntil   *time.Time      `json:"carry_until,omitempty"`
}

// NewPosition opens a position whose cursor starts at openedAt.
func NewPosition(userID int64, currency Currency, basis, dailyRate decimal.Decimal, openedAt time.Time) (*Position, error) {
	if userID <= 0 {
		return nil, apperror.ErrInvalidUserID()
	}
	if !currency.Valid() {
		return nil, apperror.ErrUnknownCurrency(string(currency))
	}
	if basis.IsNegative() {
		return nil, apperror.ErrInvalidAmount()
	}
	if dailyRate.IsNegative() {
		return nil, apperror.Validation("daily rate must not be negative")
	}
	return &Position{
		UserID:        userID,
		Currency:      currency,
		DepositBasis:  basis,
		DailyRate:     dailyRate,
		LastAccrualAt: openedAt,
		TotalAccrued:  decimal.Zero,
		AccrualCarry:  decimal.Zero,
		Active:        true,
		CreatedAt:     openedAt,
		UpdatedAt:     openedAt,
	}, nil
}

// Validate checks the integrity of a position loaded from the store. A
// failing position is skipped by the scheduler and left for reconciliation.
func (p *Position) Validate() error {
	switch {
	case p.BasisMissing:
		return apperror.ErrDataIntegrity(fmt.Sprintf("position %d has no deposit basis", p.ID))
	case p.DepositBasis.IsNegative():
		return apperror.ErrDataIntegrity(fmt.Sprintf("position %d has negative deposit basis %s", p.ID, p.DepositBasis))
	case p.DailyRate.IsNegative():
		return apperror.ErrDataIntegrity(fmt.Sprintf("position %d has negative daily rate %s", p.ID, p.DailyRate))
	case p.AccrualCarry.IsNegative():
		return apperror.ErrDataIntegrity(fmt.Sprintf("position %d has negative accrual carry %s", p.ID, p.AccrualCarry))
	case !p.Currency.Valid():
		return apperror.ErrDataIntegrity(fmt.Sprintf("position %d has unknown currency %q", p.ID, p.Currency))
	}
	return nil
}
