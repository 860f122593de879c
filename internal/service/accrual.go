package service

import (
	"time"

	"farming-engine/internal/core/domain"

	"github.com/shopspring/decimal"
)

var (
	nanosPerDay   = decimal.NewFromInt(int64(24 * time.Hour))
	nanosPerMicro = decimal.NewFromInt(int64(time.Microsecond))
)

// AccrualCalculator computes simple (non-compounding) yield for a position.
// It is pure: no I/O, no clock, no mutation.
type AccrualCalculator struct {
	dust decimal.Decimal
}

// NewAccrualCalculator creates a calculator that zeroes any amount below dust.
func NewAccrualCalculator(dust decimal.Decimal) *AccrualCalculator {
	if dust.IsNegative() {
		dust = decimal.Zero
	}
	return &AccrualCalculator{dust: dust}
}

// ComputeYield returns the yield earned since the position's cursor.
//
// The window is weighted by basis x time: the carry a deposit left behind
// covers the stretch up to CarryUntil and the current basis covers the rest.
// amount = weight * daily_rate / 1 day, truncated toward zero to the
// currency's minimum unit. A clock behind the cursor or the last deposit
// yields nothing and leaves the cursor where it is. A dust amount still moves
// the cursor forward; the window is consumed without a ledger row.
func (c *AccrualCalculator) ComputeYield(p domain.Position, now time.Time) domain.Accrual {
	acc := domain.Accrual{
		PositionID: p.ID,
		UserID:     p.UserID,
		Currency:   p.Currency,
		Amount:     decimal.Zero,
		From:       p.LastAccrualAt,
		To:         p.LastAccrualAt,
	}
	if !now.After(p.LastAccrualAt) {
		return acc
	}
	mark := p.LastAccrualAt
	if p.CarryUntil != nil {
		if now.Before(*p.CarryUntil) {
			return acc
		}
		if p.CarryUntil.After(mark) {
			mark = *p.CarryUntil
		}
	}
	acc.To = now

	if p.BasisMissing || !p.DailyRate.IsPositive() {
		return acc
	}

	weight := p.AccrualCarry.Mul(nanosPerMicro)
	if p.DepositBasis.IsPositive() {
		elapsed := decimal.NewFromInt(int64(now.Sub(mark)))
		weight = weight.Add(p.DepositBasis.Mul(elapsed))
	}
	if !weight.IsPositive() {
		return acc
	}
	// QuoRem truncates at the requested precision, no intermediate rounding.
	amount, _ := weight.Mul(p.DailyRate).QuoRem(nanosPerDay, p.Currency.Precision())

	if amount.LessThan(c.dust) || !amount.IsPositive() {
		return acc
	}
	acc.Amount = amount
	return acc
}
