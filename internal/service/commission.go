package service

import (
	"fmt"

	"farming-engine/internal/core/domain"
	"farming-engine/pkg/apperror"

	"github.com/shopspring/decimal"
)

// CommissionSchedule is the multi-level referral payout table. Level n
// (1-based) pays Rate * Levels[n-1] of the referee's yield.
type CommissionSchedule struct {
	Rate     decimal.Decimal
	Levels   []decimal.Decimal
	MaxDepth int
}

// NewCommissionSchedule validates a schedule. The total payout across all
// payable levels may not exceed the base amount.
func NewCommissionSchedule(rate decimal.Decimal, levels []decimal.Decimal, maxDepth int) (*CommissionSchedule, error) {
	if rate.IsNegative() {
		return nil, apperror.ErrInvalidSchedule("rate must not be negative")
	}
	if maxDepth <= 0 || maxDepth > domain.MaxReferralDepth {
		return nil, apperror.ErrInvalidSchedule(fmt.Sprintf("max depth must be within 1..%d", domain.MaxReferralDepth))
	}
	if len(levels) == 0 {
		return nil, apperror.ErrInvalidSchedule("no levels configured")
	}

	payable := levels
	if len(payable) > maxDepth {
		payable = payable[:maxDepth]
	}
	sum := decimal.Zero
	for i, pct := range payable {
		if pct.IsNegative() {
			return nil, apperror.ErrInvalidSchedule(fmt.Sprintf("level %d is negative", i+1))
		}
		sum = sum.Add(pct)
	}
	if rate.Mul(sum).GreaterThan(decimal.NewFromInt(1)) {
		return nil, apperror.ErrInvalidSchedule("total payout exceeds the base amount")
	}

	return &CommissionSchedule{
		Rate:     rate,
		Levels:   append([]decimal.Decimal(nil), levels...),
		MaxDepth: maxDepth,
	}, nil
}

// Distribute splits base across chain, nearest ancestor first. Shares are
// truncated to the currency's minimum unit; zero shares are dropped. The
// running total never exceeds base.
func (s *CommissionSchedule) Distribute(base decimal.Decimal, currency domain.Currency, chain []int64) []domain.CommissionShare {
	if !base.IsPositive() || len(chain) == 0 {
		return nil
	}

	remaining := base
	shares := make([]domain.CommissionShare, 0, len(chain))
	for i, ancestor := range chain {
		level := i + 1
		if level > s.MaxDepth || i >= len(s.Levels) {
			break
		}
		amount := currency.Truncate(base.Mul(s.Rate).Mul(s.Levels[i]))
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		if !amount.IsPositive() {
			continue
		}
		remaining = remaining.Sub(amount)
		shares = append(shares, domain.CommissionShare{
			AncestorID: ancestor,
			Level:      level,
			Amount:     amount,
		})
	}
	return shares
}
