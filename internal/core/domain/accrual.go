package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Accrual is the yield earned by a position over the window [From, To).
// To is the new cursor; it equals From when the clock has not moved forward.
type Accrual struct {
	PositionID int64
	UserID     int64
	Currency   Currency
	Amount     decimal.Decimal
	From       time.Time
	To         time.Time
}

// Writes reports whether the accrual produces a ledger row.
func (a Accrual) Writes() bool {
	return a.Amount.IsPositive()
}

// CommissionShare is one ancestor's cut of a yield reward.
type CommissionShare struct {
	AncestorID int64
	Level      int // 1 = direct referrer
	Amount     decimal.Decimal
}
