package service

import (
	"testing"

	"farming-engine/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decs(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(vals))
	for _, v := range vals {
		out = append(out, dec(v))
	}
	return out
}

func productionLevels() []decimal.Decimal {
	levels := decs("1")
	for lvl := 2; lvl <= 20; lvl++ {
		levels = append(levels, decimal.NewFromInt(int64(21-lvl)).Div(decimal.NewFromInt(100)))
	}
	return levels
}

func TestNewCommissionSchedule_Validation(t *testing.T) {
	tests := []struct {
		name     string
		rate     string
		levels   []decimal.Decimal
		maxDepth int
		wantErr  bool
	}{
		{"production table", "0.01", productionLevels(), 20, false},
		{"negative rate", "-0.01", decs("1"), 1, true},
		{"zero depth", "0.01", decs("1"), 0, true},
		{"depth above limit", "0.01", decs("1"), 21, true},
		{"no levels", "0.01", nil, 1, true},
		{"negative level", "0.01", decs("1", "-0.1"), 2, true},
		{"payout above base", "0.6", decs("1", "1"), 2, true},
		{"payout exactly base", "0.5", decs("1", "1"), 2, false},
		{"levels past depth are ignored", "0.6", decs("1", "1"), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewCommissionSchedule(dec(tt.rate), tt.levels, tt.maxDepth)
			if tt.wantErr {
				assertAppError(t, err, "VAL_005")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, s)
		})
	}
}

func TestCommissionSchedule_Distribute_ThreeLevels(t *testing.T) {
	s, err := NewCommissionSchedule(dec("0.01"), decs("1", "0.19", "0.18"), 20)
	require.NoError(t, err)

	shares := s.Distribute(dec("10"), domain.CurrencyUNI, []int64{101, 102, 103})

	require.Len(t, shares, 3)
	assert.Equal(t, int64(101), shares[0].AncestorID)
	assert.Equal(t, 1, shares[0].Level)
	assertDecimal(t, "0.1", shares[0].Amount)
	assert.Equal(t, 2, shares[1].Level)
	assertDecimal(t, "0.019", shares[1].Amount)
	assert.Equal(t, 3, shares[2].Level)
	assertDecimal(t, "0.018", shares[2].Amount)

	total := shares[0].Amount.Add(shares[1].Amount).Add(shares[2].Amount)
	assertDecimal(t, "0.137", total)
}

func TestCommissionSchedule_Distribute_StopsAtDepth(t *testing.T) {
	s, err := NewCommissionSchedule(dec("0.01"), productionLevels(), 2)
	require.NoError(t, err)

	shares := s.Distribute(dec("100"), domain.CurrencyUNI, []int64{1, 2, 3, 4})
	require.Len(t, shares, 2)
	assert.Equal(t, 2, shares[1].Level)
}

func TestCommissionSchedule_Distribute_ChainLongerThanLevels(t *testing.T) {
	s, err := NewCommissionSchedule(dec("0.01"), decs("1", "0.5"), 20)
	require.NoError(t, err)

	shares := s.Distribute(dec("100"), domain.CurrencyUNI, []int64{1, 2, 3, 4})
	assert.Len(t, shares, 2)
}

func TestCommissionSchedule_Distribute_DropsZeroShares(t *testing.T) {
	s, err := NewCommissionSchedule(dec("0.01"), decs("1", "0.19"), 20)
	require.NoError(t, err)

	// 0.0001 * 0.01 * 0.19 truncates to zero at six places.
	shares := s.Distribute(dec("0.0001"), domain.CurrencyUNI, []int64{1, 2})
	require.Len(t, shares, 1)
	assert.Equal(t, 1, shares[0].Level)
	assertDecimal(t, "0.000001", shares[0].Amount)
}

func TestCommissionSchedule_Distribute_CappedAtBase(t *testing.T) {
	s := &CommissionSchedule{Rate: dec("1"), Levels: decs("0.8", "0.8"), MaxDepth: 2}

	shares := s.Distribute(dec("10"), domain.CurrencyUNI, []int64{1, 2})
	require.Len(t, shares, 2)
	assertDecimal(t, "8", shares[0].Amount)
	assertDecimal(t, "2", shares[1].Amount)
}

func TestCommissionSchedule_Distribute_NothingToPay(t *testing.T) {
	s, err := NewCommissionSchedule(dec("0.01"), productionLevels(), 20)
	require.NoError(t, err)

	assert.Empty(t, s.Distribute(dec("0"), domain.CurrencyUNI, []int64{1}))
	assert.Empty(t, s.Distribute(dec("10"), domain.CurrencyUNI, nil))
}

func TestCommissionSchedule_Distribute_ProductionTableWithinBase(t *testing.T) {
	s, err := NewCommissionSchedule(dec("0.01"), productionLevels(), 20)
	require.NoError(t, err)

	chain := make([]int64, 20)
	for i := range chain {
		chain[i] = int64(i + 1)
	}
	base := dec("1234.567891")
	shares := s.Distribute(base, domain.CurrencyUNI, chain)
	require.Len(t, shares, 20)

	total := decimal.Zero
	for _, sh := range shares {
		assert.True(t, sh.Amount.IsPositive())
		assert.True(t, domain.CurrencyUNI.Representable(sh.Amount))
		total = total.Add(sh.Amount)
	}
	assert.True(t, total.LessThanOrEqual(base))
}
