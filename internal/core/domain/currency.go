package domain

import (
	"slices"
	"strings"

	"farming-engine/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Currency is a farmable asset.
type Currency string

const (
	CurrencyUNI Currency = "UNI"
	CurrencyTON Currency = "TON"
)

// SupportedCurrencies lists every currency a position can be opened in.
var SupportedCurrencies = []Currency{CurrencyUNI, CurrencyTON}

// ParseCurrency normalizes and validates a currency code.
func ParseCurrency(raw string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", apperror.ErrUnknownCurrency(raw)
	}
	return c, nil
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	return slices.Contains(SupportedCurrencies, c)
}

// Precision is the number of decimal places of the currency's minimum unit.
// TON is denominated in nanotons.
func (c Currency) Precision() int32 {
	switch c {
	case CurrencyTON:
		return 9
	default:
		return 6
	}
}

// Truncate rounds d toward zero to the currency's minimum unit.
func (c Currency) Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(c.Precision())
}

// Representable reports whether d carries no digits below the minimum unit.
func (c Currency) Representable(d decimal.Decimal) bool {
	return c.Truncate(d).Equal(d)
}

func (c Currency) String() string {
	return string(c)
}
