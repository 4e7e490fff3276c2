package models

import "github.com/shopspring/decimal"

// Cent is the smallest unit of money handled by the ledger.
var Cent = decimal.New(1, -2)

// RoundMoney rounds a monetary value to two fractional digits.
// Every amount is passed through this before it is stored or accumulated,
// so floating drift never compounds across events.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseMoney parses a stored decimal string. An empty string is zero.
func ParseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return RoundMoney(d), nil
}
