package domain

import "github.com/shopspring/decimal"

// Money is an amount of minor units (cents) tagged with a currency label.
// The label is descriptive only: the engine sums minor units as raw integers
// and never converts between currencies.
type Money struct {
	Amount   int64  `json:"amount"`   // Minor units
	Currency string `json:"currency"` // ISO-4217-like code, may be empty
}

// NewMoney builds a Money value in the given currency.
func NewMoney(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// MoneyFromDollars converts a major-unit decimal amount to minor units by
// truncating multiplication by 100. Truncation (toward zero) is deliberate:
// half-cent amounts are dropped, not rounded.
func MoneyFromDollars(dollars decimal.Decimal, currency string) Money {
	cents := dollars.Mul(decimal.NewFromInt(100)).IntPart()
	return Money{Amount: cents, Currency: currency}
}

// ToDollars returns the amount in major units as an exact decimal.
func (m Money) ToDollars() decimal.Decimal {
	return decimal.New(m.Amount, -2)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Amount > 0
}
