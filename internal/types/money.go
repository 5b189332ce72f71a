// README: Common money value object used across modules.
package types

import "fmt"

const SGD = "SGD"

// Money holds an amount in the currency's minor unit (cents).
type Money struct {
	Amount   int64
	Currency string
}

// FromDollars converts a decimal dollar amount to Money, rounding
// half-up to the nearest cent.
func FromDollars(v float64, currency string) Money {
	cents := int64(v*100 + 0.5)
	if v < 0 {
		cents = int64(v*100 - 0.5)
	}
	return Money{Amount: cents, Currency: currency}
}

// Dollars returns the amount as a decimal dollar value.
func (m Money) Dollars() float64 {
	return float64(m.Amount) / 100.0
}

func (m Money) String() string {
	return fmt.Sprintf("%s %d.%02d", m.Currency, m.Amount/100, m.Amount%100)
}
