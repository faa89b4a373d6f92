package core

import (
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// Precision fractional digits carried by every amount
const Precision = 18

// ValidAmount reports whether d fits the fixed-point precision
func ValidAmount(d decimal.Decimal) bool {
	return d.Equal(number.Floor(d, Precision))
}

// RequirePositive returns ErrInvalidAmount unless amount is a positive fixed-point value
func RequirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() || !ValidAmount(amount) {
		return ErrInvalidAmount
	}

	return nil
}

// RequireNonNegative returns ErrInvalidAmount for negative or malformed amounts
func RequireNonNegative(amount decimal.Decimal) error {
	if amount.IsNegative() || !ValidAmount(amount) {
		return ErrInvalidAmount
	}

	return nil
}
