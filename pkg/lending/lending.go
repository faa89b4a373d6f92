package lending

import (
	"math"

	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

const (
	// SecondsPerYear accrual year, 365 days
	SecondsPerYear int64 = 31536000
	// BasisPoints basis points per unit
	BasisPoints int64 = 10000
	// HealthBoundary health at exactly the required ratio
	HealthBoundary int64 = 100
)

var (
	hundred     = decimal.NewFromInt(100)
	tenThousand = decimal.NewFromInt(10000)
	yearBps     = decimal.NewFromInt(BasisPoints * SecondsPerYear)
)

// Interest simple interest accrued over seconds
// interest = floor(principal * bps * seconds / (10000 * seconds_per_year))
func Interest(principal decimal.Decimal, bps, seconds int64) decimal.Decimal {
	if seconds <= 0 || bps <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}

	n := principal.Mul(decimal.NewFromInt(bps)).Mul(decimal.NewFromInt(seconds))
	return number.Quo(n, yearBps)
}

// AccruedBalance principal plus the interest accrued between from and to (unix seconds)
func AccruedBalance(principal decimal.Decimal, bps, from, to int64) decimal.Decimal {
	return principal.Add(Interest(principal, bps, to-from))
}

// MaxBorrow borrow capacity of the collateral
// max = floor(collateral * price * 100 / ratio)
func MaxBorrow(collateral, price decimal.Decimal, ratio int64) decimal.Decimal {
	if !collateral.IsPositive() || !price.IsPositive() || ratio <= 0 {
		return decimal.Zero
	}

	return number.Quo(collateral.Mul(price).Mul(hundred), decimal.NewFromInt(ratio))
}

// Covers reports whether the collateral backs debt at the required ratio
func Covers(collateral, price, debt decimal.Decimal, ratio int64) bool {
	if !debt.IsPositive() {
		return true
	}

	return debt.LessThanOrEqual(MaxBorrow(collateral, price, ratio))
}

// Health integer percentage of the required collateral value, 100 is the boundary
// health = floor(100 * collateral * price / (debt * ratio / 100))
func Health(collateral, price, debt decimal.Decimal, ratio int64) int64 {
	if !debt.IsPositive() || ratio <= 0 {
		return 0
	}

	value := collateral.Mul(price).Mul(tenThousand)
	h := number.QuoInt(value, debt.Mul(decimal.NewFromInt(ratio)))
	if h.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return math.MaxInt64
	}

	if h.IsNegative() {
		return 0
	}

	return h.IntPart()
}

// Liquidatable reports whether a loan with this health may be liquidated
func Liquidatable(health int64) bool {
	return health < HealthBoundary
}
