package lending

import (
	"testing"

	"lending/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInterest(t *testing.T) {
	principal := number.Decimal("1000")

	assert.Equal(t, "50", Interest(principal, 500, SecondsPerYear).String())
	assert.Equal(t, "25", Interest(principal, 500, SecondsPerYear/2).String())
	assert.Equal(t, "0.000001585489599188", Interest(principal, 500, 1).String())

	assert.True(t, Interest(principal, 500, 0).IsZero())
	assert.True(t, Interest(principal, 500, -10).IsZero())
	assert.True(t, Interest(principal, 0, SecondsPerYear).IsZero())
	assert.True(t, Interest(decimal.Zero, 500, SecondsPerYear).IsZero())
}

func TestAccruedBalance(t *testing.T) {
	principal := number.Decimal("1000")

	t.Run("same instant", func(t *testing.T) {
		assert.True(t, principal.Equal(AccruedBalance(principal, 500, 100, 100)))
	})

	t.Run("clock went backwards", func(t *testing.T) {
		assert.True(t, principal.Equal(AccruedBalance(principal, 500, 100, 50)))
	})

	t.Run("monotonic", func(t *testing.T) {
		prev := principal
		for s := int64(0); s <= SecondsPerYear; s += SecondsPerYear / 12 {
			b := AccruedBalance(principal, 500, 0, s)
			assert.True(t, b.GreaterThanOrEqual(prev))
			prev = b
		}
		assert.Equal(t, "1050", prev.String())
	})
}

func TestMaxBorrow(t *testing.T) {
	price := number.Decimal("2000")

	assert.Equal(t, "2666.666666666666666666", MaxBorrow(number.Decimal("2"), price, 150).String())
	assert.Equal(t, "2000", MaxBorrow(number.Decimal("1.5"), price, 150).String())
	assert.True(t, MaxBorrow(decimal.Zero, price, 150).IsZero())
	assert.True(t, MaxBorrow(number.Decimal("2"), decimal.Zero, 150).IsZero())
}

func TestCovers(t *testing.T) {
	collateral := number.Decimal("2")
	price := number.Decimal("2000")
	max := MaxBorrow(collateral, price, 150)

	assert.True(t, Covers(collateral, price, decimal.Zero, 150))
	assert.True(t, Covers(decimal.Zero, price, decimal.Zero, 150))
	assert.True(t, Covers(collateral, price, max, 150))
	assert.False(t, Covers(collateral, price, max.Add(decimal.New(1, -18)), 150))
	assert.False(t, Covers(decimal.Zero, price, number.Decimal("1"), 150))
}

func TestHealth(t *testing.T) {
	collateral := number.Decimal("2")
	debt := number.Decimal("2000")

	assert.EqualValues(t, 133, Health(collateral, number.Decimal("2000"), debt, 150))
	assert.EqualValues(t, 100, Health(collateral, number.Decimal("1500"), debt, 150))
	assert.EqualValues(t, 66, Health(collateral, number.Decimal("1000"), debt, 150))
	assert.EqualValues(t, 0, Health(collateral, number.Decimal("1000"), decimal.Zero, 150))

	max := MaxBorrow(collateral, number.Decimal("2000"), 150)
	assert.EqualValues(t, 100, Health(collateral, number.Decimal("2000"), max, 150))

	assert.False(t, Liquidatable(100))
	assert.True(t, Liquidatable(99))
}

// a price drop by fraction f scales health by (1 - f)
func TestHealthProportional(t *testing.T) {
	collateral := number.Decimal("10")
	debt := number.Decimal("1000")

	base := Health(collateral, number.Decimal("300"), debt, 150)
	half := Health(collateral, number.Decimal("150"), debt, 150)
	assert.EqualValues(t, 200, base)
	assert.EqualValues(t, base/2, half)
}
