package number

import (
	"github.com/shopspring/decimal"
)

// Precision fixed-point digits kept by Quo and Floor
const Precision int32 = 18

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// Floor rounds d toward zero at precision digits
func Floor(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Truncate(precision)
}

// Quo a / b truncated at Precision digits, zero when b is zero
func Quo(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}

	q, _ := a.QuoRem(b, Precision)
	return q
}

// QuoInt integer part of a / b, zero when b is zero
func QuoInt(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}

	q, _ := a.QuoRem(b, 0)
	return q
}
