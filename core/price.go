package core

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// IPriceOracleService price oracle interface
type IPriceOracleService interface {
	// Price collateral price in the unit of account, zero until set
	Price(ctx context.Context, tx *db.DB) (decimal.Decimal, error)
	SetPrice(ctx context.Context, tx *db.DB, caller string, price decimal.Decimal) error
}
