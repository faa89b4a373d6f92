package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

const (
	// ParameterInterestRate deposit interest rate in basis points
	ParameterInterestRate = "interest_rate_bps"
	// ParameterOraclePrice collateral price
	ParameterOraclePrice = "oracle_price"
	// ParameterTokenSupply debt token total supply
	ParameterTokenSupply = "token_total_supply"
)

// Parameter process wide scalar
type Parameter struct {
	Name      string    `sql:"size:64;PRIMARY_KEY" json:"name"`
	Value     string    `sql:"size:128" json:"value"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IParameterStore parameter store interface
type IParameterStore interface {
	// Get returns "" for unset parameters
	Get(ctx context.Context, tx *db.DB, name string) (string, error)
	Set(ctx context.Context, tx *db.DB, name, value string) error
}
