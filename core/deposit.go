package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Deposit lending side record, one per depositor
type Deposit struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	UserID    string          `sql:"size:64;unique_index:idx_deposits_user_id" json:"user_id"`
	Principal decimal.Decimal `sql:"type:decimal(64,18)" json:"principal"`
	// AccruedAt unix seconds at which the principal was last settled
	AccruedAt int64     `json:"accrued_at"`
	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IDepositStore deposit store interface
type IDepositStore interface {
	// Find returns a blank record (ID 0) when the user never deposited
	Find(ctx context.Context, tx *db.DB, userID string) (*Deposit, error)
	Save(ctx context.Context, tx *db.DB, deposit *Deposit) error
	Sum(ctx context.Context, tx *db.DB) (decimal.Decimal, error)
}

// IDepositService deposit ledger interface
type IDepositService interface {
	Deposit(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*Deposit, error)
	Withdraw(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*Deposit, error)
	Balance(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error)
	RawPrincipal(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error)
	Find(ctx context.Context, tx *db.DB, userID string) (*Deposit, error)
	TotalLiquidity(ctx context.Context, tx *db.DB) (decimal.Decimal, error)
	InterestRate(ctx context.Context, tx *db.DB) (int64, error)
	SetInterestRate(ctx context.Context, tx *db.DB, caller string, bps int64) error
}
