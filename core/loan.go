package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Loan borrowing side record, one per borrower
type Loan struct {
	ID         int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	UserID     string          `sql:"size:64;unique_index:idx_loans_user_id" json:"user_id"`
	Collateral decimal.Decimal `sql:"type:decimal(64,18)" json:"collateral"`
	Debt       decimal.Decimal `sql:"type:decimal(64,18)" json:"debt"`
	Active     bool            `json:"active"`
	Version    int64           `sql:"default:0" json:"version"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Settle recompute Active from the balances
func (l *Loan) Settle() {
	l.Active = l.Collateral.IsPositive() || l.Debt.IsPositive()
}

// Liquidation result of a successful liquidation
type Liquidation struct {
	Borrower   string          `json:"borrower"`
	Liquidator string          `json:"liquidator"`
	Collateral decimal.Decimal `json:"collateral"`
	Debt       decimal.Decimal `json:"debt"`
	Price      decimal.Decimal `json:"price"`
	Health     int64           `json:"health"`
	Policy     string          `json:"policy"`
}

// ILoanStore loan store interface
type ILoanStore interface {
	// Find returns a blank inactive record (ID 0) for unknown borrowers
	Find(ctx context.Context, tx *db.DB, userID string) (*Loan, error)
	Save(ctx context.Context, tx *db.DB, loan *Loan) error
}

// ILoanService collateral and loan engine interface
type ILoanService interface {
	DepositCollateral(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*Loan, error)
	Borrow(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*Loan, error)
	Repay(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*Loan, error)
	WithdrawCollateral(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*Loan, error)
	Liquidate(ctx context.Context, tx *db.DB, liquidator, borrower string) (*Liquidation, error)
	Find(ctx context.Context, tx *db.DB, userID string) (*Loan, error)
	MaxBorrow(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error)
	Health(ctx context.Context, tx *db.DB, userID string) (int64, error)
}
