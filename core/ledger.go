package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger operation surface for external callers. Every call is serialized
// against every other; mutations commit atomically with their journal entry.
type Ledger interface {
	Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*Deposit, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*Deposit, error)
	Balance(ctx context.Context, userID string) (decimal.Decimal, error)
	RawPrincipal(ctx context.Context, userID string) (decimal.Decimal, error)
	DepositRecord(ctx context.Context, userID string) (*Deposit, error)
	DepositState(ctx context.Context, userID string) (*DepositState, error)
	TotalLiquidity(ctx context.Context) (decimal.Decimal, error)
	InterestRate(ctx context.Context) (int64, error)
	SetInterestRate(ctx context.Context, caller string, bps int64) error

	DepositCollateral(ctx context.Context, userID string, amount decimal.Decimal) (*Loan, error)
	Borrow(ctx context.Context, userID string, amount decimal.Decimal) (*Loan, error)
	Repay(ctx context.Context, userID string, amount decimal.Decimal) (*Loan, error)
	WithdrawCollateral(ctx context.Context, userID string, amount decimal.Decimal) (*Loan, error)
	LoanDetails(ctx context.Context, userID string) (*Loan, error)
	MaxBorrow(ctx context.Context, userID string) (decimal.Decimal, error)
	Health(ctx context.Context, userID string) (int64, error)
	LoanState(ctx context.Context, userID string) (*LoanState, error)
	Liquidate(ctx context.Context, liquidator, borrower string) (*Liquidation, error)

	Price(ctx context.Context) (decimal.Decimal, error)
	SetPrice(ctx context.Context, caller string, price decimal.Decimal) error

	Approve(ctx context.Context, owner, spender string, amount decimal.Decimal) error
	TransferToken(ctx context.Context, from, to string, amount decimal.Decimal) error
	TokenBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	Allowance(ctx context.Context, owner, spender string) (decimal.Decimal, error)
	TokenSupply(ctx context.Context) (decimal.Decimal, error)
	TokenState(ctx context.Context, userID, spender string) (*TokenState, error)

	Transactions(ctx context.Context, fromID int64, limit int) ([]*Transaction, error)
}

// DepositState deposit record and its accrued balance read in one lane slot
type DepositState struct {
	Deposit *Deposit
	Balance decimal.Decimal
}

// LoanState loan with its borrow capacity and health read in one lane slot
type LoanState struct {
	Loan      *Loan
	MaxBorrow decimal.Decimal
	Health    int64
}

// TokenState debt token balance, allowance towards spender and supply read in one lane slot
type TokenState struct {
	Balance     decimal.Decimal
	Allowance   decimal.Decimal
	TotalSupply decimal.Decimal
}
