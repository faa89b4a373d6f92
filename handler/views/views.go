package views

import (
	"lending/core"

	"github.com/shopspring/decimal"
)

// Deposit deposit view
type Deposit struct {
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Principal decimal.Decimal `json:"principal"`
	AccruedAt int64           `json:"accrued_at"`
}

// Loan loan view
type Loan struct {
	UserID     string          `json:"user_id"`
	Collateral decimal.Decimal `json:"collateral"`
	Debt       decimal.Decimal `json:"debt"`
	Active     bool            `json:"active"`
	MaxBorrow  decimal.Decimal `json:"max_borrow"`
	Health     int64           `json:"health"`
}

// Token debt token view
type Token struct {
	UserID      string          `json:"user_id"`
	Balance     decimal.Decimal `json:"balance"`
	Allowance   decimal.Decimal `json:"allowance"`
	TotalSupply decimal.Decimal `json:"total_supply"`
}

func DepositView(d *core.Deposit, balance decimal.Decimal) Deposit {
	return Deposit{
		UserID:    d.UserID,
		Balance:   balance,
		Principal: d.Principal,
		AccruedAt: d.AccruedAt,
	}
}

func LoanView(loan *core.Loan, maxBorrow decimal.Decimal, health int64) Loan {
	return Loan{
		UserID:     loan.UserID,
		Collateral: loan.Collateral,
		Debt:       loan.Debt,
		Active:     loan.Active,
		MaxBorrow:  maxBorrow,
		Health:     health,
	}
}
