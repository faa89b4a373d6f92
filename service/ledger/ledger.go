// Package ledger is the operation surface external callers use. Every
// operation is admitted to one single-writer lane and runs alone; mutations run
// inside one storage transaction together with their journal entry.
package ledger

import (
	"context"
	"errors"
	"time"

	"lending/core"
	"lending/pkg/concurrency"
	"lending/pkg/id"
	"lending/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger ledger facade
type Ledger struct {
	db             core.Transactor
	lane           *concurrency.Lane
	depositService core.IDepositService
	loanService    core.ILoanService
	tokenService   core.ITokenService
	priceService   core.IPriceOracleService
	transactions   core.TransactionStore
	metrics        *metrics.LedgerMetrics
}

// New new ledger draining operations through lane
func New(
	database core.Transactor,
	lane *concurrency.Lane,
	depositService core.IDepositService,
	loanService core.ILoanService,
	tokenService core.ITokenService,
	priceService core.IPriceOracleService,
	transactions core.TransactionStore,
) *Ledger {
	return &Ledger{
		db:             database,
		lane:           lane,
		depositService: depositService,
		loanService:    loanService,
		tokenService:   tokenService,
		priceService:   priceService,
		transactions:   transactions,
		metrics:        metrics.Ledger(),
	}
}

// Close stop admitting operations and wait for the admitted ones
func (l *Ledger) Close() {
	l.lane.Close()
}

type mutation func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error

func (l *Ledger) mutate(ctx context.Context, action core.ActionType, userID string, amount decimal.Decimal, fn mutation) error {
	return l.lane.Do(ctx, func(ctx context.Context) error {
		start := time.Now()
		log := logger.FromContext(ctx).WithFields(logrus.Fields{
			"action": action,
			"user":   userID,
		})

		entry := &core.Transaction{
			TraceID: id.GenTraceID(),
			Action:  action,
			UserID:  userID,
			Amount:  amount,
		}

		err := l.db.Tx(func(tx *db.DB) error {
			extra := core.NewTransactionExtra()
			if err := fn(ctx, tx, extra); err != nil {
				return err
			}

			entry.SetExtraData(extra)
			return l.transactions.Create(ctx, tx, entry)
		})

		l.metrics.ObserveOperation(action.String(), err, time.Since(start))
		l.metrics.SetLanePending(l.lane.Pending())

		var code core.ErrorCode
		switch {
		case err == nil:
			log.Debugln("committed", entry.TraceID)
		case errors.As(err, &code):
			log.WithError(err).Debugln("rejected")
		default:
			log.WithError(err).Errorln("db.Tx")
		}

		return err
	})
}

func (l *Ledger) view(ctx context.Context, fn func(ctx context.Context) error) error {
	return l.lane.Do(ctx, fn)
}

func (l *Ledger) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*core.Deposit, error) {
	var deposit *core.Deposit
	err := l.mutate(ctx, core.ActionDeposit, userID, amount, func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		d, err := l.depositService.Deposit(ctx, tx, userID, amount)
		if err != nil {
			return err
		}

		extra.Put(core.TransactionKeyPrincipal, d.Principal)
		deposit = d
		return nil
	})

	return deposit, err
}

func (l *Ledger) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*core.Deposit, error) {
	var deposit *core.Deposit
	err := l.mutate(ctx, core.ActionWithdraw, userID, amount, func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		d, err := l.depositService.Withdraw(ctx, tx, userID, amount)
		if err != nil {
			return err
		}

		extra.Put(core.TransactionKeyPrincipal, d.Principal)
		deposit = d
		return nil
	})

	return deposit, err
}

func (l *Ledger) Balance(ctx context.Context, userID string) (balance decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		balance, err = l.depositService.Balance(ctx, nil, userID)
		return err
	})

	return
}

func (l *Ledger) RawPrincipal(ctx context.Context, userID string) (principal decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		principal, err = l.depositService.RawPrincipal(ctx, nil, userID)
		return err
	})

	return
}

func (l *Ledger) DepositRecord(ctx context.Context, userID string) (deposit *core.Deposit, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		deposit, err = l.depositService.Find(ctx, nil, userID)
		return err
	})

	return
}

func (l *Ledger) DepositState(ctx context.Context, userID string) (state *core.DepositState, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		deposit, err := l.depositService.Find(ctx, nil, userID)
		if err != nil {
			return err
		}

		balance, err := l.depositService.Balance(ctx, nil, userID)
		if err != nil {
			return err
		}

		state = &core.DepositState{Deposit: deposit, Balance: balance}
		return nil
	})

	return
}

func (l *Ledger) TotalLiquidity(ctx context.Context) (total decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		total, err = l.depositService.TotalLiquidity(ctx, nil)
		return err
	})

	return
}

func (l *Ledger) InterestRate(ctx context.Context) (bps int64, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		bps, err = l.depositService.InterestRate(ctx, nil)
		return err
	})

	return
}

func (l *Ledger) SetInterestRate(ctx context.Context, caller string, bps int64) error {
	return l.mutate(ctx, core.ActionSetInterestRate, caller, decimal.NewFromInt(bps), func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		extra.Put(core.TransactionKeyBps, bps)
		return l.depositService.SetInterestRate(ctx, tx, caller, bps)
	})
}

func (l *Ledger) DepositCollateral(ctx context.Context, userID string, amount decimal.Decimal) (*core.Loan, error) {
	return l.mutateLoan(ctx, core.ActionDepositCollateral, userID, amount, l.loanService.DepositCollateral)
}

func (l *Ledger) Borrow(ctx context.Context, userID string, amount decimal.Decimal) (*core.Loan, error) {
	return l.mutateLoan(ctx, core.ActionBorrow, userID, amount, l.loanService.Borrow)
}

func (l *Ledger) Repay(ctx context.Context, userID string, amount decimal.Decimal) (*core.Loan, error) {
	return l.mutateLoan(ctx, core.ActionRepay, userID, amount, l.loanService.Repay)
}

func (l *Ledger) WithdrawCollateral(ctx context.Context, userID string, amount decimal.Decimal) (*core.Loan, error) {
	return l.mutateLoan(ctx, core.ActionWithdrawCollateral, userID, amount, l.loanService.WithdrawCollateral)
}

type loanOperation func(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*core.Loan, error)

func (l *Ledger) mutateLoan(ctx context.Context, action core.ActionType, userID string, amount decimal.Decimal, op loanOperation) (*core.Loan, error) {
	var loan *core.Loan
	err := l.mutate(ctx, action, userID, amount, func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		v, err := op(ctx, tx, userID, amount)
		if err != nil {
			return err
		}

		extra.Put(core.TransactionKeyCollateral, v.Collateral)
		extra.Put(core.TransactionKeyDebt, v.Debt)
		loan = v
		return nil
	})

	return loan, err
}

func (l *Ledger) LoanDetails(ctx context.Context, userID string) (loan *core.Loan, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		loan, err = l.loanService.Find(ctx, nil, userID)
		return err
	})

	return
}

func (l *Ledger) MaxBorrow(ctx context.Context, userID string) (max decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		max, err = l.loanService.MaxBorrow(ctx, nil, userID)
		return err
	})

	return
}

func (l *Ledger) Health(ctx context.Context, userID string) (health int64, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		health, err = l.loanService.Health(ctx, nil, userID)
		return err
	})

	return
}

func (l *Ledger) LoanState(ctx context.Context, userID string) (state *core.LoanState, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		loan, err := l.loanService.Find(ctx, nil, userID)
		if err != nil {
			return err
		}

		max, err := l.loanService.MaxBorrow(ctx, nil, userID)
		if err != nil {
			return err
		}

		health, err := l.loanService.Health(ctx, nil, userID)
		if err != nil {
			return err
		}

		state = &core.LoanState{Loan: loan, MaxBorrow: max, Health: health}
		return nil
	})

	return
}

func (l *Ledger) Liquidate(ctx context.Context, liquidator, borrower string) (*core.Liquidation, error) {
	var liquidation *core.Liquidation
	err := l.mutate(ctx, core.ActionLiquidate, liquidator, decimal.Zero, func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		v, err := l.loanService.Liquidate(ctx, tx, liquidator, borrower)
		if err != nil {
			return err
		}

		extra.Put(core.TransactionKeyBorrower, v.Borrower)
		extra.Put(core.TransactionKeyCollateral, v.Collateral)
		extra.Put(core.TransactionKeyDebt, v.Debt)
		extra.Put(core.TransactionKeyPrice, v.Price)
		extra.Put(core.TransactionKeyHealth, v.Health)
		extra.Put(core.TransactionKeyPolicy, v.Policy)
		if v.Policy != core.LiquidationRepay {
			extra.Put(core.TransactionKeyBadDebt, v.Debt)
		}

		liquidation = v
		return nil
	})

	if err == nil {
		absorbed := liquidation.Debt
		if liquidation.Policy == core.LiquidationRepay {
			absorbed = decimal.Zero
		}

		l.metrics.ObserveLiquidation(liquidation.Policy, absorbed)
	}

	return liquidation, err
}

func (l *Ledger) Price(ctx context.Context) (price decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		price, err = l.priceService.Price(ctx, nil)
		return err
	})

	return
}

func (l *Ledger) SetPrice(ctx context.Context, caller string, price decimal.Decimal) error {
	return l.mutate(ctx, core.ActionSetPrice, caller, price, func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		return l.priceService.SetPrice(ctx, tx, caller, price)
	})
}

func (l *Ledger) Approve(ctx context.Context, owner, spender string, amount decimal.Decimal) error {
	return l.mutate(ctx, core.ActionApprove, owner, amount, func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		extra.Put(core.TransactionKeyOpponent, spender)
		return l.tokenService.Approve(ctx, tx, owner, spender, amount)
	})
}

func (l *Ledger) TransferToken(ctx context.Context, from, to string, amount decimal.Decimal) error {
	return l.mutate(ctx, core.ActionTransferToken, from, amount, func(ctx context.Context, tx *db.DB, extra core.TransactionExtraData) error {
		extra.Put(core.TransactionKeyOpponent, to)
		return l.tokenService.Transfer(ctx, tx, from, to, amount)
	})
}

func (l *Ledger) TokenBalance(ctx context.Context, userID string) (balance decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		balance, err = l.tokenService.BalanceOf(ctx, nil, userID)
		return err
	})

	return
}

func (l *Ledger) Allowance(ctx context.Context, owner, spender string) (amount decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		amount, err = l.tokenService.Allowance(ctx, nil, owner, spender)
		return err
	})

	return
}

func (l *Ledger) TokenSupply(ctx context.Context) (supply decimal.Decimal, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		supply, err = l.tokenService.TotalSupply(ctx, nil)
		return err
	})

	return
}

func (l *Ledger) TokenState(ctx context.Context, userID, spender string) (state *core.TokenState, err error) {
	err = l.view(ctx, func(ctx context.Context) error {
		balance, err := l.tokenService.BalanceOf(ctx, nil, userID)
		if err != nil {
			return err
		}

		allowance, err := l.tokenService.Allowance(ctx, nil, userID, spender)
		if err != nil {
			return err
		}

		supply, err := l.tokenService.TotalSupply(ctx, nil)
		if err != nil {
			return err
		}

		state = &core.TokenState{Balance: balance, Allowance: allowance, TotalSupply: supply}
		return nil
	})

	return
}

// Transactions journal entries after fromID; the journal is append only so it
// is read outside the lane
func (l *Ledger) Transactions(ctx context.Context, fromID int64, limit int) ([]*core.Transaction, error) {
	return l.transactions.List(ctx, fromID, limit)
}
