package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"lending/core"
	"lending/pkg/concurrency"
	"lending/pkg/lending"
	"lending/pkg/number"
	"lending/service/clock"
	"lending/service/deposit"
	"lending/service/loan"
	"lending/service/oracle"
	"lending/service/token"
	"lending/service/wallet"
	"lending/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	admin  = "admin"
	engine = "engine"
)

type fixture struct {
	*Ledger
	db    *memory.Database
	clock *clock.Manual
}

func newFixture(t *testing.T, policy string) *fixture {
	cfg := &core.Config{
		App: core.App{
			EngineID:          engine,
			CollateralRatio:   150,
			LiquidationPolicy: policy,
		},
		Admins: []string{admin},
	}

	database := memory.New()
	clk := clock.NewManual(time.Unix(1700000000, 0))
	wallets := wallet.New(database.Transfers(), wallet.Config{})
	prices := oracle.New(cfg, database.Parameters())
	tokens := token.New(engine, database.Tokens(), database.Parameters())
	deposits := deposit.New(cfg, database.Deposits(), database.Parameters(), wallets, clk)
	loans := loan.New(cfg, database.Loans(), tokens, prices, wallets)

	l := New(database, concurrency.NewLane(16), deposits, loans, tokens, prices, database.Transactions())
	t.Cleanup(l.Close)

	return &fixture{Ledger: l, db: database, clock: clk}
}

func (f *fixture) pending(t *testing.T) []*core.Transfer {
	transfers, err := f.db.Transfers().ListPending(context.Background(), 100)
	require.NoError(t, err)
	return transfers
}

func (f *fixture) journal(t *testing.T) []*core.Transaction {
	list, err := f.Transactions(context.Background(), 0, 100)
	require.NoError(t, err)
	return list
}

func d(v string) decimal.Decimal {
	return number.Decimal(v)
}

func TestScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	require.NoError(t, f.SetPrice(ctx, admin, d("2000")))

	loan, err := f.DepositCollateral(ctx, "bob", d("2"))
	require.NoError(t, err)
	assert.True(t, loan.Active)

	max, err := f.MaxBorrow(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "2666.666666666666666666", max.String())

	_, err = f.Borrow(ctx, "bob", d("2000"))
	require.NoError(t, err)

	health, err := f.Health(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 133, health)

	balance, err := f.TokenBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "2000", balance.String())

	require.NoError(t, f.SetPrice(ctx, admin, d("1500")))
	health, err = f.Health(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 100, health)

	_, err = f.Liquidate(ctx, "carol", "bob")
	assert.ErrorIs(t, err, core.ErrLoanHealthy)

	require.NoError(t, f.SetPrice(ctx, admin, d("1000")))
	health, err = f.Health(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 66, health)

	liquidation, err := f.Liquidate(ctx, "carol", "bob")
	require.NoError(t, err)
	assert.Equal(t, "2", liquidation.Collateral.String())
	assert.Equal(t, "2000", liquidation.Debt.String())
	assert.EqualValues(t, 66, liquidation.Health)

	loan, err = f.LoanDetails(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, loan.Active)
	assert.True(t, loan.Collateral.IsZero())
	assert.True(t, loan.Debt.IsZero())

	// absorbed: the minted tokens stay with the borrower
	balance, err = f.TokenBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "2000", balance.String())

	pending := f.pending(t)
	require.Len(t, pending, 1)
	assert.Equal(t, "carol", pending[0].OpponentID)
	assert.Equal(t, "2", pending[0].Amount.String())

	_, err = f.Liquidate(ctx, "carol", "bob")
	assert.ErrorIs(t, err, core.ErrLoanHealthy)

	// reopen after liquidation
	loan, err = f.DepositCollateral(ctx, "bob", d("1"))
	require.NoError(t, err)
	assert.True(t, loan.Active)
}

func TestBorrowCapacityBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	require.NoError(t, f.SetPrice(ctx, admin, d("2000")))
	_, err := f.DepositCollateral(ctx, "bob", d("2"))
	require.NoError(t, err)

	max, err := f.MaxBorrow(ctx, "bob")
	require.NoError(t, err)

	_, err = f.Borrow(ctx, "bob", max.Add(decimal.New(1, -18)))
	assert.ErrorIs(t, err, core.ErrExceedsCapacity)

	_, err = f.Borrow(ctx, "bob", max)
	require.NoError(t, err)

	health, err := f.Health(ctx, "bob")
	require.NoError(t, err)
	assert.EqualValues(t, 100, health)

	_, err = f.Borrow(ctx, "bob", decimal.New(1, -18))
	assert.ErrorIs(t, err, core.ErrExceedsCapacity)

	_, err = f.Borrow(ctx, "nobody", d("1"))
	assert.ErrorIs(t, err, core.ErrExceedsCapacity)
}

func TestDepositWithdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	_, err := f.Deposit(ctx, "alice", d("100"))
	require.NoError(t, err)

	_, err = f.Withdraw(ctx, "alice", d("100"))
	require.NoError(t, err)

	balance, err := f.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	pending := f.pending(t)
	require.Len(t, pending, 1)
	assert.Equal(t, "100", pending[0].Amount.String())
	assert.Equal(t, "alice", pending[0].OpponentID)

	_, err = f.Withdraw(ctx, "alice", d("0.000000000000000001"))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	_, err = f.Withdraw(ctx, "stranger", d("1"))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	_, err = f.Deposit(ctx, "alice", decimal.Zero)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = f.Deposit(ctx, "alice", d("-1"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = f.Deposit(ctx, "alice", d("0.0000000000000000001"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestInterestAccrual(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	_, err := f.Deposit(ctx, "alice", d("1000"))
	require.NoError(t, err)

	prev := d("1000")
	for i := 0; i < 12; i++ {
		f.clock.Advance(730 * time.Hour)
		balance, err := f.Balance(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, balance.GreaterThanOrEqual(prev))
		prev = balance
	}

	f.clock.Set(time.Unix(1700000000+31536000, 0))
	balance, err := f.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1050", balance.String())

	principal, err := f.RawPrincipal(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1000", principal.String())

	deposit, err := f.Deposit(ctx, "alice", d("1"))
	require.NoError(t, err)
	assert.Equal(t, "1051", deposit.Principal.String())

	balance, err = f.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1051", balance.String())

	total, err := f.TotalLiquidity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1051", total.String())
}

func TestInterestRate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	bps, err := f.InterestRate(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 500, bps)

	assert.ErrorIs(t, f.SetInterestRate(ctx, "alice", 1000), core.ErrUnauthorized)
	assert.ErrorIs(t, f.SetInterestRate(ctx, admin, -1), core.ErrInvalidAmount)

	_, err = f.Deposit(ctx, "alice", d("1000"))
	require.NoError(t, err)

	// no re-basing: the new rate applies from alice's own last touch
	f.clock.Advance(365 * 24 * time.Hour)
	require.NoError(t, f.SetInterestRate(ctx, admin, 1000))

	balance, err := f.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1100", balance.String())
}

func TestPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	price, err := f.Price(ctx)
	require.NoError(t, err)
	assert.True(t, price.IsZero())

	assert.ErrorIs(t, f.SetPrice(ctx, "mallory", d("1")), core.ErrUnauthorized)
	require.NoError(t, f.SetPrice(ctx, admin, d("1234.5")))

	price, err = f.Price(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1234.5", price.String())
}

func TestRepay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	require.NoError(t, f.SetPrice(ctx, admin, d("2000")))
	_, err := f.DepositCollateral(ctx, "bob", d("2"))
	require.NoError(t, err)
	_, err = f.Borrow(ctx, "bob", d("2000"))
	require.NoError(t, err)

	_, err = f.Repay(ctx, "bob", d("1000"))
	assert.ErrorIs(t, err, core.ErrInsufficientAllowance)

	_, err = f.Repay(ctx, "bob", d("2000.1"))
	assert.ErrorIs(t, err, core.ErrExceedsDebt)

	require.NoError(t, f.Approve(ctx, "bob", engine, d("1000")))
	loan, err := f.Repay(ctx, "bob", d("1000"))
	require.NoError(t, err)
	assert.Equal(t, "1000", loan.Debt.String())

	balance, err := f.TokenBalance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "1000", balance.String())

	supply, err := f.TokenSupply(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1000", supply.String())

	allowance, err := f.Allowance(ctx, "bob", engine)
	require.NoError(t, err)
	assert.True(t, allowance.IsZero())

	// tokens moved away: allowance is there but the balance is not
	require.NoError(t, f.TransferToken(ctx, "bob", "dave", d("1000")))
	require.NoError(t, f.Approve(ctx, "bob", engine, d("1000")))
	_, err = f.Repay(ctx, "bob", d("1000"))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	require.NoError(t, f.TransferToken(ctx, "dave", "bob", d("1000")))
	loan, err = f.Repay(ctx, "bob", d("1000"))
	require.NoError(t, err)
	assert.True(t, loan.Debt.IsZero())
	assert.True(t, loan.Active)

	loan, err = f.WithdrawCollateral(ctx, "bob", d("2"))
	require.NoError(t, err)
	assert.False(t, loan.Active)

	supply, err = f.TokenSupply(ctx)
	require.NoError(t, err)
	assert.True(t, supply.IsZero())
}

func TestWithdrawCollateral(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	require.NoError(t, f.SetPrice(ctx, admin, d("2000")))
	_, err := f.DepositCollateral(ctx, "bob", d("2"))
	require.NoError(t, err)
	_, err = f.Borrow(ctx, "bob", d("2000"))
	require.NoError(t, err)

	_, err = f.WithdrawCollateral(ctx, "bob", d("3"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = f.WithdrawCollateral(ctx, "bob", d("0"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	// 1.5 collateral covers exactly 2000 at 2000 and 150%
	_, err = f.WithdrawCollateral(ctx, "bob", d("0.500000000000000001"))
	assert.ErrorIs(t, err, core.ErrUnsafeRatio)

	loan, err := f.LoanDetails(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "2", loan.Collateral.String())
	assert.Empty(t, f.pending(t))

	loan, err = f.WithdrawCollateral(ctx, "bob", d("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", loan.Collateral.String())

	pending := f.pending(t)
	require.Len(t, pending, 1)
	assert.Equal(t, "0.5", pending[0].Amount.String())
}

func TestLiquidateRepayPolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationRepay)

	require.NoError(t, f.SetPrice(ctx, admin, d("2000")))
	_, err := f.DepositCollateral(ctx, "bob", d("2"))
	require.NoError(t, err)
	_, err = f.Borrow(ctx, "bob", d("2000"))
	require.NoError(t, err)

	// carol acquires the debt asset to repay with
	require.NoError(t, f.TransferToken(ctx, "bob", "carol", d("2000")))
	require.NoError(t, f.SetPrice(ctx, admin, d("1000")))

	_, err = f.Liquidate(ctx, "carol", "bob")
	assert.ErrorIs(t, err, core.ErrInsufficientAllowance)

	loan, err := f.LoanDetails(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, loan.Active)

	require.NoError(t, f.Approve(ctx, "carol", engine, d("2000")))
	liquidation, err := f.Liquidate(ctx, "carol", "bob")
	require.NoError(t, err)
	assert.Equal(t, core.LiquidationRepay, liquidation.Policy)

	supply, err := f.TokenSupply(ctx)
	require.NoError(t, err)
	assert.True(t, supply.IsZero())
}

func TestFailedOperationLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	_, err := f.Deposit(ctx, "alice", d("10"))
	require.NoError(t, err)
	before := f.journal(t)

	_, err = f.Withdraw(ctx, "alice", d("11"))
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	assert.Len(t, f.journal(t), len(before))
	assert.Empty(t, f.pending(t))

	journal := f.journal(t)
	require.Len(t, journal, 1)
	assert.Equal(t, core.ActionDeposit, journal[0].Action)
	assert.Equal(t, "alice", journal[0].UserID)
	assert.JSONEq(t, `{"principal":"10"}`, string(journal[0].Data))
}

func TestConcurrentDeposits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.Deposit(ctx, "alice", d("1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	principal, err := f.RawPrincipal(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "100", principal.String())
	assert.Len(t, f.journal(t), 100)
}

func TestCancelledContext(t *testing.T) {
	f := newFixture(t, core.LiquidationAbsorb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Deposit(ctx, "alice", d("1"))
	assert.ErrorIs(t, err, context.Canceled)

	principal, err := f.RawPrincipal(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, principal.IsZero())
}

func TestLoanStateConsistentUnderWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	price := d("2000")
	require.NoError(t, f.SetPrice(ctx, admin, price))
	_, err := f.DepositCollateral(ctx, "bob", d("1"))
	require.NoError(t, err)
	_, err = f.Borrow(ctx, "bob", d("1000"))
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_, err := f.DepositCollateral(ctx, "bob", d("0.5"))
			assert.NoError(t, err)
		}
	}()

	for i := 0; i < 50; i++ {
		state, err := f.LoanState(ctx, "bob")
		require.NoError(t, err)

		loan := state.Loan
		assert.Equal(t, lending.MaxBorrow(loan.Collateral, price, 150).String(), state.MaxBorrow.String())
		assert.Equal(t, lending.Health(loan.Collateral, price, loan.Debt, 150), state.Health)
	}

	<-done

	state, err := f.LoanState(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "26", state.Loan.Collateral.String())
	assert.EqualValues(t, 3466, state.Health)
}

func TestDepositAndTokenState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, core.LiquidationAbsorb)

	_, err := f.Deposit(ctx, "alice", d("1000"))
	require.NoError(t, err)

	deposit, err := f.DepositState(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1000", deposit.Deposit.Principal.String())
	assert.Equal(t, "1000", deposit.Balance.String())

	f.clock.Advance(365 * 24 * time.Hour)
	deposit, err = f.DepositState(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1000", deposit.Deposit.Principal.String())
	assert.Equal(t, "1050", deposit.Balance.String())

	require.NoError(t, f.SetPrice(ctx, admin, d("2000")))
	_, err = f.DepositCollateral(ctx, "bob", d("2"))
	require.NoError(t, err)
	_, err = f.Borrow(ctx, "bob", d("2000"))
	require.NoError(t, err)
	require.NoError(t, f.Approve(ctx, "bob", engine, d("300")))

	token, err := f.TokenState(ctx, "bob", engine)
	require.NoError(t, err)
	assert.Equal(t, "2000", token.Balance.String())
	assert.Equal(t, "300", token.Allowance.String())
	assert.Equal(t, "2000", token.TotalSupply.String())
}
