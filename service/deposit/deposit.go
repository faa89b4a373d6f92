package deposit

import (
	"context"

	"lending/core"
	"lending/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

type depositService struct {
	config        *core.Config
	depositStore  core.IDepositStore
	params        core.IParameterStore
	walletService core.IWalletService
	clock         core.Clock
}

// New new deposit ledger
func New(
	cfg *core.Config,
	depositStore core.IDepositStore,
	params core.IParameterStore,
	walletService core.IWalletService,
	clock core.Clock,
) core.IDepositService {
	return &depositService{
		config:        cfg,
		depositStore:  depositStore,
		params:        params,
		walletService: walletService,
		clock:         clock,
	}
}

func (s *depositService) InterestRate(ctx context.Context, tx *db.DB) (int64, error) {
	v, err := s.params.Get(ctx, tx, core.ParameterInterestRate)
	if err != nil {
		return 0, err
	}

	if v == "" {
		return s.config.App.InterestRate(), nil
	}

	return cast.ToInt64E(v)
}

// SetInterestRate replace the global rate; accrued interest of each depositor
// is settled at the new rate from their own last touch
func (s *depositService) SetInterestRate(ctx context.Context, tx *db.DB, caller string, bps int64) error {
	if !s.config.IsAdmin(caller) {
		return core.ErrUnauthorized
	}

	if bps < 0 {
		return core.ErrInvalidAmount
	}

	return s.params.Set(ctx, tx, core.ParameterInterestRate, cast.ToString(bps))
}

// accrue capitalize the interest since the last marker and move the marker to now
func (s *depositService) accrue(ctx context.Context, tx *db.DB, deposit *core.Deposit) error {
	now := s.clock.Now().Unix()
	if deposit.ID > 0 {
		bps, err := s.InterestRate(ctx, tx)
		if err != nil {
			return err
		}

		deposit.Principal = lending.AccruedBalance(deposit.Principal, bps, deposit.AccruedAt, now)
	}

	deposit.AccruedAt = now
	return nil
}

func (s *depositService) Deposit(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*core.Deposit, error) {
	if err := core.RequirePositive(amount); err != nil {
		return nil, err
	}

	deposit, err := s.depositStore.Find(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.accrue(ctx, tx, deposit); err != nil {
		return nil, err
	}

	deposit.Principal = deposit.Principal.Add(amount)
	if err := s.depositStore.Save(ctx, tx, deposit); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("deposits.Save")
		return nil, err
	}

	return deposit, nil
}

func (s *depositService) Withdraw(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*core.Deposit, error) {
	if err := core.RequirePositive(amount); err != nil {
		return nil, err
	}

	deposit, err := s.depositStore.Find(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if deposit.ID == 0 {
		return nil, core.ErrInsufficientBalance
	}

	if err := s.accrue(ctx, tx, deposit); err != nil {
		return nil, err
	}

	if amount.GreaterThan(deposit.Principal) {
		return nil, core.ErrInsufficientBalance
	}

	deposit.Principal = deposit.Principal.Sub(amount)
	if err := s.depositStore.Save(ctx, tx, deposit); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("deposits.Save")
		return nil, err
	}

	if _, err := s.walletService.Transfer(ctx, tx, userID, amount, "withdraw"); err != nil {
		return nil, err
	}

	return deposit, nil
}

func (s *depositService) Balance(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error) {
	deposit, err := s.depositStore.Find(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if deposit.ID == 0 {
		return decimal.Zero, nil
	}

	bps, err := s.InterestRate(ctx, tx)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.AccruedBalance(deposit.Principal, bps, deposit.AccruedAt, s.clock.Now().Unix()), nil
}

func (s *depositService) RawPrincipal(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error) {
	deposit, err := s.depositStore.Find(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return deposit.Principal, nil
}

func (s *depositService) Find(ctx context.Context, tx *db.DB, userID string) (*core.Deposit, error) {
	return s.depositStore.Find(ctx, tx, userID)
}

// TotalLiquidity sum of recorded principals, uncapitalized interest excluded
func (s *depositService) TotalLiquidity(ctx context.Context, tx *db.DB) (decimal.Decimal, error) {
	return s.depositStore.Sum(ctx, tx)
}
