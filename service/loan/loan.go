package loan

import (
	"context"

	"lending/core"
	"lending/pkg/lending"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type loanService struct {
	config        *core.Config
	loanStore     core.ILoanStore
	tokenService  core.ITokenService
	priceService  core.IPriceOracleService
	walletService core.IWalletService
}

// New new collateral and loan engine. The engine acts as cfg.App.EngineID,
// which must be the owner of tokenService.
func New(
	cfg *core.Config,
	loanStore core.ILoanStore,
	tokenService core.ITokenService,
	priceService core.IPriceOracleService,
	walletService core.IWalletService,
) core.ILoanService {
	return &loanService{
		config:        cfg,
		loanStore:     loanStore,
		tokenService:  tokenService,
		priceService:  priceService,
		walletService: walletService,
	}
}

func (s *loanService) engine() string {
	return s.config.App.EngineID
}

func (s *loanService) ratio() int64 {
	return s.config.App.CollateralRatio
}

func (s *loanService) Find(ctx context.Context, tx *db.DB, userID string) (*core.Loan, error) {
	return s.loanStore.Find(ctx, tx, userID)
}

func (s *loanService) DepositCollateral(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*core.Loan, error) {
	if err := core.RequirePositive(amount); err != nil {
		return nil, err
	}

	loan, err := s.loanStore.Find(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	loan.Collateral = loan.Collateral.Add(amount)
	loan.Active = true
	if err := s.loanStore.Save(ctx, tx, loan); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("loans.Save")
		return nil, err
	}

	return loan, nil
}

// MaxBorrow max = collateral * price / ratio, with the live price
func (s *loanService) MaxBorrow(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error) {
	loan, err := s.loanStore.Find(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if !loan.Collateral.IsPositive() {
		return decimal.Zero, nil
	}

	price, err := s.priceService.Price(ctx, tx)
	if err != nil {
		return decimal.Zero, err
	}

	return lending.MaxBorrow(loan.Collateral, price, s.ratio()), nil
}

func (s *loanService) Borrow(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*core.Loan, error) {
	if err := core.RequirePositive(amount); err != nil {
		return nil, err
	}

	loan, err := s.loanStore.Find(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	price, err := s.priceService.Price(ctx, tx)
	if err != nil {
		return nil, err
	}

	debt := loan.Debt.Add(amount)
	if debt.GreaterThan(lending.MaxBorrow(loan.Collateral, price, s.ratio())) {
		return nil, core.ErrExceedsCapacity
	}

	loan.Debt = debt
	loan.Settle()
	if err := s.loanStore.Save(ctx, tx, loan); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("loans.Save")
		return nil, err
	}

	if err := s.tokenService.Mint(ctx, tx, s.engine(), userID, amount); err != nil {
		return nil, err
	}

	return loan, nil
}

// Repay pull amount of debt asset from the borrower into the engine and burn it
func (s *loanService) Repay(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*core.Loan, error) {
	if err := core.RequirePositive(amount); err != nil {
		return nil, err
	}

	loan, err := s.loanStore.Find(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(loan.Debt) {
		return nil, core.ErrExceedsDebt
	}

	if err := s.pullAndBurn(ctx, tx, userID, amount); err != nil {
		return nil, err
	}

	loan.Debt = loan.Debt.Sub(amount)
	loan.Settle()
	if err := s.loanStore.Save(ctx, tx, loan); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("loans.Save")
		return nil, err
	}

	return loan, nil
}

func (s *loanService) WithdrawCollateral(ctx context.Context, tx *db.DB, userID string, amount decimal.Decimal) (*core.Loan, error) {
	if err := core.RequirePositive(amount); err != nil {
		return nil, err
	}

	loan, err := s.loanStore.Find(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if amount.GreaterThan(loan.Collateral) {
		return nil, core.ErrInvalidAmount
	}

	price, err := s.priceService.Price(ctx, tx)
	if err != nil {
		return nil, err
	}

	remaining := loan.Collateral.Sub(amount)
	if !lending.Covers(remaining, price, loan.Debt, s.ratio()) {
		return nil, core.ErrUnsafeRatio
	}

	loan.Collateral = remaining
	loan.Settle()
	if err := s.loanStore.Save(ctx, tx, loan); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("loans.Save")
		return nil, err
	}

	if _, err := s.walletService.Transfer(ctx, tx, userID, amount, "withdraw collateral"); err != nil {
		return nil, err
	}

	return loan, nil
}

// Health floor(100 * collateral * price / (debt * ratio)), 0 without debt
func (s *loanService) Health(ctx context.Context, tx *db.DB, userID string) (int64, error) {
	loan, err := s.loanStore.Find(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	if !loan.Debt.IsPositive() {
		return 0, nil
	}

	price, err := s.priceService.Price(ctx, tx)
	if err != nil {
		return 0, err
	}

	return lending.Health(loan.Collateral, price, loan.Debt, s.ratio()), nil
}

// Liquidate seize the whole collateral of an unhealthy loan for the liquidator.
//
// Under LiquidationRepay the liquidator must have approved the engine for the
// full debt, which is pulled and burned. Under LiquidationAbsorb the debt is
// written off and the borrower keeps the minted tokens.
func (s *loanService) Liquidate(ctx context.Context, tx *db.DB, liquidator, borrower string) (*core.Liquidation, error) {
	log := logger.FromContext(ctx).WithField("borrower", borrower)

	loan, err := s.loanStore.Find(ctx, tx, borrower)
	if err != nil {
		return nil, err
	}

	if !loan.Active || !loan.Debt.IsPositive() {
		return nil, core.ErrLoanHealthy
	}

	price, err := s.priceService.Price(ctx, tx)
	if err != nil {
		return nil, err
	}

	health := lending.Health(loan.Collateral, price, loan.Debt, s.ratio())
	if !lending.Liquidatable(health) {
		return nil, core.ErrLoanHealthy
	}

	policy := s.config.App.LiquidationPolicy
	if policy == core.LiquidationRepay {
		if err := s.pullAndBurn(ctx, tx, liquidator, loan.Debt); err != nil {
			return nil, err
		}
	}

	liquidation := &core.Liquidation{
		Borrower:   borrower,
		Liquidator: liquidator,
		Collateral: loan.Collateral,
		Debt:       loan.Debt,
		Price:      price,
		Health:     health,
		Policy:     policy,
	}

	loan.Collateral = decimal.Zero
	loan.Debt = decimal.Zero
	loan.Settle()
	if err := s.loanStore.Save(ctx, tx, loan); err != nil {
		log.WithError(err).Errorln("loans.Save")
		return nil, err
	}

	if liquidation.Collateral.IsPositive() {
		if _, err := s.walletService.Transfer(ctx, tx, liquidator, liquidation.Collateral, "liquidation"); err != nil {
			return nil, err
		}
	}

	log.Infof("liquidated by %s at health %d, collateral %s, debt %s (%s)",
		liquidator, health, liquidation.Collateral, liquidation.Debt, policy)
	return liquidation, nil
}

func (s *loanService) pullAndBurn(ctx context.Context, tx *db.DB, from string, amount decimal.Decimal) error {
	if err := s.tokenService.TransferFrom(ctx, tx, s.engine(), from, s.engine(), amount); err != nil {
		return err
	}

	return s.tokenService.Burn(ctx, tx, s.engine(), s.engine(), amount)
}
