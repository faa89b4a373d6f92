package token

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type tokenService struct {
	owner      string
	tokenStore core.ITokenStore
	params     core.IParameterStore
}

// New new debt token ledger, owner holds the mint and burn authority
func New(owner string, tokenStore core.ITokenStore, params core.IParameterStore) core.ITokenService {
	return &tokenService{
		owner:      owner,
		tokenStore: tokenStore,
		params:     params,
	}
}

func (s *tokenService) Owner() string {
	return s.owner
}

func (s *tokenService) Mint(ctx context.Context, tx *db.DB, caller, to string, amount decimal.Decimal) error {
	if caller != s.owner {
		return core.ErrUnauthorized
	}

	if err := core.RequirePositive(amount); err != nil {
		return err
	}

	balance, err := s.tokenStore.FindBalance(ctx, tx, to)
	if err != nil {
		return err
	}

	balance.Amount = balance.Amount.Add(amount)
	if err := s.tokenStore.SaveBalance(ctx, tx, balance); err != nil {
		return err
	}

	return s.addSupply(ctx, tx, amount)
}

func (s *tokenService) Burn(ctx context.Context, tx *db.DB, caller, from string, amount decimal.Decimal) error {
	if caller != s.owner {
		return core.ErrUnauthorized
	}

	if err := core.RequirePositive(amount); err != nil {
		return err
	}

	balance, err := s.tokenStore.FindBalance(ctx, tx, from)
	if err != nil {
		return err
	}

	if balance.Amount.LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	balance.Amount = balance.Amount.Sub(amount)
	if err := s.tokenStore.SaveBalance(ctx, tx, balance); err != nil {
		return err
	}

	return s.addSupply(ctx, tx, amount.Neg())
}

func (s *tokenService) Transfer(ctx context.Context, tx *db.DB, from, to string, amount decimal.Decimal) error {
	if err := core.RequirePositive(amount); err != nil {
		return err
	}

	return s.move(ctx, tx, from, to, amount)
}

// Approve overwrite the allowance of spender over owner's balance, zero revokes
func (s *tokenService) Approve(ctx context.Context, tx *db.DB, owner, spender string, amount decimal.Decimal) error {
	if err := core.RequireNonNegative(amount); err != nil {
		return err
	}

	allowance, err := s.tokenStore.FindAllowance(ctx, tx, owner, spender)
	if err != nil {
		return err
	}

	allowance.Amount = amount
	return s.tokenStore.SaveAllowance(ctx, tx, allowance)
}

func (s *tokenService) TransferFrom(ctx context.Context, tx *db.DB, spender, from, to string, amount decimal.Decimal) error {
	if err := core.RequirePositive(amount); err != nil {
		return err
	}

	allowance, err := s.tokenStore.FindAllowance(ctx, tx, from, spender)
	if err != nil {
		return err
	}

	if allowance.Amount.LessThan(amount) {
		return core.ErrInsufficientAllowance
	}

	if err := s.move(ctx, tx, from, to, amount); err != nil {
		return err
	}

	allowance.Amount = allowance.Amount.Sub(amount)
	return s.tokenStore.SaveAllowance(ctx, tx, allowance)
}

func (s *tokenService) move(ctx context.Context, tx *db.DB, from, to string, amount decimal.Decimal) error {
	src, err := s.tokenStore.FindBalance(ctx, tx, from)
	if err != nil {
		return err
	}

	if src.Amount.LessThan(amount) {
		return core.ErrInsufficientBalance
	}

	if from == to {
		return nil
	}

	dst, err := s.tokenStore.FindBalance(ctx, tx, to)
	if err != nil {
		return err
	}

	src.Amount = src.Amount.Sub(amount)
	dst.Amount = dst.Amount.Add(amount)

	if err := s.tokenStore.SaveBalance(ctx, tx, src); err != nil {
		return err
	}

	return s.tokenStore.SaveBalance(ctx, tx, dst)
}

func (s *tokenService) BalanceOf(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error) {
	balance, err := s.tokenStore.FindBalance(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.Amount, nil
}

func (s *tokenService) Allowance(ctx context.Context, tx *db.DB, owner, spender string) (decimal.Decimal, error) {
	allowance, err := s.tokenStore.FindAllowance(ctx, tx, owner, spender)
	if err != nil {
		return decimal.Zero, err
	}

	return allowance.Amount, nil
}

func (s *tokenService) TotalSupply(ctx context.Context, tx *db.DB) (decimal.Decimal, error) {
	v, err := s.params.Get(ctx, tx, core.ParameterTokenSupply)
	if err != nil || v == "" {
		return decimal.Zero, err
	}

	return decimal.NewFromString(v)
}

func (s *tokenService) addSupply(ctx context.Context, tx *db.DB, delta decimal.Decimal) error {
	supply, err := s.TotalSupply(ctx, tx)
	if err != nil {
		return err
	}

	return s.params.Set(ctx, tx, core.ParameterTokenSupply, supply.Add(delta).String())
}
