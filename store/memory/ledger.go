package memory

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type depositStore struct{ *Database }

func (s *depositStore) Find(_ context.Context, _ *db.DB, userID string) (*core.Deposit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.deposits[userID]; ok {
		return &d, nil
	}

	return &core.Deposit{UserID: userID, Principal: decimal.Zero}, nil
}

func (s *depositStore) Save(_ context.Context, _ *db.DB, deposit *core.Deposit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.deposits[deposit.UserID]
	switch {
	case deposit.ID == 0 && ok:
		return db.ErrOptimisticLock
	case deposit.ID == 0:
		deposit.ID = s.nextID()
		deposit.CreatedAt = s.now()
	case !ok || stored.Version != deposit.Version:
		return db.ErrOptimisticLock
	default:
		deposit.Version++
	}

	deposit.UpdatedAt = s.now()
	s.deposits[deposit.UserID] = *deposit
	return nil
}

func (s *depositStore) Sum(_ context.Context, _ *db.DB) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, d := range s.deposits {
		total = total.Add(d.Principal)
	}

	return total, nil
}

type loanStore struct{ *Database }

func (s *loanStore) Find(_ context.Context, _ *db.DB, userID string) (*core.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.loans[userID]; ok {
		return &l, nil
	}

	return &core.Loan{UserID: userID, Collateral: decimal.Zero, Debt: decimal.Zero}, nil
}

func (s *loanStore) Save(_ context.Context, _ *db.DB, loan *core.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.loans[loan.UserID]
	switch {
	case loan.ID == 0 && ok:
		return db.ErrOptimisticLock
	case loan.ID == 0:
		loan.ID = s.nextID()
		loan.CreatedAt = s.now()
	case !ok || stored.Version != loan.Version:
		return db.ErrOptimisticLock
	default:
		loan.Version++
	}

	loan.UpdatedAt = s.now()
	s.loans[loan.UserID] = *loan
	return nil
}

type tokenStore struct{ *Database }

func (s *tokenStore) FindBalance(_ context.Context, _ *db.DB, userID string) (*core.TokenBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.balances[userID]; ok {
		return &b, nil
	}

	return &core.TokenBalance{UserID: userID, Amount: decimal.Zero}, nil
}

func (s *tokenStore) SaveBalance(_ context.Context, _ *db.DB, balance *core.TokenBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.balances[balance.UserID]
	switch {
	case balance.ID == 0 && ok:
		return db.ErrOptimisticLock
	case balance.ID == 0:
		balance.ID = s.nextID()
	case !ok || stored.Version != balance.Version:
		return db.ErrOptimisticLock
	default:
		balance.Version++
	}

	balance.UpdatedAt = s.now()
	s.balances[balance.UserID] = *balance
	return nil
}

func (s *tokenStore) FindAllowance(_ context.Context, _ *db.DB, owner, spender string) (*core.TokenAllowance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.allowances[allowanceKey{owner, spender}]; ok {
		return &a, nil
	}

	return &core.TokenAllowance{Owner: owner, Spender: spender, Amount: decimal.Zero}, nil
}

func (s *tokenStore) SaveAllowance(_ context.Context, _ *db.DB, allowance *core.TokenAllowance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := allowanceKey{allowance.Owner, allowance.Spender}
	stored, ok := s.allowances[key]
	switch {
	case allowance.ID == 0 && ok:
		return db.ErrOptimisticLock
	case allowance.ID == 0:
		allowance.ID = s.nextID()
	case !ok || stored.Version != allowance.Version:
		return db.ErrOptimisticLock
	default:
		allowance.Version++
	}

	allowance.UpdatedAt = s.now()
	s.allowances[key] = *allowance
	return nil
}

type parameterStore struct{ *Database }

func (s *parameterStore) Get(_ context.Context, _ *db.DB, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.params[name], nil
}

func (s *parameterStore) Set(_ context.Context, _ *db.DB, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.params[name] = value
	return nil
}
