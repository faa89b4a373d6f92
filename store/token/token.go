package token

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type tokenStore struct {
	db *db.DB
}

// New new debt token store
func New(db *db.DB) core.ITokenStore {
	return &tokenStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.TokenBalance{}).Error; err != nil {
			return err
		}

		if err := db.Update().AutoMigrate(core.TokenAllowance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *tokenStore) conn(tx *db.DB) *gorm.DB {
	if tx != nil {
		return tx.Update()
	}

	return s.db.View()
}

func (s *tokenStore) FindBalance(ctx context.Context, tx *db.DB, userID string) (*core.TokenBalance, error) {
	var balance core.TokenBalance
	if err := s.conn(tx).Where("user_id = ?", userID).First(&balance).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.TokenBalance{UserID: userID, Amount: decimal.Zero}, nil
		}

		return nil, err
	}

	return &balance, nil
}

func (s *tokenStore) SaveBalance(ctx context.Context, tx *db.DB, balance *core.TokenBalance) error {
	if balance.ID == 0 {
		return tx.Update().Create(balance).Error
	}

	version := balance.Version
	balance.Version++

	r := tx.Update().Model(balance).Where("version = ?", version).Updates(map[string]interface{}{
		"amount":  balance.Amount,
		"version": balance.Version,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *tokenStore) FindAllowance(ctx context.Context, tx *db.DB, owner, spender string) (*core.TokenAllowance, error) {
	var allowance core.TokenAllowance
	if err := s.conn(tx).Where("owner = ? AND spender = ?", owner, spender).First(&allowance).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.TokenAllowance{Owner: owner, Spender: spender, Amount: decimal.Zero}, nil
		}

		return nil, err
	}

	return &allowance, nil
}

func (s *tokenStore) SaveAllowance(ctx context.Context, tx *db.DB, allowance *core.TokenAllowance) error {
	if allowance.ID == 0 {
		return tx.Update().Create(allowance).Error
	}

	version := allowance.Version
	allowance.Version++

	r := tx.Update().Model(allowance).Where("version = ?", version).Updates(map[string]interface{}{
		"amount":  allowance.Amount,
		"version": allowance.Version,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
