package loan

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type loanStore struct {
	db *db.DB
}

// New new loan store
func New(db *db.DB) core.ILoanStore {
	return &loanStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Loan{})
		if err := tx.AutoMigrate(core.Loan{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *loanStore) conn(tx *db.DB) *gorm.DB {
	if tx != nil {
		return tx.Update()
	}

	return s.db.View()
}

func (s *loanStore) Find(ctx context.Context, tx *db.DB, userID string) (*core.Loan, error) {
	var loan core.Loan
	if err := s.conn(tx).Where("user_id = ?", userID).First(&loan).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Loan{
				UserID:     userID,
				Collateral: decimal.Zero,
				Debt:       decimal.Zero,
			}, nil
		}

		return nil, err
	}

	return &loan, nil
}

func (s *loanStore) Save(ctx context.Context, tx *db.DB, loan *core.Loan) error {
	if loan.ID == 0 {
		return tx.Update().Create(loan).Error
	}

	version := loan.Version
	loan.Version++

	r := tx.Update().Model(loan).Where("version = ?", version).Updates(map[string]interface{}{
		"collateral": loan.Collateral,
		"debt":       loan.Debt,
		"active":     loan.Active,
		"version":    loan.Version,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
