package deposit

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

type depositStore struct {
	db *db.DB
}

// New new deposit store
func New(db *db.DB) core.IDepositStore {
	return &depositStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Deposit{})
		if err := tx.AutoMigrate(core.Deposit{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *depositStore) conn(tx *db.DB) *gorm.DB {
	if tx != nil {
		return tx.Update()
	}

	return s.db.View()
}

func (s *depositStore) Find(ctx context.Context, tx *db.DB, userID string) (*core.Deposit, error) {
	var deposit core.Deposit
	if err := s.conn(tx).Where("user_id = ?", userID).First(&deposit).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Deposit{UserID: userID, Principal: decimal.Zero}, nil
		}

		return nil, err
	}

	return &deposit, nil
}

func (s *depositStore) Save(ctx context.Context, tx *db.DB, deposit *core.Deposit) error {
	if deposit.ID == 0 {
		return tx.Update().Create(deposit).Error
	}

	version := deposit.Version
	deposit.Version++

	r := tx.Update().Model(deposit).Where("version = ?", version).Updates(map[string]interface{}{
		"principal":  deposit.Principal,
		"accrued_at": deposit.AccruedAt,
		"version":    deposit.Version,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *depositStore) Sum(ctx context.Context, tx *db.DB) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}

	if err := s.conn(tx).Model(core.Deposit{}).Select("COALESCE(SUM(principal), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}

	return row.Total, nil
}
