package transfer

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new payout outbox store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	return tx.Update().Where("trace_id = ?", transfer.TraceID).FirstOrCreate(transfer).Error
}

func (s *transferStore) ListPending(ctx context.Context, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().
		Where("status = ?", core.TransferStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}

func (s *transferStore) UpdateStatus(ctx context.Context, transfer *core.Transfer, status core.TransferStatus) error {
	r := s.db.Update().Model(transfer).
		Where("status = ?", transfer.Status).
		Updates(map[string]interface{}{"status": status})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	transfer.Status = status
	return nil
}
