package memory

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
)

type transactionStore struct{ *Database }

func (s *transactionStore) Create(_ context.Context, _ *db.DB, transaction *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transactions {
		if t.TraceID == transaction.TraceID {
			*transaction = t
			return nil
		}
	}

	transaction.ID = int64(len(s.transactions) + 1)
	transaction.CreatedAt = s.now()
	s.transactions = append(s.transactions, *transaction)
	return nil
}

func (s *transactionStore) List(_ context.Context, fromID int64, limit int) ([]*core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 500
	}

	var transactions []*core.Transaction
	for _, t := range s.transactions {
		if t.ID <= fromID {
			continue
		}

		t := t
		transactions = append(transactions, &t)
		if len(transactions) == limit {
			break
		}
	}

	return transactions, nil
}

type transferStore struct{ *Database }

func (s *transferStore) Create(_ context.Context, _ *db.DB, transfer *core.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transfers {
		if t.TraceID == transfer.TraceID {
			*transfer = t
			return nil
		}
	}

	transfer.ID = uint64(len(s.transfers) + 1)
	transfer.CreatedAt = s.now()
	transfer.UpdatedAt = transfer.CreatedAt
	s.transfers = append(s.transfers, *transfer)
	if !s.inTx {
		s.published = len(s.transfers)
	}

	return nil
}

func (s *transferStore) ListPending(_ context.Context, limit int) ([]*core.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var transfers []*core.Transfer
	for _, t := range s.transfers[:s.published] {
		if t.Status != core.TransferStatusPending {
			continue
		}

		t := t
		transfers = append(transfers, &t)
		if limit > 0 && len(transfers) == limit {
			break
		}
	}

	return transfers, nil
}

func (s *transferStore) UpdateStatus(_ context.Context, transfer *core.Transfer, status core.TransferStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := int(transfer.ID) - 1
	if idx < 0 || idx >= s.published || s.transfers[idx].Status != transfer.Status {
		return db.ErrOptimisticLock
	}

	s.transfers[idx].Status = status
	s.transfers[idx].UpdatedAt = s.now()
	transfer.Status = status
	return nil
}
