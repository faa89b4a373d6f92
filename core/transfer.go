package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// TransferStatus payout delivery status
type TransferStatus int

const (
	TransferStatusPending TransferStatus = iota
	TransferStatusDone
)

// Transfer base asset payout, written in the same storage transaction as the ledger debit
type Transfer struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at,omitempty"`
	TraceID    string          `sql:"size:36;unique_index:idx_transfers_trace_id" json:"trace_id,omitempty"`
	OpponentID string          `sql:"size:64" json:"opponent_id,omitempty"`
	Amount     decimal.Decimal `sql:"type:decimal(64,18)" json:"amount,omitempty"`
	Memo       string          `sql:"size:140" json:"memo,omitempty"`
	Status     TransferStatus  `sql:"default:0;index:idx_transfers_status" json:"status"`
}

// ITransferStore transfer store interface
type ITransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	ListPending(ctx context.Context, limit int) ([]*Transfer, error)
	UpdateStatus(ctx context.Context, transfer *Transfer, status TransferStatus) error
}

// IWalletService base asset custody interface
type IWalletService interface {
	// Transfer enqueue a payout inside tx
	Transfer(ctx context.Context, tx *db.DB, opponentID string, amount decimal.Decimal, memo string) (*Transfer, error)
	// HandleTransfer deliver a queued payout
	HandleTransfer(ctx context.Context, transfer *Transfer) error
}
