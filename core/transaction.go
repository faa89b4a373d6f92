package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// TransactionKeyPrice oracle price used by the operation
	TransactionKeyPrice = "price"
	// TransactionKeyBps interest rate
	TransactionKeyBps = "bps"
	// TransactionKeyCollateral collateral after the operation
	TransactionKeyCollateral = "collateral"
	// TransactionKeyDebt debt after the operation
	TransactionKeyDebt = "debt"
	// TransactionKeyPrincipal principal after the operation
	TransactionKeyPrincipal = "principal"
	// TransactionKeyHealth loan health
	TransactionKeyHealth = "health"
	// TransactionKeyBorrower borrower
	TransactionKeyBorrower = "borrower"
	// TransactionKeyOpponent receiving side of a token movement
	TransactionKeyOpponent = "opponent"
	// TransactionKeyPolicy liquidation policy
	TransactionKeyPolicy = "policy"
	// TransactionKeyBadDebt debt written off by a liquidation
	TransactionKeyBadDebt = "bad_debt"
)

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction journal entry of one committed ledger operation
type Transaction struct {
	ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	Action    ActionType      `sql:"size:32" json:"action,omitempty"`
	UserID    string          `sql:"size:64;index:idx_transactions_user_id" json:"user_id,omitempty"`
	Amount    decimal.Decimal `sql:"type:decimal(64,18)" json:"amount"`
	Data      types.JSONText  `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
}

// SetExtraData encode extra as the entry payload
func (t *Transaction) SetExtraData(extra TransactionExtraData) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

// TransactionStore transaction store interface
type TransactionStore interface {
	Create(ctx context.Context, tx *db.DB, transaction *Transaction) error
	// List entries with id greater than fromID, oldest first
	List(ctx context.Context, fromID int64, limit int) ([]*Transaction, error)
}
