package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type (
	// TokenBalance debt token balance of one holder
	TokenBalance struct {
		ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
		UserID    string          `sql:"size:64;unique_index:idx_token_balances_user_id" json:"user_id"`
		Amount    decimal.Decimal `sql:"type:decimal(64,18)" json:"amount"`
		Version   int64           `sql:"default:0" json:"version"`
		UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	}

	// TokenAllowance amount Spender may pull from Owner
	TokenAllowance struct {
		ID        int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
		Owner     string          `sql:"size:64;unique_index:idx_token_allowances_pair" json:"owner"`
		Spender   string          `sql:"size:64;unique_index:idx_token_allowances_pair" json:"spender"`
		Amount    decimal.Decimal `sql:"type:decimal(64,18)" json:"amount"`
		Version   int64           `sql:"default:0" json:"version"`
		UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	}
)

// ITokenStore token store interface
type ITokenStore interface {
	FindBalance(ctx context.Context, tx *db.DB, userID string) (*TokenBalance, error)
	SaveBalance(ctx context.Context, tx *db.DB, balance *TokenBalance) error
	FindAllowance(ctx context.Context, tx *db.DB, owner, spender string) (*TokenAllowance, error)
	SaveAllowance(ctx context.Context, tx *db.DB, allowance *TokenAllowance) error
}

// ITokenService debt token ledger interface
type ITokenService interface {
	// Owner identity holding the mint and burn authority
	Owner() string
	Mint(ctx context.Context, tx *db.DB, caller, to string, amount decimal.Decimal) error
	Burn(ctx context.Context, tx *db.DB, caller, from string, amount decimal.Decimal) error
	Transfer(ctx context.Context, tx *db.DB, from, to string, amount decimal.Decimal) error
	Approve(ctx context.Context, tx *db.DB, owner, spender string, amount decimal.Decimal) error
	TransferFrom(ctx context.Context, tx *db.DB, spender, from, to string, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, tx *db.DB, userID string) (decimal.Decimal, error)
	Allowance(ctx context.Context, tx *db.DB, owner, spender string) (decimal.Decimal, error)
	TotalSupply(ctx context.Context, tx *db.DB) (decimal.Decimal, error)
}
