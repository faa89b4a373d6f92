// Package memory keeps every ledger table in process. Tx snapshots the tables
// and restores them when the callback fails, so it satisfies core.Transactor
// with the same all-or-nothing behaviour as the database.
package memory

import (
	"sync"
	"time"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
)

type allowanceKey struct {
	owner, spender string
}

// Database in-process tables
type Database struct {
	txMu sync.Mutex
	mu   sync.Mutex
	now  func() time.Time

	deposits     map[string]core.Deposit
	loans        map[string]core.Loan
	balances     map[string]core.TokenBalance
	allowances   map[allowanceKey]core.TokenAllowance
	params       map[string]string
	transactions []core.Transaction
	transfers    []core.Transfer
	lastID       int64

	// outbox rows at or past published belong to the open transaction
	inTx      bool
	published int
}

type snapshot struct {
	deposits     map[string]core.Deposit
	loans        map[string]core.Loan
	balances     map[string]core.TokenBalance
	allowances   map[allowanceKey]core.TokenAllowance
	params       map[string]string
	transactions int
	transfers    int
}

// New new empty database
func New() *Database {
	return &Database{
		now:        time.Now,
		deposits:   map[string]core.Deposit{},
		loans:      map[string]core.Loan{},
		balances:   map[string]core.TokenBalance{},
		allowances: map[allowanceKey]core.TokenAllowance{},
		params:     map[string]string{},
	}
}

// Tx run fn as one transaction; the tx handle passed to fn is nil
func (d *Database) Tx(fn func(tx *db.DB) error) error {
	d.txMu.Lock()
	defer d.txMu.Unlock()

	snap := d.snapshot()
	err := fn(nil)
	if err != nil {
		d.restore(snap)
	}

	d.mu.Lock()
	d.inTx = false
	d.published = len(d.transfers)
	d.mu.Unlock()

	return err
}

func (d *Database) snapshot() snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.inTx = true

	return snapshot{
		deposits:     copyMap(d.deposits),
		loans:        copyMap(d.loans),
		balances:     copyMap(d.balances),
		allowances:   copyMap(d.allowances),
		params:       copyMap(d.params),
		transactions: len(d.transactions),
		transfers:    len(d.transfers),
	}
}

// restore rolls the tables back. Journal and outbox rows are append only, so
// only the rows added since the snapshot are dropped; status updates made by
// the cashier in the meantime survive.
func (d *Database) restore(s snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deposits = s.deposits
	d.loans = s.loans
	d.balances = s.balances
	d.allowances = s.allowances
	d.params = s.params
	d.transactions = d.transactions[:s.transactions]
	d.transfers = d.transfers[:s.transfers]
}

func (d *Database) nextID() int64 {
	d.lastID++
	return d.lastID
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}

	return c
}

// Deposits deposit store view
func (d *Database) Deposits() core.IDepositStore {
	return &depositStore{d}
}

// Loans loan store view
func (d *Database) Loans() core.ILoanStore {
	return &loanStore{d}
}

// Tokens token store view
func (d *Database) Tokens() core.ITokenStore {
	return &tokenStore{d}
}

// Parameters parameter store view
func (d *Database) Parameters() core.IParameterStore {
	return &parameterStore{d}
}

// Transactions journal store view
func (d *Database) Transactions() core.TransactionStore {
	return &transactionStore{d}
}

// Transfers outbox store view
func (d *Database) Transfers() core.ITransferStore {
	return &transferStore{d}
}
