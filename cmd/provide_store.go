package cmd

import (
	"context"

	"lending/core"
	"lending/store/deposit"
	"lending/store/loan"
	"lending/store/memory"
	"lending/store/parameter"
	"lending/store/token"
	"lending/store/transaction"
	"lending/store/transfer"

	"github.com/fox-one/pkg/store/db"
)

// storage every store the ledger runs on, backed by one transactor
type storage struct {
	db           core.Transactor
	deposits     core.IDepositStore
	loans        core.ILoanStore
	tokens       core.ITokenStore
	parameters   core.IParameterStore
	transactions core.TransactionStore
	transfers    core.ITransferStore
	ping         func(ctx context.Context) error
	close        func()
}

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideStorage(inMemory bool) storage {
	if inMemory {
		return provideMemoryStorage()
	}

	database := provideDatabase()
	return storage{
		db:           database,
		deposits:     deposit.New(database),
		loans:        loan.New(database),
		tokens:       token.New(database),
		parameters:   parameter.New(database),
		transactions: transaction.New(database),
		transfers:    transfer.New(database),
		ping: func(ctx context.Context) error {
			return database.View().DB().PingContext(ctx)
		},
		close: func() {
			database.Close()
		},
	}
}

func provideMemoryStorage() storage {
	database := memory.New()
	return storage{
		db:           database,
		deposits:     database.Deposits(),
		loans:        database.Loans(),
		tokens:       database.Tokens(),
		parameters:   database.Parameters(),
		transactions: database.Transactions(),
		transfers:    database.Transfers(),
		ping:         func(context.Context) error { return nil },
		close:        func() {},
	}
}
