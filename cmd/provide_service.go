package cmd

import (
	"lending/core"
	"lending/pkg/concurrency"
	"lending/service/clock"
	"lending/service/deposit"
	"lending/service/ledger"
	"lending/service/loan"
	"lending/service/oracle"
	"lending/service/session"
	"lending/service/token"
	"lending/service/wallet"
	"lending/worker/cashier"
)

func provideConfig() *core.Config {
	return &cfg
}

func provideWalletService(transfers core.ITransferStore) core.IWalletService {
	return wallet.New(transfers, wallet.Config{
		Endpoint: cfg.Custody.Endpoint,
		Token:    cfg.Custody.Token,
	})
}

func provideSession() core.Session {
	return session.New(cfg.Auth.Secret, cfg.Auth.CacheSize)
}

func provideLedger(s storage) *ledger.Ledger {
	config := provideConfig()
	wallets := provideWalletService(s.transfers)
	prices := oracle.New(config, s.parameters)
	tokens := token.New(config.App.EngineID, s.tokens, s.parameters)
	deposits := deposit.New(config, s.deposits, s.parameters, wallets, clock.New())
	loans := loan.New(config, s.loans, tokens, prices, wallets)

	return ledger.New(s.db, concurrency.NewLane(config.App.LaneSize), deposits, loans, tokens, prices, s.transactions)
}

func provideCashier(s storage) *cashier.Cashier {
	return cashier.New(s.transfers, provideWalletService(s.transfers), cfg.Cashier)
}
