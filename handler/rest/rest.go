package rest

import (
	"errors"
	"net/http"

	"lending/core"
	"lending/handler/auth"
	"lending/handler/render"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// Handle handle rest api request
func Handle(ledger core.Ledger, cfg *core.Config) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/deposits/{user}", depositHandler(ledger))
	router.Get("/liquidity", liquidityHandler(ledger))
	router.Get("/interest-rate", interestRateHandler(ledger))
	router.Get("/price", priceHandler(ledger))
	router.Get("/loans/{user}", loanHandler(ledger))
	router.Get("/token/{user}", tokenHandler(ledger, cfg.App.EngineID))
	router.Get("/transactions", transactionsHandler(ledger))

	router.Group(func(r chi.Router) {
		r.Use(auth.HandleAuthenticated)

		r.Post("/deposits", depositsHandler(ledger))
		r.Post("/withdrawals", withdrawalsHandler(ledger))
		r.Put("/interest-rate", setInterestRateHandler(ledger))
		r.Put("/price", setPriceHandler(ledger))
		r.Post("/collaterals", collateralsHandler(ledger))
		r.Post("/collaterals/withdraw", withdrawCollateralHandler(ledger))
		r.Post("/borrows", borrowsHandler(ledger))
		r.Post("/repays", repaysHandler(ledger))
		r.Post("/liquidations", liquidationsHandler(ledger))
		r.Post("/token/approve", approveHandler(ledger))
		r.Post("/token/transfer", transferHandler(ledger))
	})

	return router
}

type amountBody struct {
	Amount decimal.Decimal `json:"amount"`
}
