package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
)

// response ledger journal entries after the given id
func transactionsHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			From  int64 `json:"from"`
			Limit int   `json:"limit"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.Error(w, err)
			return
		}

		limit := params.Limit
		if limit <= 0 {
			limit = 500
		}

		transactions, err := ledger.Transactions(ctx, params.From, limit)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, transactions)
	}
}
