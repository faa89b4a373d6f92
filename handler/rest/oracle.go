package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/shopspring/decimal"
)

func priceHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := ledger.Price(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"price": price})
	}
}

func setPriceHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.UserFrom(ctx)

		var body struct {
			Price decimal.Decimal `json:"price"`
		}
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.SetPrice(ctx, user.ID, body.Price); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"price": body.Price})
	}
}
