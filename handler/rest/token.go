package rest

import (
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/request"
	"lending/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

type tokenBody struct {
	To     string          `json:"to" valid:"required"`
	Amount decimal.Decimal `json:"amount"`
}

func approveHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.UserFrom(ctx)

		var body tokenBody
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.Approve(ctx, user.ID, body.To, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		allowance, err := ledger.Allowance(ctx, user.ID, body.To)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"owner": user.ID, "spender": body.To, "allowance": allowance})
	}
}

func transferHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.UserFrom(ctx)

		var body tokenBody
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.TransferToken(ctx, user.ID, body.To, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		balance, err := ledger.TokenBalance(ctx, user.ID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"user_id": user.ID, "balance": balance})
	}
}

func tokenHandler(ledger core.Ledger, engineID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user")

		state, err := ledger.TokenState(ctx, userID, engineID)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.Token{
			UserID:      userID,
			Balance:     state.Balance,
			Allowance:   state.Allowance,
			TotalSupply: state.TotalSupply,
		})
	}
}
