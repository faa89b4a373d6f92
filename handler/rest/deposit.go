package rest

import (
	"context"
	"net/http"

	"lending/core"
	"lending/handler/param"
	"lending/handler/render"
	"lending/handler/request"
	"lending/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func depositsHandler(ledger core.Ledger) http.HandlerFunc {
	return amountHandler(ledger.Deposit)
}

func withdrawalsHandler(ledger core.Ledger) http.HandlerFunc {
	return amountHandler(ledger.Withdraw)
}

// amountHandler serve the caller's {amount} deposit mutations
func amountHandler(fn func(ctx context.Context, userID string, amount decimal.Decimal) (*core.Deposit, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.UserFrom(ctx)

		var body amountBody
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		deposit, err := fn(ctx, user.ID, body.Amount)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.DepositView(deposit, deposit.Principal))
	}
}

func depositHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := chi.URLParam(r, "user")

		state, err := ledger.DepositState(ctx, userID)
		if err != nil {
			render.Error(w, err)
			return
		}

		state.Deposit.UserID = userID
		render.JSON(w, views.DepositView(state.Deposit, state.Balance))
	}
}

func liquidityHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := ledger.TotalLiquidity(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"total_liquidity": total})
	}
}

func interestRateHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bps, err := ledger.InterestRate(r.Context())
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"bps": bps})
	}
}

func setInterestRateHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.UserFrom(ctx)

		var body struct {
			Bps int64 `json:"bps"`
		}
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if err := ledger.SetInterestRate(ctx, user.ID, body.Bps); err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, render.H{"bps": body.Bps})
	}
}
