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

type loanFunc func(ctx context.Context, userID string, amount decimal.Decimal) (*core.Loan, error)

func collateralsHandler(ledger core.Ledger) http.HandlerFunc {
	return loanHandlerFunc(ledger, ledger.DepositCollateral)
}

func withdrawCollateralHandler(ledger core.Ledger) http.HandlerFunc {
	return loanHandlerFunc(ledger, ledger.WithdrawCollateral)
}

func borrowsHandler(ledger core.Ledger) http.HandlerFunc {
	return loanHandlerFunc(ledger, ledger.Borrow)
}

func repaysHandler(ledger core.Ledger) http.HandlerFunc {
	return loanHandlerFunc(ledger, ledger.Repay)
}

func loanHandlerFunc(ledger core.Ledger, fn loanFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.UserFrom(ctx)

		var body amountBody
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		if _, err := fn(ctx, user.ID, body.Amount); err != nil {
			render.Error(w, err)
			return
		}

		renderLoan(ctx, w, ledger, user.ID)
	}
}

func loanHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderLoan(r.Context(), w, ledger, chi.URLParam(r, "user"))
	}
}

func renderLoan(ctx context.Context, w http.ResponseWriter, ledger core.Ledger, userID string) {
	state, err := ledger.LoanState(ctx, userID)
	if err != nil {
		render.Error(w, err)
		return
	}

	state.Loan.UserID = userID
	render.JSON(w, views.LoanView(state.Loan, state.MaxBorrow, state.Health))
}

func liquidationsHandler(ledger core.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := request.UserFrom(ctx)

		var body struct {
			Borrower string `json:"borrower" valid:"required"`
		}
		if err := param.Binding(r, &body); err != nil {
			render.Error(w, err)
			return
		}

		liquidation, err := ledger.Liquidate(ctx, user.ID, body.Borrower)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, liquidation)
	}
}
