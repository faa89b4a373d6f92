package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

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
	"lending/store/memory"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	zero := int64(0)
	cfg := &core.Config{
		App: core.App{
			EngineID:          "engine",
			CollateralRatio:   150,
			InterestRateBps:   &zero,
			LiquidationPolicy: core.LiquidationAbsorb,
		},
		Admins: []string{"admin"},
	}

	database := memory.New()
	wallets := wallet.New(database.Transfers(), wallet.Config{})
	prices := oracle.New(cfg, database.Parameters())
	tokens := token.New(cfg.App.EngineID, database.Tokens(), database.Parameters())
	deposits := deposit.New(cfg, database.Deposits(), database.Parameters(), wallets, clock.New())
	loans := loan.New(cfg, database.Loans(), tokens, prices, wallets)

	l := ledger.New(database, concurrency.NewLane(16), deposits, loans, tokens, prices, database.Transactions())
	t.Cleanup(l.Close)

	mux := chi.NewMux()
	mux.Mount("/api", New(cfg, l, session.New(secret, 16)).HandleRestAPI())

	svr := httptest.NewServer(mux)
	t.Cleanup(svr.Close)
	return svr
}

func call(t *testing.T, svr *httptest.Server, method, path, user, body string) (int, map[string]interface{}) {
	req, err := http.NewRequest(method, svr.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	if user != "" {
		token, err := session.Sign(secret, user, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestRestAPI(t *testing.T) {
	svr := newTestServer(t)

	t.Run("anonymous mutation", func(t *testing.T) {
		status, body := call(t, svr, "POST", "/api/deposits", "", `{"amount":"1"}`)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.EqualValues(t, 401, body["code"])
	})

	t.Run("deposit", func(t *testing.T) {
		status, body := call(t, svr, "POST", "/api/deposits", "alice", `{"amount":"1000"}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "1000", body["principal"])

		status, body = call(t, svr, "GET", "/api/deposits/alice", "", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "1000", body["balance"])

		status, body = call(t, svr, "GET", "/api/liquidity", "", "")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "1000", body["total_liquidity"])
	})

	t.Run("overdraw", func(t *testing.T) {
		status, body := call(t, svr, "POST", "/api/withdrawals", "alice", `{"amount":"5000"}`)
		assert.Equal(t, http.StatusPreconditionFailed, status)
		assert.EqualValues(t, core.ErrInsufficientBalance, body["code"])
	})

	t.Run("invalid amount", func(t *testing.T) {
		status, body := call(t, svr, "POST", "/api/deposits", "alice", `{"amount":"0"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.EqualValues(t, core.ErrInvalidAmount, body["code"])
	})

	t.Run("price admin only", func(t *testing.T) {
		status, _ := call(t, svr, "PUT", "/api/price", "alice", `{"price":"2000"}`)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = call(t, svr, "PUT", "/api/price", "admin", `{"price":"2000"}`)
		require.Equal(t, http.StatusOK, status)

		_, body := call(t, svr, "GET", "/api/price", "", "")
		assert.Equal(t, "2000", body["price"])
	})

	t.Run("borrow", func(t *testing.T) {
		status, _ := call(t, svr, "POST", "/api/collaterals", "bob", `{"amount":"2"}`)
		require.Equal(t, http.StatusOK, status)

		status, body := call(t, svr, "POST", "/api/borrows", "bob", `{"amount":"2000"}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "2000", body["debt"])
		assert.EqualValues(t, 133, body["health"])

		_, body = call(t, svr, "GET", "/api/token/bob", "", "")
		assert.Equal(t, "2000", body["balance"])
		assert.Equal(t, "2000", body["total_supply"])

		status, body = call(t, svr, "POST", "/api/liquidations", "carol", `{"borrower":"bob"}`)
		assert.Equal(t, http.StatusPreconditionFailed, status)
		assert.EqualValues(t, core.ErrLoanHealthy, body["code"])
	})

	t.Run("missing borrower", func(t *testing.T) {
		status, body := call(t, svr, "POST", "/api/liquidations", "carol", `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.EqualValues(t, 100001, body["code"])
	})

	t.Run("engine token refused", func(t *testing.T) {
		status, body := call(t, svr, "POST", "/api/token/transfer", "engine", `{"to":"mallory","amount":"1"}`)
		assert.Equal(t, http.StatusForbidden, status)
		assert.EqualValues(t, 403, body["code"])

		status, _ = call(t, svr, "POST", "/api/token/approve", "engine", `{"to":"mallory","amount":"1"}`)
		assert.Equal(t, http.StatusForbidden, status)

		_, body = call(t, svr, "GET", "/api/token/engine", "", "")
		assert.Equal(t, "0", body["allowance"])
	})

	t.Run("not found", func(t *testing.T) {
		status, _ := call(t, svr, "GET", "/api/unknown", "", "")
		assert.Equal(t, http.StatusNotFound, status)
	})
}
