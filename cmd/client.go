package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lending/pkg/id"
	"lending/pkg/resthttp"
	"lending/service/session"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var _client struct {
	api   string
	token string
	as    string
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&_client.api, "api", "http://localhost:9000/api", "lending api base url")
	flags.StringVar(&_client.token, "token", "", "bearer token for mutating commands")
	flags.StringVar(&_client.as, "as", "", "sign a short lived token for this user with the configured secret")

	rootCmd.AddCommand(
		amountCommand("deposit", "deposit base asset", "/deposits"),
		amountCommand("withdraw", "withdraw base asset", "/withdrawals"),
		amountCommand("collateral", "deposit collateral", "/collaterals"),
		amountCommand("withdraw-collateral", "withdraw collateral", "/collaterals/withdraw"),
		amountCommand("borrow", "borrow debt tokens against collateral", "/borrows"),
		amountCommand("repay", "repay debt, the engine must be approved for the amount", "/repays"),
		balanceCmd,
		liquidityCmd,
		rateCmd,
		priceCmd,
		healthCmd,
		liquidateCmd,
		approveCmd,
		transferCmd,
		tokenCmd,
		transactionsCmd,
		signCmd,
	)
}

func accessToken() (string, error) {
	if _client.as == "" {
		return _client.token, nil
	}

	if _client.as == cfg.App.EngineID {
		return "", fmt.Errorf("%s is the engine account", _client.as)
	}

	return session.Sign(cfg.Auth.Secret, _client.as, time.Minute)
}

// callAPI send the request and print the indented json response
func callAPI(cmd *cobra.Command, method, path string, body interface{}) error {
	token, err := accessToken()
	if err != nil {
		return err
	}

	request := resthttp.WithRequestID(cmd.Context(), id.GenTraceID())
	if token != "" {
		request.SetAuthToken(token)
	}

	var resp json.RawMessage
	url := strings.TrimSuffix(_client.api, "/") + path
	if _, err := resthttp.Execute(request, method, url, body, &resp); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, resp, "", "  "); err != nil {
		return err
	}

	cmd.Println(out.String())
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func amountCommand(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			return callAPI(cmd, http.MethodPost, path, map[string]interface{}{"amount": amount})
		},
	}
}

var balanceCmd = &cobra.Command{
	Use:   "balance <user>",
	Short: "show the accrued deposit balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodGet, "/deposits/"+args[0], nil)
	},
}

var liquidityCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "show the total deposited principal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodGet, "/liquidity", nil)
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate [bps]",
	Short: "show or set (admin) the deposit interest rate in basis points",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return callAPI(cmd, http.MethodGet, "/interest-rate", nil)
		}

		bps, err := cast.ToInt64E(args[0])
		if err != nil {
			return err
		}

		return callAPI(cmd, http.MethodPut, "/interest-rate", map[string]interface{}{"bps": bps})
	},
}

var priceCmd = &cobra.Command{
	Use:   "price [price]",
	Short: "show or set (admin) the collateral price in base asset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return callAPI(cmd, http.MethodGet, "/price", nil)
		}

		price, err := parseAmount(args[0])
		if err != nil {
			return err
		}

		return callAPI(cmd, http.MethodPut, "/price", map[string]interface{}{"price": price})
	},
}

var healthCmd = &cobra.Command{
	Use:   "health <user>",
	Short: "show the loan, its borrowing capacity and health factor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodGet, "/loans/"+args[0], nil)
	},
}

var liquidateCmd = &cobra.Command{
	Use:   "liquidate <borrower>",
	Short: "seize the collateral of an undercollateralized loan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodPost, "/liquidations", map[string]interface{}{"borrower": args[0]})
	},
}

func tokenTransfer(path string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		return callAPI(cmd, http.MethodPost, path, map[string]interface{}{"to": args[0], "amount": amount})
	}
}

var approveCmd = &cobra.Command{
	Use:   "approve <spender> <amount>",
	Short: "set the debt token allowance of spender",
	Args:  cobra.ExactArgs(2),
	RunE:  tokenTransfer("/token/approve"),
}

var transferCmd = &cobra.Command{
	Use:   "transfer <to> <amount>",
	Short: "transfer debt tokens",
	Args:  cobra.ExactArgs(2),
	RunE:  tokenTransfer("/token/transfer"),
}

var tokenCmd = &cobra.Command{
	Use:   "token <user>",
	Short: "show the debt token balance, engine allowance and total supply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return callAPI(cmd, http.MethodGet, "/token/"+args[0], nil)
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "list journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetInt64("from")
		limit, _ := cmd.Flags().GetInt("limit")
		return callAPI(cmd, http.MethodGet, "/transactions?from="+cast.ToString(from)+"&limit="+cast.ToString(limit), nil)
	},
}

var signCmd = &cobra.Command{
	Use:   "sign <user>",
	Short: "issue an access token with the configured secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == cfg.App.EngineID {
			return fmt.Errorf("%s is the engine account", args[0])
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")
		token, err := session.Sign(cfg.Auth.Secret, args[0], ttl)
		if err != nil {
			return err
		}

		cmd.Println(token)
		return nil
	},
}

func init() {
	transactionsCmd.Flags().Int64("from", 0, "list entries after this id")
	transactionsCmd.Flags().Int("limit", 50, "page size")
	signCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
}
