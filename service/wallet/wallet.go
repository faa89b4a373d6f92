package wallet

import (
	"context"
	"errors"

	"lending/core"
	"lending/pkg/id"
	"lending/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config custody endpoint, empty endpoint only logs payouts
type Config struct {
	Endpoint string
	Token    string
}

// New new wallet service
func New(transferStore core.ITransferStore, cfg Config) core.IWalletService {
	return &walletService{
		transferStore: transferStore,
		cfg:           cfg,
	}
}

type walletService struct {
	transferStore core.ITransferStore
	cfg           Config
}

type transferRequest struct {
	TraceID    string          `json:"trace_id"`
	OpponentID string          `json:"opponent_id"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo,omitempty"`
}

func (s *walletService) Transfer(ctx context.Context, tx *db.DB, opponentID string, amount decimal.Decimal, memo string) (*core.Transfer, error) {
	transfer := &core.Transfer{
		TraceID:    id.GenTraceID(),
		OpponentID: opponentID,
		Amount:     amount,
		Memo:       memo,
		Status:     core.TransferStatusPending,
	}

	if err := s.transferStore.Create(ctx, tx, transfer); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("transfers.Create")
		return nil, err
	}

	return transfer, nil
}

// HandleTransfer post the payout to the custody endpoint. The trace id is sent
// as the request id so the custodian can drop redeliveries.
func (s *walletService) HandleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	if !id.IsTraceID(transfer.TraceID) {
		return errors.New("wallet: invalid transfer trace id")
	}

	if s.cfg.Endpoint == "" {
		log.Infof("payout %s to %s (%s)", transfer.Amount, transfer.OpponentID, transfer.Memo)
		return nil
	}

	req := resthttp.WithRequestID(ctx, transfer.TraceID)
	if s.cfg.Token != "" {
		req = req.SetAuthToken(s.cfg.Token)
	}

	_, err := resthttp.Execute(req, "POST", s.cfg.Endpoint, transferRequest{
		TraceID:    transfer.TraceID,
		OpponentID: transfer.OpponentID,
		Amount:     transfer.Amount,
		Memo:       transfer.Memo,
	}, nil)
	if err != nil {
		log.WithError(err).Errorln("custody transfer")
		return err
	}

	return nil
}
