package cashier

import (
	"context"

	"lending/core"
	"lending/pkg/metrics"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const defaultSchedule = "@every 1s"

// Cashier cashier
//
// deliver pending payouts and mark them done
type Cashier struct {
	worker.BaseJob
	transferStore core.ITransferStore
	walletService core.IWalletService
	metrics       *metrics.LedgerMetrics
	cfg           core.Cashier
}

// New new cashier
func New(
	transferStr core.ITransferStore,
	walletSrv core.IWalletService,
	cfg core.Cashier,
) *Cashier {
	if cfg.Batch <= 0 {
		cfg.Batch = 100
	}

	if cfg.Schedule == "" {
		cfg.Schedule = defaultSchedule
	}

	return &Cashier{
		transferStore: transferStr,
		walletService: walletSrv,
		metrics:       metrics.Ledger(),
		cfg:           cfg,
	}
}

// Run run worker until ctx is done
func (w *Cashier) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "cashier")
	ctx = logger.WithContext(ctx, log)

	f := w.sync
	if w.cfg.Capacity > 1 {
		f = w.parallel(w.cfg.Capacity)
	}

	w.OnWork = func() error {
		return w.onWork(ctx, f)
	}

	if err := w.Schedule("UTC", w.cfg.Schedule); err != nil {
		log.WithError(err).Errorln("schedule", w.cfg.Schedule)
		return err
	}

	return w.Serve(ctx)
}

// Drain deliver pending transfers until none are left or a delivery fails
func (w *Cashier) Drain(ctx context.Context) error {
	for {
		transfers, err := w.transferStore.ListPending(ctx, w.cfg.Batch)
		if err != nil {
			return err
		}

		if len(transfers) == 0 {
			return nil
		}

		if err := w.sync(ctx, transfers); err != nil {
			return err
		}
	}
}

func (w *Cashier) onWork(ctx context.Context, f func(context.Context, []*core.Transfer) error) error {
	log := logger.FromContext(ctx)

	transfers, err := w.transferStore.ListPending(ctx, w.cfg.Batch)
	if err != nil {
		log.WithError(err).Errorln("list transfers")
		return err
	}

	if len(transfers) == 0 {
		return nil
	}

	return f(ctx, transfers)
}

func (w *Cashier) sync(ctx context.Context, transfers []*core.Transfer) error {
	for _, transfer := range transfers {
		if err := w.handleTransfer(ctx, transfer); err != nil {
			return err
		}
	}

	return nil
}

func (w *Cashier) parallel(capacity int64) func(ctx context.Context, transfers []*core.Transfer) error {
	sem := semaphore.NewWeighted(capacity)

	return func(ctx context.Context, transfers []*core.Transfer) error {
		g := errgroup.Group{}

		for idx := range transfers {
			transfer := transfers[idx]

			if err := sem.Acquire(ctx, 1); err != nil {
				return g.Wait()
			}

			g.Go(func() error {
				defer sem.Release(1)
				return w.handleTransfer(ctx, transfer)
			})
		}

		return g.Wait()
	}
}

func (w *Cashier) handleTransfer(ctx context.Context, transfer *core.Transfer) error {
	log := logger.FromContext(ctx).WithField("trace", transfer.TraceID)

	err := w.walletService.HandleTransfer(ctx, transfer)
	w.metrics.ObservePayout(err)
	if err != nil {
		log.WithError(err).Errorln("wallets.HandleTransfer")
		return err
	}

	if err := w.transferStore.UpdateStatus(ctx, transfer, core.TransferStatusDone); err != nil {
		log.WithError(err).Errorln("transfers.UpdateStatus")
		return err
	}

	return nil
}
