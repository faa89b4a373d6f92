package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lending/handler"
	"lending/handler/hc"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lending api server",
	Run: func(cmd *cobra.Command, args []string) {
		mustValidConfig()

		ctx := cmd.Context()
		inMemory, _ := cmd.Flags().GetBool("memory")
		withCashier, _ := cmd.Flags().GetBool("cashier")

		s := provideStorage(inMemory)
		defer s.close()

		ledger := provideLedger(s)
		defer ledger.Close()

		svr := handler.New(provideConfig(), ledger, provideSession())

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			//hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version, hc.Check{Name: "storage", Fn: s.ping}))
		}

		{
			//metrics
			mux.Handle("/metrics", promhttp.Handler())
		}

		{
			//restful api
			mux.Mount("/api", svr.HandleRestAPI())
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		ctx = signal.WithContextFunc(ctx, func() {
			logrus.Infoln("shutting down")
		})

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logrus.Infoln("serve at", addr)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}

			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			return nil
		})

		if withCashier {
			// the in-memory outbox is only reachable from this process
			g.Go(func() error {
				return provideCashier(s).Run(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			logrus.WithError(err).Fatal("server aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("memory", false, "keep the ledger in memory instead of the database")
	serverCmd.Flags().Bool("cashier", false, "deliver payouts from this process")
}
