package cmd

import (
	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "deliver pending payouts",
	Run: func(cmd *cobra.Command, args []string) {
		mustValidConfig()

		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		s := provideStorage(false)
		defer s.close()

		if err := provideCashier(s).Run(ctx); err != nil {
			log.WithError(err).Errorln("cashier stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
