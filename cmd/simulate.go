package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lumenarb/flasharb/config"
	"github.com/lumenarb/flasharb/utils"
)

var simulateFlags struct {
	watch    bool
	interval time.Duration
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project the net profit of a route without executing it",
	Run: func(cmd *cobra.Command, args []string) {
		log := utils.GetLogger()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Fatal("Failed to load config", zap.Error(err))
		}

		exec, _, err := bootstrap(cfg, log)
		if err != nil {
			log.Fatal("Failed to bootstrap executor", zap.Error(err))
		}

		params, err := buildParams(cfg)
		if err != nil {
			log.Fatal("Invalid parameters", zap.Error(err))
		}

		ctx := cmd.Context()
		decimals := cfg.DecimalsFor(params.TokenBorrow)

		if !simulateFlags.watch {
			projected, err := exec.SimulateArbitrage(ctx, params)
			if err != nil {
				log.Fatal("Simulation failed", zap.Error(err))
			}
			log.Info("simulation complete",
				zap.String("projected_net_profit", formatAmount(projected, decimals)),
			)
			return
		}

		limiter := rate.NewLimiter(rate.Every(simulateFlags.interval), 1)
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			projected, err := exec.SimulateArbitrage(ctx, params)
			if err != nil {
				log.Error("Simulation failed", zap.Error(err))
				continue
			}
			log.Info("projected net profit",
				zap.String("amount", formatAmount(projected, decimals)),
			)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().AddFlagSet(executeCmd.Flags())
	simulateCmd.Flags().BoolVar(&simulateFlags.watch, "watch", false, "keep simulating at a fixed interval")
	simulateCmd.Flags().DurationVar(&simulateFlags.interval, "interval", 5*time.Second, "interval between simulations in watch mode")
}
