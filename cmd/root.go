package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lumenarb/flasharb/utils"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "flasharb",
	Short: "An atomic flash loan arbitrage executor",
	Long: `flasharb borrows an asset via flash loan, routes it through two
sequential venue swaps, validates the net profit against caller-chosen
thresholds, repays the loan with its fee, and banks the surplus.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "flasharb.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initLogging() {
	utils.InitLogger(debug)
}
