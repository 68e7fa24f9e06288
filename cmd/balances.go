package cmd

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/common"

	"github.com/lumenarb/flasharb/config"
	"github.com/lumenarb/flasharb/utils"
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show executor holdings and banked profit per token",
	Run: func(cmd *cobra.Command, args []string) {
		log := utils.GetLogger()

		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Fatal("Failed to load config", zap.Error(err))
		}

		exec, ledger, err := bootstrap(cfg, log)
		if err != nil {
			log.Fatal("Failed to bootstrap executor", zap.Error(err))
		}

		account := cfg.ExecutorAddress()
		for _, t := range cfg.Tokens {
			tokenAddr := common.HexToAddress(t.Address)
			held := ledger.Balance(tokenAddr, account)
			profit := exec.GetProfitBalance(tokenAddr)
			fmt.Printf("%-8s held=%s profit=%s\n",
				t.Symbol,
				formatAmount(held, t.Decimals),
				formatAmount(profit, t.Decimals),
			)
		}
	},
}

// formatAmount renders a raw integer amount at the token's precision.
func formatAmount(amount *big.Int, decimals int32) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -decimals).String()
}

func init() {
	rootCmd.AddCommand(balancesCmd)
}
